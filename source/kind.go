// Package source describes the upstream connectivity sources and locates
// their record files.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies an upstream source of connectivity statements.
type Kind string

const (
	// KindNeuronDM records are neuron descriptions that need normalization.
	KindNeuronDM Kind = "NEURONDM"

	// KindComposer records are statements already in final shape.
	KindComposer Kind = "COMPOSER"
)

// ErrUnknownKind is returned for an unrecognized source name.
var ErrUnknownKind = errors.New("unknown source kind")

// Kinds lists every supported source.
func Kinds() []Kind { return []Kind{KindNeuronDM, KindComposer} }

// ParseKind parses a source name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindNeuronDM, KindComposer:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Label returns the prefix used in consistency messages for the source.
func (k Kind) Label() string {
	switch k {
	case KindNeuronDM:
		return "Neurondm"
	case KindComposer:
		return "Composer"
	default:
		return string(k)
	}
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
