package export

import (
	"fmt"
	"strings"

	ssexport "github.com/c360studio/semstreams/vocabulary/export"
)

// Format specifies the output serialization format.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatJSONLD   Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name      Format
	MIMEType  string
	Extension string
}

// Formats contains metadata for all supported formats.
var Formats = map[Format]FormatInfo{
	FormatTurtle:   {Name: FormatTurtle, MIMEType: "text/turtle", Extension: ".ttl"},
	FormatNTriples: {Name: FormatNTriples, MIMEType: "application/n-triples", Extension: ".nt"},
	FormatJSONLD:   {Name: FormatJSONLD, MIMEType: "application/ld+json", Extension: ".jsonld"},
}

// ParseFormat parses a format name; empty means turtle.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTurtle, nil
	}
	if _, ok := Formats[f]; !ok {
		return "", fmt.Errorf("unsupported format: %s (valid: turtle, ntriples, jsonld)", s)
	}
	return f, nil
}

func (f Format) serializer() ssexport.Format {
	switch f {
	case FormatNTriples:
		return ssexport.NTriples
	case FormatJSONLD:
		return ssexport.JSONLD
	default:
		return ssexport.Turtle
	}
}
