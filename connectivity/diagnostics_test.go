package connectivity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors_String(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		v := NewValidationErrors()
		assert.False(t, v.HasErrors())
		assert.Equal(t, "No validation errors.", v.String())
	})

	t.Run("nil", func(t *testing.T) {
		var v *ValidationErrors
		assert.False(t, v.HasErrors())
		assert.Equal(t, "No validation errors.", v.String())
	})

	t.Run("all sections in order", func(t *testing.T) {
		v := NewValidationErrors()
		v.NonSpecified = append(v.NonSpecified, "first free text", "second free text")
		v.AxiomNotFound.Add("x2")
		v.AxiomNotFound.Add("x1")
		v.ForwardConnection.Add("fc")
		v.Species.Add("sp")
		v.Sex.Add("sex")
		v.Entities.Add("ent")

		assert.True(t, v.HasErrors())
		assert.Equal(t,
			"Entities not found: ent; Sex information not found: sex; Species not found: sp; "+
				"Forward connection(s) not found: fc; Axiom(s) not found for: x1, x2; "+
				"first free text; second free text",
			v.String())
	})
}

func TestValidationErrors_CloneIsDeep(t *testing.T) {
	v := NewValidationErrors()
	v.AxiomNotFound.Add("x")
	v.NonSpecified = append(v.NonSpecified, "m")

	c := v.Clone()
	c.AxiomNotFound.Add("y")
	c.NonSpecified = append(c.NonSpecified, "n")

	assert.Len(t, v.AxiomNotFound, 1)
	assert.Equal(t, []string{"m"}, v.NonSpecified)
	assert.Len(t, c.AxiomNotFound, 2)
}

func TestValidationErrors_JSON(t *testing.T) {
	v := NewValidationErrors()
	v.AxiomNotFound.Add("b")
	v.AxiomNotFound.Add("a")

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"entities": [], "sex": [], "species": [], "forward_connection": [],
		"axiom_not_found": ["a", "b"], "non_specified": []
	}`, string(data))

	var decoded ValidationErrors
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded.AxiomNotFound.Sorted())
}

func TestInconsistencyError(t *testing.T) {
	err := fmt.Errorf("normalize: %w", &InconsistencyError{
		StatementID: "n1",
		Message:     "No partial order found",
		Err:         ErrNoPartialOrder,
	})

	assert.True(t, errors.Is(err, ErrNoPartialOrder))
	assert.True(t, IsInconsistency(err))
	assert.Contains(t, err.Error(), "statement n1: No partial order found")
	assert.False(t, IsInconsistency(errors.New("other")))
}
