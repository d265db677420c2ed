package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hoursSchema = `{
  "type": "object",
  "required": ["training_hours", "gender"],
  "properties": {
    "training_hours": {"type": "integer", "minimum": 0, "maximum": 300},
    "gender": {"type": "string"}
  }
}`

func TestSchema_ValidateBytes(t *testing.T) {
	schema, err := CompileJSON(hoursSchema)
	require.NoError(t, err)

	tests := []struct {
		name       string
		doc        string
		valid      bool
		errorField string
	}{
		{name: "valid", doc: `{"training_hours": 40, "gender": "Male"}`, valid: true},
		{name: "above maximum", doc: `{"training_hours": 301, "gender": "Male"}`, errorField: "training_hours"},
		{name: "wrong type", doc: `{"training_hours": "forty", "gender": "Male"}`, errorField: "training_hours"},
		{name: "missing field", doc: `{"training_hours": 40}`, errorField: "gender"},
		{name: "malformed", doc: `{"training_hours": `, errorField: "(root)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.ValidateBytes([]byte(tt.doc))
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Nil(t, result.FirstError())
				return
			}
			assert.True(t, result.HasErrors(tt.errorField), "errors: %v", result.GetErrorMessages())
		})
	}
}

func TestSchema_ValidateValue(t *testing.T) {
	schema, err := Compile(map[string]interface{}{
		"type":     "array",
		"minItems": 1,
		"items":    map[string]interface{}{"type": "number"},
	})
	require.NoError(t, err)

	assert.True(t, schema.ValidateValue([]interface{}{1.5, 2.0}).Valid)
	assert.False(t, schema.ValidateValue([]interface{}{}).Valid)
	assert.False(t, schema.ValidateValue([]interface{}{"x"}).Valid)
}

func TestCompileJSON_InvalidSchema(t *testing.T) {
	_, err := CompileJSON(`{"type": 12}`)
	assert.Error(t, err)
}
