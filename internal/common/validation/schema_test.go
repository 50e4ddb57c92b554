package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["cuisine"],
  "properties": {
    "cuisine": {"type": "string", "minLength": 1},
    "numberOfPeople": {"type": "string"}
  }
}`

func TestSchema_ValidateBytes(t *testing.T) {
	schema, err := Compile(testSchema)
	require.NoError(t, err)

	tests := []struct {
		name      string
		document  string
		valid     bool
		errField  string
		errorCode string
	}{
		{name: "valid", document: `{"cuisine":"Thai","numberOfPeople":"4"}`, valid: true},
		{name: "missing required", document: `{"numberOfPeople":"4"}`, errField: "cuisine", errorCode: "REQUIRED"},
		{name: "empty string", document: `{"cuisine":""}`, errField: "cuisine", errorCode: "STRING_GTE"},
		{name: "wrong type", document: `{"cuisine":"Thai","numberOfPeople":4}`, errField: "numberOfPeople", errorCode: "INVALID_TYPE"},
		{name: "not json", document: `not json`, errField: "(root)", errorCode: "MALFORMED_DOCUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.ValidateBytes([]byte(tt.document))
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				assert.True(t, result.HasErrors(tt.errField), "errors: %v", result.GetErrorMessages())
				assert.Equal(t, tt.errorCode, result.Errors[0].Code)
			}
		})
	}
}

func TestSchema_ValidateInput(t *testing.T) {
	schema := MustCompile(testSchema)

	assert.True(t, schema.ValidateInput(map[string]interface{}{"cuisine": "Thai"}).Valid)
	assert.False(t, schema.ValidateInput(map[string]interface{}{}).Valid)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}
