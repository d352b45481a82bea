package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArtifactFiles_ValidFileMap(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "single file",
			content: `{"index.html": "<html></html>"}`,
		},
		{
			name:    "multiple files",
			content: `{"index.html": "<html></html>", "style.css": "body {}", "js/app.js": "console.log(1)"}`,
		},
		{
			name:    "empty content allowed",
			content: `{"index.html": ""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateArtifactFiles(tt.content))
		})
	}
}

func TestValidateArtifactFiles_EmptyObject(t *testing.T) {
	err := ValidateArtifactFiles(`{}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateArtifactFiles_NonStringContent(t *testing.T) {
	err := ValidateArtifactFiles(`{"index.html": 42}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateArtifactFiles_RootedPath(t *testing.T) {
	err := ValidateArtifactFiles(`{"/etc/passwd": "x"}`)
	require.Error(t, err)

	_, ok := err.(*ValidationError)
	assert.True(t, ok, "error should be ValidationError type")
}

func TestValidateArtifactFiles_NotAnObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "array", content: `["index.html"]`},
		{name: "string", content: `"index.html"`},
		{name: "number", content: `7`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtifactFiles(tt.content)
			require.Error(t, err)

			_, ok := err.(*ValidationError)
			assert.True(t, ok, "error should be ValidationError type")
		})
	}
}

func TestValidateArtifactFiles_MalformedJSON(t *testing.T) {
	err := ValidateArtifactFiles(`{ invalid json }`)
	require.Error(t, err)
	// gojsonschema reports document load failures before validation runs
}

func TestValidationError_MessageListsFields(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "(root)", Message: "Must have at least 1 properties"},
		{Field: "index.html", Message: "Invalid type"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "(root)")
	assert.Contains(t, msg, "index.html")
}
