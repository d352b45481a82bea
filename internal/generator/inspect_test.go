package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"simple title", "<html><head><title>Calculator</title></head></html>", "Calculator"},
		{"multi-line title", "<title>\n  My\n  App\n</title>", "My App"},
		{"no title", "<html><body>hi</body></html>", ""},
		{"empty content", "", ""},
		{"not html at all", "just some text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InspectHTML(tt.content))
		})
	}
}
