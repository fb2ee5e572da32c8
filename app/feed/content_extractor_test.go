package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentExtractor_Run(t *testing.T) {
	extractor := NewContentExtractor()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
		{"plain text", "rtx 3080 FE", "rtx 3080 FE"},
		{"paragraphs keep a gap", "<p>Selling GPU</p><p>Local only</p>", "Selling GPU Local only"},
		{"line breaks", "timestamps<br>imgur link<br/>paypal", "timestamps imgur link paypal"},
		{"list items", "<ul><li>3080</li><li>5800x</li></ul>", "3080 5800x"},
		{"inline markup", "<p>Has <b>bold</b> and <a href=\"https://imgur.com\">links</a></p>", "Has bold and links"},
		{"entities", "<p>cash &amp; trades</p>", "cash & trades"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.Run(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
