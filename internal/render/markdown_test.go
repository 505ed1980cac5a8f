package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRendersMarkdown(t *testing.T) {
	r := New()

	html, err := r.HTML("Some **bold** text")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestHTMLRendersGFMTables(t *testing.T) {
	r := New()

	html, err := r.HTML("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
}

func TestHTMLStripsScripts(t *testing.T) {
	r := New()

	html, err := r.HTML("safe text\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "safe text")
}

func TestHTMLEmptyContent(t *testing.T) {
	r := New()

	html, err := r.HTML("")
	require.NoError(t, err)
	assert.Empty(t, html)
}
