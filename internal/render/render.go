package render

import (
	"regexp"
	"strings"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

var breakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// NormalizeAnswer converts the HTML line breaks the service sometimes sends
// into newlines.
func NormalizeAnswer(text string) string {
	return breakTag.ReplaceAllString(text, "\n")
}

// Answer renders an answer at the given width. Rendering failures fall back
// to the plain text; an answer must always be shown.
func Answer(text string, opts Options) string {
	text = NormalizeAnswer(text)
	rendered, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}
