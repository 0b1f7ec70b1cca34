package extract

import (
	"bytes"
	"context"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// MarkdownFile extracts the text of a Markdown file.
func MarkdownFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Markdown(data)
}

// Markdown renders src to HTML and returns its visible text, so markup
// such as emphasis markers and link targets does not reach the tokenizer.
func Markdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", err
	}
	return HTML(&buf)
}
