package dashboard

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// renderExplainer converts the embedded metric explainers from markdown.
// The source is part of the binary, so the output is trusted HTML.
func renderExplainer() (template.HTML, error) {
	src, err := templateFS.ReadFile("templates/explainer.md")
	if err != nil {
		return "", err
	}
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
