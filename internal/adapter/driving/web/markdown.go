package web

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	docsRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	// Raw HTML passes through goldmark and is filtered here.
	docsPolicy = bluemonday.UGCPolicy()
)

// renderEndpointDocs converts the markdown endpoint reference to sanitized HTML.
func renderEndpointDocs(src string) (string, error) {
	var buf bytes.Buffer
	if err := docsRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render endpoint docs: %w", err)
	}
	return docsPolicy.Sanitize(buf.String()), nil
}
