package chat

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Render converts an exchange log to HTML. Each turn's markdown is
// rendered inside a div classed by role. Raw HTML in turns is not passed
// through.
func Render(log []Turn) (string, error) {
	var buf bytes.Buffer
	for _, t := range log {
		fmt.Fprintf(&buf, "<div class=\"turn turn-%s\">", t.Role)
		if err := md.Convert([]byte(t.Text), &buf); err != nil {
			return "", fmt.Errorf("render %s turn: %w", t.Role, err)
		}
		buf.WriteString("</div>\n")
	}
	return buf.String(), nil
}
