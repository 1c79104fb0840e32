package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"optics-shop/internal/core"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var orderTemplate = template.Must(template.ParseFS(templateFS, "templates/order.html.tmpl"))

// RenderHTML renders the printable order document.
func RenderHTML(doc core.OrderDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := orderTemplate.ExecuteTemplate(&buf, "order.html.tmpl", doc); err != nil {
		return nil, fmt.Errorf("failed to render order %s: %w", doc.OrderNumber, err)
	}
	return buf.Bytes(), nil
}
