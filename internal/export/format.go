package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for a format no rasterizer is registered for.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts html, jpeg/jpg and pdf. Empty means html.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("format %q: %w", s, ErrUnsupportedFormat)
}

// Extension is the file extension used in blob keys.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}

// Rasterizer turns a rendered HTML document into its final byte form.
// Implementations wrap an external renderer such as a headless browser.
type Rasterizer interface {
	Rasterize(ctx context.Context, html []byte) ([]byte, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(ctx context.Context, html []byte) ([]byte, error)

func (f RasterizerFunc) Rasterize(ctx context.Context, html []byte) ([]byte, error) {
	return f(ctx, html)
}

// HTMLRasterizer passes the rendered document through unchanged.
type HTMLRasterizer struct{}

func (HTMLRasterizer) Rasterize(ctx context.Context, html []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return html, nil
}
