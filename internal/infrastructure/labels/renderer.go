package labels

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// LabelData carries everything one printable label needs. It is assembled
// by the fulfillment pipeline after parcel computation; rendering never
// reaches back into repositories.
type LabelData struct {
	Platform     string
	CustomerName string
	// AddressFragment is the display address: street, district and city
	AddressFragment string
	TotalDesi       decimal.Decimal
	// Barcode is the carrier tracking number when present, otherwise the
	// order number.
	Barcode string
	// OfficialTracking is false when Barcode falls back to the order number
	OfficialTracking bool
	ProductCode      string
	ProductName      string
	OrderNumber      string
}

// Renderer produces one printable HTML document for a label batch. It is a
// pure function of its inputs; a missing tracking number degrades to the
// fallback barcode instead of failing.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a renderer with the default label template
func NewRenderer() *Renderer {
	return &Renderer{tmpl: defaultTemplate}
}

// NewRendererWithTemplate creates a renderer with a custom label template.
// The template receives a documentData value.
func NewRendererWithTemplate(content string) (*Renderer, error) {
	tmpl, err := template.New("labels").Funcs(funcMap).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("labels: invalid template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// documentData is the root value handed to the template
type documentData struct {
	Labels []LabelData
}

// Render produces the printable document for the batch
func (r *Renderer) Render(batch []LabelData) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, documentData{Labels: batch}); err != nil {
		return "", fmt.Errorf("labels: render failed: %w", err)
	}
	return b.String(), nil
}

// funcMap holds the formatting helpers label templates may use
var funcMap = template.FuncMap{
	"formatDesi": formatDesi,
	"upper":      strings.ToUpper,
	"default": func(fallback, value string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	},
}

func formatDesi(d decimal.Decimal) string {
	return d.StringFixed(2)
}
