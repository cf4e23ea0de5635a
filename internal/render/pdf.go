// Package render produces the sectioned complaint-form PDF from a canonical
// record, driving pdfcpu's create-from-JSON API with the registry's section
// layout.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

const (
	leftMargin  = 50.0
	topMargin   = 50.0
	pageBottom  = 780.0
	lineHeight  = 14.0
	headingGap  = 18.0
	sectionGap  = 10.0
	maxLineRune = 105
)

// Subset of pdfcpu's create-JSON schema used to describe the form.
type createForm struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []textBox `json:"text"`
}

type textBox struct {
	Value    string     `json:"value"`
	Position [2]float64 `json:"pos"`
	Font     font       `json:"font"`
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

var (
	titleFont   = font{Name: "Helvetica-Bold", Size: 16}
	headingFont = font{Name: "Helvetica-Bold", Size: 12}
	bodyFont    = font{Name: "Helvetica", Size: 11}
)

// PDFRenderer renders complaint records as A4 PDF documents.
type PDFRenderer struct {
	registry *schema.Registry
}

// NewPDFRenderer creates a renderer over the given schema registry.
func NewPDFRenderer(registry *schema.Registry) *PDFRenderer {
	return &PDFRenderer{registry: registry}
}

// Render lays out the record section by section in the registry's order and
// returns the PDF bytes.
func (r *PDFRenderer) Render(title string, rec domain.Record) ([]byte, error) {
	layout := newLayout()
	layout.add(title, titleFont, 30)

	for _, section := range r.registry.Sections() {
		layout.add(section.Title, headingFont, headingGap)
		for _, key := range section.Keys {
			for _, line := range wrap(fmt.Sprintf("%s: %s", key, rec[key])) {
				layout.add(line, bodyFont, lineHeight)
			}
		}
		layout.advance(sectionGap)
	}

	data, err := json.Marshal(layout.form())
	if err != nil {
		return nil, fmt.Errorf("marshaling form description: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(data), &buf, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("pdfcpu create: %w", err)
	}
	return buf.Bytes(), nil
}

// layout accumulates text boxes page by page, top-down.
type layout struct {
	pages   map[string]page
	current []textBox
	pageNr  int
	y       float64
}

func newLayout() *layout {
	return &layout{pages: map[string]page{}, pageNr: 1, y: topMargin}
}

func (l *layout) add(text string, f font, advance float64) {
	if l.y > pageBottom {
		l.flush()
		l.pageNr++
		l.current = nil
		l.y = topMargin
	}
	l.current = append(l.current, textBox{
		Value:    text,
		Position: [2]float64{leftMargin, l.y},
		Font:     f,
	})
	l.y += advance
}

func (l *layout) advance(dy float64) {
	l.y += dy
}

func (l *layout) flush() {
	l.pages[strconv.Itoa(l.pageNr)] = page{Content: content{Text: l.current}}
}

func (l *layout) form() createForm {
	l.flush()
	return createForm{Paper: "A4", Origin: "upperLeft", Pages: l.pages}
}

// wrap splits a field line by rune count; continuation lines are indented.
func wrap(s string) []string {
	runes := []rune(s)
	if len(runes) <= maxLineRune {
		return []string{s}
	}
	var out []string
	line := runes
	for len(line) > maxLineRune {
		out = append(out, string(line[:maxLineRune]))
		line = append([]rune("    "), line[maxLineRune:]...)
	}
	return append(out, string(line))
}
