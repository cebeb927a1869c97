package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/NahomAnteneh/scm-predictor/core"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTitle is the dashboard heading
const DefaultTitle = "SCM Late Delivery Predictor"

// Headings of the page-level error block
const (
	HeadingArtifactUnavailable = "Model artifact could not be loaded"
	HeadingPredictionFailed    = "Prediction failed"
)

// Page is the view model of the dashboard
type Page struct {
	Title string

	// Error is a page-level failure; when set nothing else is rendered
	Error        string
	ErrorHeading string

	Input       core.ShipmentInput
	FieldErrors core.ValidationErrors

	ShippingModes []core.Label
	Regions       []core.Label
	Markets       []core.Label
	MinDays       int
	MaxDays       int
	MinQuantity   int

	Verdict      *core.Verdict
	AssessmentID string
	ModelKind    string
	Fingerprint  string
}

// NewPage returns a dashboard populated with the widget tables and the given input
func NewPage(in core.ShipmentInput) *Page {
	return &Page{
		Title:         DefaultTitle,
		Input:         in,
		ShippingModes: core.ShippingModes(),
		Regions:       core.Regions(),
		Markets:       core.Markets(),
		MinDays:       core.MinDaysScheduled,
		MaxDays:       core.MaxDaysScheduled,
		MinQuantity:   core.MinQuantity,
	}
}

// ErrorPage returns a page that only shows the failure under the given heading
func ErrorPage(heading, msg string) *Page {
	return &Page{Title: DefaultTitle, ErrorHeading: heading, Error: msg}
}

// Renderer executes the dashboard template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page with the given status. The template is executed into
// a buffer first so a template failure still produces a clean 500.
func (rr *Renderer) Render(w http.ResponseWriter, status int, p *Page) error {
	var buf bytes.Buffer
	if err := rr.tmpl.ExecuteTemplate(&buf, "dashboard.html", p); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
