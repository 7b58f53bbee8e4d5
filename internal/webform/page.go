package webform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// Actions understood by Page.Handle
const (
	ActionDetectForms     = "detectForms"
	ActionFillForm        = "fillForm"
	ActionExtractFormHTML = "extractFormHTML"
)

// Request is one message sent to a page
type Request struct {
	Action  string    `json:"action"`
	Answers AnswerMap `json:"answers,omitempty"`
}

// Response carries either data or a human readable error
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Page exposes form detection and filling over one document
type Page struct {
	doc    *dom.Document
	logger *zap.Logger
}

// NewPage wraps doc. A nil logger disables debug output.
func NewPage(doc *dom.Document, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{doc: doc, logger: logger}
}

// Document returns the page's document
func (p *Page) Document() *dom.Document {
	return p.doc
}

// DetectForms analyzes every form on the page
func (p *Page) DetectForms() (FormReport, error) {
	if p.doc == nil {
		return FormReport{}, fmt.Errorf("detect forms: %w", dom.ErrNoDocument)
	}
	p.logger.Debug("Detecting forms on page")

	report := Analyze(p.doc)
	if report.FormsFound == 0 {
		p.logger.Debug("No fillable forms found on page")
	} else {
		p.logger.Debug("Found fillable forms", zap.Int("forms", report.FormsFound))
	}
	return report, nil
}

// ExtractFormHTML returns the markup of all forms for backend analysis
func (p *Page) ExtractFormHTML() (string, error) {
	if p.doc == nil {
		return "", fmt.Errorf("extract form HTML: %w", dom.ErrNoDocument)
	}
	p.logger.Debug("Extracting form HTML")
	return ExtractFormHTML(p.doc)
}

// FillForm writes answers into the page's forms
func (p *Page) FillForm(answers AnswerMap) (FillResult, error) {
	if p.doc == nil {
		return FillResult{}, fmt.Errorf("fill form: %w", dom.ErrNoDocument)
	}
	p.logger.Debug("Filling form", zap.Int("answers", len(answers)))

	result := Fill(p.doc, answers)
	p.logger.Debug("Filled fields", zap.Int("fields_filled", result.FieldsFilled))
	return result, nil
}

// Handle dispatches a request by its action name
func (p *Page) Handle(req Request) Response {
	p.logger.Debug("Page received message", zap.String("action", req.Action))

	var (
		data any
		err  error
	)
	switch req.Action {
	case ActionDetectForms:
		data, err = p.DetectForms()
	case ActionFillForm:
		data, err = p.FillForm(req.Answers)
	case ActionExtractFormHTML:
		data, err = p.ExtractFormHTML()
	default:
		return Response{Success: false, Error: "Unknown action"}
	}

	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	return Response{Success: true, Data: data}
}
