package webform

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// Analyze scans every form of the document. Forms without fillable fields
// are left out, but ids keep the position among all forms, so "form_0" may
// be followed by "form_2".
func Analyze(doc *dom.Document) FormReport {
	report := FormReport{Forms: []FormDescriptor{}}

	for index, form := range doc.Forms() {
		fields := ExtractFields(doc, form)
		if len(fields) == 0 {
			continue
		}
		report.Forms = append(report.Forms, FormDescriptor{
			ID:       fmt.Sprintf("form_%d", index),
			Name:     dom.AttrOr(form, "name", fmt.Sprintf("Form %d", index+1)),
			Action:   dom.AttrOr(form, "action", ""),
			Method:   dom.AttrOr(form, "method", DefaultMethod),
			Fields:   fields,
			Selector: Selector(form),
		})
	}

	report.FormsFound = len(report.Forms)
	return report
}

// ExtractFormHTML returns the outer markup of every form, each followed by a
// newline. Nothing is filtered out.
func ExtractFormHTML(doc *dom.Document) (string, error) {
	var sb strings.Builder
	for _, form := range doc.Forms() {
		markup, err := dom.OuterHTML(form)
		if err != nil {
			return "", fmt.Errorf("failed to render form: %w", err)
		}
		sb.WriteString(markup)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
