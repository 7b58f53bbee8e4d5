package questions

import (
	"context"
	"fmt"
	"strings"
)

// Fallback phrases questions from fixed templates keyed by field type
type Fallback struct{}

// Generate never fails
func (Fallback) Generate(_ context.Context, field Field, _ string) (Question, error) {
	return FallbackQuestion(field), nil
}

// FallbackQuestion returns the template question for field
func FallbackQuestion(field Field) Question {
	label := field.Label
	if label == "" {
		label = Humanize(field.Name)
	}
	label = strings.ToLower(label)

	q := Question{FieldName: field.Name}
	switch field.Type {
	case "email":
		q.Text = fmt.Sprintf("What is your %s?", label)
		q.Explanation = "Please enter a valid email address."
	case "tel":
		q.Text = fmt.Sprintf("What is your %s?", label)
		q.Explanation = "Please enter your phone number."
	case "date":
		q.Text = fmt.Sprintf("What is the %s?", label)
		q.Explanation = "Please enter the date (e.g., MM/DD/YYYY)."
	case "select":
		q.Text = fmt.Sprintf("Please select %s", label)
		q.Explanation = "Choose from the available options."
	default:
		q.Text = fmt.Sprintf("What is your %s?", label)
		q.Explanation = "Please provide the requested information."
	}
	return q
}
