// Package questions turns form fields into conversational questions.
//
// A Generator asks a language model to phrase the question. Every model
// backed generator is wrapped so that any failure degrades to the template
// based Fallback, which never fails.
package questions

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Field is the part of a form field a question is generated from
type Field struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Label   string   `json:"label" yaml:"label"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Question is the text shown to the user for one field
type Question struct {
	Text        string `json:"question" yaml:"question"`
	Explanation string `json:"explanation" yaml:"explanation"`
	FieldName   string `json:"field_name" yaml:"field_name"`
}

// Generator phrases a question for a field. docContext is free text about the
// surrounding document (PDF text or form markup) and may be empty.
type Generator interface {
	Generate(ctx context.Context, field Field, docContext string) (Question, error)
}

// Humanize turns a field name like "first_name" into "First Name"
func Humanize(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	var sb strings.Builder
	prevLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

// Simple is the question used when even generation around the fallback
// breaks down.
func Simple(fieldName string) Question {
	return Question{
		Text:        fmt.Sprintf("Please provide %s:", fieldName),
		Explanation: "Enter the required information.",
		FieldName:   fieldName,
	}
}
