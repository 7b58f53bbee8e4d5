package webform

import (
	"fmt"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// CollectFields flattens the fields of several forms into one question list.
// The first field seen for a name wins; later fields with the same name are
// dropped. Missing kinds default to text and missing labels to the name.
func CollectFields(forms []FormDescriptor) []FieldDescriptor {
	seen := make(map[string]bool)
	var fields []FieldDescriptor
	for _, form := range forms {
		for _, field := range form.Fields {
			if field.Name == "" || seen[field.Name] {
				continue
			}
			seen[field.Name] = true
			if field.Kind == "" {
				field.Kind = KindText
			}
			if field.Label == "" {
				field.Label = field.Name
			}
			fields = append(fields, field)
		}
	}
	return fields
}

// FieldsFromHTML parses raw form markup (as produced by ExtractFormHTML) and
// returns its de-duplicated fields. It is used when the caller did not send a
// structured report along with the markup.
func FieldsFromHTML(markup string) ([]FieldDescriptor, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form markup: %w", err)
	}
	return CollectFields(Analyze(doc).Forms), nil
}
