package webform

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// textInputTypes are the input types reported as plain text fields
var textInputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"number":   true,
	"tel":      true,
	"password": true,
	"date":     true,
}

// isTextInput reports whether n is an input with one of the text-like types
func isTextInput(n *html.Node) bool {
	t, ok := dom.InputType(n)
	return ok && textInputTypes[t]
}

// isInputOfType reports whether n is an input whose type attribute equals typ
func isInputOfType(n *html.Node, typ string) bool {
	t, ok := dom.InputType(n)
	return ok && t == typ
}

// ExtractFields returns the fillable fields of form in this order: text-like
// inputs, textareas, selects, checkbox groups, radio groups. Each group keeps
// document order internally.
func ExtractFields(doc *dom.Document, form *html.Node) []FieldDescriptor {
	var fields []FieldDescriptor
	inputs := dom.Descendants(form, "input")

	for _, input := range inputs {
		if !isTextInput(input) {
			continue
		}
		fields = append(fields, FieldDescriptor{
			Name:         fieldName(input, len(fields)),
			Kind:         KindText,
			Label:        ResolveLabel(doc, input),
			CurrentValue: valuePtr(dom.Value(input)),
		})
	}

	for _, textarea := range dom.Descendants(form, "textarea") {
		fields = append(fields, FieldDescriptor{
			Name:         fieldName(textarea, len(fields)),
			Kind:         KindTextarea,
			Label:        ResolveLabel(doc, textarea),
			CurrentValue: valuePtr(dom.Value(textarea)),
		})
	}

	for _, sel := range dom.Descendants(form, "select") {
		opts := dom.Options(sel)
		options := make([]Option, 0, len(opts))
		for _, opt := range opts {
			options = append(options, Option{
				Value: dom.OptionValue(opt),
				Label: dom.OptionLabel(opt),
			})
		}
		fields = append(fields, FieldDescriptor{
			Name:         fieldName(sel, len(fields)),
			Kind:         KindSelect,
			Label:        ResolveLabel(doc, sel),
			CurrentValue: valuePtr(dom.Value(sel)),
			Options:      options,
		})
	}

	fields = appendGroups(fields, doc, inputs, "checkbox", KindCheckboxGroup)
	fields = appendGroups(fields, doc, inputs, "radio", KindRadioGroup)

	return fields
}

// appendGroups collapses same-named inputs of one type into a descriptor each
func appendGroups(fields []FieldDescriptor, doc *dom.Document, inputs []*html.Node, typ string,
	kind FieldKind,
) []FieldDescriptor {
	groups := newGroupSet()
	for _, input := range inputs {
		if !isInputOfType(input, typ) {
			continue
		}
		value := dom.Value(input)
		groups.add(dom.Name(input), input, func() string { return ResolveLabel(doc, input) }, Option{
			Value: value,
			Label: optionLabel(input, value),
		})
	}

	for _, g := range groups.ordered() {
		name := g.name
		if name == "" {
			name = fieldName(g.first, len(fields))
		}
		fields = append(fields, FieldDescriptor{
			Name:    name,
			Kind:    kind,
			Label:   g.label,
			Options: g.options,
		})
	}
	return fields
}

// fieldName keys a field by name, then id, then its position in the
// extracted list so far.
func fieldName(n *html.Node, extracted int) string {
	if name := dom.Name(n); name != "" {
		return name
	}
	if id := dom.ID(n); id != "" {
		return id
	}
	return fmt.Sprintf("field_%d", extracted)
}

func valuePtr(v string) *string {
	return &v
}

// group accumulates the options of same-named checkboxes or radios
type group struct {
	name    string
	label   string
	first   *html.Node
	options []Option
}

// groupSet is an ordered multimap from name to group, iterated in the order
// names were first seen.
type groupSet struct {
	order  []string
	byName map[string]*group
}

func newGroupSet() *groupSet {
	return &groupSet{byName: make(map[string]*group)}
}

// add appends opt to the group for name, creating the group (and resolving
// its label) on first sight.
func (s *groupSet) add(name string, n *html.Node, label func() string, opt Option) {
	g, ok := s.byName[name]
	if !ok {
		g = &group{name: name, label: label(), first: n}
		s.byName[name] = g
		s.order = append(s.order, name)
	}
	g.options = append(g.options, opt)
}

func (s *groupSet) ordered() []*group {
	out := make([]*group, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
