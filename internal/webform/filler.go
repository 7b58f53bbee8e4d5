package webform

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// Fill writes answers into every form of the document and returns how many
// fields were touched. Keys that match nothing are skipped silently.
//
// Text inputs and textareas get change and input notifications, selects and
// checkables only change. A checkbox counts every time it is visited; a radio
// group counts once per form however many of its radios are visited.
func Fill(doc *dom.Document, answers AnswerMap) FillResult {
	filled := 0
	for _, form := range doc.Forms() {
		filled += fillForm(doc, form, answers)
	}
	return FillResult{
		FieldsFilled: filled,
		Message:      fmt.Sprintf("Successfully filled %d form fields", filled),
	}
}

func fillForm(doc *dom.Document, form *html.Node, answers AnswerMap) int {
	filled := 0
	inputs := dom.Descendants(form, "input")

	for _, input := range inputs {
		if !isTextInput(input) {
			continue
		}
		if fillValue(doc, input, answers, true) {
			filled++
		}
	}

	for _, textarea := range dom.Descendants(form, "textarea") {
		if fillValue(doc, textarea, answers, true) {
			filled++
		}
	}

	for _, sel := range dom.Descendants(form, "select") {
		if fillValue(doc, sel, answers, false) {
			filled++
		}
	}

	for _, checkbox := range inputs {
		if !isInputOfType(checkbox, "checkbox") {
			continue
		}
		answer, ok := answers.lookup(dom.Name(checkbox))
		if !ok {
			continue
		}
		dom.SetChecked(checkbox, checkboxMatches(answer, dom.Value(checkbox)))
		doc.Dispatch(checkbox, dom.EventChange, true)
		filled++
	}

	radioGroups := make(map[string]bool)
	for _, radio := range inputs {
		if !isInputOfType(radio, "radio") {
			continue
		}
		name := dom.Name(radio)
		answer, ok := answers.lookup(name)
		if !ok {
			continue
		}
		if !answer.IsMulti() && answer.String() == dom.Value(radio) {
			dom.SetChecked(radio, true)
		}
		doc.Dispatch(radio, dom.EventChange, true)
		radioGroups[name] = true
	}
	filled += len(radioGroups)

	return filled
}

// fillValue overwrites the value of a text-like control keyed by name or id
func fillValue(doc *dom.Document, n *html.Node, answers AnswerMap, emitInput bool) bool {
	key := dom.Name(n)
	if key == "" {
		key = dom.ID(n)
	}
	answer, ok := answers.lookup(key)
	if !ok {
		return false
	}
	dom.SetValue(n, answer.String())
	doc.Dispatch(n, dom.EventChange, true)
	if emitInput {
		doc.Dispatch(n, dom.EventInput, true)
	}
	return true
}

// checkboxMatches decides the checked state of a checkbox with the given
// value. A list answer checks exactly its members; a scalar answer checks on
// "yes" (any case), an exact match, or when it contains the value.
func checkboxMatches(answer Answer, value string) bool {
	if answer.IsMulti() {
		return answer.Contains(value)
	}
	s := answer.String()
	return strings.EqualFold(s, "yes") || s == value || strings.Contains(s, value)
}
