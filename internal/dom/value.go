package dom

import (
	"golang.org/x/net/html"
)

// Value returns the current value of a form control.
//
// Inputs keep their value in the value attribute, textareas in their text
// content and selects in the selected option.
func Value(n *html.Node) string {
	switch TagName(n) {
	case "input":
		t, _ := InputType(n)
		if t == "checkbox" || t == "radio" {
			return AttrOr(n, "value", defaultCheckableValue)
		}
		return AttrOr(n, "value", "")
	case "textarea":
		return TextContent(n)
	case "select":
		if opt := SelectedOption(n); opt != nil {
			return OptionValue(opt)
		}
		return ""
	case "option":
		return OptionValue(n)
	default:
		return AttrOr(n, "value", "")
	}
}

// SetValue writes v as the current value of a form control
func SetValue(n *html.Node, v string) {
	switch TagName(n) {
	case "textarea":
		SetTextContent(n, v)
	case "select":
		selectByValue(n, v)
	default:
		SetAttr(n, "value", v)
	}
}

// noSelectionAttr marks a select whose value was set to something none of
// its options carry. It survives rendering so a re-parsed document still
// reports the empty selection.
const noSelectionAttr = "data-no-selection"

// SelectedOption returns the option a select currently reports as chosen:
// the last option carrying the selected attribute, else the first option.
// A multiple select, or one cleared by an unmatched SetValue, has no
// default and yields nil.
func SelectedOption(sel *html.Node) *html.Node {
	opts := Options(sel)
	if len(opts) == 0 {
		return nil
	}
	var chosen *html.Node
	for _, opt := range opts {
		if _, ok := Attr(opt, "selected"); ok {
			chosen = opt
		}
	}
	if chosen != nil {
		return chosen
	}
	if _, multiple := Attr(sel, "multiple"); multiple {
		return nil
	}
	if _, cleared := Attr(sel, noSelectionAttr); cleared {
		return nil
	}
	return opts[0]
}

// selectByValue marks the first option whose value equals v as selected and
// clears the rest. When nothing matches no option stays selected and the
// select reports an empty value.
func selectByValue(sel *html.Node, v string) {
	matched := false
	for _, opt := range Options(sel) {
		if !matched && OptionValue(opt) == v {
			SetAttr(opt, "selected", "")
			matched = true
			continue
		}
		RemoveAttr(opt, "selected")
	}
	if matched {
		RemoveAttr(sel, noSelectionAttr)
	} else {
		SetAttr(sel, noSelectionAttr, "")
	}
}

// Checked reports whether a checkbox or radio is checked
func Checked(n *html.Node) bool {
	_, ok := Attr(n, "checked")
	return ok
}

// SetChecked updates the checked state of a checkbox or radio. Checking a
// named radio unchecks the other radios of its group, the group being the
// radios sharing the name inside the same form (or the document when the
// radio has no form).
func SetChecked(n *html.Node, checked bool) {
	if !checked {
		RemoveAttr(n, "checked")
		return
	}
	SetAttr(n, "checked", "")

	t, _ := InputType(n)
	name := Name(n)
	if t != "radio" || name == "" {
		return
	}
	for _, other := range Descendants(radioGroupOwner(n), "input") {
		if other == n || Name(other) != name {
			continue
		}
		if ot, _ := InputType(other); ot == "radio" {
			RemoveAttr(other, "checked")
		}
	}
}

func radioGroupOwner(n *html.Node) *html.Node {
	if form := Closest(n, "form"); form != nil {
		return form
	}
	top := n
	for top.Parent != nil {
		top = top.Parent
	}
	return top
}
