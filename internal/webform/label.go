package webform

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// ResolveLabel finds a human readable label for a form control. The first
// non-empty candidate wins: a label pointing at the control's id, a wrapping
// label, the placeholder, the name, and finally UnknownLabel.
func ResolveLabel(doc *dom.Document, n *html.Node) string {
	if id := dom.ID(n); id != "" {
		if label := doc.LabelFor(id); label != nil {
			if text := strings.TrimSpace(dom.TextContent(label)); text != "" {
				return text
			}
		}
	}

	if parent := dom.Closest(n, "label"); parent != nil {
		if text := strings.TrimSpace(dom.TextContent(parent)); text != "" {
			return text
		}
	}

	if placeholder := dom.AttrOr(n, "placeholder", ""); placeholder != "" {
		return placeholder
	}
	if name := dom.Name(n); name != "" {
		return name
	}
	return UnknownLabel
}

// optionLabel labels a single checkbox or radio by the trimmed text of the
// element that follows it. Blank text falls back to the value.
func optionLabel(n *html.Node, value string) string {
	if sib := dom.NextElementSibling(n); sib != nil {
		if text := strings.TrimSpace(dom.TextContent(sib)); text != "" {
			return text
		}
	}
	return value
}
