package webform

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

// Selector builds a CSS-like path that locates n again later.
//
// An element with an id is returned as "#id". Otherwise each step up the
// tree contributes "tag" or "tag.firstClass" until an ancestor with an id is
// reached (contributing "#id" and ending the walk) or the top element is hit.
// The top element itself never appears, since it has no parent element.
func Selector(n *html.Node) string {
	if id := dom.ID(n); id != "" {
		return "#" + id
	}

	var names []string
	for cur := n; dom.ParentElement(cur) != nil; cur = cur.Parent {
		if id := dom.ID(cur); id != "" {
			names = append(names, "#"+id)
			break
		}
		step := dom.TagName(cur)
		if class := dom.FirstClass(cur); class != "" {
			step += "." + class
		}
		names = append(names, step)
	}

	// collected bottom-up
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " > ")
}
