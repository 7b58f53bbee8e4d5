package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// defaultCheckableValue is what browsers report for a checkbox or radio
// without a value attribute.
const defaultCheckableValue = "on"

// IsElement reports whether n is an element node
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// TagName returns the lowercased tag name of an element
func TagName(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of the attribute key and whether it is present
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when the attribute is absent
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// SetAttr sets or replaces an attribute
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// ID returns the id attribute
func ID(n *html.Node) string {
	return AttrOr(n, "id", "")
}

// Name returns the name attribute
func Name(n *html.Node) string {
	return AttrOr(n, "name", "")
}

// FirstClass returns the first entry of the class list, or "" when there is none
func FirstClass(n *html.Node) string {
	classes := strings.Fields(AttrOr(n, "class", ""))
	if len(classes) == 0 {
		return ""
	}
	return classes[0]
}

// InputType returns the lowercased type attribute of an input and whether it is set.
// Form discovery matches on the attribute itself, so an input without one is not
// treated as a text box.
func InputType(n *html.Node) (string, bool) {
	t, ok := Attr(n, "type")
	return strings.ToLower(strings.TrimSpace(t)), ok
}

// ParentElement returns the parent if it is an element
func ParentElement(n *html.Node) *html.Node {
	if n == nil || !IsElement(n.Parent) {
		return nil
	}
	return n.Parent
}

// Closest returns n or the nearest ancestor element with the given tag
func Closest(n *html.Node, tag string) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if TagName(cur) == tag {
			return cur
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if IsElement(s) {
			return s
		}
	}
	return nil
}

// TextContent concatenates every descendant text node
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// SetTextContent replaces all children of n with a single text node
func SetTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// OuterHTML renders n including its own tag
func OuterHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Descendants returns the descendant elements of n with the given tag in document order
func Descendants(n *html.Node, tag string) []*html.Node {
	return htmlquery.Find(n, ".//"+tag)
}

// Options returns the option elements of a select in document order
func Options(sel *html.Node) []*html.Node {
	return Descendants(sel, "option")
}

// OptionValue returns the value attribute of an option, falling back to its
// whitespace-collapsed text the way browsers do.
func OptionValue(opt *html.Node) string {
	if v, ok := Attr(opt, "value"); ok {
		return v
	}
	return collapseSpace(TextContent(opt))
}

// OptionLabel returns the visible text of an option
func OptionLabel(opt *html.Node) string {
	return collapseSpace(TextContent(opt))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
