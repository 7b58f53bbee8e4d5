// Package dom provides the element tree that form discovery and filling operate on.
//
// A Document wraps a parsed golang.org/x/net/html tree. Callers borrow node
// references for the duration of one operation; nothing in this package keeps
// nodes alive across calls except the Document itself.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ErrNoDocument is returned when an operation is attempted without a document.
var ErrNoDocument = errors.New("no document available")

// Event types dispatched by the form filler.
const (
	EventChange = "change"
	EventInput  = "input"
)

// Event is a synthetic notification dispatched from an element
type Event struct {
	Type          string
	Bubbles       bool
	Target        *html.Node
	CurrentTarget *html.Node
}

// Listener receives dispatched events
type Listener func(Event)

// Document is a mutable element tree plus its registered event listeners
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Listener
}

// NewDocument wraps an existing tree
func NewDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Listener),
	}
}

// Parse reads an HTML document from r
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString parses an HTML document held in memory
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node
func (d *Document) Root() *html.Node {
	return d.root
}

// Forms returns every form element in document order
func (d *Document) Forms() []*html.Node {
	return htmlquery.Find(d.root, "//form")
}

// LabelFor returns the first label element whose for attribute equals id.
// The comparison is done in Go rather than inside the XPath expression so
// that ids containing quotes cannot break the query.
func (d *Document) LabelFor(id string) *html.Node {
	if id == "" {
		return nil
	}
	for _, label := range htmlquery.Find(d.root, "//label[@for]") {
		if AttrOr(label, "for", "") == id {
			return label
		}
	}
	return nil
}

// Query returns the elements under n matching the XPath expression
func Query(n *html.Node, expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(n, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return nodes, nil
}

// Render writes the document markup to w
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the full document markup
func (d *Document) HTML() (string, error) {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return sb.String(), nil
}

// AddEventListener registers fn for events of type typ reaching n.
// Registering on Root() observes every bubbling event in the document.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], fn)
}

// Dispatch delivers an event of type typ to target and, when bubbles is set,
// to each of its ancestors up to the document node.
func (d *Document) Dispatch(target *html.Node, typ string, bubbles bool) {
	ev := Event{Type: typ, Bubbles: bubbles, Target: target}
	for n := target; n != nil; n = n.Parent {
		ev.CurrentTarget = n
		for _, fn := range d.listeners[n][typ] {
			fn(ev)
		}
		if !bubbles {
			return
		}
	}
}
