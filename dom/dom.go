// CLAUDE:SUMMARY Parsed-HTML document model: parse/render plus the node traversal helpers the navigation engine mutates pages through.
// Package dom wraps golang.org/x/net/html with the small document model the
// navigation engine needs: lookup by id, head metadata access, class and
// attribute toggling, and wholesale replacement of an element's children.
//
// It is deliberately not a selector engine. The engine addresses exactly the
// handful of fixed anchor points its page contract defines (content region id,
// primary nav, head metadata), so every query here is a plain tree walk.
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document struct {
	Root *html.Node
}

// Parse reads and parses a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}

// ParseString parses a document held in memory. Convenience for tests and
// fixtures.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the document back to HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.Root)
}

// HTML returns the serialized document. Errors only on writer failure, which
// strings.Builder never produces, so they are swallowed.
func (d *Document) HTML() string {
	var sb strings.Builder
	_ = html.Render(&sb, d.Root)
	return sb.String()
}

// walk visits every node in the subtree until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// find returns the first node in the subtree satisfying pred.
func find(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// findAll returns every node in the subtree satisfying pred, in document order.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ElementByID returns the element with the given id attribute, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	return find(d.Root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	})
}

// Element returns the first element with the given atom, or nil.
func (d *Document) Element(a atom.Atom) *html.Node {
	return find(d.Root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	})
}

// Body returns the document's body element, or nil on a truncated parse.
func (d *Document) Body() *html.Node {
	return d.Element(atom.Body)
}

// ReplaceChildren removes every child of dst and reparents src's children
// under it, preserving their order. src is left empty; its children must not
// be reused afterward from the source document.
func ReplaceChildren(dst, src *html.Node) {
	for dst.FirstChild != nil {
		dst.RemoveChild(dst.FirstChild)
	}
	for src.FirstChild != nil {
		c := src.FirstChild
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// Text returns the concatenated visible text of a subtree, skipping script
// and style nodes, with runs of whitespace collapsed to single spaces.
func Text(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return sb.String()
}
