// CLAUDE:SUMMARY Collection queries: anchors under a scope, script srcs, fragment targets.
package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Anchors returns every <a> element under scope, in document order. A nil
// scope means the whole document.
func (d *Document) Anchors(scope *html.Node) []*html.Node {
	if scope == nil {
		scope = d.Root
	}
	return findAll(scope, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.A
	})
}

// Nav returns the document's first <nav> element, or nil.
func (d *Document) Nav() *html.Node {
	return d.Element(atom.Nav)
}

// ScriptSources returns the src of every <script src=...> in the document,
// in document order. Inline scripts are skipped.
func (d *Document) ScriptSources() []string {
	nodes := findAll(d.Root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Script && Attr(n, "src") != ""
	})
	srcs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		srcs = append(srcs, Attr(n, "src"))
	}
	return srcs
}

// HasFragment reports whether an element with the given id exists under
// scope (nil scope = whole document). Used to decide whether a URL fragment
// can be scrolled to after a swap.
func (d *Document) HasFragment(scope *html.Node, id string) bool {
	if id == "" {
		return false
	}
	if scope == nil {
		scope = d.Root
	}
	return find(scope, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	}) != nil
}

// CheckboxesByClass returns every <input type=checkbox> carrying the given
// class. The site's mobile nav disclosure is one of these.
func (d *Document) CheckboxesByClass(class string) []*html.Node {
	return findAll(d.Root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Input &&
			Attr(n, "type") == "checkbox" && HasClass(n, class)
	})
}
