// CLAUDE:SUMMARY Head metadata access: title, description meta, social-preview (og:) meta.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Title returns the text of the document's <title>, or "".
func (d *Document) Title() string {
	n := d.Element(atom.Title)
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// SetTitle replaces the text of the document's <title>. A document without a
// title element is left untouched; the engine never synthesizes head
// structure the page didn't ship with.
func (d *Document) SetTitle(title string) {
	n := d.Element(atom.Title)
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// metaBy returns the first <meta> whose key attribute (name or property)
// equals val.
func (d *Document) metaBy(key, val string) *html.Node {
	return find(d.Root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Meta && Attr(n, key) == val
	})
}

// Meta returns the content of <meta name=...>, and whether the tag exists.
func (d *Document) Meta(name string) (string, bool) {
	n := d.metaBy("name", name)
	if n == nil {
		return "", false
	}
	return Attr(n, "content"), true
}

// SetMeta sets the content of an existing <meta name=...>. Missing tags are
// not created.
func (d *Document) SetMeta(name, content string) {
	if n := d.metaBy("name", name); n != nil {
		SetAttr(n, "content", content)
	}
}

// MetaProperty returns the content of <meta property=...> (Open Graph style),
// and whether the tag exists.
func (d *Document) MetaProperty(prop string) (string, bool) {
	n := d.metaBy("property", prop)
	if n == nil {
		return "", false
	}
	return Attr(n, "content"), true
}

// SetMetaProperty sets the content of an existing <meta property=...>.
func (d *Document) SetMetaProperty(prop, content string) {
	if n := d.metaBy("property", prop); n != nil {
		SetAttr(n, "content", content)
	}
}
