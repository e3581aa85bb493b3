// CLAUDE:SUMMARY Inner-HTML get/set used by the sanitized swap path.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// InnerHTML serializes the children of n, in order.
func InnerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// SetInnerHTML replaces the children of n with the parse of fragment,
// using n itself as the parse context element.
func SetInnerHTML(n *html.Node, fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), n)
	if err != nil {
		return err
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}
