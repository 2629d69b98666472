package clean

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FirstParagraph returns the collapsed text content of the first <p>
// element in an HTML fragment, or "" when there is none.
func FirstParagraph(fragment string) string {
	if !strings.Contains(fragment, "<p") && !strings.Contains(fragment, "<P") {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	p := findFirst(doc, atom.P)
	if p == nil {
		return ""
	}

	var b strings.Builder
	collectText(p, &b)
	return CollapseSpace(b.String())
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
