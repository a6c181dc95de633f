package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// inline elements join their text with the surrounding text. Every other
// element separates its text from its neighbours.
var inline = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Cite: true, atom.Code: true, atom.Data: true, atom.Dfn: true, atom.Em: true,
	atom.Font: true, atom.I: true, atom.Kbd: true, atom.Mark: true, atom.Q: true,
	atom.S: true, atom.Samp: true, atom.Small: true, atom.Span: true, atom.Strong: true,
	atom.Sub: true, atom.Sup: true, atom.Time: true, atom.Tt: true, atom.U: true,
	atom.Var: true, atom.Wbr: true,
}

// cells break words but not lines.
var cells = map[atom.Atom]bool{atom.Td: true, atom.Th: true, atom.Dd: true, atom.Dt: true}

// skipped elements carry no readable text.
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true, atom.Head: true,
}

// nodeText renders the readable text of n. Block elements and <br> end a
// line, table cells end a word, inline elements add nothing.
func nodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}

	sep := ""
	if n.Type == html.ElementNode && !inline[n.DataAtom] {
		sep = "\n"
		if cells[n.DataAtom] {
			sep = " "
		}
	}
	b.WriteString(sep)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodeText(b, c)
	}
	b.WriteString(sep)
}

// lines renders nodes as text, one block per line, with whitespace
// collapsed inside each line and blank lines dropped.
func lines(nodes []*html.Node) []string {
	var b strings.Builder
	for _, n := range nodes {
		nodeText(&b, n)
		b.WriteByte('\n')
	}
	var out []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}
