// Package dom parses HTML documents and answers selector queries over them.
//
// It is a thin layer over goquery that keeps the selector engine out of the
// acquisition code and adds the few lookups strategies repeat: first
// matching selector, body text, resolved links.
package dom

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Parse parses an HTML page. Malformed markup is repaired the way browsers
// do; only read errors are reported.
func Parse(text string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseWithBase parses text and resolves relative links against pageURL.
func ParseWithBase(text, pageURL string) (*Document, error) {
	d, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(pageURL); err == nil {
		d.base = u
	}
	return d, nil
}

// Find returns the elements matching selector. An invalid selector matches
// nothing.
func (d *Document) Find(selector string) Selection {
	return Selection{sel: d.doc.Find(selector), base: d.base}
}

// FirstMatch tries selectors in order and returns the matches of the first
// one that matches at least one element.
func (d *Document) FirstMatch(selectors ...string) Selection {
	for _, s := range selectors {
		if sel := d.Find(s); sel.Len() > 0 {
			return sel
		}
	}
	return Selection{sel: d.doc.Find(""), base: d.base}
}

// Text returns the text of the page body, or of the whole document when
// it has no body. Each block element and table row starts a new line;
// table cells are separated by a space.
func (d *Document) Text() string {
	sel := d.doc.Find("body")
	if sel.Length() == 0 {
		sel = d.doc.Selection
	}
	return strings.Join(lines(sel.Nodes), "\n")
}

// Resolve makes href absolute against the document URL. It returns href
// unchanged when either cannot be parsed.
func (d *Document) Resolve(href string) string {
	return resolve(d.base, href)
}

// Selection is an ordered set of elements.
type Selection struct {
	sel  *goquery.Selection
	base *url.URL
}

// Len returns the number of elements.
func (s Selection) Len() int { return s.sel.Length() }

// Each calls fn for every element in document order.
func (s Selection) Each(fn func(i int, el Selection)) {
	s.sel.Each(func(i int, el *goquery.Selection) {
		fn(i, Selection{sel: el, base: s.base})
	})
}

// First returns the first element.
func (s Selection) First() Selection { return Selection{sel: s.sel.First(), base: s.base} }

// Find returns the descendants matching selector.
func (s Selection) Find(selector string) Selection {
	return Selection{sel: s.sel.Find(selector), base: s.base}
}

// Closest returns the nearest ancestor-or-self matching selector.
func (s Selection) Closest(selector string) Selection {
	return Selection{sel: s.sel.Closest(selector), base: s.base}
}

// Text returns the combined text of the elements on one line. Text from
// different cells or blocks is separated by a space.
func (s Selection) Text() string {
	return strings.Join(lines(s.sel.Nodes), " ")
}

// Attr returns an attribute of the first element.
func (s Selection) Attr(name string) (string, bool) { return s.sel.Attr(name) }

// Link returns the href of the first element resolved against the
// document URL.
func (s Selection) Link() string {
	href, ok := s.sel.Attr("href")
	if !ok {
		return ""
	}
	return resolve(s.base, href)
}

func resolve(base *url.URL, href string) string {
	if base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
