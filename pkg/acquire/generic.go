package acquire

import (
	"context"

	"github.com/matzehuels/tagscout/pkg/dom"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
)

// pageSelectorGroups are tried in order on pages without hints. The first
// group yielding a version wins.
var pageSelectorGroups = []string{
	"h1, h2, h3",
	".version, .latest, .current",
	`[class*="version"], [class*="latest"]`,
	"td, th",
	"li",
	"span, div",
}

func genericChain(e *Env) []Strategy {
	return []Strategy{
		selectors{env: e},
		textScan{env: e},
	}
}

// selectors reads versions from page elements. The descriptor's hints
// choose the version, date and link elements; without a version selector
// the built-in groups are tried.
type selectors struct{ env *Env }

func (selectors) Name() string { return "selectors" }

func (s selectors) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	doc, err := s.env.page(ctx, d.URL)
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}

	groups := pageSelectorGroups
	if d.Hints.VersionSelector != "" {
		groups = []string{d.Hints.VersionSelector}
	}
	for _, g := range groups {
		raws := elementRaws(doc.Find(g), d.Hints.DateSelector, s.Name())
		if res := pick(ex, d, raws, filter.Options{}); res != nil {
			applyHints(doc, d.Hints, res)
			return res, nil
		}
	}
	return nil, nil
}

// applyHints fills the release date and locator from page-level hint
// elements when the winning element carried neither.
func applyHints(doc *dom.Document, h ecosystem.Hints, res *Result) {
	if res.ReleaseDate == nil && h.DateSelector != "" {
		if el := doc.Find(h.DateSelector).First(); el.Len() > 0 {
			res.ReleaseDate = ecosystem.ParseDate(dateText(el))
		}
	}
	if res.Locator == "" && h.LinkSelector != "" {
		if el := doc.Find(h.LinkSelector).First(); el.Len() > 0 {
			res.Locator = el.Link()
		}
	}
}
