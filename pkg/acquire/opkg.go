package acquire

import (
	"context"

	"github.com/matzehuels/tagscout/pkg/dom"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
)

func opkgChain(e *Env) []Strategy {
	return []Strategy{
		listing{env: e},
		textScan{env: e},
	}
}

// listing reads the anchors of an HTML directory listing. Each linked
// entry is a candidate located by its link.
type listing struct{ env *Env }

func (listing) Name() string { return "listing" }

func (s listing) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	doc, err := s.env.page(ctx, d.URL)
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}

	var raws []ecosystem.RawCandidate
	doc.Find("a[href]").Each(func(_ int, a dom.Selection) {
		if text := a.Text(); text != "" {
			raws = append(raws, ecosystem.RawCandidate{Text: text, Origin: s.Name(), Locator: a.Link()})
		}
	})

	res := pick(ex, d, raws, filter.Options{})
	if res != nil && res.Locator == "" {
		res.Locator = dirURL(d.URL, res.Version)
	}
	return res, nil
}
