package acquire

import (
	"context"

	"github.com/matzehuels/tagscout/pkg/dom"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
)

// textScan is the last resort of every chain: it fetches a page and treats
// every major.minor[.patch] token of its text as a candidate.
type textScan struct {
	env     *Env
	name    string
	pageURL func(d ecosystem.Descriptor) string // nil means d.URL
	locate  func(d ecosystem.Descriptor, v string) string
}

func (s textScan) Name() string {
	if s.name != "" {
		return s.name
	}
	return "text-scan"
}

func (s textScan) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	u := d.URL
	if s.pageURL != nil {
		u = s.pageURL(d)
	}
	doc, err := s.env.page(ctx, u)
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}
	res := pick(ex, d, textRaws(doc, s.Name()), filter.Options{})
	if res != nil && s.locate != nil {
		res.Locator = s.locate(d, res.Version)
	}
	return res, nil
}

// textRaws turns the distinct version tokens of a page into candidates.
func textRaws(doc *dom.Document, origin string) []ecosystem.RawCandidate {
	versions := ecosystem.VersionsInText(doc.Text())
	raws := make([]ecosystem.RawCandidate, len(versions))
	for i, v := range versions {
		raws[i] = ecosystem.RawCandidate{Text: v, Origin: origin}
	}
	return raws
}

// elementRaws turns every element of sel into a candidate whose timestamp
// is the text of its first date element, or its own text when it has none.
func elementRaws(sel dom.Selection, dateSelector, origin string) []ecosystem.RawCandidate {
	var raws []ecosystem.RawCandidate
	sel.Each(func(_ int, el dom.Selection) {
		text := el.Text()
		if text == "" {
			return
		}
		ts := text
		if dateSelector != "" {
			if date := el.Find(dateSelector).First(); date.Len() > 0 {
				ts = dateText(date)
			}
		}
		raws = append(raws, ecosystem.RawCandidate{Text: text, Timestamp: ts, Origin: origin})
	})
	return raws
}

// dateText prefers a machine-readable datetime attribute over display text.
func dateText(el dom.Selection) string {
	if v, ok := el.Attr("datetime"); ok && v != "" {
		return v
	}
	return el.Text()
}
