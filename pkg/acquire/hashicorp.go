package acquire

import (
	"context"
	"regexp"
	"strings"

	"github.com/matzehuels/tagscout/pkg/dom"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
	"github.com/matzehuels/tagscout/pkg/integrations/hashicorp"
)

func hashicorpChain(e *Env) []Strategy {
	return []Strategy{
		registryAPI{name: "hashicorp-api", list: e.HashiCorp.ListReleases, pkg: product},
		releaseTree{env: e},
		textScan{env: e},
	}
}

// product returns the product segment of a release tree URL, or the
// lowercased package name.
func product(d ecosystem.Descriptor) string {
	if p := hashicorp.ProductFromURL(d.URL); p != "" {
		return p
	}
	return strings.ToLower(d.Name)
}

// releaseTree reads the version directories linked from a product's
// release tree, e.g. /terraform/1.9.2/.
type releaseTree struct{ env *Env }

func (releaseTree) Name() string { return "hashicorp-tree" }

func (s releaseTree) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	doc, err := s.env.page(ctx, d.URL)
	if err != nil {
		return nil, err
	}
	ex, err := ecosystem.ExtractorFor(d)
	if err != nil {
		return nil, err
	}

	p := product(d)
	dir := regexp.MustCompile(`/` + regexp.QuoteMeta(p) + `/([^/?#]+)`)
	links := doc.FirstMatch(`a[href*="/`+p+`/"]`, ".version a", "h3 a", ".release-item a", "li a")

	var raws []ecosystem.RawCandidate
	links.Each(func(_ int, a dom.Selection) {
		text := a.Text()
		if href, ok := a.Attr("href"); ok {
			if m := dir.FindStringSubmatch(href); m != nil {
				text = m[1]
			}
		}
		if text != "" {
			raws = append(raws, ecosystem.RawCandidate{Text: text, Origin: s.Name()})
		}
	})

	res := pick(ex, d, raws, filter.Options{})
	if res != nil {
		res.Locator = dirURL(d.URL, res.Version)
	}
	return res, nil
}

// dirURL joins a listing URL and a version directory.
func dirURL(base, v string) string {
	return strings.TrimSuffix(base, "/") + "/" + v + "/"
}
