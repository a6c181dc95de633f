package acquire

import "github.com/matzehuels/tagscout/pkg/ecosystem"

// chainTable maps each kind to the constructor of its strategy chain.
var chainTable = map[ecosystem.Kind]func(*Env) []Strategy{
	ecosystem.KindDockerHub:      dockerChain,
	ecosystem.KindGitHubReleases: githubChain,
	ecosystem.KindPyPI:           pypiChain,
	ecosystem.KindNPM:            npmChain,
	ecosystem.KindHashiCorp:      hashicorpChain,
	ecosystem.KindOpkg:           opkgChain,
	ecosystem.KindCrates:         cratesChain,
	ecosystem.KindRubyGems:       rubygemsChain,
	ecosystem.KindGoProxy:        goproxyChain,
	ecosystem.KindMaven:          mavenChain,
	ecosystem.KindPackagist:      packagistChain,
	ecosystem.KindGeneric:        genericChain,
}

// ChainFor returns the strategy chain of kind k. Unknown kinds get the
// generic chain.
func (e *Env) ChainFor(k ecosystem.Kind) *Chain {
	build, ok := chainTable[k]
	if !ok {
		build = genericChain
	}
	return &Chain{Strategies: build(e), Logger: e.logger()}
}

// StrategyNames lists the strategy names of kind k in chain order.
func (e *Env) StrategyNames(k ecosystem.Kind) []string {
	c := e.ChainFor(k)
	names := make([]string, len(c.Strategies))
	for i, s := range c.Strategies {
		names[i] = s.Name()
	}
	return names
}
