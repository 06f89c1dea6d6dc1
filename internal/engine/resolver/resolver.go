// Package resolver populates the live dependency graph from the cache of a previous
// build, falling back to scanning sources when the cache cannot be trusted.
package resolver

import (
	"go.trai.ch/bam/internal/core/domain"
)

// Matcher decides whether a cached node may be trusted for a live node.
type Matcher func(cached *domain.CacheNode, live *domain.Node) bool

// MatchTimestamp trusts a cached node whose recorded modification time equals the
// live node's.
func MatchTimestamp(cached *domain.CacheNode, live *domain.Node) bool {
	return cached.Timestamp == live.Timestamp
}

// MatchCommand trusts a cached node produced by the same command line.
func MatchCommand(cached *domain.CacheNode, live *domain.Node) bool {
	return cached.CommandHash == live.CommandHash
}

// MatchAll trusts a cached node only if every matcher does.
func MatchAll(matchers ...Matcher) Matcher {
	return func(cached *domain.CacheNode, live *domain.Node) bool {
		for _, m := range matchers {
			if !m(cached, live) {
				return false
			}
		}
		return true
	}
}

// DefaultMatcher is the trust criterion used by the build: same timestamp and same
// command.
var DefaultMatcher = MatchAll(MatchTimestamp, MatchCommand)

// EmitFunc attaches an edge from node to the live node named filename and returns
// that dependency node. The resolver drives graph mutation only through it.
type EmitFunc func(node *domain.Node, filename string) *domain.Node

// Outcome is the result of resolving one live node against the cache.
type Outcome int

const (
	// Miss means the cache has no entry for the node.
	Miss Outcome = iota
	// Stale means the entry exists but the matcher rejected it.
	Stale
	// Hit means the cached edges were replayed onto the node.
	Hit
	// Expanded means the entry matched but the node had already been expanded in
	// this build, so nothing was emitted.
	Expanded
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "miss"
	case Stale:
		return "stale"
	case Hit:
		return "hit"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// Trusted reports whether the node's dependencies come from the cache.
func (o Outcome) Trusted() bool {
	return o == Hit || o == Expanded
}

// Lookup resolves node against c. On a match the node is claimed, and its cached
// dependencies are emitted from last to first, exactly once per build. A nil cache
// behaves as an empty one.
func Lookup(c *domain.Cache, node *domain.Node, match Matcher, emit EmitFunc) Outcome {
	cached, ok := c.FindByHash(node.HashID)
	if !ok {
		return Miss
	}
	if !match(cached, node) {
		return Stale
	}
	if !node.MarkExpanded() {
		return Expanded
	}

	// Dependency indices were bounds-checked when the cache was built.
	for i := len(cached.Dependencies) - 1; i >= 0; i-- {
		emit(node, c.FindByIndex(int(cached.Dependencies[i])).Filename)
	}
	return Hit
}

// Resolve reports whether node's dependencies could be taken from c. When it returns
// false the caller must compute them from scratch.
func Resolve(c *domain.Cache, node *domain.Node, match Matcher, emit EmitFunc) bool {
	return Lookup(c, node, match, emit).Trusted()
}
