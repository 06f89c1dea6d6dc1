package resolver

import (
	"context"
	"errors"
	"sync/atomic"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Options configures one expansion run.
type Options struct {
	// Parallelism bounds the number of nodes expanded at once. Values below 1 mean 1.
	Parallelism int
	// Match is the trust criterion for cached nodes. Nil means DefaultMatcher.
	Match Matcher
}

// Stats summarizes an expansion run.
type Stats struct {
	Hits     int
	Expanded int
	Misses   int
	Stale    int
	Scanned  int
}

type counters struct {
	hits, expanded, misses, stale, scanned atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:     int(c.hits.Load()),
		Expanded: int(c.expanded.Load()),
		Misses:   int(c.misses.Load()),
		Stale:    int(c.stale.Load()),
		Scanned:  int(c.scanned.Load()),
	}
}

// Expander populates the dependencies of every scannable node of a graph, replaying
// cached edges where the cache can be trusted and scanning sources otherwise. Nodes
// discovered along the way are expanded too.
type Expander struct {
	scanner ports.DependencyScanner
	hasher  ports.Hasher
	fs      ports.FileSystem
	metrics ports.Metrics
	tracer  ports.Tracer
}

// NewExpander creates a new Expander.
func NewExpander(
	scanner ports.DependencyScanner,
	hasher ports.Hasher,
	fsys ports.FileSystem,
	metrics ports.Metrics,
	tracer ports.Tracer,
) *Expander {
	return &Expander{
		scanner: scanner,
		hasher:  hasher,
		fs:      fsys,
		metrics: metrics,
		tracer:  tracer,
	}
}

// Expand expands g against cache, which may be nil. It stops at the first scan
// error and returns it together with the statistics gathered so far.
func (e *Expander) Expand(ctx context.Context, g *domain.Graph, cache *domain.Cache, opts Options) (Stats, error) {
	ctx, span := e.tracer.Start(ctx, "resolver.expand")
	defer span.End()

	state := e.newRunState(ctx, g, cache, opts)
	err := state.run()

	stats := state.counters.snapshot()
	span.SetAttribute("resolver.hits", stats.Hits)
	span.SetAttribute("resolver.misses", stats.Misses)
	span.SetAttribute("resolver.stale", stats.Stale)
	span.SetAttribute("resolver.scanned", stats.Scanned)
	if err != nil {
		span.RecordError(err)
	}
	return stats, err
}

type result struct {
	created []*domain.Node
	err     error
}

type runState struct {
	e           *Expander
	ctx         context.Context
	cancel      context.CancelFunc
	group       *errgroup.Group
	graph       *domain.Graph
	cache       *domain.Cache
	match       Matcher
	parallelism int

	ready     []*domain.Node
	active    int
	resultsCh chan result
	errs      error
	counters  counters
}

func (e *Expander) newRunState(ctx context.Context, g *domain.Graph, cache *domain.Cache, opts Options) *runState {
	parallelism := max(opts.Parallelism, 1)
	match := opts.Match
	if match == nil {
		match = DefaultMatcher
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	var ready []*domain.Node
	for n := range g.Nodes() {
		if n.Scan {
			ready = append(ready, n)
		}
	}

	return &runState{
		e:           e,
		ctx:         ctx,
		cancel:      cancel,
		group:       group,
		graph:       g,
		cache:       cache,
		match:       match,
		parallelism: parallelism,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
	}
}

func (s *runState) run() error {
	defer s.cancel()

	for {
		s.schedule()
		if s.active == 0 {
			break
		}

		res := <-s.resultsCh
		s.active--
		if res.err != nil {
			s.errs = errors.Join(s.errs, res.err)
			s.cancel()
			continue
		}
		s.ready = append(s.ready, res.created...)
	}

	_ = s.group.Wait()
	if s.errs == nil && len(s.ready) > 0 {
		return s.ctx.Err()
	}
	return s.errs
}

// schedule starts workers for ready nodes until the parallelism limit is reached.
func (s *runState) schedule() {
	for len(s.ready) > 0 && s.active < s.parallelism && s.ctx.Err() == nil {
		n := s.ready[0]
		s.ready = s.ready[1:]
		s.active++

		s.group.Go(func() error {
			created, err := s.expand(n)
			s.resultsCh <- result{created: created, err: err}
			return nil
		})
	}
}

// expand resolves one node and returns the nodes it added to the graph.
func (s *runState) expand(n *domain.Node) ([]*domain.Node, error) {
	var created []*domain.Node
	emit := func(node *domain.Node, filename string) *domain.Node {
		dep, isNew := s.graph.LinkDependency(node, filename, s.e.initNode)
		if isNew {
			created = append(created, dep)
		}
		return dep
	}

	outcome := Lookup(s.cache, n, s.match, emit)
	s.e.metrics.ObserveLookup(outcome.String())

	switch outcome {
	case Hit:
		s.counters.hits.Add(1)
		return created, nil
	case Expanded:
		s.counters.expanded.Add(1)
		return nil, nil
	case Stale:
		s.counters.stale.Add(1)
	case Miss:
		s.counters.misses.Add(1)
	}

	if !n.MarkExpanded() {
		return nil, nil
	}

	deps, err := s.e.scanner.Scan(s.ctx, n.Filename.String())
	if err != nil {
		return nil, err
	}
	s.counters.scanned.Add(1)

	// Edges are prepended, so linking from last to first keeps scan order.
	for i := len(deps) - 1; i >= 0; i-- {
		emit(n, deps[i])
	}
	return created, nil
}

// initNode fills in a node discovered through an edge.
func (e *Expander) initNode(n *domain.Node) {
	path := n.Filename.String()
	n.HashID = e.hasher.HashPath(path)
	n.Scan = true
	if ts, err := e.fs.ModTime(path); err == nil {
		n.Timestamp = ts
	}
}
