// Package domain contains the core domain models for the dependency cache:
// the live build graph and the immutable cache loaded from disk.
package domain

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"go.trai.ch/zerr"
)

// Node is a unit of the live build graph, typically a file or generated artifact.
type Node struct {
	// ID is the stable table index assigned when the node joins a graph.
	ID int
	// Filename is the node's path, absolute for nodes loaded from a manifest.
	Filename InternedString
	// HashID identifies the node independently of its content.
	HashID uint64
	// CommandHash fingerprints the command that produces the node.
	CommandHash uint64
	// Timestamp is the modification time in UnixNano, or 0 when the file is absent.
	Timestamp int64
	// Scan marks nodes whose dependencies are discovered by scanning rather than declared.
	Scan bool

	deps     []*Node
	expanded atomic.Bool
}

// Dependencies returns the node's outgoing edges in order.
func (n *Node) Dependencies() []*Node {
	return n.deps
}

// AddDependency appends an edge to dep unless it already exists.
func (n *Node) AddDependency(dep *Node) {
	if slices.Contains(n.deps, dep) {
		return
	}
	n.deps = append(n.deps, dep)
}

// prependDependency inserts an edge to dep at the front unless it already exists.
func (n *Node) prependDependency(dep *Node) {
	if slices.Contains(n.deps, dep) {
		return
	}
	n.deps = slices.Insert(n.deps, 0, dep)
}

// MarkExpanded claims the node for dependency expansion.
// It returns true for exactly one caller; every later call returns false.
func (n *Node) MarkExpanded() bool {
	return n.expanded.CompareAndSwap(false, true)
}

// Expanded reports whether the node's dependencies have been populated in this build.
func (n *Node) Expanded() bool {
	return n.expanded.Load()
}

// Graph is the live dependency graph of one build invocation.
// Nodes keep the order in which they were added; that order is the traversal order
// used when the graph is persisted.
type Graph struct {
	index *xsync.MapOf[string, *Node]

	mu    sync.RWMutex
	nodes []*Node
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		index: xsync.NewMapOf[string, *Node](),
	}
}

// AddNode adds n to the graph and assigns its ID.
// It returns an error if the filename is empty or already present.
func (g *Graph) AddNode(n *Node) error {
	name := n.Filename.String()
	if name == "" {
		return ErrEmptyFilename
	}

	_, loaded := g.index.LoadOrCompute(name, func() *Node {
		g.push(n)
		return n
	})
	if loaded {
		return zerr.With(ErrNodeAlreadyExists, "filename", name)
	}
	return nil
}

// LinkDependency adds an edge from n to the node named filename, creating that node
// if the graph has not seen it yet. init runs once on a newly created node before it
// becomes visible to other goroutines. The edge is prepended so that replaying a
// dependency list from last to first rebuilds it in its original order.
// The second return value reports whether the dependency node was created.
func (g *Graph) LinkDependency(n *Node, filename string, init func(*Node)) (*Node, bool) {
	dep, loaded := g.index.LoadOrCompute(filename, func() *Node {
		created := &Node{Filename: NewInternedString(filename)}
		if init != nil {
			init(created)
		}
		g.push(created)
		return created
	})
	n.prependDependency(dep)
	return dep, !loaded
}

func (g *Graph) push(n *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n.ID = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Lookup returns the node with the given filename.
func (g *Graph) Lookup(filename string) (*Node, bool) {
	return g.index.Load(filename)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// DependencyCount returns the total number of edges in the graph.
func (g *Graph) DependencyCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, n := range g.nodes {
		total += len(n.deps)
	}
	return total
}

// Nodes returns an iterator over a snapshot of the graph's nodes in ID order.
func (g *Graph) Nodes() iter.Seq[*Node] {
	g.mu.RLock()
	snapshot := slices.Clone(g.nodes)
	g.mu.RUnlock()

	return func(yield func(*Node) bool) {
		for _, n := range snapshot {
			if !yield(n) {
				return
			}
		}
	}
}
