// Package dag models "task depends on task" relationships within one batch.
// Unlike a strict DAG it tolerates cycles and self-dependencies: those are
// detected by a dedicated strongly-connected-components pass instead of
// being rejected on insertion, so every task stays visible to the scorer.
package dag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/papapumpkin/triage/internal/task"
)

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// Graph is a directed dependency graph keyed by task id.
// Edges point from a node to its dependencies: if A depends on B,
// there is an edge from A to B.
type Graph struct {
	order []int // insertion order
	// adjacency maps nodeID → set of dependency IDs (forward edges).
	adjacency map[int]map[int]bool
	// reverse maps nodeID → set of dependent IDs (backward edges).
	reverse map[int]map[int]bool
	// unresolved maps nodeID → dependency ids absent from the graph.
	unresolved map[int][]int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency:  make(map[int]map[int]bool),
		reverse:    make(map[int]map[int]bool),
		unresolved: make(map[int][]int),
	}
}

// Build constructs the dependency graph for a validated batch. Dependencies
// that resolve to a task in the batch become edges; the rest are recorded
// as unresolved on the depending task.
func Build(tasks []task.Task) (*Graph, error) {
	g := New()
	for _, t := range tasks {
		if err := g.AddNode(t.ID); err != nil {
			return nil, err
		}
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if !g.Has(dep) {
				g.unresolved[t.ID] = append(g.unresolved[t.ID], dep)
				continue
			}
			if err := g.AddEdge(t.ID, dep); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// AddNode adds a node with the given ID. Returns ErrDuplicateNode if a
// node with that ID already exists.
func (g *Graph) AddNode(id int) error {
	if g.Has(id) {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, id)
	}
	g.order = append(g.order, id)
	g.adjacency[id] = make(map[int]bool)
	g.reverse[id] = make(map[int]bool)
	return nil
}

// AddEdge adds a dependency edge: from depends on to. Both nodes must
// already exist. Self edges and edges that close a cycle are accepted.
func (g *Graph) AddEdge(from, to int) error {
	if !g.Has(from) {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, from)
	}
	if !g.Has(to) {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, to)
	}
	g.adjacency[from][to] = true
	g.reverse[to][from] = true
	return nil
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id int) bool {
	_, ok := g.adjacency[id]
	return ok
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []int {
	out := make([]int, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Dependencies returns the in-batch dependencies of id, sorted ascending.
func (g *Graph) Dependencies(id int) []int {
	return sortedKeys(g.adjacency[id])
}

// Dependents returns the nodes that directly depend on id, sorted ascending.
func (g *Graph) Dependents(id int) []int {
	return sortedKeys(g.reverse[id])
}

// HasSelfEdge reports whether id depends on itself.
func (g *Graph) HasSelfEdge(id int) bool {
	return g.adjacency[id][id]
}

// Unresolved returns the dependency ids of id that are not in the graph,
// in the order they were declared.
func (g *Graph) Unresolved(id int) []int {
	return g.unresolved[id]
}

// Descendants returns all transitive dependents of the given node
// (i.e., everything that transitively depends on it), excluding the node
// itself even when it sits on a cycle. The result is sorted ascending.
func (g *Graph) Descendants(id int) []int {
	if !g.Has(id) {
		return nil
	}
	visited := map[int]bool{id: true}
	queue := []int{id}
	var result []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dep := range g.reverse[cur] {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			result = append(result, dep)
			queue = append(queue, dep)
		}
	}
	sort.Ints(result)
	return result
}

func sortedKeys(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
