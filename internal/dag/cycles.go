package dag

import "sort"

// Cycle describes a node's participation in a dependency cycle.
type Cycle struct {
	// Mates lists the other nodes of the cycle, sorted ascending. It is
	// empty for a node whose only cycle is a dependency on itself.
	Mates []int
}

// StronglyConnected returns the strongly connected components of the graph
// using an iterative form of Tarjan's algorithm, so deep dependency chains
// cannot exhaust the goroutine stack. Members of each component are sorted
// ascending and components are ordered by their smallest member.
func (g *Graph) StronglyConnected() [][]int {
	s := tarjan{
		index:   make(map[int]int, len(g.order)),
		lowlink: make(map[int]int, len(g.order)),
		onStack: make(map[int]bool, len(g.order)),
		edges:   make(map[int][]int, len(g.order)),
	}
	for _, id := range g.order {
		s.edges[id] = sortedKeys(g.adjacency[id])
	}

	roots := make([]int, len(g.order))
	copy(roots, g.order)
	sort.Ints(roots)
	for _, id := range roots {
		if _, seen := s.index[id]; !seen {
			s.visit(id)
		}
	}

	for _, comp := range s.components {
		sort.Ints(comp)
	}
	sort.Slice(s.components, func(i, j int) bool {
		return s.components[i][0] < s.components[j][0]
	})
	return s.components
}

// Cycles annotates every node that cannot be sequenced: members of a
// strongly connected component with two or more nodes, and nodes with a
// self edge. Nodes absent from the map are acyclic.
func (g *Graph) Cycles() map[int]Cycle {
	cycles := make(map[int]Cycle)
	for _, comp := range g.StronglyConnected() {
		if len(comp) == 1 {
			id := comp[0]
			if g.HasSelfEdge(id) {
				cycles[id] = Cycle{}
			}
			continue
		}
		for _, id := range comp {
			mates := make([]int, 0, len(comp)-1)
			for _, other := range comp {
				if other != id {
					mates = append(mates, other)
				}
			}
			cycles[id] = Cycle{Mates: mates}
		}
	}
	return cycles
}

type tarjan struct {
	counter    int
	index      map[int]int
	lowlink    map[int]int
	onStack    map[int]bool
	stack      []int
	edges      map[int][]int
	components [][]int
}

// frame is one level of the simulated recursion: the node being visited
// and the position of the next edge to explore.
type frame struct {
	node int
	next int
}

func (s *tarjan) visit(root int) {
	s.push(root)
	call := []frame{{node: root}}

	for len(call) > 0 {
		top := &call[len(call)-1]
		v := top.node
		edges := s.edges[v]

		if top.next < len(edges) {
			w := edges[top.next]
			top.next++
			if _, seen := s.index[w]; !seen {
				s.push(w)
				call = append(call, frame{node: w})
			} else if s.onStack[w] && s.index[w] < s.lowlink[v] {
				s.lowlink[v] = s.index[w]
			}
			continue
		}

		// All edges of v explored: pop the frame and propagate lowlink.
		call = call[:len(call)-1]
		if len(call) > 0 {
			parent := call[len(call)-1].node
			if s.lowlink[v] < s.lowlink[parent] {
				s.lowlink[parent] = s.lowlink[v]
			}
		}
		if s.lowlink[v] == s.index[v] {
			s.emit(v)
		}
	}
}

func (s *tarjan) push(v int) {
	s.index[v] = s.counter
	s.lowlink[v] = s.counter
	s.counter++
	s.stack = append(s.stack, v)
	s.onStack[v] = true
}

func (s *tarjan) emit(root int) {
	var comp []int
	for {
		n := len(s.stack) - 1
		w := s.stack[n]
		s.stack = s.stack[:n]
		s.onStack[w] = false
		comp = append(comp, w)
		if w == root {
			break
		}
	}
	s.components = append(s.components, comp)
}
