package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gauge-sh/boundary/internal/types"
)

// graph is a directed module dependency graph built from the edges
// every file's imports actually exercised.
type graph struct {
	nodes map[string]bool
	edges map[string][]string
}

func newGraph() *graph {
	return &graph{nodes: map[string]bool{}, edges: map[string][]string{}}
}

func (g *graph) addEdge(from, to string) {
	g.nodes[from] = true
	g.nodes[to] = true
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// tarjanState carries Tarjan's SCC algorithm's working state across the
// recursive visit.
type tarjanState struct {
	g        *graph
	index    map[string]int
	lowlink  map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	sccs     [][]string
}

// FindCycles builds the module dependency graph from edges and reports
// every strongly connected component with more than one node, or any
// node with a self-loop, each rendered as a Configuration-free
// Dependency error citing the cycle in path order.
func FindCycles(edges []Edge) []types.Diagnostic {
	g := newGraph()
	for _, e := range edges {
		if e.External || e.From == e.To {
			continue
		}
		g.addEdge(e.From, e.To)
	}
	// Self-loops are reported directly; the loop above skips them so
	// Tarjan doesn't need to special-case a length-1 "cycle".
	var selfLoops []string
	for _, e := range edges {
		if !e.External && e.From == e.To {
			selfLoops = append(selfLoops, e.From)
		}
	}

	st := &tarjanState{
		g:       g,
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if _, seen := st.index[n]; !seen {
			st.strongConnect(n)
		}
	}

	var diags []types.Diagnostic
	sort.Strings(selfLoops)
	for _, n := range selfLoops {
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityError,
			Kind:     types.KindDependency,
			Message:  fmt.Sprintf("circular dependency: %s -> %s", n, n),
		})
	}
	for _, scc := range st.sccs {
		if len(scc) < 2 {
			continue
		}
		sort.Strings(scc)
		cycle := append(append([]string{}, scc...), scc[0])
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityError,
			Kind:     types.KindDependency,
			Message:  fmt.Sprintf("circular dependency: %s", strings.Join(cycle, " -> ")),
		})
	}
	return diags
}

func (st *tarjanState) strongConnect(v string) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	neighbors := append([]string{}, st.g.edges[v]...)
	sort.Strings(neighbors)
	for _, w := range neighbors {
		if _, seen := st.index[w]; !seen {
			st.strongConnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] == st.index[v] {
		var component []string
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		st.sccs = append(st.sccs, component)
	}
}
