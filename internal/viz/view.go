// Package viz renders read-only views of the dependency graph: diagram
// output in several formats plus the debugging analysis (dependency
// chains, resource conflicts, critical paths) that backs the json form.
package viz

import (
	"sort"

	"github.com/vk/checkwavego/internal/criteria"
)

// Node is one criterion in a graph view.
type Node struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	EstimatedMs    int64                  `json:"estimatedDurationMs"`
	Parallelizable bool                   `json:"parallelizable"`
	Resources      []criteria.ResourceTag `json:"resourceRequirements,omitempty"`
}

// Edge is one dependency in a graph view, pointing from the dependent to
// its target.
type Edge struct {
	From string                  `json:"from"`
	To   string                  `json:"to"`
	Type criteria.DependencyType `json:"type"`
}

// View is the renderer-independent graph data. Levels is the number of
// nodes on the longest strict/weak dependency chain.
type View struct {
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	Levels int    `json:"levels"`
}

// Graph builds a View from a store snapshot. Nodes and edges are sorted
// for deterministic output; edges to absent criteria are included so
// dangling references stay visible in diagrams.
func Graph(store *criteria.Store) View {
	snapshot := store.All()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	view := View{}
	for _, name := range names {
		rec := snapshot[name]
		view.Nodes = append(view.Nodes, Node{
			Name:           name,
			Description:    rec.Description,
			EstimatedMs:    rec.EstimatedMs,
			Parallelizable: rec.Parallelizable,
			Resources:      rec.Resources,
		})
		for _, dep := range rec.Dependencies {
			view.Edges = append(view.Edges, Edge{From: name, To: dep.Target, Type: dep.Type})
		}
	}
	view.Levels = chainLevels(snapshot)
	return view
}

// chainLevels computes the longest strict/weak chain, in nodes, via
// memoized DFS. Nodes on a cycle contribute their acyclic prefix only;
// validation reports the cycle itself.
func chainLevels(snapshot map[string]criteria.Criterion) int {
	memo := make(map[string]int, len(snapshot))
	visiting := make(map[string]bool, len(snapshot))

	var depth func(name string) int
	depth = func(name string) int {
		if d, ok := memo[name]; ok {
			return d
		}
		if visiting[name] {
			return 0
		}
		visiting[name] = true
		defer delete(visiting, name)

		longest := 0
		rec, ok := snapshot[name]
		if ok {
			for _, dep := range rec.BlockingDeps() {
				if _, present := snapshot[dep.Target]; !present {
					continue
				}
				if d := depth(dep.Target); d > longest {
					longest = d
				}
			}
		}
		memo[name] = longest + 1
		return longest + 1
	}

	levels := 0
	for name := range snapshot {
		if d := depth(name); d > levels {
			levels = d
		}
	}
	return levels
}
