package criteria

import (
	"fmt"
	"sort"
)

// IssueKind discriminates validation issue variants.
type IssueKind string

const (
	// IssueCycle reports a strongly-connected component of blocking edges.
	IssueCycle IssueKind = "cycle"
	// IssueMissingDependency reports a dependency target absent from the store.
	IssueMissingDependency IssueKind = "missing_dependency"
)

// Issue is one problem found in the dependency graph.
type Issue struct {
	Kind IssueKind `json:"type"`
	// Criteria lists the members of a cycle, sorted. Set for IssueCycle.
	Criteria []string `json:"criteria,omitempty"`
	// Criterion and Missing identify a dangling reference. Set for
	// IssueMissingDependency.
	Criterion string `json:"criterion,omitempty"`
	Missing   string `json:"missingDependency,omitempty"`
	Message   string `json:"message"`
}

// Report is the outcome of a full graph validation pass.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Validate checks the stored graph for cycles and dangling references.
// Cycles are detected over strict and weak edges only; optional edges
// cannot create blocking loops and are ignored. Each strongly-connected
// component yields exactly one cycle issue listing all of its members.
// Issues never surface as errors: callers decide remediation.
func (s *Store) Validate() Report {
	snapshot := s.All()

	var issues []Issue
	for _, scc := range blockingSCCs(snapshot) {
		sort.Strings(scc)
		issues = append(issues, Issue{
			Kind:     IssueCycle,
			Criteria: scc,
			Message:  fmt.Sprintf("circular dependency between %v", scc),
		})
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, dep := range snapshot[name].Dependencies {
			if _, ok := snapshot[dep.Target]; !ok {
				issues = append(issues, Issue{
					Kind:      IssueMissingDependency,
					Criterion: name,
					Missing:   dep.Target,
					Message:   fmt.Sprintf("%s depends on %s, which is not defined", name, dep.Target),
				})
			}
		}
	}

	return Report{Valid: len(issues) == 0, Issues: issues}
}

// blockingSCCs runs Tarjan's algorithm over the strict+weak subgraph and
// returns every component that actually forms a cycle: multi-node
// components, plus single nodes with a blocking self-edge. Components are
// ordered deterministically by their smallest member name.
func blockingSCCs(snapshot map[string]Criterion) [][]string {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	edges := make(map[string][]string, len(snapshot))
	selfLoop := make(map[string]bool)
	for _, name := range names {
		for _, dep := range snapshot[name].BlockingDeps() {
			if _, present := snapshot[dep.Target]; !present {
				continue
			}
			if dep.Target == name {
				selfLoop[name] = true
			}
			edges[name] = append(edges[name], dep.Target)
		}
		sort.Strings(edges[name])
	}

	index := make(map[string]int, len(names))
	lowlink := make(map[string]int, len(names))
	onStack := make(map[string]bool, len(names))
	var stack []string
	next := 0

	var cycles [][]string
	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] == index[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 || selfLoop[scc[0]] {
				cycles = append(cycles, scc)
			}
		}
	}

	for _, name := range names {
		if _, seen := index[name]; !seen {
			strongconnect(name)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return minOf(cycles[i]) < minOf(cycles[j])
	})
	return cycles
}

func minOf(ss []string) string {
	m := ss[0]
	for _, s := range ss[1:] {
		if s < m {
			m = s
		}
	}
	return m
}
