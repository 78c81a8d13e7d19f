// Package planner computes execution orders and parallel wave plans over
// a criteria store snapshot. Planning is pure and synchronous: a plan is
// an immutable result, and actual execution belongs to the caller.
package planner

import (
	"sort"

	"github.com/vk/checkwavego/internal/criteria"
)

// Step is one entry of a linear execution order. Forced marks a step that
// was placed despite unresolved dependencies to keep the sort moving; the
// caller decides what to do with it.
type Step struct {
	Criterion string `json:"criterion"`
	Forced    bool   `json:"forced,omitempty"`
}

// orderState carries the per-run bookkeeping of the topological sort.
type orderState struct {
	snapshot  map[string]criteria.Criterion
	requested map[string]bool
	placed    map[string]bool
}

// Order produces a deterministic linear execution order for the requested
// criteria. A nil names slice means every stored criterion; an empty
// slice yields an empty order. Names absent from the store are accepted
// as opaque standalone steps.
//
// The sort is Kahn-style restricted to the requested set. A blocking
// dependency whose target lies outside the set is unverifiable: it can
// never complete within this run, so the dependent is eventually placed
// by forcing rather than blocking forever. Forcing picks the unplaced
// criterion with the fewest declared dependency edges (then by name),
// marks it Forced, and resumes normal evaluation. Every requested
// criterion appears exactly once, even in unsatisfiable graphs.
func Order(store *criteria.Store, names []string) []Step {
	if names == nil {
		names = store.Names()
	}
	if len(names) == 0 {
		return []Step{}
	}

	st := &orderState{
		snapshot:  store.All(),
		requested: make(map[string]bool, len(names)),
		placed:    make(map[string]bool, len(names)),
	}

	// Deduplicate while preserving first-seen request order.
	var pending []string
	for _, name := range names {
		if !st.requested[name] {
			st.requested[name] = true
			pending = append(pending, name)
		}
	}

	order := make([]Step, 0, len(pending))
	for len(pending) > 0 {
		pick, forced := st.next(pending)
		order = append(order, Step{Criterion: pick, Forced: forced})
		st.placed[pick] = true

		rest := pending[:0]
		for _, name := range pending {
			if name != pick {
				rest = append(rest, name)
			}
		}
		pending = rest
	}
	return order
}

// next selects the criterion to place, preferring ready criteria and
// falling back to forcing on deadlock.
func (st *orderState) next(pending []string) (name string, forced bool) {
	var ready []string
	for _, cand := range pending {
		if st.ready(cand) {
			ready = append(ready, cand)
		}
	}

	if len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			wi, wj := st.unresolvedWeak(ready[i]), st.unresolvedWeak(ready[j])
			if wi != wj {
				return wi < wj
			}
			return ready[i] < ready[j]
		})
		return ready[0], false
	}
	return pickForced(st.snapshot, pending), true
}

// ready reports whether every blocking dependency of the criterion is
// satisfied for this run. Strict in-set targets must already be placed.
// Weak in-set targets must be placed, unless the target is itself
// unverifiable and will only ever be placed by forcing. Any blocking
// edge pointing outside the requested set makes the criterion
// unverifiable, never ready.
func (st *orderState) ready(name string) bool {
	rec, known := st.snapshot[name]
	if !known {
		return true // standalone step, nothing to wait for
	}
	for _, dep := range rec.BlockingDeps() {
		if !st.requested[dep.Target] {
			return false
		}
		if st.placed[dep.Target] {
			continue
		}
		if dep.Type == criteria.DepWeak && st.unverifiable(dep.Target) {
			continue
		}
		return false
	}
	return true
}

// unverifiable reports whether the criterion has a blocking edge whose
// target lies outside the requested set.
func (st *orderState) unverifiable(name string) bool {
	rec, known := st.snapshot[name]
	if !known {
		return false
	}
	for _, dep := range rec.BlockingDeps() {
		if !st.requested[dep.Target] {
			return true
		}
	}
	return false
}

// unresolvedWeak counts weak dependencies of the criterion that have not
// been placed yet. Used as the primary readiness tie-break.
func (st *orderState) unresolvedWeak(name string) int {
	rec, known := st.snapshot[name]
	if !known {
		return 0
	}
	n := 0
	for _, dep := range rec.Dependencies {
		if dep.Type == criteria.DepWeak && !st.placed[dep.Target] {
			n++
		}
	}
	return n
}

// pickForced chooses the criterion to place when no criterion is ready:
// fewest declared dependency edges, then name. Pulled out of the main
// loop so the deadlock tie-break is testable on its own.
func pickForced(snapshot map[string]criteria.Criterion, pending []string) string {
	best := pending[0]
	bestEdges := depEdgeCount(snapshot, best)
	for _, cand := range pending[1:] {
		edges := depEdgeCount(snapshot, cand)
		if edges < bestEdges || (edges == bestEdges && cand < best) {
			best = cand
			bestEdges = edges
		}
	}
	return best
}

func depEdgeCount(snapshot map[string]criteria.Criterion, name string) int {
	rec, known := snapshot[name]
	if !known {
		return 0
	}
	return len(rec.Dependencies)
}
