package viz

import (
	"fmt"
	"sort"

	"github.com/vk/checkwavego/internal/criteria"
	"github.com/vk/checkwavego/internal/planner"
)

// Chain is a strict-dependency chain, ordered dependency-first.
type Chain struct {
	Criteria       []string `json:"criteria"`
	TotalMs        int64    `json:"totalDurationMs"`
	Parallelizable bool     `json:"parallelizable"`
}

// CriticalPath is one of the most expensive chains, with the criterion
// that dominates it and the time the rest of the chain accounts for.
type CriticalPath struct {
	Chain
	Bottleneck string `json:"bottleneck"`
	HeadroomMs int64  `json:"optimizationHeadroomMs"`
}

// Conflict reports a resource tag claimed by several criteria that could
// otherwise run concurrently.
type Conflict struct {
	Resource criteria.ResourceTag `json:"resource"`
	Criteria []string             `json:"criteria"`
	Severity string               `json:"severity"`
}

// Opportunity marks a run of consecutive order positions that could be
// merged into one concurrent step.
type Opportunity struct {
	Position    int      `json:"position"`
	Criteria    []string `json:"criteria"`
	SavedMs     int64    `json:"estimatedTimeSavedMs"`
	Description string   `json:"description"`
}

// Suggestion is a prioritized, human-readable optimization hint.
type Suggestion struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// DebugInfo is the analysis block of the json visualization.
type DebugInfo struct {
	DependencyChains             []Chain        `json:"dependencyChains"`
	ResourceConflicts            []Conflict     `json:"resourceConflicts"`
	ParallelizationOpportunities []Opportunity  `json:"parallelizationOpportunities"`
	CriticalPaths                []CriticalPath `json:"criticalPaths"`
	OptimizationSuggestions      []Suggestion   `json:"optimizationSuggestions"`
}

// criticalPathLimit bounds how many top chains the analysis reports.
const criticalPathLimit = 5

// Analyze derives the debugging views from the current graph: maximal
// strict chains, the critical paths among them, resource conflicts
// between concurrently-eligible criteria, and merge opportunities in the
// linear order.
func Analyze(store *criteria.Store) *DebugInfo {
	snapshot := store.All()

	chains := strictChains(snapshot)
	info := &DebugInfo{
		DependencyChains:             chains,
		ResourceConflicts:            resourceConflicts(snapshot),
		ParallelizationOpportunities: opportunities(store, snapshot),
		CriticalPaths:                criticalPaths(snapshot, chains),
	}
	info.OptimizationSuggestions = suggestions(snapshot, info)
	return info
}

// strictChains enumerates every maximal chain in the strict-dependency
// subgraph, ordered dependency-first. Chains are sorted by total
// duration, longest first.
func strictChains(snapshot map[string]criteria.Criterion) []Chain {
	// dependents[x] lists criteria that strictly depend on x.
	dependents := make(map[string][]string, len(snapshot))
	hasStrictDep := make(map[string]bool, len(snapshot))
	for name, rec := range snapshot {
		for _, dep := range rec.Dependencies {
			if dep.Type != criteria.DepStrict {
				continue
			}
			if _, present := snapshot[dep.Target]; !present {
				continue
			}
			dependents[dep.Target] = append(dependents[dep.Target], name)
			hasStrictDep[name] = true
		}
	}
	for _, names := range dependents {
		sort.Strings(names)
	}

	var roots []string
	for name := range snapshot {
		if !hasStrictDep[name] {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	var chains []Chain
	var walk func(path []string)
	walk = func(path []string) {
		tail := path[len(path)-1]
		next := dependents[tail]
		if len(next) == 0 {
			if len(path) > 1 {
				chains = append(chains, makeChain(snapshot, path))
			}
			return
		}
		for _, n := range next {
			if contains(path, n) {
				continue // cycle guard; validation owns reporting it
			}
			walk(append(path, n))
		}
	}
	for _, root := range roots {
		walk([]string{root})
	}

	sort.SliceStable(chains, func(i, j int) bool {
		if chains[i].TotalMs != chains[j].TotalMs {
			return chains[i].TotalMs > chains[j].TotalMs
		}
		return fmt.Sprint(chains[i].Criteria) < fmt.Sprint(chains[j].Criteria)
	})
	return chains
}

func makeChain(snapshot map[string]criteria.Criterion, path []string) Chain {
	c := Chain{Criteria: append([]string(nil), path...), Parallelizable: true}
	for _, name := range path {
		rec := snapshot[name]
		c.TotalMs += rec.EstimatedMs
		if !rec.Parallelizable {
			c.Parallelizable = false
		}
	}
	return c
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// criticalPaths returns the top chains by total duration, annotated with
// their bottleneck criterion and the headroom the rest of the chain
// represents.
func criticalPaths(snapshot map[string]criteria.Criterion, chains []Chain) []CriticalPath {
	limit := criticalPathLimit
	if len(chains) < limit {
		limit = len(chains)
	}
	paths := make([]CriticalPath, 0, limit)
	for _, chain := range chains[:limit] {
		bottleneck := ""
		var longest int64 = -1
		for _, name := range chain.Criteria {
			if ms := snapshot[name].EstimatedMs; ms > longest {
				longest = ms
				bottleneck = name
			}
		}
		paths = append(paths, CriticalPath{
			Chain:      chain,
			Bottleneck: bottleneck,
			HeadroomMs: chain.TotalMs - longest,
		})
	}
	return paths
}

// resourceConflicts finds tags claimed by two or more criteria with no
// blocking-dependency path between them; those could contend at runtime.
func resourceConflicts(snapshot map[string]criteria.Criterion) []Conflict {
	reach := blockingReachability(snapshot)

	claimants := make(map[criteria.ResourceTag][]string)
	for name, rec := range snapshot {
		for _, tag := range rec.Resources {
			claimants[tag] = append(claimants[tag], name)
		}
	}

	var conflicts []Conflict
	for _, tag := range criteria.AllResourceTags {
		names := claimants[tag]
		sort.Strings(names)

		var eligible []string
		for i, a := range names {
			for j, b := range names {
				if i == j || reach[a][b] || reach[b][a] {
					continue
				}
				if !contains(eligible, a) {
					eligible = append(eligible, a)
				}
				if !contains(eligible, b) {
					eligible = append(eligible, b)
				}
			}
		}
		if len(eligible) < 2 {
			continue
		}
		sort.Strings(eligible)
		severity := "medium"
		if tag.Exclusive() {
			severity = "high"
		}
		conflicts = append(conflicts, Conflict{Resource: tag, Criteria: eligible, Severity: severity})
	}
	return conflicts
}

// blockingReachability computes, per criterion, the set of criteria
// reachable over strict+weak edges.
func blockingReachability(snapshot map[string]criteria.Criterion) map[string]map[string]bool {
	reach := make(map[string]map[string]bool, len(snapshot))
	var visit func(from string, seen map[string]bool)
	visit = func(from string, seen map[string]bool) {
		rec, ok := snapshot[from]
		if !ok {
			return
		}
		for _, dep := range rec.BlockingDeps() {
			if seen[dep.Target] {
				continue
			}
			seen[dep.Target] = true
			visit(dep.Target, seen)
		}
	}
	for name := range snapshot {
		seen := make(map[string]bool)
		visit(name, seen)
		reach[name] = seen
	}
	return reach
}

// opportunities scans the linear execution order for consecutive runs of
// mutually independent criteria and estimates the time merging each run
// would save.
func opportunities(store *criteria.Store, snapshot map[string]criteria.Criterion) []Opportunity {
	order := planner.Order(store, nil)
	reach := blockingReachability(snapshot)

	var out []Opportunity
	i := 0
	for i < len(order) {
		group := []string{order[i].Criterion}
		j := i + 1
		for j < len(order) {
			next := order[j].Criterion
			independent := true
			for _, member := range group {
				if reach[next][member] || reach[member][next] {
					independent = false
					break
				}
			}
			if !independent {
				break
			}
			group = append(group, next)
			j++
		}
		if len(group) > 1 {
			var total, longest int64
			for _, name := range group {
				ms := snapshot[name].EstimatedMs
				total += ms
				if ms > longest {
					longest = ms
				}
			}
			out = append(out, Opportunity{
				Position:    i,
				Criteria:    group,
				SavedMs:     total - longest,
				Description: fmt.Sprintf("positions %d-%d are mutually independent and can run as one wave", i, j-1),
			})
		}
		i = j
	}
	return out
}

// suggestions turns the analysis into a prioritized action list.
func suggestions(snapshot map[string]criteria.Criterion, info *DebugInfo) []Suggestion {
	var out []Suggestion

	if len(info.CriticalPaths) > 0 {
		cp := info.CriticalPaths[0]
		if cp.TotalMs > 0 {
			out = append(out, Suggestion{
				Priority: "high",
				Message: fmt.Sprintf("critical path %v totals %dms; %q dominates it — shorten or split that criterion first",
					cp.Criteria, cp.TotalMs, cp.Bottleneck),
			})
		}
	}
	for _, c := range info.ResourceConflicts {
		if c.Severity != "high" {
			continue
		}
		out = append(out, Suggestion{
			Priority: "high",
			Message:  fmt.Sprintf("criteria %v contend for exclusive resource %q and will serialize; consider dedicated bindings", c.Criteria, c.Resource),
		})
	}
	var solo []string
	for name, rec := range snapshot {
		if !rec.Parallelizable {
			solo = append(solo, name)
		}
	}
	if len(solo) > 0 {
		sort.Strings(solo)
		out = append(out, Suggestion{
			Priority: "medium",
			Message:  fmt.Sprintf("criteria %v are marked non-parallelizable and each occupy a full wave", solo),
		})
	}
	if len(info.ParallelizationOpportunities) > 0 {
		var saved int64
		for _, o := range info.ParallelizationOpportunities {
			saved += o.SavedMs
		}
		out = append(out, Suggestion{
			Priority: "low",
			Message:  fmt.Sprintf("merging independent order positions could save about %dms overall", saved),
		})
	}
	return out
}
