package planner

import (
	"fmt"
	"sort"

	"github.com/vk/checkwavego/internal/criteria"
)

// Wave is a group of criteria scheduled to run concurrently in one step
// of a parallel plan.
type Wave struct {
	Index       int      `json:"wave"`
	Criteria    []string `json:"criteria"`
	Concurrency int      `json:"concurrency"`
}

// Efficiency aggregates how well a plan uses the allowed concurrency.
type Efficiency struct {
	AverageConcurrency  float64                          `json:"averageConcurrency"`
	LoadBalanceScore    float64                          `json:"loadBalanceScore"`
	ResourceUtilization map[criteria.ResourceTag]float64 `json:"resourceUtilization"`
}

// Recommendation is an advisory note attached to a plan.
type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Impact  string `json:"impact"`
}

// Plan is the result of wave scheduling. EstimatedTotalMs assumes every
// wave runs its criteria fully in parallel; SequentialMs is the
// one-at-a-time baseline.
type Plan struct {
	Waves               []Wave           `json:"plan"`
	TotalWaves          int              `json:"totalWaves"`
	EstimatedTotalMs    int64            `json:"estimatedTotalDurationMs"`
	SequentialMs        int64            `json:"sequentialDurationMs"`
	ParallelizationGain float64          `json:"parallelizationGain"`
	Efficiency          Efficiency       `json:"efficiency"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// imbalanceFactor flags waves whose duration exceeds the mean by this ratio.
const imbalanceFactor = 1.5

// PlanWaves groups the linear execution order into concurrent waves.
// Each wave holds at most max(1, maxConcurrency) criteria, never two
// criteria sharing an exclusivity-sensitive resource tag, and never a
// criterion whose in-set blocking dependencies have not completed in an
// earlier wave. Within the ready candidates, criteria that unblock more
// downstream work are placed first, tie-broken by shorter estimated
// duration. A non-parallelizable criterion always runs in a wave of its
// own.
func PlanWaves(store *criteria.Store, names []string, maxConcurrency int) Plan {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	order := Order(store, names)
	if len(order) == 0 {
		return Plan{
			Waves:      []Wave{},
			Efficiency: Efficiency{ResourceUtilization: map[criteria.ResourceTag]float64{}},
		}
	}

	snapshot := store.All()
	requested := make(map[string]bool, len(order))
	for _, step := range order {
		requested[step.Criterion] = true
	}
	dependents := dependentCounts(snapshot, requested)

	remaining := make([]string, len(order))
	for i, step := range order {
		remaining[i] = step.Criterion
	}

	var waves []Wave
	completed := make(map[string]bool, len(order))
	hitCap := false
	for len(remaining) > 0 {
		// The ready run: consecutive order entries whose in-set blocking
		// deps all completed in earlier waves. The first unsatisfied entry
		// is a dependency boundary that closes the wave.
		run := 0
		for run < len(remaining) && waveReady(snapshot, requested, completed, remaining[run]) {
			run++
		}

		candidates := make([]string, run)
		copy(candidates, remaining[:run])
		sort.SliceStable(candidates, func(i, j int) bool {
			di, dj := dependents[candidates[i]], dependents[candidates[j]]
			if di != dj {
				return di > dj
			}
			ei, ej := estimatedMs(snapshot, candidates[i]), estimatedMs(snapshot, candidates[j])
			if ei != ej {
				return ei < ej
			}
			return candidates[i] < candidates[j]
		})

		var members []string
		skippedEligible := false
		for _, cand := range candidates {
			if len(members) >= maxConcurrency {
				skippedEligible = true
				break
			}
			if !fitsWave(snapshot, members, cand) {
				continue
			}
			members = append(members, cand)
		}
		if len(members) == 0 {
			// The head of the order is always dependency-ready; take it alone.
			members = []string{remaining[0]}
		}
		if skippedEligible {
			hitCap = true
		}

		waves = append(waves, Wave{
			Index:       len(waves),
			Criteria:    members,
			Concurrency: len(members),
		})

		inWave := make(map[string]bool, len(members))
		for _, m := range members {
			inWave[m] = true
			completed[m] = true
		}
		rest := remaining[:0]
		for _, name := range remaining {
			if !inWave[name] {
				rest = append(rest, name)
			}
		}
		remaining = rest
	}

	return finishPlan(snapshot, order, waves, maxConcurrency, hitCap)
}

// waveReady reports whether every in-set blocking dependency of the
// criterion completed in an earlier wave. Out-of-set targets were already
// handled by order forcing and cannot be waited on.
func waveReady(snapshot map[string]criteria.Criterion, requested, completed map[string]bool, name string) bool {
	rec, known := snapshot[name]
	if !known {
		return true
	}
	for _, dep := range rec.BlockingDeps() {
		if requested[dep.Target] && !completed[dep.Target] {
			return false
		}
	}
	return true
}

// fitsWave applies the co-residency rules: exclusive resource tags may
// appear once per wave, and non-parallelizable criteria run alone.
func fitsWave(snapshot map[string]criteria.Criterion, members []string, cand string) bool {
	if len(members) == 0 {
		return true
	}
	rec, known := snapshot[cand]
	if !known {
		return true
	}
	if !rec.Parallelizable {
		return false
	}
	claimed := make(map[criteria.ResourceTag]bool)
	for _, m := range members {
		mrec, ok := snapshot[m]
		if !ok {
			continue
		}
		if !mrec.Parallelizable {
			return false
		}
		for _, tag := range mrec.Resources {
			if tag.Exclusive() {
				claimed[tag] = true
			}
		}
	}
	for _, tag := range rec.Resources {
		if tag.Exclusive() && claimed[tag] {
			return false
		}
	}
	return true
}

// dependentCounts maps each requested criterion to the number of other
// requested criteria that strictly or weakly depend on it.
func dependentCounts(snapshot map[string]criteria.Criterion, requested map[string]bool) map[string]int {
	counts := make(map[string]int, len(requested))
	for name, rec := range snapshot {
		if !requested[name] {
			continue
		}
		for _, dep := range rec.BlockingDeps() {
			if requested[dep.Target] {
				counts[dep.Target]++
			}
		}
	}
	return counts
}

func estimatedMs(snapshot map[string]criteria.Criterion, name string) int64 {
	if rec, ok := snapshot[name]; ok {
		return rec.EstimatedMs
	}
	return 0
}

// finishPlan computes the duration metrics, efficiency scores and
// recommendations for the assembled waves.
func finishPlan(snapshot map[string]criteria.Criterion, order []Step, waves []Wave, maxConcurrency int, hitCap bool) Plan {
	var sequential int64
	for _, step := range order {
		sequential += estimatedMs(snapshot, step.Criterion)
	}

	waveMs := make([]int64, len(waves))
	var estimated int64
	tagWaves := make(map[criteria.ResourceTag]int)
	for i, w := range waves {
		var longest int64
		seen := make(map[criteria.ResourceTag]bool)
		for _, name := range w.Criteria {
			if ms := estimatedMs(snapshot, name); ms > longest {
				longest = ms
			}
			if rec, ok := snapshot[name]; ok {
				for _, tag := range rec.Resources {
					seen[tag] = true
				}
			}
		}
		for tag := range seen {
			tagWaves[tag]++
		}
		waveMs[i] = longest
		estimated += longest
	}

	gain := 0.0
	if sequential > 0 {
		gain = float64(sequential-estimated) / float64(sequential)
	}

	utilization := make(map[criteria.ResourceTag]float64, len(tagWaves))
	for tag, n := range tagWaves {
		utilization[tag] = float64(n) / float64(len(waves))
	}

	plan := Plan{
		Waves:               waves,
		TotalWaves:          len(waves),
		EstimatedTotalMs:    estimated,
		SequentialMs:        sequential,
		ParallelizationGain: gain,
		Efficiency: Efficiency{
			AverageConcurrency:  float64(len(order)) / float64(len(waves)),
			LoadBalanceScore:    loadBalanceScore(waveMs),
			ResourceUtilization: utilization,
		},
	}
	plan.Recommendations = recommendations(plan, waveMs, tagWaves, maxConcurrency, hitCap)
	return plan
}

// loadBalanceScore maps the mean deviation of wave durations from their
// average onto [0,1]; 1 means perfectly even waves.
func loadBalanceScore(waveMs []int64) float64 {
	if len(waveMs) == 0 {
		return 0
	}
	var total int64
	for _, ms := range waveMs {
		total += ms
	}
	if total == 0 {
		return 1
	}
	mean := float64(total) / float64(len(waveMs))
	var deviation float64
	for _, ms := range waveMs {
		d := float64(ms) - mean
		if d < 0 {
			d = -d
		}
		deviation += d
	}
	score := 1 - deviation/float64(len(waveMs))/mean
	if score < 0 {
		return 0
	}
	return score
}

func recommendations(plan Plan, waveMs []int64, tagWaves map[criteria.ResourceTag]int, maxConcurrency int, hitCap bool) []Recommendation {
	var recs []Recommendation

	tags := make([]criteria.ResourceTag, 0, len(tagWaves))
	for tag := range tagWaves {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, tag := range tags {
		if float64(tagWaves[tag]) <= float64(plan.TotalWaves)/2 {
			continue
		}
		impact := "medium"
		if tag.Exclusive() {
			impact = "high"
		}
		recs = append(recs, Recommendation{
			Type:    "resource_contention",
			Message: fmt.Sprintf("resource %q is claimed in %d of %d waves; consider spreading it across the plan", tag, tagWaves[tag], plan.TotalWaves),
			Impact:  impact,
		})
	}

	if len(waveMs) > 1 {
		var total int64
		for _, ms := range waveMs {
			total += ms
		}
		mean := float64(total) / float64(len(waveMs))
		for i, ms := range waveMs {
			if mean > 0 && float64(ms) > imbalanceFactor*mean {
				recs = append(recs, Recommendation{
					Type:    "load_imbalance",
					Message: fmt.Sprintf("wave %d runs %dms against a %.0fms average; split its longest criteria if possible", i, ms, mean),
					Impact:  "medium",
				})
			}
		}
	}

	if hitCap {
		recs = append(recs, Recommendation{
			Type:    "concurrency_capped",
			Message: fmt.Sprintf("ready criteria were deferred because maxConcurrency=%d is below the graph's natural parallelism", maxConcurrency),
			Impact:  "high",
		})
	}
	return recs
}
