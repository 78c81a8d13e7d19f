package planner

import (
	"fmt"
	"math"

	"github.com/vk/checkwavego/internal/criteria"
)

// SystemInfo is a snapshot of host resources, gathered by the caller.
// The planner never samples the operating system itself.
type SystemInfo struct {
	AvailableCPUs        int     `json:"availableCPUs"`
	AvailableMemoryBytes int64   `json:"availableMemoryBytes"`
	NetworkLatencyMs     float64 `json:"networkLatencyMs"`
	DiskIOLoad           float64 `json:"diskIOLoad"`
}

// Tuning thresholds for the adaptive bounds.
const (
	// perTaskMemoryBytes is the conservative memory estimate per running
	// criterion used to derive the memory concurrency bound.
	perTaskMemoryBytes = 512 << 20
	// highLatencyMs is the network latency above which concurrency is
	// pinned to constrainedConcurrency.
	highLatencyMs = 100
	// highDiskLoad is the disk I/O load above which concurrency is pinned
	// to constrainedConcurrency.
	highDiskLoad = 0.7
	// constrainedConcurrency is the cap applied under network or disk
	// pressure.
	constrainedConcurrency = 2
	// cpuHeadroomFactor leaves a share of cores for the host.
	cpuHeadroomFactor = 0.8
)

// Bounds holds the per-resource concurrency limits the adaptive planner
// derived. The recommended concurrency is their minimum.
type Bounds struct {
	CPUOptimized     int `json:"cpuOptimized"`
	MemoryOptimized  int `json:"memoryOptimized"`
	NetworkOptimized int `json:"networkOptimized"`
	DiskOptimized    int `json:"diskOptimized"`
}

// ExecutionTiming summarizes the wave timing estimate under the adapted
// concurrency.
type ExecutionTiming struct {
	Waves            int     `json:"waves"`
	EstimatedTotalMs int64   `json:"estimatedTotalDurationMs"`
	AverageWaveMs    float64 `json:"averageWaveDurationMs"`
}

// AdaptivePlan is a wave plan tuned to the host's current load.
type AdaptivePlan struct {
	Plan
	RecommendedConcurrency int              `json:"recommendedConcurrency"`
	Bounds                 Bounds           `json:"adaptiveOptimizations"`
	ResourceScheduling     []Recommendation `json:"resourceScheduling"`
	ExecutionTiming        ExecutionTiming  `json:"executionTiming"`
}

// PlanAdaptive derives a concurrency limit from the system snapshot and
// feeds it into wave scheduling. Each resource contributes an upper
// bound; a factor that does not constrain (low latency, idle disk,
// unknown memory) defaults to the natural parallelism of the request,
// so it never loosens another factor's limit.
func PlanAdaptive(store *criteria.Store, names []string, sys SystemInfo) AdaptivePlan {
	natural := len(names)
	if names == nil {
		natural = store.Len()
	}
	if natural < 1 {
		natural = 1
	}

	bounds := Bounds{
		CPUOptimized:     cpuBound(sys.AvailableCPUs),
		MemoryOptimized:  memoryBound(sys.AvailableMemoryBytes, natural),
		NetworkOptimized: natural,
		DiskOptimized:    natural,
	}
	var scheduling []Recommendation
	if sys.NetworkLatencyMs > highLatencyMs {
		bounds.NetworkOptimized = constrainedConcurrency
		scheduling = append(scheduling, Recommendation{
			Type:    "network_prioritization",
			Message: fmt.Sprintf("network latency %.0fms exceeds %dms; network-bound criteria run first at reduced concurrency", sys.NetworkLatencyMs, highLatencyMs),
			Impact:  "high",
		})
	}
	if sys.DiskIOLoad > highDiskLoad {
		bounds.DiskOptimized = constrainedConcurrency
		scheduling = append(scheduling, Recommendation{
			Type:    "disk_io_staggering",
			Message: fmt.Sprintf("disk I/O load %.2f exceeds %.2f; disk-heavy criteria are staggered across waves", sys.DiskIOLoad, highDiskLoad),
			Impact:  "medium",
		})
	}

	recommended := bounds.CPUOptimized
	for _, b := range []int{bounds.MemoryOptimized, bounds.NetworkOptimized, bounds.DiskOptimized} {
		if b < recommended {
			recommended = b
		}
	}
	if recommended < 1 {
		recommended = 1
	}

	plan := PlanWaves(store, names, recommended)
	timing := ExecutionTiming{
		Waves:            plan.TotalWaves,
		EstimatedTotalMs: plan.EstimatedTotalMs,
	}
	if plan.TotalWaves > 0 {
		timing.AverageWaveMs = float64(plan.EstimatedTotalMs) / float64(plan.TotalWaves)
	}

	return AdaptivePlan{
		Plan:                   plan,
		RecommendedConcurrency: recommended,
		Bounds:                 bounds,
		ResourceScheduling:     scheduling,
		ExecutionTiming:        timing,
	}
}

func cpuBound(cpus int) int {
	if cpus < 1 {
		return 1
	}
	b := int(math.Floor(float64(cpus) * cpuHeadroomFactor))
	if b < 1 {
		return 1
	}
	return b
}

func memoryBound(bytes int64, natural int) int {
	if bytes <= 0 {
		return natural // unknown memory does not constrain
	}
	b := int(bytes / perTaskMemoryBytes)
	if b < 1 {
		return 1
	}
	return b
}
