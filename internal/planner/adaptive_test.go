package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAdaptive(t *testing.T) {
	t.Run("loaded host pins concurrency low", func(t *testing.T) {
		s := seededStore(t)
		adaptive := PlanAdaptive(s, nil, SystemInfo{
			AvailableCPUs:        2,
			AvailableMemoryBytes: 2 << 30,
			NetworkLatencyMs:     150,
			DiskIOLoad:           0.8,
		})

		assert.LessOrEqual(t, adaptive.RecommendedConcurrency, 4)
		assert.Equal(t, 1, adaptive.Bounds.CPUOptimized, "0.8 of 2 CPUs floors to 1")
		assert.Equal(t, 4, adaptive.Bounds.MemoryOptimized, "2GiB over 512MiB per task")
		assert.Equal(t, 2, adaptive.Bounds.NetworkOptimized)
		assert.Equal(t, 2, adaptive.Bounds.DiskOptimized)
		assert.Equal(t, 1, adaptive.RecommendedConcurrency)
		require.NotEmpty(t, adaptive.ResourceScheduling)

		types := make(map[string]bool)
		for _, rec := range adaptive.ResourceScheduling {
			types[rec.Type] = true
		}
		assert.True(t, types["network_prioritization"])
		assert.True(t, types["disk_io_staggering"])
	})

	t.Run("idle host leaves concurrency at natural parallelism", func(t *testing.T) {
		s := seededStore(t)
		adaptive := PlanAdaptive(s, nil, SystemInfo{
			AvailableCPUs:        16,
			AvailableMemoryBytes: 32 << 30,
			NetworkLatencyMs:     5,
			DiskIOLoad:           0.1,
		})

		assert.Equal(t, 12, adaptive.Bounds.CPUOptimized)
		assert.Equal(t, 7, adaptive.Bounds.NetworkOptimized, "unconstrained factors default to request size")
		assert.Equal(t, 7, adaptive.Bounds.DiskOptimized)
		assert.Equal(t, 7, adaptive.RecommendedConcurrency)
		assert.Empty(t, adaptive.ResourceScheduling)
	})

	t.Run("unknown memory does not constrain", func(t *testing.T) {
		s := seededStore(t)
		adaptive := PlanAdaptive(s, nil, SystemInfo{AvailableCPUs: 8})
		assert.Equal(t, 7, adaptive.Bounds.MemoryOptimized)
		assert.Equal(t, 6, adaptive.RecommendedConcurrency)
	})

	t.Run("recommended concurrency is never below one", func(t *testing.T) {
		s := seededStore(t)
		adaptive := PlanAdaptive(s, nil, SystemInfo{
			AvailableCPUs:        0,
			AvailableMemoryBytes: 1,
		})
		assert.Equal(t, 1, adaptive.RecommendedConcurrency)
	})

	t.Run("timing summarizes the resulting plan", func(t *testing.T) {
		s := seededStore(t)
		adaptive := PlanAdaptive(s, nil, SystemInfo{AvailableCPUs: 8, AvailableMemoryBytes: 32 << 30})
		assert.Equal(t, adaptive.Plan.TotalWaves, adaptive.ExecutionTiming.Waves)
		assert.Equal(t, adaptive.Plan.EstimatedTotalMs, adaptive.ExecutionTiming.EstimatedTotalMs)
		if adaptive.Plan.TotalWaves > 0 {
			expected := float64(adaptive.Plan.EstimatedTotalMs) / float64(adaptive.Plan.TotalWaves)
			assert.InDelta(t, expected, adaptive.ExecutionTiming.AverageWaveMs, 0.001)
		}
	})
}
