package viz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/checkwavego/internal/criteria"
)

func seededStore(t *testing.T) *criteria.Store {
	t.Helper()
	s := criteria.NewStore()
	criteria.Seed(s)
	return s
}

func TestGraph(t *testing.T) {
	t.Run("seed graph view", func(t *testing.T) {
		view := Graph(seededStore(t))
		assert.Len(t, view.Nodes, 7)
		assert.Len(t, view.Edges, 5)
		assert.Equal(t, 4, view.Levels, "linter -> type -> build -> test is the longest chain")
	})

	t.Run("empty store", func(t *testing.T) {
		view := Graph(criteria.NewStore())
		assert.Empty(t, view.Nodes)
		assert.Empty(t, view.Edges)
		assert.Zero(t, view.Levels)
	})

	t.Run("dangling edges stay visible", func(t *testing.T) {
		s := criteria.NewStore()
		require.NoError(t, s.Add("a", criteria.Spec{
			Dependencies: []criteria.DependencyRef{{Target: "ghost", Type: criteria.DepStrict}},
		}))
		view := Graph(s)
		require.Len(t, view.Edges, 1)
		assert.Equal(t, "ghost", view.Edges[0].To)
		assert.Equal(t, 1, view.Levels, "absent targets do not extend chains")
	})

	t.Run("cyclic graph still terminates", func(t *testing.T) {
		s := criteria.NewStore()
		require.NoError(t, s.Add("a", criteria.Spec{
			Dependencies: []criteria.DependencyRef{{Target: "b", Type: criteria.DepStrict}},
		}))
		require.NoError(t, s.Add("b", criteria.Spec{
			Dependencies: []criteria.DependencyRef{{Target: "a", Type: criteria.DepStrict}},
		}))
		view := Graph(s)
		assert.NotZero(t, view.Levels)
	})
}

func TestRender(t *testing.T) {
	t.Run("unknown format fails", func(t *testing.T) {
		_, err := Render(seededStore(t), "svg")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("mermaid", func(t *testing.T) {
		d, err := Render(seededStore(t), FormatMermaid)
		require.NoError(t, err)
		assert.Contains(t, d.Content, "graph TD")
		assert.Contains(t, d.Content, "build_validation")
		assert.Contains(t, d.Content, "-.->", "weak edges render dashed")
		assert.Contains(t, d.Instructions, "mermaid")
		assert.Nil(t, d.Debug)
	})

	t.Run("graphviz", func(t *testing.T) {
		d, err := Render(seededStore(t), FormatGraphviz)
		require.NoError(t, err)
		assert.Contains(t, d.Content, "digraph criteria")
		assert.Contains(t, d.Content, "style=dashed")
		assert.Contains(t, d.Instructions, "dot")
	})

	t.Run("ascii", func(t *testing.T) {
		d, err := Render(seededStore(t), FormatASCII)
		require.NoError(t, err)
		assert.Contains(t, d.Content, "build-validation")
		assert.Contains(t, d.Content, "requires linter-validation")
		assert.Contains(t, d.Content, "[solo]", "non-parallelizable criteria are marked")
	})

	t.Run("json carries debug info and parses", func(t *testing.T) {
		d, err := Render(seededStore(t), FormatJSON)
		require.NoError(t, err)
		require.NotNil(t, d.Debug)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(d.Content), &doc))
		assert.Contains(t, doc, "nodes")
		assert.Contains(t, doc, "debugInfo")
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("seed graph analysis", func(t *testing.T) {
		info := Analyze(seededStore(t))

		require.NotEmpty(t, info.DependencyChains)
		longest := info.DependencyChains[0]
		assert.Equal(t, []string{"type-validation", "build-validation", "test-validation"}, longest.Criteria)
		assert.Equal(t, int64(210000), longest.TotalMs)

		require.NotEmpty(t, info.CriticalPaths)
		assert.LessOrEqual(t, len(info.CriticalPaths), 5)
		top := info.CriticalPaths[0]
		assert.Equal(t, "test-validation", top.Bottleneck)
		assert.Equal(t, int64(90000), top.HeadroomMs)

		assert.NotEmpty(t, info.OptimizationSuggestions)
	})

	t.Run("resource conflicts require concurrently eligible claimants", func(t *testing.T) {
		s := criteria.NewStore()
		require.NoError(t, s.Add("a", criteria.Spec{Resources: []criteria.ResourceTag{criteria.ResPorts}}))
		require.NoError(t, s.Add("b", criteria.Spec{Resources: []criteria.ResourceTag{criteria.ResPorts}}))

		info := Analyze(s)
		require.Len(t, info.ResourceConflicts, 1)
		assert.Equal(t, criteria.ResPorts, info.ResourceConflicts[0].Resource)
		assert.Equal(t, "high", info.ResourceConflicts[0].Severity)
		assert.ElementsMatch(t, []string{"a", "b"}, info.ResourceConflicts[0].Criteria)
	})

	t.Run("ordered claimants do not conflict", func(t *testing.T) {
		s := criteria.NewStore()
		require.NoError(t, s.Add("a", criteria.Spec{Resources: []criteria.ResourceTag{criteria.ResPorts}}))
		require.NoError(t, s.Add("b", criteria.Spec{
			Dependencies: []criteria.DependencyRef{{Target: "a", Type: criteria.DepStrict}},
			Resources:    []criteria.ResourceTag{criteria.ResPorts},
		}))

		info := Analyze(s)
		assert.Empty(t, info.ResourceConflicts, "a dependency chain serializes the claimants already")
	})

	t.Run("independent criteria are a parallelization opportunity", func(t *testing.T) {
		s := criteria.NewStore()
		require.NoError(t, s.Add("a", criteria.Spec{EstimatedMs: 1000}))
		require.NoError(t, s.Add("b", criteria.Spec{EstimatedMs: 3000}))

		info := Analyze(s)
		require.Len(t, info.ParallelizationOpportunities, 1)
		opp := info.ParallelizationOpportunities[0]
		assert.ElementsMatch(t, []string{"a", "b"}, opp.Criteria)
		assert.Equal(t, int64(1000), opp.SavedMs)
	})

	t.Run("empty store analysis is empty", func(t *testing.T) {
		info := Analyze(criteria.NewStore())
		assert.Empty(t, info.DependencyChains)
		assert.Empty(t, info.ResourceConflicts)
		assert.Empty(t, info.ParallelizationOpportunities)
		assert.Empty(t, info.CriticalPaths)
	})
}
