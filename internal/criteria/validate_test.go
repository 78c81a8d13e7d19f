package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addDep inserts name -> target edges of the given type.
func addDep(t *testing.T, s *Store, name string, depType DependencyType, targets ...string) {
	t.Helper()
	var deps []DependencyRef
	for _, target := range targets {
		deps = append(deps, DependencyRef{Target: target, Type: depType})
	}
	require.NoError(t, s.Add(name, Spec{Dependencies: deps}))
}

func TestValidate(t *testing.T) {
	t.Run("empty store is valid", func(t *testing.T) {
		s := NewStore()
		report := s.Validate()
		assert.True(t, report.Valid)
		assert.Empty(t, report.Issues)
	})

	t.Run("strict three-cycle yields one issue with all members", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "a", DepStrict, "b")
		addDep(t, s, "b", DepStrict, "c")
		addDep(t, s, "c", DepStrict, "a")

		report := s.Validate()
		assert.False(t, report.Valid)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, IssueCycle, report.Issues[0].Kind)
		assert.Equal(t, []string{"a", "b", "c"}, report.Issues[0].Criteria)
	})

	t.Run("weak edges participate in cycles", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "a", DepWeak, "b")
		addDep(t, s, "b", DepWeak, "a")

		report := s.Validate()
		assert.False(t, report.Valid)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, IssueCycle, report.Issues[0].Kind)
	})

	t.Run("optional edges cannot create cycles", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "a", DepOptional, "b")
		addDep(t, s, "b", DepOptional, "a")

		report := s.Validate()
		assert.True(t, report.Valid)
	})

	t.Run("self reference is a cycle", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "a", DepStrict, "a")

		report := s.Validate()
		assert.False(t, report.Valid)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, []string{"a"}, report.Issues[0].Criteria)
	})

	t.Run("disjoint cycles yield one issue each", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "a", DepStrict, "b")
		addDep(t, s, "b", DepStrict, "a")
		addDep(t, s, "x", DepStrict, "y")
		addDep(t, s, "y", DepStrict, "x")

		report := s.Validate()
		require.Len(t, report.Issues, 2)
		assert.Equal(t, []string{"a", "b"}, report.Issues[0].Criteria)
		assert.Equal(t, []string{"x", "y"}, report.Issues[1].Criteria)
	})

	t.Run("missing dependency reported per dangling edge", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "build", DepStrict, "lint", "typecheck")

		report := s.Validate()
		assert.False(t, report.Valid)
		require.Len(t, report.Issues, 2)
		for _, issue := range report.Issues {
			assert.Equal(t, IssueMissingDependency, issue.Kind)
			assert.Equal(t, "build", issue.Criterion)
		}
		assert.Equal(t, "lint", report.Issues[0].Missing)
		assert.Equal(t, "typecheck", report.Issues[1].Missing)
	})

	t.Run("cycle and missing issues combine", func(t *testing.T) {
		s := NewStore()
		addDep(t, s, "a", DepStrict, "b")
		addDep(t, s, "b", DepStrict, "a", "ghost")

		report := s.Validate()
		assert.False(t, report.Valid)
		require.Len(t, report.Issues, 2)
		assert.Equal(t, IssueCycle, report.Issues[0].Kind)
		assert.Equal(t, IssueMissingDependency, report.Issues[1].Kind)
	})
}
