package hclcfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/checkwavego/internal/criteria"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadPath(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pipeline.hcl")
		writeFile(t, path, `
criterion "compile" {
  description           = "Compile the project"
  estimated_duration_ms = 5 * 1000
  resources             = ["cpu", "filesystem"]
}

criterion "smoke" {
  estimated_duration_ms = 2000
  parallelizable        = false

  depends_on {
    target = "compile"
  }

  depends_on {
    target = "fmt-check"
    type   = "weak"
  }
}
`)

		store := criteria.NewStore()
		n, err := NewLoader().LoadPath(context.Background(), store, path)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		compile, ok := store.Get("compile")
		require.True(t, ok)
		assert.Equal(t, "Compile the project", compile.Description)
		assert.Equal(t, int64(5000), compile.EstimatedMs, "duration arithmetic is evaluated")
		assert.True(t, compile.Parallelizable)
		assert.Equal(t, []criteria.ResourceTag{criteria.ResCPU, criteria.ResFilesystem}, compile.Resources)

		smoke, ok := store.Get("smoke")
		require.True(t, ok)
		assert.False(t, smoke.Parallelizable)
		require.Len(t, smoke.Dependencies, 2)
		assert.Equal(t, criteria.DepStrict, smoke.Dependencies[0].Type, "omitted type defaults to strict")
		assert.Equal(t, criteria.DependencyRef{Target: "fmt-check", Type: criteria.DepWeak}, smoke.Dependencies[1])
	})

	t.Run("directory recursion skips non-hcl files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.hcl"), `criterion "a" {}`)
		writeFile(t, filepath.Join(dir, "nested", "b.hcl"), `criterion "b" {}`)
		writeFile(t, filepath.Join(dir, "notes.txt"), "not hcl")

		store := criteria.NewStore()
		n, err := NewLoader().LoadPath(context.Background(), store, dir)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"a", "b"}, store.Names())
	})

	t.Run("later file overrides earlier definition", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "01-base.hcl"), `
criterion "deploy" {
  estimated_duration_ms = 1000
}
`)
		writeFile(t, filepath.Join(dir, "02-override.hcl"), `
criterion "deploy" {
  estimated_duration_ms = 9000
}
`)

		store := criteria.NewStore()
		n, err := NewLoader().LoadPath(context.Background(), store, dir)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		deploy, ok := store.Get("deploy")
		require.True(t, ok)
		assert.Equal(t, int64(9000), deploy.EstimatedMs)
	})

	t.Run("missing path fails", func(t *testing.T) {
		store := criteria.NewStore()
		_, err := NewLoader().LoadPath(context.Background(), store, filepath.Join(t.TempDir(), "absent.hcl"))
		assert.Error(t, err)
	})

	t.Run("syntax error fails", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "broken.hcl")
		writeFile(t, path, `criterion "x" {`)

		_, err := NewLoader().LoadPath(context.Background(), criteria.NewStore(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("non-numeric duration fails", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.hcl")
		writeFile(t, path, `
criterion "x" {
  estimated_duration_ms = "soon"
}
`)

		_, err := NewLoader().LoadPath(context.Background(), criteria.NewStore(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a number")
	})

	t.Run("invalid dependency type fails", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.hcl")
		writeFile(t, path, `
criterion "x" {
  depends_on {
    target = "y"
    type   = "mandatory"
  }
}
`)

		_, err := NewLoader().LoadPath(context.Background(), criteria.NewStore(), path)
		assert.ErrorIs(t, err, criteria.ErrInvalidDependencySpec)
	})
}
