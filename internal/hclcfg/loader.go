// Package hclcfg loads declarative criteria definitions from .hcl files
// into the criteria store.
package hclcfg

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/checkwavego/internal/criteria"
	"github.com/vk/checkwavego/internal/ctxlog"
	"github.com/vk/checkwavego/internal/schema"
)

// Loader parses criteria files and upserts their blocks into a store.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader returns a Loader backed by a fresh HCL parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// LoadPath loads a single .hcl file or every .hcl file under a directory
// (recursively, sorted walk order) into the store. It returns the number
// of criteria loaded.
func (l *Loader) LoadPath(ctx context.Context, store *criteria.Store, path string) (int, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat criteria path: %w", err)
	}
	if !info.IsDir() {
		return l.loadFile(ctx, store, path)
	}

	total := 0
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(p, ".hcl") {
			return nil
		}
		n, err := l.loadFile(ctx, store, p)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return total, err
	}
	logger.Debug("Criteria directory loaded.", "path", path, "criteria", total)
	return total, nil
}

// loadFile parses one criteria file and upserts its blocks.
func (l *Loader) loadFile(ctx context.Context, store *criteria.Store, path string) (int, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
	}

	var parsed schema.File
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return 0, fmt.Errorf("failed to decode %s: %s", path, diags.Error())
	}

	for _, block := range parsed.Criteria {
		spec, err := translateCriterion(block)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		if err := store.Add(block.Name, spec); err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("Criterion loaded.", "file", path, "criterion", block.Name)
	}
	return len(parsed.Criteria), nil
}
