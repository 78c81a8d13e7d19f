// Package persist serializes the criteria store to a durable JSON file
// and merges it back. A missing file on load is an absent result, not an
// error; real I/O failures propagate wrapped.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/checkwavego/internal/criteria"
)

// ConfigFileName is the fixed name of the dependency configuration file
// inside the configuration directory.
const ConfigFileName = "dependency-config.json"

// SnapshotVersion is written into every saved snapshot.
const SnapshotVersion = "1.0"

// Snapshot is the on-disk form of the store: a full serialization keyed
// by criterion name.
type Snapshot struct {
	Version      string                        `json:"version"`
	LastUpdated  time.Time                     `json:"lastUpdated"`
	Dependencies map[string]criteria.Criterion `json:"dependencies"`
}

// Save writes the current store to ConfigFileName inside dir, creating
// the directory if needed, and returns the path written. The write is
// atomic: a temp file in the same directory renamed over the target.
func Save(store *criteria.Store, dir string) (string, error) {
	snapshot := Snapshot{
		Version:      SnapshotVersion,
		LastUpdated:  time.Now().UTC(),
		Dependencies: store.All(),
	}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode dependency config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, ConfigFileName)

	tmp, err := os.CreateTemp(dir, ConfigFileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write dependency config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp config file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to replace dependency config: %w", err)
	}
	return path, nil
}

// Load reads the snapshot at path and upserts every criterion into the
// store through the normal Add path, so insertion validation applies.
// A missing file returns (nil, nil).
func Load(store *criteria.Store, path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dependency config: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse dependency config %s: %w", path, err)
	}

	for name, rec := range snapshot.Dependencies {
		parallelizable := rec.Parallelizable
		err := store.Add(name, criteria.Spec{
			Dependencies:   rec.Dependencies,
			Description:    rec.Description,
			EstimatedMs:    rec.EstimatedMs,
			Parallelizable: &parallelizable,
			Resources:      rec.Resources,
		})
		if err != nil {
			return nil, fmt.Errorf("rejected criterion %q from %s: %w", name, path, err)
		}
	}
	return &snapshot, nil
}
