package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/checkwavego/internal/history"
)

// HistoryFileName is the execution-history file inside the configuration
// directory. Persisting the log lets analytics span CLI invocations.
const HistoryFileName = "history.json"

// SaveHistory writes the retained log entries next to the dependency
// config, atomically.
func SaveHistory(log *history.Log, dir string) (string, error) {
	raw, err := json.MarshalIndent(log.Entries(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode execution history: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, HistoryFileName)

	tmp, err := os.CreateTemp(dir, HistoryFileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write execution history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp history file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to replace execution history: %w", err)
	}
	return path, nil
}

// LoadHistory restores the log from dir. A missing file leaves the log
// untouched and returns nil.
func LoadHistory(log *history.Log, dir string) error {
	path := filepath.Join(dir, HistoryFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read execution history: %w", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("failed to parse execution history %s: %w", path, err)
	}
	log.Restore(entries)
	return nil
}
