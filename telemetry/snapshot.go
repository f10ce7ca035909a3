package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/antcolony/genome"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrEmptySnapshot is returned when a snapshot holds no genomes.
var ErrEmptySnapshot = errors.New("snapshot has no genomes")

// Snapshot holds a worker population at a generation boundary so a run can
// be resumed from it.
type Snapshot struct {
	Version    int              `json:"version"`
	RunID      string           `json:"run_id"`
	Seed       int64            `json:"seed"`
	Generation int              `json:"generation"`
	Population []*genome.Genome `json:"population"`
}

// SnapshotName returns the file name used for generation n.
func SnapshotName(generation int) string {
	return fmt.Sprintf("population_gen_%d.json", generation)
}

// SaveSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, SnapshotName(snapshot.Generation))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	if len(snapshot.Population) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrEmptySnapshot)
	}

	return &snapshot, nil
}
