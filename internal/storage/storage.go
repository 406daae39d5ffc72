package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/cricstats/internal/stats"
)

// DefaultName is the snapshot name used when none is given
const DefaultName = "latest"

// ErrNoSnapshot is returned when a requested snapshot has never been saved
var ErrNoSnapshot = errors.New("no snapshot saved")

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Snapshot is a stats table as it was fetched at a point in time
type Snapshot struct {
	SourceURL string       `json:"source_url"`
	FetchedAt time.Time    `json:"fetched_at"`
	SavedAt   string       `json:"saved_at"`
	Table     *stats.Table `json:"table"`
}

// Storage handles persistence of table snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the directory snapshots are written to
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath(name string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	if !validName.MatchString(name) {
		return "", fmt.Errorf("invalid snapshot name: %q", name)
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", strings.ToLower(name))), nil
}

// SaveSnapshot writes a snapshot to disk under name
func (s *Storage) SaveSnapshot(snapshot *Snapshot, name string) error {
	if snapshot == nil || snapshot.Table == nil {
		return fmt.Errorf("snapshot has no table")
	}

	path, err := s.snapshotPath(name)
	if err != nil {
		return err
	}

	snapshot.SavedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write then rename; readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// SaveTable wraps table in a snapshot and saves it under name
func (s *Storage) SaveTable(table *stats.Table, sourceURL string, fetchedAt time.Time, name string) error {
	return s.SaveSnapshot(&Snapshot{
		SourceURL: sourceURL,
		FetchedAt: fetchedAt,
		Table:     table,
	}, name)
}

// LoadSnapshot reads the snapshot saved under name. The table is revalidated
// so a hand-edited file cannot break the header and row-width invariants.
func (s *Storage) LoadSnapshot(name string) (*Snapshot, error) {
	path, err := s.snapshotPath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, filepath.Base(path))
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Table == nil {
		return nil, fmt.Errorf("snapshot %s has no table", filepath.Base(path))
	}

	table, err := stats.NewTable(snapshot.Table.Headers, snapshot.Table.Rows)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot table: %w", err)
	}
	table.Adjusted = snapshot.Table.Adjusted
	snapshot.Table = table

	return &snapshot, nil
}
