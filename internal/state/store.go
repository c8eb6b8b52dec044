package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
)

const (
	statusFile    = "status.json"
	downSinceFile = "down_since.json"
)

// Store persists the status snapshot and the down-since mapping as two
// JSON documents under Dir. Loading is tolerant: a missing or
// unparseable file comes back as an empty mapping, so broken state can
// never stop a run.
type Store struct {
	Dir    string
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{Dir: dir, logger: logger}
}

func (s *Store) Load() (domain.Snapshot, domain.DownSince) {
	snap := domain.Snapshot{}
	var rawSnap domain.Snapshot
	if s.readJSON(statusFile, &rawSnap) && rawSnap != nil {
		snap = rawSnap
	}

	down := domain.DownSince{}
	var rawDown domain.DownSince
	if s.readJSON(downSinceFile, &rawDown) && rawDown != nil {
		down = rawDown
	}

	return snap, down
}

// Save overwrites both documents wholesale. URLs absent from the given
// mappings are gone after this call; that is how pruning reaches disk.
func (s *Store) Save(snap domain.Snapshot, down domain.DownSince) error {
	if snap == nil {
		snap = domain.Snapshot{}
	}
	if down == nil {
		down = domain.DownSince{}
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := writeJSON(filepath.Join(s.Dir, statusFile), snap); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := writeJSON(filepath.Join(s.Dir, downSinceFile), down); err != nil {
		return fmt.Errorf("write down since: %w", err)
	}
	return nil
}

// readJSON reports whether v now holds the file's contents. Missing
// files are normal on the first run and stay quiet; anything else
// unreadable gets a warning and is treated as absent.
func (s *Store) readJSON(name string, v any) bool {
	path := filepath.Join(s.Dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("state_read_error", zap.String("file", name), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		s.logger.Warn("state_corrupt", zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
