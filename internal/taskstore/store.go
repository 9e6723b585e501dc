// Package taskstore persists tasks-by-name snapshots between process
// invocations.
//
// Each invocation's snapshots live under:
//
//	<baseDir>/.tasktrack/invocations/<invocation-id>/tasks.json
//
// All writes are atomic and durable (file sync + atomic rename + dir sync),
// and a "latest" pointer file tracks the most recently saved invocation so
// the next invocation can find the snapshots to revive from.
package taskstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/task"
)

// Store provides persistent storage for task snapshots.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("baseDir is required")
	}
	return &Store{baseDir: baseDir}, nil
}

// NewInvocationID returns a fresh unique invocation identifier.
func NewInvocationID() string {
	return uuid.NewString()
}

// snapshotFile is the on-disk envelope for one invocation's snapshots.
type snapshotFile struct {
	Invocation string                     `json:"invocation"`
	SavedAt    time.Time                  `json:"savedAt"`
	Tasks      map[string]json.RawMessage `json:"tasks"`
}

func (s *Store) invocationsRootDir() string {
	return filepath.Join(s.baseDir, ".tasktrack", "invocations")
}

func (s *Store) invocationDir(invocationID string) string {
	return filepath.Join(s.invocationsRootDir(), invocationID)
}

func (s *Store) tasksPath(invocationID string) string {
	return filepath.Join(s.invocationDir(invocationID), "tasks.json")
}

func (s *Store) latestPath() string {
	return filepath.Join(s.baseDir, ".tasktrack", "latest")
}

// ListInvocationIDs returns all invocation IDs currently present on disk.
//
// Determinism: the returned slice is sorted lexicographically.
func (s *Store) ListInvocationIDs() ([]string, error) {
	if s == nil {
		return nil, errors.New("nil Store")
	}
	entries, err := os.ReadDir(s.invocationsRootDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := strings.TrimSpace(e.Name())
		if name == "" {
			continue
		}
		ids = append(ids, name)
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveSnapshots replaces the stored snapshots for invocationID with the
// given tasks' snapshots, keyed by root task name, and repoints "latest" at
// this invocation. Duplicate names are rejected: a name maps to exactly one
// stored snapshot.
func (s *Store) SaveSnapshots(invocationID string, tasks []*task.Task) error {
	if strings.TrimSpace(invocationID) == "" {
		return errors.New("invocationID is required")
	}

	file := snapshotFile{
		Invocation: invocationID,
		SavedAt:    time.Now().UTC(),
		Tasks:      make(map[string]json.RawMessage, len(tasks)),
	}
	for _, t := range tasks {
		if t == nil {
			return errors.New("nil task")
		}
		if _, exists := file.Tasks[t.Name()]; exists {
			return fmt.Errorf("duplicate task name: %q", t.Name())
		}
		data, err := json.Marshal(t.Snapshot())
		if err != nil {
			return fmt.Errorf("marshal snapshot %q: %w", t.Name(), err)
		}
		file.Tasks[t.Name()] = data
	}

	if err := ensureDirDurable(s.invocationDir(invocationID), 0o755); err != nil {
		return fmt.Errorf("ensure invocation dir: %w", err)
	}
	data, err := jsonMarshalStable(file)
	if err != nil {
		return fmt.Errorf("marshal snapshots: %w", err)
	}
	if err := writeFileAtomicDurable(s.tasksPath(invocationID), data, 0o644); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	if err := writeFileAtomicDurable(s.latestPath(), []byte(invocationID+"\n"), 0o644); err != nil {
		return fmt.Errorf("write latest pointer: %w", err)
	}
	return nil
}

// LoadSnapshots loads one invocation's snapshots as a tasks-by-name map of
// plain JSON-decoded values, the shape Factory.ReviveTasks consumes.
func (s *Store) LoadSnapshots(invocationID string) (map[string]any, error) {
	if strings.TrimSpace(invocationID) == "" {
		return nil, errors.New("invocationID is required")
	}
	var file snapshotFile
	if err := readJSONStrict(s.tasksPath(invocationID), &file); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(file.Tasks))
	for name, raw := range file.Tasks {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode snapshot %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// LoadLatest loads the most recently saved invocation's snapshots and
// returns them with that invocation's ID. A store with no saved invocations
// yields an empty map and an empty ID.
func (s *Store) LoadLatest() (map[string]any, string, error) {
	data, err := os.ReadFile(s.latestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, "", nil
		}
		return nil, "", err
	}
	invocationID := strings.TrimSpace(string(data))
	if invocationID == "" {
		return map[string]any{}, "", nil
	}
	snapshots, err := s.LoadSnapshots(invocationID)
	if err != nil {
		return nil, "", err
	}
	return snapshots, invocationID, nil
}

func jsonMarshalStable(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func readJSONStrict(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON: trailing content")
	}
	return nil
}

func ensureDirDurable(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return err
	}
	// Best-effort durability: sync the directory and its parent.
	if err := fsyncDir(dir); err != nil {
		return err
	}
	parent := filepath.Dir(dir)
	if parent != dir {
		if err := fsyncDir(parent); err != nil {
			return err
		}
	}
	return nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
