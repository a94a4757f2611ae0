package state

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Store reads and writes the run record at a well-known path.
type Store struct {
	path string
}

// NewStore returns a Store for the given state file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path.
func (s *Store) Path() string { return s.path }

// Save writes the snapshot as a full overwrite and forces it durable before
// returning. Every save replaces the whole record; there is no append path.
func (s *Store) Save(snap Snapshot) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}

	if _, err := f.Write(encode(snap)); err != nil {
		f.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	// The record must survive the host dying an instant later; that is the
	// whole point of keeping it.
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync state file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	return nil
}

// Load reads and decodes the current record.
func (s *Store) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read state file: %w", err)
	}
	return decode(data)
}

// Remove deletes the state file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// Forensics summarizes a previous run that ended without a clean stop.
type Forensics struct {
	RunID      uuid.UUID
	Runtime    time.Duration
	Cycles     uint64
	Operations uint64
	LastStatus string
	LastUpdate time.Time
}

// MarshalYAML renders the id and runtime as strings; yaml.v3 would
// otherwise emit the raw uuid byte array and nanosecond count.
func (f Forensics) MarshalYAML() (any, error) {
	return struct {
		RunID      string    `yaml:"run_id"`
		Runtime    string    `yaml:"runtime"`
		Cycles     uint64    `yaml:"cycles"`
		Operations uint64    `yaml:"operations"`
		LastStatus string    `yaml:"last_status"`
		LastUpdate time.Time `yaml:"last_update"`
	}{
		RunID:      f.RunID.String(),
		Runtime:    f.Runtime.String(),
		Cycles:     f.Cycles,
		Operations: f.Operations,
		LastStatus: f.LastStatus,
		LastUpdate: f.LastUpdate,
	}, nil
}

// CheckPreviousRun inspects the state file left by an earlier invocation.
//
// If the file is absent, or present with the running flag cleared, the
// previous run stopped deliberately and nil is returned. If the running flag
// is still set, the previous process was terminated without warning, which
// on this workload is evidence that the race fired and took the host down,
// and a Forensics summary is returned. The stale file is consumed so the
// evidence is reported exactly once.
//
// A file that does not decode is removed and treated as absent: it predates
// the current record layout or was itself torn by a crash mid-write.
func (s *Store) CheckPreviousRun() (*Forensics, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	snap, err := decode(data)
	if err != nil {
		_ = os.Remove(s.path)
		return nil, nil
	}

	if !snap.Running {
		return nil, nil
	}

	if err := os.Remove(s.path); err != nil {
		return nil, fmt.Errorf("remove stale state file: %w", err)
	}

	return &Forensics{
		RunID:      snap.RunID,
		Runtime:    snap.LastUpdate.Sub(snap.StartTime),
		Cycles:     snap.Cycles,
		Operations: snap.Operations,
		LastStatus: snap.Status,
		LastUpdate: snap.LastUpdate,
	}, nil
}
