package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	recordMagic = [4]byte{'W', 'B', 'R', '1'}

	// ErrBadRecord is returned when the state file exists but does not
	// decode as a run record.
	ErrBadRecord = errors.New("state: malformed run record")
)

const (
	recordVersion = 1

	// statusLen is the fixed size of the status text field. Longer status
	// strings are truncated on save.
	statusLen = 64

	// RecordSize is the exact on-disk size of a run record.
	RecordSize = 128
)

// record is the wire layout. All multi-byte fields are little-endian.
// Timestamps are Unix seconds; sub-second precision buys nothing when the
// consumer is a human reading a crash report.
type record struct {
	Magic      [4]byte
	Version    uint32
	StartTime  int64
	LastUpdate int64
	Cycles     uint64
	Operations uint64
	Running    uint8
	_          [7]byte
	RunID      [16]byte
	Status     [statusLen]byte
}

// Snapshot is the in-memory form of a run record.
type Snapshot struct {
	RunID      uuid.UUID
	StartTime  time.Time
	LastUpdate time.Time
	Cycles     uint64
	Operations uint64
	Running    bool
	Status     string
}

// encode serializes the snapshot into its fixed binary layout.
func encode(snap Snapshot) []byte {
	rec := record{
		Magic:      recordMagic,
		Version:    recordVersion,
		StartTime:  snap.StartTime.Unix(),
		LastUpdate: snap.LastUpdate.Unix(),
		Cycles:     snap.Cycles,
		Operations: snap.Operations,
		RunID:      snap.RunID,
	}
	if snap.Running {
		rec.Running = 1
	}
	copy(rec.Status[:], snap.Status)

	var buf bytes.Buffer
	buf.Grow(RecordSize)
	// binary.Write cannot fail on a bytes.Buffer with a fixed-size struct.
	_ = binary.Write(&buf, binary.LittleEndian, &rec)
	return buf.Bytes()
}

// decode parses a fixed binary record. Undersized input, a magic mismatch
// or an unknown version yield ErrBadRecord.
func decode(data []byte) (Snapshot, error) {
	if len(data) < RecordSize {
		return Snapshot{}, ErrBadRecord
	}

	var rec record
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &rec); err != nil {
		return Snapshot{}, ErrBadRecord
	}
	if rec.Magic != recordMagic || rec.Version != recordVersion {
		return Snapshot{}, ErrBadRecord
	}

	status := rec.Status[:]
	if i := bytes.IndexByte(status, 0); i >= 0 {
		status = status[:i]
	}

	return Snapshot{
		RunID:      uuid.UUID(rec.RunID),
		StartTime:  time.Unix(rec.StartTime, 0),
		LastUpdate: time.Unix(rec.LastUpdate, 0),
		Cycles:     rec.Cycles,
		Operations: rec.Operations,
		Running:    rec.Running != 0,
		Status:     string(status),
	}, nil
}
