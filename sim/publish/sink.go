package publish

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink writes the two append-only NDJSON streams (spec.md §6): a fresh
// events.ndjson and snapshots.ndjson per run, one JSON object per line.
// Grounded on the teacher's bufio.Writer + deferred Flush/Close pattern
// (sim/metrics_utils.go SavetoFile).
type FileSink struct {
	mu sync.Mutex

	eventsFile   *os.File
	eventsWriter *bufio.Writer

	snapshotsFile   *os.File
	snapshotsWriter *bufio.Writer
}

// NewFileSink creates events.ndjson and snapshots.ndjson under dir,
// truncating any existing files (spec.md §6: "created fresh per run,
// overwrite").
func NewFileSink(dir string) (*FileSink, error) {
	eventsFile, err := os.Create(filepath.Join(dir, "events.ndjson"))
	if err != nil {
		return nil, fmt.Errorf("publish: creating events.ndjson: %w", err)
	}
	snapshotsFile, err := os.Create(filepath.Join(dir, "snapshots.ndjson"))
	if err != nil {
		eventsFile.Close()
		return nil, fmt.Errorf("publish: creating snapshots.ndjson: %w", err)
	}
	return &FileSink{
		eventsFile:      eventsFile,
		eventsWriter:    bufio.NewWriter(eventsFile),
		snapshotsFile:   snapshotsFile,
		snapshotsWriter: bufio.NewWriter(snapshotsFile),
	}, nil
}

// WriteEvents appends records to events.ndjson and flushes once per batch.
func (s *FileSink) WriteEvents(records []EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("publish: marshaling event record %d: %w", r.Sequence, err)
		}
		if _, err := s.eventsWriter.Write(b); err != nil {
			return fmt.Errorf("publish: writing event record %d: %w", r.Sequence, err)
		}
		if err := s.eventsWriter.WriteByte('\n'); err != nil {
			return err
		}
	}
	return s.eventsWriter.Flush()
}

// WriteSnapshot appends one snapshot to snapshots.ndjson and flushes.
func (s *FileSink) WriteSnapshot(snap SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("publish: marshaling snapshot tick %d: %w", snap.Tick, err)
	}
	if _, err := s.snapshotsWriter.Write(b); err != nil {
		return fmt.Errorf("publish: writing snapshot tick %d: %w", snap.Tick, err)
	}
	if err := s.snapshotsWriter.WriteByte('\n'); err != nil {
		return err
	}
	return s.snapshotsWriter.Flush()
}

// Close flushes and closes both underlying files.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	if err := s.eventsWriter.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := s.eventsFile.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.snapshotsWriter.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := s.snapshotsFile.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("publish: closing file sink: %v", errs)
	}
	return nil
}
