package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Channel names one outcome category. Each channel is persisted to its own
// append-only file so post-hoc auditing never has to untangle interleaved
// outcomes.
type Channel string

const (
	// ChannelProcessed records accepted enrichments.
	ChannelProcessed Channel = "processed"
	// ChannelRejected records results parsed successfully but discarded for
	// low confidence.
	ChannelRejected Channel = "rejected"
	// ChannelFailed records assistant transport and parse failures.
	ChannelFailed Channel = "failed"
	// ChannelSkipped records directories skipped by the scanner.
	ChannelSkipped Channel = "skipped"
	// ChannelComparison records before/after field comparisons produced by
	// catalog reconciliation.
	ChannelComparison Channel = "comparison"
)

// Event is one structured journal entry.
type Event struct {
	Time       time.Time `json:"ts"`
	RunID      string    `json:"run_id,omitempty"`
	Folder     string    `json:"folder"`
	File       string    `json:"file,omitempty"`
	Title      string    `json:"title,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink receives events per channel. Implementations must tolerate concurrent
// Record calls from multiple workers.
type Sink interface {
	Record(channel Channel, evt Event)
}

// FileSink persists one JSONL file per channel under a journal directory.
// Writes are serialized and unbuffered so concurrent appends never interleave
// partial lines.
type FileSink struct {
	dir string

	mu    sync.Mutex
	files map[Channel]*os.File
	encs  map[Channel]*json.Encoder
}

// NewFileSink creates the journal directory and returns a sink that appends
// to <dir>/<channel>.jsonl.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal dir: %w", err)
	}
	return &FileSink{
		dir:   dir,
		files: make(map[Channel]*os.File),
		encs:  make(map[Channel]*json.Encoder),
	}, nil
}

// Record appends the event to the channel's file. Failures are swallowed;
// journaling must never fail the pipeline.
func (s *FileSink) Record(channel Channel, evt Event) {
	if s == nil {
		return
	}
	if evt.Time.IsZero() {
		evt.Time = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	enc, err := s.encoder(channel)
	if err != nil {
		return
	}
	_ = enc.Encode(evt)
}

// Path returns the on-disk location backing one channel.
func (s *FileSink) Path(channel Channel) string {
	return filepath.Join(s.dir, string(channel)+".jsonl")
}

// Close releases all channel file handles.
func (s *FileSink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for channel, file := range s.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.files, channel)
		delete(s.encs, channel)
	}
	return firstErr
}

func (s *FileSink) encoder(channel Channel) (*json.Encoder, error) {
	if enc, ok := s.encs[channel]; ok {
		return enc, nil
	}
	file, err := os.OpenFile(s.Path(channel), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	s.files[channel] = file
	s.encs[channel] = json.NewEncoder(file)
	return s.encs[channel], nil
}

// MemorySink collects events in memory for tests.
type MemorySink struct {
	mu     sync.Mutex
	events map[Channel][]Event
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{events: make(map[Channel][]Event)}
}

// Record stores the event under its channel.
func (s *MemorySink) Record(channel Channel, evt Event) {
	if evt.Time.IsZero() {
		evt.Time = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[channel] = append(s.events[channel], evt)
}

// Events returns a copy of the events recorded on one channel.
func (s *MemorySink) Events(channel Channel) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events[channel]))
	copy(out, s.events[channel])
	return out
}
