// Package fpslog persists frame-rate samples as CSV lines and reads them
// back for analysis.
package fpslog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"quark2d/frametimer"
)

// DefaultPath is the log file written next to the working directory.
const DefaultPath = "fps_log.csv"

// Header is the optional first record.
var Header = []string{"Timestamp", "FPS"}

var ErrClosed = errors.New("fpslog: sink closed")

// Sink receives samples in emission order.
type Sink interface {
	Append(s frametimer.Sample) error
	Close() error
}

// Options controls how a file sink is opened.
type Options struct {
	// Header writes Header when the file is empty.
	Header bool
	Logger *zap.Logger
}

// FileSink appends one `timestamp,fps` record per sample. Each record is
// flushed before Append returns so an abrupt exit loses at most one line.
type FileSink struct {
	f      *os.File
	w      *csv.Writer
	logger *zap.Logger
	path   string
	n      int
}

var _ Sink = (*FileSink)(nil)

// Open opens path in append mode, creating it if needed. Earlier runs are
// kept.
func Open(path string, opt Options) (*FileSink, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open fps log: %w", err)
	}
	s := &FileSink{f: f, w: csv.NewWriter(f), path: path, logger: opt.Logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if opt.Header {
		st, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("stat fps log: %w", err)
		}
		if st.Size() == 0 {
			if err := s.write(Header); err != nil {
				f.Close()
				return nil, fmt.Errorf("write fps log header: %w", err)
			}
		}
	}
	s.logger.Debug("fps log opened", zap.String("path", path), zap.Bool("header", opt.Header))
	return s, nil
}

// Path returns the file path.
func (s *FileSink) Path() string { return s.path }

// Len returns the number of samples appended by this sink.
func (s *FileSink) Len() int { return s.n }

func (s *FileSink) Append(sample frametimer.Sample) error {
	if s.f == nil {
		return ErrClosed
	}
	if err := s.write(Record(sample)); err != nil {
		return fmt.Errorf("append fps sample: %w", err)
	}
	s.n++
	return nil
}

func (s *FileSink) write(rec []string) error {
	if err := s.w.Write(rec); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the file. Calling it twice returns ErrClosed.
func (s *FileSink) Close() error {
	if s.f == nil {
		return ErrClosed
	}
	s.w.Flush()
	werr := s.w.Error()
	cerr := s.f.Close()
	s.f = nil
	s.logger.Debug("fps log closed", zap.String("path", s.path), zap.Int("samples", s.n))
	return errors.Join(werr, cerr)
}

// FormatFloat renders v with six significant digits.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Record is the CSV form of a sample.
func Record(s frametimer.Sample) []string {
	return []string{FormatFloat(s.Timestamp), FormatFloat(s.FPS)}
}

// Memory is an in-memory Sink.
type Memory struct {
	Samples []frametimer.Sample
	Err     error // returned by Append when set
	Closed  bool
}

func (m *Memory) Append(s frametimer.Sample) error {
	if m.Err != nil {
		return m.Err
	}
	m.Samples = append(m.Samples, s)
	return nil
}

func (m *Memory) Close() error {
	m.Closed = true
	return nil
}

// Discard is a Sink that drops every sample.
var Discard Sink = discard{}

type discard struct{}

func (discard) Append(frametimer.Sample) error { return nil }
func (discard) Close() error                   { return nil }
