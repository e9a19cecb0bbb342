package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"iter"
	"strings"
	"sync"

	apperrors "housingcli/internal/errors"
)

// State is the lifecycle state of a Stream.
type State string

const (
	StateStreaming State = "streaming"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// ErrStreamConsumed is returned when Records is ranged over a second time.
var ErrStreamConsumed = errors.New("ingest: stream already consumed")

// Stream is a single-pass sequence of Records over an open input file.
type Stream struct {
	path   string
	format string
	strict bool
	header []string
	rows   rowReader
	digest *digest

	mu      sync.Mutex
	state   State
	started bool
	count   int
	err     error
}

// Open opens the file at path and reads its header row. A file that
// cannot be opened yields a FILESYSTEM AppError wrapping the *fs.PathError.
func Open(path string, opts Options) (*Stream, error) {
	d := newDigest()
	rows, format, err := openRows(path, opts, d)
	if err != nil {
		return nil, classify("failed to open input", err, path)
	}

	s := &Stream{
		path:   path,
		format: format,
		strict: opts.Strict,
		rows:   rows,
		digest: d,
		state:  StateStreaming,
	}

	header, _, err := rows.Read()
	switch {
	case errors.Is(err, io.EOF):
		// empty input: no header and no records
	case err != nil:
		rows.Close()
		return nil, classify("failed to read header", err, path)
	default:
		s.header = normalizeHeader(header)
	}

	return s, nil
}

// Header returns the column names read by Open.
func (s *Stream) Header() []string {
	return append([]string(nil), s.header...)
}

// Format returns the source format of the stream.
func (s *Stream) Format() string { return s.format }

// Path returns the path the stream was opened from.
func (s *Stream) Path() string { return s.path }

// State returns the current lifecycle state.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the stream to StateFailed, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Count returns the number of records yielded so far.
func (s *Stream) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Checksum returns the hex BLAKE2b-256 digest of the bytes read so far.
// Once the stream is Done it covers the whole file.
func (s *Stream) Checksum() string { return s.digest.Sum() }

// BytesRead returns the number of bytes read from the file so far.
func (s *Stream) BytesRead() int64 { return s.digest.n }

// Records yields each data row as a Record, in file order. The sequence
// can be ranged over once; later calls yield ErrStreamConsumed. Reaching
// the end of input moves the stream to StateDone. A read error or a
// cancelled ctx is yielded once and moves it to StateFailed.
func (s *Stream) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if !s.begin() {
			yield(Record{}, ErrStreamConsumed)
			return
		}
		for {
			if err := ctx.Err(); err != nil {
				s.fail(err)
				yield(Record{}, err)
				return
			}

			row, line, err := s.rows.Read()
			if errors.Is(err, io.EOF) {
				s.finish()
				return
			}
			if err != nil {
				err = classify("failed to parse row", err, s.path)
				s.fail(err)
				yield(Record{}, err)
				return
			}
			if s.strict && len(row) != len(s.header) {
				err := apperrors.NewParsingError("row width differs from header", nil).
					WithContext("path", s.path).
					WithContext("line", line).
					WithContext("fields", len(row)).
					WithContext("header_fields", len(s.header))
				s.fail(err)
				yield(Record{}, err)
				return
			}

			rec := NewRecord(s.header, row)
			s.mu.Lock()
			s.count++
			s.mu.Unlock()
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Close releases the underlying file.
func (s *Stream) Close() error {
	return s.rows.Close()
}

func (s *Stream) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return false
	}
	s.started = true
	return true
}

func (s *Stream) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStreaming {
		s.state = StateDone
	}
}

func (s *Stream) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStreaming {
		s.state = StateFailed
		s.err = err
	}
}

// normalizeHeader copies the header, dropping a UTF-8 BOM and surrounding
// spaces from each name.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		out[i] = strings.TrimSpace(name)
	}
	return out
}

// classify wraps err as a FILESYSTEM error when the OS reported it and as
// a PARSING error otherwise.
func classify(message string, err error, path string) *apperrors.AppError {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return apperrors.NewFileSystemError(message, err).WithContext("path", path)
	}
	appErr := apperrors.NewParsingError(message, err).WithContext("path", path)
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		appErr.WithContext("line", pe.Line)
	}
	return appErr
}
