package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Line is the classified outcome for one physical line. Exactly one of
// Record or Err is meaningful.
type Line struct {
	// Number is 1-based.
	Number int
	Record Record
	Err    *LineError
}

// Scanner reads JSONL input one physical line at a time. It makes a single
// forward pass; lines have no length limit.
type Scanner struct {
	r    *bufio.Reader
	n    int
	line Line
	err  error
	done bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	// Chat lines can be long; start with a larger buffer than default.
	return &Scanner{r: bufio.NewReaderSize(r, 1<<20)}
}

// Scan advances to the next line. It returns false at end of input. A read
// error other than EOF is reported once as a ReadFailure line, after which
// Scan returns false and Err returns the error.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	b, err := s.r.ReadBytes('\n')
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
			s.n++
			s.line = Line{Number: s.n, Err: &LineError{
				Kind:   ReadFailure,
				Detail: fmt.Sprintf("read failed (%v)", err),
				Cause:  err,
			}}
			return true
		}
		if len(b) == 0 {
			return false
		}
	}

	s.n++
	s.line = classifyLine(s.n, b)
	return true
}

// Line returns the most recent outcome produced by Scan.
func (s *Scanner) Line() Line { return s.line }

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error { return s.err }

func classifyLine(n int, raw []byte) Line {
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))

	if len(bytes.TrimSpace(raw)) == 0 {
		return lineError(n, EmptyLine, "empty line", nil)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return lineError(n, MalformedJSON, fmt.Sprintf("invalid json (%v)", err), err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return lineError(n, InvalidChatShape, "top-level value must be an object", nil)
	}
	chat, ok := obj["chat"].([]any)
	if !ok || len(chat) == 0 {
		return lineError(n, InvalidChatShape, "chat must be a non-empty list", nil)
	}
	return Line{Number: n, Record: Record{Chat: chat}}
}

func lineError(n int, kind ErrorKind, detail string, cause error) Line {
	return Line{Number: n, Err: &LineError{Kind: kind, Detail: detail, Cause: cause}}
}
