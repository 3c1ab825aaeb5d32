package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// FileReport is the validation result for one file.
type FileReport struct {
	Path string
	// Lines counts every physical line, blank ones included.
	Lines    int
	Findings []Finding
}

// Errors is the number of findings.
func (r FileReport) Errors() int { return len(r.Findings) }

// ValidateReader checks every line read from r. path is only used to label
// findings.
func ValidateReader(path string, r io.Reader) FileReport {
	rep := FileReport{Path: path}
	sc := NewScanner(r)
	for sc.Scan() {
		l := sc.Line()
		rep.Lines++
		if l.Err != nil {
			rep.Findings = append(rep.Findings, Finding{
				Path:   path,
				Line:   l.Number,
				Kind:   l.Err.Kind,
				Detail: l.Err.Detail,
			})
			continue
		}
		for _, m := range l.Record.Messages() {
			rep.Findings = append(rep.Findings, checkMessage(path, l.Number, m)...)
		}
	}
	return rep
}

// ValidateFile opens path on fsys and validates it.
func ValidateFile(fsys afero.Fs, path string) (FileReport, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return FileReport{}, fmt.Errorf("ValidateFile: open %s: %w", path, err)
	}
	defer f.Close()

	return ValidateReader(path, f), nil
}

// checkMessage returns zero, one or two findings: role and content are
// checked independently.
func checkMessage(path string, line int, m Message) []Finding {
	at := func(kind ErrorKind, detail string) Finding {
		return Finding{Path: path, Line: line, Index: m.Index, Kind: kind, Detail: detail}
	}

	if !m.Object {
		return []Finding{at(InvalidMessageShape, fmt.Sprintf("chat[%d] must be an object", m.Index))}
	}

	var out []Finding
	if !IsAllowedRole(m.Role) {
		out = append(out, at(InvalidRole, fmt.Sprintf("chat[%d].role invalid", m.Index)))
	}

	contentDetail := fmt.Sprintf("chat[%d].content must be a non-empty string", m.Index)
	switch {
	case m.ContentState != ContentText:
		out = append(out, at(InvalidContentType, contentDetail))
	case strings.TrimSpace(m.Content) == "":
		out = append(out, at(EmptyContent, contentDetail))
	}
	return out
}

// ValidationTotals accumulates per-file reports.
type ValidationTotals struct {
	Files  int
	Lines  int
	Errors int
}

// Add folds r into t.
func (t *ValidationTotals) Add(r FileReport) {
	t.Files++
	t.Lines += r.Lines
	t.Errors += r.Errors()
}
