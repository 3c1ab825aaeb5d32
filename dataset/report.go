package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TotalLabel labels the cross-file summary.
const TotalLabel = "all_files"

// WriteStats renders s as an indented text block headed by label.
func WriteStats(w io.Writer, label string, s FileStats) error {
	var b strings.Builder
	fmt.Fprintln(&b, label)
	fmt.Fprintf(&b, "  examples: %d\n", s.Examples)
	fmt.Fprintf(&b, "  turns_avg: %.2f\n", s.AvgTurns())
	fmt.Fprintf(&b, "  turns_min: %d\n", s.MinTurns)
	fmt.Fprintf(&b, "  turns_max: %d\n", s.MaxTurns)
	fmt.Fprintf(&b, "  messages: %d\n", s.TotalMsgs)
	fmt.Fprintf(&b, "  user_msgs: %d\n", s.UserMsgs)
	fmt.Fprintf(&b, "  assistant_msgs: %d\n", s.AssistantMsgs)
	fmt.Fprintf(&b, "  words_avg_per_msg: %.2f\n", s.AvgWordsPerMsg())
	fmt.Fprintf(&b, "  errors: %d\n", s.Errors)
	_, err := io.WriteString(w, b.String())
	return err
}

type statsJSON struct {
	Source string `json:"source"`
	FileStats
	TurnsAvg       float64 `json:"turns_avg"`
	WordsAvgPerMsg float64 `json:"words_avg_per_msg"`
}

// WriteStatsJSON renders s as a single JSON object followed by a newline.
func WriteStatsJSON(w io.Writer, label string, s FileStats) error {
	b, err := json.Marshal(statsJSON{
		Source:         label,
		FileStats:      s,
		TurnsAvg:       s.AvgTurns(),
		WordsAvgPerMsg: s.AvgWordsPerMsg(),
	})
	if err != nil {
		return fmt.Errorf("WriteStatsJSON: marshal: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// WriteFindings writes one line per finding in r.
func WriteFindings(w io.Writer, r FileReport) error {
	if len(r.Findings) == 0 {
		return nil
	}
	var b strings.Builder
	for _, f := range r.Findings {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFileTally writes the one-line summary for r.
func WriteFileTally(w io.Writer, r FileReport) error {
	_, err := fmt.Fprintf(w, "%s: %d lines, %d errors\n", r.Path, r.Lines, r.Errors())
	return err
}

// WriteValidationTotals writes the closing line of a validation run.
func WriteValidationTotals(w io.Writer, t ValidationTotals) error {
	_, err := fmt.Fprintf(w, "Checked %d files, %d lines, %d errors\n", t.Files, t.Lines, t.Errors)
	return err
}

// ExitCode maps a finished run to a process exit code: 1 when nothing was
// scanned or any error was counted, 0 otherwise.
func ExitCode(files, errors int) int {
	if files == 0 || errors > 0 {
		return 1
	}
	return 0
}
