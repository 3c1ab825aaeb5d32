package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// FileStats summarizes one file, or several files once folded with Combine.
type FileStats struct {
	Examples   int `json:"examples"`
	TotalTurns int `json:"total_turns"`

	// MinTurns and MaxTurns are 0 when no valid record was seen.
	MinTurns int `json:"min_turns"`
	MaxTurns int `json:"max_turns"`

	TotalMsgs     int `json:"total_msgs"`
	UserMsgs      int `json:"user_msgs"`
	AssistantMsgs int `json:"assistant_msgs"`

	TotalWords     int `json:"total_words"`
	UserWords      int `json:"user_words"`
	AssistantWords int `json:"assistant_words"`

	Errors int `json:"errors"`
}

// AvgTurns is TotalTurns per example, or 0 without examples.
func (s FileStats) AvgTurns() float64 {
	if s.Examples == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Examples)
}

// AvgWordsPerMsg is TotalWords per counted message, or 0 without messages.
func (s FileStats) AvgWordsPerMsg() float64 {
	if s.TotalMsgs == 0 {
		return 0
	}
	return float64(s.TotalWords) / float64(s.TotalMsgs)
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CollectStats scans r to the end and tallies it.
func CollectStats(r io.Reader) FileStats {
	var st FileStats
	sc := NewScanner(r)
	for sc.Scan() {
		st.addLine(sc.Line())
	}
	return st
}

// StatsForFile opens path on fsys and tallies it. Only a failure to open the
// file is returned; everything after that is counted in FileStats.Errors.
func StatsForFile(fsys afero.Fs, path string) (FileStats, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return FileStats{}, fmt.Errorf("StatsForFile: open %s: %w", path, err)
	}
	defer f.Close()

	return CollectStats(f), nil
}

func (s *FileStats) addLine(l Line) {
	if l.Err != nil {
		s.Errors++
		return
	}

	turns := l.Record.Turns()
	s.Examples++
	s.TotalTurns += turns
	if s.MinTurns == 0 || turns < s.MinTurns {
		s.MinTurns = turns
	}
	if turns > s.MaxTurns {
		s.MaxTurns = turns
	}

	for _, m := range l.Record.Messages() {
		s.addMessage(m)
	}
}

func (s *FileStats) addMessage(m Message) {
	if !m.Object || m.ContentState == ContentOther {
		s.Errors++
		return
	}

	// A missing content key counts as empty text here.
	words := CountWords(m.Content)
	s.TotalMsgs++
	s.TotalWords += words

	switch m.Role {
	case RoleUser:
		s.UserMsgs++
		s.UserWords += words
	case RoleAssistant:
		s.AssistantMsgs++
		s.AssistantWords += words
	default:
		s.Errors++
	}
}

// Combine folds two summaries. Counters add; MinTurns is the smaller non-zero
// minimum and MaxTurns the larger maximum, so a file with no examples never
// pulls the minimum down to 0. Combine is associative and commutative with
// the zero FileStats as identity.
func Combine(a, b FileStats) FileStats {
	return FileStats{
		Examples:       a.Examples + b.Examples,
		TotalTurns:     a.TotalTurns + b.TotalTurns,
		MinTurns:       minNonZero(a.MinTurns, b.MinTurns),
		MaxTurns:       max(a.MaxTurns, b.MaxTurns),
		TotalMsgs:      a.TotalMsgs + b.TotalMsgs,
		UserMsgs:       a.UserMsgs + b.UserMsgs,
		AssistantMsgs:  a.AssistantMsgs + b.AssistantMsgs,
		TotalWords:     a.TotalWords + b.TotalWords,
		UserWords:      a.UserWords + b.UserWords,
		AssistantWords: a.AssistantWords + b.AssistantWords,
		Errors:         a.Errors + b.Errors,
	}
}

// Sum folds all summaries with Combine.
func Sum(stats ...FileStats) FileStats {
	var total FileStats
	for _, s := range stats {
		total = Combine(total, s)
	}
	return total
}

func minNonZero(a, b int) int {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	default:
		return min(a, b)
	}
}
