package dataset

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := FileStats{Examples: 3, TotalTurns: 9, MinTurns: 2, MaxTurns: 4, TotalMsgs: 9, UserMsgs: 5, AssistantMsgs: 4, TotalWords: 10, Errors: 1}
	require.NoError(t, WriteStats(&buf, "train.jsonl", s))

	want := "train.jsonl\n" +
		"  examples: 3\n" +
		"  turns_avg: 3.00\n" +
		"  turns_min: 2\n" +
		"  turns_max: 4\n" +
		"  messages: 9\n" +
		"  user_msgs: 5\n" +
		"  assistant_msgs: 4\n" +
		"  words_avg_per_msg: 1.11\n" +
		"  errors: 1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteStats_ZeroGuards(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, TotalLabel, FileStats{}))
	assert.Contains(t, buf.String(), "all_files\n")
	assert.Contains(t, buf.String(), "  turns_avg: 0.00\n")
	assert.Contains(t, buf.String(), "  words_avg_per_msg: 0.00\n")
}

func TestWriteStatsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteStatsJSON(&buf, "a.jsonl", FileStats{Examples: 2, TotalTurns: 5, TotalMsgs: 4, TotalWords: 6, UserWords: 4}))
	require.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.jsonl", got["source"])
	assert.EqualValues(t, 2, got["examples"])
	assert.EqualValues(t, 4, got["user_words"])
	assert.InDelta(t, 2.5, got["turns_avg"], 1e-9)
	assert.InDelta(t, 1.5, got["words_avg_per_msg"], 1e-9)
}

func TestWriteValidationReport(t *testing.T) {
	t.Parallel()

	rep := FileReport{Path: "a.jsonl", Lines: 4, Findings: []Finding{
		{Path: "a.jsonl", Line: 2, Kind: EmptyLine, Detail: "empty line"},
		{Path: "a.jsonl", Line: 3, Index: 1, Kind: InvalidRole, Detail: "chat[1].role invalid"},
	}}

	var errOut, out bytes.Buffer
	require.NoError(t, WriteFindings(&errOut, rep))
	require.NoError(t, WriteFileTally(&out, rep))
	require.NoError(t, WriteValidationTotals(&out, ValidationTotals{Files: 2, Lines: 7, Errors: 2}))

	assert.Equal(t, "a.jsonl:2: empty line\na.jsonl:3: chat[1].role invalid\n", errOut.String())
	assert.Equal(t, "a.jsonl: 4 lines, 2 errors\nChecked 2 files, 7 lines, 2 errors\n", out.String())

	errOut.Reset()
	require.NoError(t, WriteFindings(&errOut, FileReport{Path: "b.jsonl"}))
	assert.Empty(t, errOut.String())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ExitCode(0, 0))
	assert.Equal(t, 0, ExitCode(3, 0))
	assert.Equal(t, 1, ExitCode(3, 1))
}
