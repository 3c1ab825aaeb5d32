package dataset

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingStrings(r FileReport) []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.String())
	}
	return out
}

func TestValidateReader_SystemRole(t *testing.T) {
	t.Parallel()

	rep := ValidateReader("d.jsonl", strings.NewReader(`{"chat":[{"role":"system","content":"x"}]}`+"\n"))
	assert.Equal(t, 1, rep.Lines)
	require.Len(t, rep.Findings, 1)

	f := rep.Findings[0]
	assert.Equal(t, Finding{Path: "d.jsonl", Line: 1, Index: 1, Kind: InvalidRole, Detail: "chat[1].role invalid"}, f)
	assert.Equal(t, "d.jsonl:1: chat[1].role invalid", f.String())
}

func TestValidateReader_Clean(t *testing.T) {
	t.Parallel()

	in := `{"chat":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}` + "\n" +
		`{"chat":[{"role":"user","content":"q"}],"source":"x"}` + "\n"
	rep := ValidateReader("ok.jsonl", strings.NewReader(in))
	assert.Equal(t, 2, rep.Lines)
	assert.Empty(t, rep.Findings)
	assert.Equal(t, 0, rep.Errors())
}

func TestValidateReader_LineLevelFindings(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		``,
		`{"chat":`,
		`42`,
		`{"chat":[]}`,
		`{"chat":[{"role":"user","content":"fine"}]}`,
	}, "\n") + "\n"
	rep := ValidateReader("f.jsonl", strings.NewReader(in))
	assert.Equal(t, 5, rep.Lines, "blank lines still count")
	require.Len(t, rep.Findings, 4)

	got := findingStrings(rep)
	assert.Equal(t, "f.jsonl:1: empty line", got[0])
	assert.True(t, strings.HasPrefix(got[1], "f.jsonl:2: invalid json ("), got[1])
	assert.Equal(t, "f.jsonl:3: top-level value must be an object", got[2])
	assert.Equal(t, "f.jsonl:4: chat must be a non-empty list", got[3])

	for _, f := range rep.Findings {
		assert.Equal(t, 0, f.Index, "line-level findings carry no message index")
	}
}

func TestValidateReader_MessageFindings(t *testing.T) {
	t.Parallel()

	in := `{"chat":[{"role":"user","content":"ok"},"str",{"role":"bot","content":"  "},{"role":"assistant","content":3},{"role":"assistant"},{"content":"x"}]}` + "\n"
	rep := ValidateReader("m.jsonl", strings.NewReader(in))
	assert.Equal(t, 1, rep.Lines)

	assert.Equal(t, []string{
		"m.jsonl:1: chat[2] must be an object",
		"m.jsonl:1: chat[3].role invalid",
		"m.jsonl:1: chat[3].content must be a non-empty string",
		"m.jsonl:1: chat[4].content must be a non-empty string",
		"m.jsonl:1: chat[5].content must be a non-empty string",
		"m.jsonl:1: chat[6].role invalid",
	}, findingStrings(rep))

	kinds := make([]ErrorKind, 0, len(rep.Findings))
	for _, f := range rep.Findings {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []ErrorKind{InvalidMessageShape, InvalidRole, EmptyContent, InvalidContentType, InvalidContentType, InvalidRole}, kinds)
}

func TestValidateReader_EmptyInput(t *testing.T) {
	t.Parallel()

	rep := ValidateReader("e.jsonl", strings.NewReader(""))
	assert.Equal(t, FileReport{Path: "e.jsonl"}, rep)
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/v/a.jsonl", []byte("\n\n"), 0o644))

	rep, err := ValidateFile(fsys, "/v/a.jsonl")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Lines)
	assert.Equal(t, 2, rep.Errors())
	assert.Equal(t, "/v/a.jsonl:2: empty line", rep.Findings[1].String())

	_, err = ValidateFile(fsys, "/v/none.jsonl")
	require.Error(t, err)
}

func TestValidationTotals_Add(t *testing.T) {
	t.Parallel()

	var tot ValidationTotals
	tot.Add(FileReport{Lines: 3, Findings: []Finding{{}, {}}})
	tot.Add(FileReport{Lines: 0})
	tot.Add(FileReport{Lines: 5, Findings: []Finding{{}}})
	assert.Equal(t, ValidationTotals{Files: 3, Lines: 8, Errors: 3}, tot)
}
