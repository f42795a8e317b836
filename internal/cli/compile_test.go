package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphkit/internal/rule"
)

func TestCompileValidGraphs(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Compiled 2 rule(s)")
	assert.Contains(t, output, "grow")
	assert.Contains(t, output, "prune")
}

func TestCompileValidGraphsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var summaries []RuleSummary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "grow", summaries[0].Name)
	assert.Equal(t, 1, summaries[0].LHSNodes)
	assert.Equal(t, 2, summaries[0].RHSNodes)
	assert.Len(t, summaries[0].ID, 64)
}

func TestCompileInvalidGraphsReportsCodes(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/invalid"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, rule.ErrCodeDuplicateEdgeLabel)
	assert.Contains(t, output, rule.ErrCodeNodeUnassigned)
	assert.Contains(t, output, `"e"`, "error names the duplicated label")
	assert.Contains(t, output, `"stray"`, "error names the orphaned node")
}

func TestCompileMissingDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), ErrCodeNotFound)
}

func TestCompileWritesOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "rules.json")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs", "--output", outPath})

	require.NoError(t, cmd.Execute())

	body, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Contains(t, doc, "grow")
	assert.Contains(t, doc, "prune")
}
