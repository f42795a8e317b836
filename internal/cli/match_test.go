package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchReportsEmbeddings(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewMatchCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs", "--rule", "grow", "--target", "body"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report MatchReport
	require.NoError(t, json.Unmarshal(data, &report))

	// body has one "h" node; grow's LHS is a single "h" pattern node.
	assert.Equal(t, 1, report.Count)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "grow", report.Rule)
}

func TestMatchNoEmbeddings(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewMatchCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs", "--rule", "prune", "--target", "body"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "0 match(es)")
}

func TestMatchUnknownRule(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewMatchCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs", "--rule", "ghost", "--target", "body"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), ErrCodeUnknownName)
}

func TestApplyGrowAddsLimb(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewApplyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs", "--rule", "grow", "--target", "body", "--match", "0"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report GraphReport
	require.NoError(t, json.Unmarshal(data, &report))

	// Context node first, then the preserved hinge, then the fresh limb.
	assert.Equal(t, []string{"tail:x", "core:h", "limb:l"}, report.Nodes)
	assert.Equal(t, []string{"0->1 mount", "1->2 attach"}, report.Edges)
}

func TestApplyMatchOrdinalOutOfRange(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewApplyCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/graphs", "--rule", "grow", "--target", "body", "--match", "5"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "out of range")
}
