package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/morphkit/internal/graph"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path for canonical rule JSON
}

// RuleSummary describes one compiled rule for CLI output.
type RuleSummary struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	LHSNodes    int    `json:"lhs_nodes"`
	LHSEdges    int    `json:"lhs_edges"`
	CommonNodes int    `json:"common_nodes"`
	CommonEdges int    `json:"common_edges"`
	RHSNodes    int    `json:"rhs_nodes"`
	RHSEdges    int    `json:"rhs_edges"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <graphs-dir>",
		Short: "Compile annotated graphs to rewrite rules",
		Long: `Compile CUE annotated graphs (with "L"/"R" side annotations) into
double-pushout rewrite rules.

Each rule is split into its LHS, common interface, and RHS, and reported
with its content-addressed id. Structural errors name the offending node,
edge, or label.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical rule JSON to file")

	return cmd
}

func runCompile(opts *CompileOptions, graphsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := LoadGraphs(graphsDir, LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		return reportLoadErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, graphsDir)

	if len(loadErrors) > 0 {
		return reportLoadErrors(formatter, loadErrors)
	}
	if len(result.Rules) == 0 {
		formatter.Error(ErrCodeGeneric, "no rules found in graphs", nil)
		return NewExitError(ExitFailure, "no rules found")
	}

	summaries := make([]RuleSummary, 0, len(result.Rules))
	for _, nr := range result.Rules {
		id, err := nr.Rule.ID()
		if err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("computing id for rule %q: %v", nr.Name, err), nil)
			return NewExitError(ExitFailure, "rule id computation failed")
		}
		summaries = append(summaries, RuleSummary{
			Name:        nr.Name,
			ID:          id,
			LHSNodes:    len(nr.Rule.LHS.Nodes),
			LHSEdges:    len(nr.Rule.LHS.Edges),
			CommonNodes: len(nr.Rule.Common.Nodes),
			CommonEdges: len(nr.Rule.Common.Edges),
			RHSNodes:    len(nr.Rule.RHS.Nodes),
			RHSEdges:    len(nr.Rule.RHS.Edges),
		})
	}

	if opts.Output != "" {
		if err := writeRuleFile(opts.Output, result); err != nil {
			formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return NewExitError(ExitCommandError, "write failed")
		}
		formatter.VerboseLog("Wrote %d rule(s) to %s", len(result.Rules), opts.Output)
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Compiled %d rule(s):\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(&b, "  %s (%s)\n", s.Name, s.ID[:12])
		fmt.Fprintf(&b, "    L: %d node(s), %d edge(s)  K: %d node(s), %d edge(s)  R: %d node(s), %d edge(s)\n",
			s.LHSNodes, s.LHSEdges, s.CommonNodes, s.CommonEdges, s.RHSNodes, s.RHSEdges)
	}
	fmt.Fprint(formatter.Writer, b.String())
	return nil
}

// writeRuleFile writes all compiled rules as one canonical JSON document
// keyed by rule name.
func writeRuleFile(path string, result *LoadResult) error {
	doc := make(map[string]any, len(result.Rules))
	for _, nr := range result.Rules {
		doc[nr.Name] = nr.Rule.CanonicalMap()
	}
	body, err := graph.MarshalCanonical(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(body, '\n'), 0o644)
}

// reportLoadErrors prints every load error and returns a failure exit.
func reportLoadErrors(f *OutputFormatter, loadErrors []error) error {
	for _, err := range loadErrors {
		if le, ok := err.(*LoadError); ok {
			f.Error(le.Code, le.Message, nil)
			continue
		}
		f.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d error(s)", len(loadErrors)))
}
