package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/match"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Rule   string
	Target string
}

// MatchReport describes the embeddings of one rule's LHS in a target.
type MatchReport struct {
	Rule    string          `json:"rule"`
	Target  string          `json:"target"`
	Count   int             `json:"count"`
	Matches []graph.Mapping `json:"matches"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <graphs-dir>",
		Short: "Find embeddings of a rule's LHS in a target graph",
		Long: `Enumerate every embedding of the named rule's left-hand side in the
named target graph, in deterministic (lexicographic) order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rule, "rule", "", "rule name (required)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target graph name (required)")
	cmd.MarkFlagRequired("rule")
	cmd.MarkFlagRequired("target")

	return cmd
}

func runMatch(opts *MatchOptions, graphsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	nr, target, err := loadRuleAndTarget(formatter, graphsDir, opts.Rule, opts.Target)
	if err != nil {
		return err
	}

	matches := match.Find(&nr.Rule.LHS, target.Graph)
	report := MatchReport{
		Rule:    opts.Rule,
		Target:  opts.Target,
		Count:   len(matches),
		Matches: matches,
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	fmt.Fprintf(formatter.Writer, "%d match(es) of %s in %s\n", report.Count, opts.Rule, opts.Target)
	for i, m := range matches {
		fmt.Fprintf(formatter.Writer, "  [%d] nodes %s\n", i, formatNodeMapping(m.NodeMapping))
	}
	return nil
}

// loadRuleAndTarget loads the directory fail-fast and resolves both names.
func loadRuleAndTarget(f *OutputFormatter, graphsDir, ruleName, targetName string) (*NamedRule, *NamedGraph, error) {
	result, loadErrors := LoadGraphs(graphsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return nil, nil, reportLoadErrors(f, loadErrors)
	}

	nr := result.Rule(ruleName)
	if nr == nil {
		f.Error(ErrCodeUnknownName, fmt.Sprintf("rule %q not found", ruleName), nil)
		return nil, nil, NewExitError(ExitCommandError, "unknown rule")
	}
	target := result.Target(targetName)
	if target == nil {
		f.Error(ErrCodeUnknownName, fmt.Sprintf("target %q not found", targetName), nil)
		return nil, nil, NewExitError(ExitCommandError, "unknown target")
	}
	return nr, target, nil
}

func formatNodeMapping(nm []graph.NodeIndex) string {
	parts := make([]string, len(nm))
	for i, j := range nm {
		parts[i] = fmt.Sprintf("%d", j)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
