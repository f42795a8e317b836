package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/match"
	"github.com/roach88/morphkit/internal/rewrite"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Rule   string
	Target string
	Match  int
}

// GraphReport is the CLI rendering of a graph.
type GraphReport struct {
	Name  string   `json:"name"`
	ID    string   `json:"id"`
	Nodes []string `json:"nodes"` // "name:label" in node order
	Edges []string `json:"edges"` // "tail->head label" in edge order
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <graphs-dir>",
		Short: "Apply a rule to a target graph at one match",
		Long: `Apply the named rule to the named target graph at the chosen match
ordinal (as numbered by the match command) and print the rewritten graph.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rule, "rule", "", "rule name (required)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target graph name (required)")
	cmd.Flags().IntVar(&opts.Match, "match", 0, "match ordinal to apply at")
	cmd.MarkFlagRequired("rule")
	cmd.MarkFlagRequired("target")

	return cmd
}

func runApply(opts *ApplyOptions, graphsDir string, cmd *cobra.Command) error {
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
	if opts.Match < 0 || opts.Match >= len(matches) {
		formatter.Error(ErrCodeBadArgument,
			fmt.Sprintf("match ordinal %d out of range: %d match(es) found", opts.Match, len(matches)), nil)
		return NewExitError(ExitCommandError, "match ordinal out of range")
	}

	result := rewrite.Apply(nr.Rule, target.Graph, matches[opts.Match])
	report, err := describeGraph(result)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, "describing result")
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	printGraphReport(formatter, report)
	return nil
}

// describeGraph renders a graph for CLI output.
func describeGraph(g *graph.Graph) (*GraphReport, error) {
	id, err := g.ID()
	if err != nil {
		return nil, fmt.Errorf("computing graph id: %w", err)
	}
	report := &GraphReport{Name: g.Name, ID: id}
	for _, n := range g.Nodes {
		report.Nodes = append(report.Nodes, fmt.Sprintf("%s:%s", n.Name, n.Label))
	}
	for _, e := range g.Edges {
		report.Edges = append(report.Edges, fmt.Sprintf("%d->%d %s", e.Tail, e.Head, e.Label))
	}
	return report, nil
}

func printGraphReport(f *OutputFormatter, report *GraphReport) {
	fmt.Fprintf(f.Writer, "%s (%s)\n", report.Name, report.ID[:12])
	fmt.Fprintf(f.Writer, "  nodes (%d):\n", len(report.Nodes))
	for i, n := range report.Nodes {
		fmt.Fprintf(f.Writer, "    [%d] %s\n", i, n)
	}
	fmt.Fprintf(f.Writer, "  edges (%d):\n", len(report.Edges))
	for i, e := range report.Edges {
		fmt.Fprintf(f.Writer, "    [%d] %s\n", i, e)
	}
}
