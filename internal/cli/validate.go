package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationSummary describes the outcome of validating a graphs directory.
type ValidationSummary struct {
	Files   int `json:"files"`
	Rules   int `json:"rules"`
	Targets int `json:"targets"`
	Errors  int `json:"errors"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <graphs-dir>",
		Short: "Validate annotated graphs without producing output",
		Long: `Load and compile every graph in the directory, collecting all errors
instead of stopping at the first. Exit code 1 when anything is invalid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, graphsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := LoadGraphs(graphsDir, LoadModeCollectAll)
	if result == nil {
		return reportLoadErrors(formatter, loadErrors)
	}

	if len(loadErrors) > 0 {
		return reportLoadErrors(formatter, loadErrors)
	}

	summary := ValidationSummary{
		Files:   result.FileCount,
		Rules:   len(result.Rules),
		Targets: len(result.Targets),
	}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "OK: %d file(s), %d rule(s), %d target(s)\n",
		summary.Files, summary.Rules, summary.Targets)
	return nil
}
