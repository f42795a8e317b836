package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/morphkit/internal/match"
	"github.com/roach88/morphkit/internal/rewrite"
	"github.com/roach88/morphkit/internal/store"
)

// RunTokenGenerator generates run tokens for derivation correlation.
// Implemented by UUIDv7Generator (production) and fixed tokens in tests.
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens, so a
// catalog's derivation runs list in creation order.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokenGenerator returns a predetermined run token. Tests use it to
// keep derive output byte-identical across runs.
type FixedTokenGenerator struct {
	Token string
}

// Generate returns the fixed token.
func (g FixedTokenGenerator) Generate() string {
	return g.Token
}

// DeriveOptions holds flags for the derive command.
type DeriveOptions struct {
	*RootOptions
	Target   string
	Steps    string
	Database string

	// TokenGenerator allows overriding the run token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator RunTokenGenerator
}

// DeriveStep is one entry of a derivation trace.
type DeriveStep struct {
	Step         int          `json:"step"`
	Rule         string       `json:"rule"`
	MatchCount   int          `json:"match_count"`
	MatchOrdinal int          `json:"match_ordinal"`
	Result       *GraphReport `json:"result"`
}

// DeriveReport is the full trace of one derive invocation.
type DeriveReport struct {
	RunToken string       `json:"run_token"`
	Target   string       `json:"target"`
	Steps    []DeriveStep `json:"steps"`
	FinalID  string       `json:"final_id"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeriveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "derive <graphs-dir>",
		Short: "Run a derivation sequence and record its lineage",
		Long: `Apply a sequence of rules to a target graph, threading each step's
output into the next step's input, and record the full lineage in the
catalog.

Steps are written "rule@ordinal" separated by commas; "@ordinal" defaults
to 0 (the first match).

Example:
  morphkit derive ./graphs --target body --steps "grow@0,grow@1,prune"
  morphkit derive ./graphs --target body --steps grow --db ./catalog.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Target, "target", "", "target graph name (required)")
	cmd.Flags().StringVar(&opts.Steps, "steps", "", "comma-separated rule@ordinal steps (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "catalog database path (in-memory if omitted)")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("steps")

	return cmd
}

type deriveStepSpec struct {
	rule    string
	ordinal int
}

// parseSteps parses "rule@ordinal,rule,..." into step specs.
func parseSteps(spec string) ([]deriveStepSpec, error) {
	var steps []deriveStepSpec
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, ordinalText, found := strings.Cut(part, "@")
		step := deriveStepSpec{rule: name}
		if found {
			ordinal, err := strconv.Atoi(ordinalText)
			if err != nil || ordinal < 0 {
				return nil, fmt.Errorf("invalid step %q: ordinal must be a non-negative integer", part)
			}
			step.ordinal = ordinal
		}
		if step.rule == "" {
			return nil, fmt.Errorf("invalid step %q: missing rule name", part)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps given")
	}
	return steps, nil
}

func runDerive(opts *DeriveOptions, graphsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	steps, err := parseSteps(opts.Steps)
	if err != nil {
		formatter.Error(ErrCodeBadArgument, err.Error(), nil)
		return NewExitError(ExitCommandError, "invalid steps")
	}

	result, loadErrors := LoadGraphs(graphsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return reportLoadErrors(formatter, loadErrors)
	}

	target := result.Target(opts.Target)
	if target == nil {
		formatter.Error(ErrCodeUnknownName, fmt.Sprintf("target %q not found", opts.Target), nil)
		return NewExitError(ExitCommandError, "unknown target")
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = ":memory:"
	}
	logger.Debug("opening catalog", "path", dbPath)
	catalog, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeGeneric, fmt.Sprintf("opening catalog: %v", err), nil)
		return NewExitError(ExitCommandError, "catalog open failed")
	}
	defer func() {
		if closeErr := catalog.Close(); closeErr != nil {
			logger.Error("error closing catalog", "error", closeErr)
		}
	}()

	tokenGen := opts.TokenGenerator
	if tokenGen == nil {
		tokenGen = UUIDv7Generator{}
	}
	runToken := tokenGen.Generate()
	logger.Debug("starting derivation", "run_token", runToken, "target", opts.Target, "steps", len(steps))

	ctx := context.Background()
	current := target.Graph
	currentID, err := catalog.PutGraph(ctx, current)
	if err != nil {
		formatter.Error(ErrCodeGeneric, fmt.Sprintf("cataloging target: %v", err), nil)
		return NewExitError(ExitFailure, "catalog write failed")
	}

	report := DeriveReport{RunToken: runToken, Target: opts.Target}

	for i, step := range steps {
		nr := result.Rule(step.rule)
		if nr == nil {
			formatter.Error(ErrCodeUnknownName, fmt.Sprintf("step %d: rule %q not found", i, step.rule), nil)
			return NewExitError(ExitCommandError, "unknown rule")
		}

		matches := match.Find(&nr.Rule.LHS, current)
		if step.ordinal >= len(matches) {
			formatter.Error(ErrCodeBadArgument,
				fmt.Sprintf("step %d: rule %q has %d match(es), ordinal %d out of range",
					i, step.rule, len(matches), step.ordinal), nil)
			return NewExitError(ExitFailure, "match ordinal out of range")
		}

		next := rewrite.Apply(nr.Rule, current, matches[step.ordinal])
		logger.Debug("applied rule",
			"step", i, "rule", step.rule,
			"matches", len(matches), "ordinal", step.ordinal,
			"nodes", len(next.Nodes), "edges", len(next.Edges))

		ruleID, err := catalog.PutRule(ctx, step.rule, "", nr.Rule)
		if err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("cataloging rule: %v", err), nil)
			return NewExitError(ExitFailure, "catalog write failed")
		}
		nextID, err := catalog.PutGraph(ctx, next)
		if err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("cataloging result: %v", err), nil)
			return NewExitError(ExitFailure, "catalog write failed")
		}
		d := &store.Derivation{
			RunToken:      runToken,
			Step:          i,
			RuleID:        ruleID,
			InputGraphID:  currentID,
			OutputGraphID: nextID,
			MatchOrdinal:  step.ordinal,
		}
		if err := catalog.RecordDerivation(ctx, d); err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("recording derivation: %v", err), nil)
			return NewExitError(ExitFailure, "catalog write failed")
		}

		stepReport, err := describeGraph(next)
		if err != nil {
			formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return NewExitError(ExitFailure, "describing result")
		}
		report.Steps = append(report.Steps, DeriveStep{
			Step:         i,
			Rule:         step.rule,
			MatchCount:   len(matches),
			MatchOrdinal: step.ordinal,
			Result:       stepReport,
		})

		current = next
		currentID = nextID
	}

	report.FinalID = currentID

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	fmt.Fprintf(formatter.Writer, "run %s: %d step(s) from %s\n", runToken, len(report.Steps), opts.Target)
	for _, s := range report.Steps {
		fmt.Fprintf(formatter.Writer, "  step %d: %s@%d (%d match(es)) -> %d node(s), %d edge(s)\n",
			s.Step, s.Rule, s.MatchOrdinal, s.MatchCount, len(s.Result.Nodes), len(s.Result.Edges))
	}
	fmt.Fprintf(formatter.Writer, "final graph %s\n", report.FinalID[:12])
	return nil
}
