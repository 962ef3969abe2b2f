package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agentcore/internal/agent"
	"agentcore/internal/mangle"
	"agentcore/internal/stats"
	"agentcore/internal/term"
)

var (
	programPath string
	goalText    string
	parallelRun bool
	showMetrics bool
)

// runCmd resolves one goal against a program
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve a goal against a Mangle program",
	Long: `Loads the program, asserts its facts and resolves the goal through its
rules. Prints the bindings of the goal's variables, or "no" when the goal
fails.

Example:
  bdi run --program family.mg --goal "ancestor(/tom, W)"`,
	RunE: runGoal,
}

// checkCmd validates a program
var checkCmd = &cobra.Command{
	Use:   "check [program]",
	Short: "Parse and compile a Mangle program",
	Args:  cobra.ExactArgs(1),
	RunE:  checkProgram,
}

// queryCmd lists beliefs
var queryCmd = &cobra.Command{
	Use:   "query [program] [predicate]",
	Short: "List the facts a program asserts for a predicate",
	Args:  cobra.ExactArgs(2),
	RunE:  queryBeliefs,
}

func init() {
	runCmd.Flags().StringVarP(&programPath, "program", "p", "", "Mangle program file (required)")
	runCmd.Flags().StringVarP(&goalText, "goal", "g", "", "Goal literal, e.g. \"likes(/tom, Z)\" (required)")
	runCmd.Flags().BoolVar(&parallelRun, "parallel", false, "Evaluate rule candidates concurrently")
	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print execution metrics after the run")
	_ = runCmd.MarkFlagRequired("program")
	_ = runCmd.MarkFlagRequired("goal")
}

func loadProgram(path string) (*mangle.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mangle.LoadProgram(f)
}

func runGoal(cmd *cobra.Command, args []string) error {
	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(baseCtx, timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	program, err := loadProgram(programPath)
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	goal, err := mangle.ParseLiteral(goalText)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	a, err := agent.NewFromConfig(cfg,
		agent.WithRules(program.Rules),
		agent.WithStats(stats.NewPrometheus(reg, "agentcore")),
	)
	if err != nil {
		return err
	}
	if err := program.Assert(a.Beliefs()); err != nil {
		return err
	}
	logger.Info("Resolving goal",
		zap.String("goal", goal.String()),
		zap.String("agent", a.ID()),
		zap.Bool("parallel", parallelRun))

	bindings, ok, err := a.Solve(ctx, goal, parallelRun)
	if err != nil {
		return fmt.Errorf("goal %s: %w", goal, err)
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "no")
	} else if len(bindings) == 0 {
		fmt.Fprintln(out, "yes")
	} else {
		for _, name := range bindings.Names() {
			fmt.Fprintf(out, "%s = %s\n", name, bindings[name])
		}
	}

	if showMetrics {
		return printMetrics(out, reg)
	}
	return nil
}

func printMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(out, "\nMetrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "  %s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(out, "  %s%s count=%d\n", mf.GetName(), labels, m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}

func checkProgram(cmd *cobra.Command, args []string) error {
	program, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d facts, %d rules\n", args[0], len(program.Beliefs), program.Rules.Len())
	return nil
}

func queryBeliefs(cmd *cobra.Command, args []string) error {
	program, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	a, err := agent.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := program.Assert(a.Beliefs()); err != nil {
		return err
	}
	beliefs, err := a.Beliefs().Lookup(term.Path(args[1]))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(beliefs) == 0 {
		fmt.Fprintf(out, "No facts found for predicate '%s'\n", args[1])
		return nil
	}
	fmt.Fprintf(out, "Facts for '%s':\n", args[1])
	for _, b := range beliefs {
		fmt.Fprintf(out, "  %s\n", b)
	}
	return nil
}
