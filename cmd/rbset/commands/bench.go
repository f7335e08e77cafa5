package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/internal/benchplot"
	"github.com/Sumatoshi-tech/rbset/internal/workload"
	"github.com/Sumatoshi-tech/rbset/pkg/config"
	"github.com/Sumatoshi-tech/rbset/pkg/observability"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree/rbdebug"
)

const (
	benchFilePerm  = 0o600
	benchDirPerm   = 0o750
	shutdownBudget = 5 * time.Second
)

// Bench flags overriding the workload section of the configuration.
const (
	flagOperations    = "operations"
	flagKeySpace      = "key-space"
	flagRemoveRatio   = "remove-ratio"
	flagSeed          = "seed"
	flagValidateEvery = "validate-every"
	flagTimeout       = "timeout"
	flagMetricsOut    = "metrics-out"
	flagPlot          = "plot"
)

// BenchCommand runs a random workload and reports throughput and balance.
type BenchCommand struct {
	workload   config.WorkloadConfig
	metricsOut string
	plot       string
	noColor    bool
}

// NewBenchCommand creates the bench subcommand.
func NewBenchCommand() *cobra.Command {
	bc := &BenchCommand{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a random insert/remove workload",
		Long: `Run a reproducible random workload against an int64 tree, checking every
invariant at a fixed interval. Settings come from the workload section of the
configuration; flags override it.`,
		Args: cobra.NoArgs,
		RunE: bc.run,
	}

	cmd.Flags().IntVar(&bc.workload.Operations, flagOperations, 0, "Number of operations")
	cmd.Flags().StringVar(&bc.workload.KeySpace, flagKeySpace, "", "Number of distinct keys (e.g. '10k', '1M')")
	cmd.Flags().Float64Var(&bc.workload.RemoveRatio, flagRemoveRatio, 0, "Probability of a removal, in [0, 1)")
	cmd.Flags().Int64Var(&bc.workload.Seed, flagSeed, 0, "Random seed")
	cmd.Flags().IntVar(&bc.workload.ValidateEvery, flagValidateEvery, 0, "Check invariants every N operations (0 = never)")
	cmd.Flags().DurationVar(&bc.workload.Timeout, flagTimeout, 0, "Abort the run after this long (0 = no limit)")
	cmd.Flags().StringVar(&bc.metricsOut, flagMetricsOut, "", "Write Prometheus text metrics to this file")
	cmd.Flags().StringVar(&bc.plot, flagPlot, "", "Write an HTML balance chart to this file")
	cmd.Flags().BoolVar(&bc.noColor, "no-color", false, "Disable colored status lines")

	return cmd
}

// applyFlags copies every flag the user set onto cfg.
func (bc *BenchCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagOperations) {
		cfg.Workload.Operations = bc.workload.Operations
	}

	if flags.Changed(flagKeySpace) {
		cfg.Workload.KeySpace = bc.workload.KeySpace
	}

	if flags.Changed(flagRemoveRatio) {
		cfg.Workload.RemoveRatio = bc.workload.RemoveRatio
	}

	if flags.Changed(flagSeed) {
		cfg.Workload.Seed = bc.workload.Seed
	}

	if flags.Changed(flagValidateEvery) {
		cfg.Workload.ValidateEvery = bc.workload.ValidateEvery
	}

	if flags.Changed(flagTimeout) {
		cfg.Workload.Timeout = bc.workload.Timeout
	}

	if flags.Changed(flagMetricsOut) {
		cfg.Metrics.Output = bc.metricsOut
		cfg.Metrics.Enabled = true
	}
}

func (bc *BenchCommand) run(cmd *cobra.Command, _ []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	bc.applyFlags(cmd, st.cfg)

	validateErr := config.Validate(st.cfg)
	if validateErr != nil {
		return fmt.Errorf("invalid bench settings: %w", validateErr)
	}

	providers, err := observability.Init()
	if err != nil {
		return err
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownBudget)
		defer cancel()

		shutdownErr := providers.Shutdown(ctx)
		if shutdownErr != nil {
			st.logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	opts := workload.Options{
		Logger:   st.logger,
		Tracer:   providers.Tracer,
		Workload: st.cfg.Workload,
	}

	if st.cfg.Metrics.Enabled {
		opts.Metrics, err = observability.NewTreeMetrics(providers.Meter)
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
	}

	result, runErr := workload.Run(cmd.Context(), opts)
	if result == nil {
		return runErr
	}

	out := cmd.OutOrStdout()

	statusOut := out
	if st.quiet {
		statusOut = io.Discard
	}

	status := newStatusPrinter(statusOut, bc.noColor)

	fmt.Fprintln(out, summaryTable(result))
	fmt.Fprintln(out, phaseTable(providers.Phases.Phases()))

	// Partial results are still worth writing after a timeout.
	writeErr := bc.writeArtifacts(st, providers, result, status)
	if runErr != nil {
		status.fail("workload stopped after %s operations", humanize.Comma(int64(result.Operations)))

		return errors.Join(runErr, writeErr)
	}

	if writeErr != nil {
		return writeErr
	}

	if st.cfg.Workload.ValidateEvery > 0 {
		status.ok("%d invariant checks passed", result.Validations)
	}

	return nil
}

func (bc *BenchCommand) writeArtifacts(
	st *settings, providers *observability.Providers, result *workload.Result, status *statusPrinter,
) error {
	if st.cfg.Metrics.Enabled && st.cfg.Metrics.Output != "" {
		err := writeFile(st.cfg.Metrics.Output, func(w io.Writer) error {
			return observability.WriteText(providers.Registry, w)
		})
		if err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}

		status.ok("metrics written to %s", st.cfg.Metrics.Output)
	}

	if bc.plot != "" {
		err := writeFile(bc.plot, func(w io.Writer) error {
			return benchplot.Render(w, result.Samples)
		})
		if err != nil {
			return fmt.Errorf("write plot: %w", err)
		}

		status.ok("plot written to %s", bc.plot)
	}

	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	mkErr := os.MkdirAll(filepath.Dir(path), benchDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create output dir: %w", mkErr)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, benchFilePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	renderErr := render(file)
	closeErr := file.Close()

	return errors.Join(renderErr, closeErr)
}

func summaryTable(result *workload.Result) string {
	final := result.Final

	writer := table.NewWriter()
	writer.SetStyle(table.StyleLight)
	writer.SetTitle("Workload")
	writer.AppendHeader(table.Row{"Metric", "Value"})
	writer.AppendRows([]table.Row{
		{"operations", humanize.Comma(int64(result.Operations))},
		{"inserts", humanize.Comma(int64(result.Inserts))},
		{"removes", humanize.Comma(int64(result.Removes))},
		{"missed removes", humanize.Comma(int64(result.Misses))},
		{"invariant checks", humanize.Comma(int64(result.Validations))},
		{"final size", humanize.Comma(int64(final.Size))},
		{"height", fmt.Sprintf("%d (bound %d)", final.Height, rbdebug.HeightBound(final.Size))},
		{"black height", final.BlackHeight},
		{"elapsed", result.Elapsed.Round(time.Microsecond).String()},
		{"ops/sec", humanize.CommafWithDigits(result.OpsPerSecond(), 0)},
	})

	return writer.Render()
}

func phaseTable(phases []observability.Phase) string {
	writer := table.NewWriter()
	writer.SetStyle(table.StyleLight)
	writer.SetTitle("Phases")
	writer.AppendHeader(table.Row{"Span", "Count", "Total"})

	for _, phase := range phases {
		writer.AppendRow(table.Row{
			phase.Name,
			humanize.Comma(int64(phase.Count)),
			phase.Duration.Round(time.Microsecond).String(),
		})
	}

	return writer.Render()
}

type statusPrinter struct {
	out  io.Writer
	good *color.Color
	bad  *color.Color
}

func newStatusPrinter(out io.Writer, noColor bool) *statusPrinter {
	sp := &statusPrinter{
		out:  out,
		good: color.New(color.FgGreen),
		bad:  color.New(color.FgRed, color.Bold),
	}

	if noColor {
		sp.good.DisableColor()
		sp.bad.DisableColor()
	}

	return sp
}

func (sp *statusPrinter) ok(format string, args ...any) {
	sp.good.Fprint(sp.out, "ok   ")
	fmt.Fprintf(sp.out, format+"\n", args...)
}

func (sp *statusPrinter) fail(format string, args ...any) {
	sp.bad.Fprint(sp.out, "FAIL ")
	fmt.Fprintf(sp.out, format+"\n", args...)
}
