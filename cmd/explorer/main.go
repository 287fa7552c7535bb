// Command explorer walks the parameter space of a lattice automaton,
// capturing every parameterization that neither dies nor explodes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ca-explorer/internal/catalog"
	"ca-explorer/internal/core"
	"ca-explorer/internal/engine"
	"ca-explorer/internal/explore"
	_ "ca-explorer/internal/sims/kernel"
	_ "ca-explorer/internal/sims/refractory"
)

const summarySize = 5

type app struct {
	cfg      explore.Config
	settings map[string]string
	verbose  bool
	limit    int

	logger *zap.Logger
}

func newApp() *app {
	return &app{cfg: explore.DefaultConfig(), limit: 10}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "explorer divisor [values...]",
		Short: "Search a lattice automaton's parameter space for periodic behaviour",
		Long: `explorer enumerates parameter vectors starting from the one given on the
command line. Each vector is classified as dead, chaotic or interesting; interesting
ones are scored by how much of the lattice oscillates and an atlas GIF of sample
oscillators is written under the captures directory.

Stop the search with Ctrl-C. The summary prints the next vector; pass it back as
arguments to resume from there. The dash-joined vector in a capture's file name
(e.g. 3-1-0-2) is accepted as a single argument too. Flags go before the vector so
negative values are read as values.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cfg.FromMap(a.settings)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runSearch,
	}
	root.Flags().SetInterspersed(false)

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringToStringVar(&a.settings, "set", nil, "override a tuning knob (key=value, repeatable)")
	a.cfg.Bind(pf)

	scoreCmd := &cobra.Command{
		Use:   "score divisor [values...]",
		Short: "Classify and score a single parameter vector",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runScore,
	}
	scoreCmd.Flags().SetInterspersed(false)
	topCmd := &cobra.Command{
		Use:   "top",
		Short: "List the best captures recorded in the sqlite catalog",
		Long: `top lists captures from a catalog written by earlier runs. The memory catalog
lives only as long as one process, so top needs --store sqlite (built with -tags sqlite)
pointing at the same --db as the searches.`,
		Args: cobra.NoArgs,
		RunE: a.runTop,
	}
	topCmd.Flags().IntVar(&a.limit, "limit", a.limit, "number of captures to list")

	root.AddCommand(scoreCmd, topCmd)
	return root
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) openStore(ctx context.Context) (catalog.Store, error) {
	if a.cfg.Store == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	store, err := catalog.NewStore(a.cfg.Store, a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = catalog.CloseIfSupported(store)
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return store, nil
}

func (a *app) newExplorer(ctx context.Context, args []string) (*explore.Explorer, catalog.Store, error) {
	params, err := core.ParseParameters(args)
	if err != nil {
		return nil, nil, err
	}
	rng := core.NewRNG(a.cfg.Seed)
	eng, err := engine.NewRegistered(a.cfg.Sim, core.Size{W: a.cfg.Width, H: a.cfg.Height}, rng)
	if err != nil {
		return nil, nil, err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	x, err := explore.New(a.cfg, params, eng, rng, store, a.logger)
	if err != nil {
		_ = catalog.CloseIfSupported(store)
		return nil, nil, err
	}
	return x, store, nil
}

func (a *app) runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	x, store, err := a.newExplorer(ctx, args)
	if err != nil {
		return err
	}
	defer catalog.CloseIfSupported(store)

	start := time.Now()
	rounds, err := x.Run(ctx)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	// The search context may be cancelled by now; the summary still reads
	// from the catalog.
	top, err := store.TopCaptures(context.WithoutCancel(ctx), 0)
	if err != nil {
		return err
	}
	next := x.Params()
	printSummary(cmd.OutOrStdout(), runCaptures(top, x.RunID()), rounds, elapsed, next.String())
	return nil
}

func runCaptures(all []catalog.Capture, runID string) []catalog.Capture {
	var out []catalog.Capture
	for _, c := range all {
		if c.RunID == runID {
			out = append(out, c)
		}
	}
	return out
}

func printSummary(w io.Writer, top []catalog.Capture, rounds int, elapsed time.Duration, next string) {
	fmt.Fprintf(w, "\nTop %d captures (%d rounds, elapsed %s):\n", summarySize, rounds, elapsed.Round(time.Millisecond))
	if len(top) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for i := 0; i < len(top) && i < summarySize; i++ {
		printCapture(w, i+1, top[i])
	}
	fmt.Fprintf(w, "\nResume with: %s\n", next)
}

func printCapture(w io.Writer, rank int, c catalog.Capture) {
	path := c.Path
	if path == "" {
		path = "-"
	}
	fmt.Fprintf(w, "%2d) score=%.2f oscillators=%.3f params=%s path=%s\n", rank, c.Score, c.Oscillators, c.Params, path)
}

func (a *app) runScore(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	x, store, err := a.newExplorer(ctx, args)
	if err != nil {
		return err
	}
	defer catalog.CloseIfSupported(store)

	report, err := x.Round(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	res := report.Classification
	fmt.Fprintf(w, "params=%s verdict=%s bursts=%d history=%v\n", report.Params.Slug(), res.Judgement, res.Bursts, res.History)
	if report.Scored {
		fmt.Fprintf(w, "score=%.2f oscillators=%.3f missing=%d path=%s\n",
			report.Score, report.Histogram.OscillatorDensity(), report.Missing, report.Path)
	}
	return nil
}

func (a *app) runTop(cmd *cobra.Command, _ []string) error {
	if a.cfg.Store == "" || a.cfg.Store == "memory" {
		return fmt.Errorf("top needs a persistent catalog; use --store sqlite (build with -tags sqlite)")
	}
	store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer catalog.CloseIfSupported(store)

	top, err := store.TopCaptures(cmd.Context(), a.limit)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(top) == 0 {
		fmt.Fprintf(w, "no captures in %s\n", a.cfg.DBPath)
		return nil
	}
	for i, c := range top {
		printCapture(w, i+1, c)
	}
	return nil
}
