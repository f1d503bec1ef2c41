package main

import (
	"context"
	"fmt"

	"github.com/gitrdm/boundprop/internal/parallel"
	"github.com/gitrdm/boundprop/internal/problem"
	"github.com/gitrdm/boundprop/pkg/boundprop"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	tree, table, bounds bool
	format              string
	workers             int
	trace               bool
	check               bool
	maxVertices         int
}

func newRootCmd(log zerolog.Logger) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "boundprop",
		Short:         "Derive implied bounds and offset equalities from linear rows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				log = log.Level(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(newRunCmd(&log), newVersionCmd())
	return root
}

func newRunCmd(log *zerolog.Logger) *cobra.Command {
	var fl runFlags
	cmd := &cobra.Command{
		Use:   "run [flags] file...",
		Short: "Run one propagation pass over each problem file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := problem.ParseFormat(fl.format)
			if err != nil {
				return err
			}
			if !fl.tree && !fl.table && !fl.bounds {
				fl.tree, fl.table, fl.bounds = true, true, true
			}
			reports, err := runFiles(cmd.Context(), *log, fl, args)
			if err != nil {
				return err
			}
			return problem.Encode(cmd.OutOrStdout(), format, reports)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&fl.tree, "tree", false, "explore offset-row trees (CheapEqTree)")
	f.BoolVar(&fl.table, "table", false, "use the (y, k) row table (CheapEqTable)")
	f.BoolVar(&fl.bounds, "bounds", false, "derive row bounds (AnalyzeRow)")
	f.StringVarP(&fl.format, "format", "f", "text", "output format: text, yaml or cbor")
	f.IntVarP(&fl.workers, "workers", "w", 0, "problems propagated concurrently (0 = one per CPU)")
	f.BoolVar(&fl.trace, "trace", false, "trace the propagator to stderr")
	f.BoolVar(&fl.check, "check-invariants", false, "verify the equality tree after every change")
	f.IntVar(&fl.maxVertices, "max-tree-vertices", 0, "stop tree exploration at this size (0 = unlimited)")
	return cmd
}

// runFiles loads every file, failing before any propagation if one of them
// is malformed, then propagates them on a worker pool. A panic inside one
// problem is reported in its own report.
func runFiles(ctx context.Context, log zerolog.Logger, fl runFlags, paths []string) ([]*problem.Report, error) {
	problems := make([]*problem.Problem, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := problem.Load(path)
			if err != nil {
				return err
			}
			problems[i] = p
			log.Debug().Str("file", path).Int("rows", p.Tab.NumRows()).Int("vars", p.Tab.NumVars()).Msg("loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := problem.Options{
		Bounds:          fl.bounds,
		Table:           fl.table,
		Tree:            fl.tree,
		Logger:          log.Level(zerolog.Disabled),
		CheckInvariants: fl.check,
		MaxTreeVertices: fl.maxVertices,
	}
	if fl.trace {
		opts.Logger = log.Level(zerolog.TraceLevel)
	}

	pool := parallel.NewWorkerPool(fl.workers)
	defer pool.Shutdown()
	log.Debug().Int("workers", pool.Workers()).Int("problems", len(problems)).Msg("propagating")

	results := parallel.Map(ctx, pool, len(problems), func(_ context.Context, i int) (*problem.Report, error) {
		return problem.Run(problems[i], opts), nil
	})
	reports := make([]*problem.Report, len(results))
	for i, res := range results {
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("problem", problems[i].Name).Msg("propagation failed")
			reports[i] = &problem.Report{Name: problems[i].Name, Error: res.Err.Error()}
			continue
		}
		reports[i] = res.Value
	}
	return reports, nil
}

func newVersionCmd() *cobra.Command {
	var check string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := boundprop.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "boundprop %s (%s)\n", info.Version, info.GoVersion)
			if check == "" {
				return nil
			}
			ok, err := boundprop.Compatible(check)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(out, "compatible with %s\n", check)
				return nil
			}
			return fmt.Errorf("not compatible with %s", check)
		},
	}
	cmd.Flags().StringVar(&check, "check", "", "report whether a consumer built against this version is compatible")
	return cmd
}
