package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
	"github.com/mohamed3ma/helios/pkg/scene"
	"github.com/mohamed3ma/helios/pkg/tracking"
	"github.com/mohamed3ma/helios/web/server"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// options shared by every command
type options struct {
	scenesDir string
	verbose   bool
	log       *logrus.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{log: logrus.New()}
	opts.log.SetOutput(stderr)

	root := &cobra.Command{
		Use:   "helios",
		Short: "Combinatorial geometry engine for Monte Carlo particle tracking",
		Long: `helios builds surface/cell/universe geometries and answers the queries of a
particle transport loop: point location, distance to the next surface and
the cell entered across it.

Scenes are built-in ids (see "helios scenes"), file:<name> for a definition
file of the scenes directory, or a path to a .toml definition file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				opts.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.scenesDir, "scenes-dir", "scenes", "Directory holding .toml definition files")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log geometry construction and tracking progress")

	root.AddCommand(
		newScenesCmd(opts),
		newCheckCmd(opts),
		newLocateCmd(opts),
		newTrackCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// logger returns the logger handed to the geometry and tracking packages.
// Their progress lines are debug output.
func (o *options) logger() core.Logger {
	return debugLogger{o.log}
}

type debugLogger struct {
	log *logrus.Logger
}

func (d debugLogger) Printf(format string, args ...interface{}) {
	d.log.Debugf(strings.TrimSuffix(format, "\n"), args...)
}

func (o *options) load(ref string) (*scene.Scene, *geometry.Geometry, error) {
	s, err := scene.Load(ref, o.scenesDir)
	if err != nil {
		return nil, nil, err
	}
	g, err := s.Build(o.logger())
	if err != nil {
		return nil, nil, err
	}
	return s, g, nil
}

func newScenesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and definition files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := scene.ListAllScenes(opts.scenesDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, group := range response.Groups {
				fmt.Fprintf(out, "%s:\n", group.Name)
				for _, s := range group.Scenes {
					fmt.Fprintf(out, "  %-20s %s", s.ID, s.DisplayName)
					if s.Description != "" {
						fmt.Fprintf(out, " - %s", s.Description)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "check <scene>",
		Short: "Build a geometry and report its size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, g, err := opts.load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d surfaces (%d placed), %d cells, %d universes\n",
				s.Info.DisplayName, len(s.Definitions.Surfaces), len(g.Surfaces()), len(g.Cells()), len(g.Universes()))
			// Where the source centre lands
			center := s.Source.Center()
			if loc, err := g.Locate(center); err != nil {
				fmt.Fprintf(out, "source centre (%g, %g, %g): %v\n", center.X, center.Y, center.Z, err)
			} else {
				fmt.Fprintf(out, "source centre (%g, %g, %g): cell %s\n", center.X, center.Y, center.Z, loc.Cell.ID())
			}
			if dump {
				fmt.Fprint(out, g)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the universe tree")
	return cmd
}

func newLocateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <scene> <x> <y> <z>",
		Short: "Find the cell containing a point",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := parsePoint(args[1:])
			if err != nil {
				return err
			}
			_, g, err := opts.load(args[0])
			if err != nil {
				return err
			}

			loc, err := g.Locate(point)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for depth, u := range loc.Path {
				fmt.Fprintf(out, "%suniverse %s", strings.Repeat("  ", depth), u.ID())
				if filled := g.FilledCell(u); filled != nil {
					fmt.Fprintf(out, " (in cell %s)", filled.ID())
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%scell %s\n", strings.Repeat("  ", len(loc.Path)), loc.Cell.ID())
			return nil
		},
	}
}

func parsePoint(args []string) (r3.Vec, error) {
	var xyz [3]float64
	for i, arg := range args {
		f, err := cast.ToFloat64E(arg)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("bad coordinate %q", arg)
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

func addRunFlags(flags *pflag.FlagSet, config *tracking.RunConfig) {
	flags.IntVarP(&config.Histories, "histories", "n", config.Histories, "Number of particle histories")
	flags.IntVar(&config.BatchSize, "batch", config.BatchSize, "Histories per worker task")
	flags.IntVarP(&config.NumWorkers, "workers", "w", config.NumWorkers, "Number of parallel workers (0 = CPU count)")
	flags.Int64Var(&config.Seed, "seed", config.Seed, "Base random seed")
	flags.IntVar(&config.MaxCrossings, "max-crossings", config.MaxCrossings, "Crossing limit per history (0 = default)")
}

func newTrackCmd(opts *options) *cobra.Command {
	config := tracking.DefaultRunConfig()
	cmd := &cobra.Command{
		Use:   "track <scene>",
		Short: "Run straight-line particles through a geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.load(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			start := time.Now()
			stats, err := tracking.Run(ctx, s.Definitions, tracking.Source{Box: s.Source}, config, opts.logger())
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			opts.log.WithFields(logrus.Fields{
				"scene":     s.Info.ID,
				"histories": stats.Histories,
				"workers":   config.NumWorkers,
				"elapsed":   time.Since(start).Round(time.Millisecond),
			}).Info("Tracking finished")

			writeStats(cmd.OutOrStdout(), stats)
			if stats.Lost > 0 {
				opts.log.WithField("fraction", stats.LostFraction()).Warn("Particles were lost")
			}
			return err
		},
	}
	addRunFlags(cmd.Flags(), &config)
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve geometry queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.NewServer(port, opts.scenesDir, opts.log).Start()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}

func writeStats(out io.Writer, stats tracking.Stats) {
	fmt.Fprintf(out, "histories   %d\n", stats.Histories)
	fmt.Fprintf(out, "escaped     %d\n", stats.Escaped)
	fmt.Fprintf(out, "leaked      %d\n", stats.Leaked)
	fmt.Fprintf(out, "lost        %d\n", stats.Lost)
	fmt.Fprintf(out, "truncated   %d\n", stats.Truncated)
	fmt.Fprintf(out, "crossings   %d\n", stats.Crossings)
	fmt.Fprintf(out, "reflections %d\n", stats.Reflections)

	fmt.Fprintln(out, "mean track length per cell:")
	for _, id := range stats.Cells() {
		fmt.Fprintf(out, "  %-20s %.6f\n", id, stats.MeanTrackLength(id))
	}
	for _, p := range stats.LostPoints {
		fmt.Fprintf(out, "lost at (%g, %g, %g)\n", p.X, p.Y, p.Z)
	}
}
