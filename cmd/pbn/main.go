// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/internal/config"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

var (
	settingsFile string
	bddSizeLimit int
	stepsLimit   int
	timeout      time.Duration
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:          "pbn",
	Short:        "pbn, symbolic analysis of partially specified Boolean networks",
	Long:         "",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// settings are the values of the settings file, overridden by the command
// line flags.
var settings = config.Default()

func setup(cmd *cobra.Command) error {
	settings = config.Default()
	if settingsFile != "" {
		s, err := config.Load(settingsFile)
		if err != nil {
			return err
		}
		settings = s
	}
	flags := cmd.Flags()
	if flags.Changed("bdd-size-limit") {
		settings.Limits.BddSizeLimit = bddSizeLimit
	}
	if flags.Changed("steps-limit") {
		settings.Limits.StepsLimit = stepsLimit
	}
	if flags.Changed("timeout") {
		settings.Limits.Timeout = config.Duration{Duration: timeout}
	}
	if verbose {
		settings.Log.Level = "debug"
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	lvl, _ := settings.Level()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	charmLevel := charmlog.InfoLevel
	if lvl >= log.DebugLevel {
		charmLevel = charmlog.DebugLevel
	}
	cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, charmLevel)))
	return nil
}

// options returns the algorithm options for the current settings. The
// computation is also cancelled by an interrupt.
func options(ctx context.Context) []algo.Option {
	return settings.Options(algo.Context(ctx))
}

// loadGraph reads a model and builds its asynchronous graph.
func loadGraph(ctx context.Context, filename string) (*symbolic.AsyncGraph, error) {
	p := newProgress(loggerFromContext(ctx))
	bn, err := network.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	g, err := symbolic.NewAsyncGraph(bn)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	p.done(fmt.Sprintf("Loaded %s with %d variables and %g colors",
		filename, g.NumVars(), g.UnitColors().ApproxCardinality()))
	return g, nil
}

// report logs the partial result of a failed algorithm, if any.
func report(ctx context.Context, err error) error {
	if p, ok := algo.PartialOf(err); ok {
		loggerFromContext(ctx).Warn("Partial result",
			"kind", algo.KindOf(err), "cardinality", p.ApproxCardinality(), "nodes", p.SymbolicSize())
	}
	return err
}

// debugStats logs the state of the BDD manager of g.
func debugStats(ctx context.Context, g *symbolic.AsyncGraph) {
	loggerFromContext(ctx).Debug("BDD manager\n" + g.Context().BDD().Stats())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "config", "", "settings file (TOML)")
	pf.IntVar(&bddSizeLimit, "bdd-size-limit", 0, "maximal number of BDD nodes (0 for no limit)")
	pf.IntVar(&stepsLimit, "steps-limit", 0, "maximal number of reachability steps (0 for no limit)")
	pf.DurationVar(&timeout, "timeout", 0, "cancel the computation after this duration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(fixedPointsCommand)
	rootCmd.AddCommand(attractorsCommand)
	rootCmd.AddCommand(reachCommand)
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
