// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/reach"
	"github.com/dalzilio/pbn/symbolic"
)

var (
	initial  string
	backward bool
	closed   string
)

var reachCommand = &cobra.Command{
	Use:   "reach MODEL",
	Short: "compute the states reachable from a subspace",
	Long: `Compute the forward (or with --backward, the backward) reachable states
of a subspace. With --closed subset, compute instead the largest forward (or
backward) closed subset of the subspace.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g, err := loadGraph(ctx, args[0])
		if err != nil {
			return err
		}
		values, err := parseSubspace(g.Network(), initial)
		if err != nil {
			return err
		}
		opts := options(ctx)
		if subspace != "" {
			sub, err := parseSubspace(g.Network(), subspace)
			if err != nil {
				return err
			}
			opts = append(opts, algo.Restriction(g.MkSubspace(sub)))
		}
		r := reach.New(g, opts...)

		var run func(symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, error)
		switch {
		case closed == "superset" && !backward:
			run = r.ForwardClosedSuperset
		case closed == "superset":
			run = r.BackwardClosedSuperset
		case closed == "subset" && !backward:
			run = r.ForwardClosedSubset
		case closed == "subset":
			run = r.BackwardClosedSubset
		default:
			return errors.Errorf("unknown closure %q, expected superset or subset", closed)
		}

		p := newProgress(loggerFromContext(ctx))
		res, err := run(g.MkSubspace(values))
		if err != nil {
			return report(ctx, err)
		}
		p.done("Reachability finished")
		debugStats(ctx, g)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%g colored states (%g vertices, %g colors)\n",
			res.ApproxCardinality(), res.Vertices().ApproxCardinality(), res.Colors().ApproxCardinality())
		return printVertices(out, g, res.Vertices(), listLimit)
	},
}

func init() {
	fl := reachCommand.Flags()
	fl.StringVar(&initial, "from", "", "initial subspace given as name=value,... (empty for all states)")
	fl.BoolVar(&backward, "backward", false, "use backward instead of forward transitions")
	fl.StringVar(&closed, "closed", "superset", "superset (reachable states) or subset (closed subset)")
	fl.StringVar(&subspace, "restrict", "", "subgraph given as name=value,...")
	fl.IntVar(&listLimit, "list", 20, "maximal number of vertices to print (-1 for all)")
}
