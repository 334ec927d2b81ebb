// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/fixedpoints"
)

var (
	variant   string
	subspace  string
	listLimit int
	dotFile   string
)

var fixedPointsCommand = &cobra.Command{
	Use:   "fixed-points MODEL",
	Short: "compute the fixed points of a network",
	Long: `Compute the fixed points of a network, given as an .aeon or .bnet file.
The variant selects the algorithm: symbolic (colored fixed points), vertices
(states that are fixed points for some color), colors (colors with some fixed
point) or naive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g, err := loadGraph(ctx, args[0])
		if err != nil {
			return err
		}
		opts := options(ctx)
		if subspace != "" {
			values, err := parseSubspace(g.Network(), subspace)
			if err != nil {
				return err
			}
			opts = append(opts, algo.Restriction(g.MkSubspace(values)))
		}
		f := fixedpoints.New(g, opts...)
		p := newProgress(loggerFromContext(ctx))
		out := cmd.OutOrStdout()

		switch variant {
		case "symbolic", "naive":
			search := f.Symbolic
			if variant == "naive" {
				search = f.NaiveSymbolic
			}
			res, err := search()
			if err != nil {
				return report(ctx, err)
			}
			p.done("Fixed point search finished")
			debugStats(ctx, g)
			fmt.Fprintf(out, "%g colored fixed points (%g vertices, %g colors)\n",
				res.ApproxCardinality(), res.Vertices().ApproxCardinality(), res.Colors().ApproxCardinality())
			if err := writeDot(dotFile, res.AsBdd()); err != nil {
				return err
			}
			return printVertices(out, g, res.Vertices(), listLimit)
		case "vertices":
			res, err := f.SymbolicVertices()
			if err != nil {
				return report(ctx, err)
			}
			p.done("Fixed point search finished")
			debugStats(ctx, g)
			fmt.Fprintf(out, "%g fixed point vertices\n", res.ApproxCardinality())
			if err := writeDot(dotFile, res.AsBdd()); err != nil {
				return err
			}
			return printVertices(out, g, res, listLimit)
		case "colors":
			res, err := f.SymbolicColors()
			if err != nil {
				return report(ctx, err)
			}
			p.done("Fixed point search finished")
			debugStats(ctx, g)
			fmt.Fprintf(out, "%g colors with fixed points (out of %g)\n",
				res.ApproxCardinality(), g.UnitColors().ApproxCardinality())
			return writeDot(dotFile, res.AsBdd())
		}
		return errors.Errorf("unknown variant %q", variant)
	},
}

func init() {
	fl := fixedPointsCommand.Flags()
	fl.StringVar(&variant, "variant", "symbolic", "algorithm: symbolic, vertices, colors or naive")
	fl.StringVar(&subspace, "restrict", "", "only search the subspace given as name=value,...")
	fl.IntVar(&listLimit, "list", 20, "maximal number of vertices to print (-1 for all)")
	fl.StringVar(&dotFile, "dot", "", "write the BDD of the result to this file in the DOT format")
}
