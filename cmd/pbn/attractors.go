// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/attractor"
)

var classify bool

var attractorsCommand = &cobra.Command{
	Use:   "attractors MODEL",
	Short: "compute the attractors of a network",
	Long: `Compute the attractors of a network using transition guided reduction
followed by the Xie-Beerel algorithm. With --classify, the colors are
partitioned according to the behaviours of their attractors.`,
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
		p := newProgress(loggerFromContext(ctx))
		res, err := attractor.Attractors(g, opts...)
		if err != nil {
			return report(ctx, err)
		}
		p.done(fmt.Sprintf("Found %d attractor sets", len(res)))
		debugStats(ctx, g)

		out := cmd.OutOrStdout()
		classifier := attractor.NewClassifier(g)
		for k, att := range res {
			fmt.Fprintf(out, "attractor %d: %g vertices, %g colors\n",
				k, att.Vertices().ApproxCardinality(), att.Colors().ApproxCardinality())
			if classify {
				classifier.AddComponent(att)
				continue
			}
			if err := printVertices(out, g, att.Vertices(), listLimit); err != nil {
				return err
			}
		}
		if classify {
			classes := classifier.Export()
			for _, class := range classifier.Classes() {
				fmt.Fprintf(out, "%s: %g colors\n", class, classes[class].ApproxCardinality())
			}
		}
		return nil
	},
}

func init() {
	fl := attractorsCommand.Flags()
	fl.BoolVar(&classify, "classify", false, "classify the colors by the behaviours of their attractors")
	fl.StringVar(&subspace, "restrict", "", "only search the subspace given as name=value,...")
	fl.IntVar(&listLimit, "list", 20, "maximal number of vertices to print per attractor (-1 for all)")
}
