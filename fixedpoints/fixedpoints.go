// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package fixedpoints computes the fixed points of the asynchronous graph of
// a network, that is the states where no variable can change, for every
// color. All the algorithms only return fixed points from the restriction of
// their configuration, but these are global fixed points, not just fixed
// points of the restricted graph.
package fixedpoints

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/symbolic"
)

const (
	targetNaiveSymbolic    = "fixedpoints.naive_symbolic"
	targetSymbolic         = "fixedpoints.symbolic"
	targetSymbolicVertices = "fixedpoints.symbolic_vertices"
	targetSymbolicColors   = "fixedpoints.symbolic_colors"
)

// FixedPoints implements fixed point search over an asynchronous graph. The
// Variables option is ignored since a fixed point must be stable for all the
// variables.
type FixedPoints struct {
	cfg *algo.Config
}

// New returns the fixed point algorithms for g with the given options.
func New(g *symbolic.AsyncGraph, options ...algo.Option) *FixedPoints {
	return &FixedPoints{cfg: algo.New(g, options...)}
}

// Config returns the configuration of f.
func (f *FixedPoints) Config() *algo.Config {
	return f.cfg
}

// NaiveSymbolic computes the fixed points by removing, for every variable,
// the states where this variable can change, and then by intersecting the
// two smallest sets until only one is left. It is a baseline for the other
// algorithms and is only suited to small networks.
func (f *FixedPoints) NaiveSymbolic() (symbolic.ColoredVertexSet, error) {
	cfg := f.cfg
	cfg.StartTimer()
	g := cfg.Graph
	restriction := cfg.Candidates()
	entry := f.started(targetNaiveSymbolic)

	combined := 0
	toMerge := make([]symbolic.ColoredVertexSet, 0, g.NumVars())
	for _, v := range g.Variables() {
		if combined > cfg.BddSizeLimit {
			return restriction, algo.Fail(algo.BddSizeLimitExceeded, restriction)
		}
		isStable := restriction.Minus(g.VarCanPost(v, g.UnitColoredVertices()))
		if err := cfg.Check(func() algo.Partial { return restriction }); err != nil {
			return restriction, err
		}
		entry.Tracef(" > Created initial set for %s using %d BDD nodes.",
			g.Network().Name(v), isStable.SymbolicSize())
		combined += isStable.SymbolicSize()
		toMerge = append(toMerge, isStable)
	}

	for len(toMerge) > 1 {
		sort.SliceStable(toMerge, func(i, j int) bool {
			return toMerge[i].SymbolicSize() > toMerge[j].SymbolicSize()
		})
		if entry.Logger.IsLevelEnabled(log.DebugLevel) {
			total := 0
			for _, set := range toMerge {
				total += set.SymbolicSize()
			}
			entry.Debugf(" > Merging %d sets using %d BDD nodes.", len(toMerge), total)
		}
		last := toMerge[len(toMerge)-1]
		if err := cfg.Check(func() algo.Partial { return last }); err != nil {
			return last, err
		}
		x, y := toMerge[len(toMerge)-1], toMerge[len(toMerge)-2]
		toMerge = append(toMerge[:len(toMerge)-2], x.Intersect(y))
	}

	fixedPoints := toMerge[0]
	entry.Infof("Found %g[nodes:%d] fixed-points.",
		fixedPoints.ApproxCardinality(), fixedPoints.SymbolicSize())
	return fixedPoints, nil
}

// Symbolic computes the fixed points with the greedy merge of the stability
// constraints of every variable (see Merge). It scales to networks with a
// few hundred variables and parameters, and tends to detect quickly the
// absence of fixed points.
func (f *FixedPoints) Symbolic() (symbolic.ColoredVertexSet, error) {
	cfg := f.cfg
	cfg.StartTimer()
	g := cfg.Graph
	entry := f.started(targetSymbolic)

	res, err := f.mergeStable(targetSymbolic, nil)
	if err != nil {
		return g.EmptyColoredVertices(), err
	}
	unit := g.UnitColoredVertices()
	fixedPoints := unit.Intersect(unit.Copy(res))
	entry.Infof("Found %g[nodes:%d] fixed-points.",
		fixedPoints.ApproxCardinality(), fixedPoints.SymbolicSize())
	return fixedPoints, nil
}

// SymbolicVertices returns the states that are fixed points for at least one
// color. Parameters are projected away during the merge, which is often much
// faster than Symbolic when the network has parameters.
func (f *FixedPoints) SymbolicVertices() (symbolic.VertexSet, error) {
	cfg := f.cfg
	cfg.StartTimer()
	g := cfg.Graph
	entry := f.started(targetSymbolicVertices)

	res, err := f.mergeStable(targetSymbolicVertices, g.Context().ParameterVariables())
	if err != nil {
		return symbolic.NewVertexSet(g.Context().MkConstant(false)), err
	}
	vertices := symbolic.NewVertexSet(res)
	entry.Infof("Found %g[nodes:%d] fixed-point vertices.",
		vertices.ApproxCardinality(), vertices.SymbolicSize())
	return vertices, nil
}

// SymbolicColors returns the colors for which there is at least one fixed
// point in the restriction.
func (f *FixedPoints) SymbolicColors() (symbolic.ColorSet, error) {
	cfg := f.cfg
	cfg.StartTimer()
	g := cfg.Graph
	entry := f.started(targetSymbolicColors)

	res, err := f.mergeStable(targetSymbolicColors, g.Context().StateVariables())
	if err != nil {
		return g.EmptyColors(), err
	}
	colors := symbolic.NewColorSet(res)
	entry.Infof("Found %g[nodes:%d] fixed-point colors.",
		colors.ApproxCardinality(), colors.SymbolicSize())
	return colors, nil
}

func (f *FixedPoints) started(target string) *log.Entry {
	restriction := f.cfg.Candidates()
	entry := f.cfg.Log(target)
	entry.Infof("Started search with %g[nodes:%d] candidates.",
		restriction.ApproxCardinality(), restriction.SymbolicSize())
	return entry
}

// mergeStable builds the stability constraint of every variable, over all
// the colored vertices, adds the restriction when it is not trivial, and
// merges them.
func (f *FixedPoints) mergeStable(target string, projections []int) (symbolic.Bdd, error) {
	toMerge, err := f.prepareToMerge(target)
	if err != nil {
		return symbolic.Bdd{}, err
	}
	g := f.cfg.Graph
	restriction := f.cfg.Candidates()
	if !g.UnitColoredVertices().IsSubset(restriction) {
		toMerge = append(toMerge, restriction.AsBdd())
	}
	last := toMerge[len(toMerge)-1]
	if err := f.cfg.Check(func() algo.Partial { return last }); err != nil {
		return symbolic.Bdd{}, err
	}
	res, err := f.Merge(toMerge, projections, target)
	if err != nil {
		return symbolic.Bdd{}, err
	}
	if err := f.cfg.Check(func() algo.Partial { return res }); err != nil {
		return symbolic.Bdd{}, err
	}
	return res, nil
}

func (f *FixedPoints) prepareToMerge(target string) ([]symbolic.Bdd, error) {
	cfg := f.cfg
	g := cfg.Graph
	unit := g.UnitColoredVertices()
	restriction := cfg.Candidates()
	entry := cfg.Log(target)

	combined := 0
	res := make([]symbolic.Bdd, 0, g.NumVars())
	for _, v := range g.Variables() {
		if combined > cfg.BddSizeLimit {
			return nil, algo.Fail(algo.BddSizeLimitExceeded, restriction)
		}
		isStable := unit.Minus(g.VarCanPost(v, unit))
		if err := cfg.Check(func() algo.Partial { return restriction }); err != nil {
			return nil, err
		}
		algo.DebugWithLimit(entry, isStable.SymbolicSize(),
			" > Created initial set for %s using %d BDD nodes.",
			g.Network().Name(v), isStable.SymbolicSize())
		combined += isStable.SymbolicSize()
		res = append(res, isStable.AsBdd())
	}
	return res, nil
}
