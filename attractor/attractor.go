// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package attractor computes the attractors of the asynchronous graph of a
// network, that is its terminal strongly connected components, for every
// color. Detection works in two stages. The interleaved transition guided
// reduction (see Reduce) first removes states that cannot be part of an
// attractor, then a colored version of the Xie-Beerel algorithm (see
// XieBeerel) extracts the bottom components from what remains.
//
// Attractors can then be labelled with their long-term behaviour using a
// Classifier.
package attractor

import (
	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/reach"
	"github.com/dalzilio/pbn/symbolic"
)

const (
	targetAttractors = "attractor.attractors"
	targetReduce     = "attractor.reduce"
	targetXieBeerel  = "attractor.xie_beerel"
)

// Attractors returns the attractors of graph inside the restriction of the
// configuration. Only the cancellation handler, the restriction, the
// variables and the logger of the options are used. Each returned set may
// group the attractors of several colors, but contains at most one attractor
// per color.
func Attractors(graph *symbolic.AsyncGraph, options ...algo.Option) ([]symbolic.ColoredVertexSet, error) {
	cfg := algo.New(graph, options...)
	cfg.StartTimer()
	entry := cfg.Log(targetAttractors)
	candidates := cfg.Candidates()
	entry.Infof("Started attractor search with %g[nodes:%d] candidates.",
		candidates.ApproxCardinality(), candidates.SymbolicSize())

	universe, active, err := Reduce(cfg, candidates)
	if err != nil {
		return nil, err
	}
	res, err := XieBeerel(cfg, universe, active)
	if err != nil {
		return res, err
	}
	entry.Infof("Found %d attractor sets.", len(res))
	return res, nil
}

// Reduce removes from initial as many non-attractor states as possible using
// interleaved transition guided reduction. The result is a superset of the
// attractor states of initial. It also returns the variables that still have
// transitions inside the result; the other variables are effectively constant
// in the remaining states.
//
// On cancellation, the error carries the current universe, which is still a
// valid (but less reduced) superset of the attractor states.
func Reduce(cfg *algo.Config, initial symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, []network.VariableID, error) {
	vars := cfg.SortedVariables()
	s := newScheduler(cfg, initial, vars)
	s.log.Infof("Start interleaved transition guided reduction with %g[nodes:%d] candidates.",
		initial.ApproxCardinality(), initial.SymbolicSize())

	for _, v := range vars {
		s.spawn(newReachableProcess(v, s))
	}

	for !s.done() {
		if err := cfg.Check(func() algo.Partial { return s.universe }); err != nil {
			return s.universe, s.active, err
		}
		if err := s.step(); err != nil {
			return s.universe, s.active, algo.Fail(algo.KindOf(err), s.universe)
		}
	}

	s.log.Infof("Reduced to %g[nodes:%d] candidates with %d active variables.",
		s.universe.ApproxCardinality(), s.universe.SymbolicSize(), len(s.active))
	return s.universe, s.active, nil
}

// XieBeerel extracts all the bottom strongly connected components of
// universe, using only the transitions of active. The attractors found so far
// are returned with the error when the operation is cancelled.
func XieBeerel(cfg *algo.Config, universe symbolic.ColoredVertexSet, active []network.VariableID) ([]symbolic.ColoredVertexSet, error) {
	g := cfg.Graph
	entry := cfg.Log(targetXieBeerel)
	entry.Infof("Start Xie-Beerel attractor detection on %g[nodes:%d] candidates.",
		universe.ApproxCardinality(), universe.SymbolicSize())

	res := []symbolic.ColoredVertexSet{}
	found := func() algo.Partial {
		union := g.EmptyColoredVertices()
		for _, set := range res {
			union = union.Union(set)
		}
		return union
	}

	for !universe.IsEmpty() {
		algo.DebugWithLimit(entry, universe.SymbolicSize(),
			" > Start new bottom SCC search. Remaining: %g[nodes:%d].",
			universe.ApproxCardinality(), universe.SymbolicSize())

		pivots := universe.PickVertex()
		basin, err := reach.Backward(g, pivots, universe, active, cfg.Cancellation)
		if err != nil {
			return res, algo.Fail(algo.KindOf(err), found())
		}

		// Colors that leave the basin of the pivot are not attractors for this
		// pivot and are dropped. What is left is forward closed in universe.
		component := pivots
		for {
			if err := cfg.Check(found); err != nil {
				return res, err
			}
			var done bool
			component, done = reach.Step(component, universe, active, g.VarPost)
			algo.DebugWithLimit(entry, component.SymbolicSize(),
				" >> [FWD process] Reachability progress: %g[nodes:%d] candidates.",
				component.ApproxCardinality(), component.SymbolicSize())
			if escaped := component.Minus(basin); !escaped.IsEmpty() {
				component = component.MinusColors(escaped.Colors())
			}
			if done {
				break
			}
		}

		if !component.IsEmpty() {
			entry.Debugf(" > Found a bottom SCC: %gx%g[nodes:%d].",
				component.Vertices().ApproxCardinality(),
				component.Colors().ApproxCardinality(),
				component.SymbolicSize())
			res = append(res, component)
		}
		universe = universe.Minus(basin)
	}

	entry.Infof("Attractor detection finished with %d results.", len(res))
	return res, nil
}
