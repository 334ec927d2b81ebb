// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package reach implements symbolic reachability on the asynchronous graph of
// a network using saturation: the successors (or predecessors) of a single
// variable are added at each step, and the scan over variables restarts as
// soon as one of them produced new states.
package reach

import (
	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

// StepFunc computes the image of a set by the transitions of one variable,
// typically AsyncGraph.VarPost or AsyncGraph.VarPre.
type StepFunc func(v network.VariableID, set symbolic.ColoredVertexSet) symbolic.ColoredVertexSet

// Step performs one saturation step. Variables are scanned in reverse order
// and the new states of the first variable that produces some (restricted to
// universe) are added to set. The boolean is true when no variable produced
// anything, that is when set is a fixpoint.
func Step(set, universe symbolic.ColoredVertexSet, vars []network.VariableID, step StepFunc) (symbolic.ColoredVertexSet, bool) {
	res, done, _ := saturationStep(algo.Never, set, universe, vars, step)
	return res, done
}

// saturationStep is Step with a cancellation check before each variable.
func saturationStep(h algo.Handler, set, universe symbolic.ColoredVertexSet, vars []network.VariableID, step StepFunc) (symbolic.ColoredVertexSet, bool, error) {
	for k := len(vars) - 1; k >= 0; k-- {
		if err := algo.Check(h, func() algo.Partial { return set }); err != nil {
			return set, false, err
		}
		stepped := step(vars[k], set).Minus(set).Intersect(universe)
		if !stepped.IsEmpty() {
			return set.Union(stepped), false, nil
		}
	}
	return set, true, nil
}

func saturate(h algo.Handler, initial, universe symbolic.ColoredVertexSet, vars []network.VariableID, step StepFunc) (symbolic.ColoredVertexSet, error) {
	set := initial
	for {
		next, done, err := saturationStep(h, set, universe, vars, step)
		if err != nil || done {
			return next, err
		}
		set = next
	}
}

// Forward returns the states reachable from initial using only transitions of
// vars and staying inside universe. When h fires, it returns a Cancelled error
// carrying the states found so far.
func Forward(g *symbolic.AsyncGraph, initial, universe symbolic.ColoredVertexSet, vars []network.VariableID, h algo.Handler) (symbolic.ColoredVertexSet, error) {
	return saturate(h, initial, universe, vars, g.VarPost)
}

// Backward returns the states that can reach initial using only transitions
// of vars and staying inside universe. See Forward.
func Backward(g *symbolic.AsyncGraph, initial, universe symbolic.ColoredVertexSet, vars []network.VariableID, h algo.Handler) (symbolic.ColoredVertexSet, error) {
	return saturate(h, initial, universe, vars, g.VarPre)
}
