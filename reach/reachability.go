// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package reach

import (
	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

const (
	targetForwardSuperset  = "reach.forward_closed_superset"
	targetBackwardSuperset = "reach.backward_closed_superset"
	targetForwardSubset    = "reach.forward_closed_subset"
	targetBackwardSubset   = "reach.backward_closed_subset"
)

// Reachability computes the largest and smallest forward or backward closed
// sets of a graph. The restriction of the configuration, if any, is the
// subgraph in which the computation takes place.
type Reachability struct {
	cfg *algo.Config
}

// New returns the reachability algorithms for g with the given options.
func New(g *symbolic.AsyncGraph, options ...algo.Option) *Reachability {
	return &Reachability{cfg: algo.New(g, options...)}
}

// Config returns the configuration of r.
func (r *Reachability) Config() *algo.Config {
	return r.cfg
}

// ForwardClosedSuperset returns the smallest forward closed superset of
// initial, that is all the states reachable from initial.
func (r *Reachability) ForwardClosedSuperset(initial symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, error) {
	sub := r.cfg.Restriction
	return r.run(targetForwardSuperset, initial, "Expanded", func(v network.VariableID, set symbolic.ColoredVertexSet) symbolic.ColoredVertexSet {
		successors := r.cfg.Graph.VarPostOut(v, set)
		if sub != nil {
			successors = successors.Intersect(*sub)
		}
		return set.Union(successors)
	})
}

// BackwardClosedSuperset returns the smallest backward closed superset of
// initial, that is all the states that can reach initial.
func (r *Reachability) BackwardClosedSuperset(initial symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, error) {
	sub := r.cfg.Restriction
	return r.run(targetBackwardSuperset, initial, "Expanded", func(v network.VariableID, set symbolic.ColoredVertexSet) symbolic.ColoredVertexSet {
		predecessors := r.cfg.Graph.VarPreOut(v, set)
		if sub != nil {
			predecessors = predecessors.Intersect(*sub)
		}
		return set.Union(predecessors)
	})
}

// ForwardClosedSubset returns the largest forward closed subset of initial,
// that is initial without the states that can leave it. Transitions leaving
// the subgraph are ignored.
func (r *Reachability) ForwardClosedSubset(initial symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, error) {
	sub := r.cfg.Restriction
	return r.run(targetForwardSubset, initial, "Reduced", func(v network.VariableID, set symbolic.ColoredVertexSet) symbolic.ColoredVertexSet {
		leaving := r.cfg.Graph.VarCanPostOut(v, set)
		if sub != nil {
			// a state can only escape to a successor inside the subgraph
			leaving = leaving.Minus(r.cfg.Graph.VarCanPostOut(v, *sub))
		}
		return set.Minus(leaving)
	})
}

// BackwardClosedSubset returns the largest backward closed subset of initial,
// that is initial without the states reachable from outside of it. Only
// predecessors inside the subgraph count.
func (r *Reachability) BackwardClosedSubset(initial symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, error) {
	sub := r.cfg.Restriction
	return r.run(targetBackwardSubset, initial, "Reduced", func(v network.VariableID, set symbolic.ColoredVertexSet) symbolic.ColoredVertexSet {
		entered := r.cfg.Graph.VarCanPreOut(v, set)
		if sub != nil {
			entered = entered.Minus(r.cfg.Graph.VarCanPreOut(v, *sub))
		}
		return set.Minus(entered)
	})
}

// run applies update to the result, one variable at a time in reverse order,
// and restarts the scan every time the result changes.
func (r *Reachability) run(target string, initial symbolic.ColoredVertexSet, verb string, update StepFunc) (symbolic.ColoredVertexSet, error) {
	cfg := r.cfg
	cfg.StartTimer()
	entry := cfg.Log(target)
	entry.Infof("Started with %s initial states.", initial.ExactCardinality())

	if cfg.Restriction != nil && !initial.IsSubset(*cfg.Restriction) {
		entry.Info("Initial set is not a subset of the subgraph.")
		return initial, algo.Fail(algo.InvalidSubgraph, nil)
	}

	vars := cfg.SortedVariables()
	result := initial
	steps := 0
	for changed := true; changed; {
		changed = false
		for k := len(vars) - 1; k >= 0; k-- {
			if err := cfg.Check(func() algo.Partial { return result }); err != nil {
				return result, err
			}
			next := update(vars[k], result)
			if next.Equal(result) {
				continue
			}
			result = next
			steps++
			algo.DebugWithLimit(entry, result.SymbolicSize(), "%s result to %g[bdd_nodes:%d].",
				verb, result.ApproxCardinality(), result.SymbolicSize())
			if result.SymbolicSize() > cfg.BddSizeLimit {
				entry.Info("Exceeded BDD size limit.")
				return result, algo.Fail(algo.BddSizeLimitExceeded, result)
			}
			if steps > cfg.StepsLimit {
				entry.Info("Exceeded step limit.")
				return result, algo.Fail(algo.StepsLimitExceeded, result)
			}
			changed = true
			break
		}
	}

	entry.Infof("Done. Result: %s states.", result.ExactCardinality())
	return result, nil
}
