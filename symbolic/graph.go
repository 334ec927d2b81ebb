// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package symbolic

import (
	"github.com/pkg/errors"

	"github.com/dalzilio/pbn/bdd"
	"github.com/dalzilio/pbn/network"
)

// AsyncGraph is the asynchronous transition graph of a partially specified
// network: in a state s and for a color c, variable v can flip when its value
// differs from the value of its update function (for c) in s. Every transition
// flips exactly one variable.
type AsyncGraph struct {
	ctx        *Context
	unitColors bdd.Node
	canFlip    []bdd.Node
}

// NewAsyncGraph builds the transition graph of bn. The unit color set is the
// set of parameter valuations compatible with the regulatory graph; we return
// an error when it is empty.
func NewAsyncGraph(bn *network.BooleanNetwork, options ...bdd.Option) (*AsyncGraph, error) {
	ctx, err := NewContext(bn, options...)
	if err != nil {
		return nil, err
	}
	return NewAsyncGraphWithContext(ctx)
}

// NewAsyncGraphWithContext builds the transition graph of the network encoded
// by ctx.
func NewAsyncGraphWithContext(ctx *Context) (*AsyncGraph, error) {
	g := &AsyncGraph{ctx: ctx}
	unit, err := ctx.unitColors()
	if err != nil {
		return nil, err
	}
	g.unitColors = unit
	b := ctx.bdd
	for v, sv := range ctx.stateVars {
		// can_flip = unit & (x_v xor F_v)
		flip := ctx.must(b.Xor(b.Ithvar(sv), ctx.updates[v]))
		g.canFlip = append(g.canFlip, ctx.must(b.Apply(flip, unit, bdd.OPand)))
	}
	return g, nil
}

// Context returns the symbolic context of the graph.
func (g *AsyncGraph) Context() *Context { return g.ctx }

// Network returns the network of the graph.
func (g *AsyncGraph) Network() *network.BooleanNetwork { return g.ctx.network }

// Variables returns the network variables, in increasing order.
func (g *AsyncGraph) Variables() []network.VariableID { return g.ctx.network.Variables() }

// NumVars returns the number of network variables.
func (g *AsyncGraph) NumVars() int { return g.ctx.network.NumVars() }

// UnitColoredVertices returns all the states for all the valid colors.
func (g *AsyncGraph) UnitColoredVertices() ColoredVertexSet {
	return ColoredVertexSet{Bdd{g.ctx, g.unitColors}}
}

// EmptyColoredVertices returns the empty set of colored vertices.
func (g *AsyncGraph) EmptyColoredVertices() ColoredVertexSet {
	return ColoredVertexSet{g.ctx.MkConstant(false)}
}

// UnitColors returns all the valid colors.
func (g *AsyncGraph) UnitColors() ColorSet {
	return ColorSet{Bdd{g.ctx, g.unitColors}}
}

// EmptyColors returns the empty set of colors.
func (g *AsyncGraph) EmptyColors() ColorSet {
	return ColorSet{g.ctx.MkConstant(false)}
}

// UnitVertices returns all the states.
func (g *AsyncGraph) UnitVertices() VertexSet {
	return VertexSet{g.ctx.MkConstant(true)}
}

// MkSubspace returns the colored vertices (for all valid colors) where the
// given variables have the given values.
func (g *AsyncGraph) MkSubspace(values map[network.VariableID]bool) ColoredVertexSet {
	res := g.ctx.wrap(g.unitColors)
	for v, value := range values {
		res = res.And(g.ctx.MkStateVariableIs(v, value))
	}
	return ColoredVertexSet{res}
}

// MkVertex returns the colored vertices of the state given by the values of all
// the network variables.
func (g *AsyncGraph) MkVertex(state []bool) ColoredVertexSet {
	values := make(map[network.VariableID]bool, len(state))
	for k, value := range state {
		values[network.VariableID(k)] = value
	}
	return g.MkSubspace(values)
}

// flip exchanges the value of state variable v in every element of set, that
// is (∃x.(set & x)) & !x | (∃x.(set & !x)) & x.
func (g *AsyncGraph) flip(v network.VariableID, set bdd.Node) bdd.Node {
	ctx := g.ctx
	b := ctx.bdd
	sv := ctx.stateVars[v]
	varset := ctx.singletons[v]
	wasTrue := ctx.must(b.AndExist(varset, set, b.Ithvar(sv)))
	wasFalse := ctx.must(b.AndExist(varset, set, b.NIthvar(sv)))
	res := b.Or(
		ctx.must(b.Apply(wasTrue, b.NIthvar(sv), bdd.OPand)),
		ctx.must(b.Apply(wasFalse, b.Ithvar(sv), bdd.OPand)),
	)
	return ctx.must(res)
}

func (g *AsyncGraph) and(l, r bdd.Node) bdd.Node {
	return g.ctx.must(g.ctx.bdd.Apply(l, r, bdd.OPand))
}

func (g *AsyncGraph) minus(l, r bdd.Node) bdd.Node {
	return g.ctx.must(g.ctx.bdd.Apply(l, r, bdd.OPdiff))
}

func (g *AsyncGraph) set(n bdd.Node) ColoredVertexSet {
	return ColoredVertexSet{Bdd{g.ctx, n}}
}

// VarCanPost returns the elements of set that have a successor by flipping v.
func (g *AsyncGraph) VarCanPost(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	return g.set(g.and(set.bdd.node, g.canFlip[v]))
}

// VarPost returns the successors of set by flipping v.
func (g *AsyncGraph) VarPost(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	return g.set(g.flip(v, g.and(set.bdd.node, g.canFlip[v])))
}

// VarPre returns the predecessors of set by flipping v.
func (g *AsyncGraph) VarPre(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	return g.set(g.and(g.flip(v, set.bdd.node), g.canFlip[v]))
}

// VarPostOut returns the successors of set by flipping v that are not in set.
func (g *AsyncGraph) VarPostOut(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	return g.set(g.minus(g.VarPost(v, set).bdd.node, set.bdd.node))
}

// VarPreOut returns the predecessors of set by flipping v that are not in set.
func (g *AsyncGraph) VarPreOut(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	return g.set(g.minus(g.VarPre(v, set).bdd.node, set.bdd.node))
}

// VarCanPostOut returns the elements of set that have a successor outside of
// set by flipping v.
func (g *AsyncGraph) VarCanPostOut(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	outside := g.minus(g.unitColors, set.bdd.node)
	return g.set(g.and(g.and(set.bdd.node, g.canFlip[v]), g.flip(v, outside)))
}

// VarCanPostWithin returns the elements of set that have a successor inside
// set by flipping v.
func (g *AsyncGraph) VarCanPostWithin(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	return g.set(g.and(g.and(set.bdd.node, g.canFlip[v]), g.flip(v, set.bdd.node)))
}

// VarCanPreOut returns the elements of set that have a predecessor outside of
// set by flipping v.
func (g *AsyncGraph) VarCanPreOut(v network.VariableID, set ColoredVertexSet) ColoredVertexSet {
	sources := g.minus(g.canFlip[v], set.bdd.node)
	return g.set(g.and(set.bdd.node, g.flip(v, sources)))
}

// Post returns all the successors of set.
func (g *AsyncGraph) Post(set ColoredVertexSet) ColoredVertexSet {
	res := g.EmptyColoredVertices()
	for _, v := range g.Variables() {
		res = res.Union(g.VarPost(v, set))
	}
	return res
}

// Pre returns all the predecessors of set.
func (g *AsyncGraph) Pre(set ColoredVertexSet) ColoredVertexSet {
	res := g.EmptyColoredVertices()
	for _, v := range g.Variables() {
		res = res.Union(g.VarPre(v, set))
	}
	return res
}

// CanPost returns the elements of set that have at least one successor.
func (g *AsyncGraph) CanPost(set ColoredVertexSet) ColoredVertexSet {
	res := g.EmptyColoredVertices()
	for _, v := range g.Variables() {
		res = res.Union(g.VarCanPost(v, set))
	}
	return res
}

// ************************************************************

// unitColors returns the parameter valuations that satisfy all the regulation
// constraints. Let F be the update function of the target and x the state
// variable of the regulator, with F0 = F[x := 0] and F1 = F[x := 1]. An
// activation requires F0 => F1 in every state, an inhibition requires F1 =>
// F0, and an observable regulation requires F0 != F1 in at least one state.
func (ctx *Context) unitColors() (bdd.Node, error) {
	b := ctx.bdd
	unit := b.True()
	for _, r := range ctx.network.Regulations() {
		fn := ctx.updates[r.Target]
		x := ctx.stateVars[r.Regulator]
		varset := ctx.singletons[r.Regulator]
		f0 := ctx.must(b.AndExist(varset, fn, b.NIthvar(x)))
		f1 := ctx.must(b.AndExist(varset, fn, b.Ithvar(x)))
		switch r.Monotonicity {
		case network.Activation:
			monotone := ctx.must(b.Forall(ctx.must(b.Imp(f0, f1)), ctx.stateSet))
			unit = ctx.must(b.Apply(unit, monotone, bdd.OPand))
		case network.Inhibition:
			monotone := ctx.must(b.Forall(ctx.must(b.Imp(f1, f0)), ctx.stateSet))
			unit = ctx.must(b.Apply(unit, monotone, bdd.OPand))
		}
		if r.Observable {
			observable := ctx.must(b.AppEx(f0, f1, bdd.OPxor, ctx.stateSet))
			unit = ctx.must(b.Apply(unit, observable, bdd.OPand))
		}
	}
	if b.IsFalse(unit) {
		return nil, errors.New("no parameter valuation satisfies the regulatory graph")
	}
	return unit, nil
}
