// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package reach

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

const toggle = "a -> b\nb -> a\n$a: b\n$b: a"

// single asynchronous cycle 00 -> 10 -> 11 -> 01 -> 00
const cycle = "b -| a\na -> b\n$a: !b\n$b: a"

func mustGraph(t *testing.T, model string) *symbolic.AsyncGraph {
	t.Helper()
	bn, err := network.ParseAeonString(model)
	require.NoError(t, err)
	g, err := symbolic.NewAsyncGraph(bn)
	require.NoError(t, err)
	return g
}

func quiet() algo.Option {
	logger, _ := test.NewNullLogger()
	return algo.Logger(logger)
}

// closure computes the closure of set by image, one breadth first layer at
// a time.
func closure(set symbolic.ColoredVertexSet, image func(symbolic.ColoredVertexSet) symbolic.ColoredVertexSet) symbolic.ColoredVertexSet {
	for {
		next := set.Union(image(set))
		if next.Equal(set) {
			return set
		}
		set = next
	}
}

func TestForwardBackward(t *testing.T) {
	g := mustGraph(t, toggle)
	unit := g.UnitColoredVertices()
	vars := g.Variables()
	s00 := g.MkVertex([]bool{false, false})
	s01 := g.MkVertex([]bool{false, true})
	s10 := g.MkVertex([]bool{true, false})
	s11 := g.MkVertex([]bool{true, true})

	fwd, err := Forward(g, s01, unit, vars, algo.Never)
	require.NoError(t, err)
	assert.True(t, fwd.Equal(s01.Union(s00).Union(s11)))
	assert.True(t, fwd.Equal(closure(s01, g.Post)))

	again, err := Forward(g, fwd, unit, vars, algo.Never)
	require.NoError(t, err)
	assert.True(t, again.Equal(fwd), "forward reachability is idempotent")

	bwd, err := Backward(g, s11, unit, vars, algo.Never)
	require.NoError(t, err)
	assert.True(t, bwd.Equal(s11.Union(s01).Union(s10)))

	bounded, err := Forward(g, s01, s01.Union(s11), vars, algo.Never)
	require.NoError(t, err)
	assert.True(t, bounded.Equal(s01.Union(s11)))

	// only the transitions of b
	onlyB, err := Forward(g, s01, unit, []network.VariableID{1}, algo.Never)
	require.NoError(t, err)
	assert.True(t, onlyB.Equal(s01.Union(s00)))

	set, done := Step(s01, unit, nil, g.VarPost)
	assert.True(t, done)
	assert.True(t, set.Equal(s01))

	a := algo.NewAtomic()
	a.Cancel()
	partial, err := Forward(g, s01, unit, vars, a)
	require.Error(t, err)
	assert.True(t, algo.IsCancelled(err))
	p, ok := algo.PartialOf(err)
	require.True(t, ok)
	assert.Equal(t, 1.0, p.ApproxCardinality())
	assert.True(t, partial.Equal(s01))
}

func TestForwardParametrised(t *testing.T) {
	// b follows an unknown function of a, a is constant
	g := mustGraph(t, "a -?? b\n$a: a\na -> a")
	unit := g.UnitColoredVertices()
	for _, state := range [][]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		s := g.MkVertex(state)
		fwd, err := Forward(g, s, unit, g.Variables(), algo.Never)
		require.NoError(t, err)
		assert.True(t, fwd.Equal(closure(s, g.Post)))
		bwd, err := Backward(g, s, unit, g.Variables(), algo.Never)
		require.NoError(t, err)
		assert.True(t, bwd.Equal(closure(s, g.Pre)))
	}
}

func TestClosedSets(t *testing.T) {
	g := mustGraph(t, toggle)
	unit := g.UnitColoredVertices()
	s01 := g.MkVertex([]bool{false, true})
	s10 := g.MkVertex([]bool{true, false})
	s11 := g.MkVertex([]bool{true, true})
	s00 := g.MkVertex([]bool{false, false})

	r := New(g, quiet())
	res, err := r.ForwardClosedSuperset(s01)
	require.NoError(t, err)
	assert.True(t, res.Equal(s01.Union(s00).Union(s11)))

	res, err = r.BackwardClosedSuperset(s11)
	require.NoError(t, err)
	assert.True(t, res.Equal(s11.Union(s01).Union(s10)))

	res, err = r.ForwardClosedSubset(s01.Union(s11))
	require.NoError(t, err)
	assert.True(t, res.Equal(s11))

	res, err = r.BackwardClosedSubset(s01.Union(s11))
	require.NoError(t, err)
	assert.True(t, res.Equal(s01))

	res, err = r.ForwardClosedSubset(unit)
	require.NoError(t, err)
	assert.True(t, res.Equal(unit))

	// inside the subgraph {01, 11}, 01 cannot escape to 00
	sub := s01.Union(s11)
	r = New(g, quiet(), algo.Restriction(sub))
	res, err = r.ForwardClosedSuperset(s01)
	require.NoError(t, err)
	assert.True(t, res.Equal(sub))
	res, err = r.ForwardClosedSubset(sub)
	require.NoError(t, err)
	assert.True(t, res.Equal(sub))

	_, err = r.ForwardClosedSuperset(s00)
	assert.Equal(t, algo.InvalidSubgraph, algo.KindOf(err))
	_, ok := algo.PartialOf(err)
	assert.False(t, ok)
}

func TestLimits(t *testing.T) {
	g := mustGraph(t, cycle)
	s00 := g.MkVertex([]bool{false, false})

	res, err := New(g, quiet()).ForwardClosedSuperset(s00)
	require.NoError(t, err)
	assert.True(t, res.Equal(g.UnitColoredVertices()))

	_, err = New(g, quiet(), algo.StepsLimit(1)).ForwardClosedSuperset(s00)
	require.Error(t, err)
	assert.Equal(t, algo.StepsLimitExceeded, algo.KindOf(err))
	p, ok := algo.PartialOf(err)
	require.True(t, ok)
	assert.Equal(t, 3.0, p.ApproxCardinality())

	_, err = New(g, quiet(), algo.BddSizeLimit(1)).ForwardClosedSuperset(s00)
	assert.Equal(t, algo.BddSizeLimitExceeded, algo.KindOf(err))

	a := algo.NewAtomic()
	a.Cancel()
	res, err = New(g, quiet(), algo.Cancellation(a)).BackwardClosedSubset(s00)
	assert.True(t, algo.IsCancelled(err))
	assert.True(t, res.Equal(s00))
}
