// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fixedpoints

import (
	"math"
	"math/big"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

const (
	identity = "a -> a\n$a: a"
	toggle   = "a -> b\nb -> a\n$a: b\n$b: a"
	// b is an unknown function of a, a is constant
	unknown = "a -?? b\n$a: a\na -> a"
	// a, c and d are implicit
	mixed = `
a -> b
d -| b
b -| c
c -> a
a -?? c
d -? d
d -?? a
$b: a & !d
`
)

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

// stable is the reference set of fixed points: states with no successor.
func stable(g *symbolic.AsyncGraph) symbolic.ColoredVertexSet {
	unit := g.UnitColoredVertices()
	return unit.Minus(g.CanPost(unit))
}

func TestIdentity(t *testing.T) {
	g := mustGraph(t, identity)
	f := New(g, quiet())

	res, err := f.Symbolic()
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.ApproxCardinality())

	naive, err := f.NaiveSymbolic()
	require.NoError(t, err)
	assert.True(t, naive.Equal(res))

	vertices, err := f.SymbolicVertices()
	require.NoError(t, err)
	assert.Equal(t, 2.0, vertices.ApproxCardinality())

	colors, err := f.SymbolicColors()
	require.NoError(t, err)
	assert.Equal(t, 1.0, colors.ApproxCardinality())
}

func TestToggle(t *testing.T) {
	g := mustGraph(t, toggle)
	res, err := New(g, quiet()).Symbolic()
	require.NoError(t, err)
	expected := g.MkVertex([]bool{false, false}).Union(g.MkVertex([]bool{true, true}))
	assert.True(t, res.Equal(expected))

	// restricted to a = 1
	restriction := g.MkSubspace(map[network.VariableID]bool{0: true})
	f := New(g, quiet(), algo.Restriction(restriction))
	res, err = f.Symbolic()
	require.NoError(t, err)
	assert.True(t, res.Equal(g.MkVertex([]bool{true, true})))
	naive, err := f.NaiveSymbolic()
	require.NoError(t, err)
	assert.True(t, naive.Equal(res))
	colors, err := f.SymbolicColors()
	require.NoError(t, err)
	assert.True(t, colors.Equal(g.UnitColors()))
}

func TestCrossCheck(t *testing.T) {
	for _, model := range []string{identity, toggle, unknown, mixed} {
		g := mustGraph(t, model)
		f := New(g, quiet())

		res, err := f.Symbolic()
		require.NoError(t, err)
		assert.True(t, res.Equal(stable(g)), model)

		naive, err := f.NaiveSymbolic()
		require.NoError(t, err)
		assert.True(t, naive.Equal(res), model)

		vertices, err := f.SymbolicVertices()
		require.NoError(t, err)
		assert.True(t, vertices.Equal(res.Vertices()), model)

		colors, err := f.SymbolicColors()
		require.NoError(t, err)
		assert.True(t, colors.Equal(res.Colors()), model)
	}
}

func TestUnknownFunction(t *testing.T) {
	g := mustGraph(t, unknown)
	f := New(g, quiet())
	res, err := f.Symbolic()
	require.NoError(t, err)
	// a is constant and b = f(a): two fixed points for each of the 4 colors
	assert.Equal(t, 8.0, res.ApproxCardinality())
	vertices, err := f.SymbolicVertices()
	require.NoError(t, err)
	assert.Equal(t, 4.0, vertices.ApproxCardinality())
	colors, err := f.SymbolicColors()
	require.NoError(t, err)
	assert.Equal(t, 4.0, colors.ApproxCardinality())
}

func TestBddSizeLimit(t *testing.T) {
	g := mustGraph(t, toggle)
	f := New(g, quiet(), algo.BddSizeLimit(1))

	_, err := f.Symbolic()
	require.Error(t, err)
	assert.Equal(t, algo.BddSizeLimitExceeded, algo.KindOf(err))
	p, ok := algo.PartialOf(err)
	require.True(t, ok)
	assert.Equal(t, 4.0, p.ApproxCardinality())

	_, err = f.NaiveSymbolic()
	assert.Equal(t, algo.BddSizeLimitExceeded, algo.KindOf(err))
	_, err = f.SymbolicVertices()
	assert.Equal(t, algo.BddSizeLimitExceeded, algo.KindOf(err))
	_, err = f.SymbolicColors()
	assert.Equal(t, algo.BddSizeLimitExceeded, algo.KindOf(err))
}

func TestCancelled(t *testing.T) {
	g := mustGraph(t, mixed)
	a := algo.NewAtomic()
	a.Cancel()
	restriction := g.MkSubspace(map[network.VariableID]bool{1: true})
	f := New(g, quiet(), algo.Cancellation(a), algo.Restriction(restriction))

	_, err := f.Symbolic()
	require.True(t, algo.IsCancelled(err))
	p, ok := algo.PartialOf(err)
	require.True(t, ok)
	assert.Equal(t, restriction.ApproxCardinality(), p.ApproxCardinality())

	_, err = f.NaiveSymbolic()
	assert.True(t, algo.IsCancelled(err))
	_, err = f.SymbolicVertices()
	assert.True(t, algo.IsCancelled(err))
	_, err = f.SymbolicColors()
	assert.True(t, algo.IsCancelled(err))
}

func constraints(g *symbolic.AsyncGraph) []symbolic.Bdd {
	unit := g.UnitColoredVertices()
	res := []symbolic.Bdd{}
	for _, v := range g.Variables() {
		res = append(res, unit.Minus(g.VarCanPost(v, unit)).AsBdd())
	}
	return res
}

func TestMergeSingle(t *testing.T) {
	g := mustGraph(t, mixed)
	f := New(g, quiet())
	for _, c := range constraints(g) {
		res, err := f.Merge([]symbolic.Bdd{c}, nil, "test")
		require.NoError(t, err)
		assert.True(t, res.Equal(c))
	}
}

func TestMergeCommutative(t *testing.T) {
	g := mustGraph(t, mixed)
	f := New(g, quiet())
	cs := constraints(g)
	require.Len(t, cs, 4)

	expected := g.Context().MkConstant(true)
	for _, c := range cs {
		expected = expected.And(c)
	}
	params := g.Context().ParameterVariables()
	states := g.Context().StateVariables()

	permutations := [][]int{
		{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1},
	}
	for _, perm := range permutations {
		toMerge := make([]symbolic.Bdd, len(perm))
		for k, i := range perm {
			toMerge[k] = cs[i]
		}
		res, err := f.Merge(toMerge, nil, "test")
		require.NoError(t, err)
		assert.True(t, res.Equal(expected), "%v", perm)

		res, err = f.Merge(toMerge, params, "test")
		require.NoError(t, err)
		assert.True(t, res.Equal(expected.Exist(params...)), "%v", perm)
		for _, v := range res.Support() {
			assert.NotContains(t, params, v)
		}

		res, err = f.Merge(toMerge, states, "test")
		require.NoError(t, err)
		assert.True(t, res.Equal(expected.Exist(states...)), "%v", perm)
	}
}

func TestMergeEmpty(t *testing.T) {
	g := mustGraph(t, unknown)
	f := New(g, quiet())
	x := g.Context().MkStateVariableIs(0, true)
	res, err := f.Merge([]symbolic.Bdd{x, x.Not(), g.Context().MkStateVariableIs(1, true)}, nil, "test")
	require.NoError(t, err)
	assert.True(t, res.IsFalse())
}

func TestMergeLimits(t *testing.T) {
	g := mustGraph(t, mixed)
	cs := constraints(g)

	_, err := New(g, quiet(), algo.BddSizeLimit(2)).Merge(cs, nil, "test")
	require.Error(t, err)
	assert.Equal(t, algo.BddSizeLimitExceeded, algo.KindOf(err))

	a := algo.NewAtomic()
	a.Cancel()
	res, err := New(g, quiet(), algo.Cancellation(a)).Merge(cs, nil, "test")
	require.True(t, algo.IsCancelled(err))
	assert.True(t, res.IsTrue(), "cancelled before the first merge")
}

// mergeAll commits the pending constraints of s one at a time, largest first,
// and returns the cardinality of the result after each commit.
func mergeAll(t *testing.T, s *mergeState) []*big.Int {
	t.Helper()
	res := []*big.Int{s.result.ExactCardinality()}
	for len(s.pending) > 0 {
		id := s.candidates()[0]
		merged, ok := s.pending[id].AndWithLimit(math.MaxInt, s.result)
		require.True(t, ok)
		s.commit(id, merged)
		res = append(res, s.result.ExactCardinality())
	}
	return res
}

func TestMergeShrinks(t *testing.T) {
	g := mustGraph(t, mixed)
	s, err := newMergeState(algo.New(g, quiet()), constraints(g), nil)
	require.NoError(t, err)
	sizes := mergeAll(t, s)
	require.Len(t, sizes, 5)
	for k := 1; k < len(sizes); k++ {
		assert.True(t, sizes[k].Cmp(sizes[k-1]) <= 0, "commit %d: %s > %s", k, sizes[k], sizes[k-1])
	}
	assert.Equal(t, stable(g).ExactCardinality(), sizes[4])

	g = mustGraph(t, unknown)
	x := g.Context().MkStateVariableIs(0, true)
	toMerge := []symbolic.Bdd{x, x.Not(), g.Context().MkStateVariableIs(1, true)}
	s, err = newMergeState(algo.New(g, quiet()), toMerge, nil)
	require.NoError(t, err)
	sizes = mergeAll(t, s)
	empty := false
	for k, size := range sizes {
		if empty {
			assert.Zero(t, size.Sign(), "commit %d", k)
		}
		empty = size.Sign() == 0
	}
	assert.True(t, empty)
}

func TestMergeStateCancelled(t *testing.T) {
	g := mustGraph(t, mixed)
	a := algo.NewAtomic()
	a.Cancel()
	_, err := newMergeState(algo.New(g, quiet(), algo.Cancellation(a)), constraints(g), nil)
	require.True(t, algo.IsCancelled(err))
	p, ok := algo.PartialOf(err)
	require.True(t, ok)
	assert.Equal(t, math.Pow(2, float64(g.Context().NumVars())), p.ApproxCardinality())
}
