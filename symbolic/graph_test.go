// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/pbn/network"
)

func mustGraph(t *testing.T, model string) *AsyncGraph {
	t.Helper()
	bn, err := network.ParseAeonString(model)
	require.NoError(t, err)
	g, err := NewAsyncGraph(bn)
	require.NoError(t, err)
	return g
}

const toggle = `
a -> b
b -> a
$a: b
$b: a
`

// the negative loop a' = !b, b' = a is a single asynchronous cycle of length 4
const negativeLoop = `
b -| a
a -> b
$a: !b
$b: a
`

func TestContextEncoding(t *testing.T) {
	bn, err := network.ParseAeonString(`
		a -> b
		b -| b
		c -? b
		$a: f
	`)
	require.NoError(t, err)
	ctx, err := NewContext(bn)
	require.NoError(t, err)
	// 3 state variables, 2^3 table variables for the implicit function of b,
	// 2^0 for the implicit function of c and 2^0 for the parameter f.
	assert.Equal(t, []int{0, 1, 2}, ctx.StateVariables())
	assert.Len(t, ctx.ParameterVariables(), 8+1+1)
	assert.Equal(t, 13, ctx.NumVars())

	a, _ := bn.Find("a")
	// the update function of a is the single table variable of f
	assert.Equal(t, []int{12}, ctx.MkUpdateFunction(a).Support())
}

func TestUnitColors(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		colors float64
	}{
		// implicit function of a single activator: only the identity is
		// monotonous and observable
		{"activation", "a -> b\n$a: a\na -> a", 1},
		// unspecified and non observable: any function of one argument
		{"free", "a -?? b\n$a: a\na -> a", 4},
		// observable but no sign: identity or negation
		{"observable", "a -? b\n$a: a\na -> a", 2},
		// one activator and one inhibitor, non observable: 6 monotone
		// functions of two arguments with a fixed sign for each
		{"two regulators", "a ->? c\nb -|? c\n$a: a\na -> a\n$b: b\nb -> b", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, tt.model)
			assert.Equal(t, tt.colors, g.UnitColors().ApproxCardinality())
		})
	}

	bn, err := network.ParseAeonString("a -> b\n$a: a\na -> a\n$b: !a")
	require.NoError(t, err)
	_, err = NewAsyncGraph(bn)
	assert.Error(t, err, "an inhibition declared as an activation has no valid color")
}

func TestToggleTransitions(t *testing.T) {
	g := mustGraph(t, toggle)
	a, b := network.VariableID(0), network.VariableID(1)
	unit := g.UnitColoredVertices()
	assert.Equal(t, 4.0, unit.ApproxCardinality())
	assert.Equal(t, 1.0, g.UnitColors().ApproxCardinality())

	s01 := g.MkVertex([]bool{false, true})
	s00 := g.MkVertex([]bool{false, false})
	s11 := g.MkVertex([]bool{true, true})
	s10 := g.MkVertex([]bool{true, false})

	// from 01, a can become 1 (a' = b) and b can become 0 (b' = a)
	assert.True(t, g.VarPost(a, s01).Equal(s11))
	assert.True(t, g.VarPost(b, s01).Equal(s00))
	assert.True(t, g.Post(s01).Equal(s00.Union(s11)))
	assert.True(t, g.Pre(s11).Equal(s01.Union(s10)))
	assert.True(t, g.VarPre(a, s11).Equal(s01))

	// 00 and 11 are fixed points
	assert.True(t, g.CanPost(unit).Equal(s01.Union(s10)))
	assert.True(t, g.VarCanPost(a, s00).IsEmpty())

	set := s01.Union(s11)
	assert.True(t, g.VarPostOut(b, set).Equal(s00))
	assert.True(t, g.VarPreOut(a, s11).Equal(s01))
	assert.True(t, g.VarCanPostOut(b, set).Equal(s01))
	assert.True(t, g.VarCanPostWithin(a, set).Equal(s01))
	assert.True(t, g.VarCanPostWithin(b, set).IsEmpty())
	assert.True(t, g.VarCanPreOut(a, s11).Equal(s11))
	assert.True(t, g.VarCanPreOut(a, set).IsEmpty())
	assert.True(t, g.VarCanPreOut(b, s00).Equal(s00))
}

func TestNegativeLoopCycle(t *testing.T) {
	g := mustGraph(t, negativeLoop)
	state := g.MkVertex([]bool{false, false})
	visited := g.EmptyColoredVertices()
	for i := 0; i < 4; i++ {
		visited = visited.Union(state)
		next := g.Post(state)
		require.Equal(t, 1.0, next.ApproxCardinality(), "every state has exactly one successor")
		state = next
	}
	assert.True(t, state.Equal(g.MkVertex([]bool{false, false})))
	assert.True(t, visited.Equal(g.UnitColoredVertices()))
}

func TestSets(t *testing.T) {
	g := mustGraph(t, "a -?? b\n$a: a\na -> a")
	unit := g.UnitColoredVertices()
	assert.Equal(t, 4.0, g.UnitColors().ApproxCardinality())
	assert.Equal(t, 16.0, unit.ApproxCardinality())
	assert.Equal(t, 4.0, unit.Vertices().ApproxCardinality())
	assert.True(t, unit.Colors().Equal(g.UnitColors()))

	s := g.MkSubspace(map[network.VariableID]bool{0: true})
	assert.Equal(t, 8.0, s.ApproxCardinality())
	assert.Equal(t, 2.0, s.Vertices().ApproxCardinality())
	assert.True(t, s.IsSubset(unit))
	assert.False(t, unit.IsSubset(s))
	assert.True(t, unit.Minus(s).Union(s).Equal(unit))
	assert.True(t, unit.Minus(s).Intersect(s).IsEmpty())
	assert.True(t, unit.MinusColors(g.UnitColors()).IsEmpty())
	assert.True(t, unit.IntersectVertices(s.Vertices()).Equal(s))
	assert.True(t, s.Copy(unit.AsBdd()).Equal(unit))

	picked := unit.PickVertex()
	assert.Equal(t, 1.0, picked.Vertices().ApproxCardinality())
	assert.Equal(t, 4.0, picked.ApproxCardinality())
	assert.True(t, picked.Colors().Equal(g.UnitColors()))
	assert.True(t, picked.IsSubset(g.MkVertex([]bool{false, false})))

	count := 0
	require.NoError(t, s.Vertices().Each(func(state []bool) error {
		assert.True(t, state[0])
		count++
		return nil
	}))
	assert.Equal(t, 2, count)
	assert.Contains(t, s.String(), "cardinality = 8")
}
