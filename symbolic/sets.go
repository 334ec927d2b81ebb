// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package symbolic

import (
	"fmt"
	"math/big"

	"github.com/dalzilio/pbn/bdd"
)

// ColoredVertexSet is a set of pairs (state, color). Its BDD ranges over both
// state and parameter variables.
type ColoredVertexSet struct {
	bdd Bdd
}

// VertexSet is a set of states. Its BDD only depends on state variables.
type VertexSet struct {
	bdd Bdd
}

// ColorSet is a set of parameter valuations. Its BDD only depends on parameter
// variables.
type ColorSet struct {
	bdd Bdd
}

// ************************************************************
// ColoredVertexSet

// NewColoredVertexSet interprets b as a set of colored vertices.
func NewColoredVertexSet(b Bdd) ColoredVertexSet {
	return ColoredVertexSet{bdd: b}
}

// Copy returns a set of the same type as s with the given BDD.
func (s ColoredVertexSet) Copy(b Bdd) ColoredVertexSet {
	return ColoredVertexSet{bdd: b}
}

// AsBdd returns the BDD of s.
func (s ColoredVertexSet) AsBdd() Bdd { return s.bdd }

// Context returns the context of s.
func (s ColoredVertexSet) Context() *Context { return s.bdd.ctx }

func (s ColoredVertexSet) Intersect(other ColoredVertexSet) ColoredVertexSet {
	return ColoredVertexSet{s.bdd.And(other.bdd)}
}

func (s ColoredVertexSet) Union(other ColoredVertexSet) ColoredVertexSet {
	return ColoredVertexSet{s.bdd.Or(other.bdd)}
}

func (s ColoredVertexSet) Minus(other ColoredVertexSet) ColoredVertexSet {
	return ColoredVertexSet{s.bdd.Minus(other.bdd)}
}

func (s ColoredVertexSet) IsSubset(other ColoredVertexSet) bool { return s.bdd.IsSubset(other.bdd) }
func (s ColoredVertexSet) IsEmpty() bool                        { return s.bdd.IsFalse() }
func (s ColoredVertexSet) Equal(other ColoredVertexSet) bool    { return s.bdd.Equal(other.bdd) }
func (s ColoredVertexSet) SymbolicSize() int                    { return s.bdd.SymbolicSize() }

// ExactCardinality returns the number of (state, color) pairs in s.
func (s ColoredVertexSet) ExactCardinality() *big.Int {
	return s.bdd.ExactCardinality()
}

// ApproxCardinality is a floating point version of ExactCardinality.
func (s ColoredVertexSet) ApproxCardinality() float64 {
	return toFloat(s.ExactCardinality())
}

// Colors returns the colors that appear in s with at least one vertex.
func (s ColoredVertexSet) Colors() ColorSet {
	ctx := s.bdd.ctx
	return ColorSet{ctx.wrap(ctx.bdd.Exist(s.bdd.node, ctx.stateSet))}
}

// Vertices returns the vertices that appear in s with at least one color.
func (s ColoredVertexSet) Vertices() VertexSet {
	ctx := s.bdd.ctx
	return VertexSet{ctx.wrap(ctx.bdd.Exist(s.bdd.node, ctx.paramSet))}
}

// MinusColors removes from s all the pairs whose color is in colors.
func (s ColoredVertexSet) MinusColors(colors ColorSet) ColoredVertexSet {
	return ColoredVertexSet{s.bdd.Minus(colors.bdd)}
}

// IntersectColors keeps only the pairs of s whose color is in colors.
func (s ColoredVertexSet) IntersectColors(colors ColorSet) ColoredVertexSet {
	return ColoredVertexSet{s.bdd.And(colors.bdd)}
}

// IntersectVertices keeps only the pairs of s whose vertex is in vertices.
func (s ColoredVertexSet) IntersectVertices(vertices VertexSet) ColoredVertexSet {
	return ColoredVertexSet{s.bdd.And(vertices.bdd)}
}

// PickVertex returns a subset of s with exactly one vertex for every color of
// s. For each color we keep the smallest vertex, in the lexicographic order of
// state variables where false comes first.
func (s ColoredVertexSet) PickVertex() ColoredVertexSet {
	ctx := s.bdd.ctx
	b := ctx.bdd
	res := s.bdd.node
	n := len(ctx.stateVars)
	for k, v := range ctx.stateVars {
		lowPart := ctx.must(b.Apply(res, b.NIthvar(v), bdd.OPand))
		// the colors (and prefixes) that have some vertex with v == false
		canBeFalse := ctx.must(b.Exist(lowPart, ctx.must(b.Makeset(ctx.stateVars[k:n]))))
		highPart := ctx.must(b.Apply(ctx.must(b.Apply(res, b.Ithvar(v), bdd.OPand)), canBeFalse, bdd.OPdiff))
		res = ctx.must(b.Apply(lowPart, highPart, bdd.OPor))
	}
	return ColoredVertexSet{Bdd{ctx, res}}
}

func (s ColoredVertexSet) String() string {
	return fmt.Sprintf("ColoredVertexSet(cardinality = %g, symbolic size = %d)", s.ApproxCardinality(), s.SymbolicSize())
}

// ************************************************************
// VertexSet

// NewVertexSet interprets b as a set of vertices.
func NewVertexSet(b Bdd) VertexSet {
	return VertexSet{bdd: b}
}

// Copy returns a set of the same type as s with the given BDD.
func (s VertexSet) Copy(b Bdd) VertexSet {
	return VertexSet{bdd: b}
}

// AsBdd returns the BDD of s.
func (s VertexSet) AsBdd() Bdd { return s.bdd }

func (s VertexSet) Intersect(other VertexSet) VertexSet {
	return VertexSet{s.bdd.And(other.bdd)}
}

func (s VertexSet) Union(other VertexSet) VertexSet {
	return VertexSet{s.bdd.Or(other.bdd)}
}

func (s VertexSet) Minus(other VertexSet) VertexSet {
	return VertexSet{s.bdd.Minus(other.bdd)}
}

func (s VertexSet) IsSubset(other VertexSet) bool { return s.bdd.IsSubset(other.bdd) }
func (s VertexSet) IsEmpty() bool                 { return s.bdd.IsFalse() }
func (s VertexSet) Equal(other VertexSet) bool    { return s.bdd.Equal(other.bdd) }
func (s VertexSet) SymbolicSize() int             { return s.bdd.SymbolicSize() }

// ExactCardinality returns the number of vertices in s.
func (s VertexSet) ExactCardinality() *big.Int {
	res := s.bdd.ExactCardinality()
	return res.Rsh(res, uint(len(s.bdd.ctx.paramVars)))
}

// ApproxCardinality is a floating point version of ExactCardinality.
func (s VertexSet) ApproxCardinality() float64 {
	return toFloat(s.ExactCardinality())
}

// Each calls f on every vertex of s, given as the values of the network
// variables. The slice is reused between calls. We stop and return the error
// of f, if any.
func (s VertexSet) Each(f func(state []bool) error) error {
	ctx := s.bdd.ctx
	state := make([]bool, len(ctx.stateVars))
	var expand func(prof []int, k int) error
	expand = func(prof []int, k int) error {
		if k == len(ctx.stateVars) {
			return f(state)
		}
		switch prof[ctx.stateVars[k]] {
		case 0:
			state[k] = false
			return expand(prof, k+1)
		case 1:
			state[k] = true
			return expand(prof, k+1)
		}
		state[k] = false
		if err := expand(prof, k+1); err != nil {
			return err
		}
		state[k] = true
		return expand(prof, k+1)
	}
	return ctx.bdd.Allsat(s.bdd.node, func(prof []int) error {
		return expand(prof, 0)
	})
}

func (s VertexSet) String() string {
	return fmt.Sprintf("VertexSet(cardinality = %g, symbolic size = %d)", s.ApproxCardinality(), s.SymbolicSize())
}

// ************************************************************
// ColorSet

// NewColorSet interprets b as a set of colors.
func NewColorSet(b Bdd) ColorSet {
	return ColorSet{bdd: b}
}

// Copy returns a set of the same type as s with the given BDD.
func (s ColorSet) Copy(b Bdd) ColorSet {
	return ColorSet{bdd: b}
}

// AsBdd returns the BDD of s.
func (s ColorSet) AsBdd() Bdd { return s.bdd }

func (s ColorSet) Intersect(other ColorSet) ColorSet {
	return ColorSet{s.bdd.And(other.bdd)}
}

func (s ColorSet) Union(other ColorSet) ColorSet {
	return ColorSet{s.bdd.Or(other.bdd)}
}

func (s ColorSet) Minus(other ColorSet) ColorSet {
	return ColorSet{s.bdd.Minus(other.bdd)}
}

func (s ColorSet) IsSubset(other ColorSet) bool { return s.bdd.IsSubset(other.bdd) }
func (s ColorSet) IsEmpty() bool                { return s.bdd.IsFalse() }
func (s ColorSet) Equal(other ColorSet) bool    { return s.bdd.Equal(other.bdd) }
func (s ColorSet) SymbolicSize() int            { return s.bdd.SymbolicSize() }

// ExactCardinality returns the number of colors in s.
func (s ColorSet) ExactCardinality() *big.Int {
	res := s.bdd.ExactCardinality()
	return res.Rsh(res, uint(len(s.bdd.ctx.stateVars)))
}

// ApproxCardinality is a floating point version of ExactCardinality.
func (s ColorSet) ApproxCardinality() float64 {
	return toFloat(s.ExactCardinality())
}

func (s ColorSet) String() string {
	return fmt.Sprintf("ColorSet(cardinality = %g, symbolic size = %d)", s.ApproxCardinality(), s.SymbolicSize())
}
