// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package symbolic

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dalzilio/pbn/bdd"
)

// Bdd is a raw BDD of a context, with no interpretation attached. It is the
// common representation behind all the typed sets.
type Bdd struct {
	ctx  *Context
	node bdd.Node
}

func (ctx *Context) wrap(n bdd.Node) Bdd {
	return Bdd{ctx: ctx, node: ctx.must(n)}
}

// Context returns the context of b.
func (b Bdd) Context() *Context {
	return b.ctx
}

// Node returns the node of b in the BDD manager of its context.
func (b Bdd) Node() bdd.Node {
	return b.node
}

// And returns the conjunction of b and other.
func (b Bdd) And(other Bdd) Bdd {
	return b.ctx.wrap(b.ctx.bdd.Apply(b.node, other.node, bdd.OPand))
}

// Or returns the disjunction of b and other.
func (b Bdd) Or(other Bdd) Bdd {
	return b.ctx.wrap(b.ctx.bdd.Apply(b.node, other.node, bdd.OPor))
}

// Minus returns b & !other.
func (b Bdd) Minus(other Bdd) Bdd {
	return b.ctx.wrap(b.ctx.bdd.Apply(b.node, other.node, bdd.OPdiff))
}

// Not returns the negation of b.
func (b Bdd) Not() Bdd {
	return b.ctx.wrap(b.ctx.bdd.Not(b.node))
}

// AndWithLimit returns the conjunction of b and other, unless the result has
// more than limit nodes, in which case the boolean is false.
func (b Bdd) AndWithLimit(limit int, other Bdd) (Bdd, bool) {
	res, ok := b.ctx.bdd.ApplyWithLimit(limit, b.node, other.node, bdd.OPand)
	if !ok {
		if b.ctx.bdd.Errored() {
			panic(errors.Wrap(b.ctx.bdd.Err(), "symbolic operation failed"))
		}
		return Bdd{}, false
	}
	return Bdd{ctx: b.ctx, node: res}, true
}

// Exist returns the existential projection of b over the given BDD variables.
func (b Bdd) Exist(vars ...int) Bdd {
	if len(vars) == 0 {
		return b
	}
	return b.ctx.wrap(b.ctx.bdd.Exist(b.node, b.ctx.must(b.ctx.bdd.Makeset(vars))))
}

// Support returns the sorted list of BDD variables b depends on.
func (b Bdd) Support() []int {
	return b.ctx.bdd.SupportVars(b.node)
}

// IsFalse reports whether b is the empty set.
func (b Bdd) IsFalse() bool {
	return b.ctx.bdd.IsFalse(b.node)
}

// IsTrue reports whether b is the full set.
func (b Bdd) IsTrue() bool {
	return b.ctx.bdd.IsTrue(b.node)
}

// Equal reports whether b and other denote the same function.
func (b Bdd) Equal(other Bdd) bool {
	return b.ctx.bdd.Equal(b.node, other.node)
}

// IsSubset reports whether b implies other.
func (b Bdd) IsSubset(other Bdd) bool {
	return b.ctx.bdd.IsSubset(b.node, other.node)
}

// ExactCardinality returns the number of satisfying assignments of b, over all
// the BDD variables of its context.
func (b Bdd) ExactCardinality() *big.Int {
	return b.ctx.bdd.Satcount(b.node)
}

// ApproxCardinality is a floating point version of ExactCardinality.
func (b Bdd) ApproxCardinality() float64 {
	return toFloat(b.ExactCardinality())
}

// SymbolicSize returns the number of nodes of b, terminals included.
func (b Bdd) SymbolicSize() int {
	return b.ctx.bdd.Size(b.node)
}

// Dot writes b to w in the DOT format of GraphViz.
func (b Bdd) Dot(w io.Writer) error {
	return b.ctx.bdd.Dot(w, b.node)
}

func (b Bdd) String() string {
	return fmt.Sprintf("Bdd(cardinality = %g, size = %d)", b.ApproxCardinality(), b.SymbolicSize())
}

func toFloat(n *big.Int) float64 {
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}
