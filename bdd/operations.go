// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"log"
	"sort"
)

// Makeset returns a node corresponding to the conjunction (the cube) of all the
// variable in varset, in their positive form, so that SupportVars(Makeset(a))
// is the sorted set of a. It returns nil and sets the error condition in b
// if one of the variables is outside the scope of the BDD (see documentation
// for function *Ithvar*).
func (b *BDD) Makeset(varset []int) Node {
	levels := append([]int(nil), varset...)
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))
	for _, level := range levels {
		if (level < 0) || (int32(level) >= b.varnum) {
			return b.seterror("unknown variable used (%d) in call to Makeset", level)
		}
	}
	// we build the cube bottom-up, so there is no need for an apply
	b.initref()
	res := 1
	for _, level := range levels {
		if res > 1 && b.level(res) == int32(level) {
			continue
		}
		res = b.pushref(b.makenode(int32(level), 0, res))
	}
	b.initref()
	if b.error != nil {
		return nil
	}
	return b.retnode(res)
}

// Not returns the negation of the expression corresponding to node n. It
// negates a BDD by exchanging all references to the zero-terminal with
// references to the one-terminal and vice versa.
func (b *BDD) Not(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("wrong operand in call to Not")
	}
	b.initref()
	b.pushref(*n)
	res := b.not(*n)
	b.popref(1)
	return b.result(res)
}

// result converts the outcome of a recursive operation into a Node, checking
// first that no error occurred during the computation.
func (b *BDD) result(res int) Node {
	if b.error != nil || res < 0 {
		if b.error == nil {
			b.seterror("unexpected error in BDD operation")
		}
		return nil
	}
	return b.retnode(res)
}

func (b *BDD) not(n int) int {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	if res := b.matchnot(n); res >= 0 {
		return res
	}
	low := b.pushref(b.not(b.low(n)))
	high := b.pushref(b.not(b.high(n)))
	res := b.makenode(b.level(n), low, high)
	b.popref(2)
	return b.setnot(n, res)
}

// Apply performs all of the basic bdd operations with two operands, such as
// AND, OR etc. Left and right are the operand and opr is the requested
// operation and must be one of the following:
//
//	Identifier    Description             Truth table
//
//	OPand         logical and             [0,0,0,1]
//	OPxor         logical xor             [0,1,1,0]
//	OPor          logical or              [0,1,1,1]
//	OPnand        logical not-and         [1,1,1,0]
//	OPnor         logical not-or          [1,0,0,0]
//	OPimp         implication             [1,1,0,1]
//	OPbiimp       equivalence             [1,0,0,1]
//	OPdiff        set difference          [0,0,1,0]
//	OPless        less than               [0,1,0,0]
//	OPinvimp      reverse implication     [1,0,1,1]
func (b *BDD) Apply(left Node, right Node, op Operator) Node {
	if b.checkptr(left) != nil {
		return b.seterror("wrong operand in call to Apply %s(left, ...)", op)
	}
	if b.checkptr(right) != nil {
		return b.seterror("wrong operand in call to Apply %s(..., right)", op)
	}
	if op < OPand || op > OPinvimp {
		return b.seterror("unauthorized operation (%s) in apply", op)
	}
	b.applyop = op
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	res := b.apply(*left, *right)
	b.popref(2)
	return b.result(res)
}

func (b *BDD) apply(left int, right int) int {
	// we check for errors
	if left < 0 || right < 0 {
		if _DEBUG {
			log.Panicf("panic in apply(%d,%d,%s)\n", left, right, b.applyop)
		}
		return -1
	}
	if res := b.applyop.terminal(left, right); res >= 0 {
		return res
	}
	if res := b.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	switch {
	case leftlvl == rightlvl:
		low := b.pushref(b.apply(b.low(left), b.low(right)))
		high := b.pushref(b.apply(b.high(left), b.high(right)))
		res = b.makenode(leftlvl, low, high)
	case leftlvl < rightlvl:
		low := b.pushref(b.apply(b.low(left), right))
		high := b.pushref(b.apply(b.high(left), right))
		res = b.makenode(leftlvl, low, high)
	default:
		low := b.pushref(b.apply(left, b.low(right)))
		high := b.pushref(b.apply(left, b.high(right)))
		res = b.makenode(rightlvl, low, high)
	}
	b.popref(2)
	return b.setapply(left, right, res)
}

// Ite, short for if-then-else operator, computes the BDD for the expression [(f
// /\ g) \/ (not f /\ h)] more efficiently than doing the three operations
// separately.
func (b *BDD) Ite(f, g, h Node) Node {
	if b.checkptr(f) != nil {
		return b.seterror("wrong operand in call to Ite (f)")
	}
	if b.checkptr(g) != nil {
		return b.seterror("wrong operand in call to Ite (g)")
	}
	if b.checkptr(h) != nil {
		return b.seterror("wrong operand in call to Ite (h)")
	}
	b.initref()
	b.pushref(*f)
	b.pushref(*g)
	b.pushref(*h)
	res := b.ite(*f, *g, *h)
	b.popref(3)
	return b.result(res)
}

// itelow returns p if p is strictly higher than q or r, otherwise it returns
// p.low. This is used in function ite to know which node to follow: we always
// follow the smallest(s) nodes.
func (b *BDD) itelow(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.low(n)
}

func (b *BDD) itehigh(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.high(n)
}

// min3 returns the smallest value between p, q and r. This is used in function
// ite to compute the smallest level.
func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r { // p <= q && p <= r
			return p
		}
		return r // r < p <= q
	}
	if q <= r { // q < p && q <= r
		return q
	}
	return r // r < q < p
}

func (b *BDD) ite(f, g, h int) int {
	if f < 0 || g < 0 || h < 0 {
		return -1
	}
	switch {
	case f == 1:
		return g
	case f == 0:
		return h
	case g == h:
		return g
	case (g == 1) && (h == 0):
		return f
	case (g == 0) && (h == 1):
		return b.not(f)
	}
	if res := b.matchite(f, g, h); res >= 0 {
		return res
	}
	p := b.level(f)
	q := b.level(g)
	r := b.level(h)
	low := b.pushref(b.ite(b.itelow(p, q, r, f), b.itelow(q, p, r, g), b.itelow(r, p, q, h)))
	high := b.pushref(b.ite(b.itehigh(p, q, r, f), b.itehigh(q, p, r, g), b.itehigh(r, p, q, h)))
	res := b.makenode(min3(p, q, r), low, high)
	b.popref(2)
	return b.setite(f, g, h, res)
}

// Exist returns the existential quantification of n for the variables in
// varset, where varset is a node built with a method such as Makeset. We return
// nil and set the error flag in b if there is an error.
func (b *BDD) Exist(n, varset Node) Node {
	return b.quantify(n, varset, cacheidEXIST, OPor)
}

// Forall returns the universal quantification of n for the variables in varset,
// where varset is a node built with a method such as Makeset.
func (b *BDD) Forall(n, varset Node) Node {
	return b.quantify(n, varset, cacheidFORALL, OPand)
}

func (b *BDD) quantify(n, varset Node, id int, op Operator) Node {
	if b.checkptr(n) != nil {
		return b.seterror("wrong node in call to quantification")
	}
	if b.checkptr(varset) != nil {
		return b.seterror("wrong varset in call to quantification")
	}
	if *varset < 2 { // we have an empty set or a constant
		return n
	}
	if err := b.quantset2cache(*varset); err != nil {
		return nil
	}
	b.quantid = id
	b.applyop = op
	b.initref()
	b.pushref(*n)
	b.pushref(*varset)
	res := b.quant(*n, *varset)
	b.popref(2)
	return b.result(res)
}

func (b *BDD) quant(n, varset int) int {
	if n < 0 {
		return -1
	}
	if (n < 2) || (b.level(n) > b.quantlast) {
		return n
	}
	if res := b.matchquant(n, varset); res >= 0 {
		return res
	}
	low := b.pushref(b.quant(b.low(n), varset))
	high := b.pushref(b.quant(b.high(n), varset))
	var res int
	if b.quantset[b.level(n)] == b.quantsetID {
		res = b.apply(low, high)
	} else {
		res = b.makenode(b.level(n), low, high)
	}
	b.popref(2)
	return b.setquant(n, varset, res)
}

// AppEx applies the binary operator *op* on the two operands left and right
// then performs an existential quantification over the variables in varset.
// This is done in a bottom up manner such that both the apply and
// quantification is done on the lower nodes before stepping up to the higher
// nodes. This makes AppEx much more efficient than an apply operation followed
// by a quantification. Note that, when *op* is a conjunction, this operation
// returns the relational product of two BDDs.
func (b *BDD) AppEx(left Node, right Node, op Operator, varset Node) Node {
	if op < OPand || op > OPnor {
		return b.seterror("operator %s not supported in call to AppEx", op)
	}
	if b.checkptr(varset) != nil {
		return b.seterror("wrong varset in call to AppEx")
	}
	if *varset < 2 { // we have an empty set
		return b.Apply(left, right, op)
	}
	if b.checkptr(left) != nil {
		return b.seterror("wrong operand in call to AppEx %s(left, ...)", op)
	}
	if b.checkptr(right) != nil {
		return b.seterror("wrong operand in call to AppEx %s(..., right)", op)
	}
	if err := b.quantset2cache(*varset); err != nil {
		return nil
	}
	b.applyop = OPor
	b.appexop = op
	b.appexid = (*varset << 4) | int(op)
	b.quantid = cacheidEXIST
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	b.pushref(*varset)
	res := b.appquant(*left, *right, *varset)
	b.popref(3)
	return b.result(res)
}

func (b *BDD) appquant(left, right, varset int) int {
	if left < 0 || right < 0 {
		return -1
	}
	switch b.appexop {
	case OPand:
		if left == 0 || right == 0 {
			return 0
		}
		if left == right {
			return b.quant(left, varset)
		}
		if left == 1 {
			return b.quant(right, varset)
		}
		if right == 1 {
			return b.quant(left, varset)
		}
	case OPor:
		if left == 1 || right == 1 {
			return 1
		}
		if left == right {
			return b.quant(left, varset)
		}
		if left == 0 {
			return b.quant(right, varset)
		}
		if right == 0 {
			return b.quant(left, varset)
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return b.quant(right, varset)
		}
		if right == 0 {
			return b.quant(left, varset)
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0
		}
	}

	// we deal with the other cases when the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.appexop][left][right]
	}

	// and the case where we have no more variables to quantify
	if (b.level(left) > b.quantlast) && (b.level(right) > b.quantlast) {
		oldop := b.applyop
		b.applyop = b.appexop
		res := b.apply(left, right)
		b.applyop = oldop
		return res
	}

	// next we check if the operation is already in our cache
	if res := b.matchappex(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var low, high int
	var lvl int32
	switch {
	case leftlvl == rightlvl:
		lvl = leftlvl
		low = b.pushref(b.appquant(b.low(left), b.low(right), varset))
		high = b.pushref(b.appquant(b.high(left), b.high(right), varset))
	case leftlvl < rightlvl:
		lvl = leftlvl
		low = b.pushref(b.appquant(b.low(left), right, varset))
		high = b.pushref(b.appquant(b.high(left), right, varset))
	default:
		lvl = rightlvl
		low = b.pushref(b.appquant(left, b.low(right), varset))
		high = b.pushref(b.appquant(left, b.high(right), varset))
	}
	var res int
	if b.quantset[lvl] == b.quantsetID {
		res = b.apply(low, high)
	} else {
		res = b.makenode(lvl, low, high)
	}
	b.popref(2)
	return b.setappex(left, right, res)
}
