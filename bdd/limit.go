// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// limitedApply holds the state of a bounded apply. Results are memoized
// locally, and not in the shared apply cache, so that we can count every node
// of the result exactly once.
type limitedApply struct {
	b       *BDD
	op      Operator
	limit   int
	memo    map[[2]int]int
	seen    map[int]struct{}
	aborted bool
}

// ApplyWithLimit computes (left op right), like Apply, but gives up as soon as
// the result is known to contain more than limit nodes (terminals included, as
// in Size). The boolean is false when the computation was aborted, in which
// case the Node is nil. A result with exactly limit nodes is returned. We also
// return (nil, false) if there is an error, in which case b.Errored() is true.
func (b *BDD) ApplyWithLimit(limit int, left, right Node, op Operator) (Node, bool) {
	if b.checkptr(left) != nil {
		b.seterror("wrong operand in call to ApplyWithLimit %s(left, ...)", op)
		return nil, false
	}
	if b.checkptr(right) != nil {
		b.seterror("wrong operand in call to ApplyWithLimit %s(..., right)", op)
		return nil, false
	}
	if op < OPand || op > OPinvimp {
		b.seterror("unauthorized operation (%s) in ApplyWithLimit", op)
		return nil, false
	}
	la := &limitedApply{
		b:     b,
		op:    op,
		limit: limit,
		memo:  make(map[[2]int]int),
		seen:  make(map[int]struct{}),
	}
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	res := la.apply(*left, *right)
	b.initref()
	if la.aborted || b.error != nil || res < 0 {
		return nil, false
	}
	return b.retnode(res), true
}

// add records node n as part of the result, together with all its successors
// when deep is true, and reports whether we are still within the limit.
func (la *limitedApply) add(n int, deep bool) bool {
	if _, ok := la.seen[n]; ok {
		return true
	}
	la.seen[n] = struct{}{}
	if deep && n > 1 {
		if !la.add(la.b.low(n), true) || !la.add(la.b.high(n), true) {
			return false
		}
	}
	if len(la.seen) > la.limit {
		la.aborted = true
		return false
	}
	return true
}

func (la *limitedApply) apply(left, right int) int {
	if la.aborted || left < 0 || right < 0 {
		return -1
	}
	if res := la.op.terminal(left, right); res >= 0 {
		// the result may be one of the operands, which is an existing subgraph
		if !la.add(res, true) {
			return -1
		}
		return res
	}
	key := [2]int{left, right}
	if res, ok := la.memo[key]; ok {
		return res
	}
	b := la.b
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var low, high int
	var lvl int32
	switch {
	case leftlvl == rightlvl:
		lvl = leftlvl
		low = la.apply(b.low(left), b.low(right))
		high = la.apply(b.high(left), b.high(right))
	case leftlvl < rightlvl:
		lvl = leftlvl
		low = la.apply(b.low(left), right)
		high = la.apply(b.high(left), right)
	default:
		lvl = rightlvl
		low = la.apply(left, b.low(right))
		high = la.apply(left, b.high(right))
	}
	if low < 0 || high < 0 {
		return -1
	}
	res := b.makenode(lvl, low, high)
	if res < 0 || !la.add(res, false) {
		return -1
	}
	// every intermediate result stays on the refstack until we are done
	la.memo[key] = b.pushref(res)
	return res
}
