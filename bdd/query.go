// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"math/big"
)

// Satcount computes the number of satisfying variable assignments for the
// function denoted by n, over all the variables of b. We return a result using
// arbitrary-precision arithmetic to avoid possible overflows. The result is
// zero (and we set the error flag of b) if there is an error.
func (b *BDD) Satcount(n Node) *big.Int {
	res := big.NewInt(0)
	if b.checkptr(n) != nil {
		b.seterror("wrong operand in call to Satcount")
		return res
	}
	// We compute 2^level with a bit shift 1 << level
	res.SetBit(res, int(b.level(*n)), 1)
	satc := make(map[int]*big.Int)
	return res.Mul(res, b.satcount(*n, satc))
}

func (b *BDD) satcount(n int, satc map[int]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if res, ok := satc[n]; ok {
		return res
	}
	level := b.level(n)
	low := b.low(n)
	high := b.high(n)

	res := big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(b.level(low)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(low, satc)))
	two = big.NewInt(0)
	two.SetBit(two, int(b.level(high)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(high, satc)))
	satc[n] = res
	return res
}

// Allsat Iterates through all legal variable assignments for n and calls the
// function f on each of them. We pass an int slice of length varnum to f where
// each entry is either  0 if the variable is false, 1 if it is true, and -1 if
// it is a don't care. We stop and return an error if f returns an error at some
// point.
func (b *BDD) Allsat(n Node, f func([]int) error) error {
	if b.checkptr(n) != nil {
		return fmt.Errorf("wrong node in call to Allsat")
	}
	prof := make([]int, b.varnum)
	for k := range prof {
		prof[k] = -1
	}
	// the function does not create new nodes, so we do not need to take care of
	// possible resizing
	return b.allsat(*n, prof, f)
}

func (b *BDD) allsat(n int, prof []int, f func([]int) error) error {
	if n == 1 {
		return f(prof)
	}
	if n == 0 {
		return nil
	}
	if low := b.low(n); low != 0 {
		prof[b.level(n)] = 0
		for v := b.level(low) - 1; v > b.level(n); v-- {
			prof[v] = -1
		}
		if err := b.allsat(low, prof, f); err != nil {
			return err
		}
	}
	if high := b.high(n); high != 0 {
		prof[b.level(n)] = 1
		for v := b.level(high) - 1; v > b.level(n); v-- {
			prof[v] = -1
		}
		if err := b.allsat(high, prof, f); err != nil {
			return err
		}
	}
	return nil
}

// allnodes applies function f over all the nodes accessible from the nodes in
// the sequence n..., or all the active nodes if n is absent. The parameters to
// function f are the id, level, and id's of the low and high successors of each
// node. The two constant nodes (True and False) have always the id 1 and 0,
// respectively. We stop the computation and return an error if f returns an
// error at some point.
func (b *BDD) allnodes(f func(id, level, low, high int) error, n ...Node) error {
	for _, v := range n {
		if b.checkptr(v) != nil {
			return fmt.Errorf("wrong node in call to allnodes")
		}
	}
	if len(n) == 0 {
		for k, v := range b.nodes {
			if k > 1 && v.low == -1 {
				continue
			}
			if err := f(k, int(v.level), v.low, v.high); err != nil {
				return err
			}
		}
		return nil
	}
	for _, v := range n {
		b.markrec(*v)
	}
	// constants are never marked, so we visit them explicitly
	var err error
	if err = f(0, int(b.varnum), 0, 0); err == nil {
		err = f(1, int(b.varnum), 1, 1)
	}
	for k := 2; k < len(b.nodes); k++ {
		if !b.ismarked(k) {
			continue
		}
		b.unmarknode(k)
		if err != nil {
			continue
		}
		err = f(k, int(b.level(k)), b.low(k), b.high(k))
	}
	return err
}

// Size returns the number of nodes in the BDD rooted at n, including the
// terminal nodes. The constants have size 1. We return 0 if n is not valid.
func (b *BDD) Size(n Node) int {
	if b.checkptr(n) != nil {
		return 0
	}
	if *n < 2 {
		return 1
	}
	// a non-constant BDD always reaches both terminals
	res := b.markcount(*n) + 2
	b.unmarkrec(*n)
	return res
}

// SupportVars returns the (sorted) list of variables occurring in the BDD
// rooted at n.
func (b *BDD) SupportVars(n Node) []int {
	if b.checkptr(n) != nil {
		return nil
	}
	seen := make([]bool, b.varnum)
	b.markrec(*n)
	for k := 2; k < len(b.nodes); k++ {
		if b.ismarked(k) {
			b.unmarknode(k)
			seen[b.level(k)] = true
		}
	}
	res := []int{}
	for k, v := range seen {
		if v {
			res = append(res, k)
		}
	}
	return res
}

// Support returns the conjunction of all the variables occurring in the BDD
// rooted at n, in the format used by Makeset.
func (b *BDD) Support(n Node) Node {
	vars := b.SupportVars(n)
	if vars == nil {
		return b.seterror("wrong operand in call to Support")
	}
	return b.Makeset(vars)
}

// IsSubset reports whether every assignment satisfying left also satisfies
// right. The result is false if there is an error.
func (b *BDD) IsSubset(left, right Node) bool {
	res := b.Apply(left, right, OPdiff)
	return res != nil && *res == 0
}
