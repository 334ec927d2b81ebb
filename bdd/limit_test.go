// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"math/rand"
	"testing"
)

func TestApplyWithLimit(t *testing.T) {
	bdd, _ := New(8, Nodesize(100))
	r := rand.New(rand.NewSource(42))
	random := func() Node {
		res := bdd.False()
		for i := 0; i < 5; i++ {
			cube := bdd.True()
			for v := 0; v < 8; v++ {
				switch r.Intn(3) {
				case 0:
					cube = bdd.And(cube, bdd.Ithvar(v))
				case 1:
					cube = bdd.And(cube, bdd.NIthvar(v))
				}
			}
			res = bdd.Or(res, cube)
		}
		return res
	}
	ops := []Operator{OPand, OPxor, OPor, OPnand, OPnor, OPimp, OPbiimp, OPdiff, OPless, OPinvimp}
	for i := 0; i < 40; i++ {
		left, right := random(), random()
		op := ops[r.Intn(len(ops))]
		expected := bdd.Apply(left, right, op)
		size := bdd.Size(expected)

		actual, ok := bdd.ApplyWithLimit(size, left, right, op)
		if !ok {
			t.Fatalf("ApplyWithLimit(%d, %s): aborted but the result has size %d", size, op, size)
		}
		if !bdd.Equal(actual, expected) {
			t.Errorf("ApplyWithLimit(%s) differs from Apply", op)
		}
		if _, ok := bdd.ApplyWithLimit(size-1, left, right, op); ok {
			t.Errorf("ApplyWithLimit(%d, %s): expected abort for a result of size %d", size-1, op, size)
		}
	}
	if bdd.Errored() {
		t.Errorf("unexpected error: %s", bdd.Error())
	}
}

func TestApplyWithLimitOperand(t *testing.T) {
	bdd, _ := New(4)
	// the result of x & true is the (existing) left operand, which must still be
	// counted in full
	x := bdd.Or(bdd.And(bdd.Ithvar(0), bdd.Ithvar(1)), bdd.Ithvar(3))
	size := bdd.Size(x)
	if _, ok := bdd.ApplyWithLimit(size-1, x, bdd.True(), OPand); ok {
		t.Errorf("expected abort when the result is an operand of size %d", size)
	}
	if n, ok := bdd.ApplyWithLimit(size, x, bdd.True(), OPand); !ok || !bdd.Equal(n, x) {
		t.Errorf("expected x & true == x")
	}
	if n, ok := bdd.ApplyWithLimit(1, x, bdd.False(), OPand); !ok || !bdd.IsFalse(n) {
		t.Errorf("expected x & false == false within limit 1")
	}
}
