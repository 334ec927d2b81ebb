// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"math"
	"math/big"
	"testing"
)

// queens returns the constraints of the N-queens problem on a board where
// variable r*N+c holds when there is a queen on row r and column c. The first
// N constraints ask for a queen on each row; then, for every square, we have
// one constraint saying that a queen there does not attack any other square.
func queens(b *BDD, N int) []Node {
	x := func(r, c int) Node { return b.Ithvar(r*N + c) }
	res := []Node{}
	for r := 0; r < N; r++ {
		row := b.False()
		for c := 0; c < N; c++ {
			row = b.Or(row, x(r, c))
		}
		res = append(res, row)
	}
	for r := 0; r < N; r++ {
		for c := 0; c < N; c++ {
			safe := b.True()
			for r2 := 0; r2 < N; r2++ {
				for c2 := 0; c2 < N; c2++ {
					if r2 == r && c2 == c {
						continue
					}
					dr, dc := r2-r, c2-c
					if dr == 0 || dc == 0 || dr == dc || dr == -dc {
						safe = b.And(safe, b.Apply(x(r, c), x(r2, c2), OPnand))
					}
				}
			}
			res = append(res, safe)
		}
	}
	return res
}

// solve conjoins the constraints with a bounded apply and returns the number
// of solutions. The bound is the size of the largest intermediate result.
func solve(b *BDD, constraints []Node, limit int) (*big.Int, bool) {
	res := b.True()
	for _, c := range constraints {
		next, ok := b.ApplyWithLimit(limit, res, c, OPand)
		if !ok {
			return nil, false
		}
		res = next
	}
	return b.Satcount(res), true
}

func TestNQueens(t *testing.T) {
	var nqueensTests = []struct {
		N        int
		expected int64
	}{
		{4, 2},
		{5, 10},
		{6, 4},
		{8, 92},
	}
	for _, tt := range nqueensTests {
		// a small node table goes through several collections and resizes
		b, _ := New(tt.N*tt.N, Nodesize(tt.N*tt.N*4), Cachesize(tt.N*tt.N*16), Cacheratio(30))
		actual, ok := solve(b, queens(b, tt.N), math.MaxInt)
		if !ok || b.Errored() {
			t.Fatalf("NQueens(%d): unexpected abort or error %v", tt.N, b.Error())
		}
		if actual.Cmp(big.NewInt(tt.expected)) != 0 {
			t.Errorf("NQueens(%d), expected %d, actual %s", tt.N, tt.expected, actual)
		}
	}
}

func TestNQueensLimit(t *testing.T) {
	b, _ := New(16)
	constraints := queens(b, 4)
	largest := 0
	res := b.True()
	for _, c := range constraints {
		res = b.Apply(res, c, OPand)
		if s := b.Size(res); s > largest {
			largest = s
		}
	}
	if actual, ok := solve(b, constraints, largest); !ok || actual.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("NQueens(4) with limit %d: expected 2 solutions, actual %v (ok = %v)", largest, actual, ok)
	}
	if _, ok := solve(b, constraints, largest-1); ok {
		t.Errorf("NQueens(4) with limit %d: expected an abort", largest-1)
	}
}

func TestNQueensSupport(t *testing.T) {
	b, _ := New(16)
	constraints := queens(b, 4)
	// the row constraints come first
	if actual := fmt.Sprint(b.SupportVars(constraints[1])); actual != "[4 5 6 7]" {
		t.Errorf("support of row 1: expected [4 5 6 7], actual %s", actual)
	}
	// square (0, 0) sees its row, its column and one diagonal
	//
	//      X X X X
	//      X X . .
	//      X . X .
	//      X . . X
	if actual := fmt.Sprint(b.SupportVars(constraints[4])); actual != "[0 1 2 3 4 5 8 10 12 15]" {
		t.Errorf("support of square (0, 0): expected [0 1 2 3 4 5 8 10 12 15], actual %s", actual)
	}
}

func BenchmarkNQueens(b *testing.B) {
	for n := 0; n < b.N; n++ {
		m, _ := New(100)
		solve(m, queens(m, 10), math.MaxInt)
	}
}
