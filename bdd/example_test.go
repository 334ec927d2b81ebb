// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd_test

import (
	"fmt"

	"github.com/dalzilio/pbn/bdd"
)

// This example shows the basic usage of the package: create a BDD, compute some
// expressions and output the result.
func Example_basic() {
	// Create a new BDD with 6 variables, 10 000 nodes and a cache size of 3 000
	// (initially).
	b, _ := bdd.New(6, bdd.Nodesize(10000), bdd.Cachesize(3000))
	// n1 is a set comprising the three variables {x2, x3, x5}. It can also be
	// interpreted as the Boolean expression: x2 & x3 & x5
	n1 := b.Makeset([]int{2, 3, 5})
	// n2 == x1 | !x3 | x4
	n2 := b.Or(b.Ithvar(1), b.NIthvar(3), b.Ithvar(4))
	// n3 == ∃ x2,x3,x5 . (n2 & x3)
	n3 := b.AndExist(n1, n2, b.Ithvar(3))
	fmt.Printf("Number of sat. assignments: %s\n", b.Satcount(n3))
	fmt.Printf("Support: %v\n", b.SupportVars(n3))
	// Output:
	// Number of sat. assignments: 48
	// Support: [1 4]
}

// This example shows how to stop an operation that would produce a BDD that is
// too large.
func Example_limit() {
	b, _ := bdd.New(4)
	x := b.And(b.Ithvar(0), b.Ithvar(1))
	y := b.And(b.Ithvar(2), b.Ithvar(3))
	// x | y has 4 decision nodes and the two terminals
	if _, ok := b.ApplyWithLimit(5, x, y, bdd.OPor); !ok {
		fmt.Println("aborted")
	}
	if n, ok := b.ApplyWithLimit(6, x, y, bdd.OPor); ok {
		fmt.Println("size:", b.Size(n))
	}
	// Output:
	// aborted
	// size: 6
}
