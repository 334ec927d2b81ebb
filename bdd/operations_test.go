// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"bytes"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"testing"
)

//********************************************************************************************

func TestMin3(t *testing.T) {
	var min3Tests = []struct {
		p, q, r  int32
		expected int32
	}{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, tt := range min3Tests {
		actual := min3(tt.p, tt.q, tt.r)
		if actual != tt.expected {
			t.Errorf("min3(%d, %d, %d): expected %d, actual %d", tt.p, tt.q, tt.r, tt.expected, actual)
		}
	}
}

//********************************************************************************************

func TestIte(t *testing.T) {
	bdd, _ := New(4, Nodesize(5000), Cachesize(50))
	n1 := bdd.Makeset([]int{0, 2, 3})
	n2 := bdd.Makeset([]int{0, 3})
	actual := bdd.Equiv(bdd.Ite(n1, n2, bdd.Not(n2)), bdd.Or(bdd.And(n1, n2), bdd.And(bdd.Not(n1), bdd.Not(n2))))
	if !bdd.IsTrue(actual) {
		t.Errorf("ite(f,g,h) <=> (f and g) or (-f and h): expected true, actual false")
	}
}

//********************************************************************************************

// TestOperations implements the same tests than the bddtest program in the
// Buddy distribution. It uses function Allsat for checking that all assignments
// are detected.
func TestOperations(t *testing.T) {
	bdd, _ := New(4, Nodesize(1000), Cachesize(1000))
	varnum := 4

	check := func(x Node) error {
		allsatBDD := x
		allsatSumBDD := bdd.False()
		// Calculate whole set of asignments and remove all assignments
		// from original set
		err := bdd.Allsat(x, func(varset []int) error {
			x := bdd.True()
			for k, v := range varset {
				switch v {
				case 0:
					x = bdd.And(x, bdd.NIthvar(k))
				case 1:
					x = bdd.And(x, bdd.Ithvar(k))
				}
			}
			// Sum up all assignments
			allsatSumBDD = bdd.Or(allsatSumBDD, x)
			// Remove assignment from initial set
			allsatBDD = bdd.Apply(allsatBDD, x, OPdiff)
			return nil
		})
		if err != nil {
			return err
		}
		// Now the summed set should be equal to the original set and the
		// subtracted set should be empty
		if !bdd.Equal(allsatSumBDD, x) {
			return fmt.Errorf("AllSat sum is not the initial BDD")
		}
		if !bdd.Equal(allsatBDD, bdd.False()) {
			return fmt.Errorf("AllSat is not False")
		}
		return nil
	}

	a := bdd.Ithvar(0)
	b := bdd.Ithvar(1)
	c := bdd.Ithvar(2)
	d := bdd.Ithvar(3)
	na := bdd.NIthvar(0)
	nb := bdd.NIthvar(1)
	nc := bdd.NIthvar(2)
	nd := bdd.NIthvar(3)

	tests := []Node{
		bdd.True(),
		bdd.False(),
		// a & b | !a & !b
		bdd.Or(bdd.And(a, b), bdd.And(na, nb)),
		// a & b | c & d
		bdd.Or(bdd.And(a, b), bdd.And(c, d)),
		// a & !b | a & !d | a & b & !c
		bdd.Or(bdd.And(a, nb), bdd.And(a, nd), bdd.And(a, b, nc)),
	}
	for i := 0; i < varnum; i++ {
		tests = append(tests, bdd.Ithvar(i), bdd.NIthvar(i))
	}
	for k, x := range tests {
		if err := check(x); err != nil {
			t.Errorf("test %d: %s", k, err)
		}
	}

	set := bdd.True()
	for i := 0; i < 50; i++ {
		v := rand.Intn(varnum)
		if rand.Intn(2) == 0 {
			set = bdd.Or(set, bdd.Ithvar(v))
		} else {
			set = bdd.And(set, bdd.NIthvar(v))
		}
		if err := check(set); err != nil {
			t.Errorf("random test %d: %s", i, err)
		}
	}
}

//********************************************************************************************

func TestQuantifiers(t *testing.T) {
	bdd, _ := New(3)
	x0, x1, x2 := bdd.Ithvar(0), bdd.Ithvar(1), bdd.Ithvar(2)
	// f == (x0 & x1) | (!x0 & x2)
	f := bdd.Or(bdd.And(x0, x1), bdd.And(bdd.NIthvar(0), x2))
	v0 := bdd.Makeset([]int{0})

	if actual, expected := bdd.Exist(f, v0), bdd.Or(x1, x2); !bdd.Equal(actual, expected) {
		t.Errorf("exist x0 . f: expected x1 | x2")
	}
	if actual, expected := bdd.Forall(f, v0), bdd.And(x1, x2); !bdd.Equal(actual, expected) {
		t.Errorf("forall x0 . f: expected x1 & x2")
	}
	// the two quantifiers share a cache, so we check again in reverse order
	if actual, expected := bdd.Exist(f, v0), bdd.Or(x1, x2); !bdd.Equal(actual, expected) {
		t.Errorf("exist x0 . f after forall: expected x1 | x2")
	}
	all := bdd.Makeset([]int{0, 1, 2})
	if !bdd.IsTrue(bdd.Exist(f, all)) {
		t.Errorf("exist all . f: expected true")
	}
	if !bdd.IsFalse(bdd.Forall(f, all)) {
		t.Errorf("forall all . f: expected false")
	}
}

func TestAppEx(t *testing.T) {
	bdd, _ := New(6)
	r := rand.New(rand.NewSource(7))
	random := func() Node {
		res := bdd.False()
		for i := 0; i < 4; i++ {
			cube := bdd.True()
			for v := 0; v < 6; v++ {
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
	for i := 0; i < 30; i++ {
		left, right := random(), random()
		varset := bdd.Makeset([]int{r.Intn(6), r.Intn(6)})
		for _, op := range []Operator{OPand, OPor, OPxor, OPnand, OPnor} {
			expected := bdd.Exist(bdd.Apply(left, right, op), varset)
			actual := bdd.AppEx(left, right, op, varset)
			if !bdd.Equal(actual, expected) {
				t.Errorf("AppEx(%s) differs from Exist(Apply(%s))", op, op)
			}
		}
	}
}

func TestMakeset(t *testing.T) {
	bdd, _ := New(5)
	n := bdd.Makeset([]int{3, 1, 3, 4})
	actual := bdd.SupportVars(n)
	expected := []int{1, 3, 4}
	if fmt.Sprint(actual) != fmt.Sprint(expected) {
		t.Errorf("SupportVars(Makeset): expected %v, actual %v", expected, actual)
	}
	if bdd.Makeset([]int{5}) != nil || !bdd.Errored() {
		t.Errorf("Makeset with unknown variable should fail")
	}
}

func TestQueries(t *testing.T) {
	bdd, _ := New(4)
	f := bdd.Or(bdd.And(bdd.Ithvar(0), bdd.Ithvar(2)), bdd.NIthvar(3))

	if actual := bdd.Satcount(f); actual.Cmp(big.NewInt(10)) != 0 {
		t.Errorf("Satcount: expected 10, actual %s", actual)
	}
	if actual := fmt.Sprint(bdd.SupportVars(f)); actual != "[0 2 3]" {
		t.Errorf("SupportVars: expected [0 2 3], actual %s", actual)
	}
	if actual := bdd.SupportVars(bdd.Support(f)); fmt.Sprint(actual) != "[0 2 3]" {
		t.Errorf("Support: expected [0 2 3], actual %v", actual)
	}
	if actual := bdd.Size(bdd.True()); actual != 1 {
		t.Errorf("Size(true): expected 1, actual %d", actual)
	}
	if actual := bdd.Size(bdd.Ithvar(1)); actual != 3 {
		t.Errorf("Size(x1): expected 3, actual %d", actual)
	}
	// x0 ? (x2 ? 1 : !x3) : !x3
	if actual := bdd.Size(f); actual != 5 {
		t.Errorf("Size(f): expected 5, actual %d", actual)
	}
	if !bdd.IsSubset(bdd.And(f, bdd.Ithvar(1)), f) {
		t.Errorf("IsSubset: f & x1 should be included in f")
	}
	if bdd.IsSubset(f, bdd.Ithvar(1)) {
		t.Errorf("IsSubset: f should not be included in x1")
	}
}

func TestDot(t *testing.T) {
	bdd, _ := New(2)
	n := bdd.And(bdd.Ithvar(0), bdd.Ithvar(1))
	var out bytes.Buffer
	if err := bdd.Dot(&out, n); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("digraph G {")) {
		t.Errorf("Dot: unexpected output %q", out.String())
	}
	// one line per decision node and per arc that does not go to false
	if arcs := bytes.Count(out.Bytes(), []byte("->")); arcs != 2 {
		t.Errorf("Dot: expected 2 arcs, actual %d", arcs)
	}
	if stats := bdd.Stats(); !strings.HasPrefix(stats, "Varnum:     2") {
		t.Errorf("Stats: unexpected output %q", stats)
	}
}
