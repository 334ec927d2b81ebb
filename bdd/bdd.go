// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"log"
	"runtime"
)

// Node is a reference to an element of a BDD. It represents the atomic unit of
// interactions and computations within a BDD.
type Node *int

// inode returns a Node for known nodes, such as constants, that do not need to
// increase their reference count.
func inode(n int) Node {
	x := n
	return &x
}

var bddone Node = inode(1)

var bddzero Node = inode(0)

// BDD is the type of Binary Decision Diagrams. It abstracts and encapsulates
// the internal states of a BDD; such as caches, or the internal node and
// unicity tables for example. We propose an implementation that uses the
// standard Go runtime hashmap for the unicity table, with the remaining data
// structures (and algorithms) following closely the BuDDy library.
type BDD struct {
	varnum        int32           // number of BDD variables
	varset        [][2]int        // pair of nodes for the positive and negative occurrence of each variable
	nodes         []huddnode      // list of all the BDD nodes; constants are always kept at index 0 and 1
	unique        map[nodekey]int // unicity table, associates each triplet to a single node
	freenum       int             // number of free nodes
	freepos       int             // first free node
	produced      int             // total number of new nodes ever produced
	refstack      []int           // internal node reference stack
	released      releaseQueue    // external references dropped by the Go runtime
	nodefinalizer func(*int)      // finalizer used to release external references
	quantset      []int32         // current variable set for quantification
	quantsetID    int32           // current id used in quantset
	quantlast     int32           // current last variable to be quantified
	applycache                    // cache for apply results
	itecache                      // cache for ITE results
	quantcache                    // cache for exist/forall results
	appexcache                    // cache for AppEx results
	gcstat                        // information about garbage collections
	cacheStat                     // information about the caches
	configs                       // configurable parameters
	error                         // error status to help chain operations
}

// New returns a BDD manager with varnum variables. Nodes are kept in a
// single table and made unique with a runtime map.
//
// Options tune the initial size of the node table (Nodesize), of the caches
// (Cachesize), and how they grow. The initial size is only a hint: the table
// is resized whenever a garbage collection leaves too few free nodes.
func New(varnum int, options ...Option) (*BDD, error) {
	if (varnum < 1) || (varnum > int(_MAXVAR)) {
		return nil, fmt.Errorf("bad number of variable (%d)", varnum)
	}
	config := makeconfigs(varnum)
	for _, f := range options {
		f(config)
	}
	b := &BDD{configs: *config}
	b.varnum = int32(varnum)
	b.varset = make([][2]int, varnum)
	b.refstack = make([]int, 0, 2*varnum+4)
	b.quantset = make([]int32, varnum)
	b.initnodes(b.nodesize)
	if _LOGLEVEL > 0 {
		log.Printf("set varnum to %d\n", b.varnum)
	}
	for k := int32(0); k < b.varnum; k++ {
		v0 := b.makenode(k, 0, 1)
		if v0 < 0 {
			return nil, fmt.Errorf("cannot allocate new variable %d", k)
		}
		b.nodes[v0].refcou = _MAXREFCOUNT
		b.pushref(v0)
		v1 := b.makenode(k, 1, 0)
		if v1 < 0 {
			return nil, fmt.Errorf("cannot allocate new variable %d", k)
		}
		b.nodes[v1].refcou = _MAXREFCOUNT
		b.popref(1)
		b.varset[k] = [2]int{v0, v1}
	}
	b.cacheinit(b.cachesize, b.cacheratio)
	b.nodefinalizer = func(n *int) {
		b.released.push(*n)
	}
	return b, nil
}

// retnode creates a Node for external use and sets a finalizer on it so that we
// can reclaim the ressource during GC.
func (b *BDD) retnode(n int) Node {
	if n < 0 || n >= len(b.nodes) {
		if _DEBUG {
			log.Panicf("b.retnode(%d) not valid\n", n)
		}
		return nil
	}
	if n == 0 {
		return bddzero
	}
	if n == 1 {
		return bddone
	}
	x := n
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
		runtime.SetFinalizer(&x, b.nodefinalizer)
		if _DEBUG {
			b.gcstat.setfinalizers++
			if _LOGLEVEL > 2 {
				log.Printf("inc refcou %d\n", n)
			}
		}
	}
	return &x
}

// checkptr performs a sanity check prior to accessing a node and return eventual
// error code.
func (b *BDD) checkptr(n Node) error {
	switch {
	case n == nil:
		b.seterror("illegal acces to node (nil value)")
		return b.error
	case (*n < 0) || (*n >= len(b.nodes)):
		b.seterror("illegal acces to node %d", *n)
		return b.error
	case (*n >= 2) && (b.nodes[*n].low == -1):
		b.seterror("illegal acces to node %d", *n)
		return b.error
	}
	return nil
}

// ************************************************************

// Varnum returns the number of defined variables.
func (b *BDD) Varnum() int {
	return int(b.varnum)
}

// True returns the constant true BDD.
func (b *BDD) True() Node {
	return bddone
}

// False returns the constant false BDD.
func (b *BDD) False() Node {
	return bddzero
}

// From returns a (constant) Node from a boolean value.
func (b *BDD) From(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}

// Ithvar returns a BDD representing the i'th variable on success (the
// expression xi), otherwise we set the error status in the BDD and returns the
// nil node. The requested variable must be in the range [0..Varnum).
func (b *BDD) Ithvar(i int) Node {
	if (i < 0) || (int32(i) >= b.varnum) {
		return b.seterror("unknown variable used (%d) in call to ithvar", i)
	}
	// we do not need to reference count variables
	return inode(b.varset[i][0])
}

// NIthvar returns a bdd representing the negation of the i'th variable on
// success (the expression !xi), otherwise the nil node. See *ithvar* for
// further info.
func (b *BDD) NIthvar(i int) Node {
	if (i < 0) || (int32(i) >= b.varnum) {
		return b.seterror("unknown variable used (%d) in call to nithvar", i)
	}
	return inode(b.varset[i][1])
}

// Equal tests equivalence between nodes. Since BDD are canonical, two nodes are
// equivalent if and only if they have the same address in the node table.
func (b *BDD) Equal(low, high Node) bool {
	if low == high {
		return true
	}
	if low == nil || high == nil {
		return false
	}
	return *low == *high
}

// IsTrue reports whether n is the constant true.
func (b *BDD) IsTrue(n Node) bool {
	return n != nil && *n == 1
}

// IsFalse reports whether n is the constant false.
func (b *BDD) IsFalse(n Node) bool {
	return n != nil && *n == 0
}

// ************************************************************

// And returns the logical 'and' of a sequence of nodes.
func (b *BDD) And(n ...Node) Node {
	if len(n) == 1 {
		return n[0]
	}
	if len(n) == 0 {
		return bddone
	}
	return b.Apply(n[0], b.And(n[1:]...), OPand)
}

// Or returns the logical 'or' of a sequence of nodes.
func (b *BDD) Or(n ...Node) Node {
	if len(n) == 1 {
		return n[0]
	}
	if len(n) == 0 {
		return bddzero
	}
	return b.Apply(n[0], b.Or(n[1:]...), OPor)
}

// Imp returns the logical 'implication' between two BDDs.
func (b *BDD) Imp(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPimp)
}

// Equiv returns the logical 'bi-implication' between two BDDs.
func (b *BDD) Equiv(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPbiimp)
}

// Xor returns the exclusive or of two BDDs.
func (b *BDD) Xor(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPxor)
}

// Minus returns the set difference n1 \ n2, that is n1 & !n2.
func (b *BDD) Minus(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPdiff)
}

// AndExist returns the "relational composition" of two nodes with respect to
// varset, meaning the result of (Exists varset . n1 & n2).
func (b *BDD) AndExist(varset, n1, n2 Node) Node {
	return b.AppEx(n1, n2, OPand, varset)
}
