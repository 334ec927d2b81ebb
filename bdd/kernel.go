// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"log"
	"math"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in the BDD. We use only the first 21
// bits for encoding levels (so also the max number of variables). We use the
// other bits for markings. Hence we make sure to always use int32 to avoid
// problem when we change architecture.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like constants and variables) in the node list.
const _MAXREFCOUNT int32 = math.MaxInt32

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

// huddnode is an entry in the node table. When a slot is unused, we have low
// set to -1 and high set to the next free position.
type huddnode struct {
	level  int32 // order of the variable in the BDD; bit 0x200000 is the GC mark
	refcou int32 // count the number of external references
	low    int   // reference to the false branch
	high   int   // reference to the true branch
}

// nodekey is the key of a node in the unicity table.
type nodekey struct {
	level int32
	low   int
	high  int
}

func (b *BDD) ismarked(n int) bool {
	return (b.nodes[n].level & 0x200000) != 0
}

func (b *BDD) marknode(n int) {
	b.nodes[n].level |= 0x200000
}

func (b *BDD) unmarknode(n int) {
	b.nodes[n].level &= 0x1FFFFF
}

func (b *BDD) level(n int) int32 {
	return b.nodes[n].level
}

func (b *BDD) low(n int) int {
	return b.nodes[n].low
}

func (b *BDD) high(n int) int {
	return b.nodes[n].high
}

// initnodes allocates the node table with the two constants. The value of
// b.freepos gives the index of the lowest unused slot, except when freenum is 0,
// in which case it is also 0.
func (b *BDD) initnodes(nodesize int) {
	b.nodes = make([]huddnode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = huddnode{
			level:  0,
			low:    -1,
			high:   k + 1,
			refcou: 0,
		}
	}
	b.nodes[nodesize-1].high = 0
	b.unique = make(map[nodekey]int, nodesize)
	// creating bddzero and bddone. We do not add them to the unique table.
	b.nodes[0] = huddnode{level: b.varnum, low: 0, high: 0, refcou: _MAXREFCOUNT}
	b.nodes[1] = huddnode{level: b.varnum, low: 1, high: 1, refcou: _MAXREFCOUNT}
	b.freepos = 2
	b.freenum = nodesize - 2
}

// makenode returns the index of the node (level, low, high), building it if it
// does not exist yet. We return -1, and set the error status of b, if we cannot
// find room for a new node. An error on one of the children is propagated.
func (b *BDD) makenode(level int32, low int, high int) int {
	if low < 0 || high < 0 {
		return -1
	}
	if _DEBUG {
		b.uniqueAccess++
	}
	// check whether children are equal, in which case we can skip the node
	if low == high {
		return low
	}
	// otherwise try to find an existing node using the unique table
	key := nodekey{level, low, high}
	if res, ok := b.unique[key]; ok {
		if _DEBUG {
			b.uniqueHit++
		}
		return res
	}
	if _DEBUG {
		b.uniqueMiss++
	}
	// If no existing node, we build one. If there is no available spot
	// (b.freepos == 0), we try garbage collection and, as a last resort,
	// resizing the BDD list.
	if b.freepos == 0 {
		b.gbc()
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			if err := b.noderesize(); err != nil && b.freepos == 0 {
				b.seterror("%s", err)
				return -1
			}
		}
		if b.freepos == 0 {
			b.seterror("unable to free memory or resize BDD")
			return -1
		}
	}
	// We can now build the new node in the first available spot
	b.produced++
	b.freenum--
	res := b.freepos
	b.freepos = b.nodes[res].high
	b.nodes[res] = huddnode{level, 0, low, high}
	b.unique[key] = res
	return res
}

// noderesize grows the node table. It returns an error if we are already at
// maximal capacity.
func (b *BDD) noderesize() error {
	if _LOGLEVEL > 0 {
		log.Printf("start resize: %d\n", len(b.nodes))
	}
	oldsize := len(b.nodes)
	nodesize := len(b.nodes)
	if (oldsize >= b.maxnodesize) && (b.maxnodesize > 0) {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if b.maxnodeincrease > 0 && nodesize > (oldsize+b.maxnodeincrease) {
		nodesize = oldsize + b.maxnodeincrease
	}
	if (nodesize > b.maxnodesize) && (b.maxnodesize > 0) {
		nodesize = b.maxnodesize
	}
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := b.nodes
	b.nodes = make([]huddnode, nodesize)
	copy(b.nodes, tmp)

	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].refcou = 0
		b.nodes[n].level = 0
		b.nodes[n].low = -1
		b.nodes[n].high = n + 1
	}
	b.nodes[nodesize-1].high = b.freepos
	b.freepos = oldsize
	b.freenum += (nodesize - oldsize)

	b.cacheresize()

	if _LOGLEVEL > 0 {
		log.Printf("end resize: %d\n", len(b.nodes))
	}
	return nil
}
