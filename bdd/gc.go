// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"log"
	"sync"
)

// gcstat stores status information about garbage collections. We use a stack
// (slice) of objects to record the sequence of GC during a computation.
type gcstat struct {
	setfinalizers    uint64    // Total number of external references to BDD nodes
	calledfinalizers uint64    // Number of external references that were freed
	history          []gcpoint // Snaphot of GC stats at each occurrence
}

type gcpoint struct {
	nodes            int // Total number of allocated nodes in the nodetable
	freenodes        int // Number of free nodes in the nodetable
	setfinalizers    int // Total number of external references to BDD nodes
	calledfinalizers int // Number of external references that were freed
}

// releaseQueue collects the external references dropped by the Go runtime.
// Finalizers run in their own goroutine, so we only record node indices here
// and decrement reference counts at the start of the next garbage collection.
type releaseQueue struct {
	sync.Mutex
	ids []int
}

func (q *releaseQueue) push(n int) {
	q.Lock()
	q.ids = append(q.ids, n)
	q.Unlock()
}

func (q *releaseQueue) drain() []int {
	q.Lock()
	ids := q.ids
	q.ids = nil
	q.Unlock()
	return ids
}

// *************************************************************************

// gbc is the garbage collector called for reclaiming memory, inside a call to
// makenode, when there are no free positions available. Allocated nodes that
// are not reclaimed do not move.
func (b *BDD) gbc() {
	if _LOGLEVEL > 0 {
		log.Println("starting GC")
	}

	// We could  explictly ask the system to run its GC so that we can decrement
	// the ref counts of Nodes that had an external reference. This is blocking.
	// Frequent GC is time consuming, but with fewer GC we can experience more
	// resizing events.
	//
	// runtime.GC()

	for _, n := range b.released.drain() {
		if b.nodes[n].refcou > 0 && b.nodes[n].refcou < _MAXREFCOUNT {
			b.nodes[n].refcou--
		}
		b.gcstat.calledfinalizers++
		if _LOGLEVEL > 2 {
			log.Printf("dec refcou %d\n", n)
		}
	}

	// we append the current stats to the GC history
	b.gcstat.history = append(b.gcstat.history, gcpoint{
		nodes:            len(b.nodes),
		freenodes:        b.freenum,
		setfinalizers:    int(b.gcstat.setfinalizers),
		calledfinalizers: int(b.gcstat.calledfinalizers),
	})
	b.gcstat.setfinalizers = 0
	b.gcstat.calledfinalizers = 0

	// we mark the nodes in the refstack to avoid collecting them
	for _, r := range b.refstack {
		b.markrec(r)
	}
	// we also protect nodes with a positive refcount (and therefore also the
	// ones with a MAXREFCOUNT, such has variables)
	for k := range b.nodes {
		if b.nodes[k].refcou > 0 {
			b.markrec(k)
		}
	}
	b.freepos = 0
	b.freenum = 0
	// we do a pass through the nodes list to void the unmarked nodes. After
	// finishing this pass, b.freepos points to the first free position in
	// b.nodes, or it is 0 if we found none.
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && (b.nodes[n].low != -1) {
			b.unmarknode(n)
		} else {
			if b.nodes[n].low != -1 {
				delete(b.unique, nodekey{b.nodes[n].level, b.nodes[n].low, b.nodes[n].high})
			}
			b.nodes[n].low = -1
			b.nodes[n].high = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	// we also invalidate the caches, since they may refer to reclaimed nodes
	b.cachereset()
	if _LOGLEVEL > 0 {
		log.Printf("end GC; freenum: %d\n", b.freenum)
	}
}

// *************************************************************************
// RECURSIVE MARK / UNMARK

func (b *BDD) markrec(n int) {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.marknode(n)
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

// markcount marks the successors of node n and returns their number.
func (b *BDD) markcount(n int) int {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return 0
	}
	b.marknode(n)
	return 1 + b.markcount(b.nodes[n].low) + b.markcount(b.nodes[n].high)
}

func (b *BDD) unmarkrec(n int) {
	if n < 2 || !b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.unmarknode(n)
	b.unmarkrec(b.nodes[n].low)
	b.unmarkrec(b.nodes[n].high)
}

// *************************************************************************
// private functions to manipulate the refstack; used to prevent nodes that are
// currently being built (e.g. transient nodes built during an apply) to be
// reclaimed during GC.

func (b *BDD) initref() {
	b.refstack = b.refstack[:0]
}

func (b *BDD) pushref(n int) int {
	b.refstack = append(b.refstack, n)
	return n
}

func (b *BDD) popref(a int) {
	b.refstack = b.refstack[:len(b.refstack)-a]
}
