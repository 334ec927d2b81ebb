// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// _DEFAULTCACHESIZE is the default number of entries in each operation cache.
const _DEFAULTCACHESIZE int = 10000

// configs holds the tuning parameters of a BDD manager.
type configs struct {
	varnum          int // number of variables, fixed at creation
	nodesize        int // initial capacity of the node table
	cachesize       int // initial number of entries in each cache
	cacheratio      int // cache entries per 100 nodes after a resize, 0 for fixed caches
	maxnodesize     int // hard bound on the node table, 0 for none
	maxnodeincrease int // bound on the growth at each resize, 0 for none
	minfreenodes    int // percentage of free nodes required after a collection
}

// Option is a configuration option for New.
type Option func(*configs)

func makeconfigs(varnum int) *configs {
	return &configs{
		varnum:          varnum,
		nodesize:        2*varnum + 2, // constants plus one node per literal
		cachesize:       _DEFAULTCACHESIZE,
		maxnodeincrease: _DEFAULTMAXNODEINC,
		minfreenodes:    _MINFREENODES,
	}
}

// Nodesize sets the initial capacity of the node table. Values too small to
// hold the constants and the literals of all the variables are ignored. The
// table grows on demand, so this is only a hint.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize bounds the number of nodes of the manager. Once the bound is
// reached, operations that need a new node fail with an error. Zero, the
// default, means no bound.
func Maxnodesize(size int) Option {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease bounds how many nodes are added at each resize of the
// table. Below this bound the table doubles. Zero means no bound; the
// default is about a million nodes.
func Maxnodeincrease(size int) Option {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes is the percentage of the node table that must be free after a
// garbage collection; below it, the table is resized. The default is 20.
func Minfreenodes(ratio int) Option {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize sets the initial number of entries of each operation cache
// (10 000 by default). Non positive values are ignored.
func Cachesize(size int) Option {
	return func(c *configs) {
		if size > 0 {
			c.cachesize = size
		}
	}
}

// Cacheratio lets caches grow with the node table: with a ratio r, caches
// get r entries for every 100 nodes after each resize. With the default, 0,
// caches keep their initial size.
func Cacheratio(ratio int) Option {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}
