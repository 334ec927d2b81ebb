// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package bdd

import (
	"fmt"
	"math"
	"math/big"
)

// ************************************************************
// cache is used for caching apply/exist etc. results
type cache struct {
	ratio int // value used to resize the caches as a factor of the number of nodes
	table []cacheData
}

// cacheStat stores status information about cache usage
type cacheStat struct {
	uniqueAccess int // accesses to the unique node table
	uniqueHit    int // entries actually found in the the unique node table
	uniqueMiss   int // entries not found in the the unique node table
	opHit        int // entries found in the operator caches
	opMiss       int // entries not found in the operator caches
}

// cacheData is a unit of information stored in the Apply and ITE cache
type cacheData struct {
	res int
	a   int
	b   int
	c   int
}

// ************************************************************

// Different kind of caches used in the bdd

type applycache struct {
	applytable cache    // Cache for apply results
	applyop    Operator // Current operation during an apply
}

type itecache struct {
	itetable cache // Cache for ITE results
}

type quantcache struct {
	quanttable cache // Cache for exist/forall results
	quantid    int   // Current cache id for quantifications
}

// appexcache are a mix of  quant and apply caches
type appexcache struct {
	appextable cache    // Cache for appex/appall results
	appexid    int      // Current cache id for quantifications
	appexop    Operator // Current operator for appex
}

// ************************************************************

// Hash value modifiers for quantification
const cacheidEXIST int = 0x0
const cacheidFORALL int = 0x1

// ************************************************************

// Basic functions shared by all caches

func (bc *cache) cacheinit(size int, ratio int) {
	// we never check if the creation of the slice panic because of lack of memory
	size = primeGte(size)
	bc.ratio = ratio
	bc.table = make([]cacheData, size)
	bc.cachereset()
}

func (bc *cache) cacheresize(nodesize int) {
	if bc.ratio > 0 {
		bc.cacheinit((nodesize*bc.ratio)/100, bc.ratio)
		return
	}
	bc.cachereset()
}

func (bc *cache) cachereset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// *************************************************************************
// Setup and shutdown

func (b *BDD) cacheinit(cachesize int, cacheratio int) {
	if cachesize <= 0 {
		cachesize = len(b.nodes)/5 + 1
	}
	b.applytable.cacheinit(cachesize, cacheratio)
	b.itetable.cacheinit(cachesize, cacheratio)
	b.quanttable.cacheinit(cachesize, cacheratio)
	b.appextable.cacheinit(cachesize, cacheratio)
}

func (b *BDD) cachereset() {
	b.applytable.cachereset()
	b.itetable.cachereset()
	b.quanttable.cachereset()
	b.appextable.cachereset()
}

func (b *BDD) cacheresize() {
	b.applytable.cacheresize(len(b.nodes))
	b.itetable.cacheresize(len(b.nodes))
	b.quanttable.cacheresize(len(b.nodes))
	b.appextable.cacheresize(len(b.nodes))
}

// ************************************************************
//
// Quantification Cache
//

// quantset2cache takes a variable list, similar to the ones generated with
// Makeset, and set the variables in the quantification cache.
func (b *BDD) quantset2cache(n int) error {
	if n < 2 {
		b.seterror("illegal variable (%d) in varset to cache", n)
		return b.error
	}
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
	for i := n; i > 1; i = b.nodes[i].high {
		b.quantset[b.nodes[i].level] = b.quantsetID
		b.quantlast = b.nodes[i].level
	}
	return nil
}

// ************************************************************
// Hash functions

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR64(uint64(c), _PAIR(a, b, len), uint64(len)))
}

// _PAIR is a mapping function that maps (bijectively) a pair of integer (a, b)
// into a unique integer, modulo len.
func _PAIR(a, b, len int) uint64 {
	return (((uint64(a+b) * uint64(a+b+1)) / 2) + uint64(a)) % uint64(len)
}

func _PAIR64(a, b, len uint64) uint64 {
	return (((((a + b) % len) * ((a + b + 1) % len)) / 2) + a) % len
}

// ************************************************************

// The hash function for operation Not(n) is simply n. We share the apply cache.

func (b *BDD) matchnot(n int) int {
	entry := b.applytable.table[n%len(b.applytable.table)]
	if entry.a == n && entry.c == int(opNot) {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setnot(n int, res int) int {
	if res < 0 {
		return -1
	}
	b.applytable.table[n%len(b.applytable.table)] = cacheData{
		a:   n,
		c:   int(opNot),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for Apply is #(left, right, applyop).

func (b *BDD) matchapply(left, right int) int {
	entry := b.applytable.table[_TRIPLE(left, right, int(b.applyop), len(b.applytable.table))]
	if entry.a == left && entry.b == right && entry.c == int(b.applyop) {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setapply(left, right, res int) int {
	if res < 0 {
		return -1
	}
	b.applytable.table[_TRIPLE(left, right, int(b.applyop), len(b.applytable.table))] = cacheData{
		a:   left,
		b:   right,
		c:   int(b.applyop),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for ITE is #(f,g,h).

func (b *BDD) matchite(f, g, h int) int {
	entry := b.itetable.table[_TRIPLE(f, g, h, len(b.itetable.table))]
	if entry.a == f && entry.b == g && entry.c == h {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setite(f, g, h, res int) int {
	if res < 0 {
		return -1
	}
	b.itetable.table[_TRIPLE(f, g, h, len(b.itetable.table))] = cacheData{
		a:   f,
		b:   g,
		c:   h,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for quantification is #(n, varset). The id distinguishes
// between existential and universal quantification.

func (b *BDD) matchquant(n, varset int) int {
	entry := b.quanttable.table[int(_PAIR(n, varset, len(b.quanttable.table)))]
	if entry.a == n && entry.b == varset && entry.c == b.quantid {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setquant(n, varset, res int) int {
	if res < 0 {
		return -1
	}
	b.quanttable.table[int(_PAIR(n, varset, len(b.quanttable.table)))] = cacheData{
		a:   n,
		b:   varset,
		c:   b.quantid,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for AppEx is #(left, right); appexid encodes the varset and
// the operator.

func (b *BDD) matchappex(left, right int) int {
	entry := b.appextable.table[int(_PAIR(left, right, len(b.appextable.table)))]
	if entry.a == left && entry.b == right && entry.c == b.appexid {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setappex(left, right, res int) int {
	if res < 0 {
		return -1
	}
	b.appextable.table[int(_PAIR(left, right, len(b.appextable.table)))] = cacheData{
		a:   left,
		b:   right,
		c:   b.appexid,
		res: res,
	}
	return res
}

// ************************************************************

// String prints information about the cache performance. The information
// contains the number of accesses to the unique node table, the number of times
// a node was (not) found there. Hit and miss count is also given for the
// operator caches.
func (c cacheStat) String() string {
	res := fmt.Sprintf("Unique Access:  %d\n", c.uniqueAccess)
	res += fmt.Sprintf("Unique Hit:     %d\n", c.uniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d\n", c.uniqueMiss)
	res += fmt.Sprintf("Operator Hits:  %d\n", c.opHit)
	res += fmt.Sprintf("Operator Miss:  %d", c.opMiss)
	return res
}

// ************************************************************
// functions for Prime number calculations, used to size the caches

func hasFactor(src int, n int) bool {
	return (src != n) && (src%n == 0)
}

func hasEasyFactors(src int) bool {
	return hasFactor(src, 3) || hasFactor(src, 5) || hasFactor(src, 7) || hasFactor(src, 11) || hasFactor(src, 13)
}

// primeGte returns the smallest prime greater or equal to src.
func primeGte(src int) int {
	if src < 3 {
		return 3
	}
	if src%2 == 0 {
		src++
	}
	for {
		if hasEasyFactors(src) {
			src = src + 2
			continue
		}
		// ProbablyPrime is 100% accurate for inputs less than 2⁶⁴.
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src = src + 2
	}
}
