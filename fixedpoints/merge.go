// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package fixedpoints

import (
	"math"
	"sort"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/symbolic"
)

// mergeState is the bookkeeping of the greedy merge: the constraints that
// remain to be merged, the projections that remain to be applied and, for
// each projection, the constraints that depend on it.
type mergeState struct {
	ctx          *symbolic.Context
	pending      map[int]symbolic.Bdd
	merged       map[int]bool
	projections  []int // sorted
	dependencies map[int][]int
	result       symbolic.Bdd
}

// newMergeState computes the supports of the constraints, polling the
// cancellation handler of cfg after each one.
func newMergeState(cfg *algo.Config, toMerge []symbolic.Bdd, projections []int) (*mergeState, error) {
	ctx := cfg.Graph.Context()
	s := &mergeState{
		ctx:          ctx,
		pending:      make(map[int]symbolic.Bdd, len(toMerge)),
		merged:       make(map[int]bool, len(toMerge)),
		dependencies: make(map[int][]int, len(projections)),
		result:       ctx.MkConstant(true),
	}
	supports := make([]map[int]bool, len(toMerge))
	for id, set := range toMerge {
		s.pending[id] = set
		supports[id] = make(map[int]bool)
		for _, v := range set.Support() {
			supports[id][v] = true
		}
		if err := cfg.Check(s.partial); err != nil {
			return nil, err
		}
	}
	seen := make(map[int]bool, len(projections))
	for _, v := range projections {
		if seen[v] {
			continue
		}
		seen[v] = true
		s.projections = append(s.projections, v)
		deps := []int{}
		for id := range toMerge {
			if supports[id][v] {
				deps = append(deps, id)
			}
		}
		s.dependencies[v] = deps
	}
	sort.Ints(s.projections)
	return s, nil
}

func (s *mergeState) partial() algo.Partial {
	return s.result
}

// ready returns the remaining projections whose dependencies are all merged.
// They can be applied to the result immediately.
func (s *mergeState) ready() []int {
	res := []int{}
	for _, v := range s.projections {
		ok := true
		for _, id := range s.dependencies[v] {
			if !s.merged[id] {
				ok = false
				break
			}
		}
		if ok {
			res = append(res, v)
		}
	}
	return res
}

func (s *mergeState) project(v int) {
	s.result = s.result.Exist(v)
	k := sort.SearchInts(s.projections, v)
	s.projections = append(s.projections[:k], s.projections[k+1:]...)
}

// candidates returns the ids of pending constraints by decreasing size, the
// largest id first among constraints of the same size.
func (s *mergeState) candidates() []int {
	ids := make([]int, 0, len(s.pending))
	sizes := make(map[int]int, len(s.pending))
	for id, set := range s.pending {
		ids = append(ids, id)
		sizes[id] = set.SymbolicSize()
	}
	sort.Slice(ids, func(i, j int) bool {
		if sizes[ids[i]] != sizes[ids[j]] {
			return sizes[ids[i]] > sizes[ids[j]]
		}
		return ids[i] > ids[j]
	})
	return ids
}

func (s *mergeState) commit(id int, res symbolic.Bdd) {
	s.result = res
	delete(s.pending, id)
	s.merged[id] = true
}

func (s *mergeState) pendingSize() int {
	total := 0
	for _, set := range s.pending {
		total += set.SymbolicSize()
	}
	return total
}

// Merge computes the conjunction of toMerge, existentially projected over the
// BDD variables in projections. Projections are applied as soon as every
// constraint that depends on them is merged, and at each step we greedily
// merge the constraint that gives the smallest intermediate result. Candidate
// merges use a bounded conjunction, so a candidate is abandoned as soon as it
// is known to be worse than the best one so far.
//
// The target is the name used in logs. Merge fails with BddSizeLimitExceeded
// when the size of the result plus the sizes of the remaining constraints
// exceeds the limit of the configuration, and with Cancelled when the handler
// fires; in both cases the error carries the current result.
func (f *FixedPoints) Merge(toMerge []symbolic.Bdd, projections []int, target string) (symbolic.Bdd, error) {
	cfg := f.cfg
	entry := cfg.Log(target)
	s, err := newMergeState(cfg, toMerge, projections)
	if err != nil {
		return cfg.Graph.Context().MkConstant(true), err
	}
	if err := cfg.Check(s.partial); err != nil {
		return s.result, err
	}

	for len(s.pending) > 0 || len(s.projections) > 0 {
		for _, v := range s.ready() {
			s.project(v)
			if err := cfg.Check(s.partial); err != nil {
				return s.result, err
			}
			algo.DebugWithLimit(entry, s.result.SymbolicSize(),
				" > Projection. New result has %d BDD nodes. Remaining projections: %d.",
				s.result.SymbolicSize(), len(s.projections))
		}

		bestID, bestSize := -1, math.MaxInt
		var best symbolic.Bdd
		for _, id := range s.candidates() {
			res, ok := s.pending[id].AndWithLimit(bestSize, s.result)
			if err := cfg.Check(s.partial); err != nil {
				return s.result, err
			}
			if ok {
				best, bestID, bestSize = res, id, res.SymbolicSize()
			}
		}
		// happens in the last iterations, when only projections remain
		if bestID < 0 {
			continue
		}

		s.commit(bestID, best)
		if s.pendingSize()+bestSize > cfg.BddSizeLimit {
			entry.Info("Exceeded BDD size limit.")
			return s.result, algo.Fail(algo.BddSizeLimitExceeded, s.result)
		}
		if s.result.IsFalse() {
			return s.ctx.MkConstant(false), nil
		}
		algo.DebugWithLimit(entry, s.result.SymbolicSize(),
			" > Merge. New result has %d BDD nodes. Remaining constraints: %d.",
			s.result.SymbolicSize(), len(s.pending))
	}

	if err := cfg.Check(s.partial); err != nil {
		return s.result, err
	}
	entry.Infof("Merge finished with %d BDD nodes.", s.result.SymbolicSize())
	return s.result, nil
}
