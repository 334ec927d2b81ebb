// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package attractor

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/pbn/algo"
	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/reach"
	"github.com/dalzilio/pbn/symbolic"
)

// process is a unit of work managed by a scheduler. Its weight approximates
// how hard it is to work with its intermediate results.
type process interface {
	// step performs a few symbolic operations and returns true when the
	// process is finished.
	step(s *scheduler) (bool, error)
	weight() int
	// discard removes states that are known not to be part of any attractor.
	discard(set symbolic.ColoredVertexSet)
}

type weighted struct {
	weight int
	p      process
}

// scheduler keeps the universe of remaining candidate states, the variables
// that still have transitions in this universe, and the running processes.
// Discarded states are accumulated and pushed to all the processes before the
// next step.
type scheduler struct {
	cfg       *algo.Config
	graph     *symbolic.AsyncGraph
	log       *log.Entry
	active    []network.VariableID
	universe  symbolic.ColoredVertexSet
	processes []weighted
	toDiscard *symbolic.ColoredVertexSet
}

func newScheduler(cfg *algo.Config, initial symbolic.ColoredVertexSet, vars []network.VariableID) *scheduler {
	return &scheduler{
		cfg:      cfg,
		graph:    cfg.Graph,
		log:      cfg.Log(targetReduce),
		active:   append([]network.VariableID(nil), vars...),
		universe: initial,
	}
}

func (s *scheduler) discardVariable(v network.VariableID) {
	for k, w := range s.active {
		if w == v {
			s.active = append(s.active[:k], s.active[k+1:]...)
			return
		}
	}
}

func (s *scheduler) discardVertices(set symbolic.ColoredVertexSet) {
	s.universe = s.universe.Minus(set)
	if s.toDiscard == nil {
		s.toDiscard = &set
		return
	}
	union := s.toDiscard.Union(set)
	s.toDiscard = &union
}

func (s *scheduler) spawn(p process) {
	s.processes = append(s.processes, weighted{p.weight(), p})
}

func (s *scheduler) done() bool {
	return len(s.processes) == 0
}

// backward is the backward reachability inside the current universe, with
// the active variables.
func (s *scheduler) backward(initial symbolic.ColoredVertexSet) (symbolic.ColoredVertexSet, error) {
	return reach.Backward(s.graph, initial, s.universe, s.active, s.cfg.Cancellation)
}

// step performs one step of the lightest process.
func (s *scheduler) step() error {
	if s.done() {
		return nil
	}
	if s.toDiscard != nil {
		for k := range s.processes {
			s.processes[k].p.discard(*s.toDiscard)
			s.processes[k].weight = s.processes[k].p.weight()
		}
		s.toDiscard = nil
	}
	// the lightest process goes last
	sort.SliceStable(s.processes, func(i, j int) bool {
		return s.processes[i].weight > s.processes[j].weight
	})
	last := len(s.processes) - 1
	p := s.processes[last].p
	s.processes = s.processes[:last]
	finished, err := p.step(s)
	if err != nil {
		return err
	}
	if !finished {
		s.spawn(p)
	}
	return nil
}

// ************************************************************

// reachProcess is a forward or backward saturation inside a fixed universe.
type reachProcess struct {
	set      symbolic.ColoredVertexSet
	universe symbolic.ColoredVertexSet
	forward  bool
}

func (p *reachProcess) step(s *scheduler) (bool, error) {
	image := s.graph.VarPre
	name := "BWD"
	if p.forward {
		image = s.graph.VarPost
		name = "FWD"
	}
	var done bool
	p.set, done = reach.Step(p.set, p.universe, s.active, image)
	algo.DebugWithLimit(s.log, p.set.SymbolicSize(),
		" >> [%s process] Reachability progress: %g[nodes:%d] candidates.",
		name, p.set.ApproxCardinality(), p.set.SymbolicSize())
	return done, nil
}

func (p *reachProcess) weight() int {
	return p.set.SymbolicSize()
}

func (p *reachProcess) discard(set symbolic.ColoredVertexSet) {
	p.universe = p.universe.Minus(set)
	p.set = p.set.Minus(set)
}

// reachableProcess computes the states reachable from the states where a
// variable can change. Once done, the states that can reach this set but are
// not in it cannot be in an attractor, and it starts the computation of the
// extended component.
type reachableProcess struct {
	variable network.VariableID
	fwd      *reachProcess
}

func newReachableProcess(v network.VariableID, s *scheduler) *reachableProcess {
	return &reachableProcess{
		variable: v,
		fwd: &reachProcess{
			set:      s.graph.VarCanPost(v, s.universe),
			universe: s.universe,
			forward:  true,
		},
	}
}

func (p *reachableProcess) step(s *scheduler) (bool, error) {
	done, err := p.fwd.step(s)
	if err != nil || !done {
		return false, err
	}
	fwdSet := p.fwd.set
	name := s.graph.Network().Name(p.variable)
	if !fwdSet.Equal(s.universe) {
		algo.DebugWithLimit(s.log, fwdSet.SymbolicSize(),
			" > Completed forward-reachability for %s transitions. Start pruning the basin...", name)
		basin, err := s.backward(fwdSet)
		if err != nil {
			return false, err
		}
		basinOnly := basin.Minus(fwdSet)
		s.log.Debugf(" > Discarded %g instances using the %s transition basin.", basinOnly.ApproxCardinality(), name)
		if !basinOnly.IsEmpty() {
			s.discardVertices(basinOnly)
		}
	} else {
		algo.DebugWithLimit(s.log, fwdSet.SymbolicSize(),
			" > Completed forward-reachability for %s transitions. Basin is empty.", name)
	}
	s.spawn(newExtendedComponentProcess(p.variable, fwdSet, s))
	return true, nil
}

func (p *reachableProcess) weight() int {
	return p.fwd.weight()
}

func (p *reachableProcess) discard(set symbolic.ColoredVertexSet) {
	p.fwd.discard(set)
}

// extendedComponentProcess computes, inside a forward closed set, the states
// that can reach a transition of a variable. The rest of the forward set is a
// bottom region: what can only reach it, without being in it, is discarded.
type extendedComponentProcess struct {
	variable network.VariableID
	fwdSet   symbolic.ColoredVertexSet
	bwd      *reachProcess
}

func newExtendedComponentProcess(v network.VariableID, fwdSet symbolic.ColoredVertexSet, s *scheduler) *extendedComponentProcess {
	return &extendedComponentProcess{
		variable: v,
		fwdSet:   fwdSet,
		bwd: &reachProcess{
			set:      s.graph.VarCanPost(v, s.universe),
			universe: fwdSet,
		},
	}
}

func (p *extendedComponentProcess) step(s *scheduler) (bool, error) {
	done, err := p.bwd.step(s)
	if err != nil || !done {
		return false, err
	}
	g := s.graph
	name := g.Network().Name(p.variable)
	component := p.bwd.set
	bottom := p.fwdSet.Minus(component)
	algo.DebugWithLimit(s.log, component.SymbolicSize(),
		" > Completed extended component for %s transitions.", name)

	// When the forward set is not closed in the whole graph, reaching one of
	// the states outside of the universe is enough to prove that there is no
	// attractor, so they are added to the bottom region.
	for _, v := range g.Variables() {
		if !g.VarCanPostOut(v, p.fwdSet).IsEmpty() {
			bottom = bottom.Union(g.UnitColoredVertices().Minus(s.universe))
			break
		}
	}

	if !bottom.IsEmpty() {
		algo.DebugWithLimit(s.log, bottom.SymbolicSize(),
			" > Start pruning the basin of %s extended component.", name)
		basin, err := s.backward(bottom)
		if err != nil {
			return false, err
		}
		basinOnly := basin.Minus(bottom)
		s.log.Debugf(" > Discarded %g instances based on the %s extended component.", basinOnly.ApproxCardinality(), name)
		if !basinOnly.IsEmpty() {
			s.discardVertices(basinOnly)
		}
	}

	if g.VarCanPost(p.variable, s.universe).IsEmpty() {
		s.discardVariable(p.variable)
	}
	return true, nil
}

func (p *extendedComponentProcess) weight() int {
	return p.bwd.weight()
}

func (p *extendedComponentProcess) discard(set symbolic.ColoredVertexSet) {
	p.bwd.discard(set)
	p.fwdSet = p.fwdSet.Minus(set)
}
