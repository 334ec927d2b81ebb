// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package algo holds what is shared by the analysis algorithms: their
// configuration, the cancellation handlers, the error kinds with partial
// results and a size aware logging helper.
package algo

import (
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

// Config is the configuration of an algorithm. Use New with a list of options
// to build one; fields not set by an option keep their default value.
type Config struct {
	Graph *symbolic.AsyncGraph
	// Restriction is the candidate set (for fixed points and attractors) or
	// the subgraph (for reachability). Nil means unrestricted.
	Restriction *symbolic.ColoredVertexSet
	// Variables are the variables whose transitions are considered. Nil means
	// all the variables of the graph.
	Variables    []network.VariableID
	BddSizeLimit int
	StepsLimit   int
	Cancellation Handler
	Logger       log.FieldLogger
}

// Option is the type of functions that modify a configuration.
type Option func(*Config)

// New returns the configuration for graph with default values: no
// restriction, all variables, unbounded limits, a handler that never cancels
// and the standard logrus logger.
func New(graph *symbolic.AsyncGraph, options ...Option) *Config {
	cfg := &Config{
		Graph:        graph,
		BddSizeLimit: math.MaxInt,
		StepsLimit:   math.MaxInt,
		Cancellation: Never,
		Logger:       log.StandardLogger(),
	}
	for _, f := range options {
		f(cfg)
	}
	return cfg
}

// Restriction sets the candidate set, or subgraph, of the algorithm.
func Restriction(set symbolic.ColoredVertexSet) Option {
	return func(c *Config) {
		c.Restriction = &set
	}
}

// Variables restricts the transitions to the ones of the given variables.
func Variables(vars ...network.VariableID) Option {
	return func(c *Config) {
		c.Variables = append([]network.VariableID(nil), vars...)
	}
}

// BddSizeLimit sets the maximal number of BDD nodes of intermediate results.
// Values less than or equal to zero are ignored.
func BddSizeLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.BddSizeLimit = limit
		}
	}
}

// StepsLimit sets the maximal number of steps of iterative algorithms. Values
// less than or equal to zero are ignored.
func StepsLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.StepsLimit = limit
		}
	}
}

// Cancellation sets the cancellation handler.
func Cancellation(h Handler) Option {
	return func(c *Config) {
		if h != nil {
			c.Cancellation = h
		}
	}
}

// Logger sets the logger used to report progress.
func Logger(l log.FieldLogger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// SortedVariables returns the variables of the configuration, in increasing
// order and without duplicates.
func (c *Config) SortedVariables() []network.VariableID {
	if c.Variables == nil {
		return c.Graph.Variables()
	}
	res := append([]network.VariableID(nil), c.Variables...)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	k := 0
	for i, v := range res {
		if i == 0 || v != res[k-1] {
			res[k] = v
			k++
		}
	}
	return res[:k]
}

// Candidates returns the restriction, or all the colored vertices of the
// graph if there is none.
func (c *Config) Candidates() symbolic.ColoredVertexSet {
	if c.Restriction == nil {
		return c.Graph.UnitColoredVertices()
	}
	return *c.Restriction
}

// StartTimer starts the timer of the cancellation handler.
func (c *Config) StartTimer() {
	c.Cancellation.StartTimer()
}

// Check polls the cancellation handler, see the function Check.
func (c *Config) Check(partial func() Partial) error {
	return Check(c.Cancellation, partial)
}

// Log returns a logger entry for the given target, for instance
// "fixedpoints.symbolic".
func (c *Config) Log(target string) *log.Entry {
	return c.Logger.WithField("target", target)
}
