// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package algo

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the reason why an algorithm stopped before completion.
type Kind int

const (
	// Cancelled means that the cancellation handler fired.
	Cancelled Kind = iota + 1
	// StepsLimitExceeded means that the algorithm needed more steps than
	// allowed by the configuration.
	StepsLimitExceeded
	// BddSizeLimitExceeded means that an intermediate result grew larger than
	// the configured number of BDD nodes.
	BddSizeLimitExceeded
	// InvalidSubgraph means that the restriction set is not compatible with
	// the initial states. It carries no partial result.
	InvalidSubgraph
)

func (k Kind) String() string {
	switch k {
	case Cancelled:
		return "operation cancelled"
	case StepsLimitExceeded:
		return "steps limit exceeded"
	case BddSizeLimitExceeded:
		return "BDD size limit exceeded"
	case InvalidSubgraph:
		return "subgraph set not compatible with the given graph or initial states"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Partial is the best result computed by an algorithm before it stopped. All
// the symbolic sets implement it.
type Partial interface {
	ApproxCardinality() float64
	SymbolicSize() int
}

// Error is returned by the analysis algorithms when they cannot complete. The
// partial result is never printed in full, only its size.
type Error struct {
	Kind    Kind
	Partial Partial
}

// Fail returns a new error of the given kind.
func Fail(kind Kind, partial Partial) error {
	return &Error{Kind: kind, Partial: partial}
}

func (e *Error) Error() string {
	if e.Partial == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s (partial result: %g elements, %d BDD nodes)",
		e.Kind, e.Partial.ApproxCardinality(), e.Partial.SymbolicSize())
}

// KindOf returns the kind of the first Error in the chain of err, or 0 if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// PartialOf returns the partial result carried by err, if any.
func PartialOf(err error) (Partial, bool) {
	var e *Error
	if errors.As(err, &e) && e.Partial != nil {
		return e.Partial, true
	}
	return nil, false
}

// IsCancelled reports whether err was caused by a cancellation.
func IsCancelled(err error) bool {
	return KindOf(err) == Cancelled
}

// Check polls h and returns a Cancelled error with the value returned by
// partial if the computation must stop. The partial result is only computed
// in that case.
func Check(h Handler, partial func() Partial) error {
	if !h.IsCancelled() {
		return nil
	}
	return &Error{Kind: Cancelled, Partial: partial()}
}
