// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package network

import (
	"sort"
	"strings"
)

// FnKind is the kind of a node in the syntax tree of an update function.
type FnKind int

const (
	FnConst FnKind = iota // Boolean constant (Value)
	FnVar                 // network variable (Var)
	FnParam               // application of an explicit parameter (Param, Args)
	FnNot                 // negation of Args[0]
	FnAnd                 // conjunction of Args[0] and Args[1]
	FnOr                  // disjunction
	FnXor                 // exclusive or
	FnImp                 // implication
	FnIff                 // equivalence
)

var fnSymbols = map[FnKind]string{
	FnAnd: "&",
	FnOr:  "|",
	FnXor: "^",
	FnImp: "=>",
	FnIff: "<=>",
}

// Fn is the syntax tree of an update function.
type Fn struct {
	Kind  FnKind
	Value bool
	Var   VariableID
	Param ParameterID
	Args  []*Fn
}

// Const returns a constant update function.
func Const(value bool) *Fn {
	return &Fn{Kind: FnConst, Value: value}
}

// Var returns the update function that copies variable v.
func Var(v VariableID) *Fn {
	return &Fn{Kind: FnVar, Var: v}
}

// Param returns the application of parameter p to the given arguments.
func Param(p ParameterID, args ...*Fn) *Fn {
	return &Fn{Kind: FnParam, Param: p, Args: args}
}

// Not returns the negation of f.
func Not(f *Fn) *Fn {
	return &Fn{Kind: FnNot, Args: []*Fn{f}}
}

// Binary returns the binary operation kind applied to left and right.
func Binary(kind FnKind, left, right *Fn) *Fn {
	return &Fn{Kind: kind, Args: []*Fn{left, right}}
}

// walk calls visit on every node of f, in prefix order.
func (f *Fn) walk(visit func(*Fn)) {
	visit(f)
	for _, a := range f.Args {
		a.walk(visit)
	}
}

// Variables returns the sorted list of network variables occurring in f.
func (f *Fn) Variables() []VariableID {
	seen := make(map[VariableID]bool)
	f.walk(func(g *Fn) {
		if g.Kind == FnVar {
			seen[g.Var] = true
		}
	})
	res := make([]VariableID, 0, len(seen))
	for v := range seen {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Format returns a textual representation of f using the variable and
// parameter names of bn. The result can be parsed back with ParseFn.
func (f *Fn) Format(bn *BooleanNetwork) string {
	var sb strings.Builder
	f.format(bn, &sb)
	return sb.String()
}

func (f *Fn) format(bn *BooleanNetwork, sb *strings.Builder) {
	switch f.Kind {
	case FnConst:
		if f.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case FnVar:
		sb.WriteString(bn.Name(f.Var))
	case FnParam:
		sb.WriteString(bn.parameters[f.Param].Name)
		if len(f.Args) > 0 {
			sb.WriteByte('(')
			for k, a := range f.Args {
				if k > 0 {
					sb.WriteString(", ")
				}
				a.format(bn, sb)
			}
			sb.WriteByte(')')
		}
	case FnNot:
		sb.WriteByte('!')
		f.Args[0].format(bn, sb)
	default:
		sb.WriteByte('(')
		f.Args[0].format(bn, sb)
		sb.WriteString(" " + fnSymbols[f.Kind] + " ")
		f.Args[1].format(bn, sb)
		sb.WriteByte(')')
	}
}
