// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package symbolic encodes a partially specified Boolean network into BDDs and
// provides the typed symbolic sets (colored vertices, vertices, colors) and the
// asynchronous transition graph used by the analysis algorithms.
//
// A Context owns a single BDD manager. Sets built from the same context are
// immutable values that can be freely copied, but a context (and therefore all
// its sets) must not be used by several goroutines at the same time.
package symbolic

import (
	"github.com/pkg/errors"

	"github.com/dalzilio/pbn/bdd"
	"github.com/dalzilio/pbn/network"
)

// maxTableArity is the maximal number of arguments of a parameter (implicit or
// explicit). A parameter of arity k is encoded with 2^k BDD variables.
const maxTableArity = 16

// table is the encoding of an uninterpreted Boolean function of a given arity:
// row k of the truth table is the BDD variable vars[k], where bit i of k is the
// value of the i-th argument.
type table struct {
	arity int
	vars  []int
}

// Context maps the variables and parameters of a network to BDD variables. The
// state variables come first, in the order of the network, followed by the
// tables of implicit parameters (one per variable without update function)
// and then by the tables of explicit parameters.
type Context struct {
	network    *network.BooleanNetwork
	bdd        *bdd.BDD
	stateVars  []int
	paramVars  []int
	implicit   map[network.VariableID]table
	explicit   []table
	updates    []bdd.Node
	stateSet   bdd.Node // varset of all state variables
	paramSet   bdd.Node // varset of all parameter variables
	singletons []bdd.Node
}

// NewContext builds the symbolic encoding of bn. Options are passed to the
// underlying BDD manager.
func NewContext(bn *network.BooleanNetwork, options ...bdd.Option) (*Context, error) {
	if bn.NumVars() == 0 {
		return nil, errors.New("cannot encode a network without variables")
	}
	ctx := &Context{
		network:  bn,
		implicit: make(map[network.VariableID]table),
	}
	next := 0
	newTable := func(arity int) (table, error) {
		if arity > maxTableArity {
			return table{}, errors.Errorf("parameter of arity %d is too large (max %d)", arity, maxTableArity)
		}
		t := table{arity: arity, vars: make([]int, 1<<arity)}
		for k := range t.vars {
			t.vars[k] = next
			ctx.paramVars = append(ctx.paramVars, next)
			next++
		}
		return t, nil
	}
	for range bn.Variables() {
		ctx.stateVars = append(ctx.stateVars, next)
		next++
	}
	for _, v := range bn.Variables() {
		if bn.UpdateFunction(v) != nil {
			continue
		}
		t, err := newTable(len(bn.Regulators(v)))
		if err != nil {
			return nil, errors.Wrapf(err, "implicit update function of %s", bn.Name(v))
		}
		ctx.implicit[v] = t
	}
	for _, p := range bn.Parameters() {
		t, err := newTable(p.Arity)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", p.Name)
		}
		ctx.explicit = append(ctx.explicit, t)
	}

	b, err := bdd.New(next, options...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create BDD")
	}
	ctx.bdd = b
	ctx.stateSet = b.Makeset(ctx.stateVars)
	ctx.paramSet = b.Makeset(ctx.paramVars)
	for _, v := range ctx.stateVars {
		ctx.singletons = append(ctx.singletons, b.Makeset([]int{v}))
	}
	for _, v := range bn.Variables() {
		ctx.updates = append(ctx.updates, ctx.mkUpdate(v))
	}
	if b.Errored() {
		return nil, errors.Errorf("cannot encode network: %s", b.Error())
	}
	return ctx, nil
}

// must returns n, or panics if the BDD manager is in error. Operations only
// fail when the node table cannot grow anymore (see bdd.Maxnodesize), which is
// a configuration error and not a recoverable condition of the algorithms.
func (ctx *Context) must(n bdd.Node) bdd.Node {
	if n == nil {
		panic(errors.Wrap(ctx.bdd.Err(), "symbolic operation failed"))
	}
	return n
}

// BDD returns the underlying BDD manager.
func (ctx *Context) BDD() *bdd.BDD {
	return ctx.bdd
}

// Network returns the encoded network.
func (ctx *Context) Network() *network.BooleanNetwork {
	return ctx.network
}

// NumVars returns the total number of BDD variables.
func (ctx *Context) NumVars() int {
	return ctx.bdd.Varnum()
}

// NumStateVars returns the number of state variables.
func (ctx *Context) NumStateVars() int {
	return len(ctx.stateVars)
}

// StateVariables returns the BDD variables encoding the state, one for each
// network variable and in the same order.
func (ctx *Context) StateVariables() []int {
	return append([]int(nil), ctx.stateVars...)
}

// StateVariable returns the BDD variable encoding network variable v.
func (ctx *Context) StateVariable(v network.VariableID) int {
	return ctx.stateVars[v]
}

// ParameterVariables returns the BDD variables encoding parameters (colors).
func (ctx *Context) ParameterVariables() []int {
	return append([]int(nil), ctx.paramVars...)
}

// MkStateVariableIs returns the raw BDD of states where v has the given value.
func (ctx *Context) MkStateVariableIs(v network.VariableID, value bool) Bdd {
	if value {
		return ctx.wrap(ctx.bdd.Ithvar(ctx.stateVars[v]))
	}
	return ctx.wrap(ctx.bdd.NIthvar(ctx.stateVars[v]))
}

// MkUpdateFunction returns the raw BDD of the update function of v, over the
// state and parameter variables.
func (ctx *Context) MkUpdateFunction(v network.VariableID) Bdd {
	return ctx.wrap(ctx.updates[v])
}

// MkConstant returns the raw constant BDD.
func (ctx *Context) MkConstant(value bool) Bdd {
	return ctx.wrap(ctx.bdd.From(value))
}

func (ctx *Context) mkUpdate(v network.VariableID) bdd.Node {
	if fn := ctx.network.UpdateFunction(v); fn != nil {
		return ctx.mkFn(fn)
	}
	args := []bdd.Node{}
	for _, r := range ctx.network.Regulators(v) {
		args = append(args, ctx.bdd.Ithvar(ctx.stateVars[r]))
	}
	return ctx.mkTable(ctx.implicit[v], args, 0, 0)
}

// mkTable returns the BDD of the uninterpreted function t applied to args,
// that is the disjunction over all rows of the table of (row matches args) &
// (row variable).
func (ctx *Context) mkTable(t table, args []bdd.Node, i int, offset int) bdd.Node {
	if i == len(args) {
		return ctx.bdd.Ithvar(t.vars[offset])
	}
	high := ctx.mkTable(t, args, i+1, offset+(1<<i))
	low := ctx.mkTable(t, args, i+1, offset)
	return ctx.bdd.Ite(args[i], high, low)
}

func (ctx *Context) mkFn(fn *network.Fn) bdd.Node {
	b := ctx.bdd
	switch fn.Kind {
	case network.FnConst:
		return b.From(fn.Value)
	case network.FnVar:
		return b.Ithvar(ctx.stateVars[fn.Var])
	case network.FnParam:
		args := make([]bdd.Node, len(fn.Args))
		for k, a := range fn.Args {
			args[k] = ctx.mkFn(a)
		}
		return ctx.mkTable(ctx.explicit[fn.Param], args, 0, 0)
	case network.FnNot:
		return b.Not(ctx.mkFn(fn.Args[0]))
	}
	left := ctx.mkFn(fn.Args[0])
	right := ctx.mkFn(fn.Args[1])
	switch fn.Kind {
	case network.FnAnd:
		return b.Apply(left, right, bdd.OPand)
	case network.FnOr:
		return b.Apply(left, right, bdd.OPor)
	case network.FnXor:
		return b.Xor(left, right)
	case network.FnImp:
		return b.Imp(left, right)
	}
	return b.Equiv(left, right)
}
