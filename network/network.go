// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package network defines partially specified Boolean networks: a regulatory
// graph over named variables, together with update functions that may refer to
// uninterpreted parameters (explicit parameters), or be missing altogether
// (implicit parameters).
package network

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// VariableID is the index of a variable in a BooleanNetwork. Variables are
// numbered from 0 in the order of their declaration.
type VariableID int

// ParameterID is the index of an explicit parameter in a BooleanNetwork.
type ParameterID int

// Monotonicity is the sign of a regulation.
type Monotonicity int

const (
	Unspecified Monotonicity = iota // no constraint on the sign
	Activation                      // the regulator can only activate the target
	Inhibition                      // the regulator can only inhibit the target
)

func (m Monotonicity) String() string {
	switch m {
	case Activation:
		return "activation"
	case Inhibition:
		return "inhibition"
	}
	return "unspecified"
}

// Regulation is an edge of the regulatory graph. An observable regulation must
// have an effect on its target for at least one state.
type Regulation struct {
	Regulator    VariableID
	Target       VariableID
	Observable   bool
	Monotonicity Monotonicity
}

// Parameter is an explicit, uninterpreted Boolean function that can be used in
// update functions.
type Parameter struct {
	Name  string
	Arity int
}

// BooleanNetwork is a regulatory graph with (optional) update functions. A
// variable with a nil update function is implicit: its update function is an
// unknown function of its regulators.
type BooleanNetwork struct {
	names       []string
	index       map[string]VariableID
	regulations []Regulation
	parameters  []Parameter
	paramIndex  map[string]ParameterID
	functions   []*Fn
}

// New returns a network with the given variables, no regulations and no
// update functions. Variable names must be unique identifiers.
func New(names ...string) (*BooleanNetwork, error) {
	bn := &BooleanNetwork{
		index:      make(map[string]VariableID, len(names)),
		paramIndex: make(map[string]ParameterID),
	}
	for _, name := range names {
		if _, err := bn.AddVariable(name); err != nil {
			return nil, err
		}
	}
	return bn, nil
}

// AddVariable declares a new variable and returns its identifier.
func (bn *BooleanNetwork) AddVariable(name string) (VariableID, error) {
	if !isIdentifier(name) {
		return 0, errors.Errorf("invalid variable name %q", name)
	}
	if _, ok := bn.index[name]; ok {
		return 0, errors.Errorf("variable %q declared twice", name)
	}
	if _, ok := bn.paramIndex[name]; ok {
		return 0, errors.Errorf("variable %q clashes with a parameter", name)
	}
	id := VariableID(len(bn.names))
	bn.names = append(bn.names, name)
	bn.index[name] = id
	bn.functions = append(bn.functions, nil)
	return id, nil
}

// AddRegulation adds an edge to the regulatory graph. There can be at most one
// regulation between two variables.
func (bn *BooleanNetwork) AddRegulation(r Regulation) error {
	if !bn.valid(r.Regulator) || !bn.valid(r.Target) {
		return errors.Errorf("unknown variable in regulation %v", r)
	}
	if _, ok := bn.FindRegulation(r.Regulator, r.Target); ok {
		return errors.Errorf("regulation %s -> %s declared twice", bn.names[r.Regulator], bn.names[r.Target])
	}
	bn.regulations = append(bn.regulations, r)
	return nil
}

// AddParameter declares an explicit parameter. A parameter used twice must
// always have the same arity.
func (bn *BooleanNetwork) AddParameter(name string, arity int) (ParameterID, error) {
	if id, ok := bn.paramIndex[name]; ok {
		if bn.parameters[id].Arity != arity {
			return 0, errors.Errorf("parameter %s used with arity %d and %d", name, bn.parameters[id].Arity, arity)
		}
		return id, nil
	}
	if _, ok := bn.index[name]; ok {
		return 0, errors.Errorf("parameter %q clashes with a variable", name)
	}
	id := ParameterID(len(bn.parameters))
	bn.parameters = append(bn.parameters, Parameter{Name: name, Arity: arity})
	bn.paramIndex[name] = id
	return id, nil
}

// SetUpdateFunction sets the update function of variable v. A nil function
// makes the variable implicit.
func (bn *BooleanNetwork) SetUpdateFunction(v VariableID, fn *Fn) error {
	if !bn.valid(v) {
		return errors.Errorf("unknown variable %d", v)
	}
	bn.functions[v] = fn
	return nil
}

func (bn *BooleanNetwork) valid(v VariableID) bool {
	return v >= 0 && int(v) < len(bn.names)
}

// NumVars returns the number of variables.
func (bn *BooleanNetwork) NumVars() int {
	return len(bn.names)
}

// Variables returns all variable identifiers, in increasing order.
func (bn *BooleanNetwork) Variables() []VariableID {
	res := make([]VariableID, len(bn.names))
	for k := range res {
		res[k] = VariableID(k)
	}
	return res
}

// Name returns the name of variable v.
func (bn *BooleanNetwork) Name(v VariableID) string {
	return bn.names[v]
}

// Find returns the identifier of the variable with the given name.
func (bn *BooleanNetwork) Find(name string) (VariableID, bool) {
	v, ok := bn.index[name]
	return v, ok
}

// Parameters returns the explicit parameters of the network.
func (bn *BooleanNetwork) Parameters() []Parameter {
	return append([]Parameter(nil), bn.parameters...)
}

// FindParameter returns the identifier of the explicit parameter with the given
// name.
func (bn *BooleanNetwork) FindParameter(name string) (ParameterID, bool) {
	p, ok := bn.paramIndex[name]
	return p, ok
}

// Regulations returns all the regulations of the network.
func (bn *BooleanNetwork) Regulations() []Regulation {
	return append([]Regulation(nil), bn.regulations...)
}

// FindRegulation returns the regulation between regulator and target, if any.
func (bn *BooleanNetwork) FindRegulation(regulator, target VariableID) (Regulation, bool) {
	for _, r := range bn.regulations {
		if r.Regulator == regulator && r.Target == target {
			return r, true
		}
	}
	return Regulation{}, false
}

// Regulators returns the sorted list of regulators of variable v.
func (bn *BooleanNetwork) Regulators(v VariableID) []VariableID {
	res := []VariableID{}
	for _, r := range bn.regulations {
		if r.Target == v {
			res = append(res, r.Regulator)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// UpdateFunction returns the update function of v, or nil if v is implicit.
func (bn *BooleanNetwork) UpdateFunction(v VariableID) *Fn {
	return bn.functions[v]
}

// Validate checks that update functions only refer to declared regulators of
// their target, and that parameters are applied with their declared arity.
func (bn *BooleanNetwork) Validate() error {
	for v, fn := range bn.functions {
		if fn == nil {
			continue
		}
		regulators := make(map[VariableID]bool)
		for _, r := range bn.Regulators(VariableID(v)) {
			regulators[r] = true
		}
		var err error
		fn.walk(func(f *Fn) {
			if err != nil {
				return
			}
			switch f.Kind {
			case FnVar:
				if !bn.valid(f.Var) {
					err = errors.Errorf("unknown variable %d", f.Var)
				} else if !regulators[f.Var] {
					err = errors.Errorf("%s is not a regulator of %s", bn.names[f.Var], bn.names[v])
				}
			case FnParam:
				if int(f.Param) >= len(bn.parameters) || f.Param < 0 {
					err = errors.Errorf("unknown parameter %d", f.Param)
				} else if p := bn.parameters[f.Param]; p.Arity != len(f.Args) {
					err = errors.Errorf("parameter %s has arity %d but is applied to %d arguments", p.Name, p.Arity, len(f.Args))
				}
			}
		})
		if err != nil {
			return errors.Wrapf(err, "in update function of %s", bn.names[v])
		}
	}
	return nil
}

// InferRegulatoryGraph adds a regulation, with no sign and not observable, for
// each variable used in an update function and not declared as a regulator.
// This is used for formats, such as .bnet, that have no explicit regulatory
// graph; the update functions are fixed, so the regulations carry no
// constraint.
func (bn *BooleanNetwork) InferRegulatoryGraph() {
	for v, fn := range bn.functions {
		if fn == nil {
			continue
		}
		for _, r := range fn.Variables() {
			if _, ok := bn.FindRegulation(r, VariableID(v)); !ok {
				bn.regulations = append(bn.regulations, Regulation{
					Regulator:    r,
					Target:       VariableID(v),
					Observable:   false,
					Monotonicity: Unspecified,
				})
			}
		}
	}
}

// String returns a short description of the network.
func (bn *BooleanNetwork) String() string {
	return fmt.Sprintf("BooleanNetwork(variables = %d, parameters = %d, regulations = %d)",
		len(bn.names), len(bn.parameters), len(bn.regulations))
}

func isIdentifier(name string) bool {
	if name == "" || name == "true" || name == "false" {
		return false
	}
	for k, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case k > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
