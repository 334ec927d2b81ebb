// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

var errEnough = errors.New("enough vertices")

// printVertices writes at most limit vertices of set, one per line, as the
// values of the network variables. A negative limit prints all of them.
func printVertices(w io.Writer, g *symbolic.AsyncGraph, set symbolic.VertexSet, limit int) error {
	names := make([]string, 0, g.NumVars())
	for _, v := range g.Variables() {
		names = append(names, g.Network().Name(v))
	}
	fmt.Fprintf(w, "# %s\n", strings.Join(names, " "))
	count := 0
	err := set.Each(func(state []bool) error {
		if limit >= 0 && count >= limit {
			return errEnough
		}
		count++
		var b strings.Builder
		for _, x := range state {
			if x {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		fmt.Fprintln(w, b.String())
		return nil
	})
	if err == errEnough {
		fmt.Fprintf(w, "# ... (%g vertices)\n", set.ApproxCardinality())
		return nil
	}
	return err
}

// parseSubspace reads a list of assignments like "a=1,b=0".
func parseSubspace(bn *network.BooleanNetwork, s string) (map[network.VariableID]bool, error) {
	res := map[network.VariableID]bool{}
	if strings.TrimSpace(s) == "" {
		return res, nil
	}
	for _, part := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, errors.Errorf("invalid assignment %q, expected name=0 or name=1", part)
		}
		v, found := bn.Find(strings.TrimSpace(name))
		if !found {
			return nil, errors.Errorf("unknown variable %q", name)
		}
		switch strings.TrimSpace(value) {
		case "0", "false":
			res[v] = false
		case "1", "true":
			res[v] = true
		default:
			return nil, errors.Errorf("invalid value %q for %s", value, name)
		}
	}
	return res, nil
}

// writeDot writes the BDD b to the file path, if any, in the DOT format.
func writeDot(path string, b symbolic.Bdd) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.Dot(f); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return f.Close()
}
