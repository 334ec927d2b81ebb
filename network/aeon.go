// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package network

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// regulationRegexp matches lines such as "a -> b", "a -|? b" or "a -?? b".
var regulationRegexp = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*-(>|\||\?)(\?)?\s*([A-Za-z0-9_]+)\s*$`)

// functionRegexp matches lines such as "$a: b & !c".
var functionRegexp = regexp.MustCompile(`^\s*\$\s*([A-Za-z0-9_]+)\s*:(.*)$`)

type aeonLine struct {
	number int
	text   string
}

// ParseAeon reads a network in the .aeon format. Each line is either empty, a
// comment (starting with #), a regulation or an update function. A regulation
// is written "a -> b" (activation), "a -| b" (inhibition) or "a -? b" (no
// sign), followed by an extra "?" when the regulation is not observable. An
// update function is written "$b: expr", where identifiers that are not
// variables denote explicit parameters. Variables are sorted by name.
func ParseAeon(r io.Reader) (*BooleanNetwork, error) {
	var regulations, functions []aeonLine
	names := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "", strings.HasPrefix(text, "#"):
			continue
		case strings.HasPrefix(text, "$"):
			m := functionRegexp.FindStringSubmatch(text)
			if m == nil {
				return nil, errors.Errorf("line %d: malformed update function %q", number, text)
			}
			names[m[1]] = true
			functions = append(functions, aeonLine{number, text})
		default:
			m := regulationRegexp.FindStringSubmatch(text)
			if m == nil {
				return nil, errors.Errorf("line %d: malformed regulation %q", number, text)
			}
			names[m[1]] = true
			names[m[4]] = true
			regulations = append(regulations, aeonLine{number, text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read aeon model")
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	bn, err := New(sorted...)
	if err != nil {
		return nil, err
	}

	for _, l := range regulations {
		m := regulationRegexp.FindStringSubmatch(l.text)
		regulator, _ := bn.Find(m[1])
		target, _ := bn.Find(m[4])
		reg := Regulation{Regulator: regulator, Target: target, Observable: m[3] == ""}
		switch m[2] {
		case ">":
			reg.Monotonicity = Activation
		case "|":
			reg.Monotonicity = Inhibition
		}
		if err := bn.AddRegulation(reg); err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
	}

	for _, l := range functions {
		m := functionRegexp.FindStringSubmatch(l.text)
		v, _ := bn.Find(m[1])
		if bn.UpdateFunction(v) != nil {
			return nil, errors.Errorf("line %d: update function of %s declared twice", l.number, m[1])
		}
		fn, err := ParseFn(bn, m[2], true)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
		if err := bn.SetUpdateFunction(v, fn); err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
	}

	if err := bn.Validate(); err != nil {
		return nil, err
	}
	return bn, nil
}

// ParseAeonString is a convenience wrapper around ParseAeon.
func ParseAeonString(model string) (*BooleanNetwork, error) {
	return ParseAeon(strings.NewReader(model))
}

// WriteAeon writes bn in the .aeon format.
func WriteAeon(w io.Writer, bn *BooleanNetwork) error {
	bw := bufio.NewWriter(w)
	for _, r := range bn.regulations {
		arrow := "-?"
		switch r.Monotonicity {
		case Activation:
			arrow = "->"
		case Inhibition:
			arrow = "-|"
		}
		if !r.Observable {
			arrow += "?"
		}
		if _, err := bw.WriteString(bn.names[r.Regulator] + " " + arrow + " " + bn.names[r.Target] + "\n"); err != nil {
			return err
		}
	}
	for v, fn := range bn.functions {
		if fn == nil {
			continue
		}
		if _, err := bw.WriteString("$" + bn.names[v] + ": " + fn.Format(bn) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
