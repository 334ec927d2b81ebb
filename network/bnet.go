// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package network

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ParseBnet reads a network in the .bnet format: an optional "targets,
// factors" header followed by lines "x, expr". Constants can be written 0 and
// 1. The regulatory graph is inferred from the update functions. Variables keep
// their order of declaration.
func ParseBnet(r io.Reader) (*BooleanNetwork, error) {
	type bnetLine struct {
		number       int
		target, expr string
	}
	lines := []bnetLine{}
	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		k := strings.Index(text, ",")
		if k < 0 {
			return nil, errors.Errorf("line %d: expected \"target, function\", found %q", number, text)
		}
		target := strings.TrimSpace(text[:k])
		expr := strings.TrimSpace(text[k+1:])
		if strings.EqualFold(target, "targets") && strings.EqualFold(expr, "factors") {
			continue
		}
		lines = append(lines, bnetLine{number, target, expr})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read bnet model")
	}

	bn, _ := New()
	for _, l := range lines {
		if _, err := bn.AddVariable(l.target); err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
	}
	for k, l := range lines {
		fn, err := ParseFn(bn, l.expr, false)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
		if err := bn.SetUpdateFunction(VariableID(k), fn); err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
	}
	bn.InferRegulatoryGraph()
	if err := bn.Validate(); err != nil {
		return nil, err
	}
	return bn, nil
}

// ParseBnetString is a convenience wrapper around ParseBnet.
func ParseBnetString(model string) (*BooleanNetwork, error) {
	return ParseBnet(strings.NewReader(model))
}

// ReadFile reads a network from a file, choosing the format from the file
// extension (.aeon or .bnet).
func ReadFile(filename string) (*BooleanNetwork, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open model")
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".aeon":
		bn, err := ParseAeon(f)
		return bn, errors.Wrap(err, filename)
	case ".bnet":
		bn, err := ParseBnet(f)
		return bn, errors.Wrap(err, filename)
	}
	return nil, errors.Errorf("unknown model format %q", filepath.Ext(filename))
}
