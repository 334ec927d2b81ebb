// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/pbn/algo"
)

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(`
[limits]
bdd_size_limit = 1000
timeout = "1m30s"

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, 1000, s.Limits.BddSizeLimit)
	assert.Equal(t, 0, s.Limits.StepsLimit)
	assert.Equal(t, 90*time.Second, s.Limits.Timeout.Duration)
	lvl, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, lvl)
	assert.Len(t, s.Options(), 3)
	assert.Len(t, s.Options(algo.Never), 3)
}

func TestDefault(t *testing.T) {
	s, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	lvl, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, lvl)
	assert.Len(t, s.Options(), 2)
	assert.Len(t, s.Options(algo.Never), 3)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", "[limits"},
		{"unknown key", "[limits]\nnodes = 3"},
		{"unknown section", "[output]\nformat = \"json\""},
		{"duration", "[limits]\ntimeout = \"ten minutes\""},
		{"negative duration", "[limits]\ntimeout = \"-1s\""},
		{"negative limit", "[limits]\nsteps_limit = -1"},
		{"level", "[log]\nlevel = \"loud\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbn.toml")
	require.NoError(t, os.WriteFile(path, []byte("[limits]\nsteps_limit = 12\n"), 0o600))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Limits.StepsLimit)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = 3\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
