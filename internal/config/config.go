// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package config reads the settings file of the pbn command line tool. The
// file uses the TOML format, for instance:
//
//	[limits]
//	bdd_size_limit = 1000000
//	steps_limit = 0        # no limit
//	timeout = "10m"
//
//	[log]
//	level = "debug"
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/pbn/algo"
)

// Duration is a time.Duration written as a string, like "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}
	if v < 0 {
		return errors.Errorf("negative duration %s", v)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Limits bounds the resources used by the algorithms. A zero value means no
// limit.
type Limits struct {
	BddSizeLimit int      `toml:"bdd_size_limit"`
	StepsLimit   int      `toml:"steps_limit"`
	Timeout      Duration `toml:"timeout"`
}

// Log is the logging section.
type Log struct {
	Level string `toml:"level"`
}

// Settings is the content of a settings file.
type Settings struct {
	Limits Limits `toml:"limits"`
	Log    Log    `toml:"log"`
}

// Default returns the settings used when there is no settings file: no
// limits, and logging at the info level.
func Default() Settings {
	return Settings{Log: Log{Level: "info"}}
}

// Decode reads settings from r. Missing values keep their default and
// unknown keys are rejected.
func Decode(r io.Reader) (Settings, error) {
	s := Default()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return s, errors.Wrap(err, "cannot decode settings")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for k, key := range undecoded {
			keys[k] = key.String()
		}
		return s, errors.Errorf("unknown settings: %s", strings.Join(keys, ", "))
	}
	return s, s.Validate()
}

// Load reads the settings file at path.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), errors.Wrap(err, "cannot open settings")
	}
	defer f.Close()
	s, err := Decode(f)
	return s, errors.Wrapf(err, "in %s", path)
}

// Validate checks that limits are not negative and that the log level is
// known.
func (s Settings) Validate() error {
	if s.Limits.BddSizeLimit < 0 {
		return errors.Errorf("negative bdd_size_limit %d", s.Limits.BddSizeLimit)
	}
	if s.Limits.StepsLimit < 0 {
		return errors.Errorf("negative steps_limit %d", s.Limits.StepsLimit)
	}
	_, err := s.Level()
	return err
}

// Level returns the logrus level of the settings.
func (s Settings) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(s.Log.Level)
	return lvl, errors.Wrap(err, "invalid log level")
}

// Options returns the algorithm options matching the limits. The timeout, if
// any, becomes a Timer that starts with the first algorithm using it; the
// computation is cancelled as soon as the timer or one of handlers fires.
func (s Settings) Options(handlers ...algo.Handler) []algo.Option {
	res := []algo.Option{
		algo.BddSizeLimit(s.Limits.BddSizeLimit),
		algo.StepsLimit(s.Limits.StepsLimit),
	}
	if s.Limits.Timeout.Duration > 0 {
		handlers = append(handlers, algo.NewTimer(s.Limits.Timeout.Duration))
	}
	switch len(handlers) {
	case 0:
	case 1:
		res = append(res, algo.Cancellation(handlers[0]))
	default:
		res = append(res, algo.Cancellation(algo.Any(handlers...)))
	}
	return res
}
