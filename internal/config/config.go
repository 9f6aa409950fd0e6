// Package config loads the optional YAML run configuration: solver pool
// size, propagation mode, and report/metrics settings. Default supplies a
// valid value for every field, so an absent --config flag is never an error.
package config

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the parsed contents of a rebecca config file.
type Config struct {
	// PoolSize caps concurrent solver workers. 0 means "use NumCPU".
	PoolSize int `yaml:"pool_size"`
	// Mode names a propagation model ("stable" or "transient"). Validate
	// checks it; the check command takes its mode from its positional
	// argument and does not read this field.
	Mode string `yaml:"mode"`
	// DumpSMT is the directory --dump-smt writes each query dump (DIMACS
	// plus s-expression) into; empty means the run's scratch directory.
	DumpSMT string `yaml:"dump_smt"`
	// DumpModel is the directory --dump-model writes each satisfying model
	// into; empty means the run's scratch directory.
	DumpModel string `yaml:"dump_model"`
	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address for the duration of the run (e.g. "127.0.0.1:9090").
	MetricsAddr string `yaml:"metrics_addr"`
	// ReportFormat is the default report format ("txt", "json", "xlsx").
	ReportFormat string `yaml:"report_format"`
	// SolveTimeoutSeconds bounds each solver call's wall-clock search
	// time; 0 means unbounded. Exceeding it surfaces the labeling as
	// insecure with an empty witness rather than hanging the run.
	SolveTimeoutSeconds int `yaml:"solve_timeout_seconds"`
}

// SolveTimeout is SolveTimeoutSeconds as a time.Duration, for passing
// straight to the solver package's budgeted entry points.
func (c Config) SolveTimeout() time.Duration {
	return time.Duration(c.SolveTimeoutSeconds) * time.Second
}

// Default returns the configuration used when no --config flag is given.
func Default() Config {
	return Config{
		PoolSize:     10,
		Mode:         "transient",
		ReportFormat: "txt",
	}
}

// Load reads and parses a YAML config file, filling in defaults for any
// field the file leaves unset.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a config whose mode or report format is not recognized.
func (c Config) Validate() error {
	switch c.Mode {
	case "stable", "transient":
	default:
		return errors.Errorf("config: mode must be %q or %q, got %q", "stable", "transient", c.Mode)
	}
	switch c.ReportFormat {
	case "txt", "json", "xlsx":
	default:
		return errors.Errorf("config: report_format must be one of txt, json, xlsx, got %q", c.ReportFormat)
	}
	if c.SolveTimeoutSeconds < 0 {
		return errors.Errorf("config: solve_timeout_seconds must be non-negative, got %d", c.SolveTimeoutSeconds)
	}
	return nil
}
