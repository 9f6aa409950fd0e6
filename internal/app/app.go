// Package app defines application-wide types and constants shared across
// the rebecca commands.
package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
)

// Name is the name of the application executable.
var Name = filepath.Base(os.Args[0])

// Version is overwritten by -ldflags at build time.
var Version = "0.9.2"

// Context carries state shared across the root command and its
// subcommands.
type Context struct {
	Timestamp    string // Timestamp is when the run started.
	OutputDir    string // OutputDir is where reports and dumps are written.
	LocalTempDir string // LocalTempDir holds scratch files for the run.
	LogFilePath  string // LogFilePath is the path to the log file, if any.
	Debug        bool   // Debug enables verbose logging and retains temp files.
}

// Flag names for flags defined on the root command.
const (
	FlagDebugName     = "debug"
	FlagSyslogName    = "syslog"
	FlagLogStdOutName = "log-stdout"
	FlagOutputDirName = "output"
)

// Flag names for flags defined on the subcommands (check, indep, synth).
const (
	FlagOptimizedName   = "optimized"
	FlagDumpSMTName     = "dump-smt"
	FlagDumpModelName   = "dump-model"
	FlagPoolSizeName    = "pool-size"
	FlagConfigName      = "config"
	FlagReportFmtName   = "report"
	FlagSynthCmdName    = "synth-cmd"
	FlagMetricsAddrName = "metrics-addr"
)
