// Package report renders verification results in txt, json, and xlsx formats.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	FormatTxt  = "txt"
	FormatJson = "json"
	FormatXlsx = "xlsx"
)

var FormatOptions = []string{FormatTxt, FormatJson, FormatXlsx}

// NoDataFound is shown when a result carries no witness gates.
const NoDataFound = "none"

// Kind names which solver check produced a Result.
type Kind string

const (
	KindProbing      Kind = "probing"
	KindIndependence Kind = "independence"
)

// Result is the outcome of one security check run against one labeling.
type Result struct {
	Netlist  string        // source netlist file
	Labeling string        // labeling identifier (e.g. "group-1", the labeling file's base name, or "independence")
	Kind     Kind          // probing or independence
	Mode     string        // stable or transient
	Order    int           // probing/leakage order checked
	Secure   bool          // true if the solver found no leakage at this order
	Witness  []string      // probed node (or group:node) names forming the counter-example, if insecure
	Elapsed  time.Duration // wall time spent solving
}

// Create renders results in the requested format. Panics on an unrecognized
// format, matching the way callers only ever pass a flag-validated value.
func Create(format string, results []Result) (out []byte, err error) {
	switch format {
	case FormatTxt:
		return createTextReport(results)
	case FormatJson:
		return createJsonReport(results)
	case FormatXlsx:
		return createXlsxReport(results)
	}
	panic(fmt.Sprintf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format))
}

// WriteReport writes the rendered report bytes to reportPath.
func WriteReport(reportBytes []byte, reportPath string) error {
	if err := os.WriteFile(reportPath, reportBytes, 0644); err != nil {
		wrapped := errors.Wrap(err, "failed to write report file")
		slog.Error(wrapped.Error())
		return wrapped
	}
	return nil
}

// Summarize reports whether every result in the set came back secure, which
// commands use to pick a process exit code.
func Summarize(results []Result) bool {
	for _, r := range results {
		if !r.Secure {
			return false
		}
	}
	return true
}
