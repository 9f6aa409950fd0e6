// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/IAIK/rebecca/internal/app"
	"github.com/IAIK/rebecca/internal/config"
	"github.com/IAIK/rebecca/internal/driver"
	"github.com/IAIK/rebecca/internal/label"
	"github.com/IAIK/rebecca/internal/netlist"
	"github.com/IAIK/rebecca/internal/normalize"
	"github.com/IAIK/rebecca/internal/progress"
	"github.com/IAIK/rebecca/internal/report"
	"github.com/IAIK/rebecca/internal/solver"
	"github.com/IAIK/rebecca/internal/util"

	"github.com/casbin/govaluate"
	"github.com/spf13/cobra"
)

var (
	flagOptimized   bool
	flagDumpSMT     bool
	flagDumpModel   bool
	flagPoolSize    int
	flagConfigPath  string
	flagReportFmt   string
	flagMetricsAddr string
)

var checkCmd = &cobra.Command{
	Use:   "check <netlist.json> <order> <labeling.txt> <mode>",
	Short: "verify probing security of a netlist under a labeling",
	Args:  cobra.ExactArgs(4),
	RunE:  runCheck,
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, indepCmd} {
		c.Flags().IntVar(&flagPoolSize, app.FlagPoolSizeName, 0, "worker pool size (0 = use config/default)")
		c.Flags().StringVar(&flagConfigPath, app.FlagConfigName, "", "path to a rebecca.yaml configuration file")
		c.Flags().StringVar(&flagReportFmt, app.FlagReportFmtName, "", "report format: txt, json, or xlsx (default from config)")
		c.Flags().StringVar(&flagMetricsAddr, app.FlagMetricsAddrName, "", "address to serve Prometheus metrics on, e.g. :9090")
	}
	checkCmd.Flags().BoolVar(&flagOptimized, app.FlagOptimizedName, false, "check one share group's secret at a time instead of the canonical labeling")
	checkCmd.Flags().BoolVar(&flagDumpSMT, app.FlagDumpSMTName, false, "dump the assembled query for every labeling checked")
	checkCmd.Flags().BoolVar(&flagDumpModel, app.FlagDumpModelName, false, "dump the satisfying model for every insecure labeling")
}

// parseOrder evaluates orderExpr as a govaluate arithmetic expression
// (e.g. "2+1") and validates the result is a non-negative integer.
func parseOrder(orderExpr string) (int, error) {
	expr, err := govaluate.NewEvaluableExpression(orderExpr)
	if err != nil {
		return 0, fmt.Errorf("order %q is not a valid expression: %w", orderExpr, err)
	}
	result, err := expr.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("order %q failed to evaluate: %w", orderExpr, err)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("order %q did not evaluate to a number", orderExpr)
	}
	order := int(f)
	if f != float64(order) || order < 0 {
		return 0, fmt.Errorf("order %q must evaluate to a non-negative integer", orderExpr)
	}
	return order, nil
}

func loadEffectiveConfig() (config.Config, error) {
	cfg := config.Default()
	if flagConfigPath != "" {
		var err error
		cfg, err = config.Load(flagConfigPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	if flagPoolSize > 0 {
		cfg.PoolSize = flagPoolSize
	}
	if flagReportFmt != "" {
		cfg.ReportFormat = flagReportFmt
	}
	if flagMetricsAddr != "" {
		cfg.MetricsAddr = flagMetricsAddr
	}
	return cfg, cfg.Validate()
}

func requireExt(path, ext, what string) error {
	if !strings.EqualFold(filepath.Ext(path), ext) {
		return fmt.Errorf("%s file %q must have a %s extension", what, path, ext)
	}
	exists, err := util.FileExists(path)
	if err != nil {
		return fmt.Errorf("%s file %q: %w", what, path, err)
	}
	if !exists {
		return fmt.Errorf("%s file %q does not exist", what, path)
	}
	return nil
}

func loadNormalizedCircuit(netlistPath string) (*netlist.Circuit, error) {
	circuit, err := netlist.Load(netlistPath)
	if err != nil {
		return nil, fmt.Errorf("load netlist: %w", err)
	}
	g, err := normalize.Normalize(circuit.Graph, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("normalize netlist: %w", err)
	}
	circuit.Graph = g
	return circuit, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	netlistPath, orderExpr, labelingPath, modeArg := args[0], args[1], args[2], args[3]
	if err := requireExt(netlistPath, ".json", "netlist"); err != nil {
		return err
	}
	if err := requireExt(labelingPath, ".txt", "labeling"); err != nil {
		return err
	}
	var mode solver.Mode
	switch modeArg {
	case "s":
		mode = solver.ModeStable
	case "t":
		mode = solver.ModeTransient
	default:
		return fmt.Errorf("mode %q must be \"s\" or \"t\"", modeArg)
	}
	order, err := parseOrder(orderExpr)
	if err != nil {
		return err
	}

	cfg, err := loadEffectiveConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if cfg.MetricsAddr != "" {
		driver.ServeMetrics(cfg.MetricsAddr)
	}

	circuit, err := loadNormalizedCircuit(netlistPath)
	if err != nil {
		return err
	}
	entries, err := label.ParseFile(labelingPath)
	if err != nil {
		return fmt.Errorf("load labeling: %w", err)
	}

	var labelings []label.Labeling
	var names []string
	if flagOptimized {
		labelings, err = label.GenerateOptimized(entries)
		if err != nil {
			return fmt.Errorf("generate optimized labelings: %w", err)
		}
		for _, group := range shareGroupOrder(entries) {
			names = append(names, "group-"+group)
		}
	} else {
		labeling, err := label.Generate(entries)
		if err != nil {
			return fmt.Errorf("generate labeling: %w", err)
		}
		labelings = []label.Labeling{labeling}
		names = []string{strings.TrimSuffix(filepath.Base(labelingPath), filepath.Ext(labelingPath))}
	}

	appContext, _ := cmd.Parent().Context().Value(app.Context{}).(app.Context)
	jobs := make([]driver.ProbingJob, 0, len(labelings))
	for i, labeling := range labelings {
		g, err := circuit.Graph.Clone()
		if err != nil {
			return fmt.Errorf("clone circuit for labeling %q: %w", names[i], err)
		}
		if err := label.ApplyTo(g, labeling); err != nil {
			return fmt.Errorf("apply labeling %q: %w", names[i], err)
		}
		job := driver.ProbingJob{Label: names[i], Graph: g, Mode: mode, Order: order, Budget: cfg.SolveTimeout()}
		if flagDumpSMT {
			job.DumpSMTPath = filepath.Join(dumpDir(cfg.DumpSMT, appContext.LocalTempDir), names[i]+".smt2")
		}
		if flagDumpModel {
			job.DumpModelPath = filepath.Join(dumpDir(cfg.DumpModel, appContext.LocalTempDir), names[i]+"-model.txt")
		}
		jobs = append(jobs, job)
	}

	spinner := progress.NewMultiSpinner()
	for _, j := range jobs {
		if err := spinner.AddSpinner(j.Label); err != nil {
			return err
		}
	}
	spinner.Start()
	results, err := driver.RunProbing(netlistPath, jobs, cfg.PoolSize, spinner.Status)
	spinner.Finish()
	if err != nil {
		return fmt.Errorf("run probing checks: %w", err)
	}

	return emitReport(cfg.ReportFormat, results, appContext.OutputDir)
}

// dumpDir picks the directory a debug dump should land in: the config's
// explicit directory if set, otherwise the run's scratch directory,
// creating it if necessary.
func dumpDir(configured, fallback string) string {
	dir := configured
	if dir == "" {
		dir = fallback
	}
	if dir != "" {
		_ = util.CreateDirectoryIfNotExists(dir, 0755)
	}
	return dir
}

// shareGroupOrder returns share group ids in first-appearance order,
// matching the iteration order label.GenerateOptimized uses internally to
// build its labeling family, so job names line up with family members.
func shareGroupOrder(entries []label.Entry) []string {
	seen := map[string]bool{}
	var order []string
	for _, e := range entries {
		if e.Kind == label.KindShare && !seen[e.Group] {
			seen[e.Group] = true
			order = append(order, e.Group)
		}
	}
	return order
}

// errInsecure is returned by emitReport when at least one checked labeling
// came back insecure, so the command exits nonzero without looking like a
// usage or I/O failure.
var errInsecure = fmt.Errorf("insecure labeling found")

func emitReport(format string, results []report.Result, outputDir string) error {
	out, err := report.Create(format, results)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if outputDir != "" {
		if err := util.CreateDirectoryIfNotExists(outputDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := report.WriteReport(out, filepath.Join(outputDir, "report."+format)); err != nil {
			return err
		}
	}
	if format == report.FormatTxt {
		fmt.Println(string(out))
	}
	if !report.Summarize(results) {
		return errInsecure
	}
	return nil
}
