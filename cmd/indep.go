// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"

	"github.com/IAIK/rebecca/internal/app"
	"github.com/IAIK/rebecca/internal/driver"
	"github.com/IAIK/rebecca/internal/label"
	"github.com/IAIK/rebecca/internal/progress"

	"github.com/spf13/cobra"
)

var indepCmd = &cobra.Command{
	Use:   "indep <netlist.json> <order> <labeling.txt>",
	Short: "verify share independence of a netlist under a labeling",
	Args:  cobra.ExactArgs(3),
	RunE:  runIndep,
}

func runIndep(cmd *cobra.Command, args []string) error {
	netlistPath, orderExpr, labelingPath := args[0], args[1], args[2]
	if err := requireExt(netlistPath, ".json", "netlist"); err != nil {
		return err
	}
	if err := requireExt(labelingPath, ".txt", "labeling"); err != nil {
		return err
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

	job := driver.IndependenceJob{Label: "independence", Graph: circuit.Graph, Entries: entries, Order: order, Budget: cfg.SolveTimeout()}

	spinner := progress.NewMultiSpinner()
	if err := spinner.AddSpinner(job.Label); err != nil {
		return err
	}
	spinner.Start()
	results, err := driver.RunIndependence(netlistPath, []driver.IndependenceJob{job}, cfg.PoolSize, spinner.Status)
	spinner.Finish()
	if err != nil {
		return fmt.Errorf("run independence check: %w", err)
	}

	appContext, _ := cmd.Parent().Context().Value(app.Context{}).(app.Context)
	return emitReport(cfg.ReportFormat, results, appContext.OutputDir)
}
