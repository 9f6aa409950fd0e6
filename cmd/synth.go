// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IAIK/rebecca/internal/app"
	"github.com/IAIK/rebecca/internal/synth"

	"github.com/spf13/cobra"
)

var flagSynthCmd string

var synthCmd = &cobra.Command{
	Use:   "synth <netlist.v> <top_module>",
	Short: "synthesize a Verilog source into a gate-level netlist and label template",
	Args:  cobra.ExactArgs(2),
	RunE:  runSynth,
}

func init() {
	synthCmd.Flags().StringVar(&flagSynthCmd, app.FlagSynthCmdName, "yosys", "external synthesizer executable")
}

func runSynth(cmd *cobra.Command, args []string) error {
	verilogFile, topModule := args[0], args[1]
	if !strings.EqualFold(filepath.Ext(verilogFile), ".v") {
		return fmt.Errorf("synth: netlist file %q must have a .v extension", verilogFile)
	}

	appContext, _ := cmd.Parent().Context().Value(app.Context{}).(app.Context)
	scratchDir := appContext.LocalTempDir
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	jsonPath, txtPath, err := synth.Run(flagSynthCmd, verilogFile, topModule, scratchDir)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	fmt.Printf("Wrote netlist to %s and label template to %s\n", jsonPath, txtPath)
	return nil
}
