package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "encoding/json"

type jsonResult struct {
	Netlist    string   `json:"netlist"`
	Labeling   string   `json:"labeling"`
	Kind       string   `json:"kind"`
	Mode       string   `json:"mode"`
	Order      int      `json:"order"`
	Secure     bool     `json:"secure"`
	Witness    []string `json:"witness,omitempty"`
	ElapsedSec float64  `json:"elapsed_seconds"`
}

func createJsonReport(results []Result) (out []byte, err error) {
	records := make([]jsonResult, 0, len(results))
	for _, r := range results {
		records = append(records, jsonResult{
			Netlist:    r.Netlist,
			Labeling:   r.Labeling,
			Kind:       string(r.Kind),
			Mode:       r.Mode,
			Order:      r.Order,
			Secure:     r.Secure,
			Witness:    r.Witness,
			ElapsedSec: r.Elapsed.Seconds(),
		})
	}
	return json.MarshalIndent(records, "", " ")
}
