package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"
)

func createTextReport(results []Result) (out []byte, err error) {
	var sb strings.Builder
	for _, r := range results {
		title := fmt.Sprintf("%s [%s/%s, order %d]", r.Labeling, r.Kind, r.Mode, r.Order)
		sb.WriteString(title + "\n")
		for range len(title) {
			sb.WriteString("=")
		}
		sb.WriteString("\n")
		if r.Secure {
			sb.WriteString(fmt.Sprintf("secure       : yes\n"))
		} else {
			sb.WriteString(fmt.Sprintf("secure       : no\n"))
			witness := NoDataFound
			if len(r.Witness) > 0 {
				witness = strings.Join(r.Witness, ", ")
			}
			sb.WriteString(fmt.Sprintf("witness gates: %s\n", witness))
		}
		sb.WriteString(fmt.Sprintf("elapsed      : %s\n", r.Elapsed))
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}
