package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Results"

var xlsxHeader = []string{"Netlist", "Labeling", "Kind", "Mode", "Order", "Secure", "Witness", "Elapsed"}

func createXlsxReport(results []Result) (out []byte, err error) {
	f := excelize.NewFile()
	if err = f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, errors.Wrap(err, "failed to name results sheet")
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	insecureStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "9C0006"}})

	for col, name := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(xlsxSheetName, cell, name)
		_ = f.SetCellStyle(xlsxSheetName, cell, cell, headerStyle)
	}

	for i, r := range results {
		row := i + 2
		values := []any{r.Netlist, r.Labeling, string(r.Kind), r.Mode, r.Order, r.Secure, strings.Join(r.Witness, ", "), r.Elapsed.String()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(xlsxSheetName, cell, v)
			if !r.Secure {
				_ = f.SetCellStyle(xlsxSheetName, cell, cell, insecureStyle)
			}
		}
	}
	for col := range xlsxHeader {
		colName, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(xlsxSheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if _, err = f.WriteTo(w); err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx report to buffer")
	}
	if err = w.Flush(); err != nil {
		return nil, errors.Wrap(err, "failed to flush xlsx buffer")
	}
	return buf.Bytes(), nil
}
