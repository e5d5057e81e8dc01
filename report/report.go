// Package report writes a Network.Aggregate result to an .xlsx workbook via
// github.com/xuri/excelize/v2, one row per source node: id, optional name,
// and the aggregate value. Accessibility scores usually end up in front of
// planners and analysts as a spreadsheet, not an in-memory map; this is
// that export surface (one sheet, a header style, rows written top to
// bottom, sorted by node id for reviewability).
package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"netdecay/config"
)

// Row is one source node's exported aggregate value, plus an optional
// display name for callers whose node ids are not already human-readable.
type Row[T comparable] struct {
	Node  T
	Name  string
	Value float64
}

func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// Write renders rows to an in-memory .xlsx workbook, one row per source
// sorted by Node's string form for a stable, reviewable order (the
// aggregation engine itself makes no ordering promise across sources). cfg
// controls the sheet name and whether the Name column is emitted; a zero
// config falls back to "Aggregate" / "value" / no name column.
func Write[T comparable](rows []Row[T], cfg config.ReportConfig) ([]byte, error) {
	sheetName := cfg.DefaultSheetName
	if sheetName == "" {
		sheetName = "Aggregate"
	}
	valueCol := cfg.ValueColumnName
	if valueCol == "" {
		valueCol = "value"
	}

	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	headers := []string{"id"}
	if cfg.IncludeNodeName {
		headers = append(headers, "name")
	}
	headers = append(headers, valueCol)

	for i, h := range headers {
		col := string(rune('A' + i))
		f.SetCellValue(sheetName, cellAddr(col, 1), h)
	}
	lastCol := string(rune('A' + len(headers) - 1))
	f.SetCellStyle(sheetName, cellAddr("A", 1), cellAddr(lastCol, 1), headerStyle)

	sorted := make([]Row[T], len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return fmt.Sprint(sorted[i].Node) < fmt.Sprint(sorted[j].Node)
	})

	for i, r := range sorted {
		row := i + 2
		col := 0
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+col)), row), fmt.Sprint(r.Node))
		col++
		if cfg.IncludeNodeName {
			f.SetCellValue(sheetName, cellAddr(string(rune('A'+col)), row), r.Name)
			col++
		}
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+col)), row), r.Value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
