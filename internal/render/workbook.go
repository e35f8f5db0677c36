package render

import (
	"fmt"
	"io"

	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the first sheet of an exported workbook.
const SummarySheet = "Summary"

// noticesSheet lists the notices of the render pass, when there are any.
const noticesSheet = "Notices"

// WorkbookSheets returns how many sheets Workbook will write for v.
func WorkbookSheets(v *View) int {
	n := 1 + len(v.Tables)
	if len(v.Notices) > 0 {
		n++
	}
	return n
}

// Workbook builds an xlsx file with a summary sheet and one sheet per raw
// table. progress, when non-nil, is called after each sheet is written.
func Workbook(v *View, progress func(sheet string)) (*excelize.File, error) {
	if progress == nil {
		progress = func(string) {}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "00FF00"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"000000"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, v, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}
	progress(SummarySheet)

	for _, t := range v.Tables {
		if err := writeTableSheet(f, t, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
		progress(t.Name)
	}

	if len(v.Notices) > 0 {
		if err := writeNoticesSheet(f, v.Notices, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
		progress(noticesSheet)
	}

	return f, nil
}

// WriteWorkbook builds the workbook for v and writes it to w.
func WriteWorkbook(w io.Writer, v *View) error {
	f, err := Workbook(v, nil)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, v *View, headerStyle int) error {
	rows := [][]any{{"Metric", "Value"}}
	for _, name := range model.MetricNames {
		rows = append(rows, []any{name, v.Metrics.Get(name)})
	}
	rows = append(rows,
		[]any{"Percentage Goal Reached", metrics.FormatPercent(v.Derived.PercentReached)},
		[]any{"Remaining to Goal", v.Derived.Remaining},
		[]any{"Lead over Mayapur", v.Derived.Lead},
		[]any{"Generated", v.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
	)

	if err := writeRows(f, SummarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 34)
}

func writeTableSheet(f *excelize.File, t RawTable, headerStyle int) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
	}

	rows := make([][]any, 0, t.Table.Len()+1)
	header := make([]any, len(t.Table.Headers))
	for i, h := range t.Table.Headers {
		header[i] = h
	}
	rows = append(rows, header)
	for _, rec := range t.Table.Records() {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, t.Name, rows); err != nil {
		return err
	}
	if len(header) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(t.Name, "A1", last, headerStyle)
}

func writeNoticesSheet(f *excelize.File, notices []model.Notice, headerStyle int) error {
	if _, err := f.NewSheet(noticesSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", noticesSheet, err)
	}

	rows := [][]any{{"Level", "Kind", "Source", "Message"}}
	for _, n := range notices {
		rows = append(rows, []any{string(n.Level), string(n.Kind), n.Source, n.Message})
	}
	if err := writeRows(f, noticesSheet, rows); err != nil {
		return err
	}
	return f.SetCellStyle(noticesSheet, "A1", "D1", headerStyle)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
