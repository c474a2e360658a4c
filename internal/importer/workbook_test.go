package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, header []any, rows ...[]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbook(t *testing.T) {
	r := buildWorkbook(t,
		[]any{"日付", "カテゴリ", "金額", "メモ"},
		[]any{"2024-1-15", "食費", 1000, "groceries"},
		[]any{45691, "家賃", 80000, nil},
	)

	rows, err := ParseWorkbook(r)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["日付"] != "2024-1-15" || rows[0]["カテゴリ"] != "食費" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}

	normalized := DefaultAliases().NormalizeRows(rows)
	if normalized[0].Date != "2024-01-15" || normalized[0].Amount != 1000 {
		t.Fatalf("unexpected normalized first row: %+v", normalized[0])
	}
	// Raw reads keep the date serial numeric, so it converts via the epoch.
	if normalized[1].Date != "2025-02-03" || normalized[1].Amount != 80000 {
		t.Fatalf("unexpected normalized second row: %+v", normalized[1])
	}
}

func TestParseWorkbookHeaderOnly(t *testing.T) {
	r := buildWorkbook(t, []any{"日付", "カテゴリ", "金額"})
	rows, err := ParseWorkbook(r)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no data rows, got %d", len(rows))
	}
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("this is not a workbook"))
	if err == nil {
		t.Fatal("expected an error for non-xlsx input")
	}
}
