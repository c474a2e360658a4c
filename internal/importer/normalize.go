// Package importer converts heterogeneous spreadsheet input into validated
// expense records: a workbook decoder, a per-row normalizer tolerant of
// mixed column naming and date encodings, and a batch builder that resolves
// categories and computes split amounts.
package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"kakeibo/internal/core"
)

// Row is one raw spreadsheet row: a mapping from column header to the
// untyped cell value.
type Row map[string]any

// CanonicalRow is the normalized, format-independent shape of one row.
// Date is empty when the source cell could not be interpreted; Amount is
// zero when the cell was missing or non-numeric. Neither condition is an
// error: the full preview is always produced for the user to review.
type CanonicalRow struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Memo     string `json:"memo"`
}

// AliasSet holds the accepted header aliases per logical field, checked in
// order. Matching is case-sensitive and exact; the first alias present in
// the row with a non-empty value wins.
type AliasSet struct {
	Date     []string
	Category []string
	Amount   []string
	Memo     []string
}

// DefaultAliases returns the bilingual header alias table.
func DefaultAliases() AliasSet {
	return AliasSet{
		Date:     []string{"日付", "date", "Date", "DATE", "ひづけ", "ヒヅケ"},
		Category: []string{"カテゴリ", "category", "Category", "CATEGORY"},
		Amount:   []string{"金額", "amount", "Amount", "AMOUNT"},
		Memo:     []string{"メモ", "memo", "Memo", "MEMO"},
	}
}

var (
	dashDateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashDateRe = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	mdyDateRe   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// minStringSerial is the smallest numeric string accepted as a day serial.
// Serial 10000 is 1927-05-18; anything below it read from a string cell is
// more likely a bare year or row number than a date.
const minStringSerial = 10000

// NormalizeRow converts one raw row into its canonical shape. It never
// fails: malformed cells degrade to their empty or zero defaults.
func (a AliasSet) NormalizeRow(row Row) CanonicalRow {
	return CanonicalRow{
		Date:     coerceDate(lookupCell(row, a.Date)),
		Category: coerceString(lookupCell(row, a.Category)),
		Amount:   coerceAmount(lookupCell(row, a.Amount)),
		Memo:     coerceString(lookupCell(row, a.Memo)),
	}
}

// NormalizeRows applies NormalizeRow to every row, keeping input order.
func (a AliasSet) NormalizeRows(rows []Row) []CanonicalRow {
	out := make([]CanonicalRow, len(rows))
	for i, row := range rows {
		out[i] = a.NormalizeRow(row)
	}
	return out
}

func lookupCell(row Row, aliases []string) any {
	for _, alias := range aliases {
		v, ok := row[alias]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v
	}
	return nil
}

// coerceDate interprets a cell as a calendar date and renders it as
// YYYY-MM-DD. Recognized inputs, in priority order: dash- or slash-separated
// Y-M-D strings, M/D/Y strings, spreadsheet day-count serials (1900 epoch,
// either as a number or a numeric string), and native time values rendered
// via their local calendar fields. Anything else yields the empty string.
func coerceDate(v any) string {
	switch val := v.(type) {
	case string:
		if m := dashDateRe.FindStringSubmatch(val); m != nil {
			return padDate(m[1], m[2], m[3])
		}
		if m := slashDateRe.FindStringSubmatch(val); m != nil {
			return padDate(m[1], m[2], m[3])
		}
		if m := mdyDateRe.FindStringSubmatch(val); m != nil {
			return padDate(m[3], m[1], m[2])
		}
		// Raw workbook cells carry date serials as numeric strings. A
		// stray four-digit value like "2024" is a bare year, not a
		// serial; genuine serials for any date after 1927 are five
		// digits, so smaller values degrade to empty instead.
		if serial, err := strconv.ParseFloat(val, 64); err == nil && serial >= minStringSerial {
			return serialToDate(serial)
		}
		return ""
	case float64:
		return serialToDate(val)
	case int:
		return serialToDate(float64(val))
	case int64:
		return serialToDate(float64(val))
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(core.DateLayout)
	default:
		return ""
	}
}

func serialToDate(serial float64) string {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return ""
	}
	return t.Format(core.DateLayout)
}

func padDate(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

func coerceAmount(v any) int64 {
	switch val := v.(type) {
	case float64:
		return int64(math.Round(val))
	case int:
		return int64(val)
	case int64:
		return val
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return int64(math.Round(f))
	default:
		return 0
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
