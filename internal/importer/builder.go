package importer

import (
	"fmt"

	"kakeibo/internal/core"
)

// CategoryNotFoundError reports a spreadsheet category name that does not
// resolve against the current category list. It aborts the whole batch: the
// caller must create the category or fix the sheet, then retry the import.
type CategoryNotFoundError struct {
	Category string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category not found: %q", e.Category)
}

// BuildExpenses materializes one expense record per canonical row for the
// given owner. Categories are resolved by exact, case-sensitive name match;
// a row whose category is missing, or resolves to a category that has not
// been persisted yet, fails the entire batch and no records are returned.
// The builder performs no persistence and computes both party shares via
// the resolved category's split ratio.
func BuildExpenses(rows []CanonicalRow, categories []core.Category, userID string) ([]core.Expense, error) {
	byName := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		category, ok := byName[row.Category]
		if !ok || category.ID == "" {
			return nil, &CategoryNotFoundError{Category: row.Category}
		}
		partyA, partyB := category.ShareRatio.Split(row.Amount)
		expenses = append(expenses, core.Expense{
			UserID:       userID,
			Date:         row.Date,
			CategoryID:   category.ID,
			Amount:       row.Amount,
			Memo:         row.Memo,
			PartyAAmount: partyA,
			PartyBAmount: partyB,
		})
	}
	return expenses, nil
}
