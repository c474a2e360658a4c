// Package report derives read-only projections over a snapshot of expense
// records: time-bucketed monthly totals with trend deltas, and per-category
// totals. Both projections are pure functions of their inputs.
package report

import (
	"sort"

	"kakeibo/internal/core"
)

// MonthlyTotals groups expenses by calendar month (the YYYY-MM prefix of the
// record date) and sums the total and both party shares per month. Records
// with an empty or malformed date land in the empty-string bucket, which is
// a defined but degenerate group.
//
// The result is sorted newest month first. Every month except the oldest
// carries the percentage change of its total against the next older month;
// when that older total is zero the delta is non-finite and returned as-is.
func MonthlyTotals(expenses []core.Expense) []core.MonthlyTotal {
	buckets := make(map[string]*core.MonthlyTotal)
	for _, e := range expenses {
		month := e.MonthKey()
		b, ok := buckets[month]
		if !ok {
			b = &core.MonthlyTotal{Month: month}
			buckets[month] = b
		}
		b.Total += e.Amount
		b.PartyATotal += e.PartyAAmount
		b.PartyBTotal += e.PartyBAmount
	}

	totals := make([]core.MonthlyTotal, 0, len(buckets))
	for _, b := range buckets {
		totals = append(totals, *b)
	}
	// Lexicographic descending order is chronological for the fixed-width
	// month key.
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month > totals[j].Month
	})

	for i := 0; i < len(totals)-1; i++ {
		older := float64(totals[i+1].Total)
		diff := (float64(totals[i].Total) - older) / older * 100
		totals[i].PreviousMonthDiff = &diff
	}
	return totals
}

// CategoryExpenses groups the supplied expenses by category id, sums the
// amounts and collects the contributing records per group, then resolves
// display names against the category list. Groups are sorted by total,
// largest first; ties keep the order in which the category was first seen
// among the input records.
func CategoryExpenses(expenses []core.Expense, categories []core.Category) []core.CategoryExpense {
	order := make([]string, 0)
	buckets := make(map[string]*core.CategoryExpense)
	for _, e := range expenses {
		b, ok := buckets[e.CategoryID]
		if !ok {
			b = &core.CategoryExpense{
				CategoryID:   e.CategoryID,
				CategoryName: resolveName(e.CategoryID, categories),
			}
			buckets[e.CategoryID] = b
			order = append(order, e.CategoryID)
		}
		b.Total += e.Amount
		b.Expenses = append(b.Expenses, e)
	}

	result := make([]core.CategoryExpense, 0, len(order))
	for _, id := range order {
		result = append(result, *buckets[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result
}

func resolveName(categoryID string, categories []core.Category) string {
	for _, c := range categories {
		if c.ID == categoryID {
			return c.Name
		}
	}
	return core.UnknownCategoryName
}
