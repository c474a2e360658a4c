package core

// MonthlyTotal is one month's aggregated spending. PreviousMonthDiff is the
// percentage change of Total against the chronologically preceding month in
// the same result set; it is nil for the oldest month present. When the
// preceding month's total is zero the value is non-finite (±Inf or NaN) and
// is surfaced as-is for the presentation layer to render.
type MonthlyTotal struct {
	Month             string   `json:"month"` // YYYY-MM
	Total             int64    `json:"total"`
	PartyATotal       int64    `json:"partyATotal"`
	PartyBTotal       int64    `json:"partyBTotal"`
	PreviousMonthDiff *float64 `json:"previousMonthDiff,omitempty"`
}

// UnknownCategoryName is the display name used when a category id cannot be
// resolved against the supplied category list.
const UnknownCategoryName = "unknown"

// CategoryExpense is the aggregate of all expenses recorded under one
// category, together with the contributing records.
type CategoryExpense struct {
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Total        int64     `json:"total"`
	Expenses     []Expense `json:"expenses"`
}
