package importer

import (
	"errors"
	"testing"

	"kakeibo/internal/core"
)

var testCategories = []core.Category{
	{ID: "c1", Name: "食費", ShareRatio: core.ShareRatio{PartyA: 0.5, PartyB: 0.5}},
	{ID: "c2", Name: "交通費", ShareRatio: core.ShareRatio{PartyA: 0.6, PartyB: 0.4}},
	{Name: "未保存", ShareRatio: core.ShareRatio{PartyA: 0.5, PartyB: 0.5}}, // no id yet
}

func TestBuildExpenses(t *testing.T) {
	rows := []CanonicalRow{
		{Date: "2024-01-15", Category: "食費", Amount: 1000, Memo: "groceries"},
		{Date: "2024-01-16", Category: "交通費", Amount: 333},
	}

	expenses, err := BuildExpenses(rows, testCategories, "user-1")
	if err != nil {
		t.Fatalf("BuildExpenses: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 records, got %d", len(expenses))
	}

	first := expenses[0]
	if first.UserID != "user-1" || first.CategoryID != "c1" || first.Amount != 1000 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.PartyAAmount != 500 || first.PartyBAmount != 500 {
		t.Fatalf("unexpected split on first record: %+v", first)
	}
	if first.Memo != "groceries" {
		t.Fatalf("memo not carried over: %+v", first)
	}

	second := expenses[1]
	if second.PartyAAmount != 200 || second.PartyBAmount != 133 {
		t.Fatalf("unexpected split on second record: %+v", second)
	}
	if second.Memo != "" {
		t.Fatalf("absent memo must normalize to empty string: %+v", second)
	}
	if second.ID != "" {
		t.Fatalf("builder must not assign ids: %+v", second)
	}
}

func TestBuildExpensesUnknownCategoryFailsWholeBatch(t *testing.T) {
	rows := []CanonicalRow{
		{Date: "2024-01-15", Category: "食費", Amount: 1000},
		{Date: "2024-01-16", Category: "謎カテゴリ", Amount: 500},
	}

	expenses, err := BuildExpenses(rows, testCategories, "user-1")
	if expenses != nil {
		t.Fatalf("expected no records on failure, got %d", len(expenses))
	}
	var notFound *CategoryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected CategoryNotFoundError, got %v", err)
	}
	if notFound.Category != "謎カテゴリ" {
		t.Fatalf("error names wrong category: %q", notFound.Category)
	}
}

func TestBuildExpensesCategoryWithoutID(t *testing.T) {
	rows := []CanonicalRow{{Date: "2024-01-15", Category: "未保存", Amount: 100}}
	_, err := BuildExpenses(rows, testCategories, "user-1")
	var notFound *CategoryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("unsaved category must fail the batch, got %v", err)
	}
}

func TestBuildExpensesMatchIsCaseSensitive(t *testing.T) {
	categories := []core.Category{{ID: "c1", Name: "Food"}}
	rows := []CanonicalRow{{Category: "food", Amount: 100}}
	if _, err := BuildExpenses(rows, categories, "user-1"); err == nil {
		t.Fatal("expected case-sensitive matching to reject different casing")
	}
}

func TestBuildExpensesKeepsEmptyDate(t *testing.T) {
	rows := []CanonicalRow{{Date: "", Category: "食費", Amount: 100}}
	expenses, err := BuildExpenses(rows, testCategories, "user-1")
	if err != nil {
		t.Fatalf("BuildExpenses: %v", err)
	}
	if expenses[0].Date != "" {
		t.Fatalf("empty date must pass through for downstream review: %+v", expenses[0])
	}
}
