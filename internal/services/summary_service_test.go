package services

import (
	"context"
	"testing"
	"time"

	"kakeibo/internal/core"
)

func summaryFixture() *fakeStore {
	return &fakeStore{
		categories: testCategories,
		expenses: []core.Expense{
			{ID: "e1", UserID: "u1", Date: "2024-01-15", CategoryID: "c1", Amount: 1000, PartyAAmount: 500, PartyBAmount: 500},
			{ID: "e2", UserID: "u1", Date: "2024-02-10", CategoryID: "c2", Amount: 1500, PartyAAmount: 900, PartyBAmount: 600},
			{ID: "e3", UserID: "u2", Date: "2024-02-11", CategoryID: "c1", Amount: 7777},
		},
	}
}

func TestSummaryMonthlyTotals(t *testing.T) {
	store := summaryFixture()
	svc := NewSummaryService(store, 16, time.Minute)

	totals, err := svc.MonthlyTotals(context.Background(), "u1")
	if err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if len(totals) != 2 || totals[0].Month != "2024-02" {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals[0].PreviousMonthDiff == nil || *totals[0].PreviousMonthDiff != 50.0 {
		t.Fatalf("unexpected diff: %v", totals[0].PreviousMonthDiff)
	}
	// Other owners' records must not leak into the projection.
	if totals[0].Total != 1500 {
		t.Fatalf("unexpected total: %+v", totals[0])
	}
}

func TestSummaryCaching(t *testing.T) {
	store := summaryFixture()
	svc := NewSummaryService(store, 16, time.Minute)
	ctx := context.Background()

	if _, err := svc.MonthlyTotals(ctx, "u1"); err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if _, err := svc.MonthlyTotals(ctx, "u1"); err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected cached second read, got %d store reads", store.listCalls)
	}

	svc.Invalidate("u1")
	if _, err := svc.MonthlyTotals(ctx, "u1"); err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if store.listCalls != 2 {
		t.Fatalf("expected fresh read after invalidation, got %d store reads", store.listCalls)
	}
}

func TestSummaryCategoryExpensesWindow(t *testing.T) {
	store := summaryFixture()
	svc := NewSummaryService(store, 16, time.Minute)

	result, err := svc.CategoryExpenses(context.Background(), "u1", "2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatalf("CategoryExpenses: %v", err)
	}
	if len(result) != 1 || result[0].CategoryName != "交通費" || result[0].Total != 1500 {
		t.Fatalf("unexpected windowed result: %+v", result)
	}

	all, err := svc.CategoryExpenses(context.Background(), "u1", "", "")
	if err != nil {
		t.Fatalf("CategoryExpenses: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both categories without a window, got %+v", all)
	}
}
