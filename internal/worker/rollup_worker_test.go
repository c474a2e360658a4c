package worker

import (
	"context"
	"errors"
	"testing"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

type fakeRollupStore struct {
	expenses map[string][]core.Expense
	rollups  map[string][]core.MonthlyTotal
	listErr  error
	failUser string
}

func (f *fakeRollupStore) ListExpenses(ctx context.Context, userID, from, to string) ([]core.Expense, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.failUser != "" && userID == f.failUser {
		return nil, errors.New("owner unavailable")
	}
	return f.expenses[userID], nil
}

func (f *fakeRollupStore) ReplaceMonthlySummaries(ctx context.Context, userID string, totals []core.MonthlyTotal) error {
	if f.rollups == nil {
		f.rollups = make(map[string][]core.MonthlyTotal)
	}
	f.rollups[userID] = totals
	return nil
}

func (f *fakeRollupStore) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range f.expenses {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestHandleEventRecomputesOwner(t *testing.T) {
	store := &fakeRollupStore{expenses: map[string][]core.Expense{
		"u1": {
			{Date: "2024-01-15", Amount: 1000, PartyAAmount: 500, PartyBAmount: 500},
			{Date: "2024-02-10", Amount: 1500, PartyAAmount: 750, PartyBAmount: 750},
		},
	}}
	w := NewRollupWorker(store)

	err := w.HandleEvent(context.Background(), amqp.NewExpenseEvent("u1", amqp.ActionCreated, "e1"))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	rollups := store.rollups["u1"]
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollup rows, got %+v", rollups)
	}
	if rollups[0].Month != "2024-02" || rollups[0].Total != 1500 {
		t.Fatalf("unexpected newest rollup: %+v", rollups[0])
	}
}

func TestHandleEventWithoutOwnerIsDropped(t *testing.T) {
	store := &fakeRollupStore{listErr: errors.New("must not be called")}
	w := NewRollupWorker(store)
	if err := w.HandleEvent(context.Background(), &amqp.ExpenseEventMessage{Action: amqp.ActionCreated}); err != nil {
		t.Fatalf("ownerless event must be dropped without error, got %v", err)
	}
}

func TestRecomputeAll(t *testing.T) {
	store := &fakeRollupStore{expenses: map[string][]core.Expense{
		"u1": {{Date: "2024-01-15", Amount: 100}},
		"u2": {{Date: "2024-03-01", Amount: 200}},
	}}
	w := NewRollupWorker(store)

	if err := w.RecomputeAll(context.Background()); err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}
	if len(store.rollups) != 2 {
		t.Fatalf("expected rollups for both owners, got %v", store.rollups)
	}
}

func TestRecomputeAllContinuesPastFailingOwner(t *testing.T) {
	store := &fakeRollupStore{
		expenses: map[string][]core.Expense{
			"u1": {{Date: "2024-01-15", Amount: 100}},
			"u2": {{Date: "2024-03-01", Amount: 200}},
			"u3": {{Date: "2024-04-01", Amount: 300}},
		},
		failUser: "u2",
	}
	w := NewRollupWorker(store)

	if err := w.RecomputeAll(context.Background()); err == nil {
		t.Fatal("expected the failing owner's error to be reported")
	}
	if _, ok := store.rollups["u1"]; !ok {
		t.Error("u1 rollup missing")
	}
	if _, ok := store.rollups["u3"]; !ok {
		t.Error("u3 rollup missing despite earlier failure")
	}
	if _, ok := store.rollups["u2"]; ok {
		t.Error("failing owner must not get a rollup")
	}
}

func TestRecomputePropagatesStoreError(t *testing.T) {
	store := &fakeRollupStore{listErr: errors.New("db gone")}
	w := NewRollupWorker(store)
	if err := w.Recompute(context.Background(), "u1"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
