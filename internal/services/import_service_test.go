package services

import (
	"context"
	"errors"
	"testing"

	"kakeibo/internal/amqp"
	"kakeibo/internal/importer"
)

func TestImportCommit(t *testing.T) {
	store := &fakeStore{categories: testCategories}
	events := &fakePublisher{}
	invalidator := &fakeInvalidator{}
	svc := NewImportService(store, importer.DefaultAliases(), events, invalidator)

	rows := []importer.CanonicalRow{
		{Date: "2024-01-15", Category: "食費", Amount: 1000, Memo: "groceries"},
		{Date: "2024-01-16", Category: "交通費", Amount: 500},
	}
	count, err := svc.Commit(context.Background(), rows, "u1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if count != 2 || len(store.expenses) != 2 {
		t.Fatalf("expected 2 persisted records, got count=%d stored=%d", count, len(store.expenses))
	}
	if store.expenses[0].PartyAAmount != 500 || store.expenses[1].PartyAAmount != 300 {
		t.Fatalf("splits not computed: %+v", store.expenses)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected one import event, got %d", len(events.events))
	}
	evt := events.events[0]
	if evt.Action != amqp.ActionImported || evt.Count != 2 || evt.UserID != "u1" {
		t.Fatalf("unexpected import event: %+v", evt)
	}
	if len(invalidator.users) != 1 {
		t.Fatalf("expected cache invalidation, got %v", invalidator.users)
	}
}

func TestImportCommitUnknownCategoryWritesNothing(t *testing.T) {
	store := &fakeStore{categories: testCategories}
	events := &fakePublisher{}
	svc := NewImportService(store, importer.DefaultAliases(), events, nil)

	rows := []importer.CanonicalRow{
		{Date: "2024-01-15", Category: "食費", Amount: 1000},
		{Date: "2024-01-16", Category: "謎", Amount: 500},
	}
	count, err := svc.Commit(context.Background(), rows, "u1")
	var notFound *importer.CategoryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected CategoryNotFoundError, got %v", err)
	}
	if count != 0 || len(store.expenses) != 0 {
		t.Fatalf("unknown category must commit nothing, got count=%d stored=%d", count, len(store.expenses))
	}
	if len(events.events) != 0 {
		t.Fatal("no event must be published for a failed batch")
	}
}

func TestImportCommitPartialPersistenceFailure(t *testing.T) {
	store := &fakeStore{categories: testCategories, failCreateAfter: 1}
	events := &fakePublisher{}
	svc := NewImportService(store, importer.DefaultAliases(), events, nil)

	rows := []importer.CanonicalRow{
		{Date: "2024-01-15", Category: "食費", Amount: 1000},
		{Date: "2024-01-16", Category: "食費", Amount: 500},
	}
	count, err := svc.Commit(context.Background(), rows, "u1")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	// Record-by-record persistence: the first record stays committed.
	if count != 1 || len(store.expenses) != 1 {
		t.Fatalf("expected 1 committed record, got count=%d stored=%d", count, len(store.expenses))
	}
	// The partial import still announces itself so rollups catch up.
	if len(events.events) != 1 || events.events[0].Count != 1 {
		t.Fatalf("expected import event for the committed part, got %+v", events.events)
	}
}
