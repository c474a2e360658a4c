package services

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/importer"
)

// ExpenseInput carries the caller-supplied fields of a manual expense
// entry. Split amounts are always derived server-side from the category's
// ratio, never accepted from the caller.
type ExpenseInput struct {
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	CategoryID string `json:"categoryId"`
	Amount     int64  `json:"amount"`
	Memo       string `json:"memo"`
}

// ExpenseService handles the manual-entry lifecycle of expense records.
// Event publishing and cache invalidation are best-effort: a persisted
// write is never failed because a follow-up side effect did not happen.
type ExpenseService struct {
	store       Store
	events      EventPublisher
	invalidator Invalidator
}

func NewExpenseService(store Store, events EventPublisher, invalidator Invalidator) *ExpenseService {
	return &ExpenseService{store: store, events: events, invalidator: invalidator}
}

// CreateExpense builds a record from the input, computing the split from
// the referenced category's ratio, and persists it.
func (s *ExpenseService) CreateExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	expense, err := s.buildExpense(ctx, in)
	if err != nil {
		return core.Expense{}, err
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.afterWrite(ctx, created.UserID, amqp.NewExpenseEvent(created.UserID, amqp.ActionCreated, created.ID))
	return created, nil
}

// UpdateExpense replaces every field of an existing record, recomputing the
// split from the (possibly changed) category.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (core.Expense, error) {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("load expense: %w", err)
	}
	in.UserID = existing.UserID

	expense, err := s.buildExpense(ctx, in)
	if err != nil {
		return core.Expense{}, err
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.store.UpdateExpense(ctx, id, expense); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	expense.ID = id

	s.afterWrite(ctx, expense.UserID, amqp.NewExpenseEvent(expense.UserID, amqp.ActionUpdated, id))
	return expense, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.afterWrite(ctx, existing.UserID, amqp.NewExpenseEvent(existing.UserID, amqp.ActionDeleted, id))
	return nil
}

// ListExpenses returns an owner's records, optionally bounded by an
// inclusive date range.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID, from, to string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID, from, to)
}

func (s *ExpenseService) buildExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return core.Expense{}, fmt.Errorf("list categories: %w", err)
	}

	var category *core.Category
	for i := range categories {
		if categories[i].ID == in.CategoryID {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return core.Expense{}, &importer.CategoryNotFoundError{Category: in.CategoryID}
	}

	partyA, partyB := category.ShareRatio.Split(in.Amount)
	return core.Expense{
		UserID:       in.UserID,
		Date:         in.Date,
		CategoryID:   category.ID,
		Amount:       in.Amount,
		Memo:         in.Memo,
		PartyAAmount: partyA,
		PartyBAmount: partyB,
	}, nil
}

func (s *ExpenseService) afterWrite(ctx context.Context, userID string, msg *amqp.ExpenseEventMessage) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish expense event",
			"user_id", userID, "action", msg.Action, "error", err)
	}
}
