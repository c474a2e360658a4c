// Package services orchestrates the core engine against the outbound
// collaborators: the expense store, the event bus and the summary cache.
package services

import (
	"context"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

// Store is the persistence collaborator the services build records for.
// *storage.SQLiteRepository satisfies it.
type Store interface {
	ListCategories(ctx context.Context) ([]core.Category, error)

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	UpdateExpense(ctx context.Context, id string, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, userID, from, to string) ([]core.Expense, error)
}

// EventPublisher emits expense change events for the rollup worker.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// Invalidator drops cached summary views for one owner after a write.
type Invalidator interface {
	Invalidate(userID string)
}
