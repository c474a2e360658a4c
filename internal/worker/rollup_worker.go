// Package worker maintains the materialized monthly_summaries table from
// expense change events.
package worker

import (
	"context"
	"fmt"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/log"
	"kakeibo/internal/report"
)

// RollupStore is the storage surface the worker needs.
// *storage.SQLiteRepository satisfies it.
type RollupStore interface {
	ListExpenses(ctx context.Context, userID, from, to string) ([]core.Expense, error)
	ReplaceMonthlySummaries(ctx context.Context, userID string, totals []core.MonthlyTotal) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

// RollupWorker recomputes one owner's monthly totals whenever their expense
// set changes, keeping the rollup table a pure function of the records.
type RollupWorker struct {
	store  RollupStore
	logger *log.Logger
}

func NewRollupWorker(store RollupStore) *RollupWorker {
	return &RollupWorker{
		store:  store,
		logger: log.New(log.Config{Component: log.ComponentWorker}),
	}
}

// HandleEvent processes one expense change event.
func (w *RollupWorker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	if msg.UserID == "" {
		w.logger.WarnContext(ctx, "dropping event without owner", "action", msg.Action)
		return nil
	}
	return w.Recompute(ctx, msg.UserID)
}

// Recompute rebuilds the rollup rows for one owner from their full record
// set.
func (w *RollupWorker) Recompute(ctx context.Context, userID string) error {
	expenses, err := w.store.ListExpenses(ctx, userID, "", "")
	if err != nil {
		return fmt.Errorf("list expenses for %s: %w", userID, err)
	}

	totals := report.MonthlyTotals(expenses)
	if err := w.store.ReplaceMonthlySummaries(ctx, userID, totals); err != nil {
		return fmt.Errorf("replace rollups for %s: %w", userID, err)
	}

	w.logger.InfoContext(ctx, "rollup recomputed",
		log.FieldOperation, log.OpRollup,
		log.FieldUserID, userID,
		"months", len(totals))
	return nil
}

// RecomputeAll rebuilds the rollups of every known owner. Used on startup
// and on the periodic tick to recover from missed events. One owner's
// failure is logged and skipped so the sweep still reaches the rest; the
// last failure is returned once every owner has been attempted.
func (w *RollupWorker) RecomputeAll(ctx context.Context) error {
	userIDs, err := w.store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list user ids: %w", err)
	}

	var lastErr error
	for _, id := range userIDs {
		if err := w.Recompute(ctx, id); err != nil {
			w.logger.ErrorContext(ctx, "rollup recompute failed",
				log.FieldOperation, log.OpRollup,
				log.FieldUserID, id,
				"error", err)
			lastErr = err
		}
	}
	return lastErr
}
