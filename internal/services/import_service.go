package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/importer"
)

// ImportService runs the spreadsheet import pipeline: decode, normalize,
// preview, and the build-then-persist commit step.
type ImportService struct {
	store       Store
	aliases     importer.AliasSet
	events      EventPublisher
	invalidator Invalidator
}

func NewImportService(store Store, aliases importer.AliasSet, events EventPublisher, invalidator Invalidator) *ImportService {
	return &ImportService{store: store, aliases: aliases, events: events, invalidator: invalidator}
}

// Preview decodes a workbook and normalizes every row without touching
// storage. Unparseable cells degrade to defaults so the caller can show the
// complete sheet for review before anything is committed.
func (s *ImportService) Preview(ctx context.Context, r io.Reader) ([]importer.CanonicalRow, error) {
	rows, err := importer.ParseWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	normalized := s.aliases.NormalizeRows(rows)

	slog.InfoContext(ctx, "workbook previewed", "row_count", len(normalized))
	return normalized, nil
}

// Commit materializes expense records from reviewed rows and persists them
// one by one. Building is all-or-nothing: an unresolved category fails the
// batch before anything is written. Persistence is not transactional; a
// failure partway leaves the earlier records committed, and the returned
// count says how many made it.
func (s *ImportService) Commit(ctx context.Context, rows []importer.CanonicalRow, userID string) (int, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}

	expenses, err := importer.BuildExpenses(rows, categories, userID)
	if err != nil {
		return 0, err
	}

	persisted := 0
	for _, e := range expenses {
		if _, err := s.store.CreateExpense(ctx, e); err != nil {
			s.finishImport(ctx, userID, persisted)
			return persisted, fmt.Errorf("persist record %d of %d: %w", persisted+1, len(expenses), err)
		}
		persisted++
	}

	s.finishImport(ctx, userID, persisted)
	return persisted, nil
}

func (s *ImportService) finishImport(ctx context.Context, userID string, count int) {
	if count == 0 {
		return
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
	if s.events != nil {
		if err := s.events.PublishExpenseEvent(ctx, amqp.NewImportEvent(userID, count)); err != nil {
			slog.ErrorContext(ctx, "failed to publish import event",
				"user_id", userID, "row_count", count, "error", err)
		}
	}
	slog.InfoContext(ctx, "import committed", "user_id", userID, "row_count", count)
}
