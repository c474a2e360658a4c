package services

import (
	"context"
	"fmt"
	"time"

	"kakeibo/internal/cache"
	"kakeibo/internal/core"
	"kakeibo/internal/report"
)

// SummaryService serves the aggregation projections over an owner's stored
// records, memoizing results until the next write or TTL expiry.
type SummaryService struct {
	store         Store
	monthlyCache  *cache.LRUCache[[]core.MonthlyTotal]
	categoryCache *cache.LRUCache[[]core.CategoryExpense]
}

func NewSummaryService(store Store, cacheSize int, cacheTTL time.Duration) *SummaryService {
	return &SummaryService{
		store:         store,
		monthlyCache:  cache.NewLRUCache[[]core.MonthlyTotal](cacheSize, cacheTTL),
		categoryCache: cache.NewLRUCache[[]core.CategoryExpense](cacheSize, cacheTTL),
	}
}

// MonthlyTotals projects the trend line across every month of the owner's
// full record set. The full set is always used; month filtering would break
// the month-over-month deltas.
func (s *SummaryService) MonthlyTotals(ctx context.Context, userID string) ([]core.MonthlyTotal, error) {
	key := userID + ":monthly"
	if totals, ok := s.monthlyCache.Get(key); ok {
		return totals, nil
	}

	expenses, err := s.store.ListExpenses(ctx, userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	totals := report.MonthlyTotals(expenses)
	s.monthlyCache.Set(key, totals)
	return totals, nil
}

// CategoryExpenses projects per-category totals. A non-empty from/to pair
// pre-filters the snapshot to that inclusive date window, which is how the
// dashboard asks for a single month.
func (s *SummaryService) CategoryExpenses(ctx context.Context, userID, from, to string) ([]core.CategoryExpense, error) {
	key := userID + ":categories:" + from + ":" + to
	if result, ok := s.categoryCache.Get(key); ok {
		return result, nil
	}

	expenses, err := s.store.ListExpenses(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	result := report.CategoryExpenses(expenses, categories)
	s.categoryCache.Set(key, result)
	return result, nil
}

// Invalidate drops every cached view of one owner.
func (s *SummaryService) Invalidate(userID string) {
	s.monthlyCache.DeletePrefix(userID + ":")
	s.categoryCache.DeletePrefix(userID + ":")
}
