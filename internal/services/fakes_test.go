package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	categories []core.Category
	expenses   []core.Expense
	nextID     int

	failCreateAfter int // fail CreateExpense once this many records exist; 0 disables
	listCalls       int
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if f.failCreateAfter > 0 && len(f.expenses) >= f.failCreateAfter {
		return core.Expense{}, errors.New("disk full")
	}
	f.nextID++
	e.ID = fmt.Sprintf("e%d", f.nextID)
	f.expenses = append(f.expenses, e)
	return e, nil
}

func (f *fakeStore) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	for _, e := range f.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, errors.New("record not found")
}

func (f *fakeStore) UpdateExpense(ctx context.Context, id string, e core.Expense) error {
	for i := range f.expenses {
		if f.expenses[i].ID == id {
			e.ID = id
			f.expenses[i] = e
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeStore) DeleteExpense(ctx context.Context, id string) error {
	for i := range f.expenses {
		if f.expenses[i].ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeStore) ListExpenses(ctx context.Context, userID, from, to string) ([]core.Expense, error) {
	f.listCalls++
	var out []core.Expense
	for _, e := range f.expenses {
		if e.UserID != userID {
			continue
		}
		if from != "" && e.Date < from {
			continue
		}
		if to != "" && e.Date > to {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []*amqp.ExpenseEventMessage
	err    error
}

func (f *fakePublisher) PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

// fakeInvalidator records invalidated owners.
type fakeInvalidator struct {
	users []string
}

func (f *fakeInvalidator) Invalidate(userID string) {
	f.users = append(f.users, userID)
}

var testCategories = []core.Category{
	{ID: "c1", Name: "食費", ShareRatio: core.ShareRatio{PartyA: 0.5, PartyB: 0.5}},
	{ID: "c2", Name: "交通費", ShareRatio: core.ShareRatio{PartyA: 0.6, PartyB: 0.4}},
}
