package services

import (
	"context"
	"fmt"

	"pantrypal/internal/core"
	"pantrypal/internal/storage"
)

// BudgetService owns the per-user, per-month budget row with
// get-or-create-default semantics.
type BudgetService struct {
	storage      *storage.SQLiteRepository
	defaultCents int64
}

func NewBudgetService(storage *storage.SQLiteRepository, defaultCents int64) *BudgetService {
	return &BudgetService{storage: storage, defaultCents: defaultCents}
}

// GetOrCreate returns the budget for (userID, month), lazily inserting the
// default on first sight. The insert ignores conflicts, so two concurrent
// first views create exactly one row.
func (s *BudgetService) GetOrCreate(ctx context.Context, userID int64, month core.MonthKey) (core.Money, error) {
	if err := month.Validate(); err != nil {
		return core.Money{}, err
	}

	cents, found, err := s.storage.GetBudget(ctx, userID, month)
	if err != nil {
		return core.Money{}, err
	}
	if found {
		return core.Money{Cents: cents}, nil
	}

	if err := s.storage.CreateBudgetIfAbsent(ctx, userID, month, s.defaultCents); err != nil {
		return core.Money{}, err
	}

	// Re-read: a concurrent update may already have replaced the default.
	cents, found, err = s.storage.GetBudget(ctx, userID, month)
	if err != nil {
		return core.Money{}, err
	}
	if !found {
		return core.Money{}, fmt.Errorf("budget row missing after create for user %d month %s", userID, month)
	}
	return core.Money{Cents: cents}, nil
}

// Update upserts the month's budget. Non-positive amounts are rejected
// with core.ErrInvalidAmount.
func (s *BudgetService) Update(ctx context.Context, userID int64, month core.MonthKey, amount core.Money) error {
	if err := month.Validate(); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	return s.storage.UpsertBudget(ctx, userID, month, amount.Cents)
}
