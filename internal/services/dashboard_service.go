package services

import (
	"context"
	"fmt"
	"time"

	"pantrypal/internal/core"
	"pantrypal/internal/storage"
)

const (
	// RecipesPerSearch is the estimate multiplier for the "recipes found"
	// figure; searches request a fixed page of 6 results.
	RecipesPerSearch = 6

	// IllustrativeSpentCents is the placeholder spent figure shown until
	// purchases carry prices.
	IllustrativeSpentCents int64 = 234000

	recentActivityLimit = 5
)

// Stats is everything the dashboard page renders for one user.
type Stats struct {
	Username string
	Email    string

	TotalSearches int64
	RecipesFound  int64
	ShoppingItems int64
	Recent        []core.Activity

	Budget       core.Money
	Spent        core.Money
	Remaining    core.Money
	PercentSpent int
	CurrentMonth core.MonthKey
}

// DashboardService composes statistics from the other components. It is
// read-only except for the lazy budget-row creation it delegates to
// BudgetService.
type DashboardService struct {
	storage  *storage.SQLiteRepository
	activity *ActivityService
	budget   *BudgetService
}

func NewDashboardService(storage *storage.SQLiteRepository, activity *ActivityService, budget *BudgetService) *DashboardService {
	return &DashboardService{storage: storage, activity: activity, budget: budget}
}

// Stats assembles the dashboard for the session's user as of now.
func (s *DashboardService) Stats(ctx context.Context, sess core.Session, now time.Time) (Stats, error) {
	stats := Stats{
		Username:     sess.Username,
		Email:        sess.Email,
		CurrentMonth: core.CurrentMonthKey(now),
	}

	searches, err := s.activity.CountByType(ctx, sess.UserID, core.ActivitySearch)
	if err != nil {
		return Stats{}, fmt.Errorf("count searches: %w", err)
	}
	stats.TotalSearches = searches
	stats.RecipesFound = searches * RecipesPerSearch

	// The shopping list is shared, so this count is global, not per-user.
	items, err := s.storage.CountUnpurchased(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count shopping items: %w", err)
	}
	stats.ShoppingItems = items

	recent, err := s.activity.Recent(ctx, sess.UserID, recentActivityLimit)
	if err != nil {
		return Stats{}, fmt.Errorf("recent activity: %w", err)
	}
	stats.Recent = recent

	budget, err := s.budget.GetOrCreate(ctx, sess.UserID, stats.CurrentMonth)
	if err != nil {
		return Stats{}, fmt.Errorf("budget: %w", err)
	}
	stats.Budget = budget
	stats.Spent = core.Money{Cents: IllustrativeSpentCents}
	stats.Remaining = core.Money{Cents: budget.Cents - IllustrativeSpentCents}
	if budget.Cents > 0 {
		stats.PercentSpent = int(IllustrativeSpentCents * 100 / budget.Cents)
	}

	return stats, nil
}
