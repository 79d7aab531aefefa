package services

import (
	"context"
	"log/slog"

	"pantrypal/internal/core"
	"pantrypal/internal/storage"
)

// ShoppingService manages the shared shopping list. The list has no owner;
// only the add-activity side effect is per-user.
type ShoppingService struct {
	storage  *storage.SQLiteRepository
	activity *ActivityService
}

func NewShoppingService(storage *storage.SQLiteRepository, activity *ActivityService) *ShoppingService {
	return &ShoppingService{storage: storage, activity: activity}
}

// AddItem inserts an unpurchased row, or returns core.ErrDuplicateItem when
// one already exists for the ingredient. userID may be zero for anonymous
// callers; they get no activity row.
func (s *ShoppingService) AddItem(ctx context.Context, ingredient string, userID int64) (core.ShoppingItem, error) {
	name, err := core.NormalizeIngredient(ingredient)
	if err != nil {
		return core.ShoppingItem{}, err
	}

	item, err := s.storage.AddShoppingItem(ctx, name)
	if err != nil {
		return core.ShoppingItem{}, err
	}

	if err := s.activity.Record(ctx, userID, core.ActivityAddToList, name); err != nil {
		// The item is in the list; a lost audit row is not worth a 500.
		slog.WarnContext(ctx, "Failed to record add_to_list activity",
			"error", err, "user_id", userID, "ingredient", name)
	}

	return item, nil
}

// ListUnpurchased returns unpurchased items, most recently added first.
func (s *ShoppingService) ListUnpurchased(ctx context.Context) ([]core.ShoppingItem, error) {
	return s.storage.ListUnpurchased(ctx)
}

// MarkPurchased flips the purchased flag. A missing or already-purchased id
// is not an error; repeated calls are idempotent.
func (s *ShoppingService) MarkPurchased(ctx context.Context, id int64) error {
	changed, err := s.storage.MarkPurchased(ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		slog.WarnContext(ctx, "mark-purchased matched no unpurchased row", "item_id", id)
	}
	return nil
}
