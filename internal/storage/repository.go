package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pantrypal/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the single persistence backend: users, activity,
// the shared shopping list and per-user monthly budgets.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, password string) (core.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?)`,
		username, email, password, now)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrUserExists
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)

	return core.User{ID: id, Username: username, Email: email, Password: password, CreatedAt: now}, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, created_at FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, created_at FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// --- activity ---

func (r *SQLiteRepository) RecordActivity(ctx context.Context, userID int64, typ core.ActivityType, details string) error {
	if err := typ.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_activity (user_id, activity_type, activity_details, activity_date) VALUES (?, ?, ?, ?)`,
		userID, string(typ), details, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// RecentActivity returns the newest rows first. Ties on activity_date fall
// back to insertion order.
func (r *SQLiteRepository) RecentActivity(ctx context.Context, userID int64, limit int) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, activity_type, activity_details, activity_date
		 FROM user_activity
		 WHERE user_id = ?
		 ORDER BY activity_date DESC, id DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var activities []core.Activity
	for rows.Next() {
		var a core.Activity
		var typ string
		if err := rows.Scan(&a.ID, &a.UserID, &typ, &a.Details, &a.Date); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Type = core.ActivityType(typ)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *SQLiteRepository) CountActivityByType(ctx context.Context, userID int64, typ core.ActivityType) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_activity WHERE user_id = ? AND activity_type = ?`,
		userID, string(typ)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return count, nil
}

// --- shopping list ---

// AddShoppingItem inserts an unpurchased row. The partial unique index makes
// the duplicate check atomic: a conflicting insert returns no row.
func (r *SQLiteRepository) AddShoppingItem(ctx context.Context, ingredient string) (core.ShoppingItem, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO shopping_list (ingredient_name, purchased, date_added) VALUES (?, 0, ?)
		 ON CONFLICT (ingredient_name) WHERE purchased = 0 DO NOTHING
		 RETURNING id`,
		ingredient, now).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ShoppingItem{}, core.ErrDuplicateItem
	}
	if err != nil {
		return core.ShoppingItem{}, fmt.Errorf("add shopping item: %w", err)
	}

	slog.InfoContext(ctx, "Shopping item added", "item_id", id, "ingredient", ingredient)

	return core.ShoppingItem{ID: id, Ingredient: ingredient, Purchased: false, DateAdded: now}, nil
}

func (r *SQLiteRepository) ListUnpurchased(ctx context.Context) ([]core.ShoppingItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ingredient_name, purchased, date_added
		 FROM shopping_list
		 WHERE purchased = 0
		 ORDER BY date_added DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list unpurchased: %w", err)
	}
	defer rows.Close()

	items := []core.ShoppingItem{}
	for rows.Next() {
		var it core.ShoppingItem
		if err := rows.Scan(&it.ID, &it.Ingredient, &it.Purchased, &it.DateAdded); err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) CountUnpurchased(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shopping_list WHERE purchased = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unpurchased: %w", err)
	}
	return count, nil
}

// MarkPurchased flips the flag and reports whether any row changed.
func (r *SQLiteRepository) MarkPurchased(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shopping_list SET purchased = 1 WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("mark purchased: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark purchased rows affected: %w", err)
	}
	return affected > 0, nil
}

// --- budget ---

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID int64, month core.MonthKey) (int64, bool, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_budget_cents FROM user_budget WHERE user_id = ? AND month_year = ?`,
		userID, month.String()).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get budget: %w", err)
	}
	return cents, true, nil
}

// CreateBudgetIfAbsent is a no-op when the row already exists, so concurrent
// first views of a month create exactly one row.
func (r *SQLiteRepository) CreateBudgetIfAbsent(ctx context.Context, userID int64, month core.MonthKey, cents int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_budget (user_id, month_year, monthly_budget_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, month_year) DO NOTHING`,
		userID, month.String(), cents)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID int64, month core.MonthKey, cents int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_budget (user_id, month_year, monthly_budget_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, month_year) DO UPDATE SET monthly_budget_cents = excluded.monthly_budget_cents`,
		userID, month.String(), cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget updated", "user_id", userID, "month_year", month.String(), "amount_cents", cents)
	return nil
}
