package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ActivitySearch    ActivityType = "search"
	ActivityAddToList ActivityType = "add_to_list"
)

// GoogleSentinelPassword marks accounts created through the Google flow.
// It is stored in place of a digest and can never match a bcrypt compare.
const GoogleSentinelPassword = "google_oauth"

type (
	ActivityType string

	// MonthKey identifies a budget period as "YYYY-MM".
	MonthKey string

	User struct {
		ID       int64
		Username string
		Email    string
		// Password holds the stored digest (or GoogleSentinelPassword).
		Password  string
		CreatedAt time.Time
	}

	// Session is the server-side identity state for one logged-in browser.
	Session struct {
		UserID   int64
		Username string
		Email    string
	}

	Activity struct {
		ID      int64        `json:"id"`
		UserID  int64        `json:"user_id"`
		Type    ActivityType `json:"activity_type"`
		Details string       `json:"activity_details"`
		Date    time.Time    `json:"activity_date"`
	}

	// ShoppingItem is shared across all users; there is no owner field.
	ShoppingItem struct {
		ID         int64     `json:"id"`
		Ingredient string    `json:"ingredient_name"`
		Purchased  bool      `json:"purchased"`
		DateAdded  time.Time `json:"date_added"`
	}

	Budget struct {
		UserID    int64
		MonthYear MonthKey
		Amount    Money
	}
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateItem      = errors.New("ingredient already in list")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidMonthKey    = errors.New("invalid month key")
	ErrEmptyIngredient    = errors.New("empty ingredient name")
	ErrInvalidActivity    = errors.New("invalid activity type")
)

// CurrentMonthKey returns the key for the month containing now.
func CurrentMonthKey(now time.Time) MonthKey {
	return MonthKey(now.Format("2006-01"))
}

// ParseMonthKey validates a "YYYY-MM" string.
func ParseMonthKey(s string) (MonthKey, error) {
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", ErrInvalidMonthKey
	}
	return MonthKey(s), nil
}

func (k MonthKey) String() string { return string(k) }

func (k MonthKey) Validate() error {
	_, err := ParseMonthKey(string(k))
	return err
}

func (t ActivityType) Validate() error {
	switch t {
	case ActivitySearch, ActivityAddToList:
		return nil
	}
	return ErrInvalidActivity
}

// IsGoogleAccount reports whether the user has no local password set.
func (u User) IsGoogleAccount() bool {
	return u.Password == GoogleSentinelPassword
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("empty username")
	}
	if len(u.Username) > 80 {
		return errors.New("username too long (max 80 characters)")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	return nil
}

// NormalizeIngredient trims whitespace; matching beyond that is exact and
// case-sensitive.
func NormalizeIngredient(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyIngredient
	}
	if len(name) > 120 {
		return "", errors.New("ingredient name too long (max 120 characters)")
	}
	return name, nil
}
