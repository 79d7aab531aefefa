package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCurrentMonthKey(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	if got := CurrentMonthKey(now); got != "2025-03" {
		t.Errorf("CurrentMonthKey() = %q, want %q", got, "2025-03")
	}
}

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-01", false},
		{"2025-12", false},
		{"2025-13", true},
		{"2025-00", true},
		{"2025-1", true},
		{"25-01", true},
		{"", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMonthKey(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMonthKey) {
					t.Errorf("ParseMonthKey(%q) error = %v, want ErrInvalidMonthKey", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthKey(%q) error = %v", tt.input, err)
			}
			if string(got) != tt.input {
				t.Errorf("ParseMonthKey(%q) = %q", tt.input, got)
			}
		})
	}
}

func TestActivityType_Validate(t *testing.T) {
	if err := ActivitySearch.Validate(); err != nil {
		t.Errorf("search: %v", err)
	}
	if err := ActivityAddToList.Validate(); err != nil {
		t.Errorf("add_to_list: %v", err)
	}
	if err := ActivityType("deleted").Validate(); !errors.Is(err, ErrInvalidActivity) {
		t.Errorf("unknown type error = %v, want ErrInvalidActivity", err)
	}
}

func TestNormalizeIngredient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "onion", want: "onion"},
		{name: "trims whitespace", input: "  onion  ", want: "onion"},
		{name: "case preserved", input: "Onion", want: "Onion"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("x", 121), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeIngredient(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeIngredient(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeIngredient(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeIngredient(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUser_IsGoogleAccount(t *testing.T) {
	if !(User{Password: GoogleSentinelPassword}).IsGoogleAccount() {
		t.Error("sentinel password should mark a google account")
	}
	if (User{Password: "$2a$10$abcdefg"}).IsGoogleAccount() {
		t.Error("bcrypt digest should not mark a google account")
	}
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{name: "valid", user: User{Username: "chef", Email: "chef@example.com"}},
		{name: "empty username", user: User{Username: "  ", Email: "chef@example.com"}, wantErr: true},
		{name: "username too long", user: User{Username: strings.Repeat("a", 81), Email: "chef@example.com"}, wantErr: true},
		{name: "bad email", user: User{Username: "chef", Email: "not-an-email"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
