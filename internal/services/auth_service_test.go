package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pantrypal/internal/auth"
	"pantrypal/internal/core"
	"pantrypal/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()

	created, err := svc.Signup(ctx, "chef", "chef@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if created.Password == "hunter2" {
		t.Error("Signup() stored the plaintext password")
	}

	user, err := svc.Login(ctx, "chef@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Login() id = %d, want %d", user.ID, created.ID)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "chef", "chef@example.com", "hunter2"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "chef@example.com", password: "nope"},
		{name: "unknown email", email: "ghost@example.com", password: "hunter2"},
		{name: "empty email", email: "", password: "hunter2"},
		{name: "empty password", email: "chef@example.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.email, tt.password); !errors.Is(err, core.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "chef", "chef@example.com", "hunter2"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if _, err := svc.Signup(ctx, "chef", "other@example.com", "hunter2"); !errors.Is(err, core.ErrUserExists) {
		t.Errorf("Signup() duplicate username error = %v, want ErrUserExists", err)
	}
	if _, err := svc.Signup(ctx, "chef2", "chef@example.com", "hunter2"); !errors.Is(err, core.ErrUserExists) {
		t.Errorf("Signup() duplicate email error = %v, want ErrUserExists", err)
	}
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "", "chef@example.com", "hunter2"); err == nil {
		t.Error("Signup() with empty username succeeded")
	}
	if _, err := svc.Signup(ctx, "chef", "not-an-email", "hunter2"); err == nil {
		t.Error("Signup() with bad email succeeded")
	}
	if _, err := svc.Signup(ctx, "chef", "chef@example.com", ""); err == nil {
		t.Error("Signup() with empty password succeeded")
	}
}

func TestAuthService_LoginWithGoogle_CreatesOnce(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()
	id := auth.Identity{Email: "chef@gmail.com", Name: "Chef"}

	first, err := svc.LoginWithGoogle(ctx, id)
	if err != nil {
		t.Fatalf("LoginWithGoogle() error = %v", err)
	}
	if first.Password != core.GoogleSentinelPassword {
		t.Errorf("google user password = %q, want sentinel", first.Password)
	}

	second, err := svc.LoginWithGoogle(ctx, id)
	if err != nil {
		t.Fatalf("LoginWithGoogle() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second login id = %d, want %d", second.ID, first.ID)
	}
}

func TestAuthService_LoginWithGoogle_UsernameCollision(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "Chef", "local@example.com", "hunter2"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// Same display name, different email: a suffixed username is generated.
	user, err := svc.LoginWithGoogle(ctx, auth.Identity{Email: "chef@gmail.com", Name: "Chef"})
	if err != nil {
		t.Fatalf("LoginWithGoogle() error = %v", err)
	}
	if user.Username == "Chef" {
		t.Error("collision should have produced a different username")
	}
	if user.Email != "chef@gmail.com" {
		t.Errorf("email = %q", user.Email)
	}
}

func TestAuthService_GoogleAccountRejectsPasswordLogin(t *testing.T) {
	svc := NewAuthService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.LoginWithGoogle(ctx, auth.Identity{Email: "chef@gmail.com", Name: "Chef"}); err != nil {
		t.Fatalf("LoginWithGoogle() error = %v", err)
	}

	// The sentinel itself must not work as a password.
	if _, err := svc.Login(ctx, "chef@gmail.com", core.GoogleSentinelPassword); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("Login() with sentinel error = %v, want ErrInvalidCredentials", err)
	}
}
