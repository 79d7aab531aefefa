package session

import (
	"testing"
	"time"

	"pantrypal/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	sess := core.Session{UserID: 7, Username: "chef", Email: "chef@example.com"}
	id := store.Create(sess)
	if id == "" {
		t.Fatal("Create() returned empty id")
	}

	got, ok := store.Get(id)
	if !ok {
		t.Fatal("Get() ok = false")
	}
	if got != sess {
		t.Errorf("Get() = %+v, want %+v", got, sess)
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.Create(core.Session{UserID: int64(i)})
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
	if store.Len() != 100 {
		t.Errorf("Len() = %d, want 100", store.Len())
	}
}

func TestStore_UnknownID(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	if _, ok := store.Get("nope"); ok {
		t.Error("Get() ok = true for unknown id")
	}
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	defer store.Close()

	id := store.Create(core.Session{UserID: 1})
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Get(id); ok {
		t.Error("Get() ok = true after expiry")
	}
	// The stale read also removed the entry.
	if store.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", store.Len())
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	id := store.Create(core.Session{UserID: 1})
	store.Delete(id)

	if _, ok := store.Get(id); ok {
		t.Error("Get() ok = true after Delete")
	}
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	store := NewStore(time.Hour)
	store.Close()
	store.Close()
}

func TestStore_RemoveExpired(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	defer store.Close()

	store.Create(core.Session{UserID: 1})
	store.Create(core.Session{UserID: 2})
	time.Sleep(20 * time.Millisecond)

	store.removeExpired()
	if store.Len() != 0 {
		t.Errorf("Len() = %d after reap, want 0", store.Len())
	}
}
