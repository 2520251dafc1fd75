package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/models"
)

func newTestStore(t *testing.T) (*UserStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewUserStore(common.NewSilentLogger(), path), path
}

func TestLoadMissingFileReturnsSeedUser(t *testing.T) {
	store, _ := newTestStore(t)

	users := store.Load(context.Background())
	if len(users) != 1 {
		t.Fatalf("expected 1 seed user, got %d", len(users))
	}
	if users[0].ID != SeedUserID {
		t.Errorf("expected seed user ID %q, got %q", SeedUserID, users[0].ID)
	}
	if users[0].Username != SeedUsername {
		t.Errorf("expected seed username %q, got %q", SeedUsername, users[0].Username)
	}
}

func TestLoadCorruptFileReturnsSeedUser(t *testing.T) {
	store, path := newTestStore(t)

	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	users := store.Load(context.Background())
	if len(users) != 1 || users[0].ID != SeedUserID {
		t.Fatalf("expected seed user for corrupt file, got %+v", users)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	in := []models.User{
		{ID: "u1", Username: "alice", Password: "pw1", RecoveryPhrase: "phrase one", CreatedAt: time.Now().UTC()},
		{ID: "u2", Username: "bob", Password: "pw2", RecoveryPhrase: "phrase two", CreatedAt: time.Now().UTC()},
	}

	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out := store.Load(ctx)
	if len(out) != 2 {
		t.Fatalf("expected 2 users, got %d", len(out))
	}
	if out[0].Username != "alice" || out[1].Username != "bob" {
		t.Errorf("unexpected usernames: %q, %q", out[0].Username, out[1].Username)
	}

	// The file is a plain indented JSON array
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("users file is not a JSON array: %v", err)
	}
	if _, ok := raw[0]["recoveryPhrase"]; !ok {
		t.Error("expected camelCase recoveryPhrase key in users file")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "users.json")
	store := NewUserStore(common.NewSilentLogger(), path)

	if err := store.Save(context.Background(), []models.User{SeedUser()}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("users file not created: %v", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.Save(context.Background(), []models.User{SeedUser()}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only users.json in dir, got %v", names)
	}
}

func TestAddUserAppendsToSeed(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user := models.User{ID: "u-new", Username: "carol", Password: "secret", CreatedAt: time.Now()}
	if err := store.AddUser(ctx, user); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	users := store.Load(ctx)
	if len(users) != 2 {
		t.Fatalf("expected seed + new user, got %d users", len(users))
	}
	if users[0].ID != SeedUserID {
		t.Errorf("expected seed user first, got %q", users[0].ID)
	}
	if users[1].Username != "carol" {
		t.Errorf("expected new user last, got %q", users[1].Username)
	}
}

func TestFindUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user, ok := store.FindUser(ctx, SeedUsername)
	if !ok {
		t.Fatal("expected to find seed user by username")
	}
	if user.ID != SeedUserID {
		t.Errorf("expected ID %q, got %q", SeedUserID, user.ID)
	}

	if _, ok := store.FindUser(ctx, "nobody"); ok {
		t.Error("expected no match for unknown username")
	}
}

func TestFindUserByID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user, ok := store.FindUserByID(ctx, SeedUserID)
	if !ok {
		t.Fatal("expected to find seed user by ID")
	}
	if user.Username != SeedUsername {
		t.Errorf("expected username %q, got %q", SeedUsername, user.Username)
	}

	if _, ok := store.FindUserByID(ctx, "no-such-id"); ok {
		t.Error("expected no match for unknown ID")
	}
}

func TestUserExists(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if !store.UserExists(ctx, SeedUsername) {
		t.Error("expected seed username to exist")
	}
	if store.UserExists(ctx, "ghost") {
		t.Error("expected unknown username to not exist")
	}
}

func TestValidateCredentials(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{"valid seed credentials", "test", "test", true},
		{"wrong password", "test", "wrong", false},
		{"unknown user", "ghost", "test", false},
		{"empty credentials", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok := store.ValidateCredentials(ctx, tt.username, tt.password)
			if ok != tt.wantOK {
				t.Errorf("ValidateCredentials(%q, %q) = %v, want %v", tt.username, tt.password, ok, tt.wantOK)
			}
			if tt.wantOK && user.Username != tt.username {
				t.Errorf("expected user %q, got %q", tt.username, user.Username)
			}
		})
	}
}

func TestGetAllUsersReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, []models.User{SeedUser()}); err != nil {
		t.Fatal(err)
	}

	first := store.GetAllUsers(ctx)
	first[0].Username = "tampered"

	second := store.GetAllUsers(ctx)
	if second[0].Username != SeedUsername {
		t.Error("mutating the returned slice should not affect stored data")
	}
}

func TestUserCount(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if got := store.UserCount(ctx); got != 1 {
		t.Errorf("expected seed count 1, got %d", got)
	}

	if err := store.AddUser(ctx, models.User{ID: "u2", Username: "dave"}); err != nil {
		t.Fatal(err)
	}
	if got := store.UserCount(ctx); got != 2 {
		t.Errorf("expected count 2 after add, got %d", got)
	}
}
