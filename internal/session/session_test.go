package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

func TestRoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(storage.DefaultPath(t.TempDir()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	s := New(db)
	s.Init(ctx)
	user := &model.User{ID: 4, Name: "Ana", Username: "ana", Email: "ana@example.com"}
	if err := s.Login(ctx, user, "tok", true); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A second store over the same database stands in for a restart.
	reloaded := New(db)
	st := reloaded.Init(ctx)
	if !st.Authenticated || st.User == nil || *st.User != *user || st.Token != "tok" || !st.RememberMe {
		t.Fatalf("after reload = %+v", st)
	}

	if err := reloaded.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	st = s.Refresh(ctx)
	if st.Authenticated || st.User != nil || st.Token != "" {
		t.Fatalf("after logout = %+v", st)
	}
}

func TestRefreshCorruptIsAnonymous(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	_ = kv.Set(ctx, storage.KeySession, "{not json")

	s := New(kv)
	st := s.Init(ctx)
	if st.Authenticated || st.Loading {
		t.Fatalf("state = %+v", st)
	}
}

func TestRefreshIncompleteRecord(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	_ = kv.Set(ctx, storage.KeySession, `{"version":1,"token":"tok","authenticated":true}`)

	if st := New(kv).Init(ctx); st.Authenticated {
		t.Fatalf("record without user accepted: %+v", st)
	}
}

func TestLegacyKeysFallback(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	_ = kv.SetMany(ctx, map[string]string{
		storage.KeyAuthToken:       "legacy",
		storage.KeyCurrentUser:     `{"id":9,"username":"bob"}`,
		storage.KeyIsAuthenticated: "true",
	})

	s := New(kv)
	st := s.Init(ctx)
	if !st.Authenticated || st.User.ID != 9 || s.Token() != "legacy" {
		t.Fatalf("state = %+v", st)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{storage.KeyAuthToken, storage.KeyCurrentUser, storage.KeyIsAuthenticated} {
		if _, ok, _ := kv.Get(ctx, key); ok {
			t.Fatalf("%s survived logout", key)
		}
	}
}

func TestLegacyTokenWithoutUser(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	_ = kv.Set(ctx, storage.KeyAuthToken, "orphan")

	if st := New(kv).Init(ctx); st.Authenticated {
		t.Fatalf("token without user accepted: %+v", st)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())
	s.Init(ctx)

	var seen []bool
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.Authenticated) })

	_ = s.Login(ctx, &model.User{ID: 1}, "t", false)
	_ = s.Logout(ctx)
	unsubscribe()
	_ = s.Login(ctx, &model.User{ID: 1}, "t", false)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("notifications = %v", seen)
	}
}

func TestRequireAuth(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())

	if err := RequireAuth(s); !errors.Is(err, ErrNotReady) {
		t.Fatalf("before init = %v", err)
	}
	s.Init(ctx)
	if err := RequireAuth(s); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("anonymous = %v", err)
	}
	_ = s.Login(ctx, &model.User{ID: 2}, "t", false)
	if err := RequireAuth(s); err != nil {
		t.Fatalf("authenticated = %v", err)
	}
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	s := New(storage.NewMemory())
	if err := s.Login(context.Background(), &model.User{ID: 1}, "", false); err == nil {
		t.Fatal("empty token accepted")
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}

	s := New(storage.NewMemory())
	_ = s.Login(ctx, &model.User{ID: 1}, token, false)
	got, ok := s.Expiry()
	if !ok || !got.Equal(exp) {
		t.Fatalf("Expiry = %v, %v; want %v", got, ok, exp)
	}

	_ = s.Login(ctx, &model.User{ID: 1}, "opaque-token", false)
	if _, ok := s.Expiry(); ok {
		t.Fatal("opaque token reported an expiry")
	}
}
