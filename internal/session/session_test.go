// Package session tests require a running Valkey instance and skip when
// none is available.
package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"

	"storefront/internal/cache"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client, err := cache.ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: valkey not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewStore(client, false)
}

func TestSessionLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	w := httptest.NewRecorder()
	userID := uuid.New()
	id, err := store.Create(ctx, w, &Data{
		UserID: userID,
		Email:  "merchant@test.local",
		Role:   "merchant",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned an empty session id")
	}

	// The cookie must be HttpOnly and carry the session id.
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == CookieName {
			found = true
			if c.Value != id {
				t.Errorf("cookie value: got %q, want session id", c.Value)
			}
			if !c.HttpOnly {
				t.Error("session cookie must be HttpOnly")
			}
		}
	}
	if !found {
		t.Fatalf("no %s cookie set", CookieName)
	}

	// A request carrying the cookie resolves to the stored data.
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookies[0])

	data, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data == nil {
		t.Fatal("Get returned no session")
	}
	if data.UserID != userID || data.Email != "merchant@test.local" {
		t.Errorf("session data mismatch: %+v", data)
	}
	if data.TwoFADone {
		t.Error("fresh session must not be 2FA-complete")
	}

	// Update flips the 2FA flag in place.
	data.TwoFADone = true
	if err := store.Update(ctx, r, data); err != nil {
		t.Fatalf("Update: %v", err)
	}
	data, err = store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if !data.TwoFADone {
		t.Error("TwoFADone not persisted by Update")
	}

	// Destroy removes the session and expires the cookie.
	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, r); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	data, err = store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if data != nil {
		t.Error("session should be gone after Destroy")
	}
}

func TestGetWithoutCookie(t *testing.T) {
	store := testStore(t)

	r := httptest.NewRequest("GET", "/", nil)
	data, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("request without a cookie must yield no session")
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := testStore(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})
	data, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("unknown session id must yield no session")
	}
}
