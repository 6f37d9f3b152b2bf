package kvstore

import (
	"context"
	"errors"
	"testing"
)

type failingBackend struct{}

func (failingBackend) Read(context.Context, string) (string, error) {
	return "", errors.New("backend down")
}

func (failingBackend) Write(context.Context, string, string) error {
	return errors.New("backend down")
}

func (failingBackend) Remove(context.Context, string) error {
	return errors.New("backend down")
}

func TestBridgeRoundTrip(t *testing.T) {
	ctx := context.Background()
	bridge := NewBridge(NewMemoryBackend(), nil)

	if _, ok := bridge.Read(ctx, CartKey("sess-1")); ok {
		t.Fatalf("expected miss on empty backend")
	}

	bridge.Write(ctx, CartKey("sess-1"), `[{"product_id":"p1"}]`)
	value, ok := bridge.Read(ctx, CartKey("sess-1"))
	if !ok {
		t.Fatalf("expected hit after write")
	}
	if value != `[{"product_id":"p1"}]` {
		t.Fatalf("unexpected value %q", value)
	}

	bridge.Remove(ctx, CartKey("sess-1"))
	if _, ok := bridge.Read(ctx, CartKey("sess-1")); ok {
		t.Fatalf("expected miss after remove")
	}
}

func TestBridgeSwallowsBackendFailures(t *testing.T) {
	ctx := context.Background()
	bridge := NewBridge(failingBackend{}, nil)

	if _, ok := bridge.Read(ctx, "any"); ok {
		t.Fatalf("failed read must present as a miss")
	}
	// Write and Remove must not panic or surface the failure.
	bridge.Write(ctx, "any", "value")
	bridge.Remove(ctx, "any")
}

func TestBridgeToleratesNilBackend(t *testing.T) {
	ctx := context.Background()
	bridge := NewBridge(nil, nil)

	if _, ok := bridge.Read(ctx, "any"); ok {
		t.Fatalf("nil backend must read as a miss")
	}
	bridge.Write(ctx, "any", "value")
	bridge.Remove(ctx, "any")
}

func TestSessionKeysAreScoped(t *testing.T) {
	if got := CartKey("sess-1"); got != "cart:sess-1" {
		t.Fatalf("unexpected cart key %q", got)
	}
	if got := WishlistKey("sess-1"); got != "wishlist:sess-1" {
		t.Fatalf("unexpected wishlist key %q", got)
	}
	if got := RecentSearchesKey("sess-1"); got != "recent_searches:sess-1" {
		t.Fatalf("unexpected recent searches key %q", got)
	}
	if got := CurrentUserKey("sess-1"); got != "current_user:sess-1" {
		t.Fatalf("unexpected current user key %q", got)
	}
	if got := AuthTokenKey("sess-1"); got != "auth_token:sess-1" {
		t.Fatalf("unexpected auth token key %q", got)
	}
	if CartKey("a") == CartKey("b") {
		t.Fatalf("keys must differ per session")
	}
}
