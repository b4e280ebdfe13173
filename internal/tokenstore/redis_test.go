package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, time.Hour), mr
}

func TestGetAbsentSlot(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "s1", SlotCredential)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected absence for never-written slot")
	}
}

func TestSetGetClear(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "s1", SlotCredential, "tok-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok, err := store.Get(ctx, "s1", SlotCredential)
	if err != nil || !ok || val != "tok-1" {
		t.Fatalf("Get returned (%q,%v,%v), want (tok-1,true,nil)", val, ok, err)
	}

	if err := store.Clear(ctx, "s1", SlotCredential); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", SlotCredential); ok {
		t.Error("slot still present after Clear")
	}
}

func TestSetAllReplacesEverySlot(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	// Leftovers from an earlier session must not survive a full write.
	if err := store.Set(ctx, "s1", SlotPermissions, `["tenants:write"]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	err := store.SetAll(ctx, "s1", map[string]string{
		SlotCredential: "tok-2",
		SlotIdentity:   `{"id":"u1"}`,
		SlotTenant:     NullValue,
	})
	if err != nil {
		t.Fatalf("SetAll failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "s1", SlotPermissions); ok {
		t.Error("permissions slot survived a full overwrite")
	}
	tenant, ok, _ := store.Get(ctx, "s1", SlotTenant)
	if !ok || tenant != NullValue {
		t.Errorf("tenant slot = (%q,%v), want explicit null marker", tenant, ok)
	}
}

func TestClearAllIsIdempotent(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.ClearAll(ctx, "never-written"); err != nil {
		t.Fatalf("ClearAll on empty session failed: %v", err)
	}

	if err := store.Set(ctx, "s1", SlotIdentity, `{"id":"u1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.ClearAll(ctx, "s1"); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if err := store.ClearAll(ctx, "s1"); err != nil {
		t.Fatalf("second ClearAll failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", SlotIdentity); ok {
		t.Error("identity slot survived ClearAll")
	}
}

func TestSlotsExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "s1", SlotCredential, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, _ := store.Get(ctx, "s1", SlotCredential); ok {
		t.Error("slot survived past its TTL")
	}
}

func TestSessionsAreNamespaced(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "s1", SlotCredential, "tok-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "s2", SlotCredential, "tok-2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.ClearAll(ctx, "s1"); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	val, ok, _ := store.Get(ctx, "s2", SlotCredential)
	if !ok || val != "tok-2" {
		t.Errorf("sibling session affected by ClearAll: (%q,%v)", val, ok)
	}
}
