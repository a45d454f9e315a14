package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newsagent/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	if _, ok, err := store.Get(ctx, "ai", 3); err != nil || ok {
		t.Fatalf("empty store Get = ok %v err %v", ok, err)
	}

	in := []models.Article{{Title: "A", URL: "https://bbc.com/a", Extraction: models.ExtractionFull, FullContent: "body"}}
	if err := store.Set(ctx, "ai", 3, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := store.Get(ctx, "AI", 3)
	if err != nil || !ok {
		t.Fatalf("Get after Set = ok %v err %v", ok, err)
	}
	if len(got) != 1 || got[0].URL != "https://bbc.com/a" {
		t.Errorf("got %+v", got)
	}

	// different count is a different key
	if _, ok, _ := store.Get(ctx, "ai", 5); ok {
		t.Error("count should be part of the cache key")
	}

	got[0].Title = "mutated"
	again, _, _ := store.Get(ctx, "ai", 3)
	if again[0].Title != "A" {
		t.Error("cached entries must not alias returned slices")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10 * time.Millisecond)
	if err := store.Set(ctx, "ai", 3, []models.Article{{Title: "A", URL: "u"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "ai", 3); ok {
		t.Error("expired entry served")
	}
}

func TestNewStoreUnsupportedType(t *testing.T) {
	if _, err := NewStore("scrolls", "", "", 0, time.Minute); err == nil {
		t.Fatal("expected error for unsupported store type")
	}
}
