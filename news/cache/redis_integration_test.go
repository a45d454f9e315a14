package cache

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mohammad-safakhou/newsagent/models"
)

func startRedis(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithOccurrence(1).WithStartupTimeout(30 * time.Second),
	}
	rd, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start redis: %v", err)
	}
	host, err := rd.Host(ctx)
	if err != nil {
		_ = rd.Terminate(ctx)
		t.Fatalf("failed to get host: %v", err)
	}
	port, err := rd.MappedPort(ctx, "6379")
	if err != nil {
		_ = rd.Terminate(ctx)
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return rd, host + ":" + port.Port()
}

func TestRedisStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rd, addr := startRedis(t, ctx)
	defer func() { _ = rd.Terminate(ctx) }()

	store, err := NewRedisStore(addr, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "climate", 3); err != nil || ok {
		t.Fatalf("empty store Get = ok %v err %v", ok, err)
	}

	in := []models.Article{
		{Title: "A", URL: "https://reuters.com/a", Snippet: "s", Extraction: models.ExtractionFallback},
		{Title: "B", URL: "https://bbc.com/b", FullContent: "body", Extraction: models.ExtractionFull},
	}
	if err := store.Set(ctx, "climate", 3, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := store.Get(ctx, "climate", 3)
	if err != nil || !ok {
		t.Fatalf("Get = ok %v err %v", ok, err)
	}
	if len(got) != 2 || got[0].URL != "https://reuters.com/a" || got[1].Extraction != models.ExtractionFull {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rd, addr := startRedis(t, ctx)
	defer func() { _ = rd.Terminate(ctx) }()

	store, err := NewRedisStore(addr, "", 0, time.Second)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "ai", 1, []models.Article{{Title: "A", URL: "u"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "ai", 1); ok {
		t.Error("entry should have expired")
	}
}
