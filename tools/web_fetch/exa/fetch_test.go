package exa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExec(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contents" {
			t.Errorf("path = %s, want /contents", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"url":"https://bbc.com/a","title":" Big Story ","publishedDate":"2025-01-02","text":"  the whole article body  "}]}`))
	}))
	defer srv.Close()

	f := Fetch{APIKey: "k", BaseURL: srv.URL, Timeout: 5 * time.Second, MaxChars: 20000}
	res, err := f.Exec(context.Background(), "https://bbc.com/a")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}

	urls, ok := gotBody["urls"].([]interface{})
	if !ok || len(urls) != 1 || urls[0] != "https://bbc.com/a" {
		t.Errorf("urls payload = %v", gotBody["urls"])
	}
	if gotBody["includeImages"] != false || gotBody["includeFormatting"] != false {
		t.Errorf("unexpected payload flags: %v", gotBody)
	}

	if res.Text != "the whole article body" {
		t.Errorf("text = %q", res.Text)
	}
	if res.Title != "Big Story" || res.PublishedAt != "2025-01-02" {
		t.Errorf("metadata = %+v", res)
	}
	if res.Status != http.StatusOK {
		t.Errorf("status = %d", res.Status)
	}
}

func TestExecTruncatesToMaxChars(t *testing.T) {
	long := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"url":"u","text":"` + long + `"}]}`))
	}))
	defer srv.Close()

	f := Fetch{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second, MaxChars: 100}
	res, err := f.Exec(context.Background(), "https://bbc.com/long")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(res.Text) != 100 {
		t.Errorf("text length = %d, want 100", len(res.Text))
	}
}

func TestExecEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	f := Fetch{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second}
	res, err := f.Exec(context.Background(), "https://bbc.com/gone")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Text != "" {
		t.Errorf("expected empty text for empty results, got %q", res.Text)
	}
}

func TestExecUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := Fetch{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second}
	res, err := f.Exec(context.Background(), "https://bbc.com/a")
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if res.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", res.Status, http.StatusBadGateway)
	}
}

func TestExecRejectsBlankURL(t *testing.T) {
	f := Fetch{APIKey: "k", Timeout: time.Second}
	if _, err := f.Exec(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank url")
	}
}
