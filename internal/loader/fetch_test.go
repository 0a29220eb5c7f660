package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDirCacheRoundTrip(t *testing.T) {
	cache := NewDirCache(filepath.Join(t.TempDir(), "cache"))
	if _, ok, err := cache.Get("k"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := cache.Put("k", "content"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := cache.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != "content" {
		t.Fatalf("expected hit with content, got ok=%v %q", ok, got)
	}
}

func TestResolveLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.py")
	if err := os.WriteFile(path, []byte("print(1)\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	content, filename, err := Resolve(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if content != "print(1)\n" {
		t.Fatalf("unexpected content: %q", content)
	}
	if filename != "sample.py" {
		t.Fatalf("unexpected filename: %q", filename)
	}
}

func TestResolveMissingFile(t *testing.T) {
	if _, _, err := Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.go"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResolveURLUsesCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("fetched"))
	}))
	defer server.Close()

	cache := NewDirCache(filepath.Join(t.TempDir(), "cache"))
	url := server.URL + "/repo/main.go"

	content, filename, err := Resolve(context.Background(), url, cache)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if content != "fetched" || filename != "main.go" {
		t.Fatalf("unexpected result: %q %q", content, filename)
	}

	content, _, err = Resolve(context.Background(), url, cache)
	if err != nil {
		t.Fatalf("resolve from cache: %v", err)
	}
	if content != "fetched" {
		t.Fatalf("unexpected cached content: %q", content)
	}
	if hits != 1 {
		t.Fatalf("expected a single fetch, got %d", hits)
	}
}

func TestResolveURLBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, _, err := Resolve(context.Background(), server.URL+"/gone.go", nil); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}
