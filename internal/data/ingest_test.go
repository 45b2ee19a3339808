package data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"taxmeter/internal/model"
	"taxmeter/internal/normalize"
)

const sampleCSV = "Year,Month,Net Receipts\n2023,1,100\n2023,2,200\n"

func TestReceiptsClient_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	client := NewReceiptsClient(server.URL, time.Second, NewResponseCache(time.Hour))
	for i := 0; i < 2; i++ {
		body, err := client.Fetch(context.Background())
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if string(body) != sampleCSV {
			t.Fatalf("body: got %q", body)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream hit, got %d", got)
	}
}

func TestReceiptsClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{status: http.StatusNotFound, wantCode: "SOURCE_NOT_FOUND"},
		{status: http.StatusTooManyRequests, wantCode: "RATE_LIMIT_EXCEEDED"},
		{status: http.StatusBadGateway, wantCode: "SOURCE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewReceiptsClient(server.URL, time.Second, nil).Fetch(context.Background())
			var ingErr *IngestionError
			if !errors.As(err, &ingErr) {
				t.Fatalf("expected IngestionError, got %v", err)
			}
			if ingErr.Code != tt.wantCode || ingErr.StatusCode != tt.status {
				t.Fatalf("got code=%s status=%d", ingErr.Code, ingErr.StatusCode)
			}
		})
	}
}

func TestReceiptsClient_OversizedBodyIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	cache := NewResponseCache(time.Hour)
	client := NewReceiptsClient(server.URL, time.Second, cache)
	client.MaxBodyBytes = int64(len(sampleCSV) - 1)

	_, err := client.Fetch(context.Background())
	var ingErr *IngestionError
	if !errors.As(err, &ingErr) || ingErr.Code != "BODY_TOO_LARGE" {
		t.Fatalf("expected BODY_TOO_LARGE, got %v", err)
	}
	if _, ok := cache.Get(GenerateCacheKey(server.URL)); ok {
		t.Fatalf("oversized body must not be cached")
	}

	client.MaxBodyBytes = int64(len(sampleCSV))
	if body, err := client.Fetch(context.Background()); err != nil || string(body) != sampleCSV {
		t.Fatalf("body at the limit: got %q, %v", body, err)
	}
}

func TestResponseCache_Expiry(t *testing.T) {
	cache := NewResponseCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("k", []byte("v"))
	if _, ok := cache.Get("k"); !ok {
		t.Fatalf("expected hit")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expected expiry")
	}
	if NewResponseCache(0) != nil {
		t.Fatalf("zero ttl must disable the cache")
	}
}

type stubFetcher struct {
	body []byte
	err  error
}

func (s stubFetcher) Fetch(context.Context) ([]byte, error) { return s.body, s.err }

func TestIngester_FallbackBranch(t *testing.T) {
	down := &IngestionError{Source: SourceOfficial, Code: "REQUEST_FAILED", Message: "down"}
	dir := t.TempDir()
	fallbackPath := filepath.Join(dir, "receipts.csv")
	if err := os.WriteFile(fallbackPath, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fallback: %v", err)
	}

	t.Run("official succeeds", func(t *testing.T) {
		ing := &Ingester{
			Official: Source{Name: SourceOfficial, Fetcher: stubFetcher{body: []byte(sampleCSV)}, Format: normalize.FormatCSV},
			Fallback: &Source{Name: SourceLocal, Fetcher: stubFetcher{err: errors.New("unused")}},
		}
		series, source, err := ing.Load(context.Background())
		if err != nil || source != SourceOfficial || len(series) != 2 {
			t.Fatalf("got %v %s %v", series, source, err)
		}
	})

	t.Run("official fails, local file used", func(t *testing.T) {
		ing := &Ingester{
			Official: Source{Name: SourceOfficial, Fetcher: stubFetcher{err: down}},
			Fallback: &Source{Name: SourceLocal, Fetcher: LocalFile{Path: fallbackPath}, Format: normalize.FormatAuto},
		}
		series, source, err := ing.Load(context.Background())
		if err != nil || source != SourceLocal || len(series) != 2 {
			t.Fatalf("got %v %s %v", series, source, err)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		ing := &Ingester{
			Official: Source{Name: SourceOfficial, Fetcher: stubFetcher{err: down}},
			Fallback: &Source{Name: SourceLocal, Fetcher: LocalFile{Path: filepath.Join(dir, "missing.csv")}},
		}
		_, _, err := ing.Load(context.Background())
		var ingErr *IngestionError
		if !errors.As(err, &ingErr) || !errors.Is(err, down) {
			t.Fatalf("expected joined ingestion errors, got %v", err)
		}
	})

	t.Run("schema error surfaces with empty series", func(t *testing.T) {
		ing := &Ingester{
			Official: Source{Name: SourceOfficial, Fetcher: stubFetcher{err: down}},
			Fallback: &Source{Name: SourceLocal, Fetcher: stubFetcher{body: []byte("year,month,net receipts\n2023,1,-\n")}, Format: normalize.FormatCSV},
		}
		series, source, err := ing.Load(context.Background())
		var schemaErr *model.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
		if source != SourceLocal || series == nil || len(series) != 0 {
			t.Fatalf("expected empty series from %s, got %v", source, series)
		}
	})

	t.Run("no fallback configured", func(t *testing.T) {
		ing := &Ingester{Official: Source{Name: SourceOfficial, Fetcher: stubFetcher{err: down}}}
		if _, _, err := ing.Load(context.Background()); !errors.Is(err, down) {
			t.Fatalf("expected official error, got %v", err)
		}
	})
}

func TestIngester_ReloadBypassesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	cache := NewResponseCache(time.Hour)
	ing := &Ingester{
		Official: Source{Name: SourceOfficial, Fetcher: NewReceiptsClient(server.URL, time.Second, cache), Format: normalize.FormatCSV},
		Cache:    cache,
	}
	if _, _, err := ing.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, _, err := ing.Load(context.Background()); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if _, _, err := ing.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 upstream hits (load + reload), got %d", got)
	}
}
