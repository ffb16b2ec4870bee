package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/services"
)

const samplePayload = `[
  {"Produto": "Cadeira de escritório", "Categoria do Produto": "moveis", "Preço": 350.5, "Frete": 12.9,
   "Data da Compra": "15/01/2022", "Vendedor": "Ana", "Local da compra": "SP", "lat": -22.19, "lon": -48.79},
  {"Produto": "Bola de basquete", "Categoria do Produto": "esporte e lazer", "Preço": 90, "Frete": 5,
   "Data da Compra": "03/02/2022", "Vendedor": "Bruno", "Local da compra": "RJ", "lat": -22.25, "lon": -42.66}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.SourceConfig{
		BaseURL:   srv.URL + "/produtos",
		Timeout:   5 * time.Second,
		CacheSize: 8,
		CacheTTL:  time.Minute,
	}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchSendsQuery(t *testing.T) {
	var gotRegion, gotYear string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/produtos" {
			t.Errorf("path = %q, want /produtos", r.URL.Path)
		}
		gotRegion = r.URL.Query().Get("regiao")
		gotYear = r.URL.Query().Get("ano")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, samplePayload)
	})

	records, err := client.Fetch(context.Background(), services.Query{Region: "Sudeste", Year: 2022})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Fetch() returned %d records, want 2", len(records))
	}
	if gotRegion != "sudeste" {
		t.Errorf("regiao = %q, want sudeste", gotRegion)
	}
	if gotYear != "2022" {
		t.Errorf("ano = %q, want 2022", gotYear)
	}
}

func TestClient_FetchAllRegionsAllYears(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("regiao") != "" || q.Get("ano") != "" {
			t.Errorf("expected empty filters, got %q", r.URL.RawQuery)
		}
		io.WriteString(w, "[]")
	})

	records, err := client.Fetch(context.Background(), services.Query{Region: "Brasil"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestClient_FetchUsesCache(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, samplePayload)
	})

	q := services.Query{Year: 2022}
	for range 3 {
		if _, err := client.Fetch(context.Background(), q); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}

	client.Invalidate()
	if _, err := client.Fetch(context.Background(), q); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("upstream called %d times after Invalidate, want 2", calls.Load())
	}
}

func TestClient_FetchStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	_, err := client.Fetch(context.Background(), services.Query{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
}

func TestClient_FetchInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not": "an array"}`)
	})

	if _, err := client.Fetch(context.Background(), services.Query{}); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_FetchFeedsNormalizer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, samplePayload)
	})

	records, err := client.Fetch(context.Background(), services.Query{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	sales, err := services.Normalizer{}.Normalize(records)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if sales[0].Price != 350.5 || sales[1].Price != 90 {
		t.Errorf("unexpected prices: %v, %v", sales[0].Price, sales[1].Price)
	}
	if sales[1].PurchaseDate.Month() != time.February {
		t.Errorf("unexpected month %v", sales[1].PurchaseDate.Month())
	}
}
