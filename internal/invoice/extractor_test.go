package invoice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPExtractorExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/extract", r.URL.Path)
		require.Equal(t, "invoice.pdf", r.Header.Get("X-Filename"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"vendor":         "ACME Corp",
			"invoice_number": "INV-1001",
			"invoice_date":   "2026-08-01",
			"total":          450.0,
			"currency":       "USD",
			"confidence":     0.92,
			"bill_to":        "Acme Corporation",
			"content":        "INVOICE\nAmount Due: $450.00",
		})
	}))
	defer server.Close()

	extractor := NewHTTPExtractor(server.URL)
	doc, err := extractor.Extract(context.Background(), []byte("%PDF-1.4 ..."), "invoice.pdf")
	require.NoError(t, err)

	require.Equal(t, "ACME Corp", doc.Vendor)
	require.Equal(t, "INV-1001", doc.InvoiceNumber)
	require.Equal(t, "2026-08-01", doc.InvoiceDate)
	require.InDelta(t, 450.0, doc.Total, 1e-9)
	require.Equal(t, "USD", doc.Currency)
	require.InDelta(t, 0.92, doc.Confidence, 1e-9)
	require.Equal(t, "Acme Corporation", doc.BillTo)
}

func TestHTTPExtractorUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	extractor := NewHTTPExtractor(server.URL)
	_, err := extractor.Extract(context.Background(), []byte("raw"), "")
	require.ErrorIs(t, err, ErrExtractionUnavailable)
}

func TestHTTPExtractorBreakerShedsLoad(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	extractor := NewHTTPExtractor(server.URL)

	// Five consecutive failures open the breaker.
	for i := 0; i < 5; i++ {
		_, err := extractor.Extract(context.Background(), []byte("raw"), "")
		require.ErrorIs(t, err, ErrExtractionUnavailable)
	}
	require.Equal(t, 5, calls)

	// While open, most requests fail fast without reaching the upstream.
	for i := 0; i < 8; i++ {
		_, err := extractor.Extract(context.Background(), []byte("raw"), "")
		require.ErrorIs(t, err, ErrExtractionUnavailable)
	}
	require.Equal(t, 5, calls)
}

func TestHTTPExtractorUnreachable(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	extractor := NewHTTPExtractor(server.URL)
	_, err := extractor.Extract(context.Background(), []byte("raw"), "")
	require.ErrorIs(t, err, ErrExtractionUnavailable)
}
