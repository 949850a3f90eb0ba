package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"invoicegate/internal/platform/circuit"
	"invoicegate/internal/validation"
)

// ErrExtractionUnavailable marks an upstream OCR/field-extraction failure.
// Surfaced to the caller; this core never retries extraction.
var ErrExtractionUnavailable = errors.New("extraction unavailable")

// Extractor is the boundary to the external OCR/field-extraction provider.
// The provider owns extraction quality; this core only consumes its output.
type Extractor interface {
	Extract(ctx context.Context, content []byte, filename string) (validation.Document, error)
}

// probeEvery is how often an open breaker lets a request through to test
// whether the extraction service recovered.
const probeEvery = 10

// HTTPExtractor calls an extraction service over HTTP: the raw document bytes
// go out, extracted fields come back as JSON. A circuit breaker sheds load
// while the service is down, letting every probeEvery-th request through so
// the breaker can close again once the upstream recovers.
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	probes  atomic.Uint64
}

func NewHTTPExtractor(baseURL string) *HTTPExtractor {
	return &HTTPExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: circuit.New("extractor", circuit.WithFailureThreshold(5)),
	}
}

// extractResponse mirrors the extraction service's reply.
type extractResponse struct {
	Vendor        string  `json:"vendor"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	Confidence    float64 `json:"confidence"`
	BillTo        string  `json:"bill_to"`
	Content       string  `json:"content"`
}

func (e *HTTPExtractor) Extract(ctx context.Context, content []byte, filename string) (validation.Document, error) {
	if e.breaker.IsOpen() && e.probes.Add(1)%probeEvery != 0 {
		return validation.Document{}, fmt.Errorf("extraction circuit open: %w", ErrExtractionUnavailable)
	}

	doc, err := e.extract(ctx, content, filename)
	if err != nil {
		if errors.Is(err, ErrExtractionUnavailable) {
			e.breaker.RecordFailure()
		}
		return validation.Document{}, err
	}
	e.breaker.RecordSuccess()
	return doc, nil
}

func (e *HTTPExtractor) extract(ctx context.Context, content []byte, filename string) (validation.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(content))
	if err != nil {
		return validation.Document{}, fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if filename != "" {
		req.Header.Set("X-Filename", filename)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return validation.Document{}, fmt.Errorf("call extraction service: %v: %w", err, ErrExtractionUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return validation.Document{}, fmt.Errorf("extraction service returned %d: %s: %w",
			resp.StatusCode, body, ErrExtractionUnavailable)
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return validation.Document{}, fmt.Errorf("decode extraction response: %v: %w", err, ErrExtractionUnavailable)
	}

	return validation.Document{
		Vendor:        out.Vendor,
		InvoiceNumber: out.InvoiceNumber,
		InvoiceDate:   out.InvoiceDate,
		Total:         out.Total,
		Currency:      out.Currency,
		Confidence:    out.Confidence,
		BillTo:        out.BillTo,
		Content:       out.Content,
	}, nil
}
