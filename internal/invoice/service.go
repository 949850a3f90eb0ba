package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"invoicegate/internal/approval"
	"invoicegate/internal/event"
	"invoicegate/internal/platform/metrics"
	"invoicegate/internal/platform/sentinel"
	"invoicegate/internal/validation"
)

// ErrInvalidInput marks a malformed request field (negative total, confidence
// outside [0,1]) rejected before the rule engine runs.
var ErrInvalidInput = errors.New("invalid input")

// createAttempts bounds id-collision retries. With random UUIDs a collision is
// effectively impossible; the retry exists so the guarantee holds anyway.
const createAttempts = 3

// Service orchestrates the validation pipeline: rule evaluation, approval
// record persistence, then decoupled event emission. It owns no mutable state
// of its own; the store is the only shared resource it touches.
type Service struct {
	engine    *validation.Engine
	store     approval.Store
	events    *event.Dispatcher
	extractor Extractor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(engine *validation.Engine, store approval.Store, events *event.Dispatcher, extractor Extractor, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		engine:    engine,
		store:     store,
		events:    events,
		extractor: extractor,
		logger:    logger,
		metrics:   m,
	}
}

// Validate runs the rule engine over an extracted document, records the
// decision, and emits the decision event. Rule failures are not errors: the
// caller always gets a result with approved=false and a reason. allowedOverride,
// when non-nil, replaces the configured bill-to whitelist for this request.
func (s *Service) Validate(ctx context.Context, doc validation.Document, allowedOverride []string) (validation.Result, *approval.Record, error) {
	start := time.Now()

	if err := checkInput(doc); err != nil {
		return validation.Result{}, nil, err
	}

	engine := s.engine
	if allowedOverride != nil {
		cfg := s.engine.Config()
		cfg.AllowedBillToNames = allowedOverride
		engine = validation.NewEngine(cfg)
	}

	result := engine.Evaluate(doc)

	rec, err := s.createRecord(ctx, doc, result)
	if err != nil {
		return validation.Result{}, nil, err
	}

	outcome := "manual_review"
	failed := result.Checks.FirstFailed()
	if result.Approved {
		outcome = "approved"
		failed = "none"
	}
	s.metrics.IncrementOutcome(outcome, failed)
	s.metrics.ObserveValidateLatency(time.Since(start))

	s.logger.InfoContext(ctx, "invoice validated",
		"approval_id", rec.ID,
		"vendor", doc.Vendor,
		"total", doc.Total,
		"confidence", doc.Confidence,
		"approved", result.Approved,
		"reason", result.Reason,
	)

	// Emit only after the record is durably created (publish-after-persist).
	s.events.Emit(event.NewInvoiceValidated(result, rec))

	return result, rec, nil
}

// Process runs the full intake: extraction through the external OCR boundary,
// then Validate.
func (s *Service) Process(ctx context.Context, content []byte, filename string, allowedOverride []string) (validation.Result, *approval.Record, error) {
	if s.extractor == nil {
		return validation.Result{}, nil, fmt.Errorf("no extractor configured: %w", ErrExtractionUnavailable)
	}

	doc, err := s.extractor.Extract(ctx, content, filename)
	if err != nil {
		return validation.Result{}, nil, err
	}
	return s.Validate(ctx, doc, allowedOverride)
}

// Extract runs extraction only, without validating or persisting anything.
func (s *Service) Extract(ctx context.Context, content []byte, filename string) (validation.Document, error) {
	if s.extractor == nil {
		return validation.Document{}, fmt.Errorf("no extractor configured: %w", ErrExtractionUnavailable)
	}
	return s.extractor.Extract(ctx, content, filename)
}

// Decide applies a manual pending -> approved|rejected transition.
func (s *Service) Decide(ctx context.Context, id string, status approval.Status, decidedBy string) (*approval.Record, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("target status %q: %w", status, ErrInvalidInput)
	}
	if decidedBy == "" {
		decidedBy = "user"
	}

	rec, err := s.store.SetStatus(ctx, id, status, decidedBy)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "approval decided",
		"approval_id", rec.ID,
		"status", rec.Status,
		"decided_by", decidedBy,
	)
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*approval.Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]*approval.Record, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) ListByStatus(ctx context.Context, status approval.Status) ([]*approval.Record, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	return s.store.ListByStatus(ctx, status)
}

func (s *Service) ListPendingOverThreshold(ctx context.Context, amount float64) ([]*approval.Record, error) {
	if amount < 0 {
		return nil, fmt.Errorf("negative amount threshold: %w", ErrInvalidInput)
	}
	return s.store.ListPendingOverThreshold(ctx, amount)
}

// createRecord persists the decision. Auto-approved results are created
// directly in the terminal approved state; everything else starts pending.
// Id collisions regenerate rather than fail.
func (s *Service) createRecord(ctx context.Context, doc validation.Document, result validation.Result) (*approval.Record, error) {
	now := time.Now().UTC()

	rec := &approval.Record{
		Status:        approval.StatusPending,
		Vendor:        doc.Vendor,
		InvoiceNumber: doc.InvoiceNumber,
		Total:         doc.Total,
		Currency:      doc.Currency,
		Confidence:    doc.Confidence,
		ApprovalType:  approval.TypeManualReview,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if result.Approved {
		rec.Status = approval.StatusApproved
		rec.ApprovalType = approval.TypeAutoApproved
		rec.DecidedBy = "system"
	}

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		rec.ID = uuid.NewString()

		start := time.Now()
		err = s.store.Create(ctx, rec)
		s.metrics.ObserveStoreLatency("create", time.Since(start))

		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, fmt.Errorf("create approval record: %w", err)
		}
		s.logger.WarnContext(ctx, "approval id collision, regenerating", "id", rec.ID)
	}
	return nil, fmt.Errorf("create approval record after %d attempts: %w", createAttempts, err)
}

func checkInput(doc validation.Document) error {
	if doc.Total < 0 {
		return fmt.Errorf("total must be non-negative, got %v: %w", doc.Total, ErrInvalidInput)
	}
	if doc.Confidence < 0 || doc.Confidence > 1 {
		return fmt.Errorf("confidence must be within [0,1], got %v: %w", doc.Confidence, ErrInvalidInput)
	}
	if doc.Currency != "" && len(doc.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q: %w", doc.Currency, ErrInvalidInput)
	}
	return nil
}
