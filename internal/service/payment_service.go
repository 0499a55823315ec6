package service

import (
	"context"
	"errors"
	"time"

	"payment-report-service/internal/model"
	"payment-report-service/internal/report"
)

// ValidationError represents user input issues on the ingestion surface.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ReportEngine runs validated report queries. Satisfied by *report.Engine.
type ReportEngine interface {
	Run(ctx context.Context, req report.Request) (*report.Result, error)
}

// paymentService wires business logic for payment ingestion and reporting.
type paymentService struct {
	worker          BatchPaymentWorker
	engine          ReportEngine
	now             func() time.Time
	futureTolerance time.Duration
}

type PaymentService interface {
	BuildPayment(req model.PaymentRequest) (model.Payment, error)
	ProcessPayment(ctx context.Context, payment model.Payment) (model.PaymentResult, error)
	RunReport(ctx context.Context, req report.Request) (*report.Result, error)
}

// NewPaymentService constructs a paymentService.
func NewPaymentService(worker BatchPaymentWorker, engine ReportEngine, futureTolerance time.Duration) PaymentService {
	return &paymentService{
		worker:          worker,
		engine:          engine,
		now:             time.Now,
		futureTolerance: futureTolerance,
	}
}

// BuildPayment validates the flat envelope and constructs a Payment from an
// incoming request. The nested raw payload is stored as received; its shape
// is deliberately not validated here, the report engine degrades gracefully
// on anything it cannot read.
func (s *paymentService) BuildPayment(req model.PaymentRequest) (model.Payment, error) {
	if req.Timestamp == 0 {
		return model.Payment{}, &ValidationError{Message: "timestamp is required"}
	}

	if req.Amount.IsNegative() {
		return model.Payment{}, &ValidationError{Message: "amount must not be negative"}
	}

	ts := time.Unix(req.Timestamp, 0).UTC()
	if s.futureTolerance > 0 {
		if err := ValidateTimestamp(ts, s.now(), s.futureTolerance); err != nil {
			return model.Payment{}, &ValidationError{Message: err.Error()}
		}
	}

	reference := ""
	if req.Reference != nil {
		reference = *req.Reference
	}

	payment := model.Payment{
		Timestamp:  ts,
		Amount:     req.Amount,
		Method:     req.Method,
		Status:     req.Status,
		Reference:  reference,
		RawPayload: req.RawPayload,
	}

	return payment, nil
}

// ProcessPayment enqueues a payment for batched persistence.
func (s *paymentService) ProcessPayment(ctx context.Context, payment model.Payment) (model.PaymentResult, error) {
	s.worker.Enqueue(payment)
	return model.PaymentResult{Status: "created"}, nil
}

// RunReport delegates to the report engine.
func (s *paymentService) RunReport(ctx context.Context, req report.Request) (*report.Result, error) {
	return s.engine.Run(ctx, req)
}

// ValidateTimestamp ensures timestamps are not too far in the future.
func ValidateTimestamp(ts time.Time, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		return nil
	}
	if ts.After(now.Add(tolerance)) {
		return errors.New("timestamp cannot be in the future")
	}
	return nil
}
