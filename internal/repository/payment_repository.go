package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/shopspring/decimal"

	"payment-report-service/internal/model"
)

// PaymentRepository defines database operations for payment records.
type PaymentRepository interface {
	// Create inserts a single payment record.
	Create(ctx context.Context, payment model.Payment) error

	// CreateBatch inserts multiple payment records via a prepared batch.
	CreateBatch(ctx context.Context, payments []model.Payment) error

	// FetchWindow returns payments inside the given time window, ordered by
	// timestamp and capped at limit. Zero from/to mean an unbounded side.
	FetchWindow(ctx context.Context, from, to time.Time, limit int) ([]model.Payment, error)
}

type paymentRepository struct {
	conn clickhouse.Conn
}

// NewPaymentRepository creates a PaymentRepository backed by ClickHouse.
func NewPaymentRepository(conn clickhouse.Conn) PaymentRepository {
	return &paymentRepository{conn: conn}
}

const insertPaymentQuery = `
	INSERT INTO payments (ts, amount, method, status, reference, raw_payload)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func (r *paymentRepository) Create(ctx context.Context, payment model.Payment) error {
	payload, err := marshalPayload(payment.RawPayload)
	if err != nil {
		return err
	}

	return r.conn.Exec(ctx, insertPaymentQuery,
		payment.Timestamp,
		payment.Amount,
		payment.Method,
		payment.Status,
		nullIfEmpty(payment.Reference),
		payload,
	)
}

func (r *paymentRepository) CreateBatch(ctx context.Context, payments []model.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertPaymentQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, payment := range payments {
		payload, err := marshalPayload(payment.RawPayload)
		if err != nil {
			return err
		}

		if err := batch.Append(
			payment.Timestamp,
			payment.Amount,
			payment.Method,
			payment.Status,
			nullIfEmpty(payment.Reference),
			payload,
		); err != nil {
			return fmt.Errorf("append batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

func (r *paymentRepository) FetchWindow(ctx context.Context, from, to time.Time, limit int) ([]model.Payment, error) {
	query, args := windowQuery(from, to, limit)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var (
			ts        time.Time
			amount    decimal.Decimal
			method    string
			status    string
			reference *string
			payload   string
		)
		if err := rows.Scan(&ts, &amount, &method, &status, &reference, &payload); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}

		payment := model.Payment{
			Timestamp:  ts,
			Amount:     amount,
			Method:     method,
			Status:     status,
			RawPayload: unmarshalPayload(payload),
		}
		if reference != nil {
			payment.Reference = *reference
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

func windowQuery(from, to time.Time, limit int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		conds = append(conds, "ts < ?")
		args = append(args, to)
	}

	query := "SELECT ts, amount, method, status, reference, raw_payload FROM payments"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts LIMIT ?"
	args = append(args, limit)

	return query, args
}

func marshalPayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "{}", nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal raw payload: %w", err)
	}
	return string(b), nil
}

// unmarshalPayload never fails: a corrupt stored payload degrades to nil so
// one bad row cannot abort a whole report.
func unmarshalPayload(payload string) map[string]any {
	if payload == "" || payload == "{}" {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil
	}
	return doc
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}
