package mockrepository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"payment-report-service/internal/model"
	"payment-report-service/internal/repository"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.PaymentRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, payment model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *Repository) CreateBatch(ctx context.Context, payments []model.Payment) error {
	args := m.Called(ctx, payments)
	return args.Error(0)
}

func (m *Repository) FetchWindow(ctx context.Context, from, to time.Time, limit int) ([]model.Payment, error) {
	args := m.Called(ctx, from, to, limit)
	if v := args.Get(0); v != nil {
		return v.([]model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}
