package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"payment-report-service/internal/model"
	"payment-report-service/internal/report"
)

type Service struct {
	mock.Mock
}

func (m *Service) BuildPayment(req model.PaymentRequest) (model.Payment, error) {
	args := m.Called(req)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *Service) ProcessPayment(ctx context.Context, payment model.Payment) (model.PaymentResult, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(model.PaymentResult), args.Error(1)
}

func (m *Service) RunReport(ctx context.Context, req report.Request) (*report.Result, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*report.Result), args.Error(1)
	}
	return nil, args.Error(1)
}
