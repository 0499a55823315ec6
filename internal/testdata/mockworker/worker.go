package mockworker

import (
	"github.com/stretchr/testify/mock"

	"payment-report-service/internal/model"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(payment model.Payment) {
	m.Called(payment)
}

func (m *Worker) Shutdown() {
	m.Called()
}
