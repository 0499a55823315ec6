package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"payment-report-service/internal/model"
	"payment-report-service/internal/repository"
)

// batchPaymentWorker buffers incoming payments on a channel and flushes them
// to the repository in batches, either when the batch fills or on a timer.
type batchPaymentWorker struct {
	repo          repository.PaymentRepository
	log           zerolog.Logger
	paymentQueue  chan model.Payment
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

type BatchPaymentWorker interface {
	Enqueue(payment model.Payment)
	Shutdown()
}

// NewBatchPaymentWorker starts the background flush loop.
func NewBatchPaymentWorker(repo repository.PaymentRepository, log zerolog.Logger, bufferSize, batchSize int, interval time.Duration) *batchPaymentWorker {
	worker := &batchPaymentWorker{
		repo:          repo,
		log:           log,
		paymentQueue:  make(chan model.Payment, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue hands a payment to the background loop. Blocks when the buffer is
// full, which back-pressures the ingestion endpoint.
func (w *batchPaymentWorker) Enqueue(payment model.Payment) {
	w.paymentQueue <- payment
}

// Shutdown closes the queue and waits for the remaining buffer to flush.
func (w *batchPaymentWorker) Shutdown() {
	w.log.Info().Msg("worker shutting down, draining queue")
	close(w.paymentQueue)
	w.wg.Wait()
	w.log.Info().Msg("worker stopped")
}

func (w *batchPaymentWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.Payment
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case payment, ok := <-w.paymentQueue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, payment)
			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchPaymentWorker) bulkInsert(payments []model.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, payments); err != nil {
		w.log.Error().Err(err).Int("batch_size", len(payments)).Msg("bulk insert failed")
		return
	}
	w.log.Debug().Int("batch_size", len(payments)).Msg("payments flushed")
}
