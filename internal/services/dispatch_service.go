// Package services – DispatchService
//
// This file implements the asynchronous boundary between matching and email
// delivery. Match runs synchronously under the store lock; Dispatch takes the
// already-detached snapshot of claimed requests and fans it out to the
// Notifier on background goroutines, so a slow mail server never serializes
// inventory events. A delivery failure is recorded as an outcome and counted,
// never escalated: the claimed request stays notified, trading a possibly
// missed email for the guarantee that no customer is spammed twice.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/notifier"
)

var (
	// deliveries counts delivery attempts by outcome ("sent" or "failed").
	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restock_notifications_total",
			Help: "Total number of restock notification delivery attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// dispatchInflight gauges batches currently being delivered.
	dispatchInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "restock_dispatch_inflight",
			Help: "Number of notification batches currently being dispatched.",
		},
	)
)

func init() {
	prometheus.MustRegister(deliveries, dispatchInflight)
}

// defaultJournalSize bounds the in-memory outcome journal.
const defaultJournalSize = 256

// DispatchService consumes matched requests and invokes the external
// Notifier for each one, recording per-request outcomes.
//
// Construction: use NewDispatchService. The zero value is not usable.
type DispatchService struct {
	notifier    notifier.Notifier
	sendTimeout time.Duration
	sem         chan struct{}

	wg sync.WaitGroup

	mu      sync.Mutex
	journal []domain.DeliveryOutcome
	maxKeep int
}

// NewDispatchService builds a dispatcher with a bounded worker pool.
// workers caps concurrent deliveries (minimum 1); sendTimeout bounds each
// individual Notifier call; journalSize caps the retained outcome history
// (<= 0 selects the default).
func NewDispatchService(n notifier.Notifier, workers int, sendTimeout time.Duration, journalSize int) *DispatchService {
	if workers < 1 {
		workers = 1
	}
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	if journalSize <= 0 {
		journalSize = defaultJournalSize
	}
	return &DispatchService{
		notifier:    n,
		sendTimeout: sendTimeout,
		sem:         make(chan struct{}, workers),
		maxKeep:     journalSize,
	}
}

// Dispatch schedules delivery of a notification for every request in the
// batch and returns immediately. The batch is a detached snapshot; the
// dispatcher never touches the request store, so nothing here can revert a
// notified request.
func (s *DispatchService) Dispatch(requests []domain.StockRequest, ev domain.InventoryEvent) {
	if len(requests) == 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		dispatchInflight.Inc()
		defer dispatchInflight.Dec()

		for _, req := range requests {
			s.sem <- struct{}{}
			s.wg.Add(1)
			go func(req domain.StockRequest) {
				defer s.wg.Done()
				defer func() { <-s.sem }()
				s.deliver(req, ev)
			}(req)
		}
	}()
}

// deliver performs one Notifier call and records its outcome.
func (s *DispatchService) deliver(req domain.StockRequest, ev domain.InventoryEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	err := s.notifier.Send(ctx, req, ev)

	out := domain.DeliveryOutcome{
		RequestID: req.ID,
		VariantID: req.VariantID,
		Email:     req.Email,
		Sent:      err == nil,
		At:        time.Now().UTC(),
	}
	if err != nil {
		out.Error = err.Error()
		deliveries.WithLabelValues("failed").Inc()
		log.Error().
			Err(err).
			Int64("request_id", req.ID).
			Str("variant_id", req.VariantID).
			Str("email", req.Email).
			Msg("notification delivery failed")
	} else {
		deliveries.WithLabelValues("sent").Inc()
		log.Info().
			Int64("request_id", req.ID).
			Str("variant_id", req.VariantID).
			Str("email", req.Email).
			Msg("notification sent")
	}

	s.record(out)
}

// record appends an outcome to the bounded journal, evicting the oldest
// entries first.
func (s *DispatchService) record(out domain.DeliveryOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journal = append(s.journal, out)
	if over := len(s.journal) - s.maxKeep; over > 0 {
		s.journal = append(s.journal[:0:0], s.journal[over:]...)
	}
}

// Outcomes returns a snapshot of the retained delivery outcomes, oldest
// first.
func (s *DispatchService) Outcomes() []domain.DeliveryOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.DeliveryOutcome, len(s.journal))
	copy(out, s.journal)
	return out
}

// Close waits for in-flight deliveries to finish or for ctx to expire.
// Callers must not Dispatch after Close.
func (s *DispatchService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
