// README: Batched event sink; queues funnel events and flushes them to the store.
package analytics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"footy/internal/types"
)

// Sink batches events in memory and writes them out when a batch fills, when
// the flush ticker fires, or when a caller forces a flush from an
// unload-class handler. Delivery is best-effort: a failed flush is logged and
// dropped, never surfaced — analytics must not break checkout.
type Sink struct {
	store         EventStore
	batchSize     int
	flushInterval time.Duration

	mu    sync.Mutex
	queue []Event
}

func NewSink(store EventStore, batchSize int, flushInterval time.Duration) *Sink {
	if batchSize <= 0 {
		batchSize = 10
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &Sink{store: store, batchSize: batchSize, flushInterval: flushInterval}
}

// Track enqueues an event. If the batch is full it flushes synchronously so
// a caller in an unload handler gets delivery attempted before teardown.
func (s *Sink) Track(sessionID types.ID, name string, metadata map[string]any) {
	e := Event{
		ID:        uuid.NewString(),
		Name:      name,
		SessionID: sessionID,
		Time:      time.Now().UTC(),
		Metadata:  metadata,
	}

	s.mu.Lock()
	s.queue = append(s.queue, e)
	full := len(s.queue) >= s.batchSize
	s.mu.Unlock()

	if full {
		s.Flush(context.Background())
	}
}

// Flush drains the queue and writes the drained events. Events are removed
// from the queue before the write so a racing signal cannot re-send them.
func (s *Sink) Flush(ctx context.Context) {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.queue
	s.queue = nil
	s.mu.Unlock()

	if err := s.store.InsertEvents(ctx, batch); err != nil {
		log.Printf("[analytics] dropped %d events: %v", len(batch), err)
	}
}

// RunFlusher periodically flushes queued events until ctx is cancelled.
func (s *Sink) RunFlusher(ctx context.Context) {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush(context.Background())
			return
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}

func (s *Sink) BeginCheckout(sessionID types.ID, itemCount int, total types.Money) {
	s.Track(sessionID, EventBeginCheckout, map[string]any{
		"item_count": itemCount,
		"total":      total.Amount,
		"currency":   total.Currency,
	})
}

func (s *Sink) CheckoutStep(sessionID types.ID, step string, stepNumber int) {
	s.Track(sessionID, EventCheckoutStep, map[string]any{
		"step":        step,
		"step_number": stepNumber,
	})
}

func (s *Sink) Purchase(sessionID types.ID, orderID, orderNumber string, total int64, itemCount int) {
	s.Track(sessionID, EventPurchase, map[string]any{
		"order_id":     orderID,
		"order_number": orderNumber,
		"total":        total,
		"item_count":   itemCount,
	})
}

func (s *Sink) CheckoutDropoff(sessionID types.ID, step, reason string) {
	s.Track(sessionID, EventCheckoutDropoff, map[string]any{
		"step":   step,
		"reason": reason,
	})
}
