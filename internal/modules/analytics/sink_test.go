// README: Sink tests (batching, drain-on-flush, best-effort delivery).
package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingStore struct {
	mu      sync.Mutex
	batches [][]Event
	err     error
}

func (s *recordingStore) InsertEvents(ctx context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, events)
	return nil
}

func (s *recordingStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestSinkFlushesFullBatch(t *testing.T) {
	store := &recordingStore{}
	sink := NewSink(store, 3, time.Minute)

	sink.Track("s1", EventCheckoutStep, map[string]any{"step": "shipping"})
	sink.Track("s1", EventCheckoutStep, map[string]any{"step": "review"})
	if store.total() != 0 {
		t.Fatalf("expected no flush below batch size, got %d events", store.total())
	}

	sink.Track("s1", EventPurchase, nil)
	if store.total() != 3 {
		t.Fatalf("expected full batch flushed, got %d events", store.total())
	}
}

func TestSinkFlushDrainsQueue(t *testing.T) {
	store := &recordingStore{}
	sink := NewSink(store, 10, time.Minute)

	sink.Track("s1", EventBeginCheckout, nil)
	sink.Flush(context.Background())
	sink.Flush(context.Background())

	if store.total() != 1 {
		t.Fatalf("expected a drained queue to flush nothing twice, got %d events", store.total())
	}
}

func TestSinkDropsOnStoreError(t *testing.T) {
	store := &recordingStore{err: errors.New("db down")}
	sink := NewSink(store, 10, time.Minute)

	sink.Track("s1", EventCheckoutDropoff, map[string]any{"reason": "page_unload"})
	sink.Flush(context.Background())

	// The failed batch is dropped, not requeued.
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	sink.Flush(context.Background())

	if store.total() != 0 {
		t.Fatalf("expected failed batch dropped, got %d events", store.total())
	}
}

func TestSinkEventShape(t *testing.T) {
	store := &recordingStore{}
	sink := NewSink(store, 1, time.Minute)

	sink.CheckoutDropoff("s9", "review", "tab_hidden")

	if store.total() != 1 {
		t.Fatalf("expected 1 event, got %d", store.total())
	}
	e := store.batches[0][0]
	if e.ID == "" {
		t.Fatal("expected generated event id")
	}
	if e.Name != EventCheckoutDropoff {
		t.Fatalf("unexpected event name %q", e.Name)
	}
	if e.SessionID != "s9" {
		t.Fatalf("unexpected session id %q", e.SessionID)
	}
	if e.Metadata["step"] != "review" || e.Metadata["reason"] != "tab_hidden" {
		t.Fatalf("unexpected metadata %v", e.Metadata)
	}
	if e.Time.IsZero() {
		t.Fatal("expected event time set")
	}
}

func TestSinkFinalFlushOnShutdown(t *testing.T) {
	store := &recordingStore{}
	sink := NewSink(store, 10, time.Hour)

	sink.Track("s1", EventCheckoutStep, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sink.RunFlusher(ctx)
		close(done)
	}()
	cancel()
	<-done

	if store.total() != 1 {
		t.Fatalf("expected queued event flushed on shutdown, got %d", store.total())
	}
}
