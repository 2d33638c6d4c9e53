// README: Guard tests (fire-once arbitration across racing signals).
package dropoff

import (
	"context"
	"sync"
	"testing"

	"footy/internal/types"
)

type recordingReporter struct {
	mu      sync.Mutex
	reports []struct{ step, reason string }
	flushes int
}

func (r *recordingReporter) CheckoutDropoff(sessionID types.ID, step, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, struct{ step, reason string }{step, reason})
}

func (r *recordingReporter) Flush(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func TestGuardFiresOnce(t *testing.T) {
	reporter := &recordingReporter{}
	g := NewGuard("s1", reporter)
	g.Arm("shipping")
	ctx := context.Background()

	if !g.Signal(ctx, ReasonTabHidden) {
		t.Fatal("expected first signal to fire")
	}
	if g.Signal(ctx, ReasonPageUnload) {
		t.Fatal("expected second signal suppressed")
	}
	if g.Signal(ctx, ReasonNavigation) {
		t.Fatal("expected third signal suppressed")
	}

	if reporter.count() != 1 {
		t.Fatalf("expected 1 report, got %d", reporter.count())
	}
	if reporter.reports[0].reason != string(ReasonTabHidden) {
		t.Fatalf("expected first signal's reason, got %q", reporter.reports[0].reason)
	}
	if reporter.flushes != 1 {
		t.Fatalf("expected flush attempted at fire time, got %d", reporter.flushes)
	}
}

func TestGuardUnarmedIsNoop(t *testing.T) {
	reporter := &recordingReporter{}
	g := NewGuard("s2", reporter)

	if g.Signal(context.Background(), ReasonPageUnload) {
		t.Fatal("unarmed guard must not fire")
	}
	if reporter.count() != 0 {
		t.Fatalf("expected no reports, got %d", reporter.count())
	}
}

func TestGuardDisarmSuppressesReports(t *testing.T) {
	reporter := &recordingReporter{}
	g := NewGuard("s3", reporter)
	g.Arm("review")
	g.Disarm()

	if g.Signal(context.Background(), ReasonPageUnload) {
		t.Fatal("disarmed guard must not fire")
	}
	if !g.Fired() {
		t.Fatal("disarm counts as a consumed fire")
	}
	if reporter.count() != 0 {
		t.Fatalf("expected no reports after disarm, got %d", reporter.count())
	}
}

func TestGuardTagsStepAtFireTime(t *testing.T) {
	reporter := &recordingReporter{}
	g := NewGuard("s4", reporter)
	g.Arm("shipping")
	g.SetStep("review")

	g.Signal(context.Background(), ReasonPageUnload)

	if reporter.reports[0].step != "review" {
		t.Fatalf("expected step at fire time, got %q", reporter.reports[0].step)
	}
}

func TestGuardRearmAllowsSecondFire(t *testing.T) {
	reporter := &recordingReporter{}
	g := NewGuard("s5", reporter)
	ctx := context.Background()

	g.Arm("shipping")
	if !g.Signal(ctx, ReasonTabHidden) {
		t.Fatal("expected first fire")
	}
	g.Arm("shipping")
	if !g.Signal(ctx, ReasonTabHidden) {
		t.Fatal("expected fire after re-arm")
	}
	if reporter.count() != 2 {
		t.Fatalf("expected 2 reports across two armings, got %d", reporter.count())
	}
}

func TestGuardConcurrentSignals(t *testing.T) {
	reporter := &recordingReporter{}
	g := NewGuard("s6", reporter)
	g.Arm("review")
	ctx := context.Background()

	const signals = 16
	fires := make(chan bool, signals)
	start := make(chan struct{})
	var wg sync.WaitGroup

	reasons := []Reason{ReasonPageUnload, ReasonTabHidden, ReasonNavigation}
	for i := 0; i < signals; i++ {
		wg.Add(1)
		go func(r Reason) {
			defer wg.Done()
			<-start
			fires <- g.Signal(ctx, r)
		}(reasons[i%len(reasons)])
	}

	close(start)
	wg.Wait()
	close(fires)

	success := 0
	for fired := range fires {
		if fired {
			success++
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 winning signal, got %d", success)
	}
	if reporter.count() != 1 {
		t.Fatalf("expected exactly 1 report, got %d", reporter.count())
	}
}
