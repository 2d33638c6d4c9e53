// README: Abandonment guard; emits exactly one dropoff report per checkout session.
package dropoff

import (
	"context"
	"sync"

	"footy/internal/types"
)

// Reason identifies which lifecycle signal requested the fire.
type Reason string

const (
	// ReasonPageUnload is the browser unload beacon (tab close, hard navigation).
	ReasonPageUnload Reason = "page_unload"
	// ReasonTabHidden is the visibility-change-to-hidden beacon; it can arrive
	// many times per session.
	ReasonTabHidden Reason = "tab_hidden"
	// ReasonNavigation is checkout teardown (in-app route change).
	ReasonNavigation Reason = "navigation"
)

// Reporter is the abandonment report sink. Flush must be safe to call from
// unload-class handlers, where the process may be torn down right after.
type Reporter interface {
	CheckoutDropoff(sessionID types.ID, step, reason string)
	Flush(ctx context.Context)
}

// Guard arbitrates the competing "user is leaving" signals for one checkout
// session. All three sources funnel into Signal; the fired flag is the single
// arbitration point, so a session produces exactly one report if it never
// completes and zero if it does.
type Guard struct {
	sessionID types.ID
	reporter  Reporter

	mu    sync.Mutex
	step  string
	armed bool
	fired bool
}

func NewGuard(sessionID types.ID, reporter Reporter) *Guard {
	return &Guard{sessionID: sessionID, reporter: reporter}
}

// Arm enables reporting and records the step the session is currently on.
// Re-arming after a reset clears a previous fire.
func (g *Guard) Arm(step string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
	g.fired = false
	g.step = step
}

// SetStep tracks the live step so a later fire is tagged with the step at
// the moment of firing.
func (g *Guard) SetStep(step string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.step = step
}

// Disarm marks the session as completed: equivalent to a fire without a
// report. Any signal arriving afterwards is a no-op.
func (g *Guard) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = false
	g.fired = true
}

// Signal requests a fire from one of the lifecycle sources. The fired flag
// is checked-and-set before any work so that a second signal racing the
// first cannot also report. Returns whether this signal emitted the report.
func (g *Guard) Signal(ctx context.Context, reason Reason) bool {
	g.mu.Lock()
	if !g.armed || g.fired {
		g.mu.Unlock()
		return false
	}
	g.fired = true
	step := g.step
	g.mu.Unlock()

	// Delivery is attempted synchronously at fire time; after an
	// unload-class signal there may be no later chance.
	g.reporter.CheckoutDropoff(g.sessionID, step, string(reason))
	g.reporter.Flush(ctx)
	return true
}

// Fired reports whether an abandonment report has been emitted (or the
// session completed, which suppresses one).
func (g *Guard) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
