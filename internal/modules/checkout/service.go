// README: Checkout service; owns sessions, drives step transitions, and coordinates the dropoff guard.
package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"footy/internal/backend"
	"footy/internal/modules/dropoff"
	"footy/internal/types"
)

var (
	ErrNotFound       = errors.New("checkout session not found")
	ErrInvalidState   = errors.New("invalid checkout step for operation")
	ErrSubmitInFlight = errors.New("order submission already in flight")
	ErrSessionReset   = errors.New("checkout session was reset during submission")
	ErrBadRequest     = errors.New("bad request")
)

// Gate is the admission and post-order reconciliation boundary (cart module).
type Gate interface {
	Admit(ctx context.Context, accessToken string) (*backend.Cart, error)
	Refresh(ctx context.Context, accessToken string) (*backend.Cart, error)
}

// Funnel records checkout funnel events; it doubles as the dropoff guard's
// reporter.
type Funnel interface {
	dropoff.Reporter
	BeginCheckout(sessionID types.ID, itemCount int, total types.Money)
	CheckoutStep(sessionID types.ID, step string, stepNumber int)
	Purchase(sessionID types.ID, orderID, orderNumber string, total int64, itemCount int)
}

// Service holds every live checkout session. Sessions are created by Begin
// and destroyed by Teardown or completion; each owns its guard and its
// idempotency key. Lock order is service mutex first, then guard mutex.
type Service struct {
	gate     Gate
	pipeline *Pipeline
	keys     *KeyManager
	funnel   Funnel

	mu       sync.Mutex
	sessions map[types.ID]*Session
	guards   map[types.ID]*dropoff.Guard
}

func NewService(gate Gate, pipeline *Pipeline, keys *KeyManager, funnel Funnel) *Service {
	return &Service{
		gate:     gate,
		pipeline: pipeline,
		keys:     keys,
		funnel:   funnel,
		sessions: make(map[types.ID]*Session),
		guards:   make(map[types.ID]*dropoff.Guard),
	}
}

// Begin admits the caller into checkout and creates the session. Requires an
// authenticated identity and a non-empty cart; both checks are delegated to
// the gate. Re-entering with a live session returns it unchanged.
func (s *Service) Begin(ctx context.Context, sessionID types.ID, accessToken string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrBadRequest
	}

	s.mu.Lock()
	if sess, ok := s.sessions[sessionID]; ok {
		snap := *sess
		s.mu.Unlock()
		return &snap, nil
	}
	s.mu.Unlock()

	cart, err := s.gate.Admit(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		snap := *sess
		return &snap, nil
	}

	sess := &Session{
		ID:             sessionID,
		Step:           StepShipping,
		IdempotencyKey: s.keys.Issue(sessionID),
		CreatedAt:      time.Now(),
	}
	guard := dropoff.NewGuard(sessionID, s.funnel)
	guard.Arm(string(StepShipping))
	s.sessions[sessionID] = sess
	s.guards[sessionID] = guard

	s.funnel.BeginCheckout(sessionID, cart.ItemCount, types.Money{Amount: cart.Total, Currency: "USD"})
	s.funnel.CheckoutStep(sessionID, string(StepShipping), StepNumber(StepShipping))

	snap := *sess
	return &snap, nil
}

// Get returns a snapshot of the session.
func (s *Service) Get(sessionID types.ID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	snap := *sess
	return &snap, nil
}

// SubmitShippingAddress stores the address and advances shipping → review.
// No side effects beyond local state.
func (s *Service) SubmitShippingAddress(sessionID types.ID, address backend.ShippingAddress) error {
	if address.Name == "" || address.Line1 == "" || address.City == "" ||
		address.PostalCode == "" || address.Country == "" {
		return ErrBadRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	if sess.Step != StepShipping || !CanTransition(sess.Step, StepReview) {
		return ErrInvalidState
	}

	addr := address
	sess.ShippingAddress = &addr
	sess.Error = ""
	sess.Step = StepReview
	s.guards[sessionID].SetStep(string(StepReview))
	s.funnel.CheckoutStep(sessionID, string(StepReview), StepNumber(StepReview))
	return nil
}

// GoBackToShipping returns review → shipping. The entered address is
// retained as the pre-filled default.
func (s *Service) GoBackToShipping(sessionID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	if sess.Step != StepReview || !CanTransition(sess.Step, StepShipping) {
		return ErrInvalidState
	}

	sess.Error = ""
	sess.Step = StepShipping
	s.guards[sessionID].SetStep(string(StepShipping))
	s.funnel.CheckoutStep(sessionID, string(StepShipping), StepNumber(StepShipping))
	return nil
}

// PlaceOrder submits the order from review, using the session's stable
// idempotency key. Submissions are strictly serialized: a call while one is
// in flight is rejected, not queued. A resolution that arrives after the
// session was reset (key changed) or torn down mutates nothing.
func (s *Service) PlaceOrder(ctx context.Context, sessionID types.ID, accessToken, notes string) (*backend.Order, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if sess.Step != StepReview {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	if sess.Submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if sess.ShippingAddress == nil {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	sess.Submitting = true
	sess.Error = ""
	key := s.keys.Current(sessionID)
	address := *sess.ShippingAddress
	s.mu.Unlock()

	sub := s.pipeline.Submit(ctx, accessToken, key, address, notes)

	s.mu.Lock()
	cur, ok := s.sessions[sessionID]
	if !ok || cur.IdempotencyKey != key {
		// The attempt this response belongs to was abandoned; the live
		// session (if any) must not be touched by it.
		s.mu.Unlock()
		return nil, ErrSessionReset
	}
	cur.Submitting = false

	if sub.Status != SubmitSucceeded {
		if errors.Is(sub.Err, backend.ErrUnauthorized) {
			// Address and key stay intact so a retry after re-login
			// does not start over.
			s.mu.Unlock()
			return nil, sub.Err
		}
		cur.Error = sub.FailureReason
		s.mu.Unlock()
		return nil, sub.Err
	}

	cur.Order = sub.Order
	cur.Step = StepComplete
	// Disarm before releasing the lock so an unload arriving right after a
	// successful purchase can never report a false abandonment.
	s.guards[sessionID].Disarm()
	s.mu.Unlock()

	s.funnel.Purchase(sessionID, sub.Order.ID, sub.Order.OrderNumber, sub.Order.Total, len(sub.Order.Items))
	if _, err := s.gate.Refresh(ctx, accessToken); err != nil {
		log.Printf("[checkout %s] cart refresh after order failed: %v", sessionID, err)
	}
	return sub.Order, nil
}

// Reset returns the session to shipping, clears collected state, and issues
// a new idempotency key. Valid from any state; this is the only way the key
// changes. Results of an in-flight submission are abandoned.
func (s *Service) Reset(sessionID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}

	sess.Step = StepShipping
	sess.ShippingAddress = nil
	sess.Order = nil
	sess.Error = ""
	sess.Submitting = false
	sess.IdempotencyKey = s.keys.Issue(sessionID)
	// The resulting state is non-terminal, so the guard re-arms.
	s.guards[sessionID].Arm(string(StepShipping))
	return nil
}

// Signal feeds a browser lifecycle signal (unload beacon, visibility-hidden
// beacon) into the session's guard. Reports whether this signal emitted the
// abandonment report.
func (s *Service) Signal(ctx context.Context, sessionID types.ID, reason dropoff.Reason) (bool, error) {
	s.mu.Lock()
	guard, ok := s.guards[sessionID]
	s.mu.Unlock()
	if !ok {
		return false, ErrNotFound
	}
	return guard.Signal(ctx, reason), nil
}

// Teardown destroys the session on checkout unmount (in-app navigation
// away). If the session never completed, this counts as one of the three
// racing leave signals.
func (s *Service) Teardown(ctx context.Context, sessionID types.ID) error {
	s.mu.Lock()
	guard, ok := s.guards[sessionID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.guards, sessionID)
	s.keys.Forget(sessionID)
	s.mu.Unlock()

	guard.Signal(ctx, dropoff.ReasonNavigation)
	return nil
}
