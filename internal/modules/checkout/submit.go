// README: Order submission pipeline; performs the create-order call and normalizes its outcome.
package checkout

import (
	"context"
	"errors"

	"footy/internal/backend"
)

type SubmitStatus int

const (
	SubmitPending SubmitStatus = iota
	SubmitSucceeded
	SubmitFailed
)

// Submission is the explicit result of one create-order attempt. The state
// machine consumes this instead of exception-style control flow so the
// discard-if-stale rule can compare Key against the session's current key.
type Submission struct {
	Key    string
	Status SubmitStatus
	Order  *backend.Order
	// FailureReason is the user-facing message for a failed submission.
	// Empty for auth failures, which are propagated, not surfaced.
	FailureReason string
	Err           error
}

// OrderAPI is the slice of the backend client the pipeline needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, accessToken string, req backend.OrderCreate) (*backend.Order, error)
}

// Pipeline submits orders to the backend. It never retries on its own and
// never re-validates address structure (that belongs to the form layer);
// retries are user-initiated and must reuse the same idempotency key.
type Pipeline struct {
	api OrderAPI
}

func NewPipeline(api OrderAPI) *Pipeline {
	return &Pipeline{api: api}
}

func (p *Pipeline) Submit(ctx context.Context, accessToken, key string, address backend.ShippingAddress, notes string) Submission {
	if key == "" {
		return Submission{
			Status:        SubmitFailed,
			FailureReason: "Failed to create order",
			Err:           errors.New("checkout: submit without idempotency key"),
		}
	}

	order, err := p.api.CreateOrder(ctx, accessToken, backend.OrderCreate{
		IdempotencyKey:  key,
		ShippingAddress: address,
		Notes:           notes,
	})
	if err != nil {
		sub := Submission{Key: key, Status: SubmitFailed, Err: err}
		var ve *backend.ValidationError
		switch {
		case errors.Is(err, backend.ErrUnauthorized):
			// Propagated to the ambient session gate; the session's address
			// and key stay usable for a retry after re-authentication.
		case errors.As(err, &ve):
			sub.FailureReason = ve.Detail
		default:
			sub.FailureReason = "Failed to create order"
		}
		return sub
	}
	return Submission{Key: key, Status: SubmitSucceeded, Order: order}
}
