// README: Cart gate; decides whether a caller may enter checkout and refreshes cart state afterwards.
package cart

import (
	"context"
	"errors"

	"footy/internal/backend"
	"footy/internal/types"
)

// ErrEmptyCart rejects checkout admission when there is nothing to buy.
var ErrEmptyCart = errors.New("cart is empty")

// API is the slice of the backend client the gate needs.
type API interface {
	Me(ctx context.Context, accessToken string) (*backend.User, error)
	FetchCart(ctx context.Context, accessToken string) (*backend.Cart, error)
}

// Gate enforces the checkout entry conditions: an authenticated caller and a
// non-empty cart. It reads cart state but never mutates cart contents.
type Gate struct {
	api API
}

func NewGate(api API) *Gate {
	return &Gate{api: api}
}

// Admit verifies the caller may enter checkout. Auth is checked first so an
// unauthenticated caller with an empty cart is told to log in, not to shop.
func (g *Gate) Admit(ctx context.Context, accessToken string) (*backend.Cart, error) {
	if accessToken == "" {
		return nil, backend.ErrUnauthorized
	}
	if _, err := g.api.Me(ctx, accessToken); err != nil {
		return nil, err
	}
	cart, err := g.api.FetchCart(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	return cart, nil
}

// Refresh re-reads the cart after order completion. The backend clears the
// cart as part of order creation; this picks the emptied state up so the
// session reflects it.
func (g *Gate) Refresh(ctx context.Context, accessToken string) (*backend.Cart, error) {
	return g.api.FetchCart(ctx, accessToken)
}

// Total exposes the cart total as money for funnel reporting.
func Total(c *backend.Cart) types.Money {
	return types.Money{Amount: c.Total, Currency: "USD"}
}
