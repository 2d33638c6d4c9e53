// README: Cart gate tests (admission rules).
package cart

import (
	"context"
	"errors"
	"testing"

	"footy/internal/backend"
)

type stubAPI struct {
	meErr   error
	cart    *backend.Cart
	cartErr error
}

func (a *stubAPI) Me(ctx context.Context, accessToken string) (*backend.User, error) {
	if a.meErr != nil {
		return nil, a.meErr
	}
	return &backend.User{ID: "u1", Email: "a@example.com"}, nil
}

func (a *stubAPI) FetchCart(ctx context.Context, accessToken string) (*backend.Cart, error) {
	if a.cartErr != nil {
		return nil, a.cartErr
	}
	return a.cart, nil
}

func TestAdmitRequiresToken(t *testing.T) {
	gate := NewGate(&stubAPI{})
	if _, err := gate.Admit(context.Background(), ""); !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing token, got %v", err)
	}
}

func TestAdmitRequiresValidAuth(t *testing.T) {
	gate := NewGate(&stubAPI{meErr: backend.ErrUnauthorized})
	if _, err := gate.Admit(context.Background(), "tok"); !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for rejected token, got %v", err)
	}
}

func TestAdmitRejectsEmptyCart(t *testing.T) {
	gate := NewGate(&stubAPI{cart: &backend.Cart{ID: "c1"}})
	if _, err := gate.Admit(context.Background(), "tok"); err != ErrEmptyCart {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestAdmitReturnsCart(t *testing.T) {
	want := &backend.Cart{
		ID:        "c1",
		Items:     []backend.CartItem{{ID: "ci1", Quantity: 1, UnitPrice: 500, Subtotal: 500}},
		Total:     500,
		ItemCount: 1,
	}
	gate := NewGate(&stubAPI{cart: want})

	cart, err := gate.Admit(context.Background(), "tok")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if cart.ID != "c1" || cart.ItemCount != 1 {
		t.Fatalf("unexpected cart %+v", cart)
	}

	money := Total(cart)
	if money.Amount != 500 || money.Currency != "USD" {
		t.Fatalf("unexpected total %+v", money)
	}
}
