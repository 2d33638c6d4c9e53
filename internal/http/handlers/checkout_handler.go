// README: Checkout flow handlers (begin, shipping, review, order, reset).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"footy/internal/backend"
	"footy/internal/http/middleware"
	"footy/internal/modules/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// sessionResponse mirrors the checkout state the storefront renders from.
// The idempotency key stays server-side.
type sessionResponse struct {
	Step            string                   `json:"step"`
	ShippingAddress *backend.ShippingAddress `json:"shipping_address"`
	Order           *backend.Order           `json:"order"`
	IsSubmitting    bool                     `json:"is_submitting"`
	Error           string                   `json:"error,omitempty"`
}

func toSessionResponse(s *checkout.Session) sessionResponse {
	return sessionResponse{
		Step:            string(s.Step),
		ShippingAddress: s.ShippingAddress,
		Order:           s.Order,
		IsSubmitting:    s.Submitting,
		Error:           s.Error,
	}
}

func (h *CheckoutHandler) Begin(c *gin.Context) {
	sess, err := h.checkout.Begin(c.Request.Context(), middleware.SessionID(c), middleware.AccessToken(c))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	sess, err := h.checkout.Get(middleware.SessionID(c))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	var req backend.ShippingAddress
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.checkout.SubmitShippingAddress(middleware.SessionID(c), req); err != nil {
		writeCheckoutError(c, err)
		return
	}
	sess, err := h.checkout.Get(middleware.SessionID(c))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) Back(c *gin.Context) {
	if err := h.checkout.GoBackToShipping(middleware.SessionID(c)); err != nil {
		writeCheckoutError(c, err)
		return
	}
	sess, err := h.checkout.Get(middleware.SessionID(c))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toSessionResponse(sess))
}

type placeOrderReq struct {
	Notes string `json:"notes"`
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	order, err := h.checkout.PlaceOrder(c.Request.Context(), middleware.SessionID(c), middleware.AccessToken(c), req.Notes)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, order)
}

func (h *CheckoutHandler) Reset(c *gin.Context) {
	if err := h.checkout.Reset(middleware.SessionID(c)); err != nil {
		writeCheckoutError(c, err)
		return
	}
	sess, err := h.checkout.Get(middleware.SessionID(c))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toSessionResponse(sess))
}
