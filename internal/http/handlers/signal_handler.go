// README: Lifecycle beacon handlers (unload, tab-hidden, teardown).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"footy/internal/http/middleware"
	"footy/internal/modules/checkout"
	"footy/internal/modules/dropoff"
)

// SignalHandler receives the browser's leave signals. These arrive as
// sendBeacon-style fire-and-forget posts, so responses are minimal and a
// suppressed (already fired or disarmed) signal is still a 200.
type SignalHandler struct {
	checkout *checkout.Service
}

func NewSignalHandler(svc *checkout.Service) *SignalHandler {
	return &SignalHandler{checkout: svc}
}

type signalReq struct {
	Reason string `json:"reason"`
}

func (h *SignalHandler) Signal(c *gin.Context) {
	var req signalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	var reason dropoff.Reason
	switch dropoff.Reason(req.Reason) {
	case dropoff.ReasonPageUnload, dropoff.ReasonTabHidden:
		reason = dropoff.Reason(req.Reason)
	default:
		writeError(c, http.StatusBadRequest, "unknown reason")
		return
	}

	fired, err := h.checkout.Signal(c.Request.Context(), middleware.SessionID(c), reason)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"fired": fired})
}

// Teardown is the unmount beacon: the storefront navigated away from
// checkout, so the session is destroyed.
func (h *SignalHandler) Teardown(c *gin.Context) {
	if err := h.checkout.Teardown(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "closed"})
}
