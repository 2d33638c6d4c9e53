// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"footy/internal/backend"
	"footy/internal/modules/cart"
	"footy/internal/modules/checkout"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeCheckoutError(c *gin.Context, err error) {
	var ve *backend.ValidationError
	switch {
	case errors.Is(err, checkout.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrInvalidState),
		errors.Is(err, checkout.ErrSubmitInFlight),
		errors.Is(err, checkout.ErrSessionReset),
		errors.Is(err, cart.ErrEmptyCart):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, backend.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, "not authenticated")
	case errors.As(err, &ve):
		writeError(c, http.StatusUnprocessableEntity, ve.Detail)
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
