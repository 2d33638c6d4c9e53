// README: Auth handlers; session-bound login and logout.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"footy/internal/http/middleware"
	"footy/internal/modules/auth"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	user, err := h.auth.Login(c.Request.Context(), middleware.SessionID(c), req.Email, req.Password)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Authenticated(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, user)
}
