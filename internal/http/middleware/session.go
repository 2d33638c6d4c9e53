// README: Session middleware; binds the checkout session header and resolves stored credentials.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"footy/internal/types"
)

const (
	// SessionHeader carries the browser-generated checkout session ID.
	SessionHeader = "X-Checkout-Session"

	ctxSessionID   = "sessionID"
	ctxAccessToken = "accessToken"
)

// Session requires the session header on every request under it. The resolve
// callback looks up the access token bound to the session; an empty token
// with nil error means the session is simply not logged in. The token is
// stashed for handlers; whether a missing token is an error is the handler's
// call, since beacon routes accept it.
func Session(resolve func(ctx context.Context, sessionID types.ID) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader + " header"})
			return
		}
		c.Set(ctxSessionID, types.ID(id))

		token, err := resolve(c.Request.Context(), types.ID(id))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(ctxAccessToken, token)
		c.Next()
	}
}

// SessionID returns the session ID bound by Session.
func SessionID(c *gin.Context) types.ID {
	id, _ := c.Get(ctxSessionID)
	sid, _ := id.(types.ID)
	return sid
}

// AccessToken returns the stored access token for the session, or "".
func AccessToken(c *gin.Context) string {
	t, _ := c.Get(ctxAccessToken)
	s, _ := t.(string)
	return s
}
