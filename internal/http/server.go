// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"footy/internal/http/handlers"
	"footy/internal/http/middleware"
	"footy/internal/modules/auth"
	"footy/internal/modules/checkout"
)

type ServerDeps struct {
	Checkout *checkout.Service
	Auth     *auth.Service
}

type Server struct {
	checkout *checkout.Service
	auth     *auth.Service
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		checkout: deps.Checkout,
		auth:     deps.Auth,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := handlers.NewAuthHandler(s.auth)
	checkoutHandler := handlers.NewCheckoutHandler(s.checkout)
	signalHandler := handlers.NewSignalHandler(s.checkout)

	api := r.Group("/api", middleware.Session(s.auth.AccessToken))

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)

	api.POST("/checkout/begin", checkoutHandler.Begin)
	api.GET("/checkout", checkoutHandler.Get)
	api.POST("/checkout/shipping", checkoutHandler.SubmitShipping)
	api.POST("/checkout/back", checkoutHandler.Back)
	api.POST("/checkout/order", checkoutHandler.PlaceOrder)
	api.POST("/checkout/reset", checkoutHandler.Reset)

	// Beacon endpoints; the browser fires these while leaving the page, so
	// they carry only the session header.
	api.POST("/checkout/signal", signalHandler.Signal)
	api.POST("/checkout/teardown", signalHandler.Teardown)

	return r
}
