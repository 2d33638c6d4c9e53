// README: Entry point; loads config, wires services, starts HTTP server and the analytics flusher.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"footy/internal/backend"
	"footy/internal/config"
	"footy/internal/credentials"
	httptransport "footy/internal/http"
	"footy/internal/infra"
	"footy/internal/modules/analytics"
	"footy/internal/modules/auth"
	"footy/internal/modules/cart"
	"footy/internal/modules/checkout"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	credStore := credentials.NewRedisStore(redisClient, cfg.Credentials.TTL)
	authSvc := auth.NewService(client, credStore)

	eventStore := analytics.NewStore(dbPool)
	sink := analytics.NewSink(eventStore, cfg.Analytics.BatchSize, cfg.Analytics.FlushInterval)

	gate := cart.NewGate(client)
	pipeline := checkout.NewPipeline(client)
	checkoutSvc := checkout.NewService(gate, pipeline, checkout.NewKeyManager(), sink)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Checkout: checkoutSvc,
		Auth:     authSvc,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go sink.RunFlusher(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
