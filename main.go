package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"poemas-backend/config"
	"poemas-backend/metrics"
	"poemas-backend/openai"
	"poemas-backend/paypal"
	"poemas-backend/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
}

func run() error {
	// Missing credentials stop the process here, before anything listens.
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	m := metrics.New()
	r := router.New(router.Deps{
		Config:  cfg,
		Billing: paypal.NewClient(cfg, m.HTTPClient("paypal", cfg.UpstreamTimeout)),
		AI:      openai.NewClient(cfg,
			m.HTTPClient("openai", cfg.UpstreamTimeout),
			m.StreamingHTTPClient("openai", cfg.UpstreamTimeout),
		),
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[MAIN] escuchando en %s (PayPal %s, cliente %s)", srv.Addr, cfg.PayPal.APIBase, cfg.MaskedClientID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[MAIN] apagando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
