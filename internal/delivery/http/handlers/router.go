package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether the service can take traffic.
type HealthCheck func(ctx context.Context) error

type RouterOptions struct {
	Deals          *DealHandler
	Redemptions    *RedemptionHandler
	Gatherer       prometheus.Gatherer
	Health         HealthCheck
	RequestTimeout time.Duration
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chimw.Timeout(opts.RequestTimeout))
		}

		r.Route("/deals", func(r chi.Router) {
			r.Post("/", opts.Deals.CreateDeal)
			r.Route("/{dealID}", func(r chi.Router) {
				r.Get("/", opts.Deals.GetDeal)
				r.Post("/activate", opts.Deals.ActivateDeal)
				r.Post("/deactivate", opts.Deals.DeactivateDeal)

				r.Post("/redeem", opts.Redemptions.Redeem)
				r.Post("/validate", opts.Redemptions.Validate)
				r.Post("/reservations", opts.Redemptions.Reserve)
			})
		})

		r.Route("/redemptions/{redemptionID}", func(r chi.Router) {
			r.Get("/", opts.Redemptions.GetRedemption)
			r.Post("/complete", opts.Redemptions.CompleteReservation)
			r.Post("/cancel", opts.Redemptions.CancelReservation)
		})
	})

	return r
}
