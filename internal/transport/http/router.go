package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	jwttoken "nidbridge/internal/jwt_token"
	"nidbridge/internal/platform/metrics"
	"nidbridge/internal/platform/middleware"
	"nidbridge/pkg/platform/httputil"
)

// NewRouter wires the full HTTP surface. Everything except health, metrics
// and local login sits behind a live operator session.
func NewRouter(h *Handler, validator *jwttoken.JWTService, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestMetrics(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", h.localLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(validator, h.sessions, h.logger))

		r.Post("/auth/logout", h.localLogout)

		r.Route("/provider", func(r chi.Router) {
			r.Post("/login", h.providerLogin)
			r.Post("/logout", h.providerLogout)
			r.Post("/change-password", h.providerChangePassword)
		})

		r.Post("/verify/demographic", h.verifyDemographic)
		r.Post("/billing/report", h.billingReport)

		r.Route("/afis", func(r chi.Router) {
			r.Post("/verify", h.afisVerify)
			r.Get("/result/{jobID}", h.afisResult)
			r.Post("/upload", h.afisUpload)
		})

		r.Route("/device", func(r chi.Router) {
			r.Get("/health", h.deviceHealth)
			r.Get("/status", h.deviceStatus)
			r.Post("/connect", h.deviceConnect)
			r.Post("/disconnect", h.deviceDisconnect)
			r.Post("/lock", h.deviceLock)
		})

		r.Route("/capture", func(r chi.Router) {
			r.Post("/one", h.captureOne)
			r.Post("/batch", h.captureBatch)
			r.Post("/{fingerID}/cancel", h.captureCancel)
			r.Get("/active", h.captureActive)
		})

		r.Post("/quality/assess", h.qualityAssess)

		r.Get("/status", h.status)
	})

	return r
}

// requestMetrics records inbound latency per route pattern and status class.
func requestMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RequestDuration.
				WithLabelValues(route, strconv.Itoa(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}
