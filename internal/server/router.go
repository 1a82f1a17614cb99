package server

import (
	"net/http"
	"time"

	"ecovoz/internal/admin"
	wizardctrl "ecovoz/internal/wizard/controller"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(wizardCtrl *wizardctrl.Controller, adminCtrl *admin.Controller, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", wizardCtrl.HandleStart)
			r.Get("/{sessionId}", wizardCtrl.HandleState)
			r.Get("/{sessionId}/quote", wizardCtrl.HandleQuote)
			r.Patch("/{sessionId}/draft", wizardCtrl.HandleUpdateDraft)
			r.Post("/{sessionId}/advance", wizardCtrl.HandleAdvance)
			r.Post("/{sessionId}/back", wizardCtrl.HandleRetreat)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/tariffs", adminCtrl.HandleListTariffs)
			r.Put("/tariffs/{tariffId}", adminCtrl.HandleUpdateTariff)
			r.Get("/orders/today", adminCtrl.HandleTodayOrders)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
