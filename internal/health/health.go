// Package health serves the optional ops endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

type Counter interface {
	CountByStatus(ctx context.Context) (map[questions.Status]int, error)
}

type statsResponse struct {
	Total    int                      `json:"total"`
	ByStatus map[questions.Status]int `json:"by_status"`
}

// NewRouter exposes GET /health and GET /stats. Browsers may read them
// only from allowedOrigins.
func NewRouter(counter Counter, logger *zap.Logger, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		counts, err := counter.CountByStatus(r.Context())
		if err != nil {
			logger.Error("count questions", zap.Error(err))
			http.Error(w, "stats unavailable", http.StatusInternalServerError)
			return
		}

		resp := statsResponse{ByStatus: make(map[questions.Status]int)}
		for _, s := range questions.Statuses() {
			resp.ByStatus[s] = counts[s]
			resp.Total += counts[s]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}
