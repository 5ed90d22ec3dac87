package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/metrics"
)

// RouterConfig carries the optional collaborators of the HTTP surface.
type RouterConfig struct {
	Logger               *zap.Logger
	Metrics              *metrics.Recorder
	DefaultQuestionCount int
}

// NewRouter mounts the REST API, the WebSocket endpoint, health and metrics.
func NewRouter(service *app.QuizService, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DefaultQuestionCount < 1 {
		cfg.DefaultQuestionCount = 5
	}
	api := &API{service: service, defaultCount: cfg.DefaultQuestionCount}
	ws := NewWSHandler(service, cfg.Logger, cfg.DefaultQuestionCount)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger, cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Route("/quizzes", func(r chi.Router) {
			r.Post("/", api.startQuiz)
			r.Route("/{quizID}", func(r chi.Router) {
				r.Get("/", api.quizState)
				r.Delete("/", api.abandonQuiz)
				r.Post("/answer", api.answer)
				r.Post("/next", api.next)
				r.Post("/result", api.result)
			})
		})
		r.Post("/questions/{questionID}/reports", api.reportQuestion)
		r.Get("/reports", api.listReports)
		r.Delete("/reports", api.clearReports)
		r.Get("/history", api.listHistory)
		r.Get("/history/summary", api.historySummary)
		r.Delete("/history", api.clearHistory)
	})
	return r
}

func requestLogger(logger *zap.Logger, rec *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			if rec != nil {
				rec.ObserveRequest(route, strconv.Itoa(ww.Status()))
			}
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
