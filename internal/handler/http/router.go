package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jgivc/frqarchive/internal/loader"
	"github.com/spf13/afero"
)

const (
	headerRequestID = "X-Request-Id"

	requestTimeout = 30 * time.Second
)

// Services groups what the router dispatches to. Indexer may be nil, in
// which case the /index/ endpoints are not mounted.
type Services struct {
	Pages   PageService
	Data    loader.Fetcher
	Files   afero.Fs
	Indexer interface {
		IndexService
		InfoService
	}
}

func NewRouter(s Services, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(log))
	r.Use(recoverer(log))

	get := r.With(middleware.Timeout(requestTimeout))
	pages := NewPageHandler(s.Pages, log)
	files := NewFileHandler(s.Files, log)

	get.Get("/", pages)
	get.Get("/course/*", pages)
	get.Get("/data/*", NewDataHandler(s.Data, log))
	get.Get("/courses/*", files)
	get.Get("/questions/*", files)

	if s.Indexer != nil {
		get.Get("/index/", NewInfoHandler(s.Indexer, log))
		r.Post("/index/", NewIndexHandler(s.Indexer, log))
	}

	// Unknown paths still get the site's own 404 page.
	r.NotFound(pages)

	return r
}

// requestID stores a uuid request id where middleware.GetReqID finds it,
// keeping one sent by a proxy.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, id)))
	})
}

// recoverer answers a panicking handler with the diagnostic page.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With(slog.String("item", "Router"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Handler panic",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
				)
				writeDiagnostic(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With(slog.String("item", "Router"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Debug("Request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
