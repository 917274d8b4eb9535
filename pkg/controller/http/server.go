package http

import (
	"net/http"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type Server struct {
	router  *chi.Mux
	backend interfaces.Backend
	batches BatchLister
	authUC  AuthUseCase
}

type Options func(*Server)

// WithAuth requires a bearer token verified by authUC on every API route
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithBatchLister enables GET /batches
func WithBatchLister(lister BatchLister) Options {
	return func(s *Server) {
		s.batches = lister
	}
}

// New creates a Server exposing backend over the DMS REST contract
func New(backend interfaces.Backend, opts ...Options) (*Server, error) {
	if backend == nil {
		return nil, goerr.New("backend is required")
	}

	r := chi.NewRouter()
	s := &Server{
		router:  r,
		backend: backend,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/metadata-registry", listFieldsHandler(backend.Schema()))
		r.Get("/componenttypes", listComponentTypesHandler(backend.Schema()))
		r.Get("/metadata-groups", listGroupsHandler(backend.Schema()))
		r.Get("/dropdowns", listDropdownsHandler(backend.Dropdowns()))

		r.Post("/metadata-registry-values", submitValuesHandler(backend.Items()))
		r.Get("/metadata-registry-values/item/{item_id}", listFieldValuesHandler(backend.Items()))

		r.Get("/items/current-batch", listCurrentItemsHandler(backend.Items()))
		r.Delete("/items/{item_id}", deleteItemHandler(backend.Items()))

		r.Route("/batches", func(r chi.Router) {
			if s.batches != nil {
				r.Get("/", listBatchesHandler(s.batches))
			}
			r.Post("/commit", commitBatchHandler(backend.Batches()))
			r.Get("/{batch_id}/items", listBatchItemsHandler(backend.Items()))
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
