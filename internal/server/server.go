package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-profileform/internal/logging"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/openapi"
	"github.com/goliatone/go-profileform/pkg/orchestrator"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla"
	"github.com/goliatone/go-profileform/pkg/submit"
	"github.com/goliatone/go-profileform/pkg/validation"
)

// AssetsPrefix is where the embedded stylesheet is served.
const AssetsPrefix = "/assets"

// Server hosts one form definition: the HTML form at /, JSON submissions at
// /submit, the OpenAPI description and Prometheus metrics.
type Server struct {
	router       *chi.Mux
	def          model.FormDefinition
	schema       *validation.Schema
	orch         *orchestrator.Orchestrator
	rendererName string
	ack          *submit.Acknowledger
	registry     *prometheus.Registry
	metrics      *metrics
	openapiDoc   []byte
	maxBodyBytes int64
}

// Options configures a Server.
type Options func(*Server)

// WithOrchestrator sets the orchestrator used to render pages. Its registry
// must contain the renderer selected by WithRenderer.
func WithOrchestrator(orch *orchestrator.Orchestrator) Options {
	return func(s *Server) {
		s.orch = orch
	}
}

// WithRenderer selects the page renderer by registry name.
func WithRenderer(name string) Options {
	return func(s *Server) {
		s.rendererName = name
	}
}

// WithAcknowledger sets the handler that produces receipts.
func WithAcknowledger(ack *submit.Acknowledger) Options {
	return func(s *Server) {
		s.ack = ack
	}
}

// WithMetricsRegistry sets the Prometheus registry that collects and serves
// the server metrics.
func WithMetricsRegistry(registry *prometheus.Registry) Options {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Options {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New builds the router for def.
func New(def model.FormDefinition, opts ...Options) (*Server, error) {
	s := &Server{
		def:          def.Clone(),
		rendererName: vanilla.Name,
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	compiled, err := validation.Compile(s.def)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile validation schema", goerr.V("form", s.def.ID))
	}
	s.schema = compiled

	if s.orch == nil {
		html, err := vanilla.New(
			vanilla.WithStylesheet(AssetsPrefix+"/"+vanilla.StylesheetName),
			vanilla.WithInlineStyles(false),
		)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create html renderer")
		}
		s.orch = orchestrator.New(orchestrator.WithRegistry(newRegistry(html)))
	}
	if _, err := s.orch.Renderer(s.rendererName); err != nil {
		return nil, goerr.Wrap(err, "renderer not available", goerr.V("renderer", s.rendererName))
	}
	if s.ack == nil {
		s.ack = submit.NewAcknowledger(submit.WithLogger(logging.Default()))
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)

	doc, err := openapi.Build(s.def)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build openapi document")
	}
	s.openapiDoc, err = json.Marshal(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal openapi document")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleForm)
	r.Post("/", s.handleFormPost)
	r.Post("/submit", s.handleSubmitJSON)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Handle(AssetsPrefix+"/*", http.StripPrefix(AssetsPrefix+"/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve runs an http.Server on addr until ctx is cancelled, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Default().Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return goerr.Wrap(err, "failed to serve HTTP", goerr.V("addr", addr))
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logging.Default().Info("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server")
	}
	return nil
}

// accessLogger logs every request once it completes.
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
