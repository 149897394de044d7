package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
	"go.uber.org/zap"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	handlers "github.com/applytrack/applytrack/internal/handlers/v1alpha1"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/internal/store"
	"github.com/applytrack/applytrack/pkg/metrics"
	"github.com/applytrack/applytrack/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

// apiMetrics registers the http collectors with the default registry once per process.
var apiMetrics = sync.OnceValue(func() *metrics.Middleware {
	m := metrics.NewMiddleware("api_server")
	m.MustRegisterDefault()
	return m
})

type Server struct {
	cfg           *config.Config
	store         store.Store
	listener      net.Listener
	authenticator auth.Authenticator
	events        service.EventWriter
}

// New returns a new instance of the applytrack api server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

// WithAuthenticator replaces the authenticator built from the configuration.
func (s *Server) WithAuthenticator(a auth.Authenticator) *Server {
	s.authenticator = a
	return s
}

// WithEventWriter publishes job lifecycle events to w.
func (s *Server) WithEventWriter(w service.EventWriter) *Server {
	s.events = w
	return s
}

func oapiErrorHandler(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.Error{Message: fmt.Sprintf("API Error: %s", message)})
}

// Handler builds the router serving the whole api.
func (s *Server) Handler() (http.Handler, error) {
	swagger, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load swagger spec: %w", err)
	}
	// Skip server name validation
	swagger.Servers = nil

	oapiOpts := oapimiddleware.Options{
		ErrorHandler: oapiErrorHandler,
	}

	authenticator := s.authenticator
	if authenticator == nil {
		authenticator, err = auth.NewAuthenticator(s.cfg.Service.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticator: %w", err)
		}
	}

	router := chi.NewRouter()

	router.Use(
		apiMetrics().Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CorsOrigins,
			AllowedMethods:   []string{"GET", "PATCH", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", handlers.Health)

	jobOpts := []service.JobServiceOption{service.WithOperationTimeout(s.cfg.Database.OperationTimeout)}
	if s.events != nil {
		jobOpts = append(jobOpts, service.WithEventWriter(s.events))
	}
	jobService := service.NewJobService(s.store, jobOpts...)
	h := handlers.NewServiceHandler(
		jobService,
		service.NewAnalyticsService(jobService),
		service.NewReportService(jobService),
	)

	router.Group(func(r chi.Router) {
		r.Use(
			authenticator.Authenticator,
			oapimiddleware.OapiRequestValidatorWithOptions(swagger, &oapiOpts),
		)
		h.Routes(r)
	})

	return router, nil
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router, err := s.Handler()
	if err != nil {
		return err
	}

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
