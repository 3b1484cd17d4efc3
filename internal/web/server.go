package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymlogger/internal/middleware"
	"github.com/2beens/gymlogger/internal/telemetry/metrics"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type NewServerParams struct {
	App            *App
	MetricsManager *metrics.Manager
	PromRegistry   *prometheus.Registry
	// CSRFKey must be 32 bytes
	CSRFKey    []byte
	CSRFSecure bool
}

// Server serves the web app and, on a separate listener, its metrics.
type Server struct {
	app            *App
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	csrfKey        []byte
	csrfSecure     bool

	httpServer        *http.Server
	metricsHttpServer *http.Server
}

func NewServer(params NewServerParams) (*Server, error) {
	if len(params.CSRFKey) != 32 {
		return nil, errors.New("csrf key must be 32 bytes long")
	}
	return &Server{
		app:            params.App,
		metricsManager: params.MetricsManager,
		promRegistry:   params.PromRegistry,
		csrfKey:        params.CSRFKey,
		csrfSecure:     params.CSRFSecure,
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymlogger-web"))

	s.app.SetupRoutes(r)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	protect := csrf.Protect(
		s.csrfKey,
		csrf.Secure(s.csrfSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.ErrorHandler(http.HandlerFunc(handleCSRFFailure)),
	)
	protected := protect(r)
	if s.csrfSecure {
		return protected
	}

	// plain http, e.g. localhost: skip the https referer checks
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	log.Warnf("csrf check failed for %s %s: %s", r.Method, r.URL.Path, csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid or missing form token, reload the page and try again.", http.StatusForbidden)
}

func (s *Server) Serve(host string, port int, metricsHost, metricsPort string) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler(s.promRegistry))
	metricsAddr := net.JoinHostPort(metricsHost, metricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > gymlogger listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("web app, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.metricsManager.GaugeLifeSignal.Set(0)

	var err error
	if s.httpServer != nil {
		err = multierr.Append(err, s.httpServer.Shutdown(ctx))
	}
	if s.metricsHttpServer != nil {
		err = multierr.Append(err, s.metricsHttpServer.Shutdown(ctx))
	}
	return err
}
