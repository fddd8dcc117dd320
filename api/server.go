package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/x/distribution"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger is the read side of the ledger used by the API.
type Ledger interface {
	LedgerID() (string, error)
	CommitInfo() (revshare.CommitID, error)
	GetDistributor() (*distribution.Distributor, error)
	GetStats(collectionID string) (*distribution.CollectionConfig, error)
	ListCollections() ([]*distribution.CollectionConfig, error)
	ListDistributions(collectionID string, limit int) ([]*distribution.DistributionEvent, error)
	Balance(addr revshare.Address) (uint64, error)
}

// Server is the read-only HTTP API of the ledger.
type Server struct {
	ledger         Ledger
	logger         log.Logger
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(ledger Ledger, logger log.Logger) *Server {
	return &Server{ledger: ledger, logger: logger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/distributor", s.handleDistributor)
	r.Route("/collections", func(r chi.Router) {
		r.Get("/", s.handleListCollections)
		r.Get("/{id}", s.handleCollection)
		r.Get("/{id}/distributions", s.handleDistributions)
	})
	r.Get("/accounts/{address}/balance", s.handleBalance)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})
	return r
}

// ListenAndServe serves the API until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("api listening", "addr", addr)
	return srv.ListenAndServe()
}
