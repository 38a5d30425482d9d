// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/possession/internal/adapters/chart"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/types"
)

const defaultMaxUploadBytes = 64 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit queues frames for analysis. Returns an error wrapping a
	// backpressure kind when the queue is full.
	Submit(ctx context.Context, frames []model.Frame) (string, error)

	// Analyze runs an analysis inline.
	Analyze(ctx context.Context, frames []model.Frame) (model.Report, error)

	// Report returns a finished report.
	Report(ctx context.Context, id string) (model.Report, error)
}

// Decoder turns a request body into frames.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) ([]model.Frame, error)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxUploadBytes bounds the size of submitted documents.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLabels sets the party labels used in responses.
func WithLabels(l types.Labels) Option {
	return func(s *Server) {
		s.labels = l
	}
}

// WithChartOptions configures the PNG chart endpoint.
func WithChartOptions(opts ...chart.Option) Option {
	return func(s *Server) {
		s.chartOptions = append(s.chartOptions, opts...)
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysesHandler *AnalysesHandler

	maxUploadBytes int64
	labels         types.Labels
	chartOptions   []chart.Option
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, decoder Decoder, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxUploadBytes: defaultMaxUploadBytes,
		labels:         types.DefaultLabels(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.analysesHandler = &AnalysesHandler{
		deps:           deps,
		decoder:        decoder,
		maxUploadBytes: s.maxUploadBytes,
		labels:         s.labels,
		chartOptions:   append([]chart.Option{chart.WithLabels(s.labels)}, s.chartOptions...),
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyses", MetricsMiddleware(s.analysesHandler.HandlePost, "analyses"))
	mux.HandleFunc("/analyses/", MetricsMiddleware(s.analysesHandler.HandleGet, "analysis"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
