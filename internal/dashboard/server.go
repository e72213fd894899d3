package dashboard

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"volsurface/internal/chart"
	"volsurface/internal/config"
	"volsurface/internal/errors"
	"volsurface/internal/logging"
)

// Server serves the dashboard page and its API.
type Server struct {
	cfg       config.ServerConfig
	dash      *Dashboard
	chartOpts chart.Options
	logger    zerolog.Logger
	router    *mux.Router
}

// NewServer wires the routes for the given configuration.
func NewServer(cfg *config.Config, logger zerolog.Logger) *Server {
	logger = logging.WithOperation(logger, "serve")

	opts := chart.DefaultOptions()
	opts.Width = cfg.Chart.Width
	opts.Height = cfg.Chart.Height

	s := &Server{
		cfg:       cfg.Server,
		dash:      New(BoundsFromConfig(cfg.Dashboard), logger),
		chartOpts: opts,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/surface", s.handleSurface).Methods(http.MethodGet)
	api.HandleFunc("/smile.png", s.handleSmileChart).Methods(http.MethodGet)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listening")
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, s.dash.Bounds()); err != nil {
		s.writeError(w, errors.NewRenderError("html", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	c, err := s.dash.Bounds().ParseControls(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	view, err := s.dash.Build(c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSmileChart(w http.ResponseWriter, r *http.Request) {
	c, err := s.dash.Bounds().ParseControls(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	_, surf, err := s.dash.Surface(c)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderSmiles(&buf, surf, s.chartOpts); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	if errors.Is(err, errors.ErrInvalidParameter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogRequest(s.logger, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
