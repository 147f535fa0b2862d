// pkg/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/valpere/MediaScrapexter/internal/monitoring"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Server exposes the Service over HTTP.
type Server struct {
	service *Service
	metrics *monitoring.MetricsManager
	log     utils.Logger
	httpSrv *http.Server
}

// NewServer builds the HTTP server on the given listen address. Passing
// a nil metrics manager disables the metrics endpoint.
func NewServer(address string, service *Service, metrics *monitoring.MetricsManager, log utils.Logger) *Server {
	if log == nil {
		log = utils.NopLogger{}
	}
	s := &Server{
		service: service,
		metrics: metrics,
		log:     log,
	}

	router := mux.NewRouter()
	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	apiV1.HandleFunc("/sources", s.handleSources).Methods(http.MethodGet)
	apiV1.HandleFunc("/assist", s.handleAssist).Methods(http.MethodPost)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}
	router.Use(s.logRequests)

	s.httpSrv = &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routing handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Infof("http api listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ct, err := types.ParseContentType(q.Get("type"))
	if err != nil {
		s.writeError(w, utils.NewErrorf(utils.ErrCodeInvalidConfig, "invalid type parameter: %v", err).
			WithUserMessage("type must be videos or gifs"))
		return
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, utils.NewErrorf(utils.ErrCodeInvalidConfig, "invalid page parameter %q", raw).
				WithUserMessage("page must be an integer"))
			return
		}
	}

	result, err := s.service.Search(r.Context(), SearchRequest{
		Source:      q.Get("source"),
		Query:       q.Get("query"),
		ContentType: ct,
		Page:        page,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sources": s.service.Sources(),
	})
}

type assistRequest struct {
	Source      string `json:"source"`
	ContentType string `json:"content_type"`
	Query       string `json:"query,omitempty"`
}

func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, utils.NewError(utils.ErrCodeInvalidConfig, "request body is not valid JSON").
			WithCause(err).WithUserMessage("send a JSON body with source and content_type"))
		return
	}

	ct, err := types.ParseContentType(req.ContentType)
	if err != nil {
		s.writeError(w, utils.NewErrorf(utils.ErrCodeInvalidConfig, "invalid content_type: %v", err).
			WithUserMessage("content_type must be videos or gifs"))
		return
	}

	suggestion, err := s.service.Suggest(r.Context(), req.Source, ct, req.Query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the wire shape of every failure.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto HTTP statuses: unknown driver
// is 404, other configuration rejections are 400, upstream trouble is a
// gateway failure, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := utils.CodeOf(err)

	status := http.StatusInternalServerError
	switch {
	case code == utils.ErrCodeUnsupportedDriver:
		status = http.StatusNotFound
	case utils.IsConfigurationError(err):
		status = http.StatusBadRequest
	case code == utils.ErrCodeNetworkTimeout:
		status = http.StatusGatewayTimeout
	case utils.IsNetworkError(err), code == utils.ErrCodeAssistFailed:
		status = http.StatusBadGateway
	}

	message := err.Error()
	var se *utils.StructuredError
	if errors.As(err, &se) && se.UserMessage != "" {
		message = se.UserMessage
	}
	if status >= 500 {
		s.log.Errorf("request failed: %v", err)
	}

	s.writeJSON(w, status, errorResponse{Code: string(code), Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Errorf("failed to encode response: %v", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debugf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
