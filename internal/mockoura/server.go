// Package mockoura serves a local imitation of the Oura v2 API, backed by
// deterministic synthetic data, for demos and end-to-end runs without a real
// account or token.
package mockoura

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
)

const (
	collectionPrefix = "/v2/usercollection/"

	defaultPageSize = 50
	defaultWindow   = 7 // days served when the query omits dates
)

// Server wires HTTP routes for the mock API.
type Server struct {
	gen      *Generator
	token    string
	pageSize int
	logger   logger.Logger
}

// NewServer creates a mock API server around gen. Without WithToken any
// bearer token is accepted.
func NewServer(gen *Generator, opts ...Option) *Server {
	s := &Server{
		gen:      gen,
		pageSize: defaultPageSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("mockoura")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc(collectionPrefix, s.handleCollection)
	mux.HandleFunc("/healthz", s.handleHealth)
}

// envelope mirrors the real API's response shape. next_token is null on the
// final page.
type envelope struct {
	Data      []map[string]any `json:"data"`
	NextToken *string          `json:"next_token"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleCollection handles GET /v2/usercollection/{category} requests.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid bearer token"))
		return
	}

	// Extract path parameter after /v2/usercollection/
	name := strings.TrimPrefix(r.URL.Path, collectionPrefix)
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusNotFound, "not_found", errors.New("unknown collection"))
		return
	}
	cat, err := category.Parse(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}

	start, end, err := parseWindow(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err)
		return
	}

	records := s.gen.Records(cat, start, end)

	offset := 0
	if tok := r.URL.Query().Get("next_token"); tok != "" {
		offset, err = strconv.Atoi(tok)
		if err != nil || offset < 0 || offset > len(records) {
			writeError(w, http.StatusBadRequest, "invalid_next_token", errors.New("malformed continuation token"))
			return
		}
	}

	pageEnd := offset + s.pageSize
	if pageEnd > len(records) {
		pageEnd = len(records)
	}

	env := envelope{Data: records[offset:pageEnd]}
	if env.Data == nil {
		env.Data = []map[string]any{}
	}
	if pageEnd < len(records) {
		tok := strconv.Itoa(pageEnd)
		env.NextToken = &tok
	}

	s.logger.Debug(r.Context(), "serving collection page",
		logger.String("category", cat.String()),
		logger.String("start_date", start.Format(dateLayout)),
		logger.String("end_date", end.Format(dateLayout)),
		logger.Int("offset", offset),
		logger.Int("records", len(env.Data)))

	writeJSON(w, http.StatusOK, env)
}

// handleHealth handles GET /healthz requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// authorized checks the bearer token when one is configured.
func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return false
	}
	return strings.TrimPrefix(auth, prefix) == s.token
}

// parseWindow resolves the requested date window, defaulting to the last
// defaultWindow days ending today.
func parseWindow(startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -defaultWindow)

	var err error
	if endDate != "" {
		end, err = time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end_date; must be YYYY-MM-DD")
		}
		start = end.AddDate(0, 0, -defaultWindow)
	}
	if startDate != "" {
		start, err = time.Parse(dateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start_date; must be YYYY-MM-DD")
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.New("start_date is after end_date")
	}
	return start, end, nil
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
