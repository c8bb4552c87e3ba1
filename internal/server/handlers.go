package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/internal/tracing"
	"github.com/harun/rcrm/pkg/orchestrator"
	"github.com/harun/rcrm/pkg/toolregistry"
	"go.opentelemetry.io/otel/attribute"
)

const maxBodyBytes = 1 << 20

type queryRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type planRequest struct {
	Query string `json:"query"`
	Tool  string `json:"tool,omitempty"`
}

type healthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Tools     int     `json:"tools"`
	Timestamp int64   `json:"timestamp"`
}

type toolsResponse struct {
	Tools []toolregistry.ToolMetadata `json:"tools"`
	Count int                         `json:"count"`
}

type relevantResponse struct {
	Tools []toolregistry.ScoredTool `json:"tools"`
}

type planResponse struct {
	Steps                []orchestrator.ExecutionStep `json:"steps"`
	RequiresConfirmation bool                         `json:"requires_confirmation"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.startTime).Seconds(),
		Tools:     len(s.catalog.List()),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")

	var tools []toolregistry.ToolMetadata
	if raw == "" {
		tools = s.catalog.List()
	} else {
		category, err := toolregistry.ParseCategory(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		tools = s.catalog.ToolsByCategory(category)
	}

	writeJSON(w, http.StatusOK, toolsResponse{Tools: tools, Count: len(tools)})
}

func (s *Server) handleRelevant(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Limit == 0 {
		req.Limit = s.options.DefaultLimit
	}

	_, span := tracing.StartSpan(r.Context(), "registry.FindRelevant",
		attribute.Int("limit", req.Limit))
	tools := s.catalog.FindRelevantScored(req.Query, req.Limit)
	span.SetAttributes(attribute.Int("matches", len(tools)))
	span.End()

	writeJSON(w, http.StatusOK, relevantResponse{Tools: tools})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}

	_, span := tracing.StartSpan(r.Context(), "orchestrator.GetToolSuggestions")
	defer span.End()

	suggestions, err := s.planner.GetToolSuggestions(req.Query)
	if err != nil {
		span.RecordError(err)
		s.writePlannerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.decode(w, r, &req) {
		return
	}

	_, span := tracing.StartSpan(r.Context(), "orchestrator.CreateExecutionPlan",
		attribute.String("tool", req.Tool))
	defer span.End()

	steps, err := s.planner.CreateExecutionPlan(req.Query, req.Tool)
	if err != nil {
		span.RecordError(err)
		s.writePlannerError(w, r, err)
		return
	}

	resp := planResponse{Steps: steps}
	for _, step := range steps {
		if step.RequiresConfirmation {
			resp.RequiresConfirmation = true
			break
		}
	}
	span.SetAttributes(attribute.Int("steps", len(steps)))

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.planner.AnalyzeQueryIntent(req.Query))
}

// decode reads a JSON body into v, answering 400 itself on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) writePlannerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, toolregistry.ErrToolNotFound) {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	s.writeError(w, r, http.StatusInternalServerError, err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := tracing.LoggerFromContext(r.Context(), s.logger)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Request failed")

	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		RequestID: tracing.GetRequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
