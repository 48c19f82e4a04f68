package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sprite-ai/commitlint-core/internal/analysis"
	"github.com/sprite-ai/commitlint-core/internal/classify"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/diff"
	"github.com/sprite-ai/commitlint-core/internal/engine"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/report"
	"github.com/sprite-ai/commitlint-core/internal/scope"
)

const maxBatchItems = 1000

// --- Health ---

type healthResponse struct {
	Status string   `json:"status"`
	Scopes []string `json:"scopes"`
	Types  []string `json:"types"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	scopes := s.engine.Registry().Scopes()
	if scopes == nil {
		scopes = []string{}
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Scopes: scopes,
		Types:  s.engine.AllowedTypes(),
	})
}

// --- Validate ---

type messageRequest struct {
	Message string                `json:"message"`
	Meta    *model.ChangeMetadata `json:"meta,omitempty"`
	Diff    string                `json:"diff,omitempty"`
}

type validateRequest struct {
	messageRequest
	Format string `json:"format,omitempty"`
}

type validateResponse struct {
	RequestID      string             `json:"request_id"`
	Status         model.Status       `json:"status"`
	Summary        string             `json:"summary"`
	Findings       []analysis.Finding `json:"findings"`
	Classification classify.Result    `json:"classification"`
	Scope          scope.Verdict      `json:"scope"`
	Rendered       string             `json:"rendered,omitempty"`
}

// metadata returns the request metadata, deriving it from the diff when given.
func (req messageRequest) metadata() (*model.ChangeMetadata, error) {
	if req.Diff == "" {
		return req.Meta, nil
	}
	if req.Meta != nil {
		return nil, errors.New("meta and diff are mutually exclusive")
	}
	return diff.ParseMetadata(req.Diff)
}

// analyze runs the engine and writes an error response on failure.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, req messageRequest) (*engine.Result, bool) {
	meta, err := req.metadata()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "", err.Error())
		return nil, false
	}

	res, err := s.engine.Analyze(req.Message, meta)
	if err != nil {
		var pe *commit.ParseError
		if errors.As(err, &pe) {
			s.writeError(w, http.StatusUnprocessableEntity, string(pe.Code), err.Error())
			return nil, false
		}
		s.logger.Error("analyze failed", zap.String("request_id", requestID(r.Context())), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "", "internal error")
		return nil, false
	}
	return res, true
}

func decodeError(err error) string {
	if errors.Is(err, io.EOF) {
		return "invalid request: empty body"
	}
	return "invalid request: " + err.Error()
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "", decodeError(err))
		return
	}

	target := report.TargetJSON
	if req.Format != "" {
		t, err := report.ParseTarget(req.Format)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "", err.Error())
			return
		}
		target = t
	}

	res, ok := s.analyze(w, r, req.messageRequest)
	if !ok {
		return
	}

	resp := validateResponse{
		RequestID:      requestID(r.Context()),
		Status:         res.Report.Status,
		Summary:        res.Report.Summary(),
		Findings:       res.Report.Findings,
		Classification: res.Classification,
		Scope:          res.Scope,
	}
	if resp.Findings == nil {
		resp.Findings = []analysis.Finding{}
	}
	if target != report.TargetJSON {
		rendered, err := report.Format(res.Report, target)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "", err.Error())
			return
		}
		resp.Rendered = rendered
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// --- Parse ---

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "", decodeError(err))
		return
	}

	res, ok := s.analyze(w, r, req)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, res.View())
}

// --- Batch ---

type batchRequest struct {
	Items []engine.Item `json:"items"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "", decodeError(err))
		return
	}
	if len(req.Items) == 0 {
		s.writeError(w, http.StatusBadRequest, "", "items is required")
		return
	}
	if len(req.Items) > maxBatchItems {
		s.writeError(w, http.StatusBadRequest, "", fmt.Sprintf("at most %d items per batch", maxBatchItems))
		return
	}
	for i := range req.Items {
		if req.Items[i].ID == "" {
			req.Items[i].ID = fmt.Sprintf("%d", i+1)
		}
	}

	entries := s.engine.Batch(r.Context(), req.Items)
	out, err := report.FormatBatch(engine.Reports(entries), report.TargetJSON)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		s.logger.Warn("write batch response", zap.Error(err))
	}
}
