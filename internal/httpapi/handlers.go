package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-showif/pkg/api"
	"github.com/goliatone/go-showif/pkg/render"
	"github.com/goliatone/go-showif/pkg/resolvers/jsondoc"
	"github.com/goliatone/go-showif/pkg/uischema"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

// handleEvaluate answers with the verdict of one rule. Error verdicts are
// regular answers and use status 200; only malformed requests fail.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req api.EvaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rule, err := req.CompileRule()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid rule", err)
		return
	}

	doc, err := jsondoc.New(req.Values, jsondoc.WithEnums(req.Enums))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid values", err)
		return
	}

	verdict := visibility.Evaluate(rule, req.FieldPath, doc)
	if verdict.IsError() {
		s.logger.WithFields(map[string]any{
			"trace_id": TraceID(r.Context()),
			"field":    req.FieldPath,
			"reason":   verdict.Reason.String(),
		}).Debug(verdict.Message)
	}

	respondJSON(w, http.StatusOK, api.EvaluateResponse{
		Rule:    expr.Format(rule),
		Verdict: verdict,
	})
}

// handleInspect lays out the posted object. The format comes from the body
// or the "format" query parameter; "hidden" and "rules" toggle render options.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	var req api.InspectRequest
	if err := s.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Object) == 0 {
		respondError(w, r, http.StatusBadRequest, "object is required", nil)
		return
	}

	obj, err := uischema.LoadObject(req.Object, "request")
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "invalid object", err)
		return
	}
	layout := s.inspector.Inspect(obj)

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = strings.ToLower(r.URL.Query().Get("format"))
	}
	if format == "" || format == "json" {
		respondJSON(w, http.StatusOK, api.InspectResponse{Layout: layout})
		return
	}

	if s.renderers == nil {
		respondError(w, r, http.StatusNotAcceptable, "unsupported format", render.ErrRendererNotFound)
		return
	}
	query := r.URL.Query()
	opts := render.RenderOptions{
		ShowHidden: queryBool(query.Get("hidden")),
		ShowRules:  queryBool(query.Get("rules")),
	}
	body, contentType, err := s.renderers.Render(r.Context(), format, layout, opts)
	if err != nil {
		if errors.Is(err, render.ErrRendererNotFound) {
			respondError(w, r, http.StatusNotAcceptable, "unsupported format", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "render failed", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, s.bodyLimit)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func queryBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	response := api.ErrorResponse{
		Error:   message,
		TraceID: TraceID(r.Context()),
	}
	if err != nil {
		response.Details = err.Error()
	}
	respondJSON(w, status, response)
}
