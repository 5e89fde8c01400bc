// Package api holds the JSON wire types shared by the HTTP server and the
// Go client.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/uischema"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

const (
	HealthPath   = "/api/v1/health"
	EvaluatePath = "/api/v1/evaluate"
	InspectPath  = "/api/v1/inspect"

	// TraceHeader carries the request trace id in both directions.
	TraceHeader = "X-Trace-ID"
)

// ErrInvalidRequest is returned for requests that cannot be evaluated.
var ErrInvalidRequest = errors.New("api: invalid request")

// EvaluateRequest asks for the verdict of one rule. Exactly one of Rule and
// RuleConfig must be set. Values is the JSON document the compared field is
// resolved from; Enums declares name tables for enum paths in it.
type EvaluateRequest struct {
	Rule       string               `json:"rule,omitempty"`
	RuleConfig *uischema.RuleConfig `json:"ruleConfig,omitempty"`
	FieldPath  string               `json:"fieldPath"`
	Values     json.RawMessage      `json:"values,omitempty"`
	Enums      map[string][]string  `json:"enums,omitempty"`
}

// CompileRule returns the rule the request describes.
func (r EvaluateRequest) CompileRule() (visibility.Rule, error) {
	hasText := strings.TrimSpace(r.Rule) != ""
	switch {
	case hasText && r.RuleConfig != nil:
		return visibility.Rule{}, fmt.Errorf("%w: rule and ruleConfig are mutually exclusive", ErrInvalidRequest)
	case hasText:
		return expr.Parse(r.Rule)
	case r.RuleConfig != nil:
		return r.RuleConfig.Rule()
	default:
		return visibility.Rule{}, fmt.Errorf("%w: rule or ruleConfig is required", ErrInvalidRequest)
	}
}

// EvaluateResponse is the verdict plus the canonical text of the rule that
// was evaluated.
type EvaluateResponse struct {
	Rule    string             `json:"rule"`
	Verdict visibility.Verdict `json:"verdict"`
}

// InspectRequest carries an object file (JSON form) to inspect.
type InspectRequest struct {
	Object json.RawMessage `json:"object"`
	// Format selects the response body: "json" (default), "text" or "html".
	Format string `json:"format,omitempty"`
}

// InspectResponse wraps the layout for JSON responses.
type InspectResponse struct {
	Layout inspector.Layout `json:"layout"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}
