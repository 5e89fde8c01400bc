package inspector

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-showif/internal/logging"
	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

// RuleSelector picks the rule that decides a field's visibility. It reports
// false when the field should be treated as unconditional.
type RuleSelector func(field model.Field) (visibility.Rule, bool)

// FirstRule selects the first attached rule.
func FirstRule(field model.Field) (visibility.Rule, bool) {
	if len(field.Rules) == 0 {
		return visibility.Rule{}, false
	}
	return field.Rules[0], true
}

// Option customises the inspector.
type Option func(*Inspector)

// WithEvaluator swaps the evaluator. Nil keeps the default.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(i *Inspector) {
		if evaluator != nil {
			i.evaluator = evaluator
		}
	}
}

// WithRuleSelector swaps how a rule is picked from a field's rule list.
func WithRuleSelector(selector RuleSelector) Option {
	return func(i *Inspector) {
		if selector != nil {
			i.selector = selector
		}
	}
}

// WithMetrics overrides the row heights.
func WithMetrics(metrics Metrics) Option {
	return func(i *Inspector) {
		i.metrics = metrics
	}
}

// WithLogger attaches a logger. Error verdicts are written at debug level.
func WithLogger(logger *logging.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// Inspector is immutable after New and safe for concurrent use, as long as
// the inspected objects are not mutated during Inspect.
type Inspector struct {
	evaluator visibility.Evaluator
	selector  RuleSelector
	metrics   Metrics
	logger    *logging.Logger
}

// New constructs an Inspector with the default evaluator, the FirstRule
// selector and DefaultMetrics.
func New(options ...Option) *Inspector {
	i := &Inspector{
		evaluator: visibility.Default,
		selector:  FirstRule,
		metrics:   DefaultMetrics(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Inspect walks obj in tree order and builds its layout. A nil object yields
// an empty layout.
func (i *Inspector) Inspect(obj *model.Object) Layout {
	layout := Layout{Metrics: i.metrics}
	if obj == nil {
		return layout
	}
	layout.Object = obj.Name
	layout.Title = obj.Metadata["title"]
	if layout.Title == "" {
		layout.Title = obj.Name
	}

	resolver := model.NewResolver(obj)
	_ = obj.Walk(func(path string, depth int, field *model.Field) error {
		row := i.inspectField(obj.Name, path, depth, *field, resolver)
		layout.Rows = append(layout.Rows, row)
		if row.Hidden() {
			return model.SkipChildren
		}
		return nil
	})
	layout.Total = layout.Height()
	return layout
}

func (i *Inspector) inspectField(object, path string, depth int, field model.Field, resolver visibility.FieldResolver) Row {
	row := Row{
		Path:        path,
		Label:       rowLabel(path, field),
		Description: field.Description,
		Type:        field.Type,
		Depth:       depth,
		Value:       DisplayValue(field),
	}

	verdict := visibility.Visible()
	if rule, ok := i.selector(field); ok {
		row.Rule = expr.Format(rule)
		verdict = i.evaluator.Evaluate(rule, path, resolver)
	}
	row.State = verdict.State

	switch verdict.State {
	case visibility.StateHidden:
		row.Height = 0
	case visibility.StateError:
		row.Reason = verdict.Reason
		row.Warning = verdict.Message
		row.Height = i.metrics.BannerHeight + i.metrics.Spacing + i.metrics.LineHeight
		i.logger.WithFields(map[string]any{
			"object": object,
			"field":  path,
			"reason": verdict.Reason.String(),
			"rule":   row.Rule,
		}).Debug(verdict.Message)
	default:
		row.Height = i.metrics.LineHeight
	}
	return row
}

func rowLabel(path string, field model.Field) string {
	if label := field.DisplayLabel(); label != "" {
		return label
	}
	segments, err := model.ParsePath(path)
	if err != nil || len(segments) == 0 {
		return path
	}
	last := segments[len(segments)-1]
	if len(last.Indices) == 0 {
		return path
	}
	return "Element " + strconv.Itoa(last.Indices[len(last.Indices)-1])
}

// DisplayValue formats a field value for display. Enum values show their
// label; containers show their item count.
func DisplayValue(field model.Field) string {
	switch field.Type {
	case model.FieldTypeObject:
		return ""
	case model.FieldTypeArray:
		return fmt.Sprintf("%d items", len(field.Items))
	case model.FieldTypeEnum:
		if name, ok := model.ResolveField(field).EnumName(); ok {
			return name
		}
		if field.Value == nil {
			return ""
		}
		return fmt.Sprint(field.Value)
	case model.FieldTypeNumber:
		return strconv.FormatFloat(model.ResolveField(field).Float, 'g', -1, 64)
	default:
		resolved := model.ResolveField(field)
		switch resolved.Kind {
		case visibility.KindBool:
			return strconv.FormatBool(resolved.Bool)
		case visibility.KindInt:
			return strconv.FormatInt(resolved.Int, 10)
		default:
			return resolved.String
		}
	}
}
