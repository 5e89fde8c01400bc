package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-showif/pkg/api"
	"github.com/goliatone/go-showif/pkg/client"
	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/resolvers/jsondoc"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

// errVerdict marks an evaluation that produced an error verdict. The verdict
// is printed before the command fails.
var errVerdict = errors.New("rule evaluation failed")

type evalOptions struct {
	source     sourceFlags
	field      string
	values     string
	valuesFile string
	sets       []string
	enums      []string
	server     string
	jsonOutput bool
}

func newEvalCmd(root *rootFlags) *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval RULE",
		Short: "Evaluate one rule against a document or an object",
		Long:  `Evaluate a rule such as "mode:enum == Burst" for the field named by --field.

The compared field is read from an object (--object, --openapi, --demo) or
from a JSON document given with --values or --values-file. --set overrides
document values and --enum declares enum labels for document paths.`,
		Example: `  showif eval "mode:enum != Off" --field spawnRate --demo
  showif eval useDelay --field 'waves[0].delay' --values '{"waves":[{"useDelay":true}]}'
  showif eval "level:int >= 3" --field reward --set level=4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}

			rule, err := expr.Parse(args[0])
			if err != nil {
				return err
			}

			var verdict visibility.Verdict
			if opts.server != "" {
				verdict, err = opts.remote(cmd, rule)
			} else {
				verdict, err = opts.local(cmd, rule)
			}
			if err != nil {
				return err
			}

			logger.WithFields(map[string]any{
				"rule":  expr.Format(rule),
				"field": opts.field,
				"state": verdict.State.String(),
			}).Debug("rule evaluated")

			if err := writeVerdict(cmd.OutOrStdout(), rule, verdict, opts.jsonOutput); err != nil {
				return err
			}
			if verdict.IsError() {
				return fmt.Errorf("%w: %s", errVerdict, verdict.Reason)
			}
			return nil
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.field, "field", "", "Path of the field the rule is attached to")
	cmd.Flags().StringVar(&opts.values, "values", "", "JSON document to read values from")
	cmd.Flags().StringVar(&opts.valuesFile, "values-file", "", "File holding the JSON document")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Override a value (path=value); repeatable")
	cmd.Flags().StringArrayVar(&opts.enums, "enum", nil, "Declare enum labels (path=A,B,C); repeatable")
	cmd.Flags().StringVar(&opts.server, "server", "", "Evaluate on a running server at this URL")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the verdict as JSON")
	cmd.MarkFlagsMutuallyExclusive("values", "values-file")
	cmd.MarkFlagsMutuallyExclusive("server", "object")
	cmd.MarkFlagsMutuallyExclusive("server", "openapi")
	cmd.MarkFlagsMutuallyExclusive("server", "demo")

	return cmd
}

func (o *evalOptions) local(cmd *cobra.Command, rule visibility.Rule) (visibility.Verdict, error) {
	if o.source.set() {
		obj, err := o.source.load(cmd.Context())
		if err != nil {
			return visibility.Verdict{}, err
		}
		for _, assignment := range o.sets {
			path, raw, err := splitAssignment(assignment)
			if err != nil {
				return visibility.Verdict{}, err
			}
			if err := setObjectValue(obj, path, raw); err != nil {
				return visibility.Verdict{}, err
			}
		}
		return visibility.Evaluate(rule, o.field, model.NewResolver(obj)), nil
	}

	doc, err := o.document()
	if err != nil {
		return visibility.Verdict{}, err
	}
	return visibility.Evaluate(rule, o.field, doc), nil
}

func (o *evalOptions) remote(cmd *cobra.Command, rule visibility.Rule) (visibility.Verdict, error) {
	doc, err := o.document()
	if err != nil {
		return visibility.Verdict{}, err
	}
	enums, err := parseEnums(o.enums)
	if err != nil {
		return visibility.Verdict{}, err
	}
	resp, err := client.New(o.server).Evaluate(cmd.Context(), api.EvaluateRequest{
		Rule:      expr.Format(rule),
		FieldPath: o.field,
		Values:    doc.Raw(),
		Enums:     enums,
	})
	if err != nil {
		return visibility.Verdict{}, err
	}
	return resp.Verdict, nil
}

// document builds the JSON document from --values or --values-file and
// applies every --set on top.
func (o *evalOptions) document() (*jsondoc.Document, error) {
	data := []byte(o.values)
	if o.valuesFile != "" {
		raw, err := os.ReadFile(o.valuesFile)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		data = raw
	}

	enums, err := parseEnums(o.enums)
	if err != nil {
		return nil, err
	}
	doc, err := jsondoc.New(data, jsondoc.WithEnums(enums))
	if err != nil {
		return nil, err
	}

	for _, assignment := range o.sets {
		path, raw, err := splitAssignment(assignment)
		if err != nil {
			return nil, err
		}
		if err := doc.Set(path, parseScalar(raw)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func setObjectValue(obj *model.Object, path, raw string) error {
	field, err := obj.Lookup(path)
	if err != nil {
		return err
	}
	value := parseScalar(raw)
	if field.Type == model.FieldTypeString {
		value = raw
	}
	return obj.SetValue(path, value)
}

func splitAssignment(raw string) (string, string, error) {
	path, value, ok := strings.Cut(raw, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return "", "", fmt.Errorf("invalid assignment %q: want path=value", raw)
	}
	return path, value, nil
}

func parseEnums(entries []string) (map[string][]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	enums := make(map[string][]string, len(entries))
	for _, entry := range entries {
		path, list, err := splitAssignment(entry)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, name := range strings.Split(list, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		enums[path] = names
	}
	return enums, nil
}

// parseScalar reads a command line value as a bool, integer, float or string,
// in that order.
func parseScalar(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func writeVerdict(w io.Writer, rule visibility.Rule, verdict visibility.Verdict, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(api.EvaluateResponse{Rule: expr.Format(rule), Verdict: verdict})
	}
	_, err := fmt.Fprintln(w, verdict.String())
	return err
}
