package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/renderers/tui"
	"github.com/goliatone/go-showif/pkg/resolvers/jsondoc"
)

var errNotInteractive = errors.New("edit needs an interactive terminal on stdin")

// newPromptDriver is swapped in tests.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

type editOptions struct {
	source sourceFlags
	output string
}

func newEditCmd(root *rootFlags) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Prompt for every visible field and print the resulting values",
		Long:  `Walk the object field by field, asking only for fields whose rules are
met. Answers are applied immediately, so later prompts follow earlier ones.
The final values are printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !readerIsTerminal(cmd.InOrStdin()) {
				return errNotInteractive
			}
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}

			obj, err := opts.source.load(cmd.Context())
			if err != nil {
				return err
			}

			editor := tui.New(
				tui.WithPromptDriver(newPromptDriver(cmd.ErrOrStderr())),
				tui.WithInspector(inspector.New(inspector.WithLogger(logger))),
				tui.WithLogger(logger),
			)
			if err := editor.Edit(cmd.Context(), obj); err != nil {
				return err
			}

			doc, err := jsondoc.FromObject(obj)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), doc.Raw())
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the values to this file instead of stdout")

	return cmd
}

func (o *editOptions) write(stdout io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	data := buf.Bytes()

	if o.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(o.output, data, 0o644); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	fmt.Fprintf(stdout, "Values written to %s\n", o.output)
	return nil
}

func readerIsTerminal(r io.Reader) bool {
	if file, ok := r.(*os.File); ok {
		return isTerminal(int(file.Fd()))
	}
	return false
}
