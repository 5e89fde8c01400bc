package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-showif"
	"github.com/goliatone/go-showif/pkg/client"
	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/render"
)

type inspectOptions struct {
	source     sourceFlags
	format     string
	showHidden bool
	showRules  bool
	title      string
	width      int
	server     string
}

func newInspectCmd(root *rootFlags) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Lay out an object, hiding fields whose rules are not met",
		Example: `  showif inspect --demo
  showif inspect --object spawner.yaml --overlay ui/ --format html
  showif inspect --openapi api.yaml --schema Spawner --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderOpts := render.RenderOptions{
				ShowHidden: opts.showHidden,
				ShowRules:  opts.showRules,
				Title:      opts.title,
				Width:      opts.width,
			}

			if opts.server != "" {
				return opts.remote(cmd, out)
			}

			obj, err := opts.source.load(cmd.Context())
			if err != nil {
				return err
			}
			layout := showif.Inspect(obj, inspector.WithLogger(logger))
			logger.WithFields(map[string]any{
				"object":   obj.Name,
				"rows":     len(layout.Rows),
				"warnings": len(layout.Warnings()),
			}).Debug("object inspected")

			if opts.format == "json" {
				return writeLayout(out, layout)
			}
			registry, err := showif.NewRegistry(out)
			if err != nil {
				return err
			}
			body, _, err := registry.Render(cmd.Context(), opts.format, layout, renderOpts)
			if err != nil {
				return err
			}
			_, err = out.Write(body)
			return err
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, html or json")
	cmd.Flags().BoolVar(&opts.showHidden, "show-hidden", false, "Include hidden fields in the output")
	cmd.Flags().BoolVar(&opts.showRules, "show-rules", false, "Print each field's rule")
	cmd.Flags().StringVar(&opts.title, "title", "", "Override the layout title")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Wrap warning banners at this width")
	cmd.Flags().StringVar(&opts.server, "server", "", "Inspect on a running server at this URL (requires --object)")

	return cmd
}

func (o *inspectOptions) remote(cmd *cobra.Command, out io.Writer) error {
	object, err := o.source.objectJSON()
	if err != nil {
		return err
	}
	c := client.New(o.server)
	if o.format == "json" {
		layout, err := c.Inspect(cmd.Context(), object)
		if err != nil {
			return err
		}
		return writeLayout(out, layout)
	}
	body, _, err := c.Render(cmd.Context(), object, client.RenderParams{
		Format:     o.format,
		ShowHidden: o.showHidden,
		ShowRules:  o.showRules,
	})
	if err != nil {
		return err
	}
	_, err = out.Write(body)
	return err
}

func writeLayout(w io.Writer, layout inspector.Layout) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(layout); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}
