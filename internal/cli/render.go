package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reachmap/reachmap/pkg/errors"
	"github.com/reachmap/reachmap/pkg/render"
)

// renderCommand creates the render command: DOT/SVG output of the closure.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts   closeOpts
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render <matrix-file>",
		Short: "Render the closure graph as DOT or SVG",
		Long: `Render draws the closure as a node-link diagram. Direct connections are
solid arrows; pairs derived during closure computation are dashed.

DOT output goes to stdout unless --out is given; SVG output defaults to
<matrix-file>.svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = c.Config.Render.Format
			}
			format = strings.ToLower(format)
			if format != "dot" && format != "svg" {
				return errors.New(errors.ErrCodeInvalidFormat, "format must be dot or svg, got %q", format)
			}

			res, err := c.runPipeline(cmd.Context(), args[0], &opts)
			if err != nil {
				return err
			}
			dot := render.ToDOT(res.Matrix.Size(), res.Base, res.Closure)

			if format == "dot" {
				if out == "" {
					fmt.Print(dot)
					return nil
				}
				if err := os.WriteFile(out, []byte(dot), 0644); err != nil {
					return err
				}
				printFile(out)
				return nil
			}

			sp := newSpinner(cmd.Context(), "Rendering SVG...")
			sp.Start()
			svg, err := render.RenderSVG(cmd.Context(), dot)
			sp.Stop()
			if err != nil {
				printError("SVG rendering failed")
				return err
			}

			if out == "" {
				base := filepath.Base(args[0])
				out = strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
			}
			if err := os.WriteFile(out, svg, 0644); err != nil {
				return err
			}
			printSuccess("Rendered %d pairs %s", res.Stats.ClosurePairs, cacheMarker(res.CacheHit))
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot or svg (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "output file (stdout for dot)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even on a cache hit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the closure cache")

	return cmd
}
