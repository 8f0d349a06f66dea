package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reachmap/reachmap/pkg/pipeline"
	"github.com/reachmap/reachmap/pkg/render"
)

// closeOpts holds the flags shared by the close and route commands.
type closeOpts struct {
	print   bool // print the R* table to the console
	output  bool // write the R* table to out-<file>.txt
	refresh bool // bypass the closure cache
	noCache bool // disable the cache entirely
}

func (o *closeOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.print, "print", "p", false, "print the transitive closure to the console")
	cmd.Flags().BoolVarP(&o.output, "output", "o", false, "write the transitive closure to out-<file>.txt")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even on a cache hit")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the closure cache")
}

// closeCommand creates the close command: compute and report the closure.
func (c *CLI) closeCommand() *cobra.Command {
	var opts closeOpts

	cmd := &cobra.Command{
		Use:   "close <matrix-file>",
		Short: "Compute the transitive closure of a route matrix",
		Long: `Close reads an adjacency matrix, prints the neighbor table, and computes
the transitive closure of its connection relation.

The input file starts with the dimension N followed by N rows of N
space-separated 0/1 cells:

  3
  0 1 0
  0 0 1
  0 0 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.runPipeline(cmd.Context(), args[0], &opts)
			if err != nil {
				return err
			}
			return c.report(res, args[0], &opts)
		},
	}

	opts.register(cmd)
	return cmd
}

// runPipeline executes the pipeline with a spinner and completion logging.
func (c *CLI) runPipeline(ctx context.Context, path string, opts *closeOpts) (*pipeline.Result, error) {
	runner := c.newRunner(opts.noCache)
	defer runner.Cache.Close()

	sp := newSpinner(ctx, "Computing closure...")
	sp.Start()
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{MatrixPath: path, Refresh: opts.refresh})
	sp.Stop()
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Closed %d base pairs into %d pairs", res.Stats.BasePairs, res.Stats.ClosurePairs))
	return res, nil
}

// report prints the neighbor table and the requested closure outputs.
// The neighbor table always prints, matching the legacy tool.
func (c *CLI) report(res *pipeline.Result, inputPath string, opts *closeOpts) error {
	fmt.Print(res.Matrix.String())
	fmt.Println()

	if opts.print {
		if err := render.WriteTable(os.Stdout, res.Closure); err != nil {
			return err
		}
		fmt.Println()
	}

	if opts.output {
		outPath := render.OutputPath(inputPath)
		if err := render.WriteTableFile(res.Closure, outPath); err != nil {
			return err
		}
		printInfo("Saved closure table")
		printFile(outPath)
	}

	printSuccess("%d pairs in closure %s", res.Stats.ClosurePairs, cacheMarker(res.CacheHit))
	return nil
}
