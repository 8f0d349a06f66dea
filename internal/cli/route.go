package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reachmap/reachmap/pkg/pipeline"
	"github.com/reachmap/reachmap/pkg/relation"
)

// routeCommand creates the route command: a single-pair reachability query.
func (c *CLI) routeCommand() *cobra.Command {
	var opts closeOpts

	cmd := &cobra.Command{
		Use:   "route <matrix-file> <source,destination>",
		Short: "Find a route between two locations",
		Long: `Route computes the transitive closure of the matrix (cached between runs)
and answers a single-pair reachability query. When a route exists, one
concrete path over direct connections is reconstructed and printed.

A missing route is a normal outcome, not an error: the command reports
"no route" and still honors --print and --output.

Example:
  reachmap route cities.txt 0,2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst, err := pipeline.ParseRoute(args[1])
			if err != nil {
				return err
			}

			res, err := c.runPipeline(cmd.Context(), args[0], &opts)
			if err != nil {
				return err
			}

			path, err := pipeline.Route(res, src, dst)
			switch {
			case errors.Is(err, relation.ErrNoRoute):
				printWarning("No route exists from %d to %d", src, dst)
			case err != nil:
				return err
			default:
				printSuccess("Route found: %s", styleValue.Render(path.String()))
				printDetail("%d hops", len(path)-1)
			}

			// A requested closure print still happens on a missing route.
			fmt.Println()
			return c.report(res, args[0], &opts)
		},
	}

	opts.register(cmd)
	return cmd
}
