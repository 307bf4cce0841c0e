package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server on the listen address of the site file.

Routes:
  GET /health/live
  GET /health/ready
  GET [/{lang}]/xml/{type}[/{pk}]
  GET [/{lang}]/render/{stylesheet}/{type}/{pk}

The server stops gracefully on SIGINT and SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				return site.Serve(ctx)
			})
		},
	}
}
