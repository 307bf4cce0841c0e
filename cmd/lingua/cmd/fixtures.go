package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
)

func newLoadFixturesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load-fixtures FILE...",
		Short: "Import fixture files into the store",
		Long: `Import YAML or JSON fixture files into the store of the site. Records
with a revision become draft snapshots.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				for _, path := range args {
					n, err := site.ImportFixtures(ctx, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d objects loaded\n", path, n)
				}
				return nil
			})
		},
	}
}
