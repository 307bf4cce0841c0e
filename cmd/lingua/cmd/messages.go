package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/pkg/catalog"
)

func newMakeMessagesCommand(a *app) *cobra.Command {
	var types []string
	cmd := &cobra.Command{
		Use:   "make-messages",
		Short: "Write PO catalogs for every localized value",
		Long: `Collect the msgid language value of every localized field and merge it
into the PO catalog of each configured language below locale_dir.
Existing translations are kept. The catalog of the site is reloaded
afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				selected, err := localizedTypes(site, types)
				if err != nil {
					return err
				}

				msgidLang := site.Resolver().MsgidLanguage()
				var entries []catalog.POEntry
				for _, t := range selected {
					insts, err := site.Store().All(ctx, t)
					if err != nil {
						return err
					}
					for _, inst := range insts {
						entries = append(entries, catalog.Messages(inst, msgidLang)...)
					}
				}

				cfg := site.Config()
				w := catalog.NewWriter(cfg.LocaleDir, site.Resolver(),
					catalog.WithDomain(cfg.CatalogDomain),
					catalog.WithWriterLogger(site.Logger()),
				)
				if err := w.Write(ctx, entries); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d messages written to %s\n", len(entries), cfg.LocaleDir)
				return site.ReloadCatalog(ctx)
			})
		},
	}
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "limit to these types (default: every localized type)")
	return cmd
}

func newPublishCatalogCommand(a *app) *cobra.Command {
	var skipPostgres, skipRedis bool
	cmd := &cobra.Command{
		Use:   "publish-catalog",
		Short: "Push the loaded catalog to PostgreSQL and Redis",
		Long: `Push every translation of the loaded catalog into the catalog_messages
table and the Redis catalog hashes, so sites without the PO files serve
the same translations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				pool, client := site.Pool(), site.Redis()
				if skipPostgres {
					pool = nil
				}
				if skipRedis {
					client = nil
				}
				if pool == nil && client == nil {
					return ErrNoCatalogTarget
				}

				entries := site.Catalog().Current().Entries()
				out := cmd.OutOrStdout()
				if pool != nil {
					if err := catalog.SavePostgres(ctx, pool, entries); err != nil {
						return err
					}
					fmt.Fprintf(out, "%d messages saved to PostgreSQL\n", len(entries))
				}
				if client != nil {
					if err := catalog.PublishRedis(ctx, client, catalog.DefaultRedisPrefix, entries); err != nil {
						return err
					}
					fmt.Fprintf(out, "%d messages published to Redis\n", len(entries))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&skipPostgres, "no-postgres", false, "do not write PostgreSQL")
	cmd.Flags().BoolVar(&skipRedis, "no-redis", false, "do not write Redis")
	return cmd
}
