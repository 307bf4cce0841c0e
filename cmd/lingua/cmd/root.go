package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/middlewares"
	"github.com/dmitrymomot/lingua/pkg/config"
	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/logger"
)

// Execute runs the lingua command line with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns the lingua command tree. opts are applied to every
// site a command opens.
func NewRootCommand(opts ...lingua.Option) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "lingua",
		Short: "Localized content as XML and XSLT documents",
		Long: `lingua serves the content types of a site as XML in every configured
language and renders them through XSLT stylesheets.

Every command reads the site file given with --config.

Commands:
  serve            - HTTP server for XML and rendered documents
  serialize        - print the XML of instances
  render           - render one instance, optionally into object storage
  copy-language    - fill empty slots of one language from another
  reset-language   - clear the slots of one language
  make-messages    - write PO catalogs for every localized value
  publish-catalog  - push the loaded catalog to PostgreSQL and Redis
  load-fixtures    - import a fixture file into the store`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.config, "config", "c", "site.yaml", "site file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(
		newServeCommand(a),
		newSerializeCommand(a),
		newRenderCommand(a),
		newCopyLanguageCommand(a),
		newResetLanguageCommand(a),
		newMakeMessagesCommand(a),
		newPublishCatalogCommand(a),
		newLoadFixturesCommand(a),
	)
	return root
}

type app struct {
	config  string
	opts    []lingua.Option
	verbose bool
}

// open builds the site of the configured site file. Logs go to the error
// stream of cmd so command output stays clean.
func (a *app) open(cmd *cobra.Command) (*lingua.Site, error) {
	cfg, err := config.Load(a.config)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Sentry, cmd.ErrOrStderr(), a.verbose)
	opts := append([]lingua.Option{lingua.WithLogger(log)}, a.opts...)
	return lingua.New(cmd.Context(), cfg, opts...)
}

func newLogger(cfg logger.SentryConfig, w io.Writer, verbose bool) *slog.Logger {
	extractors := append(logger.DefaultExtractors(), middlewares.RequestIDExtractor())
	if verbose && cfg.DSN == "" {
		return logger.NewWithWriter(w, slog.LevelDebug, extractors...)
	}
	if cfg.Output == nil {
		cfg.Output = w
	}
	return logger.NewWithSentry(cfg, extractors...)
}

// confirm asks a yes/no question on the streams of cmd. Anything but y or
// yes is a no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// withSite opens the site, runs fn and closes the site again.
func (a *app) withSite(cmd *cobra.Command, fn func(ctx context.Context, site *lingua.Site) error) error {
	site, err := a.open(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return errors.Join(fn(ctx, site), site.Close(context.WithoutCancel(ctx)))
}

// languageContext marks lang as the active language of the command. An
// empty lang selects the default language.
func languageContext(ctx context.Context, site *lingua.Site, lang string) (context.Context, error) {
	if lang == "" {
		return ctx, nil
	}
	if !site.Resolver().IsConfigured(lang) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}
	return langcode.WithContext(ctx, lang), nil
}
