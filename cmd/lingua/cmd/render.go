package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/storage"
	"github.com/dmitrymomot/lingua/pkg/xslt"
)

type renderFlags struct {
	params    map[string]string
	lang      string
	revision  string
	output    string
	key       string
	published bool
	upload    bool
}

func newRenderCommand(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render STYLESHEET TYPE PK",
		Short: "Render one instance through an XSLT stylesheet",
		Long: `Render one instance through an XSLT stylesheet found in the stylesheet
directories. The stylesheet receives the language as the "language"
parameter; --param adds string parameters.

With --upload the document is stored in object storage under --key, or
under {lang}/{type}/{pk}.html when no key is given.

Examples:
  lingua render article.xsl news.article 1 --lang de
  lingua render article.xsl news.article 1 --revision r42 -o preview.html
  lingua render article.xsl news.article 1 --published --upload`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				return f.run(ctx, cmd, site, args[0], args[1], args[2])
			})
		},
	}
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "language (default: the default language)")
	cmd.Flags().StringVar(&f.revision, "revision", "", "overlay the draft with this revision id")
	cmd.Flags().BoolVar(&f.published, "published", false, "drop unpublished objects")
	cmd.Flags().StringToStringVar(&f.params, "param", nil, "stylesheet string parameters (name=value)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the document to this file")
	cmd.Flags().BoolVar(&f.upload, "upload", false, "store the document in object storage")
	cmd.Flags().StringVar(&f.key, "key", "", "object key for --upload")
	cmd.MarkFlagsMutuallyExclusive("revision", "published")
	return cmd
}

func (f *renderFlags) run(ctx context.Context, cmd *cobra.Command, site *lingua.Site, stylesheet, label, pk string) error {
	ctx, err := languageContext(ctx, site, f.lang)
	if err != nil {
		return err
	}
	inst, err := site.Instance(ctx, label, pk)
	if err != nil {
		return err
	}

	params := make(xslt.Params, len(f.params))
	for k, v := range f.params {
		params[k] = xslt.PrepareStringParam(v)
	}
	doc, err := site.Render(ctx, stylesheet, []*model.Instance{inst}, lingua.RenderOptions{
		Params:    params,
		Revision:  f.revision,
		Published: f.published,
	})
	if err != nil {
		return err
	}

	if f.upload {
		if site.Storage() == nil {
			return ErrNoStorage
		}
		key := f.key
		if key == "" {
			key = storage.Key(site.Resolver().Active(ctx), label, pk+".html")
		}
		if err := site.Storage().Put(ctx, key, bytes.NewReader(doc), http.DetectContentType(doc)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "uploaded %s\n", key)
	}

	switch {
	case f.output != "":
		return os.WriteFile(f.output, doc, 0o644)
	case f.upload:
		return nil
	}
	_, err = cmd.OutOrStdout().Write(doc)
	return err
}
