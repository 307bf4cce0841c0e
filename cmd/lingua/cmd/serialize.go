package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
)

func newSerializeCommand(a *app) *cobra.Command {
	var (
		lang   string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "serialize TYPE [PK...]",
		Short: "Print the XML document of instances",
		Long: `Print the XML document of the given instances of TYPE, or of every
instance when no primary key is given.

Examples:
  lingua serialize news.article
  lingua serialize news.article 1 2 --lang de --fields title,body`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				ctx, err := languageContext(ctx, site, lang)
				if err != nil {
					return err
				}
				insts, err := instances(ctx, site, args[0], args[1:])
				if err != nil {
					return err
				}

				ser := site.Serializer()
				if len(fields) > 0 {
					ser = xmltree.New(
						xmltree.WithLogger(site.Logger()),
						xmltree.WithMaxDepth(site.Config().MaxDepth),
						xmltree.WithFields(fields...),
					)
				}
				doc, err := ser.Serialize(ctx, insts)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (default: the default language)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "serialize only these fields")
	return cmd
}

// instances returns the instances of the labelled type with the given
// primary keys, or all of them when pks is empty.
func instances(ctx context.Context, site *lingua.Site, label string, pks []string) ([]*model.Instance, error) {
	if len(pks) == 0 {
		t, err := site.Type(label)
		if err != nil {
			return nil, err
		}
		return site.Store().All(ctx, t)
	}
	out := make([]*model.Instance, 0, len(pks))
	for _, pk := range pks {
		inst, err := site.Instance(ctx, label, pk)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}
