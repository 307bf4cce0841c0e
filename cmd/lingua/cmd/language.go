package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/pkg/l10n"
	"github.com/dmitrymomot/lingua/pkg/model"
)

type languageFlags struct {
	types  []string
	fields []string
	yes    bool
	dryRun bool
}

func (f *languageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.types, "type", "t", nil, "limit to these types (default: every localized type)")
	cmd.Flags().StringSliceVarP(&f.fields, "field", "f", nil, "limit to these localized fields")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "apply without asking")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "list the changes only")
}

func newCopyLanguageCommand(a *app) *cobra.Command {
	var f languageFlags
	cmd := &cobra.Command{
		Use:   "copy-language SOURCE TARGET",
		Short: "Fill empty slots of TARGET with the values of SOURCE",
		Long: `Copy every non-empty value stored for SOURCE into the slot of TARGET
when that slot is empty. Values already stored for TARGET are kept.

Example:
  lingua copy-language en de --type news.article --field title`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				if err := checkLanguages(site, args...); err != nil {
					return err
				}
				return f.apply(ctx, cmd, site, func(insts []*model.Instance) []l10n.Change {
					return l10n.CopyLanguage(insts, args[0], args[1], f.fields...)
				})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newResetLanguageCommand(a *app) *cobra.Command {
	var f languageFlags
	cmd := &cobra.Command{
		Use:   "reset-language LANG",
		Short: "Clear the slots of LANG",
		Long: `Clear every value stored for LANG so it is read from the translation
catalog or the fallback languages again.

Example:
  lingua reset-language de --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSite(cmd, func(ctx context.Context, site *lingua.Site) error {
				if err := checkLanguages(site, args...); err != nil {
					return err
				}
				return f.apply(ctx, cmd, site, func(insts []*model.Instance) []l10n.Change {
					return l10n.ResetLanguage(insts, args[0], f.fields...)
				})
			})
		},
	}
	f.register(cmd)
	return cmd
}

// apply plans changes over every selected type, lists them and, once
// confirmed, writes the touched instances back to the store.
func (f *languageFlags) apply(ctx context.Context, cmd *cobra.Command, site *lingua.Site, plan func([]*model.Instance) []l10n.Change) error {
	types, err := localizedTypes(site, f.types)
	if err != nil {
		return err
	}

	var changes []l10n.Change
	for _, t := range types {
		insts, err := site.Store().All(ctx, t)
		if err != nil {
			return err
		}
		changes = append(changes, plan(insts)...)
	}

	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, "nothing to change")
		return nil
	}
	for _, c := range changes {
		fmt.Fprintln(out, c)
	}
	if f.dryRun {
		return nil
	}
	if !f.yes {
		ok, err := confirm(cmd, fmt.Sprintf("apply %d changes?", len(changes)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "aborted")
			return nil
		}
	}

	touched, err := l10n.Apply(changes)
	if err != nil {
		return err
	}
	if err := site.Store().SaveAll(ctx, touched); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d instances updated\n", len(touched))
	return nil
}

func checkLanguages(site *lingua.Site, langs ...string) error {
	for _, lang := range langs {
		if !site.Resolver().IsConfigured(lang) {
			return fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
		}
	}
	return nil
}

// localizedTypes returns the labelled types, or every type with localized
// fields when labels is empty.
func localizedTypes(site *lingua.Site, labels []string) ([]*model.Type, error) {
	if len(labels) > 0 {
		out := make([]*model.Type, 0, len(labels))
		for _, label := range labels {
			t, err := site.Type(label)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	}

	var out []*model.Type
	for _, t := range site.Registry().Types() {
		if len(t.LocalizedFields()) > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}
