package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// WithJSONDir loads translations from JSON files in fsys.
// File convention: {lang}/{domain}.json
//
// Example structure:
//
//	en/messages.json
//	de/messages.json
func WithJSONDir(fsys fs.FS) Option {
	return func(c *Catalog) error {
		return loadDir(c, fsys, []string{".json"}, json.Unmarshal)
	}
}

// WithYAMLDir loads translations from YAML files in fsys.
// File convention: {lang}/{domain}.yaml or {lang}/{domain}.yml
func WithYAMLDir(fsys fs.FS) Option {
	return func(c *Catalog) error {
		return loadDir(c, fsys, []string{".yaml", ".yml"}, yaml.Unmarshal)
	}
}

// WithTOMLDir loads translations from TOML files in fsys.
// File convention: {lang}/{domain}.toml
func WithTOMLDir(fsys fs.FS) Option {
	return func(c *Catalog) error {
		return loadDir(c, fsys, []string{".toml"}, toml.Unmarshal)
	}
}

// WithPODir loads gettext catalogs from fsys. Both the gettext layout
// {locale}/LC_MESSAGES/{domain}.po and the flat layout {lang}/{domain}.po are
// accepted. Locale names are converted to language codes ("pt_BR" -> "pt-br").
// Fuzzy and untranslated entries are skipped.
func WithPODir(fsys fs.FS) Option {
	return func(c *Catalog) error {
		return fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.ToLower(path.Ext(filePath)) != ".po" {
				return nil
			}

			dir := path.Dir(filePath)
			if path.Base(dir) == "LC_MESSAGES" {
				dir = path.Dir(dir)
			}
			if dir == "." || dir == "" {
				return fmt.Errorf("%w: file %q must be inside a locale directory", ErrInvalidFile, filePath)
			}
			lang := LanguageFromLocale(path.Base(dir))

			f, err := fsys.Open(filePath)
			if err != nil {
				return fmt.Errorf("reading %q: %w", filePath, err)
			}
			defer f.Close()

			po, err := ParsePO(f)
			if err != nil {
				return fmt.Errorf("%w: parsing %q: %w", ErrInvalidFile, filePath, err)
			}
			for _, e := range po.Entries {
				if e.Fuzzy() {
					continue
				}
				c.add(lang, e.Msgid, e.Msgstr)
			}
			return nil
		})
	}
}

func loadDir(c *Catalog, fsys fs.FS, exts []string, unmarshal func([]byte, any) error) error {
	return fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(path.Ext(filePath))) {
			return nil
		}

		dir := path.Dir(filePath)
		if dir == "." || dir == "" {
			return fmt.Errorf("%w: file %q must be inside a language directory", ErrInvalidFile, filePath)
		}
		lang := path.Base(dir)

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("reading %q: %w", filePath, err)
		}

		var messages map[string]any
		if err := unmarshal(data, &messages); err != nil {
			return fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, filePath, err)
		}

		for msgid, msgstr := range flatten(messages, "") {
			c.add(lang, msgid, msgstr)
		}
		return nil
	})
}

// LanguageFromLocale converts a gettext locale name to a language code.
func LanguageFromLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(locale, "_", "-"))
}

// LocaleFromLanguage converts a language code to a gettext locale name
// ("en-us" -> "en_US").
func LocaleFromLanguage(lang string) string {
	base, region, ok := strings.Cut(lang, "-")
	if !ok {
		return strings.ToLower(lang)
	}
	if len(region) > 2 {
		// Script subtags keep title case ("sr-latn" -> "sr_Latn").
		return strings.ToLower(base) + "_" + strings.ToUpper(region[:1]) + strings.ToLower(region[1:])
	}
	return strings.ToLower(base) + "_" + strings.ToUpper(region)
}
