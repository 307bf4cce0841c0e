package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/storage"
)

// Site is the configuration of one site: its languages, where catalogs and
// stylesheets live, the backing services and the content types.
type Site struct {
	Sentry         logger.SentryConfig `yaml:"sentry"`
	Storage        storage.Config      `yaml:"storage"`
	Languages      langcode.Config     `yaml:",inline"`
	LocaleDir      string              `yaml:"locale_dir"`
	CatalogDomain  string              `yaml:"catalog_domain"`
	DatabaseURL    string              `yaml:"database_url"`
	RedisURL       string              `yaml:"redis_url"`
	Fixtures       string              `yaml:"fixtures"`
	Listen         string              `yaml:"listen"`
	StylesheetDirs []string            `yaml:"stylesheet_dirs"`
	IncludeDirs    []string            `yaml:"include_dirs"`
	Types          []TypeDef           `yaml:"types"`
	MaxDepth       int                 `yaml:"recursion_limit"`

	// CatalogRefresh is a cron expression ("*/5 * * * *" or "@every 5m")
	// for reloading the catalog while serving, so sites pick up messages
	// published by the master site. Empty disables it.
	CatalogRefresh string `yaml:"catalog_refresh"`

	// AutoCatalog writes catalog entries for localized fields whenever an
	// instance is saved. Only honoured on the master site.
	AutoCatalog bool `yaml:"auto_catalog"`
}

// Load reads the site file at path, applies overrides from the environment
// (an optional .env file next to the working directory is loaded first),
// fills defaults and validates the result. Relative directories are
// resolved against the directory of path.
func Load(path string) (*Site, error) {
	// .env is optional; variables may come from the process environment.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	site, err := Parse(data)
	if err != nil {
		return nil, err
	}
	site.resolvePaths(filepath.Dir(path))
	return site, nil
}

// Parse decodes a site file, applies environment overrides and defaults
// and validates the result.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	site.applyEnv()
	site.applyDefaults()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) applyEnv() {
	if v := os.Getenv("LINGUA_LANGUAGES"); v != "" {
		s.Languages.Languages = splitList(v)
	}
	if v := os.Getenv("LINGUA_DEFAULT_LANGUAGE"); v != "" {
		s.Languages.DefaultLanguage = v
	}
	if v := os.Getenv("LINGUA_MSGID_LANGUAGE"); v != "" {
		s.Languages.MsgidLanguage = v
	}
	if v := os.Getenv("LINGUA_LOCALE_DIR"); v != "" {
		s.LocaleDir = v
	}
	if v := os.Getenv("DATABASE_CONN_URL"); v != "" {
		s.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		s.RedisURL = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		s.Sentry.DSN = v
	}
}

func (s *Site) applyDefaults() {
	if s.LocaleDir == "" {
		s.LocaleDir = "locale"
	}
	if s.CatalogDomain == "" {
		s.CatalogDomain = "django"
	}
	if s.Listen == "" {
		s.Listen = ":8080"
	}
	if len(s.StylesheetDirs) == 0 {
		s.StylesheetDirs = []string{"xslt"}
	}
}

func (s *Site) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	s.LocaleDir = abs(s.LocaleDir)
	s.Fixtures = abs(s.Fixtures)
	for i, d := range s.StylesheetDirs {
		s.StylesheetDirs[i] = abs(d)
	}
	for i, d := range s.IncludeDirs {
		s.IncludeDirs[i] = abs(d)
	}
}

// Validate reports every configuration problem at once.
func (s *Site) Validate() error {
	var errs []error

	if len(s.Languages.Languages) == 0 {
		errs = append(errs, errors.New("languages: at least one language is required"))
	}
	for _, code := range s.Languages.Languages {
		if _, err := language.Parse(code); err != nil {
			errs = append(errs, fmt.Errorf("languages: %q is not a BCP 47 tag", code))
		}
	}
	if code := s.Languages.DefaultLanguage; code != "" && !slices.Contains(s.Languages.Languages, code) {
		errs = append(errs, fmt.Errorf("default_language: %q is not one of the configured languages", code))
	}
	if code := s.Languages.MsgidLanguage; code != "" {
		if _, err := language.Parse(code); err != nil {
			errs = append(errs, fmt.Errorf("msgid_language: %q is not a BCP 47 tag", code))
		}
	}
	if s.MaxDepth < 0 {
		errs = append(errs, errors.New("recursion_limit: must not be negative"))
	}
	if s.CatalogRefresh != "" {
		if _, err := cron.ParseStandard(s.CatalogRefresh); err != nil {
			errs = append(errs, fmt.Errorf("catalog_refresh: %w", err))
		}
	}

	labels := make(map[string]bool, len(s.Types))
	for _, t := range s.Types {
		labels[t.Label()] = true
	}
	for _, t := range s.Types {
		if err := t.validate(labels); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return nil
}

// Resolver builds the language resolver of the site.
func (s *Site) Resolver() (*langcode.Resolver, error) {
	return langcode.New(s.Languages)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
