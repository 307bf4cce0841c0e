package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/lingua/pkg/draft"
	"github.com/dmitrymomot/lingua/pkg/l10n"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/store"
)

// fixture is one record of a fixture file:
//
//	# fixtures.yaml
//	- model: news.article
//	  pk: 1
//	  fields: {title_en: Hello, title_de: Hallo}
//	  links: {tags: [1, 2]}
//
// Records with a revision are draft snapshots instead of stored instances.
// A localized field given without language suffix is stored in the message
// id language.
type fixture struct {
	Fields   map[string]any   `yaml:"fields"`
	Links    map[string][]any `yaml:"links"`
	PK       any              `yaml:"pk"`
	Model    string           `yaml:"model"`
	Revision string           `yaml:"revision"`
}

type link struct {
	owner    *model.Instance
	relation string
	targets  []any
}

// Fixtures is the decoded content of a fixture file.
type Fixtures struct {
	Drafts    map[string][]*model.Instance
	Instances []*model.Instance
	links     []link
}

// ReadFixtures decodes the YAML or JSON fixture file at path into
// instances of the site types.
func (s *Site) ReadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.ParseFixtures(data)
}

// ParseFixtures decodes fixture records.
func (s *Site) ParseFixtures(data []byte) (*Fixtures, error) {
	var records []fixture
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, errors.Join(ErrInvalidFixture, err)
	}

	out := &Fixtures{Drafts: make(map[string][]*model.Instance)}
	for i, rec := range records {
		inst, err := s.decodeFixture(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidFixture, i, err)
		}
		if rec.Revision != "" {
			out.Drafts[rec.Revision] = append(out.Drafts[rec.Revision], inst)
			continue
		}
		out.Instances = append(out.Instances, inst)
		for name, targets := range rec.Links {
			out.links = append(out.links, link{owner: inst, relation: name, targets: targets})
		}
	}
	return out, nil
}

func (s *Site) decodeFixture(rec fixture) (*model.Instance, error) {
	t, err := s.Type(rec.Model)
	if err != nil {
		return nil, err
	}
	if rec.PK == nil {
		return nil, errors.New("pk is required")
	}

	inst := model.NewInstance(t, rec.PK)
	for name, raw := range rec.Fields {
		if d, ok := l10n.Lookup(t, name); ok {
			v, err := fixtureValue(d.Field(), raw)
			if err != nil {
				return nil, err
			}
			if err := d.SetIn(inst, s.resolver.MsgidLanguage(), v); err != nil {
				return nil, err
			}
			continue
		}
		f, ok := t.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", model.ErrUnknownField, t.Label(), name)
		}
		v, err := fixtureValue(f, raw)
		if err != nil {
			return nil, err
		}
		if err := inst.SetAttr(name, v); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// fixtureValue converts a decoded YAML scalar to the kind of f.
func fixtureValue(f *model.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case nil, bool, time.Time:
		return v, nil
	case string:
		return f.Parse(v)
	case int:
		if f.DeclaredType() == model.FloatField {
			return float64(v), nil
		}
		return v, nil
	default:
		return v, nil
	}
}

// ImportFixtures reads the fixture file at path into the store. The memory
// store takes instances as they are; other stores save them, which runs the
// save hooks. Draft records are added to the draft source when it is the
// in-memory one.
func (s *Site) ImportFixtures(ctx context.Context, path string) (int, error) {
	fx, err := s.ReadFixtures(path)
	if err != nil {
		return 0, err
	}
	if err := s.importFixtures(ctx, fx); err != nil {
		return 0, err
	}
	return len(fx.Instances), nil
}

func (s *Site) loadFixtures(ctx context.Context, path string) error {
	_, err := s.ImportFixtures(ctx, path)
	return err
}

func (s *Site) importFixtures(ctx context.Context, fx *Fixtures) error {
	if s.drafts == nil {
		s.drafts = draft.NewMemorySource()
	}
	if src, ok := s.drafts.(*draft.MemorySource); ok {
		for rev, insts := range fx.Drafts {
			src.Add(rev, insts...)
		}
	}

	mem, ok := s.store.(*store.Memory)
	if !ok {
		if len(fx.links) > 0 {
			s.log.WarnContext(ctx, "fixture links are only supported by the memory store",
				slog.Int("links", len(fx.links)),
			)
		}
		return s.store.SaveAll(ctx, fx.Instances)
	}

	if err := mem.Add(fx.Instances...); err != nil {
		return err
	}
	for _, l := range fx.links {
		rel, ok := l.owner.Type.Relation(l.relation)
		if !ok || rel.Kind != model.ManyToMany {
			return fmt.Errorf("%w: %s has no many-to-many relation %q", ErrInvalidFixture, l.owner.Label(), l.relation)
		}
		target, err := s.Type(rel.Target)
		if err != nil {
			return err
		}
		targets := make([]*model.Instance, 0, len(l.targets))
		for _, pk := range l.targets {
			inst, err := mem.Get(ctx, target, pk)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidFixture, err)
			}
			targets = append(targets, inst)
		}
		mem.Link(l.owner, l.relation, targets...)
	}

	s.log.DebugContext(ctx, "fixtures loaded",
		slog.Int("instances", len(fx.Instances)),
		slog.Int("drafts", len(fx.Drafts)),
	)
	return nil
}
