package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrymomot/lingua/pkg/config"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/store"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
)

// Column names of generic relations when the definition leaves them out.
const (
	defaultTypeField = "content_type"
	defaultIDField   = "object_id"
)

// buildTypes declares the configured types with their fields and
// serializers and localizes them. Relations are bound later, once the store
// exists.
func (s *Site) buildTypes() error {
	reg, err := model.NewRegistry()
	if err != nil {
		return err
	}
	for _, def := range s.cfg.Types {
		fields := make([]*model.Field, 0, len(def.Fields))
		for _, fd := range def.Fields {
			f, err := fd.Field()
			if err != nil {
				return fmt.Errorf("%s.%s: %w", def.Label(), fd.Name, err)
			}
			if f.Serializer, err = s.fieldSerializer(fd.Serializer); err != nil {
				return fmt.Errorf("%s.%s: %w", def.Label(), fd.Name, err)
			}
			fields = append(fields, f)
		}

		t, err := model.NewType(def.App, def.Name, fields...)
		if err != nil {
			return fmt.Errorf("%s: %w", def.Label(), err)
		}
		if err := s.localizer.Localize(t, def.Localized...); err != nil {
			return err
		}
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	s.registry = reg
	return nil
}

func (s *Site) fieldSerializer(name string) (model.FieldSerializer, error) {
	opts := []xmltree.FieldOption{xmltree.WithFieldLogger(s.log)}
	switch name {
	case "":
		return nil, nil
	case config.SerializerXML:
		return xmltree.RawXML(), nil
	case config.SerializerRichText:
		return xmltree.RichText(opts...), nil
	case config.SerializerMarkdown:
		return xmltree.Markdown(opts...), nil
	case config.SerializerInclude:
		if len(s.cfg.IncludeDirs) == 0 {
			return nil, ErrNoIncludeDir
		}
		return xmltree.IncludeFile(includeFS(s.cfg.IncludeDirs), opts...), nil
	case config.SerializerRemote:
		return xmltree.RemoteInclude(append(opts,
			xmltree.WithIncludeCache(s.includeCache),
			xmltree.WithHTTPClient(s.client),
		)...), nil
	case config.SerializerStored:
		if s.storage == nil {
			return nil, ErrNoStorage
		}
		return xmltree.StoredInclude(s.storage, opts...), nil
	default:
		return nil, fmt.Errorf("unknown serializer %q", name)
	}
}

// bindRelations attaches the configured relations with fetchers of the
// active store.
func (s *Site) bindRelations() error {
	for _, def := range s.cfg.Types {
		owner, err := s.Type(def.Label())
		if err != nil {
			return err
		}
		for _, rd := range def.Relations {
			kind, err := rd.RelationKind()
			if err != nil {
				return err
			}
			target, err := s.Type(rd.Target)
			if err != nil {
				return err
			}
			rel := &model.Relation{
				Fetch:         s.fetcher(owner, target, kind, rd),
				Name:          rd.Name,
				Target:        rd.Target,
				Kind:          kind,
				SkipSerialize: rd.Skip,
			}
			if err := owner.AddRelation(rel); err != nil {
				return fmt.Errorf("%s.%s: %w", def.Label(), rd.Name, err)
			}
		}
	}
	return nil
}

func (s *Site) fetcher(owner, target *model.Type, kind model.RelationKind, rd config.RelationDef) model.Fetcher {
	typeField, idField := rd.TypeField, rd.IDField
	if typeField == "" {
		typeField = defaultTypeField
	}
	if idField == "" {
		idField = defaultIDField
	}

	switch st := s.store.(type) {
	case *store.Memory:
		switch kind {
		case model.ReverseForeignKey:
			return st.ReverseFK(target, rd.Field)
		case model.ManyToMany:
			return st.ManyToMany(rd.Name)
		case model.Generic:
			return st.Generic(target, typeField, idField)
		}
	case *store.Postgres:
		switch kind {
		case model.ReverseForeignKey:
			return st.ReverseFK(target, rd.Field)
		case model.ManyToMany:
			join := rd.Field
			if join == "" {
				join = owner.App() + "_" + owner.Name() + "_" + rd.Name
			}
			return st.ManyToMany(target, join, owner.Name()+"_id", target.Name()+"_id")
		case model.Generic:
			return st.Generic(target, typeField, idField)
		}
	}
	return nil
}

// searchFS opens a name from the first directory that has it.
type searchFS []fs.FS

func includeFS(dirs []string) fs.FS {
	out := make(searchFS, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, os.DirFS(d))
	}
	return out
}

func (s searchFS) Open(name string) (fs.File, error) {
	for _, fsys := range s {
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
