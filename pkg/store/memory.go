package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrymomot/lingua/pkg/model"
)

// Memory keeps instances in memory, grouped by type label in insertion
// order. Safe for concurrent use.
type Memory struct {
	opts  *options
	mu    sync.RWMutex
	rows  map[string][]*model.Instance
	links map[linkKey][]*model.Instance
}

type linkKey struct {
	relation string
	owner    string
}

// NewMemory creates an empty Memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:  newOptions(opts),
		rows:  make(map[string][]*model.Instance),
		links: make(map[linkKey][]*model.Instance),
	}
}

// Add stores insts without validation or save hooks. An instance with the
// pk of a stored one replaces it.
func (m *Memory) Add(insts ...*model.Instance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range insts {
		if inst == nil || inst.Type == nil {
			return ErrNilInstance
		}
		m.put(inst)
	}
	return nil
}

func (m *Memory) put(inst *model.Instance) {
	label := inst.Type.Label()
	rows := m.rows[label]
	if i := slices.IndexFunc(rows, func(x *model.Instance) bool { return samePK(x.PK, inst.PK) }); i >= 0 {
		rows[i] = inst
		return
	}
	m.rows[label] = append(rows, inst)
}

// Save validates and stores inst, then runs the save hooks.
func (m *Memory) Save(ctx context.Context, inst *model.Instance) error {
	if inst == nil || inst.Type == nil {
		return ErrNilInstance
	}
	if err := inst.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.put(inst)
	m.mu.Unlock()

	return m.opts.runHooks(ctx, inst)
}

// SaveAll saves insts in order and stops at the first failure.
func (m *Memory) SaveAll(ctx context.Context, insts []*model.Instance) error {
	for _, inst := range insts {
		if err := m.Save(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the instance of t with primary key pk.
func (m *Memory) Get(_ context.Context, t *model.Type, pk any) (*model.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inst := range m.rows[t.Label()] {
		if samePK(inst.PK, pk) {
			return inst, nil
		}
	}
	return nil, fmt.Errorf("%w: %s(%v)", ErrNotFound, t.Label(), pk)
}

// All returns the instances of t in insertion order.
func (m *Memory) All(_ context.Context, t *model.Type) ([]*model.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.rows[t.Label()]), nil
}

// Filter returns the instances of t for which keep returns true.
func (m *Memory) Filter(t *model.Type, keep func(*model.Instance) bool) []*model.Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Instance
	for _, inst := range m.rows[t.Label()] {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	return out
}

// Link appends targets to the many-to-many relation of owner.
func (m *Memory) Link(owner *model.Instance, relation string, targets ...*model.Instance) {
	key := linkKey{relation: relation, owner: owner.String()}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[key] = append(m.links[key], targets...)
}

// ReverseFK returns a fetcher listing the instances of child whose foreign
// key field points to the owner.
func (m *Memory) ReverseFK(child *model.Type, field string) model.Fetcher {
	return model.FetcherFunc(func(_ context.Context, inst *model.Instance) ([]*model.Instance, error) {
		return m.Filter(child, func(c *model.Instance) bool {
			return samePK(c.Attr(field), inst.PK)
		}), nil
	})
}

// ManyToMany returns a fetcher listing the targets linked to the owner
// through relation.
func (m *Memory) ManyToMany(relation string) model.Fetcher {
	return model.FetcherFunc(func(_ context.Context, inst *model.Instance) ([]*model.Instance, error) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return slices.Clone(m.links[linkKey{relation: relation, owner: inst.String()}]), nil
	})
}

// Generic returns a fetcher listing the instances of child that address
// the owner by type label in typeField and primary key in idField.
func (m *Memory) Generic(child *model.Type, typeField, idField string) model.Fetcher {
	return model.FetcherFunc(func(_ context.Context, inst *model.Instance) ([]*model.Instance, error) {
		label := inst.Type.Label()
		return m.Filter(child, func(c *model.Instance) bool {
			return c.Attr(typeField) == label && samePK(c.Attr(idField), inst.PK)
		}), nil
	})
}

// ForeignKey returns a fetcher that resolves the foreign key field of the
// owner to the referenced instance of target. A missing value yields no
// instances.
func (m *Memory) ForeignKey(field string, target *model.Type) model.Fetcher {
	return model.FetcherFunc(func(ctx context.Context, inst *model.Instance) ([]*model.Instance, error) {
		f, ok := inst.Type.Field(field)
		if !ok || f.DeclaredType() != model.ForeignKey {
			return nil, fmt.Errorf("%w: %s.%s", ErrNotRelation, inst.Type.Label(), field)
		}
		pk := pkOf(inst.Attr(field))
		if pk == nil {
			return nil, nil
		}
		ref, err := m.Get(ctx, target, pk)
		if err != nil {
			return nil, err
		}
		return []*model.Instance{ref}, nil
	})
}
