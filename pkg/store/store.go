package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
)

// Store reads and writes instances. Memory and Postgres implement it.
type Store interface {
	Get(ctx context.Context, t *model.Type, pk any) (*model.Instance, error)
	All(ctx context.Context, t *model.Type) ([]*model.Instance, error)
	Save(ctx context.Context, inst *model.Instance) error
	SaveAll(ctx context.Context, insts []*model.Instance) error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)

// SaveHook runs after an instance has been saved. catalog.Writer.HandleSave
// is one.
type SaveHook func(ctx context.Context, inst *model.Instance) error

// Option configures a store.
type Option func(*options)

type options struct {
	log   *slog.Logger
	hooks []SaveHook
}

// WithSaveHook appends hooks run after every successful save, in order.
func WithSaveHook(hooks ...SaveHook) Option {
	return func(o *options) {
		for _, h := range hooks {
			if h != nil {
				o.hooks = append(o.hooks, h)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{log: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// runHooks calls every hook even when one fails and reports all failures.
func (o *options) runHooks(ctx context.Context, inst *model.Instance) error {
	var errs []error
	for _, h := range o.hooks {
		if err := h(ctx, inst); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrHookFailed}, errs...)...)
}

// pkOf returns the primary key a foreign key value refers to.
func pkOf(v any) any {
	if inst, ok := v.(*model.Instance); ok {
		if inst == nil {
			return nil
		}
		return inst.PK
	}
	return v
}

func samePK(a, b any) bool {
	a, b = pkOf(a), pkOf(b)
	if a == nil || b == nil {
		return false
	}
	return model.FormatValue(model.CharField, a) == model.FormatValue(model.CharField, b)
}
