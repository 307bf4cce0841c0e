package l10n

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/model"
)

// Change is a pending write to one storage slot.
type Change struct {
	Instance *model.Instance
	Old      any
	New      any
	Field    string
	Slot     string
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s: %q -> %q", c.Instance, c.Slot,
		model.FormatValue(model.CharField, c.Old), model.FormatValue(model.CharField, c.New))
}

// CopyLanguage plans copying every non-empty slot of source into the empty
// slot of target, for all localized fields of insts. Target values that are
// already set are never overwritten.
func CopyLanguage(insts []*model.Instance, source, target string, fields ...string) []Change {
	var out []Change
	for _, inst := range insts {
		for _, name := range localizedNames(inst, fields) {
			from := langcode.RealFieldName(name, source)
			to := langcode.RealFieldName(name, target)
			if !inst.HasAttr(from) || !inst.HasAttr(to) {
				continue
			}
			v := inst.Attr(from)
			if !valid(v) || valid(inst.Attr(to)) {
				continue
			}
			out = append(out, Change{Instance: inst, Field: name, Slot: to, Old: inst.Attr(to), New: v})
		}
	}
	return out
}

// ResetLanguage plans clearing every non-empty slot of lang so the values
// are read from the catalog again.
func ResetLanguage(insts []*model.Instance, lang string, fields ...string) []Change {
	var out []Change
	for _, inst := range insts {
		for _, name := range localizedNames(inst, fields) {
			slot := langcode.RealFieldName(name, lang)
			if !inst.HasAttr(slot) {
				continue
			}
			if v := inst.Attr(slot); valid(v) {
				out = append(out, Change{Instance: inst, Field: name, Slot: slot, Old: v})
			}
		}
	}
	return out
}

// Apply performs changes in order and returns the instances that were
// modified, each once.
func Apply(changes []Change) ([]*model.Instance, error) {
	var touched []*model.Instance
	for _, c := range changes {
		if c.Instance == nil {
			continue
		}
		if !c.Instance.Type.IsLocalized(c.Field) {
			return touched, fmt.Errorf("%w: %s.%s", ErrNotLocalized, c.Instance.Label(), c.Field)
		}
		if err := c.Instance.SetAttr(c.Slot, c.New); err != nil {
			return touched, err
		}
		if !slices.Contains(touched, c.Instance) {
			touched = append(touched, c.Instance)
		}
	}
	return touched, nil
}

func localizedNames(inst *model.Instance, only []string) []string {
	if inst == nil || inst.Type == nil {
		return nil
	}
	names := inst.Type.LocalizedFields()
	if len(only) == 0 {
		return names
	}
	return slices.DeleteFunc(names, func(n string) bool { return !slices.Contains(only, n) })
}
