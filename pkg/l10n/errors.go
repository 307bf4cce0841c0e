package l10n

import (
	"errors"
	"fmt"
)

var (
	ErrNilResolver    = errors.New("l10n: resolver is required")
	ErrNilType        = errors.New("l10n: type is required")
	ErrUnknownField   = errors.New("l10n: unknown field")
	ErrNotLocalizable = errors.New("l10n: field kind cannot be localized")
	ErrSlotConflict   = errors.New("l10n: storage slot already declared")
	ErrNoSlot         = errors.New("l10n: no storage slot for language")
	ErrNotLocalized   = errors.New("l10n: field is not localized")
)

// ConfigError reports a localization that cannot be applied to a type. It is
// returned before the type is modified.
type ConfigError struct {
	Err   error
	Type  string
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("l10n: %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("l10n: %s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
