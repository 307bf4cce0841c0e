package l10n

import (
	"reflect"
	"time"

	"github.com/dmitrymomot/lingua/pkg/model"
)

// Origin names the source that won a resolution.
type Origin int

const (
	// OriginDatabase is the storage slot of the active language.
	OriginDatabase Origin = iota + 1
	// OriginCatalog is a catalog translation in the active language.
	OriginCatalog
	// OriginMessageID is the message id itself, returned when no catalog
	// has a translation.
	OriginMessageID
	// OriginFallback is a storage slot or catalog of a fallback language.
	OriginFallback
)

func (o Origin) String() string {
	switch o {
	case OriginDatabase:
		return "database"
	case OriginCatalog:
		return "catalog"
	case OriginMessageID:
		return "msgid"
	case OriginFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Provenance records every candidate considered while resolving a field.
type Provenance struct {
	Msgid    any
	Msg      any
	Fallback any
	Stored   any
	Origin   Origin

	// FromDatabase is set when the stored slot of the active language won.
	FromDatabase bool
}

// Resolution is the result of reading a localized field. Provenance is nil
// for values that did not go through a catalog lookup, and always nil for
// booleans and nil values.
type Resolution struct {
	Value      any
	Provenance *Provenance
}

// Equal compares the resolved value with v, which may itself be a
// Resolution. Provenance never takes part in the comparison.
func (r Resolution) Equal(v any) bool {
	if o, ok := v.(Resolution); ok {
		v = o.Value
	}
	return equalValues(r.Value, v)
}

// Valid reports whether the resolved value is neither nil nor empty.
func (r Resolution) Valid() bool {
	return valid(r.Value)
}

func (r Resolution) String() string {
	return model.FormatValue(model.CharField, r.Value)
}

func equalValues(a, b any) bool {
	if t, ok := a.(time.Time); ok {
		u, ok := b.(time.Time)
		return ok && t.Equal(u)
	}
	return reflect.DeepEqual(a, b)
}

// valid mirrors the catalog rule: nil and "" are never looked up.
func valid(v any) bool {
	return !model.IsEmpty(v)
}

func decorate(v any, p *Provenance) Resolution {
	switch v.(type) {
	case nil, bool:
		return Resolution{Value: v}
	}
	return Resolution{Value: v, Provenance: p}
}
