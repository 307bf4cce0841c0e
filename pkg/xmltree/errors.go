package xmltree

import (
	"errors"
	"fmt"
)

var (
	ErrRecursionLimit  = errors.New("xmltree: recursion limit exceeded")
	ErrRelation        = errors.New("xmltree: failed to load related instances")
	ErrNilInstance     = errors.New("xmltree: nil instance")
	ErrIncludeTooLarge = errors.New("xmltree: include too large")
)

// RecursionLimitError is returned when following a many-to-many relation
// nests deeper than the configured ceiling. It always aborts the whole
// serialization.
type RecursionLimitError struct {
	Relation string
	From     string
	To       string
	Depth    int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("xmltree: recursion limit %d exceeded following %s from %s to %s",
		e.Depth, e.Relation, e.From, e.To)
}

func (e *RecursionLimitError) Unwrap() error { return ErrRecursionLimit }
