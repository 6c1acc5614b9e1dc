package purescript

import "errors"

var (
	// ErrInvariant is returned when a declaration would print plausible but
	// wrong PureScript: duplicate record labels, undeclared type variables,
	// misaligned enum values.
	ErrInvariant = errors.New("model invariant violation")
)
