package behavior

import "errors"

var (
	// ErrNoActions indicates a scheduler was asked to perform but its
	// generator produced nothing.
	ErrNoActions = errors.New("behavior: did not generate any actions")

	// ErrNilGenerator indicates a scheduler was created without a
	// generator.
	ErrNilGenerator = errors.New("behavior: nil generator")
)
