package chore

import (
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// Sentinel errors returned by the repository. Match them with errors.Is; the
// returned values may carry extra context but keep category and message.
var (
	// ErrEmptyName rejects a name that is empty after trimming.
	ErrEmptyName = errors.InvalidInput("chore name must not be empty").Build()

	// ErrInvalidInterval rejects an interval outside 1 to MaxIntervalDays days.
	ErrInvalidInterval = errors.InvalidInput("interval must be between 1 and 365 days").Build()

	// ErrFutureCompletion rejects a completion time after the repository's now.
	ErrFutureCompletion = errors.InvalidInput("completion time lies in the future").Build()

	// ErrMalformedID rejects an id reference that cannot be parsed.
	ErrMalformedID = errors.InvalidInput("malformed chore id").Build()

	// ErrAmbiguousID rejects an id prefix that matches more than one chore.
	ErrAmbiguousID = errors.InvalidInput("chore id prefix is ambiguous").Build()

	// ErrChoreNotFound reports a reference to an id that is not in the collection.
	ErrChoreNotFound = errors.NotFound("chore").Build()
)
