package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no quiz session exists for a device.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFinished is returned when a path is requested before results exist.
	ErrQuizNotFinished = errors.New("quiz not finished")
	// ErrEmptyCatalog indicates a question bank or archetype catalog without entries.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrInvalidQuestion indicates a question that breaks option or position invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrUnknownArchetype indicates an archetype id missing from the catalog.
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrDuplicateArchetype indicates two catalog entries sharing an id.
	ErrDuplicateArchetype = errors.New("duplicate archetype id")
	// ErrInvalidContentType indicates a content type outside the fixed enumeration.
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrInvalidStatus indicates a status outside the fixed enumeration.
	ErrInvalidStatus = errors.New("invalid content status")
	// ErrMissingScope is returned when a request carries no device id.
	ErrMissingScope = errors.New("missing device id")
)
