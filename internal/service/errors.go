package service

import "fmt"

// The error taxonomy handlers map onto HTTP responses: field errors become a
// per-field map (400), conflict errors a message-only body (400), not-found
// errors a detail body (404 for missing entities, 400 for absent relations).

// FieldError is a validation failure attributed to a single input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError rejects an operation whose precondition failed, with no field
// to blame (duplicate relation, self-subscription).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports a missing target entity or an absent relation.
// Relation indicates the latter, which the API reports as 400 rather than 404.
type NotFoundError struct {
	Message  string
	Relation bool
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ForbiddenError rejects a mutation by a principal that does not own the row.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}
