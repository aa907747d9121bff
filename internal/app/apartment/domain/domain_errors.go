package domain

import "errors"

// Error classes. Callers match these with errors.Is.
var (
	ErrApartmentNotFound    = errors.New("apartment not found")
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrTransactionConflict  = errors.New("transaction conflict")
	ErrNotEnoughPermissions = errors.New("not enough permissions")
)

// Field invariants. Each one also matches ErrConstraintViolation.
var (
	ErrInvalidAddress      = constraint("address must be between 1 and 500 characters")
	ErrInvalidCity         = constraint("city must be between 1 and 100 characters")
	ErrInvalidArea         = constraint("area_sqm must be positive")
	ErrInvalidRooms        = constraint("rooms must be positive")
	ErrInvalidBuildingYear = constraint("building_year must be between 1801 and 2099")
	ErrInvalidPrice        = constraint("current_price must be positive")
	ErrInvalidDescription  = constraint("description must be at most 1000 characters")
	ErrMissingOwner        = constraint("apartment owner is required")
	ErrMissingActor        = constraint("actor is required")
	ErrUnchangedPrice      = constraint("price history requires old and new price to differ")
)

type constraintError struct {
	msg string
}

func constraint(msg string) error {
	return &constraintError{msg: msg}
}

func (e *constraintError) Error() string { return e.msg }

func (e *constraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}
