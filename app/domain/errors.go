package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Concrete errors returned by this package unwrap to one of
// these so callers can branch with errors.Is.
var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidIngredient = errors.New("invalid ingredient")
	ErrInvalidStep       = errors.New("invalid step")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrConversion        = errors.New("unit conversion failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)

// ValidationError reports a violated invariant on a single field.
type ValidationError struct {
	Kind    error
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", e.Kind, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, field, format string, args ...any) error {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the entity and the ids that could not be resolved.
type NotFoundError struct {
	Entity string
	IDs    []uint
}

func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	if len(ids) == 1 {
		return fmt.Sprintf("%s %s not found", e.Entity, ids[0])
	}
	return fmt.Sprintf("%ss %s not found", e.Entity, strings.Join(ids, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a *NotFoundError for entity.
func NotFound(entity string, ids ...uint) error {
	return &NotFoundError{Entity: entity, IDs: ids}
}

// ConversionError reports a unit that cannot be expressed in a product's
// base unit.
type ConversionError struct {
	From    Unit
	To      Unit
	Product string
	Reason  string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %q to %q", e.From, e.To)
	if e.Product != "" {
		msg += fmt.Sprintf(" for product %q", e.Product)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return ErrConversion }
