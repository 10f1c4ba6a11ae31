package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	minStepLength = 3
	maxStepLength = 1000
	maxPosition   = 999
)

// Step is one instruction of a recipe.
type Step struct {
	description string
	position    int
}

// StepAttrs is the unvalidated form of a Step.
type StepAttrs struct {
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// NewStep validates a.
func NewStep(a StepAttrs) (Step, error) {
	if strings.TrimSpace(a.Description) == "" {
		return Step{}, invalid(ErrInvalidStep, "description", "cannot be blank")
	}
	n := utf8.RuneCountInString(a.Description)
	if n > maxStepLength {
		return Step{}, invalid(ErrInvalidStep, "description", "must be under %d characters", maxStepLength)
	}
	if n < minStepLength {
		return Step{}, invalid(ErrInvalidStep, "description", "must be at least %d characters", minStepLength)
	}
	if a.Position <= 0 {
		return Step{}, invalid(ErrInvalidStep, "position", "must be positive")
	}
	if a.Position > maxPosition {
		return Step{}, invalid(ErrInvalidStep, "position", "cannot exceed %d", maxPosition)
	}
	return Step{description: a.Description, position: a.Position}, nil
}

func (s Step) Description() string { return s.description }
func (s Step) Position() int       { return s.position }
func (s Step) Attrs() StepAttrs    { return StepAttrs{Description: s.description, Position: s.position} }
