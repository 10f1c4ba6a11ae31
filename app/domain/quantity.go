package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds every quantity, servings count and preparation time.
var MaxAmount = decimal.NewFromInt(999)

// Quantity is an immutable amount paired with a unit.
type Quantity struct {
	amount decimal.Decimal
	unit   Unit
}

// NewQuantity validates amount and unit.
func NewQuantity(amount decimal.Decimal, unit Unit) (Quantity, error) {
	u, err := ParseUnit(string(unit))
	if err != nil {
		return Quantity{}, err
	}
	if !amount.IsPositive() {
		return Quantity{}, invalid(ErrInvalidQuantity, "amount", "must be more than 0")
	}
	if amount.GreaterThan(MaxAmount) {
		return Quantity{}, invalid(ErrInvalidQuantity, "amount", "cannot exceed 999")
	}
	return Quantity{amount: amount, unit: u}, nil
}

// ParseQuantity is NewQuantity for textual amounts such as "2.5".
func ParseQuantity(amount, unit string) (Quantity, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Quantity{}, invalid(ErrInvalidQuantity, "amount", "must be a valid number %q", amount)
	}
	return NewQuantity(d, Unit(unit))
}

func (q Quantity) Amount() decimal.Decimal { return q.amount }
func (q Quantity) Unit() Unit              { return q.unit }

// IsZero reports whether q is the zero value (never a valid quantity).
func (q Quantity) IsZero() bool { return q.unit == "" }

// Equal compares amounts numerically, so 2 and 2.00 cups are equal.
func (q Quantity) Equal(o Quantity) bool {
	return q.unit == o.unit && q.amount.Equal(o.amount)
}

// AssertCompatible fails unless q's unit belongs to the same family as
// base. Density-based conversion is deliberately not considered here.
func (q Quantity) AssertCompatible(base Unit) error {
	got, _ := q.unit.Family()
	want, ok := base.Family()
	if !ok || got != want {
		return invalid(ErrInvalidQuantity, "unit", "%q is not compatible with %q", q.unit, base)
	}
	return nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.amount.String(), q.unit)
}
