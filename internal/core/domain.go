package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind tells income from expense. It is never stored on a Transaction;
	// it is derived from the sign of the amount.
	Kind string

	Transaction struct {
		ID          int64
		Description string
		Amount      decimal.Decimal // positive = income, negative = expense
		Date        string          // YYYY-MM-DD
	}

	// Draft is an unvalidated form submission.
	Draft struct {
		Description string
		Amount      string
		Date        string
		Kind        Kind
	}
)

var (
	ErrValidation       = errors.New("validation rejected")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDate        = errors.New("empty date")
	ErrInvalidKind      = errors.New("invalid type")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrNotFound         = errors.New("transaction not found")
	ErrEmptyExportSet   = errors.New("nothing to export")
	ErrPersistence      = errors.New("persistence unavailable")
)

// ValidationError carries the reason a draft was rejected.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
}

// Is reports true for ErrValidation so callers can match the whole category.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func reject(reason error) error {
	return &ValidationError{Reason: reason}
}

// Kind derives the transaction type from the sign of the amount.
func (t Transaction) Kind() Kind {
	if t.Amount.IsNegative() {
		return Expense
	}
	return Income
}

// Magnitude returns the absolute value of the amount.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// Month returns the month component of the date and whether it is present.
func (t Transaction) Month() (string, bool) {
	return MonthOf(t.Date)
}

// Category is the first whitespace-delimited token of the description.
// Matching is case-sensitive and nothing is normalized.
func (t Transaction) Category() string {
	fields := strings.Fields(t.Description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseKind accepts "income" and "expense".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Income, Expense:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

// Build validates the draft and returns the transaction it describes under
// the given id. The input sign is discarded and re-derived from Kind.
func (d Draft) Build(id int64) (Transaction, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return Transaction{}, reject(ErrEmptyDescription)
	}
	magnitude, err := ParseAmount(d.Amount)
	if err != nil {
		return Transaction{}, reject(err)
	}
	date := strings.TrimSpace(d.Date)
	if date == "" {
		return Transaction{}, reject(ErrEmptyDate)
	}
	kind, err := ParseKind(string(d.Kind))
	if err != nil {
		return Transaction{}, reject(err)
	}

	amount := magnitude
	if kind == Expense {
		amount = magnitude.Neg()
	}
	return Transaction{
		ID:          id,
		Description: description,
		Amount:      amount,
		Date:        date,
	}, nil
}

// DraftFrom returns the draft that would reproduce t, as shown in the edit form.
func DraftFrom(t Transaction) Draft {
	return Draft{
		Description: t.Description,
		Amount:      t.Magnitude().String(),
		Date:        t.Date,
		Kind:        t.Kind(),
	}
}
