package recognition

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary quantity (whole KRW)
// =============================================================================

// Amount is a monetary value backed by decimal.Decimal to keep sums exact.
// The zero value is a usable zero amount. On the wire it serializes as a
// plain integer, which is how deposit amounts are expressed end to end.
type Amount struct {
	value decimal.Decimal
}

func NewAmount(v int64) Amount {
	return Amount{value: decimal.NewFromInt(v)}
}

func ZeroAmount() Amount { return Amount{} }

func (a Amount) Add(b Amount) Amount      { return Amount{value: a.value.Add(b.value)} }
func (a Amount) IsPositive() bool         { return a.value.IsPositive() }
func (a Amount) IsZero() bool             { return a.value.IsZero() }
func (a Amount) Equal(b Amount) bool      { return a.value.Equal(b.value) }
func (a Amount) LessThan(b Amount) bool   { return a.value.LessThan(b.value) }
func (a Amount) Int64() int64             { return a.value.IntPart() }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) String() string { return a.value.String() }

// MarshalJSON emits a bare integer rather than decimal's default quoted
// string, keeping API payloads and stored summaries numeric.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	a.value = d
	return nil
}

// =============================================================================
// AMOUNT POLICY - Date-tiered recognition ceiling
// =============================================================================

// AmountPolicy caps how much of a single installment counts toward official
// recognition. The ceiling is tiered on the effective payment date: the
// regulatory change of 2024-11-01 raised it from 100,000 to 250,000.
type AmountPolicy struct {
	ChangeDate Date
	BeforeCap  Amount
	AfterCap   Amount
}

// DefaultAmountPolicy is the statutory policy for housing subscription
// savings accounts.
var DefaultAmountPolicy = AmountPolicy{
	ChangeDate: NewDate(2024, time.November, 1),
	BeforeCap:  NewAmount(100_000),
	AfterCap:   NewAmount(250_000),
}

// CapFor returns the recognition ceiling in force on the given date.
func (p AmountPolicy) CapFor(d Date) Amount {
	if d.Before(p.ChangeDate) {
		return p.BeforeCap
	}
	return p.AfterCap
}
