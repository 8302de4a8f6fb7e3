/*
Package recognition computes recognized-date and recognized-amount schedules
for installment payment plans (housing subscription savings accounts).

PURPOSE:
  Given due dates, actual payment dates/amounts and a payment-amount policy,
  the engine determines how much of each installment counts as officially
  recognized as of a given date, carrying delay and prepayment effects
  forward across rounds and bounding them by regulatory caps.

KEY CONCEPTS IN THIS FILE (types.go):
  - Round: One installment with its derived recognition fields
  - Summary: A full simulation result with per-round details and aggregates
  - PaymentInput / CustomPayment: Caller-observed actual payments
  - Status: normal / delayed / prepaid / missed

THE ALGORITHM IN ONE PARAGRAPH:
  Rounds are walked strictly in installment order. Each paid round adds its
  lateness to a running delay total or its earliness to a running prepayment
  total. The recognized date of round k is its due date shifted by
  floor((totalDelay - totalPrepaid) / k) days, so one late payment drags
  every later round and early payments pull them back. A round is recognized
  once its recognized date has passed the as-of date, and its recognized
  amount is the paid amount capped by a date-tiered ceiling.

DETERMINISM:
  Nothing here reads the system clock. Every public operation takes the
  as-of date ("today") as an explicit parameter, so results are pure
  functions of their inputs. Production callers pass recognition.Today().

DESIGN PRINCIPLES:
  1. Value types in, value types out - no shared state between calls
  2. Sequential dependency is intrinsic: round k needs rounds 1..k-1
  3. Errors fail the whole call - there is no partial schedule

SEE ALSO:
  - schedule.go: baseline schedule generation and response aggregation
  - recalc.go: recognition recalculation over actual payments
  - simulator.go: the full round-by-round recognition simulation
*/
package recognition

// =============================================================================
// STATUS - Per-round payment classification
// =============================================================================

type Status string

const (
	StatusNormal  Status = "normal"
	StatusDelayed Status = "delayed"
	StatusPrepaid Status = "prepaid"
	StatusMissed  Status = "missed"
)

// statusOf classifies a round. Precedence matters: an unpaid round is
// missed regardless of its delay fields.
func statusOf(paid Amount, delayDays, prepaidDays int) Status {
	switch {
	case paid.IsZero():
		return StatusMissed
	case delayDays > 0:
		return StatusDelayed
	case prepaidDays > 0:
		return StatusPrepaid
	default:
		return StatusNormal
	}
}

// =============================================================================
// DOMAIN CONSTANTS
// =============================================================================

const (
	// PrepaymentCapDays bounds how far ahead of its due date a single round
	// may be paid and still recognized: 721 days, roughly two years.
	PrepaymentCapDays = 721

	// prepaymentWindowMonths is the recalculation clamp: prepayment
	// recognition never reaches further back than 24 months (24 rounds).
	prepaymentWindowMonths = 24
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// PaymentInput is one caller-observed actual payment for recalculation.
// Callers supply these in ascending installment order.
type PaymentInput struct {
	InstallmentNo int  `json:"installment_no"`
	DueDate       Date `json:"due_date"`
	PaidDate      Date `json:"paid_date"`
}

// AmountOption selects how per-round paid amounts are resolved.
type AmountOption string

const (
	OptionStandard AmountOption = "standard" // fixed amount per round
	OptionMaximum  AmountOption = "maximum"  // date-tiered statutory maximum
	OptionCustom   AmountOption = "custom"   // amounts only from overrides
)

// CustomPayment overrides one round of a simulation with an observed paid
// date and, optionally, an explicit paid amount.
type CustomPayment struct {
	InstallmentNo int     `json:"installment_no"`
	PaidDate      Date    `json:"paid_date"`
	PaidAmount    *Amount `json:"paid_amount,omitempty"`
}

// CalculatorRequest describes a full recognition simulation.
type CalculatorRequest struct {
	PaymentDay     int             `json:"payment_day"`
	StartDate      Date            `json:"start_date"`
	EndDate        Date            `json:"end_date"`
	AmountOption   AmountOption    `json:"payment_amount_option"`
	StandardAmount *Amount         `json:"standard_payment_amount,omitempty"`
	Payments       []CustomPayment `json:"payments,omitempty"`
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// Round is one installment with all derived recognition fields.
// PaidDate and RecognizedDate are nil for unpaid (missed) rounds.
// TotalDelayDays and TotalPrepaidDays are running sums over the ordered
// sequence and are monotonically non-decreasing.
type Round struct {
	InstallmentNo    int    `json:"installment_no"`
	DueDate          Date   `json:"due_date"`
	PaidDate         *Date  `json:"paid_date"`
	RecognizedDate   *Date  `json:"recognized_date"`
	DelayDays        int    `json:"delay_days"`
	TotalDelayDays   int    `json:"total_delay_days"`
	PrepaidDays      int    `json:"prepaid_days"`
	TotalPrepaidDays int    `json:"total_prepaid_days"`
	Status           Status `json:"status"`
	IsRecognized     bool   `json:"is_recognized"`
	PaidAmount       Amount `json:"paid_amount"`
	RecognizedAmount Amount `json:"recognized_amount_for_round"`
}

// Summary is the result of a recognition simulation: the per-round details
// plus recognized/unrecognized counts and the total recognized amount.
type Summary struct {
	PaymentDay            int     `json:"payment_day"`
	StartDate             Date    `json:"start_date"`
	EndDate               Date    `json:"end_date"`
	RecognizedRounds      int     `json:"recognized_rounds"`
	UnrecognizedRounds    int     `json:"unrecognized_rounds"`
	TotalRecognizedAmount Amount  `json:"total_recognized_amount"`
	Details               []Round `json:"details"`
}

// ScheduleSummary is the aggregate the request layer wraps around a plain
// round sequence (normal generation and recalculation responses).
type ScheduleSummary struct {
	TotalInstallments int     `json:"total_installments"`
	TotalDelayDays    int     `json:"total_delay_days"`
	TotalPrepaidDays  int     `json:"total_prepaid_days"`
	Payments          []Round `json:"payments"`
}
