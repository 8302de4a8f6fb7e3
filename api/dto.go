/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Requests arrive with
  ISO date strings and plain integer amounts; the conversion helpers parse
  them into recognition domain types and surface field-level errors before
  any computation runs.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

  Responses for schedules and summaries serialize the domain types
  directly; recognition.Round and recognition.Summary carry their own JSON
  tags matching the wire contract.

SEE ALSO:
  - handlers.go: Uses these types
  - recognition/types.go: Domain types with wire tags
*/
package api

import (
	"fmt"

	"github.com/warp/recognition-engine/recognition"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// NormalScheduleRequest asks for a baseline on-time schedule.
type NormalScheduleRequest struct {
	OpenDate string `json:"open_date"`
	DueDay   int    `json:"due_day"`
	EndDate  string `json:"end_date"`
}

// PaymentInputRequest is one observed payment in a recalculation request.
type PaymentInputRequest struct {
	InstallmentNo int    `json:"installment_no"`
	DueDate       string `json:"due_date"`
	PaidDate      string `json:"paid_date"`
}

// RecalcRequest asks for recognition recalculation over actual payments.
type RecalcRequest struct {
	OpenDate string                `json:"open_date"`
	EndDate  string                `json:"end_date"`
	Payments []PaymentInputRequest `json:"payments"`
}

// CustomPaymentRequest overrides one simulated round.
type CustomPaymentRequest struct {
	InstallmentNo int    `json:"installment_no"`
	PaidDate      string `json:"paid_date"`
	PaidAmount    *int64 `json:"paid_amount,omitempty"`
}

// CalculateRecognitionRequest asks for a full recognition simulation.
type CalculateRecognitionRequest struct {
	PaymentDay            int                    `json:"payment_day"`
	StartDate             string                 `json:"start_date"`
	EndDate               string                 `json:"end_date"`
	PaymentAmountOption   string                 `json:"payment_amount_option"`
	StandardPaymentAmount *int64                 `json:"standard_payment_amount,omitempty"`
	Payments              []CustomPaymentRequest `json:"payments,omitempty"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse represents an account in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RefreshResponse reports a refresher run.
type RefreshResponse struct {
	Refreshed int `json:"refreshed"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func parseDateField(value, field string) (recognition.Date, error) {
	d, err := recognition.ParseDate(value)
	if err != nil {
		return recognition.Date{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func amountPtr(v *int64) *recognition.Amount {
	if v == nil {
		return nil
	}
	a := recognition.NewAmount(*v)
	return &a
}

func (r RecalcRequest) toDomain() ([]recognition.PaymentInput, error) {
	payments := make([]recognition.PaymentInput, 0, len(r.Payments))
	for i, p := range r.Payments {
		due, err := parseDateField(p.DueDate, fmt.Sprintf("payments[%d].due_date", i))
		if err != nil {
			return nil, err
		}
		paid, err := parseDateField(p.PaidDate, fmt.Sprintf("payments[%d].paid_date", i))
		if err != nil {
			return nil, err
		}
		payments = append(payments, recognition.PaymentInput{
			InstallmentNo: p.InstallmentNo,
			DueDate:       due,
			PaidDate:      paid,
		})
	}
	return payments, nil
}

func (r CalculateRecognitionRequest) toDomain() (recognition.CalculatorRequest, error) {
	var req recognition.CalculatorRequest

	start, err := parseDateField(r.StartDate, "start_date")
	if err != nil {
		return req, err
	}
	end, err := parseDateField(r.EndDate, "end_date")
	if err != nil {
		return req, err
	}

	option := recognition.AmountOption(r.PaymentAmountOption)
	switch option {
	case recognition.OptionStandard, recognition.OptionMaximum, recognition.OptionCustom:
	default:
		return req, fmt.Errorf("payment_amount_option: unknown option %q", r.PaymentAmountOption)
	}

	payments := make([]recognition.CustomPayment, 0, len(r.Payments))
	for i, cp := range r.Payments {
		paid, err := parseDateField(cp.PaidDate, fmt.Sprintf("payments[%d].paid_date", i))
		if err != nil {
			return req, err
		}
		payments = append(payments, recognition.CustomPayment{
			InstallmentNo: cp.InstallmentNo,
			PaidDate:      paid,
			PaidAmount:    amountPtr(cp.PaidAmount),
		})
	}

	return recognition.CalculatorRequest{
		PaymentDay:     r.PaymentDay,
		StartDate:      start,
		EndDate:        end,
		AmountOption:   option,
		StandardAmount: amountPtr(r.StandardPaymentAmount),
		Payments:       payments,
	}, nil
}
