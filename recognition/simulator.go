/*
simulator.go - Round-by-round recognition simulation

PURPOSE:
  Builds a monthly schedule from a date range and payment day, overlays
  caller-supplied per-round overrides, resolves paid amounts from the
  selected policy, applies the delay/prepayment recognition walk and
  aggregates recognized rounds and amounts.

PHASES:
  A. Schedule construction - one candidate round per month in the range
  B. Paid-amount resolution - override > standard > maximum tier > none
  C. Recognition dates - the same running-total walk as RecalcPayments,
     but only paid rounds move the totals; a per-round prepayment beyond
     721 days fails the whole call
  D. Aggregation - recognized counts, per-round capped amounts, statuses

NOTE ON THE 24-MONTH CLAMP:
  Unlike RecalcPayments, the simulation takes the caller's paid dates at
  face value and applies only the 721-day hard cap. Simulated schedules
  describe what the subscriber actually did, not what the bank would have
  re-anchored the payment to.

SEE ALSO:
  - recalc.go: the recalculation variant of phases C
  - amount.go: the date-tiered recognition ceiling
*/
package recognition

// workingRound carries a candidate round between phases before its
// recognition fields exist.
type workingRound struct {
	no     int
	due    Date
	paid   *Date
	amount Amount
}

// CalculateRecognitionDetails runs a full recognition simulation.
//
// A start date after the end date yields an empty summary, not an error.
// An impossible payment day for a month in the range (day 31 in April)
// fails with a DateError; a round prepaid beyond 721 days fails with
// ErrPrepaymentCapExceeded. No partial result accompanies an error.
func CalculateRecognitionDetails(req CalculatorRequest, asOf Date) (*Summary, error) {
	if req.PaymentDay < 1 || req.PaymentDay > 31 {
		return nil, &DateError{Year: req.StartDate.Year(), Month: req.StartDate.Month(), Day: req.PaymentDay}
	}

	overrides := make(map[int]CustomPayment, len(req.Payments))
	for _, cp := range req.Payments {
		overrides[cp.InstallmentNo] = cp
	}

	// Phase A + B: walk month starts, fix each round's paid date and amount.
	var working []workingRound
	no := 1
	current := StartOfMonth(req.StartDate.Year(), req.StartDate.Month())
	endMonth := StartOfMonth(req.EndDate.Year(), req.EndDate.Month())

	for !current.After(endMonth) {
		due, err := MakeDate(current.Year(), current.Month(), req.PaymentDay)
		if err != nil {
			return nil, err
		}
		if due.After(req.EndDate) {
			break
		}

		override, hasOverride := overrides[no]
		paidInput := due
		if hasOverride {
			paidInput = override.PaidDate
		}

		amount := ZeroAmount()
		switch {
		case hasOverride && override.PaidAmount != nil:
			amount = *override.PaidAmount
		case req.AmountOption == OptionStandard:
			if req.StandardAmount != nil {
				amount = *req.StandardAmount
			}
		case req.AmountOption == OptionMaximum:
			amount = DefaultAmountPolicy.CapFor(paidInput)
		}

		// A zero-amount round is unpaid no matter what date came with it.
		var paid *Date
		if amount.IsPositive() {
			p := paidInput
			paid = &p
		}

		working = append(working, workingRound{no: no, due: due, paid: paid, amount: amount})
		no++
		current = current.AddMonths(1)
	}

	// Phase C + D: recognition walk and aggregation.
	summary := &Summary{
		PaymentDay: req.PaymentDay,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Details:    make([]Round, 0, len(working)),
	}
	totalDelay := 0
	totalPrepaid := 0

	for _, w := range working {
		delay, prepaid := 0, 0
		var recognized *Date

		if w.paid != nil {
			signed := DaysBetween(w.due, *w.paid)
			if signed > 0 {
				delay = signed
				totalDelay += signed
			} else if signed < 0 {
				prepaid = -signed
				if prepaid > PrepaymentCapDays {
					return nil, ErrPrepaymentCapExceeded
				}
				totalPrepaid += prepaid
			}

			adjustment := floorDiv(totalDelay-totalPrepaid, w.no)
			r := w.due.AddDays(adjustment)
			recognized = &r
		}
		// Unpaid rounds leave the running totals untouched but still carry
		// them forward into their reported fields.

		isRecognized := recognized != nil && !recognized.After(asOf)
		recognizedAmount := ZeroAmount()
		if isRecognized {
			// The ceiling is evaluated on the effective paid date, whichever
			// rule produced the amount.
			effective := w.due
			if w.paid != nil {
				effective = *w.paid
			}
			recognizedAmount = w.amount.Min(DefaultAmountPolicy.CapFor(effective))
			summary.RecognizedRounds++
			summary.TotalRecognizedAmount = summary.TotalRecognizedAmount.Add(recognizedAmount)
		} else {
			summary.UnrecognizedRounds++
		}

		summary.Details = append(summary.Details, Round{
			InstallmentNo:    w.no,
			DueDate:          w.due,
			PaidDate:         w.paid,
			RecognizedDate:   recognized,
			DelayDays:        delay,
			TotalDelayDays:   totalDelay,
			PrepaidDays:      prepaid,
			TotalPrepaidDays: totalPrepaid,
			Status:           statusOf(w.amount, delay, prepaid),
			IsRecognized:     isRecognized,
			PaidAmount:       w.amount,
			RecognizedAmount: recognizedAmount,
		})
	}

	return summary, nil
}

// =============================================================================
// SUMMARY REFRESH - Re-evaluate a stored summary as time passes
// =============================================================================

// RefreshSummary re-derives the time-dependent fields of a stored summary
// for a new as-of date. Recognized dates, delays and statuses are facts of
// the schedule and stay as stored; IsRecognized, per-round recognized
// amounts and the aggregates move as "today" advances past recognized
// dates. The input is not mutated.
func RefreshSummary(s Summary, asOf Date) Summary {
	out := s
	out.RecognizedRounds = 0
	out.UnrecognizedRounds = 0
	out.TotalRecognizedAmount = ZeroAmount()
	out.Details = make([]Round, len(s.Details))

	for i, r := range s.Details {
		refreshed := r
		refreshed.IsRecognized = r.RecognizedDate != nil && !r.RecognizedDate.After(asOf)

		if refreshed.IsRecognized {
			effective := r.DueDate
			if r.PaidDate != nil {
				effective = *r.PaidDate
			}
			refreshed.RecognizedAmount = r.PaidAmount.Min(DefaultAmountPolicy.CapFor(effective))
			out.RecognizedRounds++
			out.TotalRecognizedAmount = out.TotalRecognizedAmount.Add(refreshed.RecognizedAmount)
		} else {
			refreshed.RecognizedAmount = ZeroAmount()
			out.UnrecognizedRounds++
		}
		out.Details[i] = refreshed
	}
	return out
}
