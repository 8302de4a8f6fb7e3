package recognition

// =============================================================================
// RECALCULATION ENGINE - Recognition over actual payment dates
// =============================================================================

// RecalcPayments recomputes per-round delay, prepayment and recognized-date
// fields from caller-observed actual payments. Inputs must already be in
// ascending installment order; the walk is order-sensitive because every
// round's adjustment divides the running totals accumulated by its
// predecessors.
//
// Prepayment recognition is clamped to the 24-month window: a payment made
// earlier than dueDate - 24 months is treated as paid exactly at the window
// boundary, and the reported paid date reflects that clamp.
//
// asOf is the evaluation date for IsRecognized; pass Today() outside tests.
func RecalcPayments(payments []PaymentInput, asOf Date) []Round {
	rounds := make([]Round, 0, len(payments))
	totalDelay := 0
	totalPrepaid := 0

	for _, p := range payments {
		paid := p.PaidDate
		if earliest := p.DueDate.AddMonths(-prepaymentWindowMonths); paid.Before(earliest) {
			paid = earliest
		}

		signed := DaysBetween(p.DueDate, paid)
		delay, prepaid := 0, 0
		if signed > 0 {
			delay = signed
			totalDelay += signed
		} else if signed < 0 {
			prepaid = -signed
			totalPrepaid += prepaid
		}

		adjustment := 0
		if p.InstallmentNo > 0 {
			adjustment = floorDiv(totalDelay-totalPrepaid, p.InstallmentNo)
		}
		recognized := p.DueDate.AddDays(adjustment)

		// Every recalculated round has a payment, so the status is never
		// missed; it only reflects timing.
		status := StatusNormal
		if delay > 0 {
			status = StatusDelayed
		} else if prepaid > 0 {
			status = StatusPrepaid
		}

		paidOut, recognizedOut := paid, recognized
		rounds = append(rounds, Round{
			InstallmentNo:    p.InstallmentNo,
			DueDate:          p.DueDate,
			PaidDate:         &paidOut,
			RecognizedDate:   &recognizedOut,
			DelayDays:        delay,
			TotalDelayDays:   totalDelay,
			PrepaidDays:      prepaid,
			TotalPrepaidDays: totalPrepaid,
			Status:           status,
			IsRecognized:     !recognized.After(asOf),
		})
	}
	return rounds
}

// floorDiv divides flooring toward negative infinity. Go's integer division
// truncates toward zero, which would shift recognized dates one day late
// whenever accumulated prepayment exceeds accumulated delay.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
