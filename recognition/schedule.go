package recognition

// =============================================================================
// SCHEDULE GENERATOR - Baseline monthly installment schedule
// =============================================================================

// GenerateNormalPayments emits one on-time round per month from openDate
// until the first round past endDate. Every round is paid on its due date
// with no delay or prepayment, and is recognized as of its due date.
//
// Rounds fall on openDate's day-of-month. dueDay is validated (1-31) and
// kept for callers that record the contractual payment day, but emission
// follows the account opening day: an account opened mid-month keeps its
// opening anniversary regardless of the nominal due day.
//
// Advancing into a month that lacks the opening day (a day-31 account
// reaching April) fails with a DateError rather than clamping; the caller
// chose an anchor day that cannot produce a monthly schedule.
//
// openDate after endDate yields an empty schedule and no error.
func GenerateNormalPayments(openDate Date, dueDay int, endDate Date) ([]Round, error) {
	if dueDay < 1 || dueDay > 31 {
		return nil, &DateError{Year: openDate.Year(), Month: openDate.Month(), Day: dueDay}
	}

	var rounds []Round
	no := 1
	current := openDate
	for !current.After(endDate) {
		paid := current
		recognized := current
		rounds = append(rounds, Round{
			InstallmentNo:  no,
			DueDate:        current,
			PaidDate:       &paid,
			RecognizedDate: &recognized,
			Status:         StatusNormal,
			IsRecognized:   true,
		})

		// Advance one calendar month, keeping the opening day-of-month.
		year, month := current.Year(), current.Month()+1
		if month > 12 {
			year, month = year+1, 1
		}
		next, err := MakeDate(year, month, openDate.Day())
		if err != nil {
			return nil, err
		}
		current = next
		no++
	}
	return rounds, nil
}

// =============================================================================
// SCHEDULE SUMMARY - Response aggregate over a round sequence
// =============================================================================

// SummarizeRounds builds the aggregate the request layer returns with a
// round sequence: the number of rounds whose recognized date has passed the
// cutoff, and the final running totals. Rounds are ordered by installment,
// so the last round carries the totals.
func SummarizeRounds(rounds []Round, cutoff Date) ScheduleSummary {
	if len(rounds) == 0 {
		return ScheduleSummary{Payments: []Round{}}
	}

	recognized := 0
	for _, r := range rounds {
		if r.RecognizedDate != nil && !r.RecognizedDate.After(cutoff) {
			recognized++
		}
	}

	last := rounds[len(rounds)-1]
	return ScheduleSummary{
		TotalInstallments: recognized,
		TotalDelayDays:    last.TotalDelayDays,
		TotalPrepaidDays:  last.TotalPrepaidDays,
		Payments:          rounds,
	}
}
