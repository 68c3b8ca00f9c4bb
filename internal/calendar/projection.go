package calendar

import (
	"time"

	"github.com/bizdesk/bizdesk/internal/deposits"
)

// ProjectDeposits emits one recurring "deposit" event per projecting deposit
// for the displayed month. The event lands on the deposit's original
// day-of-month; when that day does not exist in the displayed month it is
// capped to the month's last day (Jan-31 projects to Feb-29 in a leap year,
// Feb-28 otherwise). Months before the deposit's origination month emit
// nothing.
func ProjectDeposits(deps []deposits.Deposit, year int, month time.Month) []Event {
	displayed := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := daysInMonth(year, month)

	var events []Event
	for _, dep := range deps {
		if !dep.Projects() {
			continue
		}
		origin := time.Date(dep.DepositDate.Year(), dep.DepositDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		if displayed.Before(origin) {
			continue
		}
		day := dep.DepositDate.Day()
		if day > last {
			day = last
		}
		events = append(events, Event{
			Date:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
			Type:     EventDeposit,
			Amount:   dep.Amount,
			Status:   deposits.DisplayUpcoming,
			ClientID: dep.ClientID,
		})
	}
	return events
}

// WithdrawEvents maps schedule rows falling inside the displayed month to
// "withdraw" events, classified against today.
func WithdrawEvents(schedules []deposits.WithdrawalSchedule, year int, month time.Month, today time.Time, clientID int64) []Event {
	var events []Event
	for _, sched := range schedules {
		if sched.DueDate.Year() != year || sched.DueDate.Month() != month {
			continue
		}
		events = append(events, Event{
			Date:     sched.DueDate,
			Type:     EventWithdraw,
			Amount:   sched.Amount,
			Status:   sched.DisplayStatusAt(today),
			ClientID: clientID,
		})
	}
	return events
}

// ApplyFilter narrows the merged list. Filtering happens after the merge so a
// single rule covers every event kind.
func ApplyFilter(events []Event, filter Filter) []Event {
	if filter.Type == "" && filter.Status == "" {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if filter.Type != "" && ev.Type != filter.Type {
			continue
		}
		if filter.Status != "" && ev.Status != filter.Status {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
