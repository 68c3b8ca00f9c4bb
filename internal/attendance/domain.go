package attendance

import "time"

// Entry is one employee's attendance record for a day.
type Entry struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	Day        time.Time  `json:"day"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// MonthlySummary aggregates one employee's month.
type MonthlySummary struct {
	EmployeeID  int64   `json:"employee_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	DaysPresent int     `json:"days_present"`
	TotalHours  float64 `json:"total_hours"`
	OpenEntries int     `json:"open_entries"`
}
