package dashboard

import "time"

// ProfileRow is the slim employee-profile projection the aggregator reads.
type ProfileRow struct {
	CreatedAt time.Time
	IsActive  bool
}

// ClientRow is the slim client projection the aggregator reads.
type ClientRow struct {
	CreatedAt time.Time
	Status    string
}

// DepositRow is the slim deposit projection the aggregator reads.
type DepositRow struct {
	CreatedAt time.Time
	Amount    float64
}

// InvestmentRow links a deposit amount to the employee managing the client.
// AssignedTo is nil for unassigned clients.
type InvestmentRow struct {
	AssignedTo *int64
	Amount     float64
}

// Overview carries the dashboard headline numbers. Change percentages compare
// the current cumulative total against the total as it stood one calendar
// month ago.
type Overview struct {
	ActiveEmployees   int     `json:"active_employees"`
	EmployeesChange   int     `json:"employees_change"`
	TotalClients      int     `json:"total_clients"`
	ClientsChange     int     `json:"clients_change"`
	TotalInvestments  float64 `json:"total_investments"`
	InvestmentsChange int     `json:"investments_change"`
	LateClients       int     `json:"late_clients"`
}

// EmployeeRank is one entry of the top-performer board.
type EmployeeRank struct {
	EmployeeID int64   `json:"employee_id"`
	Total      float64 `json:"total"`
}
