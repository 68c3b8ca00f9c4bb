package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizdesk/bizdesk/internal/payroll"
)

// PayslipMailer queues payout notification emails through the job queue.
type PayslipMailer struct {
	client *Client
	pool   *pgxpool.Pool
}

// NewPayslipMailer wires the mailer against the queue client and the database
// used to resolve recipient addresses.
func NewPayslipMailer(client *Client, pool *pgxpool.Pool) *PayslipMailer {
	return &PayslipMailer{client: client, pool: pool}
}

// PayslipPaid enqueues the payout notification for the slip's employee.
func (m *PayslipMailer) PayslipPaid(ctx context.Context, p payroll.Payslip) error {
	var email, name string
	err := m.pool.QueryRow(ctx, `SELECT a.email, ep.full_name FROM employee_profiles ep
JOIN accounts a ON a.id = ep.account_id WHERE ep.id = $1`, p.EmployeeID).Scan(&email, &name)
	if err != nil {
		return fmt.Errorf("payslip mailer: resolve recipient: %w", err)
	}
	_, err = m.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      email,
		Subject: fmt.Sprintf("Payslip %d-%02d paid", p.PeriodYear, p.PeriodMonth),
		Body:    fmt.Sprintf("Hi %s, your payslip for %d-%02d has been paid. Net pay: %s.", name, p.PeriodYear, p.PeriodMonth, p.NetPayLabel),
	})
	return err
}
