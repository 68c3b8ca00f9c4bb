package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

type memoryRepo struct {
	seq  int64
	rows map[int64]Payslip
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]Payslip{}}
}

func (m *memoryRepo) InsertPayslip(ctx context.Context, p *Payslip) error {
	m.seq++
	p.ID = m.seq
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryRepo) GetPayslip(ctx context.Context, id int64) (Payslip, error) {
	p, ok := m.rows[id]
	if !ok {
		return Payslip{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) ListPayslips(ctx context.Context, employeeID int64, year, month int) ([]Payslip, error) {
	var out []Payslip
	for _, p := range m.rows {
		if employeeID != 0 && p.EmployeeID != employeeID {
			continue
		}
		if year != 0 && p.PeriodYear != year {
			continue
		}
		if month != 0 && p.PeriodMonth != month {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryRepo) SetPaid(ctx context.Context, id int64, paidAt time.Time) (Payslip, error) {
	p, ok := m.rows[id]
	if !ok {
		return Payslip{}, httpx.ErrNotFound
	}
	p.Status = StatusPaid
	p.PaidAt = &paidAt
	m.rows[id] = p
	return p, nil
}

type fixedCommissions struct {
	total decimal.Decimal
}

func (f fixedCommissions) ApprovedTotal(ctx context.Context, employeeID int64, year, month int) (decimal.Decimal, error) {
	return f.total, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNetPay(t *testing.T) {
	got := NetPay(dec("3000"), dec("250.505"), dec("100"), dec("75.25"))
	require.True(t, dec("3275.26").Equal(got), "got %s", got)
}

func TestCreatePayslipFoldsComponents(t *testing.T) {
	svc := NewService(nil, newMemoryRepo(), fixedCommissions{total: dec("500")}, nil)

	p, err := svc.CreatePayslip(context.Background(), CreatePayslipInput{
		EmployeeID:  1,
		PeriodYear:  2025,
		PeriodMonth: 6,
		BaseSalary:  "3000",
		Bonuses:     "200",
		Deductions:  "150.50",
	})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, p.Status)
	require.True(t, dec("3549.50").Equal(p.NetPay), "got %s", p.NetPay)
	require.Equal(t, "$3,549.50", p.NetPayLabel)
}

func TestCreatePayslipRejectsBadAmount(t *testing.T) {
	svc := NewService(nil, newMemoryRepo(), nil, nil)
	_, err := svc.CreatePayslip(context.Background(), CreatePayslipInput{
		EmployeeID: 1, PeriodYear: 2025, PeriodMonth: 6, BaseSalary: "three grand",
	})
	require.ErrorIs(t, err, ErrBadAmount)
}

func TestMarkPaidOnce(t *testing.T) {
	svc := NewService(nil, newMemoryRepo(), nil, nil)
	p, err := svc.CreatePayslip(context.Background(), CreatePayslipInput{
		EmployeeID: 1, PeriodYear: 2025, PeriodMonth: 6, BaseSalary: "1000",
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.MarkPaid(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)
}

type recordingNotifier struct {
	paid []Payslip
}

func (n *recordingNotifier) PayslipPaid(ctx context.Context, p Payslip) error {
	n.paid = append(n.paid, p)
	return nil
}

func TestMarkPaidNotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(nil, newMemoryRepo(), nil, notifier)
	p, err := svc.CreatePayslip(context.Background(), CreatePayslipInput{
		EmployeeID: 7, PeriodYear: 2025, PeriodMonth: 6, BaseSalary: "1200",
	})
	require.NoError(t, err)
	require.Empty(t, notifier.paid)

	paid, err := svc.MarkPaid(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, notifier.paid, 1)
	require.Equal(t, paid.ID, notifier.paid[0].ID)
	require.Equal(t, paid.NetPayLabel, notifier.paid[0].NetPayLabel)

	_, err = svc.MarkPaid(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)
	require.Len(t, notifier.paid, 1)
}
