package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	// ErrAlreadyPaid rejects edits and double payouts on settled slips.
	ErrAlreadyPaid = errors.New("payroll: payslip already paid")
	// ErrBadAmount rejects amounts that do not parse as decimals.
	ErrBadAmount = errors.New("payroll: invalid amount")
)

// RepositoryPort describes the persistence needs of the payroll service.
type RepositoryPort interface {
	InsertPayslip(ctx context.Context, p *Payslip) error
	GetPayslip(ctx context.Context, id int64) (Payslip, error)
	ListPayslips(ctx context.Context, employeeID int64, year, month int) ([]Payslip, error)
	SetPaid(ctx context.Context, id int64, paidAt time.Time) (Payslip, error)
}

// CommissionSource supplies the approved commission total for one employee
// and period, feeding the net pay calculation.
type CommissionSource interface {
	ApprovedTotal(ctx context.Context, employeeID int64, year, month int) (decimal.Decimal, error)
}

// PayslipNotifier queues the payout notification once a slip settles. A
// failed enqueue never fails the payment itself.
type PayslipNotifier interface {
	PayslipPaid(ctx context.Context, p Payslip) error
}

// Service owns payslip creation and settlement.
type Service struct {
	logger      *slog.Logger
	repo        RepositoryPort
	commissions CommissionSource
	notifier    PayslipNotifier
	printer     *message.Printer
	now         func() time.Time
}

// NewService wires the payroll service. commissions may be nil when payroll
// runs standalone; slips then carry zero commission. notifier may be nil
// when no mail queue is attached.
func NewService(logger *slog.Logger, repo RepositoryPort, commissions CommissionSource, notifier PayslipNotifier) *Service {
	return &Service{
		logger:      logger,
		repo:        repo,
		commissions: commissions,
		notifier:    notifier,
		printer:     message.NewPrinter(language.English),
		now:         time.Now,
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrBadAmount, raw)
	}
	return d, nil
}

// NetPay folds the slip components: base plus commissions plus bonuses minus
// deductions, rounded to cents.
func NetPay(base, commissions, bonuses, deductions decimal.Decimal) decimal.Decimal {
	return base.Add(commissions).Add(bonuses).Sub(deductions).Round(2)
}

// formatLabel renders the net pay with thousands separators for display,
// e.g. "$1,234.56".
func (s *Service) formatLabel(net decimal.Decimal) string {
	f, _ := net.Float64()
	return s.printer.Sprintf("$%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// CreatePayslip computes and stores a draft slip. The commission component is
// pulled from the approved commissions of the same period.
func (s *Service) CreatePayslip(ctx context.Context, input CreatePayslipInput) (Payslip, error) {
	base, err := parseAmount(input.BaseSalary)
	if err != nil {
		return Payslip{}, err
	}
	bonuses, err := parseAmount(input.Bonuses)
	if err != nil {
		return Payslip{}, err
	}
	deductions, err := parseAmount(input.Deductions)
	if err != nil {
		return Payslip{}, err
	}

	commissions := decimal.Zero
	if s.commissions != nil {
		commissions, err = s.commissions.ApprovedTotal(ctx, input.EmployeeID, input.PeriodYear, input.PeriodMonth)
		if err != nil {
			return Payslip{}, fmt.Errorf("payroll: load commissions: %w", err)
		}
	}

	net := NetPay(base, commissions, bonuses, deductions)
	p := Payslip{
		EmployeeID:  input.EmployeeID,
		PeriodYear:  input.PeriodYear,
		PeriodMonth: input.PeriodMonth,
		BaseSalary:  base,
		Commissions: commissions,
		Bonuses:     bonuses,
		Deductions:  deductions,
		NetPay:      net,
		NetPayLabel: s.formatLabel(net),
		Status:      StatusDraft,
	}
	if err := s.repo.InsertPayslip(ctx, &p); err != nil {
		return Payslip{}, err
	}
	return p, nil
}

// GetPayslip loads one slip.
func (s *Service) GetPayslip(ctx context.Context, id int64) (Payslip, error) {
	p, err := s.repo.GetPayslip(ctx, id)
	if err != nil {
		return Payslip{}, err
	}
	p.NetPayLabel = s.formatLabel(p.NetPay)
	return p, nil
}

// ListPayslips filters by employee and period; zero values mean "any".
func (s *Service) ListPayslips(ctx context.Context, employeeID int64, year, month int) ([]Payslip, error) {
	rows, err := s.repo.ListPayslips(ctx, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].NetPayLabel = s.formatLabel(rows[i].NetPay)
	}
	return rows, nil
}

// MarkPaid settles a draft slip. Paying twice is rejected.
func (s *Service) MarkPaid(ctx context.Context, id int64) (Payslip, error) {
	current, err := s.repo.GetPayslip(ctx, id)
	if err != nil {
		return Payslip{}, err
	}
	if current.Status == StatusPaid {
		return Payslip{}, ErrAlreadyPaid
	}
	p, err := s.repo.SetPaid(ctx, id, s.now())
	if err != nil {
		return Payslip{}, err
	}
	p.NetPayLabel = s.formatLabel(p.NetPay)
	if s.notifier != nil {
		if err := s.notifier.PayslipPaid(ctx, p); err != nil && s.logger != nil {
			s.logger.Warn("payslip mail enqueue failed", slog.Int64("payslip_id", p.ID), slog.Any("error", err))
		}
	}
	return p, nil
}
