package shared

// Core platform permissions.
const (
	PermPermissionsView   = "permissions.view"
	PermPermissionsManage = "permissions.manage"

	PermEmployeesView   = "employees.view"
	PermEmployeesManage = "employees.manage"

	PermAuditView = "audit.view"
)

// Business module permissions.
const (
	PermClientsView   = "clients.view"
	PermClientsManage = "clients.manage"

	PermDepositsView   = "deposits.view"
	PermDepositsManage = "deposits.manage"

	PermCalendarView = "calendar.view"

	PermDashboardView = "dashboard.view"

	PermTargetsView   = "targets.view"
	PermTargetsManage = "targets.manage"

	PermCommissionsView   = "commissions.view"
	PermCommissionsManage = "commissions.manage"

	PermPayrollView   = "payroll.view"
	PermPayrollManage = "payroll.manage"

	PermAttendanceView   = "attendance.view"
	PermAttendanceManage = "attendance.manage"
)

// CoreScopes lists all permissions related to platform administration.
func CoreScopes() []string {
	return []string{
		PermPermissionsView,
		PermPermissionsManage,
		PermEmployeesView,
		PermEmployeesManage,
		PermAuditView,
	}
}

// BusinessScopes lists all permissions related to the business modules.
func BusinessScopes() []string {
	return []string{
		PermClientsView,
		PermClientsManage,
		PermDepositsView,
		PermDepositsManage,
		PermCalendarView,
		PermDashboardView,
		PermTargetsView,
		PermTargetsManage,
		PermCommissionsView,
		PermCommissionsManage,
		PermPayrollView,
		PermPayrollManage,
		PermAttendanceView,
		PermAttendanceManage,
	}
}
