package user

type Permission string

const (
	// Self service
	PermissionAttendancePunch   Permission = "attendance.punch"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAbsenceDeclare    Permission = "absence.declare"
	PermissionAbsenceViewOwn    Permission = "absence.view_own"

	// Team and organisation
	PermissionReportsView      Permission = "reports.view"
	PermissionKPIView          Permission = "kpi.view"
	PermissionAbsenceViewAll   Permission = "absence.view_all"
	PermissionAbsenceReview    Permission = "absence.review"
	PermissionAbsenceReconcile Permission = "absence.reconcile"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAbsenceDeclare,
		PermissionAbsenceViewOwn,
		PermissionReportsView,
		PermissionKPIView,
		PermissionAbsenceViewAll,
		PermissionAbsenceReview,
		PermissionAbsenceReconcile,
	},
	RoleManager: {
		// Same capabilities as admin, narrowed to the managed team by scope resolution
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAbsenceDeclare,
		PermissionAbsenceViewOwn,
		PermissionReportsView,
		PermissionKPIView,
		PermissionAbsenceViewAll,
		PermissionAbsenceReview,
		PermissionAbsenceReconcile,
	},
	RoleEmployee: {
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAbsenceDeclare,
		PermissionAbsenceViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
