package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestAuthorizeAdminActions(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		action Action
		allow  bool
	}{
		{"supervisor lists attendance", RoleSupervisor, ActionAttendanceListAll, true},
		{"manager lists attendance", RoleManager, ActionAttendanceListAll, true},
		{"employee lists attendance", RoleEmployee, ActionAttendanceListAll, false},
		{"manager cannot bulk time out", RoleManager, ActionAttendanceBulkTimeout, false},
		{"hr_admin bulk times out", RoleHRAdmin, ActionAttendanceBulkTimeout, true},
		{"supervisor reviews leave", RoleSupervisor, ActionLeaveReview, true},
		{"hr_admin cannot review leave", RoleHRAdmin, ActionLeaveReview, false},
		{"manager reviews reports", RoleManager, ActionReportReview, true},
		{"supervisor cannot review reports", RoleSupervisor, ActionReportReview, false},
		{"hr_admin manages payroll", RoleHRAdmin, ActionPayrollManage, true},
		{"supervisor cannot manage payroll", RoleSupervisor, ActionPayrollManage, false},
		{"super_admin everywhere", RoleSuperAdmin, ActionUsersManage, true},
		{"employee cannot manage users", RoleEmployee, ActionUsersManage, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.role, tc.action)
			if tc.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allow && err == nil {
				t.Fatal("expected forbidden")
			}
		})
	}
}

func TestAuthorizeReportsRequiredRoles(t *testing.T) {
	err := Authorize(RoleEmployee, ActionLeaveReview)
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if len(forbidden.Required) != 2 {
		t.Fatalf("expected 2 required roles, got %v", forbidden.Required)
	}
	if !strings.Contains(forbidden.Error(), RoleSupervisor) {
		t.Fatalf("error message should name required roles, got %q", forbidden.Error())
	}
}

func TestAuthorizeUnknownActionDenied(t *testing.T) {
	if err := Authorize(RoleSuperAdmin, Action("nope")); err == nil {
		t.Fatal("unknown action must be denied")
	}
}

func TestSuperAdminAllowedEverywhere(t *testing.T) {
	for action := range Policy {
		if err := Authorize(RoleSuperAdmin, action); err != nil {
			t.Fatalf("super_admin denied %s: %v", action, err)
		}
	}
}
