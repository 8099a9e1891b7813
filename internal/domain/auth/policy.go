package auth

import (
	"fmt"
	"strings"
)

// Action names an admin-scoped capability. Own-record operations (time-in,
// filing requests, viewing own records) are open to any authenticated user
// and have no action here.
type Action string

const (
	ActionAttendanceListAll     Action = "attendance.list_all"
	ActionAttendanceBulkTimeout Action = "attendance.bulk_timeout"
	ActionLeaveReview           Action = "leave.review"
	ActionOvertimeReview        Action = "overtime.review"
	ActionReportReview          Action = "reports.review"
	ActionPayrollManage         Action = "payroll.manage"
	ActionUsersManage           Action = "users.manage"
	ActionUsersList             Action = "users.list"
)

// Policy is the single source of truth for which roles may perform which
// admin-scoped action.
var Policy = map[Action][]string{
	ActionAttendanceListAll:     AdminRoles,
	ActionAttendanceBulkTimeout: {RoleSupervisor, RoleHRAdmin, RoleSuperAdmin},
	ActionLeaveReview:           {RoleSupervisor, RoleSuperAdmin},
	ActionOvertimeReview:        {RoleSupervisor, RoleSuperAdmin},
	ActionReportReview:          {RoleManager, RoleSuperAdmin},
	ActionPayrollManage:         {RoleHRAdmin, RoleSuperAdmin},
	ActionUsersManage:           {RoleHRAdmin, RoleSuperAdmin},
	ActionUsersList:             AdminRoles,
}

type ForbiddenError struct {
	Action   Action
	Required []string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access denied, required roles: %s", strings.Join(e.Required, ", "))
}

// Authorize accepts iff role is in the required set for action. Unknown
// actions are denied outright.
func Authorize(role string, action Action) error {
	required, ok := Policy[action]
	if !ok {
		return &ForbiddenError{Action: action}
	}
	for _, candidate := range required {
		if role == candidate {
			return nil
		}
	}
	return &ForbiddenError{Action: action, Required: required}
}
