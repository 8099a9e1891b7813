package users

// Profile is the document stored at users/{uid}.
type Profile struct {
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	EmployeeID   string `json:"employeeID"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Status       string `json:"status"`
	LeaveBalance int    `json:"leaveBalance"`
}

type ListedUser struct {
	UID string `json:"uid"`
	Profile
}

type CreateInput struct {
	UID         string
	DisplayName string
	Email       string
	Role        string
	EmployeeID  string
	Phone       string
	Address     string
	// Password, when set, provisions local login credentials alongside the
	// profile.
	Password string
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	DisplayName *string
	Role        *string
	EmployeeID  *string
	Phone       *string
	Address     *string
	Status      *string
}
