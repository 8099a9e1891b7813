package attendance

// Record is one employee-day attendance document, keyed by (uid, date).
type Record struct {
	TimeIn          string  `json:"timeIn"`
	TimeOut         string  `json:"timeOut"`
	TotalHours      float64 `json:"totalHours"`
	ExtraHours      float64 `json:"extraHours"`
	Status          string  `json:"status"`
	AdminTimedOut   bool    `json:"adminTimedOut"`
	AdminTimedOutAt string  `json:"adminTimedOutAt,omitempty"`
	AdminTimedOutBy string  `json:"adminTimedOutBy,omitempty"`
}

type DayRecord struct {
	Date string `json:"date"`
	Record
}

// EmployeeDayRecord is an admin-listing row enriched with the owner's
// profile fields.
type EmployeeDayRecord struct {
	UID         string `json:"uid"`
	Date        string `json:"date"`
	DisplayName string `json:"display_name"`
	EmployeeID  string `json:"employee_id"`
	Record
}
