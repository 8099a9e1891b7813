package payroll

// Entry is one immutable payroll document at payroll/{employeeUid}/{id}.
// There is no update path; corrections are issued as new entries.
type Entry struct {
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
	Cutoff      string  `json:"cutoff"`
	BasicPay    float64 `json:"basicPay"`
	OTPay       float64 `json:"otPay"`
	Incentives  float64 `json:"incentives"`
	GrossPay    float64 `json:"grossPay"`
	OTHours     float64 `json:"otHours"`
	OTType      string  `json:"otType"`
	HourlyRate  float64 `json:"hourlyRate"`
	GeneratedAt string  `json:"generatedAt"`
	GeneratedBy string  `json:"generatedBy"`
}

type ListedEntry struct {
	ID string `json:"id"`
	Entry
}

type GenerateInput struct {
	EmployeeUID string
	PeriodStart string
	PeriodEnd   string
	Cutoff      string
	BasicPay    float64
	OTPay       float64
	Incentives  float64
	OTHours     float64
	OTType      string
	HourlyRate  float64
}

const (
	// DefaultOTType is the overtime classification applied when the
	// request leaves it blank.
	DefaultOTType = "Regular Workday (×1.25)"
	// DefaultHourlyRate is the clinic's standard hourly rate.
	DefaultHourlyRate = 231
)
