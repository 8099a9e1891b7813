package leave

// Request is one leave request document at leave/{uid}/{id}.
type Request struct {
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	ReviewedBy string `json:"reviewedBy,omitempty"`
	ReviewedAt string `json:"reviewedAt,omitempty"`
}

type FileInput struct {
	Type      string
	StartDate string
	EndDate   string
	Reason    string
}
