package report

// Times holds the formatted first-in/last-out pair for the day.
type Times struct {
	In  *string `json:"in,omitempty"`
	Out *string `json:"out,omitempty"`
}

// DailyStatus is the derived classification for one employee and day. It is
// recomputed on every request and never persisted.
type DailyStatus struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Date         string `json:"date"`
	Status       []Tag  `json:"status"`
	Remarks      string `json:"remarks,omitempty"`
	Color        Color  `json:"color"`
	Times        Times  `json:"times"`
}

// RangeFilter scopes a date-range report. Empty EmployeeID means all
// employees.
type RangeFilter struct {
	EmployeeID string `json:"employee_id,omitempty"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}
