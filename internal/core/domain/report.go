package domain

import "time"

// DashboardStats is the key summary shown on the dashboard
type DashboardStats struct {
	TotalKeys     int `json:"totalKeys"`
	KeysIssued    int `json:"keysIssued"`
	KeysAvailable int `json:"keysAvailable"`
	OverdueKeys   int `json:"overdueKeys"`
}

// StatusCount is one slice of the status distribution
type StatusCount struct {
	Name  KeyStatus `json:"name"`
	Value int       `json:"value"`
}

// DepartmentCount is the number of keys currently held by a department
type DepartmentCount struct {
	Name string `json:"name"`
	Keys int    `json:"keys"`
}

// OverdueKeyInfo describes an overdue key and who holds it
type OverdueKeyInfo struct {
	KeyNumber  string    `json:"keyNumber"`
	RoomNumber string    `json:"roomNumber"`
	UserName   string    `json:"userName"`
	Department string    `json:"department"`
	DueDate    time.Time `json:"dueDate"`
}

// ReportSummary aggregates keys, assignments and users
type ReportSummary struct {
	StatusDistribution []StatusCount     `json:"statusDistribution"`
	DepartmentActivity []DepartmentCount `json:"departmentActivity"`
	OverdueKeys        []OverdueKeyInfo  `json:"overdueKeys"`
}

// UnknownName stands in for a user that no longer exists
const UnknownName = "Unknown"
