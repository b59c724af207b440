package dashboard

// DashboardResponse is the combined response for the admin dashboard endpoint
type DashboardResponse struct {
	Date  string             `json:"date"` // Format: "YYYY-MM-DD"
	Today TodayStatsResponse `json:"today"`
	Month MonthStatsResponse `json:"month"`
}

// ========== TODAY ==========

// TodayStatsResponse counts today's records among active employees
type TodayStatsResponse struct {
	TotalActive int64 `json:"total_active"`
	Present     int64 `json:"present"`
	Excused     int64 `json:"excused"`
	Sick        int64 `json:"sick"`
	Absent      int64 `json:"absent"`
	Late        int64 `json:"late"`
	NotRecorded int64 `json:"not_recorded"`
}

// ========== MONTH ==========

// MonthStatsResponse sums this month's records per status
type MonthStatsResponse struct {
	Month                string                 `json:"month"` // Format: "YYYY-MM"
	Present              int64                  `json:"present"`
	Excused              int64                  `json:"excused"`
	Sick                 int64                  `json:"sick"`
	Absent               int64                  `json:"absent"`
	Late                 int64                  `json:"late"`
	TotalLateMinutes     int64                  `json:"total_late_minutes"`
	TotalOvertimeMinutes int64                  `json:"total_overtime_minutes"`
	LatestRecords        []AttendanceRecordItem `json:"latest_records"` // Latest 10 records
}

// AttendanceRecordItem represents a single attendance record in the list
type AttendanceRecordItem struct {
	No           int     `json:"no"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in,omitempty"` // Format: "HH:MM"
}
