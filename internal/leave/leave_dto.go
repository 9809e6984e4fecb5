package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=VACATION SICK PERSONAL MATERNITY PATERNITY UNPAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=500"`
}

type DecisionRequest struct {
	Comments string `json:"comments" binding:"max=500"`
}

type LeaveResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	LeaveType        string  `json:"leave_type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalDays        int     `json:"total_days"`
	Reason           string  `json:"reason,omitempty"`
	Status           string  `json:"status"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovalComments *string `json:"approval_comments,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// LeaveBalanceResponse mirrors the flat balance sheet the frontend renders.
// Maternity/paternity days come from the policy and are not personalized.
type LeaveBalanceResponse struct {
	EmployeeID        string `json:"employee_id"`
	VacationDays      int    `json:"vacation_days"`
	SickDays          int    `json:"sick_days"`
	PersonalDays      int    `json:"personal_days"`
	UsedVacation      int    `json:"used_vacation"`
	UsedSick          int    `json:"used_sick"`
	UsedPersonal      int    `json:"used_personal"`
	RemainingVacation int    `json:"remaining_vacation"`
	RemainingSick     int    `json:"remaining_sick"`
	RemainingPersonal int    `json:"remaining_personal"`
	MaternityDays     int    `json:"maternity_days"`
	PaternityDays     int    `json:"paternity_days"`
}

type LeaveStatsResponse struct {
	PendingRequests      int64   `json:"pending_requests"`
	ApprovedThisMonth    int64   `json:"approved_this_month"`
	TotalRequests        int64   `json:"total_requests"`
	AverageLeaveDuration float64 `json:"average_leave_duration"`
}

type PolicyResponse struct {
	Version            int  `json:"version"`
	VacationDays       int  `json:"vacation_days"`
	SickDays           int  `json:"sick_days"`
	PersonalDays       int  `json:"personal_days"`
	MaternityDays      int  `json:"maternity_days"`
	PaternityDays      int  `json:"paternity_days"`
	MaxConsecutiveDays int  `json:"max_consecutive_days"`
	AdvanceNoticeDays  int  `json:"advance_notice_days"`
	CarryOverEnabled   bool `json:"carry_over_enabled"`
	MaxCarryOverDays   int  `json:"max_carry_over_days"`
}

type UpdatePolicyRequest struct {
	VacationDays       int  `json:"vacation_days" binding:"required,min=0"`
	SickDays           int  `json:"sick_days" binding:"required,min=0"`
	PersonalDays       int  `json:"personal_days" binding:"required,min=0"`
	MaternityDays      int  `json:"maternity_days" binding:"required,min=0"`
	PaternityDays      int  `json:"paternity_days" binding:"required,min=0"`
	MaxConsecutiveDays int  `json:"max_consecutive_days" binding:"required,min=1"`
	AdvanceNoticeDays  int  `json:"advance_notice_days" binding:"min=0"`
	CarryOverEnabled   bool `json:"carry_over_enabled"`
	MaxCarryOverDays   int  `json:"max_carry_over_days" binding:"min=0"`
}
