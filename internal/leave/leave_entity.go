package leave

import (
	"time"

	"go-ems/internal/employee"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeVacation  = "VACATION"
	TypeSick      = "SICK"
	TypePersonal  = "PERSONAL"
	TypeMaternity = "MATERNITY"
	TypePaternity = "PATERNITY"
	TypeUnpaid    = "UNPAID"
)

// LeaveRequest rows are never deleted: terminal requests stay in the ledger
// for audit, calendar, and statistics.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:varchar(500)"`

	Status           string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	ApprovedBy       *uuid.UUID `gorm:"type:uuid"`
	ApprovalComments *string    `gorm:"type:text"`
	ApprovedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

// isBalanceTracked reports whether the engine maintains allotted/used counters
// for the given leave type. Maternity, paternity and unpaid leave have no cap.
func isBalanceTracked(leaveType string) bool {
	switch leaveType {
	case TypeVacation, TypeSick, TypePersonal:
		return true
	}
	return false
}

func isValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
