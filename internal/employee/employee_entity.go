package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FirstName      string    `gorm:"type:varchar(50);not null"`
	LastName       string    `gorm:"type:varchar(50);not null"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	PhoneNumber    string    `gorm:"type:varchar(20)"`
	Department     string    `gorm:"type:varchar(100);not null;index:idx_employees_department"`
	Position       string    `gorm:"type:varchar(100);not null"`
	Salary         float64   `gorm:"type:numeric(12,2)"`
	HireDate       time.Time `gorm:"type:date"`

	// Per-category leave balances. Allotted days are provisioned from the
	// current leave policy at creation; used counters are mutated only by the
	// leave lifecycle engine. Maternity/paternity/unpaid leave is untracked.
	VacationDays int `gorm:"type:int;not null;default:20"`
	SickDays     int `gorm:"type:int;not null;default:10"`
	PersonalDays int `gorm:"type:int;not null;default:5"`
	UsedVacation int `gorm:"type:int;not null;default:0"`
	UsedSick     int `gorm:"type:int;not null;default:0"`
	UsedPersonal int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
