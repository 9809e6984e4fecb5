package employee

type CreateEmployeeRequest struct {
	FirstName   string  `json:"first_name" binding:"required,min=2,max=50"`
	LastName    string  `json:"last_name" binding:"required,min=2,max=50"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber string  `json:"phone_number"`
	Department  string  `json:"department" binding:"required"`
	Position    string  `json:"position" binding:"required"`
	Salary      float64 `json:"salary" binding:"omitempty,min=0"`
	HireDate    string  `json:"hire_date"`
}

type UpdateEmployeeRequest struct {
	FirstName   string  `json:"first_name" binding:"required,min=2,max=50"`
	LastName    string  `json:"last_name" binding:"required,min=2,max=50"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber string  `json:"phone_number"`
	Department  string  `json:"department" binding:"required"`
	Position    string  `json:"position" binding:"required"`
	Salary      float64 `json:"salary" binding:"omitempty,min=0"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number,omitempty"`
	Department     string  `json:"department"`
	Position       string  `json:"position"`
	Salary         float64 `json:"salary,omitempty"`
	HireDate       string  `json:"hire_date,omitempty"`
	VacationDays   int     `json:"vacation_days"`
	SickDays       int     `json:"sick_days"`
	PersonalDays   int     `json:"personal_days"`
	UsedVacation   int     `json:"used_vacation"`
	UsedSick       int     `json:"used_sick"`
	UsedPersonal   int     `json:"used_personal"`
}

// EmployeeOption is the slim shape used by dropdowns and calendars.
type EmployeeOption struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}
