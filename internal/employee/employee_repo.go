package employee

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// usedDayColumns maps a balance-tracked leave type to its used/allotted column
// pair on the employees table. Untracked types (maternity, paternity, unpaid)
// have no entry and must never reach AddUsedDays.
var usedDayColumns = map[string][2]string{
	"VACATION": {"used_vacation", "vacation_days"},
	"SICK":     {"used_sick", "sick_days"},
	"PERSONAL": {"used_personal", "personal_days"},
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context, search string, limit, offset int) ([]Employee, int64, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	FindOptions(ctx context.Context) ([]EmployeeOption, error)
	AddUsedDays(ctx context.Context, id, leaveType string, days int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context, search string, limit, offset int) ([]Employee, int64, error) {
	var employees []Employee
	var total int64

	q := r.db.WithContext(ctx).Model(&Employee{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR department ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("last_name, first_name").
		Limit(limit).
		Offset(offset).
		Find(&employees).Error
	return employees, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) FindOptions(ctx context.Context) ([]EmployeeOption, error) {
	var options []EmployeeOption
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("id, first_name || ' ' || last_name AS full_name, department").
		Order("full_name").
		Scan(&options).Error
	return options, err
}

// AddUsedDays atomically adjusts a used-days counter by days (positive on
// approval, negative on refund). The WHERE guard keeps 0 <= used <= allotted,
// which serializes racing approvals on the employee's balance row: the loser's
// update matches no row and the caller sees false.
func (r *repository) AddUsedDays(ctx context.Context, id, leaveType string, days int) (bool, error) {
	cols, ok := usedDayColumns[leaveType]
	if !ok {
		return false, fmt.Errorf("leave type %s is not balance-tracked", leaveType)
	}
	usedCol, allottedCol := cols[0], cols[1]

	res := r.db.WithContext(ctx).Exec(fmt.Sprintf(`
		UPDATE employees
		SET %[1]s = %[1]s + ?, updated_at = now()
		WHERE id = ?
			AND %[1]s + ? >= 0
			AND %[1]s + ? <= %[2]s
	`, usedCol, allottedCol), days, id, days, days)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
