package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindPaged(ctx context.Context, status string, limit, offset int) ([]LeaveRequest, int64, error)
	TransitionStatus(ctx context.Context, l *LeaveRequest, fromStatus string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	FindApprovedInRange(ctx context.Context, startDate, endDate time.Time) ([]LeaveRequest, error)
	FindApprovedByDepartmentInRange(ctx context.Context, department string, startDate, endDate time.Time) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountApprovedInMonth(ctx context.Context, ref time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	AverageApprovedDuration(ctx context.Context) (float64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPaged(ctx context.Context, status string, limit, offset int) ([]LeaveRequest, int64, error) {
	var leaves []LeaveRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Employee").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&leaves).Error
	return leaves, total, err
}

// TransitionStatus performs a compare-and-swap on the request's status: the
// write applies only when the row is still in fromStatus. A false return means
// a concurrent transition won and the caller must not treat its own as applied.
func (r *repository) TransitionStatus(ctx context.Context, l *LeaveRequest, fromStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", l.ID, fromStatus).
		Updates(map[string]interface{}{
			"status":            l.Status,
			"approved_by":       l.ApprovedBy,
			"approval_comments": l.ApprovalComments,
			"approved_at":       l.ApprovedAt,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasOverlappingPeriod checks for a live (pending or approved) request whose
// inclusive date range intersects [startDate, endDate], regardless of leave type.
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusRejected, StatusCancelled}).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindApprovedInRange(ctx context.Context, startDate, endDate time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Order("start_date").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindApprovedByDepartmentInRange(ctx context.Context, department string, startDate, endDate time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.department = ?", department).
		Where("leave_requests.status = ?", StatusApproved).
		Where("leave_requests.start_date <= ? AND leave_requests.end_date >= ?", endDate, startDate).
		Order("leave_requests.start_date").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountApprovedInMonth counts approved requests whose leave starts in the
// calendar month of ref.
func (r *repository) CountApprovedInMonth(ctx context.Context, ref time.Time) (int64, error) {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("status = ?", StatusApproved).
		Where("start_date >= ? AND start_date < ?", monthStart, nextMonth).
		Count(&count).Error
	return count, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Count(&count).Error
	return count, err
}

func (r *repository) AverageApprovedDuration(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("COALESCE(AVG(total_days), 0)").
		Where("status = ?", StatusApproved).
		Scan(&avg).Error
	return avg, err
}
