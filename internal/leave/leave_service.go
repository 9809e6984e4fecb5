package leave

import (
	"context"
	"errors"
	"math"
	"time"

	"go-ems/internal/employee"
	"go-ems/internal/events"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/leavepolicy"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, approverID, id, comments string) (LeaveResponse, error)
	Reject(ctx context.Context, approverID, id, comments string) (LeaveResponse, error)
	Cancel(ctx context.Context, employeeID, id string) (LeaveResponse, error)
	GetRequests(ctx context.Context, page, size int, status string) ([]LeaveResponse, int64, error)
	GetEmployeeRequests(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetBalance(ctx context.Context, employeeID string) (LeaveBalanceResponse, error)
	GetCalendar(ctx context.Context, startDate, endDate, department string) ([]LeaveResponse, error)
	GetStats(ctx context.Context) (LeaveStatsResponse, error)
	GetPolicy(ctx context.Context) (PolicyResponse, error)
	UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	employees employee.Repository
	policies  leavepolicy.Repository
	notifier  Notifier
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employees employee.Repository,
	policies leavepolicy.Repository,
	notifier Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		policies:  policies,
		notifier:  notifier,
		logger:    l,
	}
}

func (s *service) Request(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("request leave",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("request leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// Inclusive day count: a single-day leave is one day, never zero.
	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("request leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emps := s.employees.WithTx(tx)

	emp, err := emps.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		s.logger.Error("request leave load employee failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if isBalanceTracked(req.LeaveType) {
		if remainingBalance(emp, req.LeaveType) < totalDays {
			s.logger.Warn("request leave insufficient balance",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", req.LeaveType),
				zap.Int("requested_days", totalDays),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("request leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("request leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("request leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("request leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("request leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", totalDays),
	)

	l.Employee = emp
	s.notify(ctx, events.EventLeaveRequested, l, employeeID)
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, approverID, id, comments string) (LeaveResponse, error) {
	return s.decide(ctx, approverID, id, comments, StatusApproved)
}

func (s *service) Reject(ctx context.Context, approverID, id, comments string) (LeaveResponse, error) {
	return s.decide(ctx, approverID, id, comments, StatusRejected)
}

// decide applies a PENDING -> APPROVED/REJECTED transition. The balance
// deduction and the status flip commit in one transaction; the status CAS
// rejects a transition that lost a race instead of overwriting it.
func (s *service) decide(ctx context.Context, approverID, id, comments, targetStatus string) (LeaveResponse, error) {
	s.logger.Debug("decide leave",
		zap.String("leave_id", id),
		zap.String("approver_id", approverID),
		zap.String("target_status", targetStatus),
	)

	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidApproverID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emps := s.employees.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	approverExists, err := emps.Exists(ctx, approverID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !approverExists {
		return LeaveResponse{}, leaveerrors.ErrApproverNotFound
	}

	if l.Status != StatusPending {
		s.logger.Warn("decide leave invalid state",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	if targetStatus == StatusApproved && isBalanceTracked(l.LeaveType) {
		deducted, err := emps.AddUsedDays(ctx, l.EmployeeID.String(), l.LeaveType, l.TotalDays)
		if err != nil {
			s.logger.Error("decide leave balance update failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !deducted {
			// A concurrent approval consumed the remaining allotment first.
			s.logger.Warn("decide leave balance guard rejected deduction",
				zap.String("leave_id", id),
				zap.String("employee_id", l.EmployeeID.String()),
			)
			return LeaveResponse{}, leaveerrors.ErrBalanceConflict
		}
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.ApprovedBy = &approverUUID
	l.ApprovedAt = &now
	if comments != "" {
		l.ApprovalComments = &comments
	}

	moved, err := qtx.TransitionStatus(ctx, l, StatusPending)
	if err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !moved {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("decide leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)

	eventType := events.EventLeaveApproved
	if targetStatus == StatusRejected {
		eventType = events.EventLeaveRejected
	}
	s.notify(ctx, eventType, l, approverID)
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, employeeID, id string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave",
		zap.String("leave_id", id),
		zap.String("employee_id", employeeID),
	)

	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emps := s.employees.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if l.EmployeeID.String() != employeeID {
		s.logger.Warn("cancel leave forbidden",
			zap.String("leave_id", id),
			zap.String("owner_id", l.EmployeeID.String()),
			zap.String("caller_id", employeeID),
		)
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}

	if l.Status == StatusRejected || l.Status == StatusCancelled {
		return LeaveResponse{}, leaveerrors.ErrAlreadyFinalized
	}

	fromStatus := l.Status

	// Withdrawing already-approved leave refunds the deducted days.
	if fromStatus == StatusApproved && isBalanceTracked(l.LeaveType) {
		refunded, err := emps.AddUsedDays(ctx, employeeID, l.LeaveType, -l.TotalDays)
		if err != nil {
			s.logger.Error("cancel leave refund failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !refunded {
			s.logger.Warn("cancel leave refund guard rejected update",
				zap.String("leave_id", id),
				zap.String("employee_id", employeeID),
			)
			return LeaveResponse{}, leaveerrors.ErrBalanceConflict
		}
	}

	l.Status = StatusCancelled
	moved, err := qtx.TransitionStatus(ctx, l, fromStatus)
	if err != nil {
		s.logger.Error("cancel leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !moved {
		return LeaveResponse{}, leaveerrors.ErrAlreadyFinalized
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("cancel leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("from_status", fromStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetRequests(ctx context.Context, page, size int, status string) ([]LeaveResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if status != "" && !isValidStatus(status) {
		return nil, 0, leaveerrors.ErrInvalidStatusFilter
	}

	leaves, total, err := s.repo.FindPaged(ctx, status, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetEmployeeRequests(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetBalance(ctx context.Context, employeeID string) (LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveBalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveBalanceResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveBalanceResponse{}, err
	}

	policy, err := s.currentPolicy(ctx)
	if err != nil {
		return LeaveBalanceResponse{}, err
	}

	// Remaining values are reported as-is; a negative value signals corrupted
	// balance data and should be visible, not clamped away.
	return LeaveBalanceResponse{
		EmployeeID:        employeeID,
		VacationDays:      emp.VacationDays,
		SickDays:          emp.SickDays,
		PersonalDays:      emp.PersonalDays,
		UsedVacation:      emp.UsedVacation,
		UsedSick:          emp.UsedSick,
		UsedPersonal:      emp.UsedPersonal,
		RemainingVacation: emp.VacationDays - emp.UsedVacation,
		RemainingSick:     emp.SickDays - emp.UsedSick,
		RemainingPersonal: emp.PersonalDays - emp.UsedPersonal,
		MaternityDays:     policy.MaternityDays,
		PaternityDays:     policy.PaternityDays,
	}, nil
}

func (s *service) GetCalendar(ctx context.Context, startDate, endDate, department string) ([]LeaveResponse, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var leaves []LeaveRequest
	if department != "" {
		leaves, err = s.repo.FindApprovedByDepartmentInRange(ctx, department, start, end)
	} else {
		leaves, err = s.repo.FindApprovedInRange(ctx, start, end)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetStats(ctx context.Context) (LeaveStatsResponse, error) {
	pending, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		return LeaveStatsResponse{}, err
	}

	approvedThisMonth, err := s.repo.CountApprovedInMonth(ctx, time.Now().UTC())
	if err != nil {
		return LeaveStatsResponse{}, err
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return LeaveStatsResponse{}, err
	}

	avg, err := s.repo.AverageApprovedDuration(ctx)
	if err != nil {
		return LeaveStatsResponse{}, err
	}

	return LeaveStatsResponse{
		PendingRequests:      pending,
		ApprovedThisMonth:    approvedThisMonth,
		TotalRequests:        total,
		AverageLeaveDuration: math.Round(avg*10) / 10,
	}, nil
}

func (s *service) GetPolicy(ctx context.Context) (PolicyResponse, error) {
	policy, err := s.currentPolicy(ctx)
	if err != nil {
		return PolicyResponse{}, err
	}
	return mapToPolicyResponse(policy), nil
}

func (s *service) UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error) {
	s.logger.Debug("update leave policy")

	p := leavepolicy.Default()
	p.VacationDays = req.VacationDays
	p.SickDays = req.SickDays
	p.PersonalDays = req.PersonalDays
	p.MaternityDays = req.MaternityDays
	p.PaternityDays = req.PaternityDays
	p.MaxConsecutiveDays = req.MaxConsecutiveDays
	p.AdvanceNoticeDays = req.AdvanceNoticeDays
	p.CarryOverEnabled = req.CarryOverEnabled
	p.MaxCarryOverDays = req.MaxCarryOverDays

	if err := s.policies.Save(ctx, p); err != nil {
		s.logger.Error("update leave policy persist failed", zap.Error(err))
		return PolicyResponse{}, err
	}

	// Re-read so the response carries the bumped version.
	saved, err := s.policies.GetCurrent(ctx)
	if err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("update leave policy success", zap.Int("version", saved.Version))
	return mapToPolicyResponse(saved), nil
}

// currentPolicy loads the active policy, provisioning defaults on first use.
func (s *service) currentPolicy(ctx context.Context) (*leavepolicy.LeavePolicy, error) {
	policy, err := s.policies.GetCurrent(ctx)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	policy = leavepolicy.Default()
	if err := s.policies.Save(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func remainingBalance(e *employee.Employee, leaveType string) int {
	switch leaveType {
	case TypeVacation:
		return e.VacationDays - e.UsedVacation
	case TypeSick:
		return e.SickDays - e.UsedSick
	case TypePersonal:
		return e.PersonalDays - e.UsedPersonal
	}
	return 0
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName()
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.ApprovalComments = l.ApprovalComments
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapToPolicyResponse(p *leavepolicy.LeavePolicy) PolicyResponse {
	return PolicyResponse{
		Version:            p.Version,
		VacationDays:       p.VacationDays,
		SickDays:           p.SickDays,
		PersonalDays:       p.PersonalDays,
		MaternityDays:      p.MaternityDays,
		PaternityDays:      p.PaternityDays,
		MaxConsecutiveDays: p.MaxConsecutiveDays,
		AdvanceNoticeDays:  p.AdvanceNoticeDays,
		CarryOverEnabled:   p.CarryOverEnabled,
		MaxCarryOverDays:   p.MaxCarryOverDays,
	}
}
