package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/leavepolicy"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOptionsKey = "employees:options"
	optionsCacheTTL    = 5 * time.Minute
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, search string, page, size int) ([]EmployeeResponse, int64, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	policies leavepolicy.Repository
	counter  counter.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	policies leavepolicy.Repository,
	counterRepo counter.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		policies: policies,
		counter:  counterRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	hireDate := time.Now().UTC()
	if req.HireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			s.logger.Warn("create employee invalid hire_date",
				zap.String("hire_date", req.HireDate),
				zap.Error(err),
			)
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		hireDate = parsed
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(tx.Error))
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// New employees are provisioned with the current policy's default allotments.
	policy, err := s.policies.WithTx(tx).GetCurrent(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("create employee load policy failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		policy = leavepolicy.Default()
	}

	nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
	if err != nil {
		s.logger.Error("create employee generate number failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: fmt.Sprintf("EMP-%05d", nextVal),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Department:     req.Department,
		Position:       req.Position,
		Salary:         req.Salary,
		HireDate:       hireDate,
		VacationDays:   policy.VacationDays,
		SickDays:       policy.SickDays,
		PersonalDays:   policy.PersonalDays,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.String("employee_number", e.EmployeeNumber),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, search string, page, size int) ([]EmployeeResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	employees, total, err := s.repo.FindAll(ctx, search, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, total, nil
}

// GetOptions serves the slim employee list from Redis when possible. A
// singleflight group collapses concurrent cache misses into one DB query.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result()
		if err == nil {
			var options []EmployeeOption
			if jsonErr := json.Unmarshal([]byte(cached), &options); jsonErr == nil {
				return options, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		options, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(options); err == nil {
				if err := s.rdb.Set(ctx, EmployeeOptionsKey, payload, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return options, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	e.PhoneNumber = req.PhoneNumber
	e.Department = req.Department
	e.Position = req.Position
	e.Salary = req.Salary

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return employeeerrors.ErrEmployeeNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx)
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Warn("invalidate employee options cache failed", zap.Error(err))
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		PhoneNumber:    e.PhoneNumber,
		Department:     e.Department,
		Position:       e.Position,
		Salary:         e.Salary,
		VacationDays:   e.VacationDays,
		SickDays:       e.SickDays,
		PersonalDays:   e.PersonalDays,
		UsedVacation:   e.UsedVacation,
		UsedSick:       e.UsedSick,
		UsedPersonal:   e.UsedPersonal,
	}
	if !e.HireDate.IsZero() {
		resp.HireDate = e.HireDate.Format("2006-01-02")
	}
	return resp
}
