package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-ems/internal/employee"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/leavepolicy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn      func(ctx context.Context, e *employee.Employee) error
	findAllFn     func(ctx context.Context, search string, limit, offset int) ([]employee.Employee, int64, error)
	findByIDFn    func(ctx context.Context, id string) (*employee.Employee, error)
	existsFn      func(ctx context.Context, id string) (bool, error)
	updateFn      func(ctx context.Context, e *employee.Employee) error
	deleteFn      func(ctx context.Context, id string) error
	findOptionsFn func(ctx context.Context) ([]employee.EmployeeOption, error)
	addUsedDaysFn func(ctx context.Context, id, leaveType string, days int) (bool, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *gorm.DB) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]employee.Employee, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, search, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, id)
	}
	return true, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.EmployeeOption, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) AddUsedDays(ctx context.Context, id, leaveType string, days int) (bool, error) {
	if f.addUsedDaysFn != nil {
		return f.addUsedDaysFn(ctx, id, leaveType, days)
	}
	return true, nil
}

type fakePolicyRepository struct {
	getCurrentFn func(ctx context.Context) (*leavepolicy.LeavePolicy, error)
}

func (f *fakePolicyRepository) WithTx(tx *gorm.DB) leavepolicy.Repository { return f }

func (f *fakePolicyRepository) GetCurrent(ctx context.Context) (*leavepolicy.LeavePolicy, error) {
	if f.getCurrentFn != nil {
		return f.getCurrentFn(ctx)
	}
	return leavepolicy.Default(), nil
}

func (f *fakePolicyRepository) Save(ctx context.Context, p *leavepolicy.LeavePolicy) error {
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type employeeServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	service   employee.Service
	repo      *fakeEmployeeRepository
	policies  *fakePolicyRepository
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()

	repo := &fakeEmployeeRepository{}
	policies := &fakePolicyRepository{}
	svc := employee.NewService(gormDB, repo, policies, &fakeCounterRepository{}, rdb, zap.NewNop())

	return &employeeServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		service:   svc,
		repo:      repo,
		policies:  policies,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success provisions allotments from policy", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		deps.policies.getCurrentFn = func(ctx context.Context) (*leavepolicy.LeavePolicy, error) {
			p := leavepolicy.Default()
			p.VacationDays = 25
			return p, nil
		}
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, "EMP-00001", e.EmployeeNumber)
			assert.Equal(t, 25, e.VacationDays)
			assert.Equal(t, 10, e.SickDays)
			assert.Equal(t, 5, e.PersonalDays)
			return nil
		}

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FirstName:  "Dana",
			LastName:   "Reyes",
			Email:      "dana.reyes@example.com",
			Department: "Engineering",
			Position:   "Engineer",
			HireDate:   "2026-01-15",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-00001", resp.EmployeeNumber)
		assert.Equal(t, 25, resp.VacationDays)
		assert.Equal(t, "2026-01-15", resp.HireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("falls back to defaults without stored policy", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		deps.policies.getCurrentFn = func(ctx context.Context) (*leavepolicy.LeavePolicy, error) {
			return nil, gorm.ErrRecordNotFound
		}

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FirstName:  "Omar",
			LastName:   "Haddad",
			Email:      "omar.haddad@example.com",
			Department: "Finance",
			Position:   "Analyst",
		})

		assert.NoError(t, err)
		assert.Equal(t, 20, resp.VacationDays)
		assert.Equal(t, 10, resp.SickDays)
	})

	t.Run("negative invalid hire date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FirstName:  "Dana",
			LastName:   "Reyes",
			Email:      "dana.reyes@example.com",
			Department: "Engineering",
			Position:   "Engineer",
			HireDate:   "15-01-2026",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from cache on hit", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		cached := []employee.EmployeeOption{
			{ID: uuid.New().String(), FullName: "Dana Reyes", Department: "Engineering"},
		}
		payload, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(payload))

		dbHit := false
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.EmployeeOption, error) {
			dbHit = true
			return nil, nil
		}

		options, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.False(t, dbHit)
		assert.Len(t, options, 1)
		assert.Equal(t, "Dana Reyes", options[0].FullName)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("falls through to repository on miss", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		options := []employee.EmployeeOption{
			{ID: uuid.New().String(), FullName: "Omar Haddad", Department: "Finance"},
		}
		payload, _ := json.Marshal(options)

		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.redisMock.ExpectSet(employee.EmployeeOptionsKey, payload, 5*time.Minute).SetVal("OK")

		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.EmployeeOption, error) {
			return options, nil
		}

		got, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "abc")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success invalidates options cache", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, uuid.New().String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative missing employee", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.existsFn = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}

		err := deps.service.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("negative repo failure surfaces", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, eid string) (*employee.Employee, error) {
			return &employee.Employee{ID: id}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
			return errors.New("db error")
		}

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			FirstName:  "Dana",
			LastName:   "Reyes",
			Email:      "dana.reyes@example.com",
			Department: "Engineering",
			Position:   "Engineer",
		})

		assert.Error(t, err)
	})
}
