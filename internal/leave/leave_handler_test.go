package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	requestFn             func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	approveFn             func(ctx context.Context, approverID, id, comments string) (leave.LeaveResponse, error)
	rejectFn              func(ctx context.Context, approverID, id, comments string) (leave.LeaveResponse, error)
	cancelFn              func(ctx context.Context, employeeID, id string) (leave.LeaveResponse, error)
	getRequestsFn         func(ctx context.Context, page, size int, status string) ([]leave.LeaveResponse, int64, error)
	getEmployeeRequestsFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	getBalanceFn          func(ctx context.Context, employeeID string) (leave.LeaveBalanceResponse, error)
	getCalendarFn         func(ctx context.Context, startDate, endDate, department string) ([]leave.LeaveResponse, error)
	getStatsFn            func(ctx context.Context) (leave.LeaveStatsResponse, error)
	getPolicyFn           func(ctx context.Context) (leave.PolicyResponse, error)
	updatePolicyFn        func(ctx context.Context, req leave.UpdatePolicyRequest) (leave.PolicyResponse, error)
}

func (f *fakeLeaveService) Request(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.requestFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, approverID, id, comments string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, approverID, id, comments)
}
func (f *fakeLeaveService) Reject(ctx context.Context, approverID, id, comments string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, approverID, id, comments)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, employeeID, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, employeeID, id)
}
func (f *fakeLeaveService) GetRequests(ctx context.Context, page, size int, status string) ([]leave.LeaveResponse, int64, error) {
	return f.getRequestsFn(ctx, page, size, status)
}
func (f *fakeLeaveService) GetEmployeeRequests(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getEmployeeRequestsFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetBalance(ctx context.Context, employeeID string) (leave.LeaveBalanceResponse, error) {
	return f.getBalanceFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetCalendar(ctx context.Context, startDate, endDate, department string) ([]leave.LeaveResponse, error) {
	return f.getCalendarFn(ctx, startDate, endDate, department)
}
func (f *fakeLeaveService) GetStats(ctx context.Context) (leave.LeaveStatsResponse, error) {
	return f.getStatsFn(ctx)
}
func (f *fakeLeaveService) GetPolicy(ctx context.Context) (leave.PolicyResponse, error) {
	return f.getPolicyFn(ctx)
}
func (f *fakeLeaveService) UpdatePolicy(ctx context.Context, req leave.UpdatePolicyRequest) (leave.PolicyResponse, error) {
	return f.updatePolicyFn(ctx, req)
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			requestFn: func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, employeeID)
				assert.Equal(t, leave.TypeVacation, req.LeaveType)
				return leave.LeaveResponse{
					ID:         uuid.New().String(),
					EmployeeID: employeeID,
					LeaveType:  req.LeaveType,
					StartDate:  req.StartDate,
					EndDate:    req.EndDate,
					TotalDays:  2,
					Status:     leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"VACATION","start_date":"2026-03-10","end_date":"2026-03-11","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Nil(t, env.Error)
	})

	t.Run("negative missing leave_type", func(t *testing.T) {
		svc := &fakeLeaveService{}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"start_date":"2026-03-10","end_date":"2026-03-11"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})

	t.Run("negative insufficient balance maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestFn: func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"VACATION","start_date":"2026-03-10","end_date":"2026-03-11"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("success passes comments", func(t *testing.T) {
		approverID := uuid.New().String()
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comments string) (leave.LeaveResponse, error) {
				assert.Equal(t, approverID, aid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, "looks fine", comments)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"comments":"looks fine"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+leaveID+"/approve", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", approverID)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success without body", func(t *testing.T) {
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comments string) (leave.LeaveResponse, error) {
				assert.Empty(t, comments)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative already decided maps to conflict", func(t *testing.T) {
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, comments string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyDecided
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("negative not owner maps to forbidden", func(t *testing.T) {
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, employeeID, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotRequestOwner
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+leaveID+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", uuid.New().String())

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success forwards paging and status", func(t *testing.T) {
		svc := &fakeLeaveService{
			getRequestsFn: func(ctx context.Context, page, size int, status string) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, 2, page)
				assert.Equal(t, 5, size)
				assert.Equal(t, leave.StatusPending, status)
				return []leave.LeaveResponse{{ID: uuid.New().String()}}, 6, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave/requests?page=2&page_size=5&status=PENDING", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}

func TestLeaveHandler_GetBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			getBalanceFn: func(ctx context.Context, id string) (leave.LeaveBalanceResponse, error) {
				assert.Equal(t, employeeID, id)
				return leave.LeaveBalanceResponse{EmployeeID: id, RemainingVacation: 13}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave/balance/"+employeeID, nil)
		c.Params = gin.Params{{Key: "employeeId", Value: employeeID}}

		h.GetBalance(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_UpdatePolicy(t *testing.T) {
	t.Run("negative invalid payload", func(t *testing.T) {
		svc := &fakeLeaveService{}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"vacation_days":-1}`
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/policy", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.UpdatePolicy(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
