package rbac_test

import (
	"testing"

	"go-ems/internal/rbac"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRBACService_Enforce(t *testing.T) {
	svc, err := rbac.NewService(zap.NewNop())
	assert.NoError(t, err)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"admin approves leave", rbac.RoleAdmin, "leave", "approve", true},
		{"admin updates policy", rbac.RoleAdmin, "leave_policy", "update", true},
		{"hr approves leave", rbac.RoleHR, "leave", "approve", true},
		{"hr cannot update policy", rbac.RoleHR, "leave_policy", "update", false},
		{"hr cannot delete employee", rbac.RoleHR, "employee", "delete", false},
		{"employee requests leave", rbac.RoleEmployee, "leave", "create", true},
		{"employee cancels leave", rbac.RoleEmployee, "leave", "cancel", true},
		{"employee cannot approve", rbac.RoleEmployee, "leave", "approve", false},
		{"unknown role denied", "intern", "leave", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
