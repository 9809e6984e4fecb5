package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

// Roles known to the system. Seeded at startup; there is no runtime role CRUD.
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// seedPolicies lists (role, resource, action) grants.
var seedPolicies = [][3]string{
	{RoleAdmin, "employee", "read"},
	{RoleAdmin, "employee", "create"},
	{RoleAdmin, "employee", "update"},
	{RoleAdmin, "employee", "delete"},
	{RoleAdmin, "leave", "read"},
	{RoleAdmin, "leave", "create"},
	{RoleAdmin, "leave", "approve"},
	{RoleAdmin, "leave", "cancel"},
	{RoleAdmin, "leave_policy", "read"},
	{RoleAdmin, "leave_policy", "update"},

	{RoleHR, "employee", "read"},
	{RoleHR, "employee", "create"},
	{RoleHR, "employee", "update"},
	{RoleHR, "leave", "read"},
	{RoleHR, "leave", "create"},
	{RoleHR, "leave", "approve"},
	{RoleHR, "leave", "cancel"},
	{RoleHR, "leave_policy", "read"},

	{RoleEmployee, "employee", "read"},
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "cancel"},
	{RoleEmployee, "leave_policy", "read"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewService(logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range seedPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
