package leavepolicy

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leavepolicy_repo.go -destination=mock/leavepolicy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetCurrent(ctx context.Context) (*LeavePolicy, error)
	Save(ctx context.Context, p *LeavePolicy) error
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

func (r *repository) GetCurrent(ctx context.Context) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		First(&p, "policy_key = ?", DefaultPolicyKey).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save replaces the whole policy record addressed by its key. An existing row
// keeps its id and gets its version bumped; a missing row is created at version 1.
func (r *repository) Save(ctx context.Context, p *LeavePolicy) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "policy_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"version":              gorm.Expr("leave_policies.version + 1"),
			"vacation_days":        p.VacationDays,
			"sick_days":            p.SickDays,
			"personal_days":        p.PersonalDays,
			"maternity_days":       p.MaternityDays,
			"paternity_days":       p.PaternityDays,
			"max_consecutive_days": p.MaxConsecutiveDays,
			"advance_notice_days":  p.AdvanceNoticeDays,
			"carry_over_enabled":   p.CarryOverEnabled,
			"max_carry_over_days":  p.MaxCarryOverDays,
			"updated_at":           now,
		}),
	}).Create(p).Error
}
