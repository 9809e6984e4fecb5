package leavepolicy

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPolicyKey addresses the single active policy row. Updates replace the
// whole record in place and bump Version; there is never more than one row per key.
const DefaultPolicyKey = "default"

type LeavePolicy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyKey string    `gorm:"type:varchar(30);not null;uniqueIndex;default:'default'"`
	Version   int       `gorm:"type:int;not null;default:1"`

	VacationDays  int `gorm:"type:int;not null;default:20"`
	SickDays      int `gorm:"type:int;not null;default:10"`
	PersonalDays  int `gorm:"type:int;not null;default:5"`
	MaternityDays int `gorm:"type:int;not null;default:90"`
	PaternityDays int `gorm:"type:int;not null;default:14"`

	MaxConsecutiveDays int  `gorm:"type:int;not null;default:30"`
	AdvanceNoticeDays  int  `gorm:"type:int;not null;default:3"`
	CarryOverEnabled   bool `gorm:"not null;default:true"`
	MaxCarryOverDays   int  `gorm:"type:int;not null;default:10"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Default returns the policy applied when no row has ever been saved.
func Default() *LeavePolicy {
	return &LeavePolicy{
		ID:                 uuid.New(),
		PolicyKey:          DefaultPolicyKey,
		Version:            1,
		VacationDays:       20,
		SickDays:           10,
		PersonalDays:       5,
		MaternityDays:      90,
		PaternityDays:      14,
		MaxConsecutiveDays: 30,
		AdvanceNoticeDays:  3,
		CarryOverEnabled:   true,
		MaxCarryOverDays:   10,
	}
}
