package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LicenseDetail is a line of authority granted under a license.
type LicenseDetail struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	LicenseID          uuid.UUID  `gorm:"column:license_id;type:uuid;not null;uniqueIndex:idx_license_details_license_loa,priority:1"`
	LOA                string     `gorm:"column:loa;not null;uniqueIndex:idx_license_details_license_loa,priority:2"`
	LOACode            string     `gorm:"column:loa_code"`
	AuthorityIssueDate *time.Time `gorm:"column:authority_issue_date;type:date"`
	Status             string     `gorm:"column:status"`
	StatusReason       string     `gorm:"column:status_reason"`
	StatusReasonDate   *time.Time `gorm:"column:status_reason_date;type:date"`
	CECompliance       string     `gorm:"column:ce_compliance"`
	CECreditsNeeded    string     `gorm:"column:ce_credits_needed"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (LicenseDetail) TableName() string { return "license_details" }

func (d *LicenseDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
