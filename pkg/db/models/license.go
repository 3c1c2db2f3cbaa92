package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// License captures the directory's licensing metadata for one state.
type License struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	StateID              uuid.UUID  `gorm:"column:state_id;type:uuid;not null;uniqueIndex:idx_licenses_state_num,priority:1"`
	SalesmanID           uuid.UUID  `gorm:"column:salesman_id;type:uuid;not null;index"`
	LicenseNum           string     `gorm:"column:license_num;not null;uniqueIndex:idx_licenses_state_num,priority:2"`
	DateUpdated          *time.Time `gorm:"column:date_updated;type:date"`
	DateIssueLicenseOrig *time.Time `gorm:"column:date_issue_license_orig;type:date"`
	DateExpireLicense    *time.Time `gorm:"column:date_expire_license;type:date"`
	LicenseClass         string     `gorm:"column:license_class"`
	LicenseClassCode     string     `gorm:"column:license_class_code"`
	ResidencyStatus      string     `gorm:"column:residency_status"`
	Active               string     `gorm:"column:active"`
	AdhsIndicator        string     `gorm:"column:adhs_indicator"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Details []LicenseDetail `gorm:"foreignKey:LicenseID;constraint:OnDelete:CASCADE"`
}

func (License) TableName() string { return "licenses" }

func (l *License) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
