package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment records a carrier appointment held in a state.
type Appointment struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	StateID            uuid.UUID  `gorm:"column:state_id;type:uuid;not null;uniqueIndex:idx_appointments_state_company,priority:1"`
	CompanyName        string     `gorm:"column:company_name;not null;uniqueIndex:idx_appointments_state_company,priority:2"`
	FEIN               string     `gorm:"column:fein"`
	COCode             string     `gorm:"column:cocode"`
	LineOfAuthority    string     `gorm:"column:line_of_authority"`
	LOACode            string     `gorm:"column:loa_code"`
	Status             string     `gorm:"column:status"`
	TerminationReason  string     `gorm:"column:termination_reason"`
	StatusReasonDate   *time.Time `gorm:"column:status_reason_date;type:date"`
	AppontRenewalDate  *time.Time `gorm:"column:appont_renewal_date;type:date"`
	AgencyAffiliations string     `gorm:"column:agency_affiliations"`
	CountyCode         string     `gorm:"column:county_code"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Appointment) TableName() string { return "appointments" }

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
