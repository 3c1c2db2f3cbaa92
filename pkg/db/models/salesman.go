package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Salesman is an insurance agent tracked for licensing and appointments.
type Salesman struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	NPN              *string    `gorm:"column:npn;uniqueIndex:idx_salesmen_npn"`
	PositionID       string     `gorm:"column:position_id"`
	FirstName        string     `gorm:"column:first_name"`
	LastName         string     `gorm:"column:last_name"`
	AssociateOID     *string    `gorm:"column:associate_oid;uniqueIndex:idx_salesmen_associate_oid"`
	AssociateID      string     `gorm:"column:associate_id"`
	ADPPositionID    string     `gorm:"column:adp_position_id"`
	JobTitle         string     `gorm:"column:job_title"`
	DepartmentName   string     `gorm:"column:department_name"`
	DepartmentID     string     `gorm:"column:department_id"`
	AgentIndicator   int        `gorm:"column:agent_indicator;not null;default:0"`
	HireDate         *time.Time `gorm:"column:hire_date;type:date"`
	PositionStart    *time.Time `gorm:"column:position_start_date;type:date"`
	ClassStartDate   *time.Time `gorm:"column:class_start_date;type:date"`
	ClassEndDate     *time.Time `gorm:"column:class_end_date;type:date"`
	Trainer          string     `gorm:"column:trainer"`
	UptrainingClass  string     `gorm:"column:uptraining_class"`
	ComplianceStatus int        `gorm:"column:compliance_status;not null;default:0"`
	Deleted          bool       `gorm:"column:deleted;not null;default:false"`
	AgentSupervisor  string     `gorm:"column:agent_supervisor"`
	Pod              string     `gorm:"column:pod"`
	AgentSite        string     `gorm:"column:agent_site"`
	Client           string     `gorm:"column:client"`
	Username         string     `gorm:"column:username"`
	CXPEmployeeID    string     `gorm:"column:cxp_employee_id"`
	NeededStates     string     `gorm:"column:needed_states"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	States []State `gorm:"foreignKey:SalesmanID;constraint:OnDelete:CASCADE"`
}

func (Salesman) TableName() string { return "salesmen" }

func (s *Salesman) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NPNValue returns the stored NPN or an empty string.
func (s Salesman) NPNValue() string {
	if s.NPN == nil {
		return ""
	}
	return *s.NPN
}

// StringPtr returns nil for empty input so optional natural keys stay NULL.
func StringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
