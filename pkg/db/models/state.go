package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// State is one jurisdiction a salesman holds or pursues licensure in.
type State struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SalesmanID uuid.UUID `gorm:"column:salesman_id;type:uuid;not null;uniqueIndex:idx_states_salesman_name,priority:1"`
	Name       string    `gorm:"column:name;not null;uniqueIndex:idx_states_salesman_name,priority:2"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Licenses     []License     `gorm:"foreignKey:StateID;constraint:OnDelete:CASCADE"`
	Appointments []Appointment `gorm:"foreignKey:StateID;constraint:OnDelete:CASCADE"`
}

func (State) TableName() string { return "states" }

func (s *State) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
