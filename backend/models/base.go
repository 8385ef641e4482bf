package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model replaces gorm.Model for entities exposed over the content API:
// string IDs serialized as "_id" and a lastUpdated timestamp.
type Model struct {
	ID          string    `gorm:"primaryKey;size:36" json:"_id"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"lastUpdated"`
}

func (m Model) GetID() string {
	return m.ID
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Identifiable is implemented by every entity through the embedded Model.
type Identifiable interface {
	GetID() string
}
