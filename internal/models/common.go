// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// IDs are assigned client-side so the model works against both Postgres and
// the sqlite databases the tests run on.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type PropertyType string

const (
	PropertyTypeHouse PropertyType = "house"
	PropertyTypeLand  PropertyType = "land"
)

type FurnishedStatus string

const (
	FurnishedStatusUnfurnished   FurnishedStatus = "unfurnished"
	FurnishedStatusFurnished     FurnishedStatus = "furnished"
	FurnishedStatusSemiFurnished FurnishedStatus = "semiFurnished"
)

type LandUnit string

const (
	LandUnitPerches LandUnit = "perches"
	LandUnitAcres   LandUnit = "acres"
)

type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "active"
	AdminStatusInactive AdminStatus = "inactive"
)
