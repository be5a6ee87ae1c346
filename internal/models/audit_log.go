// internal/models/audit_log.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records every mutating request against the panel. There is no
// authenticated actor to attribute yet, so entries carry only request
// metadata.
type AuditLog struct {
	BaseModel
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty" gorm:"type:uuid;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:512"`
	Payload      JSONB      `json:"payload,omitempty" gorm:"type:jsonb"`
	StatusCode   int        `json:"status_code"`
	DurationMS   int64      `json:"duration_ms"`
}
