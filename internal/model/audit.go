package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditLog records every successful governed mutation: who did what to
// which entity on which version. Append-only; never mutated or deleted.
type AuditLog struct {
	ID         int64     `json:"id"`
	ProjectID  *int64    `json:"project_id,omitempty"`
	VersionID  *int64    `json:"version_id,omitempty"`
	UserID     int64     `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EstimationHistory records every effort change on a feature. Append-only.
type EstimationHistory struct {
	ID             int64           `json:"id"`
	VersionID      int64           `json:"version_id"`
	FeatureID      int64           `json:"feature_id"`
	PreviousEffort decimal.Decimal `json:"previous_effort"`
	NewEffort      decimal.Decimal `json:"new_effort"`
	ChangedBy      int64           `json:"changed_by"`
	ChangedAt      time.Time       `json:"changed_at"`
	Authority      string          `json:"authority"`
}

// JustificationLog records the written justification for effort changes
// that exceeded the override threshold. Append-only.
type JustificationLog struct {
	ID             int64           `json:"id"`
	VersionID      int64           `json:"version_id"`
	FeatureID      int64           `json:"feature_id"`
	PreviousEffort decimal.Decimal `json:"previous_effort"`
	NewEffort      decimal.Decimal `json:"new_effort"`
	Justification  string          `json:"justification"`
	CreatedBy      int64           `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}
