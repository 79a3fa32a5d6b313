package models

import "time"

// AuditLog — append-only record of one field change on one risk assessment.
// Created only by the review engine, never mutated or deleted.
type AuditLog struct {
	ID     uint `gorm:"primaryKey"`
	RiskID uint `gorm:"index"`

	Action       string    `gorm:"size:50"` // "updated"
	FieldChanged string    `gorm:"size:100"`
	OldValue     *string   `gorm:"type:text"`
	NewValue     *string   `gorm:"type:text"`
	ChangedBy    string    `gorm:"size:100"`
	ChangedAt    time.Time `gorm:"autoCreateTime"`
}
