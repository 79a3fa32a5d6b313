package models

// Lookup tables: seeded once at first run, read-only afterwards.

// StrideCategory — STRIDE plus the in-house "L" (Lateral Movement) category.
type StrideCategory struct {
	Code        string `gorm:"primaryKey;size:1"`
	Name        string `gorm:"size:50;not null"`
	Description string `gorm:"type:text"`
}

type SeverityLevel struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:20;not null"` // "2 - Minor", "3 - Serious", "4 - CRITICAL"
	Value int    `gorm:"not null"`
}

type ExploitRiskLevel struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:20;not null"` // "1 - Low", "3 - Medium", "5 - High"
	Value int    `gorm:"not null"`
}

type RiskRating struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:30;not null"`
	ActionRequired string `gorm:"type:text"`
}

// Control — a named security measure, keyed by a short tag like "C-0001".
type Control struct {
	ID          string  `gorm:"primaryKey;size:10"`
	Name        string  `gorm:"size:100;not null"`
	Description *string `gorm:"type:text"`
	CategoryTag *string `gorm:"size:10"`
	IsActive    bool    `gorm:"default:true"`
}
