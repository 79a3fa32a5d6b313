package models

import "time"

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusReviewed ReviewStatus = "reviewed"
	StatusApproved ReviewStatus = "approved"
)

// RiskAssessment — one STRIDE-style finding against an asset.
//
// The pre-mitigation pair is set at creation/import and not edited afterwards;
// the post-mitigation pair is what the review workflow operates on.
type RiskAssessment struct {
	ID               uint `gorm:"primaryKey"`
	AssessmentNumber int  `gorm:"index"` // business key, not DB-unique
	AssetID          uint `gorm:"not null"`
	Asset            Asset

	Operation *string `gorm:"size:50"`
	Platform  *string `gorm:"size:50"`
	ModelRef  *string `gorm:"size:20"`

	StrideCode        *string         `gorm:"size:1"`
	Stride            *StrideCategory `gorm:"foreignKey:StrideCode;references:Code"`
	StrideDescription *string         `gorm:"type:text"`
	FindingNumber     *string         `gorm:"size:20"`

	SeverityID *uint
	Severity   *SeverityLevel

	PreExploitRiskID *uint
	PreExploitRisk   *ExploitRiskLevel `gorm:"foreignKey:PreExploitRiskID"`
	PreRiskRatingID  *uint
	PreRiskRating    *RiskRating `gorm:"foreignKey:PreRiskRatingID"`

	PostExploitRiskID *uint
	PostExploitRisk   *ExploitRiskLevel `gorm:"foreignKey:PostExploitRiskID"`
	PostRiskRatingID  *uint
	PostRiskRating    *RiskRating `gorm:"foreignKey:PostRiskRatingID"`

	ControlIDs    *string `gorm:"size:100"` // comma-separated control ids, not FK-enforced
	ReferenceDocs *string `gorm:"type:text"`

	AssessmentYear int          `gorm:"default:2025"`
	ReviewStatus   ReviewStatus `gorm:"size:20;default:pending"`
	ReviewedBy     *string      `gorm:"size:100"`
	ReviewedAt     *time.Time
	Notes          *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
