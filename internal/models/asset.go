package models

import "time"

type AssetType string

const (
	AssetComponent AssetType = "Component"
	AssetDataFlow  AssetType = "DataFlow"
	AssetProcess   AssetType = "Process"
)

// Asset — a system component, data flow or process under assessment.
// Name and type are fixed after creation; there is no rename operation.
type Asset struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:200;uniqueIndex;not null"`
	AssetType   AssetType `gorm:"type:varchar(50)"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time

	Risks []RiskAssessment `gorm:"foreignKey:AssetID"`
}
