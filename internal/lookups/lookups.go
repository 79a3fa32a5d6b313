// Package lookups reads the static reference tables.
package lookups

import (
	"risk-tracker/internal/models"

	"gorm.io/gorm"
)

// Registry bundles all five lookup sets for the read-only listing API.
type Registry struct {
	StrideCategories  []models.StrideCategory   `json:"stride_categories"`
	SeverityLevels    []models.SeverityLevel    `json:"severity_levels"`
	ExploitRiskLevels []models.ExploitRiskLevel `json:"exploit_risk_levels"`
	RiskRatings       []models.RiskRating       `json:"risk_ratings"`
	Controls          []models.Control          `json:"controls"`
}

func All(db *gorm.DB) (*Registry, error) {
	reg := &Registry{}

	if err := db.Order("code asc").Find(&reg.StrideCategories).Error; err != nil {
		return nil, err
	}
	if err := db.Order("value asc").Find(&reg.SeverityLevels).Error; err != nil {
		return nil, err
	}
	if err := db.Order("value asc").Find(&reg.ExploitRiskLevels).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id asc").Find(&reg.RiskRatings).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id asc").Find(&reg.Controls).Error; err != nil {
		return nil, err
	}
	return reg, nil
}

// Maps holds display-name → id indexes used by the import reconciler.
// Matching is exact string equality; unknown names resolve to nil.
type Maps struct {
	Severity    map[string]uint
	ExploitRisk map[string]uint
	RiskRating  map[string]uint
}

func LoadMaps(db *gorm.DB) (*Maps, error) {
	m := &Maps{
		Severity:    map[string]uint{},
		ExploitRisk: map[string]uint{},
		RiskRating:  map[string]uint{},
	}

	var severities []models.SeverityLevel
	if err := db.Find(&severities).Error; err != nil {
		return nil, err
	}
	for _, s := range severities {
		m.Severity[s.Name] = s.ID
	}

	var exploits []models.ExploitRiskLevel
	if err := db.Find(&exploits).Error; err != nil {
		return nil, err
	}
	for _, e := range exploits {
		m.ExploitRisk[e.Name] = e.ID
	}

	var ratings []models.RiskRating
	if err := db.Find(&ratings).Error; err != nil {
		return nil, err
	}
	for _, r := range ratings {
		m.RiskRating[r.Name] = r.ID
	}

	return m, nil
}

// SeverityID and friends wrap map lookups so a miss stays a nil pointer,
// not a zero id.
func (m *Maps) SeverityID(name string) *uint    { return idOrNil(m.Severity, name) }
func (m *Maps) ExploitRiskID(name string) *uint { return idOrNil(m.ExploitRisk, name) }
func (m *Maps) RiskRatingID(name string) *uint  { return idOrNil(m.RiskRating, name) }

func idOrNil(m map[string]uint, name string) *uint {
	if id, ok := m[name]; ok {
		return &id
	}
	return nil
}
