package database

import (
	"log"

	"risk-tracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedLookups populates the five reference tables with the standard values.
// Guarded by an emptiness check on stride_category, so repeated runs are no-ops.
func SeedLookups(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.StrideCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		// already seeded
		return nil
	}

	stride := []models.StrideCategory{
		{Code: "S", Name: "Spoofing", Description: "Attacker assumes identity of another user"},
		{Code: "T", Name: "Tampering", Description: "Attacker changes data without authorization"},
		{Code: "R", Name: "Repudiation", Description: "Attacker denies performing an action"},
		{Code: "I", Name: "Information Disclosure", Description: "Attacker accesses unauthorized information"},
		{Code: "D", Name: "Denial of Service", Description: "Attacker disrupts system availability"},
		{Code: "E", Name: "Elevation of Privilege", Description: "Attacker gains unauthorized privileges"},
		{Code: "L", Name: "Lateral Movement", Description: "Attacker moves between systems/networks"},
	}

	severities := []models.SeverityLevel{
		{Name: "2 - Minor", Value: 2},
		{Name: "3 - Serious", Value: 3},
		{Name: "4 - CRITICAL", Value: 4},
	}

	exploitRisks := []models.ExploitRiskLevel{
		{Name: "1 - Low", Value: 1},
		{Name: "3 - Medium", Value: 3},
		{Name: "5 - High", Value: 5},
	}

	ratings := []models.RiskRating{
		{Name: "Acceptable", ActionRequired: "Organization can accept residual risk"},
		{Name: "Mitigation Desirable", ActionRequired: "Organization MAY accept residual risk, but mitigation is recommended"},
		{Name: "Remediation Required", ActionRequired: "Organization may NOT accept residual risk; remediation is required"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&stride).Error; err != nil {
			return err
		}
		if err := tx.Create(&severities).Error; err != nil {
			return err
		}
		if err := tx.Create(&exploitRisks).Error; err != nil {
			return err
		}
		if err := tx.Create(&ratings).Error; err != nil {
			return err
		}
		log.Println("lookup tables initialized")
		return nil
	})
}

// SeedAdmin creates an admin user unless one already exists.
func SeedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("created default admin user: %s", username)
	return nil
}
