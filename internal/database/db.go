package database

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"risk-tracker/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(openDialector(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := SeedLookups(DB); err != nil {
		log.Fatalf("failed to seed lookup tables: %v", err)
	}
	createDefaultAdmin()
}

// openDialector picks the driver by DSN shape: postgres URLs go to the
// postgres driver, anything else is treated as a sqlite file path.
func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}

	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	return sqlite.Open(dsn)
}

// Migrate creates missing tables; safe to run on every start.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.StrideCategory{},
		&models.SeverityLevel{},
		&models.ExploitRiskLevel{},
		&models.RiskRating{},
		&models.Control{},
		&models.RiskAssessment{},
		&models.AuditLog{},
	)
}

// admin account only from env/config, never via the API
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@risk.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	if err := SeedAdmin(DB, username, password); err != nil {
		log.Printf("failed to create default admin: %v", err)
	}
}
