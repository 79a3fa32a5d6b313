package database

import (
	"path/filepath"
	"testing"

	"risk-tracker/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedLookups_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for run := 1; run <= 2; run++ {
		if err := SeedLookups(db); err != nil {
			t.Fatalf("seed run %d: %v", run, err)
		}
	}

	counts := []struct {
		model interface{}
		want  int64
	}{
		{&models.StrideCategory{}, 7},
		{&models.SeverityLevel{}, 3},
		{&models.ExploitRiskLevel{}, 3},
		{&models.RiskRating{}, 3},
	}
	for _, tc := range counts {
		var n int64
		if err := db.Model(tc.model).Count(&n).Error; err != nil {
			t.Fatalf("count %T: %v", tc.model, err)
		}
		if n != tc.want {
			t.Errorf("%T rows = %d, want %d", tc.model, n, tc.want)
		}
	}
}

func TestSeedLookups_Values(t *testing.T) {
	db := openTestDB(t)
	if err := SeedLookups(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var lateral models.StrideCategory
	if err := db.Where("code = ?", "L").First(&lateral).Error; err != nil {
		t.Fatalf("L category missing: %v", err)
	}
	if lateral.Name != "Lateral Movement" {
		t.Errorf("L category name = %q, want Lateral Movement", lateral.Name)
	}

	var remediation models.RiskRating
	if err := db.Where("name = ?", "Remediation Required").First(&remediation).Error; err != nil {
		t.Fatalf("Remediation Required rating missing: %v", err)
	}
	if remediation.ActionRequired == "" {
		t.Error("rating action text not seeded")
	}
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for run := 1; run <= 2; run++ {
		if err := SeedAdmin(db, "admin@risk.local", "Admin123!"); err != nil {
			t.Fatalf("seed admin run %d: %v", run, err)
		}
	}

	var n int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if n != 1 {
		t.Errorf("admin users = %d, want 1", n)
	}
}
