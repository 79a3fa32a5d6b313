package review

import (
	"errors"
	"path/filepath"
	"testing"

	"risk-tracker/internal/database"
	"risk-tracker/internal/models"
	"risk-tracker/internal/validation"

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
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedLookups(db); err != nil {
		t.Fatalf("seed lookups: %v", err)
	}
	return db
}

func createRisk(t *testing.T, db *gorm.DB) *models.RiskAssessment {
	t.Helper()

	asset := models.Asset{Name: "Payment Gateway", AssetType: models.AssetComponent}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("create asset: %v", err)
	}

	lowID := exploitID(t, db, "1 - Low")
	acceptableID := ratingID(t, db, "Acceptable")

	risk := models.RiskAssessment{
		AssessmentNumber:  1,
		AssetID:           asset.ID,
		PostExploitRiskID: &lowID,
		PostRiskRatingID:  &acceptableID,
		ReviewStatus:      models.StatusPending,
		AssessmentYear:    2025,
	}
	if err := db.Create(&risk).Error; err != nil {
		t.Fatalf("create risk: %v", err)
	}
	return &risk
}

func exploitID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var level models.ExploitRiskLevel
	if err := db.Where("name = ?", name).First(&level).Error; err != nil {
		t.Fatalf("exploit level %q: %v", name, err)
	}
	return level.ID
}

func ratingID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var rating models.RiskRating
	if err := db.Where("name = ?", name).First(&rating).Error; err != nil {
		t.Fatalf("risk rating %q: %v", name, err)
	}
	return rating.ID
}

func auditRows(t *testing.T, db *gorm.DB, riskID uint) []models.AuditLog {
	t.Helper()
	var logs []models.AuditLog
	if err := db.Where("risk_id = ?", riskID).Order("id asc").Find(&logs).Error; err != nil {
		t.Fatalf("load audit rows: %v", err)
	}
	return logs
}

func strPtr(s string) *string { return &s }

func TestUpdate_NotFound(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})

	_, err := eng.Update(9999, UpdateRequest{Notes: strPtr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update on missing id: got %v, want ErrNotFound", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})

	if _, err := eng.Get(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on missing id: got %v, want ErrNotFound", err)
	}
}

func TestUpdate_OnlyChangedFieldsAudited(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})
	risk := createRisk(t, db)

	// same rating as stored, new notes: exactly one audit row, field notes
	sameRating := *risk.PostRiskRatingID
	updated, err := eng.Update(risk.ID, UpdateRequest{
		PostRiskRatingID: &sameRating,
		Notes:            strPtr("validated in staging"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	logs := auditRows(t, db, risk.ID)
	if len(logs) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(logs))
	}
	if logs[0].FieldChanged != "notes" {
		t.Errorf("FieldChanged = %q, want notes", logs[0].FieldChanged)
	}
	if logs[0].OldValue != nil {
		t.Errorf("OldValue = %v, want nil for previously empty notes", *logs[0].OldValue)
	}
	if logs[0].NewValue == nil || *logs[0].NewValue != "validated in staging" {
		t.Errorf("NewValue = %v, want submitted notes text", logs[0].NewValue)
	}
	if updated.Notes == nil || *updated.Notes != "validated in staging" {
		t.Errorf("Notes not applied: %v", updated.Notes)
	}
}

func TestUpdate_UnchangedSubmissionProducesNoAudit(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})
	risk := createRisk(t, db)

	exploit := *risk.PostExploitRiskID
	rating := *risk.PostRiskRatingID
	status := risk.ReviewStatus
	_, err := eng.Update(risk.ID, UpdateRequest{
		PostExploitRiskID: &exploit,
		PostRiskRatingID:  &rating,
		ReviewStatus:      &status,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if logs := auditRows(t, db, risk.ID); len(logs) != 0 {
		t.Fatalf("audit rows = %d, want 0 for unchanged submission", len(logs))
	}
}

func TestUpdate_ForeignKeysAuditedByDisplayName(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})
	risk := createRisk(t, db)

	highID := exploitID(t, db, "5 - High")
	if _, err := eng.Update(risk.ID, UpdateRequest{PostExploitRiskID: &highID}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	logs := auditRows(t, db, risk.ID)
	if len(logs) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(logs))
	}
	if logs[0].FieldChanged != "post_exploit_risk" {
		t.Errorf("FieldChanged = %q, want post_exploit_risk", logs[0].FieldChanged)
	}
	if logs[0].OldValue == nil || *logs[0].OldValue != "1 - Low" {
		t.Errorf("OldValue = %v, want display name \"1 - Low\"", logs[0].OldValue)
	}
	if logs[0].NewValue == nil || *logs[0].NewValue != "5 - High" {
		t.Errorf("NewValue = %v, want display name \"5 - High\"", logs[0].NewValue)
	}
}

func TestUpdate_StatusTransitionSideEffects(t *testing.T) {
	tests := []struct {
		name      string
		actor     string
		wantActor string
	}{
		{"actor given", "alice@example.com", "alice@example.com"},
		{"actor omitted", "", UnknownActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			eng := NewEngine(db, validation.Rules{})
			risk := createRisk(t, db)

			status := models.StatusApproved
			updated, err := eng.Update(risk.ID, UpdateRequest{
				ReviewStatus: &status,
				ReviewedBy:   tt.actor,
			})
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			if updated.ReviewStatus != models.StatusApproved {
				t.Errorf("ReviewStatus = %s, want approved", updated.ReviewStatus)
			}
			if updated.ReviewedAt == nil {
				t.Error("ReviewedAt not set on approval")
			}
			if updated.ReviewedBy == nil || *updated.ReviewedBy != tt.wantActor {
				t.Errorf("ReviewedBy = %v, want %q", updated.ReviewedBy, tt.wantActor)
			}

			// the status change is audited; reviewed_by/at are side effects only
			logs := auditRows(t, db, risk.ID)
			if len(logs) != 1 {
				t.Fatalf("audit rows = %d, want 1", len(logs))
			}
			if logs[0].FieldChanged != "review_status" {
				t.Errorf("FieldChanged = %q, want review_status", logs[0].FieldChanged)
			}
			if logs[0].ChangedBy != tt.wantActor {
				t.Errorf("ChangedBy = %q, want %q", logs[0].ChangedBy, tt.wantActor)
			}
		})
	}
}

func TestUpdate_BackwardTransitionAllowedByDefault(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})
	risk := createRisk(t, db)

	approved := models.StatusApproved
	if _, err := eng.Update(risk.ID, UpdateRequest{ReviewStatus: &approved}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	pending := models.StatusPending
	updated, err := eng.Update(risk.ID, UpdateRequest{ReviewStatus: &pending})
	if err != nil {
		t.Fatalf("backward transition rejected: %v", err)
	}
	if updated.ReviewStatus != models.StatusPending {
		t.Errorf("ReviewStatus = %s, want pending", updated.ReviewStatus)
	}
}

func TestUpdate_StrictTransitionsRejectBackward(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{StrictTransitions: true})
	risk := createRisk(t, db)

	approved := models.StatusApproved
	if _, err := eng.Update(risk.ID, UpdateRequest{ReviewStatus: &approved}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	pending := models.StatusPending
	_, err := eng.Update(risk.ID, UpdateRequest{ReviewStatus: &pending})
	if !errors.Is(err, validation.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}

	// the rejected update must leave no trace beyond the approval
	if logs := auditRows(t, db, risk.ID); len(logs) != 1 {
		t.Errorf("audit rows = %d, want 1", len(logs))
	}
}

func TestUpdate_StrictLookupRefs(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{StrictLookupRefs: true})
	risk := createRisk(t, db)

	bogus := uint(9999)
	_, err := eng.Update(risk.ID, UpdateRequest{PostExploitRiskID: &bogus})
	if !errors.Is(err, validation.ErrInvalidReference) {
		t.Fatalf("got %v, want ErrInvalidReference", err)
	}
}

func TestUpdate_DanglingRefPersistedByDefault(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})
	risk := createRisk(t, db)

	// known gap carried over: unvalidated ids are stored as-is
	bogus := uint(9999)
	updated, err := eng.Update(risk.ID, UpdateRequest{PostExploitRiskID: &bogus})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PostExploitRiskID == nil || *updated.PostExploitRiskID != bogus {
		t.Errorf("PostExploitRiskID = %v, want %d", updated.PostExploitRiskID, bogus)
	}

	logs := auditRows(t, db, risk.ID)
	if len(logs) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(logs))
	}
	if logs[0].NewValue != nil {
		t.Errorf("NewValue = %v, want nil for unknown lookup id", *logs[0].NewValue)
	}
}

func TestAuditTrail_MostRecentFirst(t *testing.T) {
	db := openTestDB(t)
	eng := NewEngine(db, validation.Rules{})
	risk := createRisk(t, db)

	if _, err := eng.Update(risk.ID, UpdateRequest{Notes: strPtr("first")}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := eng.Update(risk.ID, UpdateRequest{Notes: strPtr("second")}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	trail, err := eng.AuditTrail(risk.ID)
	if err != nil {
		t.Fatalf("AuditTrail failed: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail length = %d, want 2", len(trail))
	}
	if trail[0].NewValue == nil || *trail[0].NewValue != "second" {
		t.Errorf("trail[0].NewValue = %v, want the most recent change first", trail[0].NewValue)
	}
}
