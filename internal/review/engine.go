// Package review implements the audited update protocol for risk assessments.
package review

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"risk-tracker/internal/models"
	"risk-tracker/internal/validation"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("risk assessment not found")

// UnknownActor is recorded when a status transition carries no reviewer name.
const UnknownActor = "Unknown"

// UpdateRequest carries the editable fields. Nil (or zero id) means the field
// was not submitted and must be left alone.
type UpdateRequest struct {
	PostExploitRiskID *uint
	PostRiskRatingID  *uint
	Notes             *string
	ReviewStatus      *models.ReviewStatus
	ReviewedBy        string
}

type Engine struct {
	db    *gorm.DB
	rules validation.Rules
}

func NewEngine(db *gorm.DB, rules validation.Rules) *Engine {
	return &Engine{db: db, rules: rules}
}

// Get loads one risk assessment with its references resolved.
func (e *Engine) Get(riskID uint) (*models.RiskAssessment, error) {
	var risk models.RiskAssessment
	err := e.db.
		Preload("Asset").
		Preload("Stride").
		Preload("Severity").
		Preload("PreExploitRisk").
		Preload("PreRiskRating").
		Preload("PostExploitRisk").
		Preload("PostRiskRating").
		First(&risk, riskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &risk, nil
}

// AuditTrail returns the change history for one risk, most recent first.
func (e *Engine) AuditTrail(riskID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := e.db.
		Where("risk_id = ?", riskID).
		Order("changed_at desc, id desc").
		Find(&logs).Error
	return logs, err
}

type fieldChange struct {
	field    string
	oldValue *string
	newValue *string
}

// Update applies the submitted changes to one risk assessment.
//
// Only fields whose proposed value differs from the stored value are applied,
// and each applied field produces exactly one audit row (foreign keys are
// logged by display name, scalars by raw text). A transition into reviewed or
// approved additionally stamps reviewed_by/reviewed_at; that is a side effect
// of the status change, not an independently audited field. Mutations and
// audit rows commit in one transaction.
func (e *Engine) Update(riskID uint, req UpdateRequest) (*models.RiskAssessment, error) {
	var risk models.RiskAssessment
	if err := e.db.First(&risk, riskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	actor := strings.TrimSpace(req.ReviewedBy)
	if actor == "" {
		actor = UnknownActor
	}

	var changes []fieldChange

	if req.PostExploitRiskID != nil && *req.PostExploitRiskID != 0 &&
		!equalUint(risk.PostExploitRiskID, req.PostExploitRiskID) {
		if err := e.rules.CheckExploitRiskRef(e.db, *req.PostExploitRiskID); err != nil {
			return nil, err
		}
		changes = append(changes, fieldChange{
			field:    "post_exploit_risk",
			oldValue: e.exploitRiskName(risk.PostExploitRiskID),
			newValue: e.exploitRiskName(req.PostExploitRiskID),
		})
		risk.PostExploitRiskID = req.PostExploitRiskID
	}

	if req.PostRiskRatingID != nil && *req.PostRiskRatingID != 0 &&
		!equalUint(risk.PostRiskRatingID, req.PostRiskRatingID) {
		if err := e.rules.CheckRiskRatingRef(e.db, *req.PostRiskRatingID); err != nil {
			return nil, err
		}
		changes = append(changes, fieldChange{
			field:    "post_risk_rating",
			oldValue: e.riskRatingName(risk.PostRiskRatingID),
			newValue: e.riskRatingName(req.PostRiskRatingID),
		})
		risk.PostRiskRatingID = req.PostRiskRatingID
	}

	if req.Notes != nil && deref(req.Notes) != deref(risk.Notes) {
		changes = append(changes, fieldChange{
			field:    "notes",
			oldValue: textOrNil(risk.Notes),
			newValue: textOrNil(req.Notes),
		})
		risk.Notes = req.Notes
	}

	if req.ReviewStatus != nil && *req.ReviewStatus != "" &&
		*req.ReviewStatus != risk.ReviewStatus {
		newStatus := *req.ReviewStatus
		if err := e.rules.CheckTransition(risk.ReviewStatus, newStatus); err != nil {
			return nil, err
		}
		oldStatus := string(risk.ReviewStatus)
		changes = append(changes, fieldChange{
			field:    "review_status",
			oldValue: textOrNil(&oldStatus),
			newValue: textOrNil((*string)(&newStatus)),
		})
		risk.ReviewStatus = newStatus

		if newStatus == models.StatusReviewed || newStatus == models.StatusApproved {
			now := time.Now().UTC()
			risk.ReviewedAt = &now
			risk.ReviewedBy = &actor
		}
	}

	if len(changes) > 0 {
		err := e.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&risk).Error; err != nil {
				return fmt.Errorf("save risk: %w", err)
			}
			for _, ch := range changes {
				entry := models.AuditLog{
					RiskID:       risk.ID,
					Action:       "updated",
					FieldChanged: ch.field,
					OldValue:     ch.oldValue,
					NewValue:     ch.newValue,
					ChangedBy:    actor,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return fmt.Errorf("write audit log: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return e.Get(risk.ID)
}

// display name for an exploit-risk id; nil id or unknown id stays nil
func (e *Engine) exploitRiskName(id *uint) *string {
	if id == nil {
		return nil
	}
	var level models.ExploitRiskLevel
	if err := e.db.First(&level, *id).Error; err != nil {
		return nil
	}
	return &level.Name
}

func (e *Engine) riskRatingName(id *uint) *string {
	if id == nil {
		return nil
	}
	var rating models.RiskRating
	if err := e.db.First(&rating, *id).Error; err != nil {
		return nil
	}
	return &rating.Name
}

func equalUint(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// textOrNil mirrors the audit convention: empty text is stored as NULL.
func textOrNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
