// Package validation owns the checks the update and import paths may apply.
//
// The observed product behavior is permissive: any review status can move to
// any other, and lookup ids on updates are persisted without existence checks.
// Rules keeps that default but gives one place to turn the strict variants on
// without touching the engine or the importer.
package validation

import (
	"errors"
	"fmt"

	"risk-tracker/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidTransition = errors.New("invalid review status transition")
	ErrInvalidReference  = errors.New("referenced lookup row does not exist")
)

type Rules struct {
	// StrictTransitions enforces pending → reviewed → approved (pending →
	// approved allowed); backward moves are rejected.
	StrictTransitions bool

	// StrictLookupRefs rejects updates whose exploit-risk / rating ids do not
	// exist in the lookup tables.
	StrictLookupRefs bool
}

var statusRank = map[models.ReviewStatus]int{
	models.StatusPending:  0,
	models.StatusReviewed: 1,
	models.StatusApproved: 2,
}

// CheckTransition validates a review-status change. With StrictTransitions off
// every value, known or not, is accepted, matching the original behavior.
func (r Rules) CheckTransition(from, to models.ReviewStatus) error {
	if !r.StrictTransitions {
		return nil
	}

	fromRank, ok := statusRank[from]
	if !ok {
		fromRank = 0
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if toRank < fromRank {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CheckExploitRiskRef / CheckRiskRatingRef validate that an id points at a
// seeded lookup row. No-ops unless StrictLookupRefs is set.
func (r Rules) CheckExploitRiskRef(db *gorm.DB, id uint) error {
	if !r.StrictLookupRefs {
		return nil
	}
	return checkExists(db, &models.ExploitRiskLevel{}, id)
}

func (r Rules) CheckRiskRatingRef(db *gorm.DB, id uint) error {
	if !r.StrictLookupRefs {
		return nil
	}
	return checkExists(db, &models.RiskRating{}, id)
}

func checkExists(db *gorm.DB, model interface{}, id uint) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: id=%d", ErrInvalidReference, id)
	}
	return nil
}
