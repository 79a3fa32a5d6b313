package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"risk-tracker/internal/database"
	"risk-tracker/internal/middleware"
	"risk-tracker/internal/models"
	"risk-tracker/internal/review"
	"risk-tracker/internal/validation"

	"github.com/gin-gonic/gin"
)

func engine() *review.Engine {
	return review.NewEngine(database.DB, validation.Rules{})
}

// ListRisks supports the dashboard filters: asset, STRIDE category,
// post-mitigation rating, review status, free-text search over the STRIDE
// description and finding number.
func ListRisks(c *gin.Context) {
	query := database.DB.Model(&models.RiskAssessment{}).
		Preload("Asset").
		Preload("Stride").
		Preload("PostExploitRisk").
		Preload("PostRiskRating")

	if assetID, err := strconv.Atoi(c.Query("asset_id")); err == nil && assetID > 0 {
		query = query.Where("asset_id = ?", assetID)
	}
	if code := c.Query("stride_code"); code != "" {
		query = query.Where("stride_code = ?", code)
	}
	if ratingID, err := strconv.Atoi(c.Query("rating_id")); err == nil && ratingID > 0 {
		query = query.Where("post_risk_rating_id = ?", ratingID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("review_status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"stride_description LIKE ? OR finding_number LIKE ?", pattern, pattern)
	}

	var risks []models.RiskAssessment
	if err := query.Order("assessment_number asc").Find(&risks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, risks)
}

func GetRisk(c *gin.Context) {
	id, ok := riskID(c)
	if !ok {
		return
	}

	risk, err := engine().Get(id)
	if errors.Is(err, review.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "risk assessment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, risk)
}

type updateForm struct {
	PostExploitRiskID *uint   `form:"post_exploit_risk_id" json:"post_exploit_risk_id"`
	PostRiskRatingID  *uint   `form:"post_risk_rating_id" json:"post_risk_rating_id"`
	Notes             *string `form:"notes" json:"notes"`
	ReviewStatus      *string `form:"review_status" json:"review_status"`
	ReviewedBy        string  `form:"reviewed_by" json:"reviewed_by"`
}

func UpdateRisk(c *gin.Context) {
	id, ok := riskID(c)
	if !ok {
		return
	}

	var form updateForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// unattributed edits fall back to the session user
	if strings.TrimSpace(form.ReviewedBy) == "" {
		form.ReviewedBy = middleware.CurrentUsername(c)
	}

	req := review.UpdateRequest{
		PostExploitRiskID: form.PostExploitRiskID,
		PostRiskRatingID:  form.PostRiskRatingID,
		Notes:             form.Notes,
		ReviewedBy:        form.ReviewedBy,
	}
	if form.ReviewStatus != nil {
		status := models.ReviewStatus(*form.ReviewStatus)
		req.ReviewStatus = &status
	}

	risk, err := engine().Update(id, req)
	switch {
	case errors.Is(err, review.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "risk assessment not found"})
	case errors.Is(err, validation.ErrInvalidTransition),
		errors.Is(err, validation.ErrInvalidReference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, risk)
	}
}

func GetAuditTrail(c *gin.Context) {
	id, ok := riskID(c)
	if !ok {
		return
	}

	logs, err := engine().AuditTrail(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func riskID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk id"})
		return 0, false
	}
	return uint(id), true
}
