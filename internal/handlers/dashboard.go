package handlers

import (
	"math"
	"net/http"

	"risk-tracker/internal/database"
	"risk-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// Stats feeds the dashboard: totals, review progress and the post-mitigation
// rating / STRIDE distributions.
func Stats(c *gin.Context) {
	db := database.DB

	var totalRisks, totalAssets, totalControls int64
	db.Model(&models.RiskAssessment{}).Count(&totalRisks)
	db.Model(&models.Asset{}).Count(&totalAssets)
	db.Model(&models.Control{}).Count(&totalControls)

	var pending, reviewed int64
	db.Model(&models.RiskAssessment{}).
		Where("review_status = ?", models.StatusPending).Count(&pending)
	db.Model(&models.RiskAssessment{}).
		Where("review_status = ?", models.StatusReviewed).Count(&reviewed)

	type ratingCount struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	var ratingDist []ratingCount
	db.Model(&models.RiskAssessment{}).
		Select("risk_ratings.name AS name, count(risk_assessments.id) AS count").
		Joins("JOIN risk_ratings ON risk_ratings.id = risk_assessments.post_risk_rating_id").
		Group("risk_ratings.name").
		Scan(&ratingDist)

	type strideCount struct {
		Code  string `json:"code"`
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	var strideDist []strideCount
	db.Model(&models.RiskAssessment{}).
		Select("stride_categories.code AS code, stride_categories.name AS name, count(risk_assessments.id) AS count").
		Joins("JOIN stride_categories ON stride_categories.code = risk_assessments.stride_code").
		Group("stride_categories.code, stride_categories.name").
		Scan(&strideDist)

	var recent []models.RiskAssessment
	db.Preload("Asset").Order("updated_at desc").Limit(10).Find(&recent)

	progress := 0.0
	if totalRisks > 0 {
		progress = math.Round(float64(reviewed)/float64(totalRisks)*1000) / 10
	}

	c.JSON(http.StatusOK, gin.H{
		"total_risks":      totalRisks,
		"total_assets":     totalAssets,
		"total_controls":   totalControls,
		"pending_review":   pending,
		"reviewed":         reviewed,
		"progress_percent": progress,
		"rating_dist":      ratingDist,
		"stride_dist":      strideDist,
		"recent_updates":   recent,
	})
}
