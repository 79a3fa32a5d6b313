package handlers

import (
	"net/http"

	"risk-tracker/internal/database"
	"risk-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAssets(c *gin.Context) {
	var assets []models.Asset
	if err := database.DB.Order("name asc").Find(&assets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// risk counts per asset for the listing
	type assetCount struct {
		AssetID uint
		Count   int64
	}
	var counts []assetCount
	database.DB.Model(&models.RiskAssessment{}).
		Select("asset_id, count(id) AS count").
		Group("asset_id").
		Scan(&counts)

	countByAsset := make(map[uint]int64, len(counts))
	for _, ac := range counts {
		countByAsset[ac.AssetID] = ac.Count
	}

	type assetView struct {
		models.Asset
		RiskCount int64 `json:"risk_count"`
	}
	out := make([]assetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, assetView{Asset: a, RiskCount: countByAsset[a.ID]})
	}

	c.JSON(http.StatusOK, out)
}
