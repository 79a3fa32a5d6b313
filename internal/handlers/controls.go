package handlers

import (
	"net/http"

	"risk-tracker/internal/database"
	"risk-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func ListControls(c *gin.Context) {
	var controls []models.Control
	if err := database.DB.Order("id asc").Find(&controls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, controls)
}
