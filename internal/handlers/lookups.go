package handlers

import (
	"net/http"

	"risk-tracker/internal/database"
	"risk-tracker/internal/lookups"

	"github.com/gin-gonic/gin"
)

func ListLookups(c *gin.Context) {
	reg, err := lookups.All(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reg)
}
