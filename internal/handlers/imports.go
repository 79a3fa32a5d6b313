package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"risk-tracker/internal/database"
	"risk-tracker/internal/importer"

	"github.com/gin-gonic/gin"
)

// ImportSpreadsheet accepts an .xlsx upload and runs the reconciler on it.
// Re-uploading the same file imports zero duplicates.
func ImportSpreadsheet(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	tmpDir, err := os.MkdirTemp("", "risk-import-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doc, err := importer.ReadWorkbook(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := importer.Options{}
	if year, err := strconv.Atoi(c.PostForm("year")); err == nil && year > 0 {
		opts.AssessmentYear = year
	}
	if c.PostForm("single_tx") == "true" {
		opts.SingleTransaction = true
	}

	summary, err := importer.New(database.DB, opts).Run(doc)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
