package main

import (
	"fmt"
	"os"
	"path/filepath"

	"suivitjm/models"
	"suivitjm/pkg/export"
	"suivitjm/pkg/recap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// sendWorkbook writes the workbook to a unique temp file and serves it as an
// attachment under the given display name.
func sendWorkbook(c *gin.Context, f *excelize.File, displayName string) {
	defer f.Close()
	tempPath := filepath.Join(os.TempDir(), "suivitjm_"+uuid.NewString()+".xlsx")
	if err := f.SaveAs(tempPath); err != nil {
		respondErr(c, err)
		return
	}
	defer os.Remove(tempPath)
	c.FileAttachment(tempPath, displayName)
}

func exportMonthlyHandler(c *gin.Context) {
	month, year, err := periodFromQuery(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var collabs []models.Collaborator
	if err := db.Preload("Assignments").Preload("Workloads").Order("id").Find(&collabs).Error; err != nil {
		respondErr(c, err)
		return
	}
	names, err := projectNameMap()
	if err != nil {
		respondErr(c, err)
		return
	}
	views := recap.ResolveMonthlyAll(collabs, names, month, year)
	f, err := export.MonthlyWorkbook(views, month, year)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendWorkbook(c, f, fmt.Sprintf("Suivi_Collaborateurs_%s_%d.xlsx", month, year))
}

func exportRecapHandler(c *gin.Context) {
	year, err := yearFromQuery(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	recaps, err := loadRecap(year)
	if err != nil {
		respondErr(c, err)
		return
	}
	f, err := export.RecapWorkbook(recaps, year)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendWorkbook(c, f, fmt.Sprintf("Recap_TJM_%d.xlsx", year))
}
