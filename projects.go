package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"suivitjm/models"
	"suivitjm/pkg/recap"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func listProjectsHandler(c *gin.Context) {
	var projects []models.Project
	if err := db.Order("id").Find(&projects).Error; err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func createProjectHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project := models.Project{Name: req.Name}
	if err := db.Create(&project).Error; err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func updateProjectHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var project models.Project
	if err := db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, fmt.Errorf("%w: projet non trouvé", ErrNotFound))
			return
		}
		respondErr(c, err)
		return
	}
	project.Name = req.Name
	if err := db.Save(&project).Error; err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// deleteProjectHandler removes the project record only. Assignments and
// ledger entries pointing at it are left dangling; reads resolve them as an
// unresolved name instead of failing.
func deleteProjectHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var project models.Project
	if err := db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, fmt.Errorf("%w: projet non trouvé", ErrNotFound))
			return
		}
		respondErr(c, err)
		return
	}
	if err := db.Delete(&project).Error; err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Projet supprimé avec succès"})
}

// yearFromQuery reads ?year=, defaulting to the current year.
func yearFromQuery(c *gin.Context) (int, error) {
	year := currentYear()
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return 0, fmt.Errorf("%w: année invalide %q", ErrValidation, y)
		}
		year = v
	}
	return year, nil
}

// loadRecap fetches the full ledger snapshot and recomputes the recap; no
// incremental state is kept anywhere.
func loadRecap(year int) ([]recap.MonthRecap, error) {
	var collabs []models.Collaborator
	if err := db.Preload("Workloads").Order("id").Find(&collabs).Error; err != nil {
		return nil, err
	}
	names, err := projectNameMap()
	if err != nil {
		return nil, err
	}
	return recap.ComputeRecap(collabs, names, year), nil
}

func recapHandler(c *gin.Context) {
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
	c.JSON(http.StatusOK, recaps)
}
