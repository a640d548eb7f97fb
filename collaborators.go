package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"suivitjm/models"
	"suivitjm/pkg/recap"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func currentMonth() string { return time.Now().UTC().Format("01") }
func currentYear() int     { return time.Now().UTC().Year() }

// periodFromQuery reads ?month=&year=, defaulting to the current period.
func periodFromQuery(c *gin.Context) (string, int, error) {
	month := c.Query("month")
	if month == "" {
		month = currentMonth()
	}
	if !models.ValidMonth(month) {
		return "", 0, fmt.Errorf("%w: mois invalide %q", ErrValidation, month)
	}
	year := currentYear()
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return "", 0, fmt.Errorf("%w: année invalide %q", ErrValidation, y)
		}
		year = v
	}
	return month, year, nil
}

func idParam(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: ID invalide", ErrValidation)
	}
	return uint(v), nil
}

// projectNameMap loads the whole catalog once per request; the resolver and
// the recap both tolerate ids missing from it.
func projectNameMap() (map[uint]string, error) {
	var projects []models.Project
	if err := db.Find(&projects).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

func loadCollaborator(id uint) (*models.Collaborator, error) {
	var collab models.Collaborator
	err := db.Preload("Assignments").Preload("Workloads").First(&collab, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: collaborateur non trouvé", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &collab, nil
}

// checkProjectsExist validates a requested id list as a set: the number of
// distinct projects found must equal the number of distinct ids requested.
func checkProjectsExist(ids []uint) error {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	distinct := make([]uint, 0, len(set))
	for id := range set {
		distinct = append(distinct, id)
	}
	var cnt int64
	if len(distinct) > 0 {
		if err := db.Model(&models.Project{}).Where("id IN ?", distinct).Count(&cnt).Error; err != nil {
			return err
		}
	}
	if int(cnt) != len(distinct) {
		return fmt.Errorf("%w: un ou plusieurs projets n'existent pas", ErrValidation)
	}
	return nil
}

func createCollaborator(name string, projectIDs []uint, rate *float64) (*models.Collaborator, error) {
	if err := checkProjectsExist(projectIDs); err != nil {
		return nil, err
	}
	collab := models.Collaborator{Name: name, DailyRate: rate}
	for _, pid := range projectIDs {
		collab.Assignments = append(collab.Assignments, models.ProjectAssignment{ProjectID: pid, StaticDaysWorked: 0})
	}
	if err := db.Create(&collab).Error; err != nil {
		return nil, err
	}
	return loadCollaborator(collab.ID)
}

// updateCollaborator re-derives the static list: retained assignments keep
// their StaticDaysWorked, new ones start at 0, unrequested ones are dropped.
// Ledger entries are never touched here.
func updateCollaborator(id uint, name string, projectIDs []uint, rate *float64) (*models.Collaborator, error) {
	if err := checkProjectsExist(projectIDs); err != nil {
		return nil, err
	}
	collab, err := loadCollaborator(id)
	if err != nil {
		return nil, err
	}

	existing := make(map[uint]float64, len(collab.Assignments))
	for _, a := range collab.Assignments {
		existing[a.ProjectID] = a.StaticDaysWorked
	}
	next := make([]models.ProjectAssignment, 0, len(projectIDs))
	for _, pid := range projectIDs {
		next = append(next, models.ProjectAssignment{CollaboratorID: id, ProjectID: pid, StaticDaysWorked: existing[pid]})
	}

	if err := db.Model(collab).Updates(map[string]interface{}{"name": name, "daily_rate": rate}).Error; err != nil {
		return nil, err
	}
	if err := db.Where("collaborator_id = ?", id).Delete(&models.ProjectAssignment{}).Error; err != nil {
		return nil, err
	}
	if len(next) > 0 {
		if err := db.Create(&next).Error; err != nil {
			return nil, err
		}
	}
	return loadCollaborator(id)
}

func deleteCollaborator(id uint) error {
	var collab models.Collaborator
	if err := db.First(&collab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: collaborateur non trouvé", ErrNotFound)
		}
		return err
	}
	// the aggregate dies together: assignments and ledger go with it
	if err := db.Where("collaborator_id = ?", id).Delete(&models.ProjectAssignment{}).Error; err != nil {
		return err
	}
	if err := db.Where("collaborator_id = ?", id).Delete(&models.WorkloadEntry{}).Error; err != nil {
		return err
	}
	return db.Delete(&collab).Error
}

// recordDays upserts the ledger entry keyed by (projectId, month, year).
// Load-then-save on purpose: two concurrent writers for the same key can
// lose one update, matching the behavior this replaces. An atomic
// conditional upsert would be a strict improvement.
func recordDays(id uint, projectID uint, days *float64, month string, year int) (*models.Collaborator, error) {
	if days == nil || *days < 0 {
		return nil, fmt.Errorf("%w: le nombre de jours doit être supérieur ou égal à 0", ErrValidation)
	}
	if !models.ValidMonth(month) {
		return nil, fmt.Errorf("%w: mois invalide %q", ErrValidation, month)
	}
	collab, err := loadCollaborator(id)
	if err != nil {
		return nil, err
	}

	var entry models.WorkloadEntry
	err = db.Where("collaborator_id = ? AND project_id = ? AND month = ? AND year = ?", id, projectID, month, year).
		First(&entry).Error
	switch {
	case err == nil:
		entry.DaysWorked = *days
		if err := db.Save(&entry).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.WorkloadEntry{
			CollaboratorID: id,
			ProjectID:      &projectID,
			DaysWorked:     *days,
			Month:          month,
			Year:           year,
		}
		if err := db.Create(&entry).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return loadCollaborator(collab.ID)
}

// upsertComment writes the period's comment slot: the single placeholder
// entry (no project) that anchors a monthly comment to (month, year).
func upsertComment(id uint, comment, month string, year int) (*models.Collaborator, error) {
	if !models.ValidMonth(month) {
		return nil, fmt.Errorf("%w: mois invalide %q", ErrValidation, month)
	}
	if _, err := loadCollaborator(id); err != nil {
		return nil, err
	}

	var entry models.WorkloadEntry
	err := db.Where("collaborator_id = ? AND project_id IS NULL AND month = ? AND year = ?", id, month, year).
		First(&entry).Error
	switch {
	case err == nil:
		entry.Comment = comment
		if err := db.Save(&entry).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.WorkloadEntry{CollaboratorID: id, DaysWorked: 0, Month: month, Year: year, Comment: comment}
		if err := db.Create(&entry).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return loadCollaborator(id)
}

func setDailyRate(id uint, rate *float64) (*models.Collaborator, error) {
	if rate == nil || *rate < 0 {
		return nil, fmt.Errorf("%w: le TJM doit être un nombre positif", ErrValidation)
	}
	collab, err := loadCollaborator(id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(collab).Update("daily_rate", *rate).Error; err != nil {
		return nil, err
	}
	collab.DailyRate = rate
	return collab, nil
}

// --- handlers ---

func listCollaboratorsHandler(c *gin.Context) {
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
	c.JSON(http.StatusOK, recap.ResolveMonthlyAll(collabs, names, month, year))
}

func getCollaboratorHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	month, year, err := periodFromQuery(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	collab, err := loadCollaborator(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	names, err := projectNameMap()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, recap.ResolveMonthly(*collab, names, month, year))
}

type collaboratorRequest struct {
	Name     string   `json:"name" binding:"required"`
	Projects []uint   `json:"projects"`
	Tjm      *float64 `json:"tjm"`
}

func createCollaboratorHandler(c *gin.Context) {
	var req collaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	collab, err := createCollaborator(req.Name, req.Projects, req.Tjm)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, collab)
}

func updateCollaboratorHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var req collaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	collab, err := updateCollaborator(id, req.Name, req.Projects, req.Tjm)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, collab)
}

func deleteCollaboratorHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := deleteCollaborator(id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collaborateur supprimé avec succès"})
}

func addDaysHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var req struct {
		ProjectID uint     `json:"projectId" binding:"required"`
		Days      *float64 `json:"days"`
		Month     string   `json:"month" binding:"required"`
		Year      int      `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	collab, err := recordDays(id, req.ProjectID, req.Days, req.Month, req.Year)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Jours mis à jour", "collaborator": collab})
}

func commentHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var req struct {
		Comments string `json:"comments"`
		Month    string `json:"month" binding:"required"`
		Year     int    `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	collab, err := upsertComment(id, req.Comments, req.Month, req.Year)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commentaire mis à jour", "collaborator": collab})
}

func updateTjmHandler(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	var req struct {
		Tjm *float64 `json:"tjm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	collab, err := setDailyRate(id, req.Tjm)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "TJM mis à jour avec succès", "collaborator": collab})
}

// listTjmHandler returns the name+rate projection only.
func listTjmHandler(c *gin.Context) {
	type row struct {
		ID   uint     `json:"id"`
		Name string   `json:"name"`
		Tjm  *float64 `json:"tjm"`
	}
	var rows []row
	if err := db.Model(&models.Collaborator{}).Select("id, name, daily_rate as tjm").Order("id").Scan(&rows).Error; err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
