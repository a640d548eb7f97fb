package main

import (
	"fmt"
	"log"
	"os"

	"suivitjm/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Seeds a small demo dataset (projects, collaborators, one month of ledger
// entries) so a fresh database has something to show. Safe to re-run: it
// skips seeding when any project already exists.
func main() {
	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	var cnt int64
	db.Model(&models.Project{}).Count(&cnt)
	if cnt > 0 {
		fmt.Println("projects already present, nothing to seed")
		return
	}

	projA := models.Project{Name: "Refonte intranet"}
	projB := models.Project{Name: "Migration cloud"}
	if err := db.Create(&projA).Error; err != nil {
		log.Fatalf("seed project: %v", err)
	}
	if err := db.Create(&projB).Error; err != nil {
		log.Fatalf("seed project: %v", err)
	}

	rate := 500.0
	alice := models.Collaborator{
		Name:      "Alice Martin",
		DailyRate: &rate,
		Assignments: []models.ProjectAssignment{
			{ProjectID: projA.ID},
			{ProjectID: projB.ID},
		},
		Workloads: []models.WorkloadEntry{
			{ProjectID: &projA.ID, DaysWorked: 10, Month: "03", Year: 2025},
			{ProjectID: &projB.ID, DaysWorked: 5, Month: "03", Year: 2025},
		},
	}
	if err := db.Create(&alice).Error; err != nil {
		log.Fatalf("seed collaborator: %v", err)
	}

	bob := models.Collaborator{
		Name:        "Bob Durand",
		Assignments: []models.ProjectAssignment{{ProjectID: projA.ID}},
		Workloads: []models.WorkloadEntry{
			{ProjectID: &projA.ID, DaysWorked: 8, Month: "03", Year: 2025},
		},
	}
	if err := db.Create(&bob).Error; err != nil {
		log.Fatalf("seed collaborator: %v", err)
	}

	fmt.Println("demo data seeded")
}
