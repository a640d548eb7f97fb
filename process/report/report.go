package report

import (
	"fmt"
	"log"
	"os"

	"suivitjm/models"
	"suivitjm/pkg/recap"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// RunReport prints the yearly cost recap month by month and optionally the
// per-project lines within each month.
func RunReport(year int, list bool) {
	gdb := mustDBFromEnv()

	var collabs []models.Collaborator
	if err := gdb.Preload("Workloads").Order("id").Find(&collabs).Error; err != nil {
		log.Fatalf("fetch collaborators failed: %v", err)
	}
	var projects []models.Project
	if err := gdb.Find(&projects).Error; err != nil {
		log.Fatalf("fetch projects failed: %v", err)
	}
	names := make(map[uint]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	recaps := recap.ComputeRecap(collabs, names, year)
	fmt.Printf("Recap for year=%d: %d month(s) with activity\n", year, len(recaps))
	for _, mr := range recaps {
		fmt.Printf("  %s/%d total=%.2f\n", mr.Month, mr.Year, mr.TotalMonthCost)
		if list {
			for _, p := range mr.Projects {
				name := p.Name
				if name == "" {
					name = "(projet supprimé)"
				}
				fmt.Printf("    %s cost=%.2f\n", name, p.TotalCost)
			}
		}
	}
}
