package sanitize

import (
	"flag"
	"fmt"
	"log"
	"os"

	"suivitjm/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run executes the ledger_sanitize CLI behavior. Exported so a small cmd/main can call it.
//
// Databases created before the composite ledger index can hold several
// workload_entries rows for the same (collaborator, project, month, year)
// key. The upsert boundary never creates new ones, but legacy duplicates
// skew the recap. This keeps the most recently updated row per key and
// drops the rest.
func Run() {
	var (
		dryRun = flag.Bool("dry-run", true, "Don't delete anything; show what would be done")
		yes    = flag.Bool("yes", false, "Confirm destructive action (required to actually delete)")
	)
	flag.Parse()

	gdb := mustInitDBFromEnv()

	var entries []models.WorkloadEntry
	if err := gdb.Order("collaborator_id, year, month, updated_at desc, id desc").Find(&entries).Error; err != nil {
		log.Fatalf("fetch workload entries failed: %v", err)
	}

	type key struct {
		collaborator uint
		project      uint
		hasProject   bool
		month        string
		year         int
	}
	seen := make(map[key]uint)
	dupes := []uint{}
	for _, e := range entries {
		k := key{collaborator: e.CollaboratorID, month: e.Month, year: e.Year}
		if e.ProjectID != nil {
			k.project = *e.ProjectID
			k.hasProject = true
		}
		if keeper, ok := seen[k]; ok {
			log.Printf("duplicate ledger row id=%d (keeping id=%d) collaborator=%d month=%s year=%d", e.ID, keeper, e.CollaboratorID, e.Month, e.Year)
			dupes = append(dupes, e.ID)
			continue
		}
		seen[k] = e.ID
	}

	if len(dupes) == 0 {
		fmt.Println("no duplicate ledger rows found")
		return
	}
	if *dryRun {
		fmt.Printf("dry-run enabled; %d duplicate row(s) would be deleted. Use --dry-run=false --yes to execute.\n", len(dupes))
		return
	}
	if !*yes {
		fmt.Println("Destructive operation. Pass --yes to confirm execution. Aborting.")
		return
	}
	if err := gdb.Delete(&models.WorkloadEntry{}, dupes).Error; err != nil {
		log.Fatalf("delete duplicates failed: %v", err)
	}
	fmt.Printf("deleted %d duplicate ledger row(s)\n", len(dupes))
}

// mustInitDBFromEnv is a light DB initializer used by this CLI.
func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}
