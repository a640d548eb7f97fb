package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Deleting a project leaves assignment and ledger rows pointing at it; reads
// tolerate that and resolve the name as unresolved. This tool makes the
// cleanup explicit instead of silent: it always reports both kinds of
// orphans, and deletes orphaned static assignments only when asked. Ledger
// rows are never touched, they still carry billable history.
func main() {
	yes := flag.Bool("yes", false, "delete orphaned project assignments (report-only otherwise)")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var orphanAssignments, orphanEntries int64
	if err := db.QueryRow(`SELECT count(*) FROM project_assignments pa WHERE NOT EXISTS (SELECT 1 FROM projects p WHERE p.id = pa.project_id)`).Scan(&orphanAssignments); err != nil {
		log.Fatalf("count orphan assignments: %v", err)
	}
	if err := db.QueryRow(`SELECT count(*) FROM workload_entries w WHERE w.project_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM projects p WHERE p.id = w.project_id)`).Scan(&orphanEntries); err != nil {
		log.Fatalf("count orphan ledger entries: %v", err)
	}
	fmt.Printf("orphaned assignments=%d, orphaned ledger entries=%d (ledger is kept as-is)\n", orphanAssignments, orphanEntries)

	if orphanAssignments == 0 {
		return
	}
	if !*yes {
		fmt.Println("pass --yes to delete the orphaned assignments")
		return
	}
	res, err := db.Exec(`DELETE FROM project_assignments pa WHERE NOT EXISTS (SELECT 1 FROM projects p WHERE p.id = pa.project_id)`)
	if err != nil {
		log.Fatalf("delete orphan assignments: %v", err)
	}
	n, _ := res.RowsAffected()
	fmt.Printf("deleted %d orphaned assignment(s)\n", n)
}
