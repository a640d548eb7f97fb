package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"suivitjm/process/report"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "year to report")
	list := flag.Bool("list", false, "list per-project lines within each month")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}

	report.RunReport(*year, *list)
}
