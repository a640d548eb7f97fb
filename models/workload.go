package models

import "time"

// WorkloadEntry is one ledger line: days a collaborator worked on a project
// in a given (month, year). Month is zero-padded "01".."12" so lexicographic
// and numeric ordering coincide.
//
// ProjectID is nullable: a nil project marks the placeholder row that anchors
// a monthly comment to its period without any project context. At most one
// row exists per (collaborator, project, month, year); the upsert boundary
// enforces that, not the schema alone.
type WorkloadEntry struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CollaboratorID uint    `gorm:"index;not null;uniqueIndex:idx_ledger_key"`
	ProjectID      *uint   `gorm:"uniqueIndex:idx_ledger_key"`
	DaysWorked     float64 `gorm:"not null;default:0"`
	Month          string  `gorm:"size:2;not null;uniqueIndex:idx_ledger_key"`
	Year           int     `gorm:"not null;uniqueIndex:idx_ledger_key"`
	Comment        string  `gorm:"size:1024"`
}

// ValidMonth reports whether m is a zero-padded month string "01".."12".
func ValidMonth(m string) bool {
	if len(m) != 2 {
		return false
	}
	switch m {
	case "01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12":
		return true
	}
	return false
}
