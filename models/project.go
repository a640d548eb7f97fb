package models

import "time"

// Project is a flat name record. Assignments and ledger entries reference it
// by id only; deleting a project does not cascade, dangling references are
// resolved as an unresolved name at read time.
type Project struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null"`
}
