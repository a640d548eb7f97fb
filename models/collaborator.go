package models

import "time"

// Collaborator owns a static project assignment list and a workload ledger.
// Both are part of the aggregate and die with it on deletion.
// DailyRate (TJM) is nullable: nil means "not set", shown as such to clients
// and priced as zero in cost math.
type Collaborator struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string              `gorm:"size:255;not null"`
	DailyRate   *float64            `gorm:"column:daily_rate"`
	Assignments []ProjectAssignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Workloads   []WorkloadEntry     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ProjectAssignment is one line of the static project list: which projects a
// collaborator is nominally on, independent of any month's recorded days.
// StaticDaysWorked is a legacy counter kept through updates that retain the
// assignment and reset to 0 for newly added ones.
type ProjectAssignment struct {
	ID               uint `gorm:"primaryKey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CollaboratorID   uint    `gorm:"index;not null"`
	ProjectID        uint    `gorm:"index;not null"`
	StaticDaysWorked float64 `gorm:"not null;default:0"`
}
