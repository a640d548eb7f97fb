package main

import (
	"log"
	"os"
	"strings"

	"suivitjm/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}

	// Now migrate the rest. Migrate models individually so a failure on one
	// doesn't block others. workload_entries deliberately carries no FK to
	// projects: deleting a project leaves its ledger references dangling and
	// reads resolve them as an unresolved name.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.Project{}); err != nil {
			log.Printf("migration warning (projects): %v", err)
		}
		if err := db.AutoMigrate(&models.Collaborator{}); err != nil {
			log.Printf("migration warning (collaborators): %v", err)
		}
		if err := db.AutoMigrate(&models.ProjectAssignment{}); err != nil {
			log.Printf("migration warning (project_assignments): %v", err)
		}
		if err := db.AutoMigrate(&models.WorkloadEntry{}); err != nil {
			log.Printf("migration warning (workload_entries): %v", err)
		}
	}
	seedDB()
}

func seedDB() {
	// Ensure master roles exist
	roles := []models.Role{{Name: "admin", Description: "full access"}, {Name: "user", Description: "regular user"}}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}

	// Seed the initial admin account so the register route (admin-only) is reachable.
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "admin").First(&role).Error; err != nil {
			log.Printf("failed to find admin role: %v", err)
		}
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123" // development fallback, override in production
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash admin password: %v", err)
			return
		}
		rid := role.ID
		admin := models.User{Username: "admin", HashedPassword: hashedPassword, RoleID: &rid}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("failed to seed admin user: %v", err)
		}
	}
}
