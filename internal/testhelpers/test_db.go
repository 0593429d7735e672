package testhelpers

import (
	"fmt"
	"testing"

	"github.com/prajwalts/interviewdost/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB creates an isolated in-memory SQLite database migrated with
// the full schema. Each test gets its own database keyed by test name.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.Interview{},
		&model.Question{},
		&model.Answer{},
		&model.Feedback{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	err = db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_skills_skill_name_ci ON skills (LOWER(skill_name))").Error
	if err != nil {
		t.Fatalf("failed to create skill name index: %v", err)
	}
	return db
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, db *gorm.DB, name, email, role string) *model.User {
	t.Helper()

	user := &model.User{Name: &name, Email: &email, Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
