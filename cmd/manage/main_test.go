package main

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/database"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, mobile, name string, complete bool) {
	t.Helper()
	user := &models.User{Mobile: &mobile, Name: name, AuthType: models.AuthTypeOTP}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	p := models.NewStudentProfile(user.ID, name)
	p.IsComplete = complete
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
}

func runExportCmd(args ...string) error {
	cmd := newExportCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestExportCmd_WritesCSV(t *testing.T) {
	db := setupTestDB(t)
	seedStudent(t, db, "9876543210", "Asha Rao", true)
	seedStudent(t, db, "9123456780", "Ravi Kumar", false)

	out := filepath.Join(t.TempDir(), "profiles.CSV")
	if err := runExportCmd("--output", out, "--complete"); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one submitted profile", len(rows))
	}
	if rows[0][0] != "Email" || rows[1][1] != "9876543210" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExportCmd_RejectsUnknownFormat(t *testing.T) {
	setupTestDB(t)
	out := filepath.Join(t.TempDir(), "profiles.txt")

	err := runExportCmd("--output", out)
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Fatalf("error = %v, want unsupported export format", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no file should be written for an unknown format")
	}
}

func TestExportCmd_RequiresOutput(t *testing.T) {
	if err := runExportCmd(); err == nil {
		t.Error("export without --output should fail")
	}
}
