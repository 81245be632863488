package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/wizard"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	exportSheet     = "Profiles"
)

// ExportHeader is the first row of every profile export.
var ExportHeader = []string{
	"Email", "Mobile", "full_name", "gender", "date_of_birth", "current_city", "current_state",
	"current_status", "highest_qualification", "college_name", "university", "graduation_year",
	"academic_scores", "preferred_job_roles", "expected_salary", "work_type",
	"willing_to_relocate", "typing_speed", "is_complete",
}

// Page bounds a listing. Limit is clamped to 1..100.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return db.Limit(limit).Offset(max(p.Offset, 0))
}

// ProfileFilter narrows admin profile listings and exports.
type ProfileFilter struct {
	IsComplete     *bool
	GraduationYear int
	WorkType       string
	CurrentStatus  string
	Search         string
	IDs            []uuid.UUID
}

func (f ProfileFilter) scope(db *gorm.DB) *gorm.DB {
	if f.IsComplete != nil {
		db = db.Where("is_complete = ?", *f.IsComplete)
	}
	if f.GraduationYear != 0 {
		db = db.Where("graduation_year = ?", f.GraduationYear)
	}
	if f.WorkType != "" {
		db = db.Where("work_type = ?", f.WorkType)
	}
	if f.CurrentStatus != "" {
		db = db.Where("current_status = ?", f.CurrentStatus)
	}
	if len(f.IDs) > 0 {
		db = db.Where("id IN ?", f.IDs)
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		like := "%" + q + "%"
		owners := db.Session(&gorm.Session{NewDB: true}).Model(&models.User{}).Select("id").
			Where("LOWER(COALESCE(email, '')) LIKE ? OR COALESCE(mobile, '') LIKE ?", like, like)
		db = db.Where(
			"LOWER(full_name) LIKE ? OR LOWER(college_name) LIKE ? OR LOWER(university) LIKE ? OR user_id IN (?)",
			like, like, like, owners,
		)
	}
	return db
}

type UserFilter struct {
	Search   string
	AuthType string
	IsStaff  *bool
}

type OTPLogFilter struct {
	Mobile   string
	Verified *bool
}

// AdminService backs the read-only admin console.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListProfiles(ctx context.Context, f ProfileFilter, page Page) ([]models.StudentProfile, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.StudentProfile{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	var profiles []models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Scopes(f.scope, page.scope).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, total, nil
}

func (s *AdminService) GetProfile(ctx context.Context, id uuid.UUID) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Experiences", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// ExportRows returns the header followed by one row per matching profile.
func (s *AdminService) ExportRows(ctx context.Context, f ProfileFilter) ([][]string, error) {
	var profiles []models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Scopes(f.scope).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles for export: %w", err)
	}

	rows := make([][]string, 0, len(profiles)+1)
	rows = append(rows, ExportHeader)
	for i := range profiles {
		rows = append(rows, exportRow(&profiles[i]))
	}
	return rows, nil
}

func exportRow(p *models.StudentProfile) []string {
	dob := ""
	if p.DateOfBirth != nil {
		dob = p.DateOfBirth.Format("2006-01-02")
	}
	return []string{
		p.User.EmailValue(),
		p.User.MobileValue(),
		p.FullName,
		p.Gender,
		dob,
		p.CurrentCity,
		p.CurrentState,
		p.CurrentStatus,
		p.HighestQualification,
		p.CollegeName,
		p.University,
		strconv.Itoa(p.GraduationYear),
		p.AcademicScores,
		strings.Join(wizard.JobRoles.Labels(p.PreferredJobRoles), ", "),
		p.ExpectedSalary,
		p.WorkType,
		yesNo(p.WillingToRelocate),
		strconv.Itoa(p.TypingSpeed),
		yesNo(p.IsComplete),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func WriteXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func (s *AdminService) ListExperiences(ctx context.Context, search string, page Page) ([]models.Experience, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
			like := "%" + q + "%"
			db = db.Where("LOWER(company_name) LIKE ? OR LOWER(role) LIKE ?", like, like)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Experience{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count experiences: %w", err)
	}
	var rows []models.Experience
	if err := s.db.WithContext(ctx).Scopes(scope, page.scope).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list experiences: %w", err)
	}
	return rows, total, nil
}

func (s *AdminService) ListUsers(ctx context.Context, f UserFilter, page Page) ([]models.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.AuthType != "" {
			db = db.Where("auth_type = ?", f.AuthType)
		}
		if f.IsStaff != nil {
			db = db.Where("is_staff = ?", *f.IsStaff)
		}
		if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
			like := "%" + q + "%"
			db = db.Where("LOWER(COALESCE(email, '')) LIKE ? OR COALESCE(mobile, '') LIKE ? OR LOWER(name) LIKE ?", like, like, like)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Scopes(scope, page.scope).Order("date_joined DESC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *AdminService) ListOTPLogs(ctx context.Context, f OTPLogFilter, page Page) ([]models.OTPRecord, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if m := strings.TrimSpace(f.Mobile); m != "" {
			db = db.Where("mobile LIKE ?", "%"+m+"%")
		}
		if f.Verified != nil {
			db = db.Where("verified = ?", *f.Verified)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.OTPRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count otp logs: %w", err)
	}
	var logs []models.OTPRecord
	if err := s.db.WithContext(ctx).Scopes(scope, page.scope).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list otp logs: %w", err)
	}
	return logs, total, nil
}
