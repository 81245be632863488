package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/wizard"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidStep         = errors.New("invalid step")
	ErrStepNotReached      = errors.New("please complete the previous steps first")
	ErrStepsIncomplete     = errors.New("please complete all steps before submitting")
	ErrProfileLocked       = errors.New("profile has already been submitted")
	ErrProfileNotSubmitted = errors.New("profile has not been submitted yet")
	ErrInvalidDocument     = errors.New("invalid document")
)

// reviewStep is the last step that must be saved before review and submission.
const reviewStep = 7

// StepRedirectError means the request targeted a step the profile cannot
// reach yet; Step is where the owner should continue.
type StepRedirectError struct {
	Step   int
	Reason error
}

func (e *StepRedirectError) Error() string {
	return fmt.Sprintf("%v (continue at step %d)", e.Reason, e.Step)
}

func (e *StepRedirectError) Unwrap() error { return e.Reason }

// DocumentError reports why one uploaded file was refused.
type DocumentError struct {
	Field   string
	Message string
}

func (e *DocumentError) Error() string { return e.Field + ": " + e.Message }

func (e *DocumentError) Unwrap() error { return ErrInvalidDocument }

type ProfileService struct {
	db           *gorm.DB
	validator    *wizard.Validator
	store        DocumentStore
	lockOnSubmit bool
	now          func() time.Time
	metrics      *metrics.Metrics
}

func NewProfileService(db *gorm.DB, store DocumentStore, lockOnSubmit bool, m *metrics.Metrics) *ProfileService {
	s := &ProfileService{
		db:           db,
		store:        store,
		lockOnSubmit: lockOnSubmit,
		now:          time.Now,
		metrics:      m,
	}
	s.validator = wizard.NewValidator(func() time.Time { return s.now() })
	return s
}

// Start returns the user's profile, creating it on first visit.
func (s *ProfileService) Start(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	db := s.db.WithContext(ctx)

	var profile models.StudentProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	created := models.NewStudentProfile(userID, user.Name)
	if err := db.Create(created).Error; err != nil {
		// A concurrent first visit may have won the unique user_id index.
		if lookupErr := db.Where("user_id = ?", userID).First(&profile).Error; lookupErr == nil {
			return &profile, nil
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	slog.Info("profile created", "identity_id", userID.String(), "action", "profile_start")
	return created, nil
}

// Access returns the form state for step n, or a StepRedirectError when n is
// beyond the next unsaved step.
func (s *ProfileService) Access(ctx context.Context, userID uuid.UUID, n int) (*wizard.FormState, error) {
	if n < 1 || n > models.TotalSteps {
		return nil, ErrInvalidStep
	}
	q := s.db.WithContext(ctx)
	if n == 2 {
		q = q.Preload("Experiences", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	}
	profile, err := loadProfile(q, userID)
	if err != nil {
		return nil, err
	}
	if n > profile.StepCompleted+1 {
		return nil, &StepRedirectError{Step: profile.NextStep(), Reason: ErrStepNotReached}
	}
	return wizard.Load(n, profile)
}

// SaveStep persists a loosely typed AJAX payload without field validation.
func (s *ProfileService) SaveStep(ctx context.Context, userID uuid.UUID, raw map[string]any) (*models.StudentProfile, error) {
	payload, err := wizard.Decode(wizard.StepNumber(raw), raw)
	if errors.Is(err, wizard.ErrUnknownStep) {
		return nil, ErrInvalidStep
	}
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, userID, payload, "ajax")
}

// SubmitStepForm validates a strictly decoded payload and persists it.
// Validation failures are returned as wizard.FieldErrors.
func (s *ProfileService) SubmitStepForm(ctx context.Context, userID uuid.UUID, payload wizard.Step) (*models.StudentProfile, error) {
	profile, err := loadProfile(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWritable(profile, payload.Number()); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.persist(ctx, userID, payload, "form")
}

func (s *ProfileService) persist(ctx context.Context, userID uuid.UUID, payload wizard.Step, path string) (*models.StudentProfile, error) {
	n := payload.Number()
	var profile *models.StudentProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = loadProfile(tx, userID)
		if err != nil {
			return err
		}
		if err := s.checkWritable(profile, n); err != nil {
			return err
		}

		payload.Apply(profile)
		if ed, ok := payload.(*wizard.Education); ok {
			if err := tx.Where("student_profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
				return fmt.Errorf("failed to clear experiences: %w", err)
			}
			records := ed.ExperienceRecords(profile)
			if len(records) > 0 {
				if err := tx.Create(&records).Error; err != nil {
					return fmt.Errorf("failed to store experiences: %w", err)
				}
			}
			profile.Experiences = records
		}
		profile.StepCompleted = max(profile.StepCompleted, n)

		if err := tx.Omit(clause.Associations).Save(profile).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StepSaved(n, path)
	slog.Info("profile step saved", "identity_id", userID.String(), "step", n, "action", "save_step_"+path)
	return profile, nil
}

func (s *ProfileService) checkWritable(p *models.StudentProfile, n int) error {
	if s.lockOnSubmit && p.IsComplete {
		return ErrProfileLocked
	}
	if n > p.StepCompleted+1 {
		return &StepRedirectError{Step: p.NextStep(), Reason: ErrStepNotReached}
	}
	return nil
}

// Review returns the full profile once the first seven steps are saved.
func (s *ProfileService) Review(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	q := s.db.WithContext(ctx).
		Preload("User").
		Preload("Experiences", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	profile, err := loadProfile(q, userID)
	if err != nil {
		return nil, err
	}
	if profile.StepCompleted < reviewStep {
		return nil, &StepRedirectError{Step: profile.NextStep(), Reason: ErrStepsIncomplete}
	}
	return profile, nil
}

// Submit marks the profile complete. Submitting twice is a no-op.
func (s *ProfileService) Submit(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	var profile *models.StudentProfile
	submitted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = loadProfile(tx, userID)
		if err != nil {
			return err
		}
		if profile.IsComplete {
			return nil
		}
		if profile.StepCompleted < reviewStep {
			return ErrStepsIncomplete
		}

		now := s.now()
		profile.IsComplete = true
		profile.StepCompleted = models.TotalSteps
		profile.SubmittedAt = &now
		submitted = true
		return tx.Model(profile).Updates(map[string]interface{}{
			"is_complete":    true,
			"step_completed": models.TotalSteps,
			"submitted_at":   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	if submitted {
		s.metrics.Submitted()
		slog.Info("profile submitted", "identity_id", userID.String(), "action", "profile_submit")
	}
	return profile, nil
}

// Dashboard returns the profile with its owner.
func (s *ProfileService) Dashboard(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	return loadProfile(s.db.WithContext(ctx).Preload("User"), userID)
}

// Complete returns a submitted profile for the confirmation page.
func (s *ProfileService) Complete(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	profile, err := loadProfile(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsComplete {
		return nil, ErrProfileNotSubmitted
	}
	return profile, nil
}

// UploadDocuments checks every file first and stores them only if all pass.
func (s *ProfileService) UploadDocuments(ctx context.Context, userID uuid.UUID, files map[DocumentKind]*multipart.FileHeader) (*models.StudentProfile, error) {
	profile, err := loadProfile(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if s.lockOnSubmit && profile.IsComplete {
		return nil, ErrProfileLocked
	}
	if len(files) == 0 {
		return nil, &DocumentError{Field: "documents", Message: "No files were uploaded"}
	}

	for _, kind := range DocumentKinds {
		if fh, ok := files[kind]; ok {
			if err := checkDocument(kind, fh); err != nil {
				return nil, err
			}
		}
	}

	updates := make(map[string]interface{}, len(files))
	var stored, superseded []string
	for _, kind := range DocumentKinds {
		fh, ok := files[kind]
		if !ok {
			continue
		}
		saved, err := s.storeDocument(ctx, kind, fh)
		if err != nil {
			s.removeDocuments(ctx, userID, stored)
			return nil, err
		}
		stored = append(stored, saved)
		updates[string(kind)] = saved
		slot := documentSlot(profile, kind)
		if *slot != "" {
			superseded = append(superseded, *slot)
		}
		*slot = saved
	}

	if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		s.removeDocuments(ctx, userID, stored)
		return nil, fmt.Errorf("failed to save documents: %w", err)
	}
	s.removeDocuments(ctx, userID, superseded)
	slog.Info("documents uploaded", "identity_id", userID.String(), "action", "upload_documents", "count", len(updates))
	return profile, nil
}

func documentSlot(p *models.StudentProfile, kind DocumentKind) *string {
	switch kind {
	case DocumentPhoto:
		return &p.Photo
	case DocumentResume:
		return &p.Resume
	case DocumentIDProof:
		return &p.IDProof
	default:
		return &p.Marksheet
	}
}

// removeDocuments is best effort; a leftover file never fails the request.
func (s *ProfileService) removeDocuments(ctx context.Context, userID uuid.UUID, paths []string) {
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			slog.Error("failed to remove document", "identity_id", userID.String(), "action", "upload_documents", "path", p, "error", err)
		}
	}
}

func (s *ProfileService) storeDocument(ctx context.Context, kind DocumentKind, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return s.store.Save(ctx, kind, fh.Filename, f)
}

func checkDocument(kind DocumentKind, fh *multipart.FileHeader) error {
	rule, ok := documentRules[kind]
	if !ok {
		return &DocumentError{Field: string(kind), Message: "Unknown document type"}
	}
	if fh.Size > rule.maxBytes {
		return &DocumentError{
			Field:   string(kind),
			Message: fmt.Sprintf("%s size should not exceed %dMB", rule.label, rule.maxBytes/mb),
		}
	}
	if rule.declaredPrefix != "" && !strings.HasPrefix(fh.Header.Get("Content-Type"), rule.declaredPrefix) {
		return &DocumentError{Field: string(kind), Message: rule.typeMessage}
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	detected, err := mimetype.DetectReader(io.LimitReader(f, 3072))
	if err != nil {
		return fmt.Errorf("failed to inspect upload: %w", err)
	}
	if !mimeAllowed(detected, rule.allowed) {
		return &DocumentError{Field: string(kind), Message: rule.typeMessage}
	}
	return nil
}

func mimeAllowed(detected *mimetype.MIME, allowed []string) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func loadProfile(q *gorm.DB, userID uuid.UUID) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := q.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}
