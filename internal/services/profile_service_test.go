package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/wizard"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
)

func newTestProfileService(t *testing.T, lock bool) (*ProfileService, *gorm.DB, string) {
	t.Helper()
	db := setupTestDB(t)
	root := t.TempDir()
	svc := NewProfileService(db, NewLocalDocumentStore(root), lock, nil)
	svc.now = newFakeClock().Now
	return svc, db, root
}

func createStudent(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Mobile: strPtr("98" + uuid.NewString()[:8]), Name: name, AuthType: models.AuthTypeOTP}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func stepPayloads() []map[string]any {
	return []map[string]any{
		{
			"step": 1, "full_name": "Asha Rao", "gender": "female", "date_of_birth": "2001-04-02",
			"current_city": "Pune", "current_state": "Maharashtra", "preferred_languages": []any{"english", "Hindi"},
		},
		{
			"step": 2, "current_status": "graduate", "highest_qualification": "B.Com",
			"stream_specialization": "Commerce", "college_name": "Fergusson", "university": "SPPU",
			"graduation_year": "2023", "academic_scores": "72%", "has_backlogs": false,
			"experiences": []any{
				map[string]any{"company_name": "Acme", "role": "Intern", "duration": "3 months"},
			},
		},
		{
			"step": 3, "english_speaking": 4, "english_reading": 4, "english_writing": 3,
			"computer_skills": []any{"ms_office", "email"}, "tool_exposure": []any{"Excel"}, "typing_speed": 35,
		},
		{
			"step": 4, "preferred_job_roles": []any{"Sales", "hr"}, "preferred_industries": []any{"fintech"},
			"work_type": "hybrid", "preferred_locations": "Pune, Mumbai", "willing_to_relocate": true,
			"expected_salary": "3 LPA",
		},
		{
			"step": 5, "time_for_training": "part_time", "preferred_time_slots": []any{"Evening"},
			"has_mobile_access": true, "has_laptop_access": true, "internet_quality": "good",
		},
		{
			"step": 6, "comfort_talking_strangers": 4, "comfort_handling_angry_customers": 3,
			"comfort_working_with_data": 4, "comfort_following_targets": 3, "comfort_writing_emails": 5,
			"people_vs_task_oriented": "people", "office_vs_remote": "office",
			"analysis_vs_communication": "communication", "career_concerns": []any{"low_confidence"},
			"career_goal_3_years": "Lead a small sales team in a growing fintech company",
		},
		{
			"step": 7, "discovery_source": "Friend", "commitment_confirmed": true, "fee_preference": "emi",
		},
	}
}

func saveSteps(t *testing.T, svc *ProfileService, userID uuid.UUID, upTo int) {
	t.Helper()
	for i, raw := range stepPayloads()[:upTo] {
		if _, err := svc.SaveStep(context.Background(), userID, raw); err != nil {
			t.Fatalf("SaveStep(%d) error: %v", i+1, err)
		}
	}
}

func TestStart_CreatesProfileOnce(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()

	first, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if first.FullName != "Asha Rao" || first.StepCompleted != 0 {
		t.Errorf("new profile = %q step %d", first.FullName, first.StepCompleted)
	}
	if first.EnglishSpeaking != 3 || !first.HasMobileAccess {
		t.Error("new profile should carry section defaults")
	}

	second, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Start created a second profile")
	}

	var count int64
	db.Model(&models.StudentProfile{}).Count(&count)
	if count != 1 {
		t.Errorf("profile count = %d, want 1", count)
	}
}

func TestStart_UnknownUser(t *testing.T) {
	svc, _, _ := newTestProfileService(t, true)
	if _, err := svc.Start(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccess_ClampsToNextStep(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()

	if _, err := svc.Access(ctx, user.ID, 1); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound before start, got %v", err)
	}
	if _, err := svc.Start(ctx, user.ID); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	_, err := svc.Access(ctx, user.ID, 4)
	var redirect *StepRedirectError
	if !errors.As(err, &redirect) {
		t.Fatalf("expected StepRedirectError, got %v", err)
	}
	if redirect.Step != 1 || !errors.Is(err, ErrStepNotReached) {
		t.Errorf("redirect = %+v", redirect)
	}

	for _, n := range []int{0, 9} {
		if _, err := svc.Access(ctx, user.ID, n); !errors.Is(err, ErrInvalidStep) {
			t.Errorf("Access(%d) expected ErrInvalidStep, got %v", n, err)
		}
	}

	saveSteps(t, svc, user.ID, 2)
	state, err := svc.Access(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("Access(2) error: %v", err)
	}
	ed, ok := state.Values.(*wizard.Education)
	if !ok {
		t.Fatalf("Values = %T, want *wizard.Education", state.Values)
	}
	if len(ed.Experiences) != 1 || ed.Experiences[0].CompanyName != "Acme" {
		t.Errorf("experiences = %+v", ed.Experiences)
	}
	if state.StepCompleted != 2 || state.TotalSteps != models.TotalSteps {
		t.Errorf("state = %+v", state)
	}
}

func TestSaveStep_FullFlow(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	if _, err := svc.Start(ctx, user.ID); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	saveSteps(t, svc, user.ID, 7)

	var p models.StudentProfile
	if err := db.Preload("Experiences").Where("user_id = ?", user.ID).First(&p).Error; err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if p.StepCompleted != 7 {
		t.Errorf("StepCompleted = %d, want 7", p.StepCompleted)
	}
	if p.GraduationYear != 2023 {
		t.Errorf("GraduationYear = %d, want 2023", p.GraduationYear)
	}
	if got := []string(p.PreferredLanguages); len(got) != 2 || got[0] != "english" || got[1] != "hindi" {
		t.Errorf("PreferredLanguages = %v", got)
	}
	if got := []string(p.ToolExposure); len(got) != 1 || got[0] != "spreadsheets" {
		t.Errorf("ToolExposure = %v", got)
	}
	if got := []string(p.PreferredJobRoles); len(got) != 2 || got[0] != "sales" || got[1] != "hr" {
		t.Errorf("PreferredJobRoles = %v", got)
	}
	if got := []string(p.PreferredTimeSlots); len(got) != 1 || got[0] != "evening" {
		t.Errorf("PreferredTimeSlots = %v", got)
	}
	if got := []string(p.PreferredLocations); len(got) != 2 || got[1] != "Mumbai" {
		t.Errorf("PreferredLocations = %v", got)
	}
	if p.DateOfBirth == nil || p.DateOfBirth.Format("2006-01-02") != "2001-04-02" {
		t.Errorf("DateOfBirth = %v", p.DateOfBirth)
	}
	if len(p.Experiences) != 1 {
		t.Errorf("experiences = %d, want 1", len(p.Experiences))
	}
	if p.ProgressPercentage() != 87 {
		t.Errorf("ProgressPercentage = %d, want 87", p.ProgressPercentage())
	}
}

func skillFields(p *models.StudentProfile) string {
	return fmt.Sprintf("%d/%d/%d %v %v %d",
		p.EnglishSpeaking, p.EnglishReading, p.EnglishWriting, p.ComputerSkills, p.ToolExposure, p.TypingSpeed)
}

func TestSaveStep_IdempotentForSamePayload(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)
	saveSteps(t, svc, user.ID, 4)

	skills := func() map[string]any {
		return map[string]any{
			"step": "3", "english_speaking": "4", "english_reading": 2, "english_writing": "bad",
			"computer_skills": []any{"email"}, "tool_exposure": "spreadsheets", "typing_speed": 30.7,
		}
	}
	first, err := svc.SaveStep(ctx, user.ID, skills())
	if err != nil {
		t.Fatalf("first SaveStep error: %v", err)
	}
	second, err := svc.SaveStep(ctx, user.ID, skills())
	if err != nil {
		t.Fatalf("second SaveStep error: %v", err)
	}
	reloaded, err := loadProfile(db, user.ID)
	if err != nil {
		t.Fatalf("loadProfile error: %v", err)
	}

	want := skillFields(first)
	if got := skillFields(second); got != want {
		t.Errorf("second save = %s, want %s", got, want)
	}
	if got := skillFields(reloaded); got != want {
		t.Errorf("stored = %s, want %s", got, want)
	}
	if first.TypingSpeed != 30 || first.EnglishWriting != 3 || len(first.ToolExposure) != 1 {
		t.Errorf("coerced skills = %s", want)
	}
	for _, p := range []*models.StudentProfile{first, second, reloaded} {
		if p.StepCompleted != 4 {
			t.Errorf("StepCompleted = %d, want 4", p.StepCompleted)
		}
	}
}

func TestSaveStep_ReplacesExperiences(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)
	saveSteps(t, svc, user.ID, 2)

	raw := stepPayloads()[1]
	raw["experiences"] = []any{
		map[string]any{"company_name": "Beta", "role": "Analyst"},
		map[string]any{"company_name": "Gamma", "role": "Associate"},
	}
	if _, err := svc.SaveStep(ctx, user.ID, raw); err != nil {
		t.Fatalf("SaveStep error: %v", err)
	}

	var rows []models.Experience
	db.Order("company_name").Find(&rows)
	if len(rows) != 2 || rows[0].CompanyName != "Beta" || rows[1].CompanyName != "Gamma" {
		t.Errorf("experiences = %+v", rows)
	}

	// Re-saving an earlier step never lowers progress.
	if _, err := svc.SaveStep(ctx, user.ID, stepPayloads()[0]); err != nil {
		t.Fatalf("SaveStep(1) error: %v", err)
	}
	p, _ := loadProfile(db, user.ID)
	if p.StepCompleted != 2 {
		t.Errorf("StepCompleted = %d, want 2", p.StepCompleted)
	}
}

func TestSaveStep_Errors(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()

	if _, err := svc.SaveStep(ctx, user.ID, stepPayloads()[0]); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
	svc.Start(ctx, user.ID)

	if _, err := svc.SaveStep(ctx, user.ID, map[string]any{"step": 12}); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
	if _, err := svc.SaveStep(ctx, user.ID, map[string]any{"full_name": "x"}); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("missing step should be ErrInvalidStep, got %v", err)
	}

	_, err := svc.SaveStep(ctx, user.ID, stepPayloads()[2])
	var redirect *StepRedirectError
	if !errors.As(err, &redirect) || redirect.Step != 1 {
		t.Fatalf("skipping ahead should redirect to step 1, got %v", err)
	}
}

func TestSubmitStepForm_Validates(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)

	invalid := &wizard.BasicInfo{FullName: "As", Gender: "female", DateOfBirth: "2015-01-01"}
	_, err := svc.SubmitStepForm(ctx, user.ID, invalid)
	var fe wizard.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, field := range []string{"full_name", "date_of_birth", "current_city", "preferred_languages"} {
		if _, ok := fe[field]; !ok {
			t.Errorf("missing error for %s: %v", field, fe)
		}
	}
	p, _ := loadProfile(db, user.ID)
	if p.StepCompleted != 0 {
		t.Errorf("invalid form must not advance progress, got %d", p.StepCompleted)
	}

	valid := &wizard.BasicInfo{
		FullName: " Asha Rao ", Gender: "Female", DateOfBirth: "2001-04-02",
		CurrentCity: "Pune", CurrentState: "Maharashtra", PreferredLanguages: []string{"English"},
	}
	saved, err := svc.SubmitStepForm(ctx, user.ID, valid)
	if err != nil {
		t.Fatalf("SubmitStepForm error: %v", err)
	}
	if saved.FullName != "Asha Rao" || saved.Gender != "female" || saved.StepCompleted != 1 {
		t.Errorf("saved = %q %q step %d", saved.FullName, saved.Gender, saved.StepCompleted)
	}

	_, err = svc.SubmitStepForm(ctx, user.ID, &wizard.Skills{})
	var redirect *StepRedirectError
	if !errors.As(err, &redirect) || redirect.Step != 2 {
		t.Errorf("step 3 form should redirect to step 2, got %v", err)
	}
}

func TestReviewAndSubmit(t *testing.T) {
	svc, db, _ := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)
	saveSteps(t, svc, user.ID, 6)

	_, err := svc.Review(ctx, user.ID)
	var redirect *StepRedirectError
	if !errors.As(err, &redirect) || redirect.Step != 7 || !errors.Is(err, ErrStepsIncomplete) {
		t.Fatalf("review before step 7 should redirect to 7, got %v", err)
	}
	if _, err := svc.Submit(ctx, user.ID); !errors.Is(err, ErrStepsIncomplete) {
		t.Fatalf("expected ErrStepsIncomplete, got %v", err)
	}
	if _, err := svc.Complete(ctx, user.ID); !errors.Is(err, ErrProfileNotSubmitted) {
		t.Fatalf("expected ErrProfileNotSubmitted, got %v", err)
	}

	saveSteps(t, svc, user.ID, 7)
	review, err := svc.Review(ctx, user.ID)
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if review.User.ID != user.ID || len(review.Experiences) != 1 {
		t.Errorf("review should preload user and experiences")
	}

	p, err := svc.Submit(ctx, user.ID)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !p.IsComplete || p.StepCompleted != 8 || p.SubmittedAt == nil {
		t.Errorf("submitted profile = complete %v step %d at %v", p.IsComplete, p.StepCompleted, p.SubmittedAt)
	}
	if p.ProgressPercentage() != 100 {
		t.Errorf("ProgressPercentage = %d, want 100", p.ProgressPercentage())
	}
	firstAt := *p.SubmittedAt

	again, err := svc.Submit(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Submit error: %v", err)
	}
	if !again.SubmittedAt.Equal(firstAt) {
		t.Errorf("resubmitting changed SubmittedAt")
	}

	if _, err := svc.Complete(ctx, user.ID); err != nil {
		t.Errorf("Complete error: %v", err)
	}
}

func TestSubmittedProfileLock(t *testing.T) {
	for _, lock := range []bool{true, false} {
		svc, db, _ := newTestProfileService(t, lock)
		user := createStudent(t, db, "Asha Rao")
		ctx := context.Background()
		svc.Start(ctx, user.ID)
		saveSteps(t, svc, user.ID, 7)
		if _, err := svc.Submit(ctx, user.ID); err != nil {
			t.Fatalf("Submit error: %v", err)
		}

		_, err := svc.SaveStep(ctx, user.ID, stepPayloads()[0])
		if lock && !errors.Is(err, ErrProfileLocked) {
			t.Errorf("lock=true: expected ErrProfileLocked, got %v", err)
		}
		if !lock && err != nil {
			t.Errorf("lock=false: expected edit to succeed, got %v", err)
		}
	}
}

func multipartFiles(t *testing.T, parts map[string][]byte, contentTypes map[string]string) map[DocumentKind]*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, data := range parts {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + field + `.bin"`}
		h["Content-Type"] = []string{contentTypes[field]}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		part.Write(data)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	out := make(map[DocumentKind]*multipart.FileHeader)
	for field, headers := range req.MultipartForm.File {
		out[DocumentKind(field)] = headers[0]
	}
	return out
}

func TestUploadDocuments(t *testing.T) {
	svc, db, root := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)

	files := multipartFiles(t,
		map[string][]byte{"photo": pngBytes, "resume": pdfBytes, "marksheet": pdfBytes},
		map[string]string{"photo": "image/png", "resume": "application/pdf", "marksheet": "application/pdf"},
	)
	p, err := svc.UploadDocuments(ctx, user.ID, files)
	if err != nil {
		t.Fatalf("UploadDocuments error: %v", err)
	}
	if filepath.Dir(p.Photo) != "student_photos" || filepath.Dir(p.Resume) != "resumes" || filepath.Dir(p.Marksheet) != "marksheets" {
		t.Errorf("stored paths = %q %q %q", p.Photo, p.Resume, p.Marksheet)
	}
	if p.IDProof != "" {
		t.Errorf("IDProof should stay empty, got %q", p.IDProof)
	}

	f, err := os.Open(filepath.Join(root, p.Resume))
	if err != nil {
		t.Fatalf("resume not written: %v", err)
	}
	defer f.Close()
	got, _ := io.ReadAll(f)
	if !bytes.Equal(got, pdfBytes) {
		t.Error("stored resume differs from upload")
	}

	reloaded, _ := loadProfile(db, user.ID)
	if reloaded.Photo != p.Photo {
		t.Errorf("photo path not persisted")
	}
}

func TestUploadDocuments_ReplacingRemovesOldFile(t *testing.T) {
	svc, db, root := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)

	upload := func() *models.StudentProfile {
		t.Helper()
		p, err := svc.UploadDocuments(ctx, user.ID, multipartFiles(t,
			map[string][]byte{"resume": pdfBytes},
			map[string]string{"resume": "application/pdf"},
		))
		if err != nil {
			t.Fatalf("UploadDocuments error: %v", err)
		}
		return p
	}
	first := upload().Resume
	second := upload().Resume

	if first == second {
		t.Fatalf("replacement reused path %q", first)
	}
	if _, err := os.Stat(filepath.Join(root, first)); !os.IsNotExist(err) {
		t.Errorf("old resume still on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, second)); err != nil {
		t.Errorf("new resume missing: %v", err)
	}
}

func TestLocalDocumentStore_DeleteStaysInRoot(t *testing.T) {
	root := t.TempDir()
	store := NewLocalDocumentStore(root)
	ctx := context.Background()

	for _, p := range []string{"../outside.pdf", "resumes/../../x", "/etc/passwd", ""} {
		if err := store.Delete(ctx, p); err == nil {
			t.Errorf("Delete(%q) should be refused", p)
		}
	}
	if err := store.Delete(ctx, "resumes/missing.pdf"); err != nil {
		t.Errorf("deleting a missing file: %v", err)
	}
}

func TestUploadDocuments_Rejections(t *testing.T) {
	svc, db, root := newTestProfileService(t, true)
	user := createStudent(t, db, "Asha Rao")
	ctx := context.Background()
	svc.Start(ctx, user.ID)

	tests := []struct {
		name  string
		parts map[string][]byte
		types map[string]string
		field string
	}{
		{"photo declared as pdf", map[string][]byte{"photo": pngBytes}, map[string]string{"photo": "application/pdf"}, "photo"},
		{"photo with pdf bytes", map[string][]byte{"photo": pdfBytes}, map[string]string{"photo": "image/png"}, "photo"},
		{"resume as image", map[string][]byte{"resume": pngBytes}, map[string]string{"resume": "image/png"}, "resume"},
		{"oversized photo", map[string][]byte{"photo": append(append([]byte{}, pngBytes...), make([]byte, 5<<20)...)}, map[string]string{"photo": "image/png"}, "photo"},
		{"one bad file blocks all", map[string][]byte{"resume": pdfBytes, "id_proof": []byte("plain text")}, map[string]string{"resume": "application/pdf", "id_proof": "text/plain"}, "id_proof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadDocuments(ctx, user.ID, multipartFiles(t, tt.parts, tt.types))
			var de *DocumentError
			if !errors.As(err, &de) {
				t.Fatalf("expected DocumentError, got %v", err)
			}
			if de.Field != tt.field {
				t.Errorf("Field = %q, want %q", de.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Error("DocumentError should match ErrInvalidDocument")
			}
		})
	}

	if _, err := svc.UploadDocuments(ctx, user.ID, nil); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("empty upload should fail, got %v", err)
	}

	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("rejected uploads must not write files, found %d entries", len(entries))
	}
}
