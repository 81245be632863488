package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/google/uuid"
)

// Envelope is the response shape of the wizard's AJAX endpoints.
type Envelope struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Redirect string            `json:"redirect,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Data     any               `json:"data,omitempty"`
}

// DashboardResponse summarises a profile for its owner.
type DashboardResponse struct {
	ProfileID          uuid.UUID    `json:"profile_id"`
	FullName           string       `json:"full_name"`
	StepCompleted      int          `json:"step_completed"`
	TotalSteps         int          `json:"total_steps"`
	ProgressPercentage int          `json:"progress_percentage"`
	IsComplete         bool         `json:"is_complete"`
	SubmittedAt        *time.Time   `json:"submitted_at"`
	NextStep           int          `json:"next_step"`
	User               UserResponse `json:"user"`
}

func NewDashboardResponse(p *models.StudentProfile, u *models.User) DashboardResponse {
	return DashboardResponse{
		ProfileID:          p.ID,
		FullName:           p.FullName,
		StepCompleted:      p.StepCompleted,
		TotalSteps:         models.TotalSteps,
		ProgressPercentage: p.ProgressPercentage(),
		IsComplete:         p.IsComplete,
		SubmittedAt:        p.SubmittedAt,
		NextStep:           p.NextStep(),
		User:               NewUserResponse(u),
	}
}

type DocumentsResponse struct {
	Photo     string `json:"photo,omitempty"`
	Resume    string `json:"resume,omitempty"`
	IDProof   string `json:"id_proof,omitempty"`
	Marksheet string `json:"marksheet,omitempty"`
}

func NewDocumentsResponse(p *models.StudentProfile) DocumentsResponse {
	return DocumentsResponse{Photo: p.Photo, Resume: p.Resume, IDProof: p.IDProof, Marksheet: p.Marksheet}
}
