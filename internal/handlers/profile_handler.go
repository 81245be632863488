package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/services"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/wizard"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := middleware.CurrentUserID(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

// Start creates the profile on first visit and sends the owner to the next
// unsaved step, or to the dashboard once submitted.
func (h *ProfileHandler) Start(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Start(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		return err
	}
	if profile.IsComplete {
		return redirect(c, dashboardPath)
	}
	return redirect(c, stepPath(profile.NextStep()))
}

// Step returns the form state of one step. Unreachable steps redirect.
func (h *ProfileHandler) Step(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	n, err := c.ParamsInt("n")
	if err != nil {
		return redirect(c, startPath)
	}

	state, err := h.profileService.Access(c.UserContext(), userID, n)
	if err != nil {
		var ahead *services.StepRedirectError
		switch {
		case errors.As(err, &ahead):
			return redirect(c, stepPath(ahead.Step))
		case errors.Is(err, services.ErrInvalidStep), errors.Is(err, services.ErrProfileNotFound):
			return redirect(c, startPath)
		}
		return err
	}
	return succeed(c, "", state)
}

// SubmitStep validates and saves one step posted as a form or JSON object.
func (h *ProfileHandler) SubmitStep(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	n, err := c.ParamsInt("n")
	if err != nil {
		return refuse(c, fiber.StatusBadRequest, "Invalid step", startPath)
	}
	payload, err := wizard.New(n)
	if err != nil {
		return refuse(c, fiber.StatusBadRequest, "Invalid step", startPath)
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return refuse(c, fiber.StatusBadRequest, "Invalid form data", "")
		}
	}

	profile, err := h.profileService.SubmitStepForm(c.UserContext(), userID, payload)
	if err != nil {
		var fieldErrs wizard.FieldErrors
		if errors.As(err, &fieldErrs) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.Envelope{
				Success: false,
				Message: "Please correct the errors below",
				Errors:  fieldErrs,
			})
		}
		return h.saveError(c, err)
	}

	next := reviewPath
	if n < models.TotalSteps {
		next = stepPath(n + 1)
	}
	return c.JSON(dto.Envelope{
		Success:  true,
		Message:  fmt.Sprintf("Step %d saved successfully", n),
		Redirect: next,
		Data:     stepProgress(profile),
	})
}

// SaveStep is the AJAX autosave endpoint. The body is always read as JSON.
func (h *ProfileHandler) SaveStep(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil || raw == nil {
		return refuse(c, fiber.StatusBadRequest, "Invalid JSON data", "")
	}

	profile, err := h.profileService.SaveStep(c.UserContext(), userID, raw)
	if err != nil {
		return h.saveError(c, err)
	}
	return c.JSON(dto.Envelope{
		Success: true,
		Message: "Step saved successfully",
		Data:    stepProgress(profile),
	})
}

func (h *ProfileHandler) saveError(c *fiber.Ctx, err error) error {
	var ahead *services.StepRedirectError
	switch {
	case errors.As(err, &ahead):
		return refuse(c, fiber.StatusConflict, ahead.Reason.Error(), stepPath(ahead.Step))
	case errors.Is(err, services.ErrInvalidStep):
		return refuse(c, fiber.StatusBadRequest, "Invalid step", "")
	case errors.Is(err, wizard.ErrMalformedPayload):
		return refuse(c, fiber.StatusBadRequest, err.Error(), "")
	case errors.Is(err, services.ErrProfileNotFound):
		return refuse(c, fiber.StatusNotFound, err.Error(), startPath)
	case errors.Is(err, services.ErrProfileLocked):
		return refuse(c, fiber.StatusForbidden, err.Error(), dashboardPath)
	}
	return err
}

func stepProgress(p *models.StudentProfile) fiber.Map {
	return fiber.Map{
		"step_completed":      p.StepCompleted,
		"progress_percentage": p.ProgressPercentage(),
	}
}

// Review returns the whole profile once the first seven steps are saved.
func (h *ProfileHandler) Review(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Review(c.UserContext(), userID)
	if err != nil {
		var ahead *services.StepRedirectError
		switch {
		case errors.As(err, &ahead):
			return redirect(c, stepPath(ahead.Step))
		case errors.Is(err, services.ErrProfileNotFound):
			return redirect(c, startPath)
		}
		return err
	}
	return succeed(c, "", fiber.Map{
		"profile":             profile,
		"user":                dto.NewUserResponse(&profile.User),
		"progress_percentage": profile.ProgressPercentage(),
	})
}

func (h *ProfileHandler) Submit(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Submit(c.UserContext(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStepsIncomplete):
			return refuse(c, fiber.StatusBadRequest, err.Error(), reviewPath)
		case errors.Is(err, services.ErrProfileNotFound):
			return refuse(c, fiber.StatusNotFound, err.Error(), startPath)
		}
		return err
	}
	return c.JSON(dto.Envelope{
		Success:  true,
		Message:  "Profile submitted successfully!",
		Redirect: dashboardPath,
		Data:     stepProgress(profile),
	})
}

func (h *ProfileHandler) Complete(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Complete(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotSubmitted) || errors.Is(err, services.ErrProfileNotFound) {
			return redirect(c, startPath)
		}
		return err
	}
	return succeed(c, "Your profile has been submitted", fiber.Map{
		"full_name":    profile.FullName,
		"submitted_at": profile.SubmittedAt,
	})
}

// UploadDocuments accepts any of photo, resume, id_proof and marksheet as
// multipart files.
func (h *ProfileHandler) UploadDocuments(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return refuse(c, fiber.StatusBadRequest, "Expected a multipart upload", "")
	}
	files := make(map[services.DocumentKind]*multipart.FileHeader)
	for _, kind := range services.DocumentKinds {
		if headers := form.File[string(kind)]; len(headers) > 0 {
			files[kind] = headers[0]
		}
	}

	profile, err := h.profileService.UploadDocuments(c.UserContext(), userID, files)
	if err != nil {
		var docErr *services.DocumentError
		switch {
		case errors.As(err, &docErr):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
				Success: false,
				Message: docErr.Message,
				Errors:  map[string]string{docErr.Field: docErr.Message},
			})
		case errors.Is(err, services.ErrProfileNotFound):
			return refuse(c, fiber.StatusNotFound, err.Error(), startPath)
		case errors.Is(err, services.ErrProfileLocked):
			return refuse(c, fiber.StatusForbidden, err.Error(), dashboardPath)
		}
		return err
	}
	return succeed(c, "Documents uploaded successfully", dto.NewDocumentsResponse(profile))
}

func (h *ProfileHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Dashboard(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return redirect(c, startPath)
		}
		return err
	}
	return succeed(c, "", dto.NewDashboardResponse(profile, &profile.User))
}
