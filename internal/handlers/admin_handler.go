package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func pageFromQuery(c *fiber.Ctx) services.Page {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}
	return services.Page{Limit: limit, Offset: offset}
}

func boolQuery(c *fiber.Ctx, key string) *bool {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func profileFilter(c *fiber.Ctx) (services.ProfileFilter, error) {
	f := services.ProfileFilter{
		IsComplete:    boolQuery(c, "is_complete"),
		WorkType:      c.Query("work_type"),
		CurrentStatus: c.Query("current_status"),
		Search:        c.Query("q"),
	}
	if y := c.Query("graduation_year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return f, fmt.Errorf("graduation_year must be a number")
		}
		f.GraduationYear = year
	}
	if ids := c.Query("ids"); ids != "" {
		for _, raw := range strings.Split(ids, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return f, fmt.Errorf("invalid profile id %q", raw)
			}
			f.IDs = append(f.IDs, id)
		}
	}
	return f, nil
}

func (h *AdminHandler) ListProfiles(c *fiber.Ctx) error {
	f, err := profileFilter(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	page := pageFromQuery(c)
	profiles, total, err := h.adminService.ListProfiles(c.UserContext(), f, page)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		items = append(items, fiber.Map{
			"id":                  p.ID,
			"full_name":           p.FullName,
			"email":               p.User.EmailValue(),
			"mobile":              p.User.MobileValue(),
			"college_name":        p.CollegeName,
			"graduation_year":     p.GraduationYear,
			"work_type":           p.WorkType,
			"step_completed":      p.StepCompleted,
			"progress_percentage": p.ProgressPercentage(),
			"is_complete":         p.IsComplete,
			"submitted_at":        p.SubmittedAt,
			"created_at":          p.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{
		"profiles": items,
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

func (h *AdminHandler) GetProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid profile ID")
	}
	profile, err := h.adminService.GetProfile(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(fiber.Map{
		"profile":             profile,
		"user":                dto.NewUserResponse(&profile.User),
		"progress_percentage": profile.ProgressPercentage(),
	})
}

func (h *AdminHandler) ExportCSV(c *fiber.Ctx) error {
	return h.export(c, "csv", "text/csv; charset=utf-8", services.WriteCSV)
}

func (h *AdminHandler) ExportXLSX(c *fiber.Ctx) error {
	return h.export(c, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", services.WriteXLSX)
}

func (h *AdminHandler) export(c *fiber.Ctx, ext, contentType string, write func(w io.Writer, rows [][]string) error) error {
	f, err := profileFilter(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	rows, err := h.adminService.ExportRows(c.UserContext(), f)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := write(&buf, rows); err != nil {
		return err
	}
	filename := fmt.Sprintf("student_profiles_%s.%s", time.Now().UTC().Format("20060102"), ext)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func (h *AdminHandler) ListExperiences(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	rows, total, err := h.adminService.ListExperiences(c.UserContext(), c.Query("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"experiences": rows, "total": total, "limit": page.Limit, "offset": page.Offset})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	f := services.UserFilter{
		Search:   c.Query("q"),
		AuthType: c.Query("auth_type"),
		IsStaff:  boolQuery(c, "is_staff"),
	}
	users, total, err := h.adminService.ListUsers(c.UserContext(), f, page)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": items, "total": total, "limit": page.Limit, "offset": page.Offset})
}

func (h *AdminHandler) ListOTPLogs(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	f := services.OTPLogFilter{
		Mobile:   c.Query("mobile"),
		Verified: boolQuery(c, "verified"),
	}
	logs, total, err := h.adminService.ListOTPLogs(c.UserContext(), f, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"otp_logs": logs, "total": total, "limit": page.Limit, "offset": page.Offset})
}
