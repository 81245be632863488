package wizard

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
)

var (
	ErrUnknownStep      = errors.New("invalid step")
	ErrMalformedPayload = errors.New("malformed step payload")
)

// Decode builds the payload for step n from a loosely typed JSON object.
// Missing or malformed numbers and flags fall back to the section defaults and
// choice values outside the closed sets are dropped. No field rules are checked.
func Decode(n int, raw map[string]any) (Step, error) {
	s, err := New(n)
	if err != nil {
		return nil, err
	}
	if err := s.decode(fields(raw)); err != nil {
		return nil, err
	}
	s.normalize()
	return s, nil
}

// StepNumber reads the "step" member of a save request, 0 when absent or malformed.
func StepNumber(raw map[string]any) int {
	return fields(raw).integer("step", 0)
}

// FormState is what a client needs to render one section.
type FormState struct {
	Step          int                 `json:"step"`
	Title         string              `json:"title"`
	TotalSteps    int                 `json:"total_steps"`
	StepCompleted int                 `json:"step_completed"`
	Values        Step                `json:"values"`
	Choices       map[string][]Choice `json:"choices"`
}

// Load returns the form state of step n pre-populated from p.
func Load(n int, p *models.StudentProfile) (*FormState, error) {
	s, err := New(n)
	if err != nil {
		return nil, err
	}
	s.load(p)
	return &FormState{
		Step:          n,
		Title:         s.Title(),
		TotalSteps:    models.TotalSteps,
		StepCompleted: p.StepCompleted,
		Values:        s,
		Choices:       s.choices(),
	}, nil
}

type fields map[string]any

func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func (f fields) integer(key string, def int) int {
	switch v := f[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return n
	}
	return def
}

func (f fields) boolean(key string, def bool) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		case "false", "off", "0", "no", "":
			return false
		}
	}
	return def
}

func (f fields) list(key string) []string {
	switch v := f[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		return splitList(v)
	}
	return []string{}
}

func (f fields) objects(key string) []fields {
	items, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]fields, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, fields(m))
		}
	}
	return out
}
