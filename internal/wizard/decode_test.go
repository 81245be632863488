package wizard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/google/uuid"
)

func TestDecode_UnknownStep(t *testing.T) {
	for _, n := range []int{0, 9, -1} {
		if _, err := Decode(n, map[string]any{}); !errors.Is(err, ErrUnknownStep) {
			t.Errorf("Decode(%d) error = %v, want ErrUnknownStep", n, err)
		}
	}
}

func TestDecode_EducationDefaults(t *testing.T) {
	s, err := Decode(2, map[string]any{"num_backlogs": "many"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ed := s.(*Education)
	if ed.GraduationYear != 2024 {
		t.Errorf("GraduationYear = %d, want 2024", ed.GraduationYear)
	}
	if ed.NumBacklogs != 0 {
		t.Errorf("NumBacklogs = %d, want 0", ed.NumBacklogs)
	}
	if ed.HasBacklogs {
		t.Error("HasBacklogs should default to false")
	}
}

func TestDecode_SkillsCoercion(t *testing.T) {
	s, err := Decode(3, map[string]any{
		"english_speaking": "abc",
		"english_reading":  float64(5),
		"english_writing":  "4",
		"typing_speed":     nil,
		"computer_skills":  []any{"MS Office", "Telepathy", "email"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sk := s.(*Skills)
	if sk.EnglishSpeaking != 3 || sk.EnglishReading != 5 || sk.EnglishWriting != 4 {
		t.Errorf("english scores = %d/%d/%d, want 3/5/4", sk.EnglishSpeaking, sk.EnglishReading, sk.EnglishWriting)
	}
	if sk.TypingSpeed != 0 {
		t.Errorf("TypingSpeed = %d, want 0", sk.TypingSpeed)
	}
	if want := []string{"ms_office", "email"}; !reflect.DeepEqual(sk.ComputerSkills, want) {
		t.Errorf("ComputerSkills = %v, want %v", sk.ComputerSkills, want)
	}
	if sk.ToolExposure == nil || len(sk.ToolExposure) != 0 {
		t.Errorf("missing ToolExposure should decode to an empty list, got %#v", sk.ToolExposure)
	}
}

func TestDecode_AvailabilityDeviceDefaults(t *testing.T) {
	s, err := Decode(5, map[string]any{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	av := s.(*Availability)
	if !av.HasMobileAccess || av.HasLaptopAccess {
		t.Errorf("devices = mobile:%v laptop:%v, want true/false", av.HasMobileAccess, av.HasLaptopAccess)
	}
}

func TestDecode_BehaviouralDefaults(t *testing.T) {
	s, err := Decode(6, map[string]any{"comfort_writing_emails": float64(1)})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b := s.(*Behavioural)
	if b.ComfortTalkingStrangers != 3 || b.ComfortFollowingTargets != 3 || b.ComfortWritingEmails != 1 {
		t.Errorf("comfort scores not defaulted: %+v", b)
	}
}

func TestDecode_MalformedDate(t *testing.T) {
	_, err := Decode(1, map[string]any{"date_of_birth": "15/06/2001"})
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("error = %v, want ErrMalformedPayload", err)
	}
}

func TestDecode_ExperiencesAndLocations(t *testing.T) {
	s, err := Decode(2, map[string]any{
		"experiences": []any{
			map[string]any{"company_name": "Acme", "role": "Intern", "duration": "3 months"},
			"not an object",
		},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ed := s.(*Education)
	if len(ed.Experiences) != 1 || ed.Experiences[0].CompanyName != "Acme" {
		t.Errorf("Experiences = %+v", ed.Experiences)
	}

	s, err = Decode(4, map[string]any{"preferred_locations": "Pune, Mumbai ,"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := []string(s.(*Career).PreferredLocations); !reflect.DeepEqual(got, []string{"Pune", "Mumbai"}) {
		t.Errorf("PreferredLocations = %v", got)
	}
}

func TestStepNumber(t *testing.T) {
	if got := StepNumber(map[string]any{"step": "3"}); got != 3 {
		t.Errorf("StepNumber = %d, want 3", got)
	}
	if got := StepNumber(map[string]any{}); got != 0 {
		t.Errorf("StepNumber = %d, want 0", got)
	}
}

func TestLoad_PrepopulatesChoicesFromKeys(t *testing.T) {
	p := models.NewStudentProfile(uuid.New(), "Asha")
	s, err := Decode(1, map[string]any{"preferred_languages": []any{"English", "Hindi"}, "gender": "female"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s.Apply(p)
	p.StepCompleted = 1

	state, err := Load(1, p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Title != "Basic Information" || state.TotalSteps != 8 || state.StepCompleted != 1 {
		t.Errorf("unexpected header: %+v", state)
	}
	var checked []string
	for _, c := range state.Choices["preferred_languages"] {
		if c.Checked {
			checked = append(checked, c.Key)
		}
	}
	if !reflect.DeepEqual(checked, []string{"english", "hindi"}) {
		t.Errorf("checked languages = %v, want [english hindi]", checked)
	}
	for _, c := range state.Choices["gender"] {
		if c.Checked != (c.Key == "female") {
			t.Errorf("gender %q checked = %v", c.Key, c.Checked)
		}
	}
}
