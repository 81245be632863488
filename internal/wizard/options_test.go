package wizard

import (
	"reflect"
	"testing"
)

func TestOptionSet_KeysNormalisesAndDrops(t *testing.T) {
	got := Languages.Keys([]string{"English", "hindi", "  Tamil ", "Klingon", "english"})
	want := []string{"english", "hindi", "tamil"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestOptionSet_Aliases(t *testing.T) {
	tests := []struct {
		set   *OptionSet
		input string
		want  string
	}{
		{JobRoles, "HR", "hr"},
		{JobRoles, "Sales / Business Development", "sales"},
		{Industries, "IT/Software", "it_software"},
		{Industries, "IT / Software", "it_software"},
		{TimeSlots, "Morning", "morning"},
		{TimeSlots, "Morning (6 AM - 12 PM)", "morning"},
		{CareerConcerns, "Lack of work experience", "lack_of_experience"},
		{CareerConcerns, "Low confidence", "low_confidence"},
		{ComputerSkills, "Internet Browsing & Research", "internet"},
	}
	for _, tt := range tests {
		got, ok := tt.set.Key(tt.input)
		if !ok || got != tt.want {
			t.Errorf("%s.Key(%q) = %q, %v; want %q", tt.set.Name, tt.input, got, ok, tt.want)
		}
	}
}

func TestOptionSet_CanonicalKeepsUnknown(t *testing.T) {
	got := ToolExposure.Canonical([]string{"CRM Software", "Abacus", " "})
	want := []string{"crm", "Abacus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Canonical() = %v, want %v", got, want)
	}
}

func TestOptionSet_Choices(t *testing.T) {
	choices := Languages.Choices([]string{"english", "hindi"})
	if len(choices) != len(Languages.Options()) {
		t.Fatalf("expected %d choices, got %d", len(Languages.Options()), len(choices))
	}
	for _, c := range choices {
		want := c.Key == "english" || c.Key == "hindi"
		if c.Checked != want {
			t.Errorf("choice %q checked = %v, want %v", c.Key, c.Checked, want)
		}
	}
}

func TestOptionSet_Labels(t *testing.T) {
	got := JobRoles.Labels([]string{"sales", "data_analyst", "legacy"})
	want := []string{"Sales / Business Development", "Data Analyst", "legacy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}
