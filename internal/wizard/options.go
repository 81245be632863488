package wizard

import "strings"

// Option is one entry of a closed choice list.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Choice is an Option annotated with whether the stored profile selected it.
type Choice struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// OptionSet is the closed enumeration behind one choice field. Profiles store
// keys; labels and legacy aliases are accepted on input only.
type OptionSet struct {
	Name    string
	options []Option
	lookup  map[string]string
	labels  map[string]string
}

func newOptionSet(name string, options []Option, aliases map[string]string) *OptionSet {
	s := &OptionSet{
		Name:    name,
		options: options,
		lookup:  make(map[string]string, len(options)*2+len(aliases)),
		labels:  make(map[string]string, len(options)),
	}
	for _, o := range options {
		s.lookup[normalize(o.Key)] = o.Key
		s.lookup[normalize(o.Label)] = o.Key
		s.labels[o.Key] = o.Label
	}
	for alias, key := range aliases {
		s.lookup[normalize(alias)] = key
	}
	return s
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Options returns the choices in display order.
func (s *OptionSet) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Key resolves a key, label, or alias to its canonical key.
func (s *OptionSet) Key(value string) (string, bool) {
	key, ok := s.lookup[normalize(value)]
	return key, ok
}

// Valid reports whether value is already a canonical key.
func (s *OptionSet) Valid(value string) bool {
	_, ok := s.labels[value]
	return ok
}

// Keys maps submitted values to canonical keys, dropping duplicates and
// anything outside the set.
func (s *OptionSet) Keys(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key, ok := s.Key(v)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// Canonical is Keys without the filtering: unknown values are kept verbatim so
// validation can report them.
func (s *OptionSet) Canonical(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if key, ok := s.Key(v); ok {
			v = key
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Label returns the display label for key, or key itself if unknown.
func (s *OptionSet) Label(key string) string {
	if label, ok := s.labels[key]; ok {
		return label
	}
	return key
}

func (s *OptionSet) Labels(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.Label(k)
	}
	return out
}

// Choices returns every option with Checked set for the selected keys.
func (s *OptionSet) Choices(selected []string) []Choice {
	picked := make(map[string]bool, len(selected))
	for _, k := range selected {
		picked[k] = true
	}
	out := make([]Choice, len(s.options))
	for i, o := range s.options {
		out[i] = Choice{Key: o.Key, Label: o.Label, Checked: picked[o.Key]}
	}
	return out
}

// Multi-select sets.
var (
	Languages = newOptionSet("languages", []Option{
		{"english", "English"},
		{"hindi", "Hindi"},
		{"tamil", "Tamil"},
		{"telugu", "Telugu"},
		{"kannada", "Kannada"},
		{"bengali", "Bengali"},
	}, nil)

	ComputerSkills = newOptionSet("computer_skills", []Option{
		{"ms_office", "MS Office"},
		{"google_suite", "Google Suite"},
		{"email", "Email Communication"},
		{"internet", "Internet Browsing & Research"},
		{"social_media", "Social Media"},
	}, nil)

	ToolExposure = newOptionSet("tool_exposure", []Option{
		{"spreadsheets", "MS Excel / Google Sheets"},
		{"crm", "CRM Software"},
		{"design", "Design Tools"},
		{"video_conferencing", "Video Conferencing"},
		{"programming", "Programming / Coding"},
	}, map[string]string{
		"Excel": "spreadsheets",
	})

	JobRoles = newOptionSet("job_roles", []Option{
		{"sales", "Sales / Business Development"},
		{"customer_support", "Customer Support"},
		{"marketing", "Marketing / Digital Marketing"},
		{"hr", "Human Resources"},
		{"content", "Content Writing"},
		{"software_developer", "Software Developer"},
		{"data_analyst", "Data Analyst"},
		{"operations", "Operations / Admin"},
	}, map[string]string{
		"Sales":      "sales",
		"Marketing":  "marketing",
		"HR":         "hr",
		"Content":    "content",
		"Operations": "operations",
	})

	Industries = newOptionSet("industries", []Option{
		{"it_software", "IT / Software"},
		{"ecommerce", "E-commerce"},
		{"fintech", "Fintech / Banking"},
		{"edtech", "EdTech / Education"},
		{"healthcare", "Healthcare"},
		{"consulting", "Consulting"},
	}, map[string]string{
		"IT/Software": "it_software",
		"Fintech":     "fintech",
		"EdTech":      "edtech",
	})

	TimeSlots = newOptionSet("time_slots", []Option{
		{"morning", "Morning (6 AM - 12 PM)"},
		{"afternoon", "Afternoon (12 PM - 5 PM)"},
		{"evening", "Evening (5 PM - 9 PM)"},
		{"night", "Night (9 PM - 12 AM)"},
	}, map[string]string{
		"Morning":   "morning",
		"Afternoon": "afternoon",
		"Evening":   "evening",
		"Night":     "night",
	})

	CareerConcerns = newOptionSet("career_concerns", []Option{
		{"lack_of_experience", "Lack of Experience"},
		{"lack_of_skills", "Lack of Skills"},
		{"low_confidence", "Low Confidence"},
		{"career_direction", "Career Direction"},
	}, map[string]string{
		"Lack of work experience":        "lack_of_experience",
		"Need to develop more skills":    "lack_of_skills",
		"Unclear about career direction": "career_direction",
	})
)

// Single-choice sets.
var (
	Genders = newOptionSet("gender", []Option{
		{"male", "Male"},
		{"female", "Female"},
		{"other", "Other"},
		{"prefer_not_to_say", "Prefer not to say"},
	}, nil)

	Statuses = newOptionSet("current_status", []Option{
		{"student", "Student"},
		{"graduate", "Graduate"},
		{"postgraduate", "Postgraduate"},
	}, nil)

	WorkTypes = newOptionSet("work_type", []Option{
		{"remote", "Remote"},
		{"office", "Office"},
		{"hybrid", "Hybrid"},
		{"any", "Any"},
	}, nil)

	TrainingTimes = newOptionSet("time_for_training", []Option{
		{"full_time", "Full Time"},
		{"part_time", "Part Time"},
		{"weekends", "Weekends Only"},
	}, nil)

	InternetQualities = newOptionSet("internet_quality", []Option{
		{"excellent", "Excellent"},
		{"good", "Good"},
		{"average", "Average"},
		{"poor", "Poor"},
	}, nil)

	Orientations = newOptionSet("people_vs_task_oriented", []Option{
		{"people", "People-oriented"},
		{"task", "Task-oriented"},
	}, nil)

	WorkSettings = newOptionSet("office_vs_remote", []Option{
		{"office", "Office"},
		{"remote", "Remote"},
	}, nil)

	Strengths = newOptionSet("analysis_vs_communication", []Option{
		{"analysis", "Analysis"},
		{"communication", "Communication"},
	}, nil)

	FeePreferences = newOptionSet("fee_preference", []Option{
		{"upfront", "Pay Upfront"},
		{"emi", "EMI"},
		{"free", "Free Program"},
		{"scholarship", "Scholarship"},
	}, nil)
)

var optionSets = map[string]*OptionSet{}

func init() {
	for _, s := range []*OptionSet{
		Languages, ComputerSkills, ToolExposure, JobRoles, Industries, TimeSlots, CareerConcerns,
		Genders, Statuses, WorkTypes, TrainingTimes, InternetQualities, Orientations, WorkSettings,
		Strengths, FeePreferences,
	} {
		optionSets[s.Name] = s
	}
}
