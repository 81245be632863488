package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// Step is the payload of one wizard section. The set of implementations is
// closed: New and Decode are the only constructors.
type Step interface {
	Number() int
	Title() string
	// Apply overwrites the section's fields on p.
	Apply(p *models.StudentProfile)

	load(p *models.StudentProfile)
	decode(f fields) error
	normalize()
	choices() map[string][]Choice
}

var titles = [models.TotalSteps + 1]string{
	1: "Basic Information",
	2: "Education Details",
	3: "Skills Assessment",
	4: "Career Preferences",
	5: "Availability",
	6: "Behavioral Assessment",
	7: "Training Readiness",
	8: "Documents",
}

// New returns an empty payload for step n.
func New(n int) (Step, error) {
	switch n {
	case 1:
		return &BasicInfo{}, nil
	case 2:
		return &Education{}, nil
	case 3:
		return &Skills{}, nil
	case 4:
		return &Career{}, nil
	case 5:
		return &Availability{}, nil
	case 6:
		return &Behavioural{}, nil
	case 7:
		return &Training{}, nil
	case 8:
		return &Documents{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownStep, n)
}

// Normalize trims text and maps choice labels to keys ahead of validation.
func Normalize(s Step) { s.normalize() }

// BasicInfo is section A.
type BasicInfo struct {
	FullName           string   `json:"full_name" form:"full_name" validate:"required,min=3"`
	Gender             string   `json:"gender" form:"gender" validate:"required,option=gender"`
	DateOfBirth        string   `json:"date_of_birth" form:"date_of_birth" validate:"required,isodate,notfuture,minage=16"`
	CurrentCity        string   `json:"current_city" form:"current_city" validate:"required"`
	CurrentState       string   `json:"current_state" form:"current_state" validate:"required"`
	PreferredLanguages []string `json:"preferred_languages" form:"preferred_languages" validate:"min=1,dive,option=languages"`
}

func (*BasicInfo) Number() int   { return 1 }
func (*BasicInfo) Title() string { return titles[1] }

func (s *BasicInfo) Apply(p *models.StudentProfile) {
	p.FullName = s.FullName
	p.Gender = s.Gender
	p.DateOfBirth = parseDate(s.DateOfBirth)
	p.CurrentCity = s.CurrentCity
	p.CurrentState = s.CurrentState
	p.PreferredLanguages = keys(s.PreferredLanguages)
}

func (s *BasicInfo) load(p *models.StudentProfile) {
	s.FullName = p.FullName
	s.Gender = p.Gender
	if p.DateOfBirth != nil {
		s.DateOfBirth = p.DateOfBirth.Format(dateLayout)
	}
	s.CurrentCity = p.CurrentCity
	s.CurrentState = p.CurrentState
	s.PreferredLanguages = p.PreferredLanguages
}

func (s *BasicInfo) decode(f fields) error {
	s.FullName = f.str("full_name")
	s.Gender = f.str("gender")
	s.DateOfBirth = f.str("date_of_birth")
	if s.DateOfBirth != "" && parseDate(s.DateOfBirth) == nil {
		return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrMalformedPayload)
	}
	s.CurrentCity = f.str("current_city")
	s.CurrentState = f.str("current_state")
	s.PreferredLanguages = Languages.Keys(f.list("preferred_languages"))
	return nil
}

func (s *BasicInfo) normalize() {
	trim(&s.FullName, &s.Gender, &s.DateOfBirth, &s.CurrentCity, &s.CurrentState)
	if key, ok := Genders.Key(s.Gender); ok {
		s.Gender = key
	}
	s.PreferredLanguages = Languages.Canonical(s.PreferredLanguages)
}

func (s *BasicInfo) choices() map[string][]Choice {
	return map[string][]Choice{
		"gender":              Genders.Choices([]string{s.Gender}),
		"preferred_languages": Languages.Choices(s.PreferredLanguages),
	}
}

// ExperienceInput is one work experience row submitted with section B.
type ExperienceInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	Role        string `json:"role" validate:"required"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education is section B. Its experiences replace the stored collection.
type Education struct {
	CurrentStatus        string            `json:"current_status" form:"current_status" validate:"required,option=current_status"`
	HighestQualification string            `json:"highest_qualification" form:"highest_qualification" validate:"required"`
	StreamSpecialization string            `json:"stream_specialization" form:"stream_specialization" validate:"required"`
	CollegeName          string            `json:"college_name" form:"college_name" validate:"required"`
	University           string            `json:"university" form:"university" validate:"required"`
	GraduationYear       int               `json:"graduation_year" form:"graduation_year" validate:"required,min=1950,max=2100"`
	AcademicScores       string            `json:"academic_scores" form:"academic_scores" validate:"required"`
	HasBacklogs          bool              `json:"has_backlogs" form:"has_backlogs"`
	NumBacklogs          int               `json:"num_backlogs" form:"num_backlogs" validate:"min=0"`
	Experiences          []ExperienceInput `json:"experiences" form:"-" validate:"dive"`
}

func (*Education) Number() int   { return 2 }
func (*Education) Title() string { return titles[2] }

func (s *Education) Apply(p *models.StudentProfile) {
	p.CurrentStatus = s.CurrentStatus
	p.HighestQualification = s.HighestQualification
	p.StreamSpecialization = s.StreamSpecialization
	p.CollegeName = s.CollegeName
	p.University = s.University
	p.GraduationYear = s.GraduationYear
	p.AcademicScores = s.AcademicScores
	p.HasBacklogs = s.HasBacklogs
	p.NumBacklogs = s.NumBacklogs
}

// ExperienceRecords builds the rows that replace p's experiences.
func (s *Education) ExperienceRecords(p *models.StudentProfile) []models.Experience {
	out := make([]models.Experience, 0, len(s.Experiences))
	for _, e := range s.Experiences {
		out = append(out, models.Experience{
			StudentProfileID: p.ID,
			CompanyName:      e.CompanyName,
			Role:             e.Role,
			Duration:         e.Duration,
			Description:      e.Description,
		})
	}
	return out
}

func (s *Education) load(p *models.StudentProfile) {
	s.CurrentStatus = p.CurrentStatus
	s.HighestQualification = p.HighestQualification
	s.StreamSpecialization = p.StreamSpecialization
	s.CollegeName = p.CollegeName
	s.University = p.University
	s.GraduationYear = p.GraduationYear
	s.AcademicScores = p.AcademicScores
	s.HasBacklogs = p.HasBacklogs
	s.NumBacklogs = p.NumBacklogs
	s.Experiences = make([]ExperienceInput, 0, len(p.Experiences))
	for _, e := range p.Experiences {
		s.Experiences = append(s.Experiences, ExperienceInput{
			CompanyName: e.CompanyName,
			Role:        e.Role,
			Duration:    e.Duration,
			Description: e.Description,
		})
	}
}

func (s *Education) decode(f fields) error {
	s.CurrentStatus = f.str("current_status")
	s.HighestQualification = f.str("highest_qualification")
	s.StreamSpecialization = f.str("stream_specialization")
	s.CollegeName = f.str("college_name")
	s.University = f.str("university")
	s.GraduationYear = f.integer("graduation_year", 2024)
	s.AcademicScores = f.str("academic_scores")
	s.HasBacklogs = f.boolean("has_backlogs", false)
	s.NumBacklogs = f.integer("num_backlogs", 0)
	s.Experiences = nil
	for _, row := range f.objects("experiences") {
		s.Experiences = append(s.Experiences, ExperienceInput{
			CompanyName: row.str("company_name"),
			Role:        row.str("role"),
			Duration:    row.str("duration"),
			Description: row.str("description"),
		})
	}
	return nil
}

func (s *Education) normalize() {
	trim(&s.CurrentStatus, &s.HighestQualification, &s.StreamSpecialization, &s.CollegeName,
		&s.University, &s.AcademicScores)
	if key, ok := Statuses.Key(s.CurrentStatus); ok {
		s.CurrentStatus = key
	}
	for i := range s.Experiences {
		e := &s.Experiences[i]
		trim(&e.CompanyName, &e.Role, &e.Duration, &e.Description)
	}
}

func (s *Education) choices() map[string][]Choice {
	return map[string][]Choice{
		"current_status": Statuses.Choices([]string{s.CurrentStatus}),
	}
}

// Skills is section C.
type Skills struct {
	EnglishSpeaking int      `json:"english_speaking" form:"english_speaking" validate:"min=1,max=5"`
	EnglishReading  int      `json:"english_reading" form:"english_reading" validate:"min=1,max=5"`
	EnglishWriting  int      `json:"english_writing" form:"english_writing" validate:"min=1,max=5"`
	ComputerSkills  []string `json:"computer_skills" form:"computer_skills" validate:"min=1,dive,option=computer_skills"`
	ToolExposure    []string `json:"tool_exposure" form:"tool_exposure" validate:"min=1,dive,option=tool_exposure"`
	TypingSpeed     int      `json:"typing_speed" form:"typing_speed" validate:"min=0,max=200"`
}

func (*Skills) Number() int   { return 3 }
func (*Skills) Title() string { return titles[3] }

func (s *Skills) Apply(p *models.StudentProfile) {
	p.EnglishSpeaking = s.EnglishSpeaking
	p.EnglishReading = s.EnglishReading
	p.EnglishWriting = s.EnglishWriting
	p.ComputerSkills = keys(s.ComputerSkills)
	p.ToolExposure = keys(s.ToolExposure)
	p.TypingSpeed = s.TypingSpeed
}

func (s *Skills) load(p *models.StudentProfile) {
	s.EnglishSpeaking = p.EnglishSpeaking
	s.EnglishReading = p.EnglishReading
	s.EnglishWriting = p.EnglishWriting
	s.ComputerSkills = p.ComputerSkills
	s.ToolExposure = p.ToolExposure
	s.TypingSpeed = p.TypingSpeed
}

func (s *Skills) decode(f fields) error {
	s.EnglishSpeaking = f.integer("english_speaking", 3)
	s.EnglishReading = f.integer("english_reading", 3)
	s.EnglishWriting = f.integer("english_writing", 3)
	s.ComputerSkills = ComputerSkills.Keys(f.list("computer_skills"))
	s.ToolExposure = ToolExposure.Keys(f.list("tool_exposure"))
	s.TypingSpeed = f.integer("typing_speed", 0)
	return nil
}

func (s *Skills) normalize() {
	s.ComputerSkills = ComputerSkills.Canonical(s.ComputerSkills)
	s.ToolExposure = ToolExposure.Canonical(s.ToolExposure)
}

func (s *Skills) choices() map[string][]Choice {
	return map[string][]Choice{
		"computer_skills": ComputerSkills.Choices(s.ComputerSkills),
		"tool_exposure":   ToolExposure.Choices(s.ToolExposure),
	}
}

// LocationList accepts either a JSON array or a comma-separated string.
type LocationList []string

func (l *LocationList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("preferred_locations must be a list or a comma-separated string")
	}
	*l = splitList(s)
	return nil
}

// Career is section D.
type Career struct {
	PreferredJobRoles   []string     `json:"preferred_job_roles" form:"preferred_job_roles" validate:"min=1,dive,option=job_roles"`
	PreferredIndustries []string     `json:"preferred_industries" form:"preferred_industries" validate:"min=1,dive,option=industries"`
	WorkType            string       `json:"work_type" form:"work_type" validate:"required,option=work_type"`
	PreferredLocations  LocationList `json:"preferred_locations" form:"preferred_locations"`
	WillingToRelocate   bool         `json:"willing_to_relocate" form:"willing_to_relocate"`
	ExpectedSalary      string       `json:"expected_salary" form:"expected_salary" validate:"required"`
}

func (*Career) Number() int   { return 4 }
func (*Career) Title() string { return titles[4] }

func (s *Career) Apply(p *models.StudentProfile) {
	p.PreferredJobRoles = keys(s.PreferredJobRoles)
	p.PreferredIndustries = keys(s.PreferredIndustries)
	p.WorkType = s.WorkType
	p.PreferredLocations = keys(s.PreferredLocations)
	p.WillingToRelocate = s.WillingToRelocate
	p.ExpectedSalary = s.ExpectedSalary
}

func (s *Career) load(p *models.StudentProfile) {
	s.PreferredJobRoles = p.PreferredJobRoles
	s.PreferredIndustries = p.PreferredIndustries
	s.WorkType = p.WorkType
	s.PreferredLocations = LocationList(p.PreferredLocations)
	s.WillingToRelocate = p.WillingToRelocate
	s.ExpectedSalary = p.ExpectedSalary
}

func (s *Career) decode(f fields) error {
	s.PreferredJobRoles = JobRoles.Keys(f.list("preferred_job_roles"))
	s.PreferredIndustries = Industries.Keys(f.list("preferred_industries"))
	s.WorkType = f.str("work_type")
	s.PreferredLocations = f.list("preferred_locations")
	s.WillingToRelocate = f.boolean("willing_to_relocate", false)
	s.ExpectedSalary = f.str("expected_salary")
	return nil
}

func (s *Career) normalize() {
	trim(&s.WorkType, &s.ExpectedSalary)
	if key, ok := WorkTypes.Key(s.WorkType); ok {
		s.WorkType = key
	}
	s.PreferredJobRoles = JobRoles.Canonical(s.PreferredJobRoles)
	s.PreferredIndustries = Industries.Canonical(s.PreferredIndustries)
	var locations []string
	for _, l := range s.PreferredLocations {
		locations = append(locations, splitList(l)...)
	}
	s.PreferredLocations = locations
}

func (s *Career) choices() map[string][]Choice {
	return map[string][]Choice{
		"preferred_job_roles":  JobRoles.Choices(s.PreferredJobRoles),
		"preferred_industries": Industries.Choices(s.PreferredIndustries),
		"work_type":            WorkTypes.Choices([]string{s.WorkType}),
	}
}

// Availability is section E.
type Availability struct {
	TimeForTraining    string   `json:"time_for_training" form:"time_for_training" validate:"required,option=time_for_training"`
	PreferredTimeSlots []string `json:"preferred_time_slots" form:"preferred_time_slots" validate:"min=1,dive,option=time_slots"`
	HasMobileAccess    bool     `json:"has_mobile_access" form:"has_mobile_access"`
	HasLaptopAccess    bool     `json:"has_laptop_access" form:"has_laptop_access"`
	InternetQuality    string   `json:"internet_quality" form:"internet_quality" validate:"required,option=internet_quality"`
	Constraints        string   `json:"constraints" form:"constraints"`
}

func (*Availability) Number() int   { return 5 }
func (*Availability) Title() string { return titles[5] }

func (s *Availability) Apply(p *models.StudentProfile) {
	p.TimeForTraining = s.TimeForTraining
	p.PreferredTimeSlots = keys(s.PreferredTimeSlots)
	p.HasMobileAccess = s.HasMobileAccess
	p.HasLaptopAccess = s.HasLaptopAccess
	p.InternetQuality = s.InternetQuality
	p.Constraints = s.Constraints
}

func (s *Availability) load(p *models.StudentProfile) {
	s.TimeForTraining = p.TimeForTraining
	s.PreferredTimeSlots = p.PreferredTimeSlots
	s.HasMobileAccess = p.HasMobileAccess
	s.HasLaptopAccess = p.HasLaptopAccess
	s.InternetQuality = p.InternetQuality
	s.Constraints = p.Constraints
}

func (s *Availability) decode(f fields) error {
	s.TimeForTraining = f.str("time_for_training")
	s.PreferredTimeSlots = TimeSlots.Keys(f.list("preferred_time_slots"))
	s.HasMobileAccess = f.boolean("has_mobile_access", true)
	s.HasLaptopAccess = f.boolean("has_laptop_access", false)
	s.InternetQuality = f.str("internet_quality")
	s.Constraints = f.str("constraints")
	return nil
}

func (s *Availability) normalize() {
	trim(&s.TimeForTraining, &s.InternetQuality, &s.Constraints)
	if key, ok := TrainingTimes.Key(s.TimeForTraining); ok {
		s.TimeForTraining = key
	}
	if key, ok := InternetQualities.Key(s.InternetQuality); ok {
		s.InternetQuality = key
	}
	s.PreferredTimeSlots = TimeSlots.Canonical(s.PreferredTimeSlots)
}

func (s *Availability) choices() map[string][]Choice {
	return map[string][]Choice{
		"time_for_training":    TrainingTimes.Choices([]string{s.TimeForTraining}),
		"preferred_time_slots": TimeSlots.Choices(s.PreferredTimeSlots),
		"internet_quality":     InternetQualities.Choices([]string{s.InternetQuality}),
	}
}

// Behavioural is section F.
type Behavioural struct {
	ComfortTalkingStrangers       int      `json:"comfort_talking_strangers" form:"comfort_talking_strangers" validate:"min=1,max=5"`
	ComfortHandlingAngryCustomers int      `json:"comfort_handling_angry_customers" form:"comfort_handling_angry_customers" validate:"min=1,max=5"`
	ComfortWorkingWithData        int      `json:"comfort_working_with_data" form:"comfort_working_with_data" validate:"min=1,max=5"`
	ComfortFollowingTargets       int      `json:"comfort_following_targets" form:"comfort_following_targets" validate:"min=1,max=5"`
	ComfortWritingEmails          int      `json:"comfort_writing_emails" form:"comfort_writing_emails" validate:"min=1,max=5"`
	PeopleVsTaskOriented          string   `json:"people_vs_task_oriented" form:"people_vs_task_oriented" validate:"required,option=people_vs_task_oriented"`
	OfficeVsRemote                string   `json:"office_vs_remote" form:"office_vs_remote" validate:"required,option=office_vs_remote"`
	AnalysisVsCommunication       string   `json:"analysis_vs_communication" form:"analysis_vs_communication" validate:"required,option=analysis_vs_communication"`
	CareerConcerns                []string `json:"career_concerns" form:"career_concerns" validate:"dive,option=career_concerns"`
	CareerGoal3Years              string   `json:"career_goal_3_years" form:"career_goal_3_years" validate:"required,min=20"`
}

func (*Behavioural) Number() int   { return 6 }
func (*Behavioural) Title() string { return titles[6] }

func (s *Behavioural) Apply(p *models.StudentProfile) {
	p.ComfortTalkingStrangers = s.ComfortTalkingStrangers
	p.ComfortHandlingAngryCustomers = s.ComfortHandlingAngryCustomers
	p.ComfortWorkingWithData = s.ComfortWorkingWithData
	p.ComfortFollowingTargets = s.ComfortFollowingTargets
	p.ComfortWritingEmails = s.ComfortWritingEmails
	p.PeopleVsTaskOriented = s.PeopleVsTaskOriented
	p.OfficeVsRemote = s.OfficeVsRemote
	p.AnalysisVsCommunication = s.AnalysisVsCommunication
	p.CareerConcerns = keys(s.CareerConcerns)
	p.CareerGoal3Years = s.CareerGoal3Years
}

func (s *Behavioural) load(p *models.StudentProfile) {
	s.ComfortTalkingStrangers = p.ComfortTalkingStrangers
	s.ComfortHandlingAngryCustomers = p.ComfortHandlingAngryCustomers
	s.ComfortWorkingWithData = p.ComfortWorkingWithData
	s.ComfortFollowingTargets = p.ComfortFollowingTargets
	s.ComfortWritingEmails = p.ComfortWritingEmails
	s.PeopleVsTaskOriented = p.PeopleVsTaskOriented
	s.OfficeVsRemote = p.OfficeVsRemote
	s.AnalysisVsCommunication = p.AnalysisVsCommunication
	s.CareerConcerns = p.CareerConcerns
	s.CareerGoal3Years = p.CareerGoal3Years
}

func (s *Behavioural) decode(f fields) error {
	s.ComfortTalkingStrangers = f.integer("comfort_talking_strangers", 3)
	s.ComfortHandlingAngryCustomers = f.integer("comfort_handling_angry_customers", 3)
	s.ComfortWorkingWithData = f.integer("comfort_working_with_data", 3)
	s.ComfortFollowingTargets = f.integer("comfort_following_targets", 3)
	s.ComfortWritingEmails = f.integer("comfort_writing_emails", 3)
	s.PeopleVsTaskOriented = f.str("people_vs_task_oriented")
	s.OfficeVsRemote = f.str("office_vs_remote")
	s.AnalysisVsCommunication = f.str("analysis_vs_communication")
	s.CareerConcerns = CareerConcerns.Keys(f.list("career_concerns"))
	s.CareerGoal3Years = f.str("career_goal_3_years")
	return nil
}

func (s *Behavioural) normalize() {
	trim(&s.PeopleVsTaskOriented, &s.OfficeVsRemote, &s.AnalysisVsCommunication, &s.CareerGoal3Years)
	if key, ok := Orientations.Key(s.PeopleVsTaskOriented); ok {
		s.PeopleVsTaskOriented = key
	}
	if key, ok := WorkSettings.Key(s.OfficeVsRemote); ok {
		s.OfficeVsRemote = key
	}
	if key, ok := Strengths.Key(s.AnalysisVsCommunication); ok {
		s.AnalysisVsCommunication = key
	}
	s.CareerConcerns = CareerConcerns.Canonical(s.CareerConcerns)
}

func (s *Behavioural) choices() map[string][]Choice {
	return map[string][]Choice{
		"people_vs_task_oriented":   Orientations.Choices([]string{s.PeopleVsTaskOriented}),
		"office_vs_remote":          WorkSettings.Choices([]string{s.OfficeVsRemote}),
		"analysis_vs_communication": Strengths.Choices([]string{s.AnalysisVsCommunication}),
		"career_concerns":           CareerConcerns.Choices(s.CareerConcerns),
	}
}

// Training is section G.
type Training struct {
	PreviousTraining    string `json:"previous_training" form:"previous_training"`
	DiscoverySource     string `json:"discovery_source" form:"discovery_source" validate:"required"`
	CommitmentConfirmed bool   `json:"commitment_confirmed" form:"commitment_confirmed" validate:"eq=true"`
	FeePreference       string `json:"fee_preference" form:"fee_preference" validate:"required,option=fee_preference"`
}

func (*Training) Number() int   { return 7 }
func (*Training) Title() string { return titles[7] }

func (s *Training) Apply(p *models.StudentProfile) {
	p.PreviousTraining = s.PreviousTraining
	p.DiscoverySource = s.DiscoverySource
	p.CommitmentConfirmed = s.CommitmentConfirmed
	p.FeePreference = s.FeePreference
}

func (s *Training) load(p *models.StudentProfile) {
	s.PreviousTraining = p.PreviousTraining
	s.DiscoverySource = p.DiscoverySource
	s.CommitmentConfirmed = p.CommitmentConfirmed
	s.FeePreference = p.FeePreference
}

func (s *Training) decode(f fields) error {
	s.PreviousTraining = f.str("previous_training")
	s.DiscoverySource = f.str("discovery_source")
	s.CommitmentConfirmed = f.boolean("commitment_confirmed", false)
	s.FeePreference = f.str("fee_preference")
	return nil
}

func (s *Training) normalize() {
	trim(&s.PreviousTraining, &s.DiscoverySource, &s.FeePreference)
	if key, ok := FeePreferences.Key(s.FeePreference); ok {
		s.FeePreference = key
	}
}

func (s *Training) choices() map[string][]Choice {
	return map[string][]Choice{
		"fee_preference": FeePreferences.Choices([]string{s.FeePreference}),
	}
}

// Documents is section H. Files arrive through the upload endpoint, so saving
// this step only records progress.
type Documents struct {
	Photo     string `json:"photo"`
	Resume    string `json:"resume"`
	IDProof   string `json:"id_proof"`
	Marksheet string `json:"marksheet"`
}

func (*Documents) Number() int                  { return 8 }
func (*Documents) Title() string                { return titles[8] }
func (*Documents) Apply(*models.StudentProfile) {}
func (*Documents) decode(fields) error          { return nil }
func (*Documents) normalize()                   {}
func (*Documents) choices() map[string][]Choice { return map[string][]Choice{} }

func (s *Documents) load(p *models.StudentProfile) {
	s.Photo = p.Photo
	s.Resume = p.Resume
	s.IDProof = p.IDProof
	s.Marksheet = p.Marksheet
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func keys(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](values)
}

func trim(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
