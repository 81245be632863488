package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TotalSteps is the number of wizard sections a profile goes through.
const TotalSteps = 8

type StudentProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// Section A: basic information
	FullName           string                      `gorm:"size:200" json:"full_name"`
	Gender             string                      `gorm:"size:20" json:"gender"`
	DateOfBirth        *time.Time                  `gorm:"type:date" json:"date_of_birth"`
	CurrentCity        string                      `gorm:"size:100" json:"current_city"`
	CurrentState       string                      `gorm:"size:100" json:"current_state"`
	PreferredLanguages datatypes.JSONSlice[string] `json:"preferred_languages"`

	// Section B: education
	CurrentStatus        string `gorm:"size:20" json:"current_status"`
	HighestQualification string `gorm:"size:100" json:"highest_qualification"`
	StreamSpecialization string `gorm:"size:100" json:"stream_specialization"`
	CollegeName          string `gorm:"size:200" json:"college_name"`
	University           string `gorm:"size:200" json:"university"`
	GraduationYear       int    `json:"graduation_year"`
	AcademicScores       string `gorm:"size:50" json:"academic_scores"`
	HasBacklogs          bool   `gorm:"not null;default:false" json:"has_backlogs"`
	NumBacklogs          int    `gorm:"not null;default:0" json:"num_backlogs"`

	// Section C: skills
	EnglishSpeaking int                         `gorm:"not null;default:3" json:"english_speaking"`
	EnglishReading  int                         `gorm:"not null;default:3" json:"english_reading"`
	EnglishWriting  int                         `gorm:"not null;default:3" json:"english_writing"`
	ComputerSkills  datatypes.JSONSlice[string] `json:"computer_skills"`
	ToolExposure    datatypes.JSONSlice[string] `json:"tool_exposure"`
	TypingSpeed     int                         `gorm:"not null;default:0" json:"typing_speed"`

	// Section D: career preferences
	PreferredJobRoles   datatypes.JSONSlice[string] `json:"preferred_job_roles"`
	PreferredIndustries datatypes.JSONSlice[string] `json:"preferred_industries"`
	WorkType            string                      `gorm:"size:20" json:"work_type"`
	PreferredLocations  datatypes.JSONSlice[string] `json:"preferred_locations"`
	WillingToRelocate   bool                        `gorm:"not null;default:false" json:"willing_to_relocate"`
	ExpectedSalary      string                      `gorm:"size:50" json:"expected_salary"`

	// Section E: availability
	TimeForTraining    string                      `gorm:"size:20" json:"time_for_training"`
	PreferredTimeSlots datatypes.JSONSlice[string] `json:"preferred_time_slots"`
	HasMobileAccess    bool                        `json:"has_mobile_access"`
	HasLaptopAccess    bool                        `json:"has_laptop_access"`
	InternetQuality    string                      `gorm:"size:20" json:"internet_quality"`
	Constraints        string                      `gorm:"type:text" json:"constraints"`

	// Section F: behavioural
	ComfortTalkingStrangers       int                         `gorm:"not null;default:3" json:"comfort_talking_strangers"`
	ComfortWritingEmails          int                         `gorm:"not null;default:3" json:"comfort_writing_emails"`
	ComfortHandlingAngryCustomers int                         `gorm:"not null;default:3" json:"comfort_handling_angry_customers"`
	ComfortWorkingWithData        int                         `gorm:"not null;default:3" json:"comfort_working_with_data"`
	ComfortFollowingTargets       int                         `gorm:"not null;default:3" json:"comfort_following_targets"`
	PeopleVsTaskOriented          string                      `gorm:"size:20" json:"people_vs_task_oriented"`
	OfficeVsRemote                string                      `gorm:"size:20" json:"office_vs_remote"`
	AnalysisVsCommunication       string                      `gorm:"size:20" json:"analysis_vs_communication"`
	CareerConcerns                datatypes.JSONSlice[string] `json:"career_concerns"`
	CareerGoal3Years              string                      `gorm:"column:career_goal_3_years;type:text" json:"career_goal_3_years"`

	// Section G: training
	PreviousTraining    string `gorm:"type:text" json:"previous_training"`
	DiscoverySource     string `gorm:"size:200" json:"discovery_source"`
	CommitmentConfirmed bool   `gorm:"not null;default:false" json:"commitment_confirmed"`
	FeePreference       string `gorm:"size:20" json:"fee_preference"`

	// Section H: documents (paths relative to the media root)
	Photo     string `gorm:"size:500" json:"photo"`
	Resume    string `gorm:"size:500" json:"resume"`
	IDProof   string `gorm:"size:500" json:"id_proof"`
	Marksheet string `gorm:"size:500" json:"marksheet"`

	StepCompleted int        `gorm:"not null;default:0" json:"step_completed"`
	IsComplete    bool       `gorm:"not null;default:false;index" json:"is_complete"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Experiences []Experience `gorm:"foreignKey:StudentProfileID;constraint:OnDelete:CASCADE" json:"experiences,omitempty"`
}

// NewStudentProfile returns a profile with the column defaults already applied.
func NewStudentProfile(userID uuid.UUID, fullName string) *StudentProfile {
	return &StudentProfile{
		UserID:                        userID,
		FullName:                      fullName,
		PreferredLanguages:            datatypes.JSONSlice[string]{},
		ComputerSkills:                datatypes.JSONSlice[string]{},
		ToolExposure:                  datatypes.JSONSlice[string]{},
		PreferredJobRoles:             datatypes.JSONSlice[string]{},
		PreferredIndustries:           datatypes.JSONSlice[string]{},
		PreferredLocations:            datatypes.JSONSlice[string]{},
		PreferredTimeSlots:            datatypes.JSONSlice[string]{},
		CareerConcerns:                datatypes.JSONSlice[string]{},
		EnglishSpeaking:               3,
		EnglishReading:                3,
		EnglishWriting:                3,
		HasMobileAccess:               true,
		ComfortTalkingStrangers:       3,
		ComfortWritingEmails:          3,
		ComfortHandlingAngryCustomers: 3,
		ComfortWorkingWithData:        3,
		ComfortFollowingTargets:       3,
	}
}

func (p *StudentProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProgressPercentage truncates step_completed/8 to a whole percent.
func (p *StudentProfile) ProgressPercentage() int {
	return p.StepCompleted * 100 / TotalSteps
}

// NextStep is the furthest step the owner may open.
func (p *StudentProfile) NextStep() int {
	return min(p.StepCompleted+1, TotalSteps)
}
