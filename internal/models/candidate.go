// internal/models/candidate.go
package models

// CandidateInput is the raw, human-readable form submission. JSON field names
// follow the training dataset's column names, misspellings included.
type CandidateInput struct {
	City                 int     `json:"city"`
	CityDevelopmentIndex float64 `json:"city_development_index"`
	Gender               string  `json:"gender"`
	RelevantExperience   string  `json:"relevent_experience"`
	EnrolledUniversity   string  `json:"enrolled_university"`
	EducationLevel       string  `json:"education_level"`
	MajorDiscipline      string  `json:"major_discipline"`
	Experience           int     `json:"experience"`
	CompanySize          string  `json:"company_size"`
	CompanyType          string  `json:"company_type"`
	LastNewJob           string  `json:"last_new_job"`
	TrainingHours        int     `json:"training_hours"`
}

// DefaultCandidateInput returns the values the form starts with.
func DefaultCandidateInput() CandidateInput {
	return CandidateInput{
		City:                 10,
		CityDevelopmentIndex: 0.7,
		Gender:               "Female",
		RelevantExperience:   "No relevent experience",
		EnrolledUniversity:   "no_enrollment",
		EducationLevel:       "Primary School",
		MajorDiscipline:      "STEM",
		Experience:           5,
		CompanySize:          "<10",
		CompanyType:          "Pvt Ltd",
		LastNewJob:           "Never",
		TrainingHours:        40,
	}
}
