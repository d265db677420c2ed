package attrition

import (
	apperrors "retention-service/internal/common/errors"
)

// Each categorical feature is a closed enumeration whose integer value is the
// code the model was trained on. Parse functions switch over every label
// explicitly; anything else is UNKNOWN_CATEGORY.

type Gender int

const (
	GenderFemale Gender = iota
	GenderMale
	GenderOther
)

var genderLabels = []string{"Female", "Male", "Other"}

func ParseGender(s string) (Gender, error) {
	switch s {
	case "Female":
		return GenderFemale, nil
	case "Male":
		return GenderMale, nil
	case "Other":
		return GenderOther, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnGender, s, genderLabels)
	}
}

func (g Gender) String() string { return label(genderLabels, int(g)) }

type RelevantExperience int

const (
	NoRelevantExperience RelevantExperience = iota
	HasRelevantExperience
)

var relevantExperienceLabels = []string{"No relevent experience", "Has relevent experience"}

func ParseRelevantExperience(s string) (RelevantExperience, error) {
	switch s {
	case "No relevent experience":
		return NoRelevantExperience, nil
	case "Has relevent experience":
		return HasRelevantExperience, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnRelevantExperience, s, relevantExperienceLabels)
	}
}

func (r RelevantExperience) String() string { return label(relevantExperienceLabels, int(r)) }

type EnrolledUniversity int

const (
	NoEnrollment EnrolledUniversity = iota
	PartTimeCourse
	FullTimeCourse
)

var enrolledUniversityLabels = []string{"no_enrollment", "Part time course", "Full time course"}

func ParseEnrolledUniversity(s string) (EnrolledUniversity, error) {
	switch s {
	case "no_enrollment":
		return NoEnrollment, nil
	case "Part time course":
		return PartTimeCourse, nil
	case "Full time course":
		return FullTimeCourse, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnEnrolledUniversity, s, enrolledUniversityLabels)
	}
}

func (e EnrolledUniversity) String() string { return label(enrolledUniversityLabels, int(e)) }

type EducationLevel int

const (
	PrimarySchool EducationLevel = iota
	HighSchool
	Graduate
	Masters
	Phd
)

var educationLevelLabels = []string{"Primary School", "High School", "Graduate", "Masters", "Phd"}

func ParseEducationLevel(s string) (EducationLevel, error) {
	switch s {
	case "Primary School":
		return PrimarySchool, nil
	case "High School":
		return HighSchool, nil
	case "Graduate":
		return Graduate, nil
	case "Masters":
		return Masters, nil
	case "Phd":
		return Phd, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnEducationLevel, s, educationLevelLabels)
	}
}

func (e EducationLevel) String() string { return label(educationLevelLabels, int(e)) }

type MajorDiscipline int

const (
	MajorSTEM MajorDiscipline = iota
	MajorBusinessDegree
	MajorArts
	MajorHumanities
	MajorOther
)

var majorDisciplineLabels = []string{"STEM", "Business Degree", "Arts", "Humanities", "Other"}

func ParseMajorDiscipline(s string) (MajorDiscipline, error) {
	switch s {
	case "STEM":
		return MajorSTEM, nil
	case "Business Degree":
		return MajorBusinessDegree, nil
	case "Arts":
		return MajorArts, nil
	case "Humanities":
		return MajorHumanities, nil
	case "Other":
		return MajorOther, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnMajorDiscipline, s, majorDisciplineLabels)
	}
}

func (m MajorDiscipline) String() string { return label(majorDisciplineLabels, int(m)) }

type CompanySize int

const (
	CompanySizeUnder10 CompanySize = iota
	CompanySize10To49
	CompanySize50To99
	CompanySize100To500
	CompanySize500To999
	CompanySize1000To4999
	CompanySize5000To9999
	CompanySize10000Plus
)

var companySizeLabels = []string{"<10", "10-49", "50-99", "100-500", "500-999", "1000-4999", "5000-9999", "10000+"}

func ParseCompanySize(s string) (CompanySize, error) {
	switch s {
	case "<10":
		return CompanySizeUnder10, nil
	case "10-49":
		return CompanySize10To49, nil
	case "50-99":
		return CompanySize50To99, nil
	case "100-500":
		return CompanySize100To500, nil
	case "500-999":
		return CompanySize500To999, nil
	case "1000-4999":
		return CompanySize1000To4999, nil
	case "5000-9999":
		return CompanySize5000To9999, nil
	case "10000+":
		return CompanySize10000Plus, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnCompanySize, s, companySizeLabels)
	}
}

func (c CompanySize) String() string { return label(companySizeLabels, int(c)) }

type CompanyType int

const (
	CompanyPvtLtd CompanyType = iota
	CompanyFundedStartup
	CompanyPublicSector
	CompanyNGO
	CompanyOther
)

var companyTypeLabels = []string{"Pvt Ltd", "Funded Startup", "Public Sector", "NGO", "Other"}

func ParseCompanyType(s string) (CompanyType, error) {
	switch s {
	case "Pvt Ltd":
		return CompanyPvtLtd, nil
	case "Funded Startup":
		return CompanyFundedStartup, nil
	case "Public Sector":
		return CompanyPublicSector, nil
	case "NGO":
		return CompanyNGO, nil
	case "Other":
		return CompanyOther, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnCompanyType, s, companyTypeLabels)
	}
}

func (c CompanyType) String() string { return label(companyTypeLabels, int(c)) }

// LastNewJob is the number of years since the previous job change.
type LastNewJob int

const (
	LastNewJobNever LastNewJob = iota
	LastNewJob1
	LastNewJob2
	LastNewJob3
	LastNewJob4
	LastNewJobOver4
)

var lastNewJobLabels = []string{"Never", "1", "2", "3", "4", ">4"}

func ParseLastNewJob(s string) (LastNewJob, error) {
	switch s {
	case "Never":
		return LastNewJobNever, nil
	case "1":
		return LastNewJob1, nil
	case "2":
		return LastNewJob2, nil
	case "3":
		return LastNewJob3, nil
	case "4":
		return LastNewJob4, nil
	case ">4":
		return LastNewJobOver4, nil
	default:
		return 0, apperrors.NewUnknownCategoryError(ColumnLastNewJob, s, lastNewJobLabels)
	}
}

func (l LastNewJob) String() string { return label(lastNewJobLabels, int(l)) }

func label(labels []string, code int) string {
	if code < 0 || code >= len(labels) {
		return "unknown"
	}
	return labels[code]
}

// CategoryOption is one selectable label of a categorical field.
type CategoryOption struct {
	Field  string
	Labels []string
}

// CategoryOptions lists every categorical field with its labels in code order.
// The returned slices are copies.
func CategoryOptions() []CategoryOption {
	return []CategoryOption{
		{Field: ColumnGender, Labels: clone(genderLabels)},
		{Field: ColumnRelevantExperience, Labels: clone(relevantExperienceLabels)},
		{Field: ColumnEnrolledUniversity, Labels: clone(enrolledUniversityLabels)},
		{Field: ColumnEducationLevel, Labels: clone(educationLevelLabels)},
		{Field: ColumnMajorDiscipline, Labels: clone(majorDisciplineLabels)},
		{Field: ColumnCompanySize, Labels: clone(companySizeLabels)},
		{Field: ColumnCompanyType, Labels: clone(companyTypeLabels)},
		{Field: ColumnLastNewJob, Labels: clone(lastNewJobLabels)},
	}
}

// OptionsFor returns the labels of one categorical field, or nil.
func OptionsFor(field string) []string {
	for _, opt := range CategoryOptions() {
		if opt.Field == field {
			return opt.Labels
		}
	}
	return nil
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
