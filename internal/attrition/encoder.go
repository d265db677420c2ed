package attrition

import (
	"fmt"
	"math"

	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/models"
)

// Column names as declared by the training dataset.
const (
	ColumnCity                 = "city"
	ColumnCityDevelopmentIndex = "city_development_index"
	ColumnGender               = "gender"
	ColumnRelevantExperience   = "relevent_experience"
	ColumnEnrolledUniversity   = "enrolled_university"
	ColumnEducationLevel       = "education_level"
	ColumnMajorDiscipline      = "major_discipline"
	ColumnExperience           = "experience"
	ColumnCompanySize          = "company_size"
	ColumnCompanyType          = "company_type"
	ColumnLastNewJob           = "last_new_job"
	ColumnTrainingHours        = "training_hours"
)

// RecordColumns is the declaration order of CandidateRecord fields.
var RecordColumns = []string{
	ColumnCity,
	ColumnCityDevelopmentIndex,
	ColumnGender,
	ColumnRelevantExperience,
	ColumnEnrolledUniversity,
	ColumnEducationLevel,
	ColumnMajorDiscipline,
	ColumnExperience,
	ColumnCompanySize,
	ColumnCompanyType,
	ColumnLastNewJob,
	ColumnTrainingHours,
}

// Widget ranges, inclusive.
const (
	MinCity          = 0
	MaxCity          = 200
	MinCDI           = 0.0
	MaxCDI           = 1.0
	MinExperience    = 0
	MaxExperience    = 30
	MinTrainingHours = 0
	MaxTrainingHours = 300
)

// CandidateRecord is one encoded candidate. It is built per request and
// discarded after the prediction.
type CandidateRecord struct {
	City                 int
	CityDevelopmentIndex float64
	Gender               Gender
	RelevantExperience   RelevantExperience
	EnrolledUniversity   EnrolledUniversity
	EducationLevel       EducationLevel
	MajorDiscipline      MajorDiscipline
	Experience           int
	CompanySize          CompanySize
	CompanyType          CompanyType
	LastNewJob           LastNewJob
	TrainingHours        int
}

// Values returns the record as numbers in RecordColumns order.
func (r CandidateRecord) Values() []float64 {
	return []float64{
		float64(r.City),
		r.CityDevelopmentIndex,
		float64(r.Gender),
		float64(r.RelevantExperience),
		float64(r.EnrolledUniversity),
		float64(r.EducationLevel),
		float64(r.MajorDiscipline),
		float64(r.Experience),
		float64(r.CompanySize),
		float64(r.CompanyType),
		float64(r.LastNewJob),
		float64(r.TrainingHours),
	}
}

// Fields returns the record keyed by column name.
func (r CandidateRecord) Fields() map[string]float64 {
	values := r.Values()
	out := make(map[string]float64, len(values))
	for i, col := range RecordColumns {
		out[col] = values[i]
	}
	return out
}

// Encode maps raw form values onto their integer codes. The first categorical
// value outside its enumeration fails with UNKNOWN_CATEGORY.
func Encode(in models.CandidateInput) (CandidateRecord, error) {
	var (
		rec CandidateRecord
		err error
	)

	rec.City = in.City
	rec.CityDevelopmentIndex = in.CityDevelopmentIndex
	rec.Experience = in.Experience
	rec.TrainingHours = in.TrainingHours

	if rec.Gender, err = ParseGender(in.Gender); err != nil {
		return CandidateRecord{}, err
	}
	if rec.RelevantExperience, err = ParseRelevantExperience(in.RelevantExperience); err != nil {
		return CandidateRecord{}, err
	}
	if rec.EnrolledUniversity, err = ParseEnrolledUniversity(in.EnrolledUniversity); err != nil {
		return CandidateRecord{}, err
	}
	if rec.EducationLevel, err = ParseEducationLevel(in.EducationLevel); err != nil {
		return CandidateRecord{}, err
	}
	if rec.MajorDiscipline, err = ParseMajorDiscipline(in.MajorDiscipline); err != nil {
		return CandidateRecord{}, err
	}
	if rec.CompanySize, err = ParseCompanySize(in.CompanySize); err != nil {
		return CandidateRecord{}, err
	}
	if rec.CompanyType, err = ParseCompanyType(in.CompanyType); err != nil {
		return CandidateRecord{}, err
	}
	if rec.LastNewJob, err = ParseLastNewJob(in.LastNewJob); err != nil {
		return CandidateRecord{}, err
	}

	return rec, nil
}

// ValidateRanges checks the numeric fields against the form's widget ranges.
func ValidateRanges(in models.CandidateInput) error {
	if in.City < MinCity || in.City > MaxCity {
		return apperrors.NewInvalidInputError(ColumnCity, fmt.Sprintf("must be between %d and %d, got %d", MinCity, MaxCity, in.City))
	}
	if math.IsNaN(in.CityDevelopmentIndex) || in.CityDevelopmentIndex < MinCDI || in.CityDevelopmentIndex > MaxCDI {
		return apperrors.NewInvalidInputError(ColumnCityDevelopmentIndex, fmt.Sprintf("must be between %.1f and %.1f, got %g", MinCDI, MaxCDI, in.CityDevelopmentIndex))
	}
	if in.Experience < MinExperience || in.Experience > MaxExperience {
		return apperrors.NewInvalidInputError(ColumnExperience, fmt.Sprintf("must be between %d and %d, got %d", MinExperience, MaxExperience, in.Experience))
	}
	if in.TrainingHours < MinTrainingHours || in.TrainingHours > MaxTrainingHours {
		return apperrors.NewInvalidInputError(ColumnTrainingHours, fmt.Sprintf("must be between %d and %d, got %d", MinTrainingHours, MaxTrainingHours, in.TrainingHours))
	}
	return nil
}
