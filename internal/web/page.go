package web

import (
	"embed"
	"html/template"
	"strconv"

	"retention-service/internal/attrition"
	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var fieldTitles = map[string]string{
	attrition.ColumnGender:             "Gender",
	attrition.ColumnRelevantExperience: "Relevant Experience",
	attrition.ColumnEnrolledUniversity: "Enrolled University",
	attrition.ColumnEducationLevel:     "Education Level",
	attrition.ColumnMajorDiscipline:    "Major Discipline",
	attrition.ColumnCompanySize:        "Company Size",
	attrition.ColumnCompanyType:        "Company Type",
	attrition.ColumnLastNewJob:         "Years Since Last Job Change",
}

func parsePage() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/index.html")
}

type pageData struct {
	RequestID string
	Numbers   []numberField
	Selects   []selectField
	Result    *resultView
	Error     *apperrors.StandardError
}

type numberField struct {
	Name  string
	Title string
	Value string
	Min   string
	Max   string
	Step  string
}

type selectField struct {
	Name    string
	Title   string
	Options []optionView
}

type optionView struct {
	Value    string
	Selected bool
}

type resultView struct {
	Bucket      string
	Label       string
	Probability string
}

// newPageData lays the form out with in's values selected.
func newPageData(requestID string, in models.CandidateInput) *pageData {
	itoa := strconv.Itoa
	data := &pageData{
		RequestID: requestID,
		Numbers: []numberField{
			{Name: attrition.ColumnCity, Title: "City Code", Value: itoa(in.City), Min: itoa(attrition.MinCity), Max: itoa(attrition.MaxCity), Step: "1"},
			{Name: attrition.ColumnCityDevelopmentIndex, Title: "City Development Index", Value: strconv.FormatFloat(in.CityDevelopmentIndex, 'f', -1, 64), Min: "0", Max: "1", Step: "0.01"},
			{Name: attrition.ColumnExperience, Title: "Years of Experience", Value: itoa(in.Experience), Min: itoa(attrition.MinExperience), Max: itoa(attrition.MaxExperience), Step: "1"},
			{Name: attrition.ColumnTrainingHours, Title: "Training Hours", Value: itoa(in.TrainingHours), Min: itoa(attrition.MinTrainingHours), Max: itoa(attrition.MaxTrainingHours), Step: "1"},
		},
	}

	current := map[string]string{
		attrition.ColumnGender:             in.Gender,
		attrition.ColumnRelevantExperience: in.RelevantExperience,
		attrition.ColumnEnrolledUniversity: in.EnrolledUniversity,
		attrition.ColumnEducationLevel:     in.EducationLevel,
		attrition.ColumnMajorDiscipline:    in.MajorDiscipline,
		attrition.ColumnCompanySize:        in.CompanySize,
		attrition.ColumnCompanyType:        in.CompanyType,
		attrition.ColumnLastNewJob:         in.LastNewJob,
	}
	for _, opt := range attrition.CategoryOptions() {
		field := selectField{Name: opt.Field, Title: fieldTitles[opt.Field]}
		for _, lbl := range opt.Labels {
			field.Options = append(field.Options, optionView{Value: lbl, Selected: lbl == current[opt.Field]})
		}
		data.Selects = append(data.Selects, field)
	}
	return data
}
