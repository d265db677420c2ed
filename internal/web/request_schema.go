package web

import "retention-service/internal/attrition"

// predictRequestSchema checks types and widget ranges. Categorical values are
// only required to be strings; Encode owns their enumerations.
func predictRequestSchema() map[string]interface{} {
	integer := func(min, max int) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "minimum": min, "maximum": max}
	}
	str := map[string]interface{}{"type": "string"}

	return map[string]interface{}{
		"type": "object",
		"required": []interface{}{
			attrition.ColumnCity,
			attrition.ColumnCityDevelopmentIndex,
			attrition.ColumnGender,
			attrition.ColumnRelevantExperience,
			attrition.ColumnEnrolledUniversity,
			attrition.ColumnEducationLevel,
			attrition.ColumnMajorDiscipline,
			attrition.ColumnExperience,
			attrition.ColumnCompanySize,
			attrition.ColumnCompanyType,
			attrition.ColumnLastNewJob,
			attrition.ColumnTrainingHours,
		},
		"additionalProperties": false,
		"properties": map[string]interface{}{
			attrition.ColumnCity: integer(attrition.MinCity, attrition.MaxCity),
			attrition.ColumnCityDevelopmentIndex: map[string]interface{}{
				"type": "number", "minimum": attrition.MinCDI, "maximum": attrition.MaxCDI,
			},
			attrition.ColumnGender:             str,
			attrition.ColumnRelevantExperience: str,
			attrition.ColumnEnrolledUniversity: str,
			attrition.ColumnEducationLevel:     str,
			attrition.ColumnMajorDiscipline:    str,
			attrition.ColumnExperience:         integer(attrition.MinExperience, attrition.MaxExperience),
			attrition.ColumnCompanySize:        str,
			attrition.ColumnCompanyType:        str,
			attrition.ColumnLastNewJob:         str,
			attrition.ColumnTrainingHours:      integer(attrition.MinTrainingHours, attrition.MaxTrainingHours),
		},
	}
}
