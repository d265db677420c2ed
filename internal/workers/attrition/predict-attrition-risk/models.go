// internal/workers/attrition/predict-attrition-risk/models.go
package predictattritionrisk

import "retention-service/internal/models"

// Input is the job's variables: the candidate's raw attributes plus an
// optional identifier echoed back unchanged.
type Input struct {
	models.CandidateInput
	EmployeeID string `json:"employeeId,omitempty"`
}

type Output struct {
	EmployeeID           string  `json:"employeeId,omitempty"`
	AttritionProbability float64 `json:"attritionProbability"`
	ProbabilityDisplay   string  `json:"probabilityDisplay"`
	RiskBucket           string  `json:"riskBucket"`
	RiskLabel            string  `json:"riskLabel"`
	ModelKind            string  `json:"modelKind"`
}
