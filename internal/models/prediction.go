// internal/models/prediction.go
package models

// PredictionResponse is the JSON body returned by the prediction API.
type PredictionResponse struct {
	RequestID   string  `json:"requestId"`
	Probability float64 `json:"probability"`
	Display     string  `json:"display"`
	RiskBucket  string  `json:"riskBucket"`
	RiskLabel   string  `json:"riskLabel"`
	ModelKind   string  `json:"modelKind,omitempty"`
}

// ErrorResponse is the JSON envelope for rejected or failed predictions.
type ErrorResponse struct {
	RequestID string      `json:"requestId"`
	Error     interface{} `json:"error"`
}
