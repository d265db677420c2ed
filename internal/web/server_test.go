package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retention-service/internal/attrition"
	"retention-service/internal/attrition/artifact"
	"retention-service/internal/common/config"
	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/common/logger"
	"retention-service/internal/models"
)

// newTestPipeline pairs an identity scaler with a model that only looks at
// the city development index: p = sigmoid(2 - 4*cdi).
func newTestPipeline(t *testing.T) *attrition.Pipeline {
	t.Helper()

	scalerCols := append([]string{attrition.ColumnEnrolleeID}, attrition.RecordColumns...)
	scalerCols = append(scalerCols, attrition.ColumnTarget)
	scaler, err := artifact.NewStandardScaler(scalerCols, nil, nil)
	require.NoError(t, err)

	coef := make([]float64, len(attrition.RecordColumns))
	coef[1] = -4
	model, err := artifact.NewLogisticModel(attrition.RecordColumns, coef, 2)
	require.NoError(t, err)

	p, err := attrition.NewPipeline(scaler, model, logger.NewNoOpLogger())
	require.NoError(t, err)
	return p
}

type failingPredictor struct {
	err error
}

func (f *failingPredictor) Predict(context.Context, models.CandidateInput) (*attrition.Prediction, error) {
	return nil, f.err
}

func (f *failingPredictor) ModelKind() string { return "failing" }

func newTestServer(t *testing.T, predictor Predictor) http.Handler {
	t.Helper()
	s, err := New(config.ServerConfig{Address: ":0"}, Options{
		Predictor:      predictor,
		Logger:         logger.NewTestLogger(t),
		MetricsEnabled: true,
	})
	require.NoError(t, err)
	return s.Handler()
}

func scenarioForm() url.Values {
	return url.Values{
		"city":                   {"10"},
		"city_development_index": {"0.70"},
		"gender":                 {"Male"},
		"relevent_experience":    {"Has relevent experience"},
		"enrolled_university":    {"no_enrollment"},
		"education_level":        {"Graduate"},
		"major_discipline":       {"STEM"},
		"experience":             {"5"},
		"company_size":           {"100-500"},
		"company_type":           {"Pvt Ltd"},
		"last_new_job":           {"2"},
		"training_hours":         {"40"},
	}
}

func postForm(h http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func scenarioJSON(t *testing.T, modify func(map[string]interface{})) string {
	t.Helper()
	doc := map[string]interface{}{
		"city": 10, "city_development_index": 0.70, "gender": "Male",
		"relevent_experience": "Has relevent experience", "enrolled_university": "no_enrollment",
		"education_level": "Graduate", "major_discipline": "STEM", "experience": 5,
		"company_size": "100-500", "company_type": "Pvt Ltd", "last_new_job": "2",
		"training_hours": 40,
	}
	if modify != nil {
		modify(doc)
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func TestIndex_RendersDefaults(t *testing.T) {
	h := newTestServer(t, newTestPipeline(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Employee Attrition Risk Predictor")
	assert.Contains(t, body, `name="city" value="10"`)
	assert.Contains(t, body, `name="city_development_index" value="0.7"`)
	assert.Contains(t, body, `name="training_hours" value="40"`)
	assert.Contains(t, body, `<option value="Female" selected>Female</option>`)
	assert.Contains(t, body, `<option value="Male">Male</option>`)
	assert.NotContains(t, body, `id="result"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormPredict_RendersResult(t *testing.T) {
	pipeline := newTestPipeline(t)
	h := newTestServer(t, pipeline)

	want, err := pipeline.Predict(context.Background(), models.CandidateInput{
		City: 10, CityDevelopmentIndex: 0.70, Gender: "Male",
		RelevantExperience: "Has relevent experience", EnrolledUniversity: "no_enrollment",
		EducationLevel: "Graduate", MajorDiscipline: "STEM", Experience: 5,
		CompanySize: "100-500", CompanyType: "Pvt Ltd", LastNewJob: "2", TrainingHours: 40,
	})
	require.NoError(t, err)

	rec := postForm(h, scenarioForm())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="result"`)
	assert.Contains(t, body, want.Label)
	assert.Contains(t, body, "Probability: "+want.Display)
	assert.Contains(t, body, `<option value="Male" selected>Male</option>`)
	assert.NotContains(t, body, `id="error"`)
}

func TestFormPredict_Buckets(t *testing.T) {
	h := newTestServer(t, newTestPipeline(t))

	tests := []struct {
		cdi   string
		label string
	}{
		{cdi: "1", label: "Low Attrition Risk"},
		{cdi: "0.5", label: "Medium Attrition Risk"},
		{cdi: "0", label: "High Attrition Risk"},
	}
	for _, tt := range tests {
		form := scenarioForm()
		form.Set("city_development_index", tt.cdi)
		rec := postForm(h, form)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), tt.label, "cdi=%s", tt.cdi)
	}
}

func TestFormPredict_ErrorsAreVisible(t *testing.T) {
	tests := []struct {
		name      string
		predictor Predictor
		modify    func(url.Values)
		status    int
		code      string
	}{
		{
			name:   "unknown gender",
			modify: func(f url.Values) { f.Set("gender", "Unknown") },
			status: http.StatusUnprocessableEntity,
			code:   "UNKNOWN_CATEGORY",
		},
		{
			name:   "not a number",
			modify: func(f url.Values) { f.Set("training_hours", "forty") },
			status: http.StatusUnprocessableEntity,
			code:   "INVALID_INPUT",
		},
		{
			name:   "out of range",
			modify: func(f url.Values) { f.Set("city", "250") },
			status: http.StatusUnprocessableEntity,
			code:   "INVALID_INPUT",
		},
		{
			name:      "schema drift",
			predictor: &failingPredictor{err: apperrors.NewSchemaMismatchError("model", []string{"state"}, nil)},
			status:    http.StatusInternalServerError,
			code:      "SCHEMA_MISMATCH",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := tt.predictor
			if predictor == nil {
				predictor = newTestPipeline(t)
			}
			h := newTestServer(t, predictor)

			form := scenarioForm()
			if tt.modify != nil {
				tt.modify(form)
			}
			rec := postForm(h, form)

			assert.Equal(t, tt.status, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `id="error"`)
			assert.Contains(t, body, tt.code)
			assert.NotContains(t, body, `id="result"`)
		})
	}
}

func TestAPIPredict(t *testing.T) {
	pipeline := newTestPipeline(t)
	h := newTestServer(t, pipeline)

	rec := postJSON(h, scenarioJSON(t, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
	assert.Equal(t, string(attrition.Bucket(resp.Probability)), resp.RiskBucket)
	assert.Equal(t, attrition.FormatProbability(resp.Probability), resp.Display)
	assert.Equal(t, artifact.KindLogistic, resp.ModelKind)
}

func TestAPIPredict_Rejections(t *testing.T) {
	h := newTestServer(t, newTestPipeline(t))

	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{name: "training hours above range", body: scenarioJSON(t, func(d map[string]interface{}) { d["training_hours"] = 301 }), code: "INVALID_INPUT", field: "training_hours"},
		{name: "cdi above range", body: scenarioJSON(t, func(d map[string]interface{}) { d["city_development_index"] = 1.5 }), code: "INVALID_INPUT", field: "city_development_index"},
		{name: "missing field", body: scenarioJSON(t, func(d map[string]interface{}) { delete(d, "gender") }), code: "INVALID_INPUT", field: "gender"},
		{name: "unexpected field", body: scenarioJSON(t, func(d map[string]interface{}) { d["state"] = "TX" }), code: "INVALID_INPUT"},
		{name: "malformed", body: `{"city": `, code: "INVALID_INPUT"},
		{name: "unknown category", body: scenarioJSON(t, func(d map[string]interface{}) { d["gender"] = "Unknown" }), code: "UNKNOWN_CATEGORY", field: "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(h, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp struct {
				RequestID string                  `json:"requestId"`
				Error     apperrors.StandardError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.RequestID)
			assert.Equal(t, apperrors.ErrorCode(tt.code), resp.Error.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, resp.Error.Metadata["field"])
			}
		})
	}
}

func TestHealthReadyMetrics(t *testing.T) {
	h := newTestServer(t, newTestPipeline(t))

	for _, path := range []string{"/health", "/ready", "/metrics", "/api/v1/options"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	unready := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	unready.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = postJSON(unready, scenarioJSON(t, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOptions_ListsEveryCategory(t *testing.T) {
	h := newTestServer(t, newTestPipeline(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))

	var opts map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Len(t, opts, 8)
	assert.Equal(t, []string{"Never", "1", "2", "3", "4", ">4"}, opts["last_new_job"])
}
