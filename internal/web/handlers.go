package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"retention-service/internal/attrition"
	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/common/metrics"
	"retention-service/internal/models"
)

const (
	sourceForm = "form"
	sourceAPI  = "api"

	maxBodyBytes = 64 << 10
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, newPageData(requestID(r.Context()), models.DefaultCandidateInput()))
}

func (s *Server) handleFormPredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	input, err := parseForm(r)
	if err != nil {
		s.renderError(w, r, input, err)
		return
	}

	pred, err := s.predict(r.Context(), sourceForm, input)
	if err != nil {
		s.renderError(w, r, input, err)
		return
	}

	data := newPageData(requestID(r.Context()), input)
	data.Result = &resultView{
		Bucket:      string(pred.Bucket),
		Label:       pred.Label,
		Probability: pred.Display,
	}
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	id := requestID(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.apiError(w, id, sourceAPI, apperrors.NewInvalidInputError("body", err.Error()))
		return
	}
	if result := s.apiSchema.ValidateBytes(body); !result.Valid {
		first := result.FirstError()
		s.apiError(w, id, sourceAPI, apperrors.NewInvalidInputError(first.Field, strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	var input models.CandidateInput
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&input); err != nil {
		s.apiError(w, id, sourceAPI, apperrors.NewInvalidInputError("body", err.Error()))
		return
	}

	pred, err := s.predict(r.Context(), sourceAPI, input)
	if err != nil {
		s.apiError(w, id, "", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, models.PredictionResponse{
		RequestID:   id,
		Probability: pred.Probability,
		Display:     pred.Display,
		RiskBucket:  string(pred.Bucket),
		RiskLabel:   pred.Label,
		ModelKind:   s.predictor.ModelKind(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string][]string)
	for _, opt := range attrition.CategoryOptions() {
		out[opt.Field] = opt.Labels
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// predict runs the pipeline and records the outcome. Failures are already
// counted when it returns.
func (s *Server) predict(ctx context.Context, source string, input models.CandidateInput) (*attrition.Prediction, error) {
	if s.predictor == nil {
		err := apperrors.NewArtifactLoadFailureError("pipeline", fmt.Errorf("artifacts not loaded"))
		s.recordError(ctx, source, err)
		return nil, err
	}

	start := time.Now()
	pred, err := s.predictor.Predict(ctx, input)
	elapsed := time.Since(start)
	s.obs.RecordDuration(ctx, source, elapsed)
	if err != nil {
		s.recordError(ctx, source, err)
		return nil, err
	}

	metrics.ObservePrediction(source, string(pred.Bucket), pred.Probability, elapsed.Seconds())
	s.obs.RecordPrediction(ctx, source, string(pred.Bucket))
	s.logger.Info("prediction served", map[string]interface{}{
		"requestId":   requestID(ctx),
		"source":      source,
		"probability": pred.Probability,
		"bucket":      string(pred.Bucket),
	})
	return pred, nil
}

func (s *Server) recordError(ctx context.Context, source string, err error) {
	code := string(apperrors.CodeOf(err))
	metrics.ObserveError(source, code)
	s.obs.RecordPrediction(ctx, source, code)

	fields := map[string]interface{}{
		"requestId": requestID(ctx),
		"source":    source,
		"errorCode": code,
		"error":     err,
	}
	if apperrors.HTTPStatus(apperrors.CodeOf(err)) >= http.StatusInternalServerError {
		s.logger.Error("prediction failed", fields)
	} else {
		s.logger.Warn("prediction rejected", fields)
	}
}

// apiError writes the error envelope. A non-empty source means the error has
// not been recorded yet.
func (s *Server) apiError(w http.ResponseWriter, id, source string, err error) {
	stdErr := apperrors.As(err)
	if source != "" {
		metrics.ObserveError(source, string(stdErr.Code))
	}
	s.jsonResponse(w, apperrors.HTTPStatus(stdErr.Code), models.ErrorResponse{
		RequestID: id,
		Error:     stdErr,
	})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, input models.CandidateInput, err error) {
	stdErr := apperrors.As(err)
	data := newPageData(requestID(r.Context()), input)
	data.Error = stdErr
	s.renderPage(w, apperrors.HTTPStatus(stdErr.Code), data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data *pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("render page", map[string]interface{}{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// parseForm reads the submitted form. Missing fields keep their defaults;
// unparseable numbers are INVALID_INPUT. The returned input is usable for
// re-rendering even on error.
func parseForm(r *http.Request) (models.CandidateInput, error) {
	input := models.DefaultCandidateInput()
	if err := r.ParseForm(); err != nil {
		metrics.ObserveError(sourceForm, string(apperrors.ErrCodeInvalidInput))
		return input, apperrors.NewInvalidInputError("form", err.Error())
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{attrition.ColumnCity, &input.City},
		{attrition.ColumnExperience, &input.Experience},
		{attrition.ColumnTrainingHours, &input.TrainingHours},
	}
	for _, f := range ints {
		raw := strings.TrimSpace(r.PostFormValue(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			metrics.ObserveError(sourceForm, string(apperrors.ErrCodeInvalidInput))
			return input, apperrors.NewInvalidInputError(f.name, fmt.Sprintf("%q is not a whole number", raw))
		}
		*f.dst = v
	}

	if raw := strings.TrimSpace(r.PostFormValue(attrition.ColumnCityDevelopmentIndex)); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			metrics.ObserveError(sourceForm, string(apperrors.ErrCodeInvalidInput))
			return input, apperrors.NewInvalidInputError(attrition.ColumnCityDevelopmentIndex, fmt.Sprintf("%q is not a number", raw))
		}
		input.CityDevelopmentIndex = v
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{attrition.ColumnGender, &input.Gender},
		{attrition.ColumnRelevantExperience, &input.RelevantExperience},
		{attrition.ColumnEnrolledUniversity, &input.EnrolledUniversity},
		{attrition.ColumnEducationLevel, &input.EducationLevel},
		{attrition.ColumnMajorDiscipline, &input.MajorDiscipline},
		{attrition.ColumnCompanySize, &input.CompanySize},
		{attrition.ColumnCompanyType, &input.CompanyType},
		{attrition.ColumnLastNewJob, &input.LastNewJob},
	}
	for _, f := range strs {
		if _, ok := r.PostForm[f.name]; ok {
			*f.dst = r.PostFormValue(f.name)
		}
	}
	return input, nil
}
