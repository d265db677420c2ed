// internal/workers/attrition/predict-attrition-risk/handler.go
package predictattritionrisk

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"retention-service/internal/attrition"
	"retention-service/internal/common/config"
	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/common/logger"
	"retention-service/internal/common/metrics"
	"retention-service/internal/models"
)

const (
	TaskType = config.PredictWorkerName

	metricsSource = "worker"
)

// Predictor is the loaded pipeline.
type Predictor interface {
	Predict(ctx context.Context, input models.CandidateInput) (*attrition.Prediction, error)
	ModelKind() string
}

type Handler struct {
	config       *Config
	predictor    Predictor
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, predictor Predictor, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		predictor:    predictor,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.ObserveError(metricsSource, string(apperrors.ErrCodeInvalidInput))
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInvalidInputError("variables", err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	pred, err := h.predictor.Predict(ctx, input.CandidateInput)
	if err != nil {
		metrics.ObserveError(metricsSource, string(apperrors.CodeOf(err)))
		h.logger.Warn("prediction rejected", map[string]interface{}{
			"employeeId": input.EmployeeID,
			"errorCode":  string(apperrors.CodeOf(err)),
		})
		return nil, err
	}
	metrics.ObservePrediction(metricsSource, string(pred.Bucket), pred.Probability, time.Since(start).Seconds())

	h.logger.Info("attrition risk predicted", map[string]interface{}{
		"employeeId":  input.EmployeeID,
		"probability": pred.Probability,
		"bucket":      string(pred.Bucket),
	})

	return &Output{
		EmployeeID:           input.EmployeeID,
		AttritionProbability: pred.Probability,
		ProbabilityDisplay:   pred.Display,
		RiskBucket:           string(pred.Bucket),
		RiskLabel:            pred.Label,
		ModelKind:            h.predictor.ModelKind(),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
