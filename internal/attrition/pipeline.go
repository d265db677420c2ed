// Package attrition turns raw candidate attributes into an attrition-risk
// prediction: encode, align for the scaler, scale, align for the model,
// classify, bucket.
package attrition

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "retention-service/internal/common/errors"
	"retention-service/internal/common/logger"
	"retention-service/internal/models"
)

const tracerName = "retention-service/attrition"

// Scaler is a fitted feature transform with a declared input schema.
type Scaler interface {
	FeatureNames() []string
	Transform(values []float64) ([]float64, error)
}

// Classifier is a trained binary model with a declared input schema.
// PredictProba returns one probability per class; index 1 is attrition.
type Classifier interface {
	Kind() string
	FeatureNames() []string
	PredictProba(values []float64) ([]float64, error)
}

// Prediction is the outcome of one pipeline run.
type Prediction struct {
	Probability float64
	Display     string
	Bucket      RiskBucket
	Label       string
	ModelInput  Row
}

// Pipeline holds an immutable scaler/classifier pair. It is safe for
// concurrent use.
type Pipeline struct {
	scaler     Scaler
	classifier Classifier
	log        logger.Logger
	tracer     trace.Tracer
}

// NewPipeline pairs a scaler with a classifier after checking that their
// declared schemas are adjacent.
func NewPipeline(scaler Scaler, classifier Classifier, log logger.Logger) (*Pipeline, error) {
	if scaler == nil || classifier == nil {
		return nil, apperrors.NewArtifactLoadFailureError("pipeline", fmt.Errorf("scaler and classifier are both required"))
	}
	if err := CheckSchemas(scaler.FeatureNames(), classifier.FeatureNames()); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Pipeline{
		scaler:     scaler,
		classifier: classifier,
		log:        log,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// ModelKind names the loaded classifier.
func (p *Pipeline) ModelKind() string { return p.classifier.Kind() }

// ScalerColumns returns the scaler's declared order.
func (p *Pipeline) ScalerColumns() []string { return clone(p.scaler.FeatureNames()) }

// ModelColumns returns the model's declared order.
func (p *Pipeline) ModelColumns() []string { return clone(p.classifier.FeatureNames()) }

// Predict runs one candidate through the whole pipeline.
func (p *Pipeline) Predict(ctx context.Context, input models.CandidateInput) (*Prediction, error) {
	ctx, span := p.tracer.Start(ctx, "attrition.predict")
	defer span.End()

	pred, err := p.predict(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("attrition.probability", pred.Probability),
		attribute.String("attrition.bucket", string(pred.Bucket)),
	)
	return pred, nil
}

func (p *Pipeline) predict(ctx context.Context, input models.CandidateInput) (*Prediction, error) {
	var (
		rec    CandidateRecord
		scaled Row
		model  Row
		proba  float64
	)

	err := p.stage(ctx, "encode", func() error {
		if err := ValidateRanges(input); err != nil {
			return err
		}
		var err error
		rec, err = Encode(input)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, "scale", func() error {
		ordered, err := AlignForScaler(rec, p.scaler.FeatureNames())
		if err != nil {
			return err
		}
		values, err := p.scaler.Transform(ordered.Values)
		if err != nil {
			return apperrors.NewPredictionFailedError("scale", err)
		}
		if len(values) != ordered.Len() {
			return apperrors.NewPredictionFailedError("scale",
				fmt.Errorf("scaler returned %d values for %d columns", len(values), ordered.Len()))
		}
		scaled = Row{Columns: ordered.Columns, Values: values}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, "classify", func() error {
		var err error
		model, err = AlignForModel(scaled, p.classifier.FeatureNames())
		if err != nil {
			return err
		}
		probs, err := p.classifier.PredictProba(model.Values)
		if err != nil {
			return apperrors.NewPredictionFailedError("classify", err)
		}
		if len(probs) != 2 {
			return apperrors.NewPredictionFailedError("classify",
				fmt.Errorf("expected 2 class probabilities, got %d", len(probs)))
		}
		proba = probs[1]
		if math.IsNaN(proba) || proba < 0 || proba > 1 {
			return apperrors.NewPredictionFailedError("classify",
				fmt.Errorf("probability %v outside [0,1]", proba))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bucket := Bucket(proba)
	p.log.Debug("Prediction computed", map[string]interface{}{
		"probability": proba,
		"bucket":      string(bucket),
		"modelInput":  model.Values,
	})

	return &Prediction{
		Probability: proba,
		Display:     FormatProbability(proba),
		Bucket:      bucket,
		Label:       bucket.Label(),
		ModelInput:  model,
	}, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	_, span := p.tracer.Start(ctx, "attrition."+name)
	defer span.End()
	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
