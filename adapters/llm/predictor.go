package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"quotelens/domain/core"
	"quotelens/domain/quote"
	"quotelens/internal/optimizer"
	"quotelens/ports"
)

// Predictor asks an external model for an acceptance probability, grounding
// the prompt in the loaded dataset's historical statistics. It implements
// ports.AcceptanceEstimator.
type Predictor struct {
	client    Client
	models    []string
	maxTokens int
	ds        *quote.Dataset

	mu          sync.Mutex
	activeModel string // first model that answered; sticky for the session
}

// NewPredictor builds a predictor from config. Fails when no API key is set;
// callers fall back to the heuristic estimator in that case.
func NewPredictor(config Config, ds *quote.Dataset) (*Predictor, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEstimatorUnavailable, err)
	}
	return NewPredictorWithClient(client, config.Models, config.MaxTokens, ds), nil
}

// NewPredictorWithClient wires an explicit client, used by tests.
func NewPredictorWithClient(client Client, models []string, maxTokens int, ds *quote.Dataset) *Predictor {
	if len(models) == 0 {
		models = DefaultModels
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Predictor{client: client, models: models, maxTokens: maxTokens, ds: ds}
}

// EstimateAcceptance predicts the likelihood that the customer accepts the
// proposed discount. Models from the fallback list are tried in order until
// one answers.
func (p *Predictor) EstimateAcceptance(ctx context.Context, q quote.Query, proposedDiscount float64) (*ports.Estimate, error) {
	normalized := optimizer.NormalizeQuery(q)
	prompt := buildPrompt(p.ds, q, normalized, proposedDiscount)

	text, err := p.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseEstimate(text, proposedDiscount), nil
}

// complete tries the sticky model first, then walks the fallback list.
func (p *Predictor) complete(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	active := p.activeModel
	p.mu.Unlock()

	candidates := p.models
	if active != "" {
		candidates = append([]string{active}, p.models...)
	}

	var lastErr error
	for _, model := range candidates {
		text, err := p.client.ChatCompletion(ctx, model, prompt, p.maxTokens)
		if err != nil {
			log.Printf("[Predictor] Model %s failed: %v", model, err)
			lastErr = err
			continue
		}

		p.mu.Lock()
		if p.activeModel != model {
			log.Printf("[Predictor] Using model %s", model)
			p.activeModel = model
		}
		p.mu.Unlock()
		return text, nil
	}

	return "", fmt.Errorf("%w: %v", core.ErrNoWorkingModel, lastErr)
}

// parseEstimate extracts the structured prediction from the model output.
// When the output carries no parseable JSON the original's uncertain
// fallback applies: probability 0.5, confidence 0.3, raw text as reasoning.
func parseEstimate(text string, proposedDiscount float64) *ports.Estimate {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start || !gjson.Valid(text[start:end+1]) {
		return &ports.Estimate{
			Prediction:          "uncertain",
			Probability:         0.5,
			Confidence:          0.3,
			Reasoning:           text,
			RecommendedDiscount: proposedDiscount,
			RiskAssessment:      "medium",
		}
	}

	parsed := gjson.Parse(text[start : end+1])

	probability := parsed.Get("acceptance_probability").Float()
	prediction := "unlikely"
	if probability > 0.5 {
		prediction = "likely"
	}

	recommended := proposedDiscount
	if v := parsed.Get("recommended_discount"); v.Exists() {
		recommended = v.Float()
	}

	risk := parsed.Get("risk_assessment").String()
	if risk == "" {
		risk = "medium"
	}

	var factors []string
	for _, f := range parsed.Get("key_factors").Array() {
		factors = append(factors, f.String())
	}

	return &ports.Estimate{
		Prediction:          prediction,
		Probability:         probability,
		Confidence:          parsed.Get("confidence_level").Float(),
		Reasoning:           parsed.Get("reasoning").String(),
		RecommendedDiscount: recommended,
		KeyFactors:          factors,
		RiskAssessment:      risk,
	}
}

// SweepPoint is one probed discount level of an optimal-discount sweep.
type SweepPoint struct {
	Discount    float64 `json:"discount"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// SweepResult is the outcome of probing the discount range.
type SweepResult struct {
	OptimalDiscount    float64      `json:"optimal_discount"`
	SuccessProbability float64      `json:"success_probability"`
	Confidence         float64      `json:"confidence"`
	AllPredictions     []SweepPoint `json:"all_predictions"`
}

// OptimalDiscount probes the query's discount range in 5-point steps (2.5
// when the range spans 15 points or less) and picks the highest-probability
// estimate with confidence above 0.5. With no confident estimate it falls
// back to the range midpoint.
func (p *Predictor) OptimalDiscount(ctx context.Context, q quote.Query) (*SweepResult, error) {
	step := 5.0
	if q.MaxDiscount-q.MinDiscount <= 15 {
		step = 2.5
	}

	var points []SweepPoint
	for d := q.MinDiscount; d <= q.MaxDiscount; d += step {
		est, err := p.EstimateAcceptance(ctx, q, d)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{Discount: d, Probability: est.Probability, Confidence: est.Confidence})
	}

	best := -1
	for i, pt := range points {
		if pt.Confidence <= 0.5 {
			continue
		}
		if best < 0 || pt.Probability > points[best].Probability {
			best = i
		}
	}

	if best < 0 {
		return &SweepResult{
			OptimalDiscount:    (q.MinDiscount + q.MaxDiscount) / 2,
			SuccessProbability: 0.5,
			Confidence:         0.3,
			AllPredictions:     points,
		}, nil
	}

	return &SweepResult{
		OptimalDiscount:    points[best].Discount,
		SuccessProbability: points[best].Probability,
		Confidence:         points[best].Confidence,
		AllPredictions:     points,
	}, nil
}
