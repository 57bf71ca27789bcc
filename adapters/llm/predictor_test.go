package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quotelens/domain/core"
	"quotelens/domain/quote"
)

func testDataset() *quote.Dataset {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	return quote.NewDataset("test.csv", []quote.FeaturedRecord{
		{Record: quote.Record{CustomerID: "CUST001", Date: day, ShipmentType: "air",
			CommodityType: "general", Discount: 12, Status: quote.StatusAccepted, LanePair: "us_jfk-de_fra"}},
		{Record: quote.Record{CustomerID: "CUST001", Date: day, ShipmentType: "air",
			CommodityType: "general", Discount: 18, Status: quote.StatusRejected, LanePair: "us_jfk-de_fra"}},
	})
}

func testQuery() quote.Query {
	return quote.Query{
		CustomerID:   "CUST001",
		LanePair:     "us_jfk-de_fra",
		ShipmentType: "air",
		MinDiscount:  5,
		MaxDiscount:  20,
	}
}

func TestEstimateAcceptanceParsesModelOutput(t *testing.T) {
	p := NewPredictorWithClient(&MockClient{}, nil, 0, testDataset())

	est, err := p.EstimateAcceptance(context.Background(), testQuery(), 15)
	if err != nil {
		t.Fatalf("EstimateAcceptance failed: %v", err)
	}

	if est.Prediction != "likely" {
		t.Errorf("prediction = %q, want likely", est.Prediction)
	}
	if est.Probability != 0.72 || est.Confidence != 0.8 {
		t.Errorf("probability/confidence = %v/%v", est.Probability, est.Confidence)
	}
	if est.RecommendedDiscount != 16.5 {
		t.Errorf("recommended discount = %v", est.RecommendedDiscount)
	}
	if len(est.KeyFactors) != 2 {
		t.Errorf("key factors = %v", est.KeyFactors)
	}
	if est.RiskAssessment != "low" {
		t.Errorf("risk = %q", est.RiskAssessment)
	}
}

func TestEstimateAcceptanceJSONInProse(t *testing.T) {
	client := &MockClient{Response: "Here is my analysis:\n" +
		`{"acceptance_probability": 0.4, "confidence_level": 0.7, "reasoning": "thin history"}` +
		"\nLet me know if you need more."}
	p := NewPredictorWithClient(client, nil, 0, testDataset())

	est, err := p.EstimateAcceptance(context.Background(), testQuery(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if est.Prediction != "unlikely" || est.Probability != 0.4 {
		t.Errorf("embedded JSON not extracted: %+v", est)
	}
	// No recommended_discount in the reply: proposed value carries through.
	if est.RecommendedDiscount != 10 {
		t.Errorf("recommended discount = %v, want 10", est.RecommendedDiscount)
	}
}

func TestEstimateAcceptanceMalformedFallback(t *testing.T) {
	client := &MockClient{Response: "I cannot answer that in JSON, sorry."}
	p := NewPredictorWithClient(client, nil, 0, testDataset())

	est, err := p.EstimateAcceptance(context.Background(), testQuery(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if est.Prediction != "uncertain" || est.Probability != 0.5 || est.Confidence != 0.3 {
		t.Errorf("uncertain fallback not applied: %+v", est)
	}
	if est.Reasoning == "" {
		t.Error("raw text should be kept as reasoning")
	}
	if est.RiskAssessment != "medium" {
		t.Errorf("risk = %q, want medium", est.RiskAssessment)
	}
}

// failThenAnswer fails for every model except the last one.
type failThenAnswer struct {
	answered []string
	good     string
}

func (f *failThenAnswer) ChatCompletion(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	f.answered = append(f.answered, model)
	if model != f.good {
		return "", fmt.Errorf("model %s overloaded", model)
	}
	return `{"acceptance_probability": 0.9, "confidence_level": 0.9}`, nil
}

func TestModelFallbackAndStickiness(t *testing.T) {
	client := &failThenAnswer{good: "model-c"}
	p := NewPredictorWithClient(client, []string{"model-a", "model-b", "model-c"}, 0, testDataset())

	if _, err := p.EstimateAcceptance(context.Background(), testQuery(), 10); err != nil {
		t.Fatalf("fallback should succeed: %v", err)
	}
	if len(client.answered) != 3 {
		t.Fatalf("expected 3 attempts, got %v", client.answered)
	}

	// Second call goes straight to the model that answered.
	client.answered = nil
	if _, err := p.EstimateAcceptance(context.Background(), testQuery(), 10); err != nil {
		t.Fatal(err)
	}
	if len(client.answered) == 0 || client.answered[0] != "model-c" {
		t.Errorf("sticky model not tried first: %v", client.answered)
	}
}

func TestAllModelsFail(t *testing.T) {
	client := &MockClient{Error: errors.New("rate limited")}
	p := NewPredictorWithClient(client, []string{"model-a", "model-b"}, 0, testDataset())

	_, err := p.EstimateAcceptance(context.Background(), testQuery(), 10)
	if !errors.Is(err, core.ErrNoWorkingModel) {
		t.Fatalf("expected ErrNoWorkingModel, got %v", err)
	}
}

func TestNewPredictorRequiresKey(t *testing.T) {
	_, err := NewPredictor(Config{}, testDataset())
	if !errors.Is(err, core.ErrEstimatorUnavailable) {
		t.Fatalf("expected ErrEstimatorUnavailable, got %v", err)
	}
}

func TestOptimalDiscountSweep(t *testing.T) {
	// Probability rises with the proposed discount; highest wins.
	client := &sweepClient{}
	p := NewPredictorWithClient(client, nil, 0, testDataset())

	q := testQuery() // range 5..20 spans 15, so step 2.5
	res, err := p.OptimalDiscount(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.AllPredictions) != 7 {
		t.Fatalf("expected 7 probes, got %d", len(res.AllPredictions))
	}
	if res.OptimalDiscount != 20 {
		t.Errorf("optimal discount = %v, want 20", res.OptimalDiscount)
	}
	if res.SuccessProbability <= 0.5 {
		t.Errorf("success probability = %v", res.SuccessProbability)
	}
}

func TestOptimalDiscountMidpointFallback(t *testing.T) {
	// Every estimate comes back with low confidence.
	client := &MockClient{Response: `{"acceptance_probability": 0.6, "confidence_level": 0.2}`}
	p := NewPredictorWithClient(client, nil, 0, testDataset())

	res, err := p.OptimalDiscount(context.Background(), quote.Query{MinDiscount: 0, MaxDiscount: 30})
	if err != nil {
		t.Fatal(err)
	}
	if res.OptimalDiscount != 15 || res.SuccessProbability != 0.5 || res.Confidence != 0.3 {
		t.Errorf("midpoint fallback wrong: %+v", res)
	}
}

// sweepClient reads the proposed discount out of the prompt and answers with
// a probability proportional to it.
type sweepClient struct{}

func (sweepClient) ChatCompletion(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	var d float64
	for _, line := range strings.Split(prompt, "\n") {
		if _, err := fmt.Sscanf(line, "- Proposed Discount: %f%%", &d); err == nil {
			break
		}
	}
	return fmt.Sprintf(`{"acceptance_probability": %.3f, "confidence_level": 0.9}`, d/25), nil
}
