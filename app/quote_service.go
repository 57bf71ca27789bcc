package app

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"quotelens/adapters/llm"
	"quotelens/adapters/llm/heuristic"
	"quotelens/adapters/tabular"
	"quotelens/domain/core"
	"quotelens/domain/quote"
	"quotelens/internal/analysis"
	"quotelens/internal/optimizer"
	"quotelens/internal/pipeline"
	"quotelens/ports"
)

// defaultDiscountRange caps recommendations when the caller supplies no
// range.
const defaultMaxDiscount = 30.0

// batchConcurrency bounds in-flight estimator calls during batch
// prediction.
const batchConcurrency = 4

// session pairs a dataset with the estimator built over it, so one atomic
// swap replaces both and readers never observe a partial state.
type session struct {
	ds        *quote.Dataset
	estimator ports.AcceptanceEstimator
}

// QuoteService orchestrates the pipeline, the statistics engine, the
// historical optimizer, and the optional prediction adapter. The dataset is
// replaced wholesale on every load and never mutated in place.
type QuoteService struct {
	llmConfig  llm.Config
	thresholds quote.Thresholds
	current    atomic.Pointer[session]
}

// NewQuoteService creates a service with no dataset loaded.
func NewQuoteService(llmConfig llm.Config, thresholds quote.Thresholds) *QuoteService {
	return &QuoteService{llmConfig: llmConfig, thresholds: thresholds}
}

// LoadDatasetFromFile processes a CSV or XLSX file and installs the result
// as the current dataset.
func (s *QuoteService) LoadDatasetFromFile(path string) (analysis.Summary, error) {
	ds, err := pipeline.ProcessFile(path)
	if err != nil {
		return analysis.Summary{}, err
	}
	s.install(ds)
	return analysis.Summarize(ds), nil
}

// LoadDatasetFromCSV processes uploaded CSV content and installs the result
// as the current dataset.
func (s *QuoteService) LoadDatasetFromCSV(r io.Reader, sourceName string) (analysis.Summary, error) {
	ds, err := pipeline.ProcessCSV(r, sourceName)
	if err != nil {
		return analysis.Summary{}, err
	}
	s.install(ds)
	return analysis.Summarize(ds), nil
}

// InstallDataset installs an already-processed dataset as the current one.
func (s *QuoteService) InstallDataset(ds *quote.Dataset) (analysis.Summary, error) {
	if ds.Len() == 0 {
		return analysis.Summary{}, core.ErrEmptyDataset
	}
	s.install(ds)
	return analysis.Summarize(ds), nil
}

// install swaps in a new dataset together with the estimator grounded on
// it. The external predictor is used when an API key is configured; the
// offline heuristic otherwise.
func (s *QuoteService) install(ds *quote.Dataset) {
	var estimator ports.AcceptanceEstimator
	if predictor, err := llm.NewPredictor(s.llmConfig, ds); err == nil {
		estimator = predictor
	} else {
		log.Printf("[QuoteService] External predictor unavailable, using heuristic estimator: %v", err)
		estimator = heuristic.NewEstimator(ds)
	}
	s.current.Store(&session{ds: ds, estimator: estimator})
}

// Dataset returns the current dataset, nil when nothing is loaded.
func (s *QuoteService) Dataset() *quote.Dataset {
	if sess := s.current.Load(); sess != nil {
		return sess.ds
	}
	return nil
}

// Summary returns the dataset overview.
func (s *QuoteService) Summary() (analysis.Summary, error) {
	ds := s.Dataset()
	if ds.Len() == 0 {
		return analysis.Summary{}, core.ErrNoDataset
	}
	return analysis.Summarize(ds), nil
}

// Report generates the full analysis report.
func (s *QuoteService) Report() (analysis.Report, error) {
	ds := s.Dataset()
	if ds.Len() == 0 {
		return analysis.Report{}, core.ErrNoDataset
	}
	return analysis.NewAnalyzerWithThresholds(ds, s.thresholds).Report(), nil
}

// Recommend runs the historical optimizer. A zero discount range defaults
// to 0-30 percent.
func (s *QuoteService) Recommend(q quote.Query) (*optimizer.Recommendation, error) {
	ds := s.Dataset()
	if ds.Len() == 0 {
		return nil, core.ErrNoDataset
	}
	if q.MinDiscount == 0 && q.MaxDiscount == 0 {
		q.MaxDiscount = defaultMaxDiscount
	}
	return optimizer.Recommend(ds, q, s.thresholds)
}

// Predict asks the configured estimator for an acceptance estimate.
func (s *QuoteService) Predict(ctx context.Context, q quote.Query, proposedDiscount float64) (*ports.Estimate, error) {
	sess := s.current.Load()
	if sess == nil || sess.ds.Len() == 0 {
		return nil, core.ErrNoDataset
	}
	return sess.estimator.EstimateAcceptance(ctx, q, proposedDiscount)
}

// PredictionRequest is one scenario of a batch prediction.
type PredictionRequest struct {
	Query            quote.Query `json:"query"`
	ProposedDiscount float64     `json:"proposed_discount"`
}

// PredictionResult pairs a request with its estimate; failed estimates
// carry the error message instead.
type PredictionResult struct {
	Request  PredictionRequest `json:"request"`
	Estimate *ports.Estimate   `json:"estimate,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// BatchPredict runs estimates for many scenarios with bounded concurrency,
// preserving input order.
func (s *QuoteService) BatchPredict(ctx context.Context, requests []PredictionRequest) ([]PredictionResult, error) {
	sess := s.current.Load()
	if sess == nil || sess.ds.Len() == 0 {
		return nil, core.ErrNoDataset
	}

	results := make([]PredictionResult, len(requests))
	sem := semaphore.NewWeighted(batchConcurrency)
	var wg sync.WaitGroup

	for i, req := range requests {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, req PredictionRequest) {
			defer wg.Done()
			defer sem.Release(1)

			est, err := sess.estimator.EstimateAcceptance(ctx, req.Query, req.ProposedDiscount)
			results[i] = PredictionResult{Request: req, Estimate: est}
			if err != nil {
				results[i].Error = err.Error()
			}
		}(i, req)
	}

	wg.Wait()
	return results, nil
}

// ExportCSV writes the processed dataset back out in the canonical schema.
func (s *QuoteService) ExportCSV(w io.Writer) error {
	ds := s.Dataset()
	if ds.Len() == 0 {
		return core.ErrNoDataset
	}
	return tabular.WriteCSV(w, ds)
}

// Thresholds exposes the configured cutoffs, for handlers that report them.
func (s *QuoteService) Thresholds() quote.Thresholds {
	return s.thresholds
}
