package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotelens/adapters/llm"
	"quotelens/domain/core"
	"quotelens/domain/quote"
)

const sampleCSV = `customer_id,date,shipment_type,commodity_type,shipper_country,shipper_station,consignee_country,consignee_station,discount_offered,status
CUST001,2024-01-15,AIR,electronics,USA,LAX,Germany,HAM,15.5,accepted
CUST001,2024-01-22,AIR,electronics,USA,LAX,Germany,HAM,20.0,accepted
CUST002,2024-02-05,OFR FCL,general,China,SHA,USA,LGB,8.0,rejected
CUST002,2024-02-19,OFR FCL,general,China,SHA,USA,LGB,25.0,accepted
`

func newLoadedService(t *testing.T) *QuoteService {
	t.Helper()
	s := NewQuoteService(llm.Config{}, quote.DefaultThresholds())
	_, err := s.LoadDatasetFromCSV(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)
	return s
}

func TestLoadDatasetFromCSV(t *testing.T) {
	s := NewQuoteService(llm.Config{}, quote.DefaultThresholds())

	summary, err := s.LoadDatasetFromCSV(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, 2, summary.TotalCustomers)
	assert.Equal(t, 0.75, summary.AcceptanceRate)

	ds := s.Dataset()
	require.NotNil(t, ds)
	assert.Equal(t, "sample.csv", ds.SourceName)
}

func TestLoadReplacesDataset(t *testing.T) {
	s := newLoadedService(t)
	first := s.Dataset().ID

	_, err := s.LoadDatasetFromCSV(strings.NewReader(sampleCSV), "second.csv")
	require.NoError(t, err)

	assert.NotEqual(t, first, s.Dataset().ID, "reload should swap in a fresh dataset")
	assert.Equal(t, "second.csv", s.Dataset().SourceName)
}

func TestOperationsWithoutDataset(t *testing.T) {
	s := NewQuoteService(llm.Config{}, quote.DefaultThresholds())

	_, err := s.Summary()
	assert.ErrorIs(t, err, core.ErrNoDataset)

	_, err = s.Report()
	assert.ErrorIs(t, err, core.ErrNoDataset)

	_, err = s.Recommend(quote.Query{})
	assert.ErrorIs(t, err, core.ErrNoDataset)

	_, err = s.Predict(context.Background(), quote.Query{}, 10)
	assert.ErrorIs(t, err, core.ErrNoDataset)

	assert.ErrorIs(t, s.ExportCSV(&bytes.Buffer{}), core.ErrNoDataset)
}

func TestRecommendDefaultsRange(t *testing.T) {
	s := newLoadedService(t)

	rec, err := s.Recommend(quote.Query{CustomerID: "CUST001"})
	require.NoError(t, err)

	assert.Equal(t, "historical_analysis", rec.Method)
	assert.LessOrEqual(t, rec.OptimalDiscount, 30.0, "zero range should default to 0-30")
	assert.Positive(t, rec.SuccessProbability)
}

func TestPredictUsesHeuristicWithoutAPIKey(t *testing.T) {
	s := newLoadedService(t)

	est, err := s.Predict(context.Background(), quote.Query{CustomerID: "CUST001"}, 18)
	require.NoError(t, err)

	assert.NotEmpty(t, est.Prediction)
	assert.InDelta(t, 0.5, est.Probability, 0.5)
	assert.NotEmpty(t, est.KeyFactors)
}

func TestBatchPredictPreservesOrder(t *testing.T) {
	s := newLoadedService(t)

	requests := []PredictionRequest{
		{Query: quote.Query{CustomerID: "CUST001"}, ProposedDiscount: 15},
		{Query: quote.Query{CustomerID: "NOBODY", LanePair: "x_y-z_w", ShipmentType: "rail", CommodityType: "cheese"}, ProposedDiscount: 10},
		{Query: quote.Query{CustomerID: "CUST002"}, ProposedDiscount: 20},
	}

	results, err := s.BatchPredict(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "CUST001", results[0].Request.Query.CustomerID)
	assert.NotNil(t, results[0].Estimate)
	assert.Empty(t, results[0].Error)

	// The unknown scenario fails individually without sinking the batch.
	assert.Nil(t, results[1].Estimate)
	assert.NotEmpty(t, results[1].Error)

	assert.NotNil(t, results[2].Estimate)
}

func TestExportCSV(t *testing.T) {
	s := newLoadedService(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5, "header plus four rows")
	assert.Contains(t, lines[0], "lane_pair")
	assert.Contains(t, lines[1], "usa_lax-germany_ham")
}

func TestInstallDataset(t *testing.T) {
	s := NewQuoteService(llm.Config{}, quote.DefaultThresholds())

	_, err := s.InstallDataset(nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	ds := s.Dataset()
	assert.Nil(t, ds, "failed install should not change state")
}

func TestReport(t *testing.T) {
	s := newLoadedService(t)

	report, err := s.Report()
	require.NoError(t, err)

	assert.Equal(t, 4, report.Overall.TotalQuotes)
	assert.Equal(t, 2, report.Customers.TotalCustomers)
	assert.Len(t, report.Sensitivity.Buckets, 7)
	assert.NotEmpty(t, report.GeneratedAt)
}
