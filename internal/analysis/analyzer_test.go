package analysis

import (
	"testing"
	"time"

	"quotelens/domain/quote"
)

func rec(customer string, date time.Time, shipment, lane string, discount float64, status quote.Status) quote.FeaturedRecord {
	return quote.FeaturedRecord{
		Record: quote.Record{
			CustomerID:    customer,
			Date:          date,
			ShipmentType:  shipment,
			CommodityType: "general",
			Discount:      discount,
			Status:        status,
			LanePair:      lane,
		},
		Features: quote.Features{
			Year:      date.Year(),
			Month:     date.Month(),
			Quarter:   (int(date.Month())-1)/3 + 1,
			DayOfWeek: date.Weekday(),
		},
	}
}

// testDataset is five quotes across two customers and two lanes: three
// accepted (15.5, 20.0, 18.0) and two rejected.
func testDataset() *quote.Dataset {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return quote.NewDataset("test.csv", []quote.FeaturedRecord{
		rec("CUST001", day(1), "air", "us_jfk-de_fra", 15.5, quote.StatusAccepted),
		rec("CUST001", day(8), "air", "us_jfk-de_fra", 20.0, quote.StatusAccepted),
		rec("CUST001", day(15), "ofr fcl", "us_lax-cn_sha", 5.0, quote.StatusRejected),
		rec("CUST002", day(22), "air", "us_jfk-de_fra", 18.0, quote.StatusAccepted),
		rec("CUST002", day(29), "ofr fcl", "us_lax-cn_sha", 25.0, quote.StatusRejected),
	})
}

func TestOverall(t *testing.T) {
	o := NewAnalyzer(testDataset()).Overall()

	if o.TotalQuotes != 5 || o.TotalCustomers != 2 || o.TotalLanePairs != 2 {
		t.Errorf("counts wrong: %+v", o)
	}
	if o.OverallAcceptanceRate != 0.6 {
		t.Errorf("acceptance rate = %v, want 0.6", o.OverallAcceptanceRate)
	}
	if o.TotalAcceptedQuotes != 3 {
		t.Errorf("accepted count = %d, want 3", o.TotalAcceptedQuotes)
	}
	if o.DateRange.Start != "2024-01-01" || o.DateRange.End != "2024-01-29" || o.DateRange.SpanDays != 28 {
		t.Errorf("date range wrong: %+v", o.DateRange)
	}
	if o.DiscountStats.Min != 5.0 || o.DiscountStats.Max != 25.0 {
		t.Errorf("discount extremes wrong: %+v", o.DiscountStats)
	}
	if o.AcceptedDiscountStats == nil {
		t.Fatal("accepted discount stats should be present")
	}
	// (15.5 + 20.0 + 18.0) / 3 = 17.833..., rounded to 2 decimals.
	if o.AcceptedDiscountStats.Mean != 17.83 {
		t.Errorf("accepted mean = %v, want 17.83", o.AcceptedDiscountStats.Mean)
	}
}

func TestOverallEmptyDataset(t *testing.T) {
	a := NewAnalyzer(nil)
	if o := a.Overall(); o.TotalQuotes != 0 || o.AcceptedDiscountStats != nil {
		t.Errorf("empty dataset should yield zero stats: %+v", o)
	}
}

func TestCustomers(t *testing.T) {
	c := NewAnalyzer(testDataset()).Customers()

	if c.TotalCustomers != 2 {
		t.Fatalf("total customers = %d", c.TotalCustomers)
	}

	// CUST001: 2/3 = 0.667, CUST002: 1/2 = 0.5. Neither crosses the
	// default 0.7 / 0.3 cutoffs.
	if len(c.HighValueCustomers) != 0 || len(c.LowValueCustomers) != 0 {
		t.Errorf("tiering wrong: high=%v low=%v", c.HighValueCustomers, c.LowValueCustomers)
	}

	if len(c.MostActiveCustomers) != 2 || c.MostActiveCustomers[0].CustomerID != "CUST001" {
		t.Fatalf("most active should lead with CUST001: %+v", c.MostActiveCustomers)
	}

	cs := c.MostActiveCustomers[0]
	if cs.TotalQuotes != 3 || cs.AcceptedQuotes != 2 || cs.AcceptanceRate != 0.667 {
		t.Errorf("CUST001 stats wrong: %+v", cs)
	}
	if cs.AverageAcceptedDiscount != 17.75 {
		t.Errorf("CUST001 avg accepted discount = %v, want 17.75", cs.AverageAcceptedDiscount)
	}
	if cs.PreferredShipmentTypes["air"] != 2 || cs.PreferredShipmentTypes["ofr fcl"] != 1 {
		t.Errorf("preferred shipment types wrong: %v", cs.PreferredShipmentTypes)
	}
}

func TestCustomerTiering(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ds := quote.NewDataset("tiers.csv", []quote.FeaturedRecord{
		rec("WINNER", day, "air", "l1", 10, quote.StatusAccepted),
		rec("WINNER", day, "air", "l1", 12, quote.StatusAccepted),
		rec("LOSER", day, "air", "l1", 10, quote.StatusRejected),
		rec("LOSER", day, "air", "l1", 12, quote.StatusRejected),
	})

	c := NewAnalyzer(ds).Customers()
	if len(c.HighValueCustomers) != 1 || c.HighValueCustomers[0] != "WINNER" {
		t.Errorf("high value = %v", c.HighValueCustomers)
	}
	if len(c.LowValueCustomers) != 1 || c.LowValueCustomers[0] != "LOSER" {
		t.Errorf("low value = %v", c.LowValueCustomers)
	}
}

func TestCustomerHistory(t *testing.T) {
	a := NewAnalyzer(testDataset())

	cs, ok := a.CustomerHistory("CUST002")
	if !ok {
		t.Fatal("CUST002 should have history")
	}
	if cs.TotalQuotes != 2 || cs.AcceptanceRate != 0.5 {
		t.Errorf("CUST002 stats wrong: %+v", cs)
	}

	if _, ok := a.CustomerHistory("UNKNOWN"); ok {
		t.Error("unknown customer should report no history")
	}
}

func TestLanes(t *testing.T) {
	l := NewAnalyzer(testDataset()).Lanes()

	if l.TotalLanes != 2 {
		t.Fatalf("total lanes = %d", l.TotalLanes)
	}
	if l.BestPerformingLanes[0].LanePair != "us_jfk-de_fra" {
		t.Errorf("best lane = %q", l.BestPerformingLanes[0].LanePair)
	}
	if l.WorstPerformingLanes[0].LanePair != "us_lax-cn_sha" {
		t.Errorf("worst lane = %q", l.WorstPerformingLanes[0].LanePair)
	}
	if l.HighVolumeLanes[0].TotalQuotes != 3 {
		t.Errorf("high volume lane quotes = %d", l.HighVolumeLanes[0].TotalQuotes)
	}

	// jfk-fra is 3/3 = 1.0 (high), lax-sha is 0/2 = 0 (low).
	want := LaneTierCounts{HighAcceptanceLanes: 1, LowAcceptanceLanes: 1}
	if l.AcceptanceTiers != want {
		t.Errorf("tiers = %+v, want %+v", l.AcceptanceTiers, want)
	}
}

func TestShipmentTypes(t *testing.T) {
	s := NewAnalyzer(testDataset()).ShipmentTypes()

	if len(s.Performance) != 2 {
		t.Fatalf("expected 2 shipment types, got %d", len(s.Performance))
	}
	if s.Best == nil || s.Best.Type != "air" {
		t.Errorf("best shipment type = %+v", s.Best)
	}
	if s.MostPopular == nil || s.MostPopular.Type != "air" || s.MostPopular.TotalQuotes != 3 {
		t.Errorf("most popular = %+v", s.MostPopular)
	}
}

func TestTemporal(t *testing.T) {
	tp := NewAnalyzer(testDataset()).Temporal()

	if len(tp.MonthlyTrends) != 1 || tp.MonthlyTrends[0].Period != "2024-01" {
		t.Fatalf("monthly trends wrong: %+v", tp.MonthlyTrends)
	}
	if tp.MonthlyTrends[0].AcceptanceRate != 0.6 {
		t.Errorf("monthly rate = %v", tp.MonthlyTrends[0].AcceptanceRate)
	}
	if len(tp.QuarterlyTrends) != 1 || tp.QuarterlyTrends[0].Period != "2024Q1" {
		t.Errorf("quarterly trends wrong: %+v", tp.QuarterlyTrends)
	}
	if tp.SeasonalPatterns.BestMonth != "2024-01" {
		t.Errorf("best month = %q", tp.SeasonalPatterns.BestMonth)
	}
}

func TestReportIncludesAllSections(t *testing.T) {
	r := NewAnalyzer(testDataset()).Report()

	if r.Overall.TotalQuotes != 5 {
		t.Error("overall section missing")
	}
	if r.Customers.TotalCustomers != 2 {
		t.Error("customer section missing")
	}
	if r.Lanes.TotalLanes != 2 {
		t.Error("lane section missing")
	}
	if len(r.Sensitivity.Buckets) != 7 {
		t.Error("sensitivity section missing")
	}
	if r.GeneratedAt == "" {
		t.Error("report should carry a generation timestamp")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testDataset())
	if s.TotalRecords != 5 || s.TotalCustomers != 2 || s.TotalLanePairs != 2 {
		t.Errorf("summary counts wrong: %+v", s)
	}
	if s.AcceptanceRate != 0.6 {
		t.Errorf("summary rate = %v", s.AcceptanceRate)
	}
	if s.ShipmentTypes["air"] != 3 || s.ShipmentTypes["ofr fcl"] != 2 {
		t.Errorf("shipment breakdown wrong: %v", s.ShipmentTypes)
	}

	if z := Summarize(nil); z.TotalRecords != 0 {
		t.Errorf("nil dataset should summarize to zero: %+v", z)
	}
}
