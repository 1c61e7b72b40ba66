package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"auctionpricer/internal/models"
)

type fakeSource struct {
	findID     string
	findErr    error
	prices     *models.PricePageResult
	pricesErr  error
	findCalls  int
	fetchCalls int
}

func (f *fakeSource) FindSubModelID(ctx context.Context, manufacturer, model string) (string, error) {
	f.findCalls++
	return f.findID, f.findErr
}

func (f *fakeSource) FetchSubModelPrices(ctx context.Context, subModelID string, year int) (*models.PricePageResult, error) {
	f.fetchCalls++
	return f.prices, f.pricesErr
}

func (f *fakeSource) BaseURL() string { return "https://pricelist.example" }

func fixedResolver(source PriceListSource) *Resolver {
	r := NewResolver(source)
	r.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func picantoRecord() *models.VehicleRecord {
	return &models.VehicleRecord{
		Manufacturer: "קיה",
		Model:        "פיקנטו",
		Year:         2020,
		Mileage:      75311,
		HandsCount:   4,
		Condition:    "טוב",
	}
}

func TestResolveByDetails(t *testing.T) {
	source := &fakeSource{
		findID: "110436",
		prices: &models.PricePageResult{BasePrice: 95000},
	}
	r := fixedResolver(source)

	estimate, err := r.Resolve(context.Background(), picantoRecord())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if estimate.Source != models.SourceByDetails {
		t.Fatalf("Source = %s, want by_details", estimate.Source)
	}
	if estimate.BasePrice != 95000 {
		t.Fatalf("BasePrice = %v, want 95000", estimate.BasePrice)
	}
	// Weighted is derived from base through the depreciation calculator.
	if estimate.WeightedPrice <= 0 || estimate.WeightedPrice >= estimate.BasePrice {
		t.Fatalf("WeightedPrice = %v, expected positive and below base", estimate.WeightedPrice)
	}
	if estimate.PriceRange == nil || estimate.PriceRange.Min > estimate.WeightedPrice ||
		estimate.PriceRange.Max < estimate.WeightedPrice {
		t.Fatalf("range %+v does not bracket weighted %v", estimate.PriceRange, estimate.WeightedPrice)
	}
}

func TestResolveCachesByFingerprint(t *testing.T) {
	source := &fakeSource{
		findID: "110436",
		prices: &models.PricePageResult{BasePrice: 95000},
	}
	r := fixedResolver(source)

	first, err := r.Resolve(context.Background(), picantoRecord())
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	second, err := r.Resolve(context.Background(), picantoRecord())
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if first != second {
		t.Fatal("expected identical cached estimate")
	}
	if source.findCalls != 1 || source.fetchCalls != 1 {
		t.Fatalf("expected one network pass, got find=%d fetch=%d", source.findCalls, source.fetchCalls)
	}

	if status := r.Status(); status.Entries != 1 {
		t.Fatalf("cache entries = %d, want 1", status.Entries)
	}
}

func TestResolveCacheExpires(t *testing.T) {
	source := &fakeSource{
		findID: "110436",
		prices: &models.PricePageResult{BasePrice: 95000},
	}
	r := NewResolver(source)
	current := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }

	if _, err := r.Resolve(context.Background(), picantoRecord()); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	current = current.Add(EstimateCacheTTL + time.Minute)
	if _, err := r.Resolve(context.Background(), picantoRecord()); err != nil {
		t.Fatalf("Resolve after expiry failed: %v", err)
	}
	if source.fetchCalls != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", source.fetchCalls)
	}
}

func TestResolveFallbackTableOnIndexFailure(t *testing.T) {
	// The index scrape fails but the static table knows this sub-model,
	// so the fetch still happens.
	source := &fakeSource{
		findErr: errors.New("index unreachable"),
		prices:  &models.PricePageResult{BasePrice: 90000},
	}
	r := fixedResolver(source)

	estimate, err := r.Resolve(context.Background(), picantoRecord())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if estimate.Source != models.SourceByDetails {
		t.Fatalf("Source = %s, want by_details", estimate.Source)
	}
	if source.fetchCalls != 1 {
		t.Fatalf("expected fetch through fallback id, got %d", source.fetchCalls)
	}
}

func TestResolveBotBlockDelegatesAndEstimates(t *testing.T) {
	source := &fakeSource{
		findID:    "110436",
		pricesErr: ErrBotProtection,
	}
	r := fixedResolver(source)

	var delegated *models.VehicleRecord
	r.SetCalculatorDelegate(func(record *models.VehicleRecord) { delegated = record })

	estimate, err := r.Resolve(context.Background(), picantoRecord())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if delegated == nil {
		t.Fatal("expected calculator delegation on bot block")
	}
	if estimate.Source != models.SourceMarketEstimation {
		t.Fatalf("Source = %s, want market_estimation", estimate.Source)
	}
	if !estimate.HasPrice() {
		t.Fatal("market estimate must carry prices")
	}
}

func TestResolveMarketEstimateValues(t *testing.T) {
	source := &fakeSource{
		findErr:   errors.New("down"),
		pricesErr: errors.New("down"),
	}
	r := fixedResolver(source)

	record := picantoRecord()
	estimate, err := r.Resolve(context.Background(), record)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if estimate.Source != models.SourceMarketEstimation {
		t.Fatalf("Source = %s, want market_estimation", estimate.Source)
	}
	// 95000 new price, 0.92^5 for a 2020 model in 2025.
	if estimate.BasePrice < 62000 || estimate.BasePrice > 63000 {
		t.Fatalf("BasePrice = %v, want about 62600", estimate.BasePrice)
	}
	if estimate.WeightedPrice >= estimate.BasePrice {
		t.Fatalf("weighted %v should be below base %v", estimate.WeightedPrice, estimate.BasePrice)
	}
}

func TestResolveExhaustionReturnsPriceUnavailable(t *testing.T) {
	source := &fakeSource{
		findErr:   errors.New("down"),
		pricesErr: errors.New("down"),
	}
	r := fixedResolver(source)

	record := &models.VehicleRecord{Manufacturer: "לאדה", Model: "נירוסטה", Year: 2015}
	_, err := r.Resolve(context.Background(), record)
	var unavailable *PriceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected PriceUnavailableError, got %v", err)
	}
}

func TestResolveRejectsUnusableRecord(t *testing.T) {
	r := fixedResolver(&fakeSource{})
	_, err := r.Resolve(context.Background(), &models.VehicleRecord{Mileage: 50000})
	var unavailable *PriceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected PriceUnavailableError for unusable record, got %v", err)
	}
}

func TestResolveRangeFromBareRange(t *testing.T) {
	source := &fakeSource{
		findID: "110436",
		prices: &models.PricePageResult{PriceRange: &models.PriceRange{Min: 50000, Max: 70000}},
	}
	r := fixedResolver(source)

	estimate, err := r.Resolve(context.Background(), picantoRecord())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if estimate.WeightedPrice != 60000 {
		t.Fatalf("WeightedPrice = %v, want midpoint 60000", estimate.WeightedPrice)
	}
}
