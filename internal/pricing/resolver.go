package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"auctionpricer/internal/models"
)

// EstimateCacheTTL bounds how long a resolved estimate is served from memory.
const EstimateCacheTTL = 30 * time.Minute

// rangeSpread is the ±fraction used when a range has to be derived from a
// single known price.
const rangeSpread = 0.15

// PriceListSource is the live price-list surface the resolver talks to,
// narrowed for testability.
type PriceListSource interface {
	FindSubModelID(ctx context.Context, manufacturer, model string) (string, error)
	FetchSubModelPrices(ctx context.Context, subModelID string, year int) (*models.PricePageResult, error)
	BaseURL() string
}

// PriceUnavailableError reports that every resolution phase failed. The cause
// is the most informative phase error seen, when one exists.
type PriceUnavailableError struct {
	Cause error
}

func (e *PriceUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("price unavailable: %v", e.Cause)
	}
	return "price unavailable"
}

func (e *PriceUnavailableError) Unwrap() error { return e.Cause }

type cachedEstimate struct {
	estimate *models.PriceEstimate
	storedAt time.Time
}

// Resolver turns a vehicle record into a price estimate by walking the
// resolution phases in order: cache, direct lookup, lookup by details,
// calculator delegation, market estimation. Phase errors never escape; they
// log and fall through to the next phase.
type Resolver struct {
	source   PriceListSource
	delegate func(*models.VehicleRecord)
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cachedEstimate
}

// NewResolver creates a resolver over the given price-list source.
func NewResolver(source PriceListSource) *Resolver {
	return &Resolver{
		source: source,
		now:    time.Now,
		cache:  make(map[string]cachedEstimate),
	}
}

// SetCalculatorDelegate installs the fire-and-forget hook invoked when
// automated scraping is blocked and the calculator page should be driven
// instead. The delegate's result arrives asynchronously, not through Resolve.
func (r *Resolver) SetCalculatorDelegate(fn func(*models.VehicleRecord)) {
	r.delegate = fn
}

// Resolve walks the phases for one record. The returned estimate is cached by
// the record's fingerprint for EstimateCacheTTL; a second call inside the
// window returns the identical estimate without touching the network.
func (r *Resolver) Resolve(ctx context.Context, record *models.VehicleRecord) (*models.PriceEstimate, error) {
	if !record.Usable() {
		return nil, &PriceUnavailableError{Cause: errors.New("record has neither vehicle number nor manufacturer/model/year")}
	}

	fingerprint := record.Fingerprint()
	if estimate := r.cachedFor(fingerprint); estimate != nil {
		return estimate, nil
	}

	var lastErr error

	// Phase: direct lookup by vehicle number. Extension point; produces no
	// result today and falls through.
	if record.VehicleNumber != "" {
		estimate, err := r.lookupByVehicleNumber(ctx, record)
		if err != nil {
			log.Printf("direct lookup failed for %s: %v", record.VehicleNumber, err)
			lastErr = err
		} else if estimate != nil {
			r.store(fingerprint, estimate)
			return estimate, nil
		}
	}

	// Phase: lookup by manufacturer/model/year against the live site.
	botBlocked := false
	estimate, err := r.resolveByDetails(ctx, record)
	if err != nil {
		if errors.Is(err, ErrBotProtection) {
			botBlocked = true
		}
		log.Printf("lookup by details failed for %s: %v", fingerprint, err)
		lastErr = err
	} else if estimate != nil {
		r.store(fingerprint, estimate)
		return estimate, nil
	}

	// Phase: calculator delegation. Fire-and-forget; the driven page reports
	// back through the correlator, so resolution continues to the next phase
	// for an immediate answer.
	if botBlocked && r.delegate != nil {
		r.delegate(record)
	}

	// Phase: static market estimation.
	estimate, err = r.marketEstimate(record)
	if err != nil {
		log.Printf("market estimation failed for %s: %v", fingerprint, err)
		if lastErr == nil {
			lastErr = err
		}
	} else if estimate != nil {
		r.store(fingerprint, estimate)
		return estimate, nil
	}

	return nil, &PriceUnavailableError{Cause: lastErr}
}

// lookupByVehicleNumber is the direct-by-identifier phase. The price-list
// site has no public registration-number endpoint, so this stays an extension
// point that yields nothing.
func (r *Resolver) lookupByVehicleNumber(ctx context.Context, record *models.VehicleRecord) (*models.PriceEstimate, error) {
	return nil, nil
}

func (r *Resolver) resolveByDetails(ctx context.Context, record *models.VehicleRecord) (*models.PriceEstimate, error) {
	if record.Manufacturer == "" || record.Model == "" || record.Year == 0 {
		return nil, errors.New("manufacturer, model and year are required for details lookup")
	}

	subModelID, err := r.source.FindSubModelID(ctx, record.Manufacturer, record.Model)
	if err != nil {
		fallbackID, ok := LookupSubModelID(record.Manufacturer, record.Model, record.Year)
		if !ok {
			return nil, err
		}
		log.Printf("index scrape failed (%v), using fallback sub-model id %s", err, fallbackID)
		subModelID = fallbackID
	}

	prices, err := r.source.FetchSubModelPrices(ctx, subModelID, record.Year)
	if err != nil {
		return nil, err
	}

	return r.deriveEstimate(record, prices, models.SourceByDetails), nil
}

// deriveEstimate completes a partial price result: when exactly one of base,
// weighted and range is known, the others are derived (weighted from base via
// the depreciation calculator, range as ±15% of whichever price is known,
// weighted from a bare range as its midpoint).
func (r *Resolver) deriveEstimate(record *models.VehicleRecord, prices *models.PricePageResult, source models.PriceSource) *models.PriceEstimate {
	base := prices.BasePrice
	weighted := prices.WeightedPrice
	priceRange := prices.PriceRange

	if weighted == 0 && base > 0 {
		weighted = Adjust(base, r.adjustmentsFor(record))
	}
	if weighted == 0 && priceRange != nil {
		weighted = (priceRange.Min + priceRange.Max) / 2
	}
	if priceRange == nil && weighted > 0 {
		priceRange = rangeAround(weighted)
	}

	return models.NewPriceEstimate(math.Round(base), math.Round(weighted), roundRange(priceRange), source)
}

func (r *Resolver) marketEstimate(record *models.VehicleRecord) (*models.PriceEstimate, error) {
	if record.Manufacturer == "" || record.Model == "" || record.Year == 0 {
		return nil, errors.New("manufacturer, model and year are required for market estimation")
	}

	entry, ok := LookupMarketEntry(record.Manufacturer, record.Model)
	if !ok {
		return nil, fmt.Errorf("no market estimate for %s %s", record.Manufacturer, record.Model)
	}

	age := r.ageOf(record)
	base := entry.NewPrice * math.Pow(entry.YearlyMultiplier, float64(age))
	weighted := Adjust(base, r.adjustmentsFor(record))
	return models.NewPriceEstimate(math.Round(base), math.Round(weighted), rangeAround(weighted), models.SourceMarketEstimation), nil
}

func (r *Resolver) adjustmentsFor(record *models.VehicleRecord) Adjustments {
	return Adjustments{
		Mileage:    record.Mileage,
		AgeYears:   r.ageOf(record),
		HandsCount: record.HandsCount,
		Condition:  record.Condition,
	}
}

func (r *Resolver) ageOf(record *models.VehicleRecord) int {
	if record.Year == 0 {
		return 0
	}
	age := r.now().Year() - record.Year
	if age < 0 {
		return 0
	}
	return age
}

func rangeAround(price float64) *models.PriceRange {
	return &models.PriceRange{
		Min: math.Round(price * (1 - rangeSpread)),
		Max: math.Round(price * (1 + rangeSpread)),
	}
}

func roundRange(r *models.PriceRange) *models.PriceRange {
	if r == nil {
		return nil
	}
	return &models.PriceRange{Min: math.Round(r.Min), Max: math.Round(r.Max)}
}

func (r *Resolver) cachedFor(fingerprint string) *models.PriceEstimate {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[fingerprint]
	if !ok {
		return nil
	}
	if r.now().Sub(entry.storedAt) > EstimateCacheTTL {
		delete(r.cache, fingerprint)
		return nil
	}
	return entry.estimate
}

func (r *Resolver) store(fingerprint string, estimate *models.PriceEstimate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[fingerprint] = cachedEstimate{estimate: estimate, storedAt: r.now()}
}

// CacheStatus describes the in-memory estimate cache for diagnostics.
type CacheStatus struct {
	Entries int           `json:"entries"`
	TTL     time.Duration `json:"ttl"`
}

// Status reports the current cache size.
func (r *Resolver) Status() CacheStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return CacheStatus{Entries: len(r.cache), TTL: EstimateCacheTTL}
}
