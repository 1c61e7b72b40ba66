package correlator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"auctionpricer/internal/models"
	"auctionpricer/internal/pricing"
	"auctionpricer/internal/store"
)

const (
	// RecordFreshness is how long a stored record stays current for display
	// and on-demand resolution.
	RecordFreshness = 5 * time.Minute
	// processCooldown suppresses re-processing of the same vehicle.
	processCooldown = 5 * time.Second
	// calculatorOpenCooldown suppresses opening a second calculator page;
	// inside the window the existing page is reused and re-filled.
	calculatorOpenCooldown = 10 * time.Second

	// Result delivery to the shared store retries a bounded number of times
	// with fixed backoff, then gives up silently.
	deliveryAttempts = 3
	deliveryBackoff  = 500 * time.Millisecond

	calculatorRunTimeout = 45 * time.Second
)

// ErrDuplicate reports a message suppressed by a cooldown window.
var ErrDuplicate = errors.New("duplicate message inside cooldown window")

// ErrOpenInProgress reports that a calculator-open sequence is already
// running.
var ErrOpenInProgress = errors.New("calculator open already in progress")

// CalculatorDriver drives the price-list calculator page. OpenPage loads the
// sub-model page for the record and returns an opaque page handle;
// FillAndCalculate populates the form, triggers the calculation and waits
// (bounded) for the resulting prices.
type CalculatorDriver interface {
	OpenPage(ctx context.Context, record *models.VehicleRecord) (handle string, err error)
	FillAndCalculate(ctx context.Context, handle string, record *models.VehicleRecord) (*models.PricePageResult, error)
}

// Coordinator owns all cross-page coordination state: the most recent record
// and estimate in the shared store, the dedup cooldowns, and the single
// in-flight calculator sequence. Message arrival order between the page
// contexts is not guaranteed, so every handler merges idempotently.
type Coordinator struct {
	store    *store.Store
	resolver *pricing.Resolver
	driver   CalculatorDriver
	now      func() time.Time

	mu                 sync.Mutex
	lastFingerprint    string
	lastProcessedAt    time.Time
	lastCalculatorOpen time.Time
	calculatorHandle   string
	openInProgress     bool
}

// New wires a coordinator over the shared store and resolver. The driver may
// be nil, which disables calculator delegation.
func New(st *store.Store, resolver *pricing.Resolver, driver CalculatorDriver) *Coordinator {
	c := &Coordinator{
		store:    st,
		resolver: resolver,
		driver:   driver,
		now:      time.Now,
	}
	if driver != nil {
		resolver.SetCalculatorDelegate(func(record *models.VehicleRecord) {
			if _, _, err := c.OpenCalculator(context.Background(), record); err != nil && !errors.Is(err, ErrDuplicate) && !errors.Is(err, ErrOpenInProgress) {
				log.Printf("calculator delegation failed: %v", err)
			}
		})
	}
	return c
}

// HandleVehicleExtracted persists a freshly extracted record and kicks off
// price resolution. A record with the same fingerprint arriving inside the
// processing cooldown is acknowledged but ignored.
func (c *Coordinator) HandleVehicleExtracted(record *models.VehicleRecord) error {
	fingerprint := record.Fingerprint()

	c.mu.Lock()
	if fingerprint == c.lastFingerprint && c.now().Sub(c.lastProcessedAt) < processCooldown {
		c.mu.Unlock()
		return ErrDuplicate
	}
	c.lastFingerprint = fingerprint
	c.lastProcessedAt = c.now()
	c.mu.Unlock()

	if err := c.store.Set(store.KeyCurrentVehicleRecord, record); err != nil {
		return fmt.Errorf("failed to persist record: %w", err)
	}

	if record.Usable() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), calculatorRunTimeout)
			defer cancel()
			if _, err := c.ResolveAndStore(ctx, record); err != nil {
				log.Printf("background resolution failed for %s: %v", fingerprint, err)
			}
		}()
	}
	return nil
}

// ResolveAndStore resolves a price for the record and persists the outcome:
// the estimate on success, the failure message under the price-error key
// otherwise.
func (c *Coordinator) ResolveAndStore(ctx context.Context, record *models.VehicleRecord) (*models.PriceEstimate, error) {
	estimate, err := c.resolver.Resolve(ctx, record)
	if err != nil {
		if storeErr := c.store.Set(store.KeyPriceError, err.Error()); storeErr != nil {
			log.Printf("failed to persist price error: %v", storeErr)
		}
		return nil, err
	}

	if err := c.store.Set(store.KeyCurrentPriceEstimate, estimate); err != nil {
		return nil, fmt.Errorf("failed to persist estimate: %w", err)
	}
	if err := c.store.Delete(store.KeyPriceError); err != nil {
		log.Printf("failed to clear price error: %v", err)
	}
	return estimate, nil
}

// ResolvePrice resolves a price for the given record, or for the current
// stored record when nil.
func (c *Coordinator) ResolvePrice(ctx context.Context, record *models.VehicleRecord) (*models.PriceEstimate, error) {
	if record == nil {
		current, err := c.CurrentRecord()
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, errors.New("no current vehicle record")
		}
		record = current
	}
	return c.ResolveAndStore(ctx, record)
}

// HandlePriceResult stores an estimate fragment reported by the price-list
// page, overriding any prior estimate. Fragments may arrive before or after
// the record they belong to; the store write is unconditional.
func (c *Coordinator) HandlePriceResult(result *models.PricePageResult) error {
	weighted := result.WeightedPrice
	if weighted == 0 && result.PriceRange != nil {
		weighted = (result.PriceRange.Min + result.PriceRange.Max) / 2
	}
	estimate := models.NewPriceEstimate(result.BasePrice, weighted, result.PriceRange, models.SourceCalculator)
	if !estimate.HasPrice() {
		return errors.New("price result carries no prices")
	}

	if err := c.store.Set(store.KeyCurrentPriceEstimate, estimate); err != nil {
		return fmt.Errorf("failed to persist calculator result: %w", err)
	}
	if err := c.store.Delete(store.KeyPriceError); err != nil {
		log.Printf("failed to clear price error: %v", err)
	}
	return nil
}

// OpenCalculator starts (or reuses) a calculator-page sequence for the
// record. Inside the cooldown window the already-open page is reused and a
// fill request is re-sent instead of opening another page; a single in-flight
// flag prevents two sequences racing.
func (c *Coordinator) OpenCalculator(ctx context.Context, record *models.VehicleRecord) (handle string, reused bool, err error) {
	if c.driver == nil {
		return "", false, errors.New("no calculator driver configured")
	}

	c.mu.Lock()
	if c.openInProgress {
		c.mu.Unlock()
		return "", false, ErrOpenInProgress
	}
	if c.calculatorHandle != "" && c.now().Sub(c.lastCalculatorOpen) < calculatorOpenCooldown {
		handle = c.calculatorHandle
		c.mu.Unlock()

		fill := &models.PendingFillRequest{Record: record, TargetHandle: handle, Timestamp: c.now().UnixMilli()}
		if err := c.store.Set(store.KeyPendingFillRequest, fill); err != nil {
			return "", false, fmt.Errorf("failed to persist fill request: %w", err)
		}
		go c.runFill(handle, record)
		return handle, true, nil
	}
	c.openInProgress = true
	c.lastCalculatorOpen = c.now()
	c.mu.Unlock()

	go c.runOpen(record)
	return "", false, nil
}

func (c *Coordinator) runOpen(record *models.VehicleRecord) {
	defer func() {
		c.mu.Lock()
		c.openInProgress = false
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), calculatorRunTimeout)
	defer cancel()

	handle, err := c.driver.OpenPage(ctx, record)
	if err != nil {
		log.Printf("failed to open calculator page: %v", err)
		return
	}

	c.mu.Lock()
	c.calculatorHandle = handle
	c.mu.Unlock()

	fill := &models.PendingFillRequest{Record: record, TargetHandle: handle, Timestamp: c.now().UnixMilli()}
	if err := c.store.Set(store.KeyPendingFillRequest, fill); err != nil {
		log.Printf("failed to persist fill request: %v", err)
	}

	c.fillAndDeliver(ctx, handle, record)
}

func (c *Coordinator) runFill(handle string, record *models.VehicleRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), calculatorRunTimeout)
	defer cancel()
	c.fillAndDeliver(ctx, handle, record)
}

func (c *Coordinator) fillAndDeliver(ctx context.Context, handle string, record *models.VehicleRecord) {
	result, err := c.driver.FillAndCalculate(ctx, handle, record)
	if err != nil {
		log.Printf("calculator run produced no result: %v", err)
		return
	}

	// Delivery into the shared store is retried with fixed backoff; after the
	// attempts are exhausted the result is dropped silently and the stale
	// estimate stands.
	for attempt := 0; attempt < deliveryAttempts; attempt++ {
		if err = c.HandlePriceResult(result); err == nil {
			if clearErr := c.store.Delete(store.KeyPendingFillRequest); clearErr != nil {
				log.Printf("failed to clear fill request: %v", clearErr)
			}
			return
		}
		time.Sleep(deliveryBackoff)
	}
	log.Printf("giving up on calculator result delivery: %v", err)
}

// CurrentRecord returns the stored record when it is still inside the
// freshness window, nil otherwise.
func (c *Coordinator) CurrentRecord() (*models.VehicleRecord, error) {
	var record models.VehicleRecord
	storedAt, err := c.store.Get(store.KeyCurrentVehicleRecord, &record)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.now().Sub(storedAt) > RecordFreshness {
		return nil, nil
	}
	return &record, nil
}

// CurrentEstimate returns the stored estimate while it is inside the display
// freshness window, plus any stored resolution error message.
func (c *Coordinator) CurrentEstimate() (*models.PriceEstimate, string, error) {
	var estimate models.PriceEstimate
	storedAt, err := c.store.Get(store.KeyCurrentPriceEstimate, &estimate)
	if err == nil && c.now().Sub(storedAt) > RecordFreshness {
		err = store.ErrNotFound
	}
	if errors.Is(err, store.ErrNotFound) {
		var priceError string
		if _, errErr := c.store.Get(store.KeyPriceError, &priceError); errErr == nil {
			return nil, priceError, nil
		}
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &estimate, "", nil
}
