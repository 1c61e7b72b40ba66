package scraper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"

	"auctionpricer/internal/models"
	"auctionpricer/internal/pricing"
)

const (
	// resultWaitTimeout bounds how long we watch the page for the calculated
	// prices to appear after triggering the calculation.
	resultWaitTimeout = 10 * time.Second
	resultPollEvery   = 500 * time.Millisecond

	navigationTimeout = 20 * time.Second
)

// mileageSelectors locate the mileage input on the calculator form, in
// priority order.
var mileageSelectors = []string{
	`input[placeholder*='ק"מ']`,
	`input[placeholder*='קילומטראז']`,
	`input[name*='km']`,
	`input[id*='km']`,
	`input[type='number']`,
}

// handsSelectors locate the owner-count dropdown.
var handsSelectors = []string{
	`select[name*='hand']`,
	`select[id*='hand']`,
	`select[name*='yad']`,
	`select`,
}

// calculateButtonLabel is the exact label of the button that runs the
// calculation. The page also carries a "לשקלול מחיר" navigation link, so the
// match must be exact.
const calculateButtonLabel = "שקלול מחיר"

// CalculatorScraper drives the price-list calculator page with a headless
// browser. Pages stay open between calls so a fill request can be re-sent to
// an existing page instead of opening a fresh one.
type CalculatorScraper struct {
	baseURL  string
	headless bool

	mu      sync.Mutex
	browser *rod.Browser
	pages   map[string]*rod.Page
	nextID  int
}

// NewCalculatorScraper creates a driver for the price-list site at baseURL.
func NewCalculatorScraper(baseURL string, headless bool) *CalculatorScraper {
	return &CalculatorScraper{
		baseURL:  strings.TrimRight(baseURL, "/"),
		headless: headless,
		pages:    make(map[string]*rod.Page),
	}
}

// Close shuts the browser and forgets all open pages.
func (s *CalculatorScraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	s.pages = make(map[string]*rod.Page)
}

func (s *CalculatorScraper) ensureBrowser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		return s.browser, nil
	}
	browser, err := launchBrowser(s.headless)
	if err != nil {
		return nil, err
	}
	s.browser = browser
	return browser, nil
}

// OpenPage loads the calculator page for the record's sub-model and returns a
// handle for later fill requests. The sub-model id comes from the static
// table; records outside it cannot be driven.
func (s *CalculatorScraper) OpenPage(ctx context.Context, record *models.VehicleRecord) (string, error) {
	subModelID, ok := pricing.LookupSubModelID(record.Manufacturer, record.Model, record.Year)
	if !ok {
		return "", fmt.Errorf("no known sub-model id for %s %s %d", record.Manufacturer, record.Model, record.Year)
	}

	browser, err := s.ensureBrowser()
	if err != nil {
		return "", err
	}

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("failed to create stealth page: %w", err)
	}
	page = page.Context(ctx).Timeout(navigationTimeout)

	url := pricing.SubModelURL(s.baseURL, subModelID, record.Year)
	if err := page.Navigate(url); err != nil {
		page.Close()
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return "", fmt.Errorf("calculator page failed to load: %w", err)
	}

	text, err := pageText(page)
	if err == nil && pricing.IsBotProtected(text) {
		page.Close()
		return "", pricing.ErrBotProtection
	}

	s.mu.Lock()
	s.nextID++
	handle := fmt.Sprintf("calculator-%d", s.nextID)
	s.pages[handle] = page
	s.mu.Unlock()

	return handle, nil
}

// FillAndCalculate fills the mileage and owner-count fields on an open page,
// triggers the calculation and waits (bounded) for prices to appear.
func (s *CalculatorScraper) FillAndCalculate(ctx context.Context, handle string, record *models.VehicleRecord) (*models.PricePageResult, error) {
	s.mu.Lock()
	page, ok := s.pages[handle]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no open calculator page for handle %s", handle)
	}
	page = page.Context(ctx)

	before, _ := pageText(page)

	if record.Mileage > 0 {
		if err := s.fillMileage(page, record.Mileage); err != nil {
			return nil, err
		}
	}
	if record.HandsCount > 0 {
		if err := s.selectHands(page, record.HandsCount); err != nil {
			// The dropdown is optional on some sub-model pages.
			fmt.Printf("owner-count dropdown not filled: %v\n", err)
		}
	}

	if err := s.clickCalculate(page); err != nil {
		return nil, err
	}

	return s.waitForResult(ctx, page, before)
}

func (s *CalculatorScraper) fillMileage(page *rod.Page, mileage int) error {
	for _, selector := range mileageSelectors {
		el, err := page.Element(selector)
		if err != nil || el == nil {
			continue
		}
		// Typing over a full selection replaces any prefilled value.
		if err := el.SelectAllText(); err != nil {
			return fmt.Errorf("failed to focus mileage input: %w", err)
		}
		if err := el.Input(strconv.Itoa(mileage)); err != nil {
			return fmt.Errorf("failed to type mileage: %w", err)
		}
		// React-style forms only notice the value through these events.
		_, err = el.Eval(`() => {
			this.dispatchEvent(new Event('input', {bubbles: true}));
			this.dispatchEvent(new Event('change', {bubbles: true}));
		}`)
		if err != nil {
			return fmt.Errorf("failed to dispatch input events: %w", err)
		}
		return nil
	}
	return errors.New("mileage input not found on calculator page")
}

func (s *CalculatorScraper) selectHands(page *rod.Page, hands int) error {
	target := strconv.Itoa(hands)
	for _, selector := range handsSelectors {
		elements, err := page.Elements(selector)
		if err != nil {
			continue
		}
		for _, el := range elements {
			options, err := el.Elements("option")
			if err != nil {
				continue
			}
			for _, option := range options {
				text, err := option.Text()
				if err != nil || !strings.Contains(text, target) {
					continue
				}
				value, err := option.Attribute("value")
				if err != nil || value == nil {
					continue
				}
				_, err = el.Eval(`(v) => {
					this.value = v;
					this.dispatchEvent(new Event('change', {bubbles: true}));
				}`, *value)
				if err != nil {
					return fmt.Errorf("failed to select owner count: %w", err)
				}
				return nil
			}
		}
	}
	return fmt.Errorf("no dropdown option for %d owners", hands)
}

func (s *CalculatorScraper) clickCalculate(page *rod.Page) error {
	buttons, err := page.Elements("button")
	if err != nil {
		return fmt.Errorf("failed to enumerate buttons: %w", err)
	}
	for _, button := range buttons {
		text, err := button.Text()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == calculateButtonLabel {
			if err := button.Click("left", 1); err != nil {
				return fmt.Errorf("failed to click calculate button: %w", err)
			}
			return nil
		}
	}
	return errors.New("calculate button not found on calculator page")
}

// waitForResult polls the page text until it yields prices that differ from
// the pre-calculation state, giving up after the wait timeout.
func (s *CalculatorScraper) waitForResult(ctx context.Context, page *rod.Page, before string) (*models.PricePageResult, error) {
	baseline := pricing.ParsePriceText(before)

	deadline := time.Now().Add(resultWaitTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(resultPollEvery):
		}

		text, err := pageText(page)
		if err != nil {
			continue
		}
		result := pricing.ParsePriceText(text)
		if result == nil {
			continue
		}
		if baseline != nil && result.BasePrice == baseline.BasePrice &&
			result.WeightedPrice == baseline.WeightedPrice {
			continue
		}
		return result, nil
	}
	return nil, errors.New("calculation produced no new prices before timeout")
}

func pageText(page *rod.Page) (string, error) {
	obj, err := page.Eval(`() => document.body.innerText`)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}
