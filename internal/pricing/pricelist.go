package pricing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"auctionpricer/internal/cache"
	"auctionpricer/internal/models"
)

// ErrBotProtection marks a fetch that returned the site's bot-protection
// interstitial instead of content. The caller must not retry the same source;
// it short-circuits to the next resolution phase.
var ErrBotProtection = errors.New("price list served bot protection page")

// botProtectionMarkers are substrings of the interstitial the site serves to
// suspected automation.
var botProtectionMarkers = []string{
	"validate.perfdrive.com",
	"ShieldSquare Captcha",
}

const (
	defaultPriceListBaseURL = "https://www.yad2.co.il"
	fetchTimeout            = 15 * time.Second
	priceListUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Plausibility bounds rejecting page noise masquerading as a price.
	minPlausiblePrice = 10000
	maxPlausiblePrice = 1000000
	// Tighter band for unlabeled currency tokens, the last-resort pattern.
	minGenericPrice = 20000
	maxGenericPrice = 500000
)

// PriceListClient fetches and parses the price-list site.
type PriceListClient struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter

	mu          sync.Mutex
	subModelIDs map[string]string
}

// NewPriceListClient creates a client for the given base URL (empty selects
// the production site). Outbound requests go through a politeness limiter.
// Sub-model ids discovered by earlier runs are reloaded from the on-disk
// cache.
func NewPriceListClient(baseURL string) *PriceListClient {
	if baseURL == "" {
		baseURL = defaultPriceListBaseURL
	}
	ids, ok := cache.LoadFromCache()
	if !ok {
		ids = make(map[string]string)
	}
	return &PriceListClient{
		http:        &http.Client{Timeout: fetchTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		limiter:     rate.NewLimiter(rate.Every(2*time.Second), 1),
		subModelIDs: ids,
	}
}

// BaseURL exposes the configured site root.
func (c *PriceListClient) BaseURL() string { return c.baseURL }

var subModelHref = regexp.MustCompile(`/price-list/sub-model/(\d+)`)

// FindSubModelID returns the sub-model id for a manufacturer and model,
// scraping the price-list index when the id is not already cached.
func (c *PriceListClient) FindSubModelID(ctx context.Context, manufacturer, model string) (string, error) {
	key := tableKey(manufacturer, model)
	c.mu.Lock()
	if id, ok := c.subModelIDs[key]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	body, err := c.fetch(ctx, c.baseURL+"/price-list")
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse price list index: %w", err)
	}

	manuSlug := CanonicalManufacturer(manufacturer)
	modelSlug := CanonicalModel(model)

	var found string
	doc.Find("a[href*='/price-list/']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		text := strings.ToLower(sel.Text())
		hrefLower := strings.ToLower(href)

		matchesModel := strings.Contains(hrefLower, modelSlug) || strings.Contains(text, modelSlug) ||
			strings.Contains(sel.Text(), model)
		matchesManu := strings.Contains(hrefLower, manuSlug) || strings.Contains(text, manuSlug) ||
			strings.Contains(sel.Text(), manufacturer)
		if !matchesModel || !matchesManu {
			return true
		}

		if m := subModelHref.FindStringSubmatch(href); m != nil {
			found = m[1]
			return false
		}
		return true
	})

	if found == "" {
		return "", fmt.Errorf("no sub-model link for %s %s on price list index", manufacturer, model)
	}

	c.mu.Lock()
	c.subModelIDs[key] = found
	snapshot := make(map[string]string, len(c.subModelIDs))
	for k, v := range c.subModelIDs {
		snapshot[k] = v
	}
	c.mu.Unlock()
	if err := cache.SaveToCache(snapshot); err != nil {
		log.Printf("failed to persist sub-model cache: %v", err)
	}

	return found, nil
}

// FetchSubModelPrices loads a sub-model calculator page and parses whatever
// price information it exposes without running the calculator.
func (c *PriceListClient) FetchSubModelPrices(ctx context.Context, subModelID string, year int) (*models.PricePageResult, error) {
	body, err := c.fetch(ctx, SubModelURL(c.baseURL, subModelID, year))
	if err != nil {
		return nil, err
	}

	result := ParsePriceText(body)
	if result == nil {
		return nil, fmt.Errorf("no price data on sub-model page %s/%d", subModelID, year)
	}
	return result, nil
}

func (c *PriceListClient) fetch(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", priceListUserAgent)
	req.Header.Set("Accept-Language", "he-IL,he;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	text := string(body)
	if IsBotProtected(text) {
		return "", ErrBotProtection
	}
	return text, nil
}

// IsBotProtected reports whether page content is the bot-protection
// interstitial rather than real content.
func IsBotProtected(text string) bool {
	for _, marker := range botProtectionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

var (
	basePricePattern     = regexp.MustCompile(`מחיר\s*בסיס[:\s]*₪?\s*(\d{1,3}(?:,\d{3})*)`)
	weightedPricePattern = regexp.MustCompile(`מחיר\s*(?:מחירון\s*)?משוקלל[:\s]*₪?\s*(\d{1,3}(?:,\d{3})*)`)
	rangePatterns        = []*regexp.Regexp{
		regexp.MustCompile(`טווח[^\d₪]*₪?\s*(\d{1,3}(?:,\d{3})+)\s*[-–]\s*₪?\s*(\d{1,3}(?:,\d{3})+)`),
		regexp.MustCompile(`מינימום[:\s]*₪?\s*(\d{1,3}(?:,\d{3})*)\D*?מקסימום[:\s]*₪?\s*(\d{1,3}(?:,\d{3})*)`),
		regexp.MustCompile(`₪\s*(\d{1,3}(?:,\d{3})+)\s*[-–]\s*₪\s*(\d{1,3}(?:,\d{3})+)`),
	}
	genericPricePattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+)\s*₪|₪\s*(\d{1,3}(?:,\d{3})+)`)
)

// ParsePriceText extracts price information from page text. Labeled base,
// weighted and range patterns are tried first; when none hit, unlabeled
// currency tokens inside the generic plausibility band are collected and the
// median becomes the weighted price. Returns nil when nothing plausible is
// found.
func ParsePriceText(text string) *models.PricePageResult {
	result := &models.PricePageResult{}

	if m := basePricePattern.FindStringSubmatch(text); m != nil {
		if price, ok := plausiblePrice(m[1], minPlausiblePrice, maxPlausiblePrice); ok {
			result.BasePrice = price
		}
	}

	if m := weightedPricePattern.FindStringSubmatch(text); m != nil {
		if price, ok := plausiblePrice(m[1], minPlausiblePrice, maxPlausiblePrice); ok {
			result.WeightedPrice = price
		}
	}

	for _, pattern := range rangePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		min, okMin := plausiblePrice(m[1], minPlausiblePrice, maxPlausiblePrice)
		max, okMax := plausiblePrice(m[2], minPlausiblePrice, maxPlausiblePrice)
		if okMin && okMax && max > min {
			result.PriceRange = &models.PriceRange{Min: min, Max: max}
			break
		}
	}

	if result.BasePrice > 0 || result.WeightedPrice > 0 || result.PriceRange != nil {
		return result
	}

	// Last resort: any currency amount in the generic band.
	var prices []float64
	for _, m := range genericPricePattern.FindAllStringSubmatch(text, -1) {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		if price, ok := plausiblePrice(token, minGenericPrice, maxGenericPrice); ok {
			prices = append(prices, price)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	sort.Float64s(prices)
	result.WeightedPrice = prices[len(prices)/2]
	result.PriceRange = &models.PriceRange{Min: prices[0], Max: prices[len(prices)-1]}
	return result
}

func plausiblePrice(token string, min, max float64) (float64, bool) {
	n, ok := parsePriceNumber(token)
	if !ok || n < min || n > max {
		return 0, false
	}
	return n, true
}

func parsePriceNumber(token string) (float64, bool) {
	clean := strings.ReplaceAll(token, ",", "")
	var n float64
	_, err := fmt.Sscanf(clean, "%f", &n)
	if err != nil {
		return 0, false
	}
	return n, true
}
