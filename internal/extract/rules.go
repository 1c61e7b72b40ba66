package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"auctionpricer/internal/models"
)

// A Rule pulls one field value out of raw page text. Rules for a field are
// tried in priority order and the first hit wins; a rule that finds nothing
// reports ok=false and the next one runs.
type Rule struct {
	Name    string
	Extract func(text string) (string, bool)
}

func applyRules(text string, rules []Rule) (string, bool) {
	for _, rule := range rules {
		if value, ok := rule.Extract(text); ok {
			return value, true
		}
	}
	return "", false
}

func capture(pattern *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := pattern.FindStringSubmatch(text)
		if len(m) > 1 && m[1] != "" {
			return m[1], true
		}
		return "", false
	}
}

var (
	// Registration number: labeled patterns first, dashed before plain.
	// A bare 7-8 digit group is the lowest-confidence last resort.
	vehicleNumberRules = []Rule{
		{"labeled-dashed", capture(regexp.MustCompile(`מספר\s*רכב[:\s]*(\d{2,3}-\d{2,3}-\d{2,3})`))},
		{"labeled-plain", capture(regexp.MustCompile(`מספר\s*רכב[:\s]*(\d{7,8})`))},
		{"reversed-label-dashed", capture(regexp.MustCompile(`רכב\s*מספר[:\s]*(\d{2,3}-\d{2,3}-\d{2,3})`))},
		{"reversed-label-plain", capture(regexp.MustCompile(`רכב\s*מספר[:\s]*(\d{7,8})`))},
		{"bare-digits", capture(regexp.MustCompile(`\b(\d{7,8})\b`))},
	}

	mileageRules = []Rule{
		{"km-quoted", capture(regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*ק"מ`))},
		{"km-gershayim", capture(regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*ק״מ`))},
		{"km-latin", capture(regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*)\s*km`))},
		{"odometer-label", capture(regexp.MustCompile(`מד\s*אוץ[:\s]*(\d{1,3}(?:,\d{3})*)`))},
		{"kilometer-word", capture(regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*קילומטר`))},
	}

	engineSizeRules = []Rule{
		{"cc-hebrew", capture(regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*סמ"ק`))},
		{"cc-latin", capture(regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*)\s*cc`))},
		{"engine-label", capture(regexp.MustCompile(`נפח\s*מנוע[:\s]*(\d{1,3}(?:,\d{3})*)`))},
	}

	trimRules = []Rule{
		{"trim-label", capture(regexp.MustCompile(`גימור[:\s]*([A-Z0-9]+)`))},
	}

	handsRules = []Rule{
		{"current-hand-label", capture(regexp.MustCompile(`יד\s*נוכחית[:\s]*(\S+)`))},
		{"ordinal-before-hand", capture(regexp.MustCompile(`(ראשונה|שנייה|שניה|שלישית|רביעית|חמישית|שישית|ששית|שביעית|שמינית|תשיעית|עשירית)\s*יד`))},
		{"hand-ordinal", capture(regexp.MustCompile(`יד\s*(ראשונה|שנייה|שניה|שלישית|רביעית|חמישית|שישית|ששית|שביעית|שמינית|תשיעית|עשירית)`))},
		{"hand-numeric", capture(regexp.MustCompile(`יד\s*(\d{1,2})\b`))},
	}

	conditionRules = []Rule{
		{"vehicle-condition-label", capture(regexp.MustCompile(`מצב\s*הרכב[:\s]*([^,\n]+)`))},
		{"condition-label", capture(regexp.MustCompile(`מצב[:\s]*([^,\n]+)`))},
	}

	priceRules = []Rule{
		{"shekel-sign", capture(regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*₪`))},
		{"shekel-word", capture(regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*שקל`))},
		{"nis", capture(regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*)\s*NIS`))},
	}

	yearToken = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// hebrewOrdinals maps ownership-hand ordinal words to their count. Spelling
// variants with and without yod are both in circulation.
var hebrewOrdinals = map[string]int{
	"ראשונה": 1, "שנייה": 2, "שניה": 2, "שלישית": 3, "רביעית": 4,
	"חמישית": 5, "שישית": 6, "ששית": 6, "שביעית": 7, "שמינית": 8,
	"תשיעית": 9, "עשירית": 10,
}

// validConditions is the closed set of condition descriptors; anything else is
// discarded, not kept as free text. Longer descriptors come before their
// substrings so "לא טוב" is not mistaken for "טוב".
var validConditions = []string{
	"מצוין מאוד", "מצוין", "טוב מאוד", "לא טוב", "טוב", "בינוני",
	"רע", "משופץ", "מקורי", "חדש",
}

// ParseNumber strips thousands separators and parses the remaining digits.
func ParseNumber(s string) (int, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(clean)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseHands converts ordinal words or a bare number to a hand count.
// Values outside [1,10] are rejected.
func ParseHands(s string) int {
	text := strings.TrimSpace(s)
	for word, count := range hebrewOrdinals {
		if strings.Contains(text, word) {
			return count
		}
	}
	if m := regexp.MustCompile(`\d+`).FindString(text); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil && n >= 1 && n <= 10 {
			return n
		}
	}
	return 0
}

// ParseCondition returns the matching descriptor from the closed condition
// set, or "" when the text matches none of them.
func ParseCondition(s string) string {
	text := strings.TrimSpace(s)
	for _, cond := range validConditions {
		if strings.Contains(text, cond) {
			return cond
		}
	}
	return ""
}

// ExtractYear collects every 4-digit token inside the valid window and picks
// the smallest. Production years tend to be quoted next to later MOT years;
// smallest-wins is a heuristic tie-break, not a guarantee.
func ExtractYear(text string, now time.Time) int {
	best := 0
	for _, tok := range yearToken.FindAllString(text, -1) {
		y, err := strconv.Atoi(tok)
		if err != nil || !models.ValidYear(y, now) {
			continue
		}
		if best == 0 || y < best {
			best = y
		}
	}
	return best
}
