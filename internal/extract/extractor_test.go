package extract

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestExtractYearPicksSmallestValid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"single year", "שנת ייצור 2018", 2018},
		{"production before test year", "טסט עד 2025 שנת ייצור 2020", 2020},
		{"ignores out of range", "1985 2019", 2019},
		{"ignores far future", "2078 2021", 2021},
		{"nothing", "אין כאן שנה", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractYear(tt.text, testNow); got != tt.want {
				t.Fatalf("ExtractYear(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseHands(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"ראשונה", 1},
		{"שניה", 2},
		{"שנייה", 2},
		{"רביעית", 4},
		{"7", 7},
		{"10", 10},
		{"15", 0},
		{"0", 0},
		{"בלה", 0},
	}

	for _, tt := range tests {
		if got := ParseHands(tt.in); got != tt.want {
			t.Fatalf("ParseHands(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"טוב", "טוב"},
		{"לא טוב", "לא טוב"},
		{"מצוין מאוד", "מצוין מאוד"},
		{"סביר", ""},
	}

	for _, tt := range tests {
		if got := ParseCondition(tt.in); got != tt.want {
			t.Fatalf("ParseCondition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromTextFullListing(t *testing.T) {
	text := `מכרז רכבים
מספר רכב: 12-345-67
קיה פיקנטו שנת ייצור 2020 טסט עד 2026
75,311 ק"מ
יד רביעית
מצב הרכב: טוב
נפח מנוע: 1,248 סמ"ק
גימור: LX
מחיר פתיחה 25,000 ₪`

	record := FromText(text, "https://auction.example/item/kia-picanto-2020", testNow)

	if record.VehicleNumber != "1234567" {
		t.Errorf("VehicleNumber = %q, want 1234567", record.VehicleNumber)
	}
	if record.Manufacturer != "kia" || record.Model != "picanto" {
		t.Errorf("slug split = %q %q, want kia picanto", record.Manufacturer, record.Model)
	}
	if record.Year != 2020 {
		t.Errorf("Year = %d, want 2020", record.Year)
	}
	if record.Mileage != 75311 {
		t.Errorf("Mileage = %d, want 75311", record.Mileage)
	}
	if record.HandsCount != 4 {
		t.Errorf("HandsCount = %d, want 4", record.HandsCount)
	}
	if record.Condition != "טוב" {
		t.Errorf("Condition = %q, want טוב", record.Condition)
	}
	if record.EngineSize != 1248 {
		t.Errorf("EngineSize = %d, want 1248", record.EngineSize)
	}
	if record.TrimLevel != "LX" {
		t.Errorf("TrimLevel = %q, want LX", record.TrimLevel)
	}
	if record.Price != 25000 {
		t.Errorf("Price = %d, want 25000", record.Price)
	}
}

func TestFromTextInvalidHandCaptureFallsThrough(t *testing.T) {
	// The labeled rule captures junk here; the numeric rule further down the
	// priority list should still win.
	text := "יד נוכחית: לא ידוע\nיד 2"
	record := FromText(text, "", testNow)
	if record.HandsCount != 2 {
		t.Fatalf("HandsCount = %d, want 2", record.HandsCount)
	}
}

func TestFromTextHandOutOfRangeRejected(t *testing.T) {
	record := FromText("יד 15", "", testNow)
	if record.HandsCount != 0 {
		t.Fatalf("HandsCount = %d, want 0 for out-of-range hand", record.HandsCount)
	}
}

func TestFromTextNeverFails(t *testing.T) {
	record := FromText("", "", testNow)
	if record == nil {
		t.Fatal("expected a record even for empty input")
	}
	if record.Usable() {
		t.Fatal("empty record must not be usable")
	}
}

func TestNormalizeStructuredWinsPerField(t *testing.T) {
	structured := FromText("", "", testNow)
	structured.Manufacturer = "קיה"
	structured.Model = "פיקנטו"
	structured.Year = 2020

	text := FromText(`מספר רכב: 7654321 יד שניה 80,000 ק"מ שנת 2019`, "", testNow)

	merged := Normalize(structured, text)
	if merged.Manufacturer != "קיה" || merged.Model != "פיקנטו" {
		t.Errorf("structured manufacturer/model should win, got %q %q", merged.Manufacturer, merged.Model)
	}
	if merged.Year != 2020 {
		t.Errorf("structured year should win, got %d", merged.Year)
	}
	if merged.VehicleNumber != "7654321" {
		t.Errorf("text vehicle number should survive, got %q", merged.VehicleNumber)
	}
	if merged.Mileage != 80000 {
		t.Errorf("text mileage should survive, got %d", merged.Mileage)
	}
	if merged.HandsCount != 2 {
		t.Errorf("text hands should survive, got %d", merged.HandsCount)
	}
}

func TestNormalizeNilInputs(t *testing.T) {
	if rec := Normalize(nil, nil); rec == nil || rec.Usable() {
		t.Fatal("nil+nil must produce an empty record")
	}

	text := FromText("יד ראשונה", "", testNow)
	if rec := Normalize(nil, text); rec.HandsCount != 1 {
		t.Fatal("nil structured must pass text record through")
	}
}

func TestSplitSlug(t *testing.T) {
	tests := []struct {
		url          string
		manufacturer string
		model        string
		ok           bool
	}{
		{"https://auction.example/item/kia-picanto-2020", "kia", "picanto", true},
		{"https://auction.example/item/toyota-corolla", "toyota", "corolla", true},
		{"https://auction.example/item/picanto", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		manufacturer, model, ok := splitSlug(tt.url)
		if manufacturer != tt.manufacturer || model != tt.model || ok != tt.ok {
			t.Fatalf("splitSlug(%q) = %q %q %v, want %q %q %v",
				tt.url, manufacturer, model, ok, tt.manufacturer, tt.model, tt.ok)
		}
	}
}
