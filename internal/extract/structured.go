package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"auctionpricer/internal/models"
)

const embeddedStateScriptID = "__NEXT_DATA__"

// embeddedState mirrors the slice of the server-rendered state object this
// service reads. The listing payload sits inside a react-query dehydrated
// state, keyed by a queryKey containing "vehicles" and "item".
type embeddedState struct {
	Props struct {
		PageProps struct {
			DehydratedState struct {
				Queries []struct {
					QueryKey []string `json:"queryKey"`
					State    struct {
						Data listingData `json:"data"`
					} `json:"state"`
				} `json:"queries"`
			} `json:"dehydratedState"`
		} `json:"pageProps"`
	} `json:"props"`
}

type listingData struct {
	KM   json.RawMessage `json:"km"` // number or formatted string, both seen in the wild
	Hand struct {
		Text string `json:"text"`
	} `json:"hand"`
	Manufacturer struct {
		Text string `json:"text"`
	} `json:"manufacturer"`
	Model struct {
		Text string `json:"text"`
	} `json:"model"`
	SubModel struct {
		Text string `json:"text"`
	} `json:"subModel"`
	VehicleDates struct {
		YearOfProduction int `json:"yearOfProduction"`
	} `json:"vehicleDates"`
}

// FromEmbeddedState decodes one serialized server-rendered state payload into
// a partial record. Fields the payload lacks stay zero; a payload without the
// listing query yields an error so callers can fall back to text extraction.
func FromEmbeddedState(raw []byte, sourceURL string) (*models.VehicleRecord, error) {
	var state embeddedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedded state: %w", err)
	}

	for _, query := range state.Props.PageProps.DehydratedState.Queries {
		if !containsAll(query.QueryKey, "vehicles", "item") {
			continue
		}
		data := query.State.Data
		record := &models.VehicleRecord{
			Manufacturer: data.Manufacturer.Text,
			Model:        data.Model.Text,
			Year:         data.VehicleDates.YearOfProduction,
			Mileage:      sanitizeNumber(data.KM),
			HandsCount:   ParseHands(data.Hand.Text),
			SourceURL:    sourceURL,
		}
		if record.Model == "" {
			record.Model = data.SubModel.Text
		}
		return record, nil
	}

	return nil, fmt.Errorf("no vehicles/item query in embedded state")
}

// FromDocument locates the embedded-state script tag in a parsed page and
// decodes it. Returns an error when the page carries no such payload.
func FromDocument(doc *goquery.Document, sourceURL string) (*models.VehicleRecord, error) {
	content := doc.Find("script#" + embeddedStateScriptID).Text()
	if content == "" {
		return nil, fmt.Errorf("embedded state script not found")
	}
	return FromEmbeddedState([]byte(content), sourceURL)
}

func containsAll(keys []string, wanted ...string) bool {
	for _, w := range wanted {
		found := false
		for _, k := range keys {
			if k == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var digitRun = regexp.MustCompile(`\d+`)

// sanitizeNumber accepts a raw JSON number or a formatted string like
// "75,311" and returns the integer value, or 0 when nothing numeric is there.
func sanitizeNumber(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		digits := digitRun.FindAllString(s, -1)
		joined := ""
		for _, d := range digits {
			joined += d
		}
		if joined != "" {
			if v, err := strconv.Atoi(joined); err == nil {
				return v
			}
		}
	}
	return 0
}
