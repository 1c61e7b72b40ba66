package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SubModelCache is the on-disk cache of sub-model ids discovered by scraping
// the price-list index. Scraping the index is slow and occasionally
// bot-blocked, so discovered ids are kept across restarts.
type SubModelCache struct {
	IDs       map[string]string `json:"ids"` // manufacturer-model slug -> sub-model id
	Timestamp time.Time         `json:"timestamp"`
}

const (
	CacheFileName = "submodel_cache.json"
	CacheExpiry   = 24 * time.Hour
)

// LoadFromCache loads cached sub-model ids if they exist and are not expired.
func LoadFromCache() (map[string]string, bool) {
	file, err := os.Open(CacheFileName)
	if err != nil {
		return nil, false
	}
	defer file.Close()

	var cache SubModelCache
	if err := json.NewDecoder(file).Decode(&cache); err != nil {
		fmt.Printf("Error reading sub-model cache: %v\n", err)
		return nil, false
	}

	if time.Since(cache.Timestamp) > CacheExpiry {
		return nil, false
	}
	return cache.IDs, true
}

// SaveToCache saves discovered sub-model ids to the cache file.
func SaveToCache(ids map[string]string) error {
	cache := SubModelCache{
		IDs:       ids,
		Timestamp: time.Now(),
	}

	file, err := os.Create(CacheFileName)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %v", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(cache); err != nil {
		return fmt.Errorf("failed to encode cache: %v", err)
	}
	return nil
}

// GetCacheAge returns the age of the cache.
func GetCacheAge() (time.Duration, error) {
	file, err := os.Open(CacheFileName)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var cache SubModelCache
	if err := json.NewDecoder(file).Decode(&cache); err != nil {
		return 0, err
	}

	return time.Since(cache.Timestamp), nil
}
