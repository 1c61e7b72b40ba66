package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"auctionpricer/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	record := &models.VehicleRecord{
		VehicleNumber: "1234567",
		Manufacturer:  "קיה",
		Model:         "פיקנטו",
		Year:          2020,
		Mileage:       75311,
		HandsCount:    4,
		Condition:     "טוב",
		SourceURL:     "https://auction.example/item/1",
	}

	before := time.Now()
	if err := s.Set(KeyCurrentVehicleRecord, record); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got models.VehicleRecord
	storedAt, err := s.Get(KeyCurrentVehicleRecord, &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(&got, record) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, record)
	}
	if storedAt.Before(before.Add(-time.Second)) || storedAt.After(time.Now().Add(time.Second)) {
		t.Fatalf("unexpected stored-at time %v", storedAt)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	var out string
	_, err := s.Get("nope", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetOverwritesLastWriterWins(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(KeyPriceError, "first"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(KeyPriceError, "second"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	var got string
	if _, err := s.Get(KeyPriceError, &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "second" {
		t.Fatalf("got %q, want second", got)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(KeyPriceError, "boom"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete(KeyPriceError); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var out string
	if _, err := s.Get(KeyPriceError, &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := s.Delete(KeyPriceError); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("expected nested directory to be created: %v", err)
	}
	s.Close()
}
