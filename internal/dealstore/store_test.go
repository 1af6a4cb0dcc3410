package dealstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukman83/martdash/internal/models"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.Local)

func sampleDeals() []models.SavedDeal {
	return []models.SavedDeal{
		{Title: "Ghee 1L", SellingPrice: 300, MRP: 500, DiscountPercent: 37.5, StoreID: "S1", ReferenceLabel: "vs 3rd Best", ProductURL: "https://example.com/ghee"},
		{Title: "Paneer, 200g", SellingPrice: 60.5, MRP: 90, DiscountPercent: 31, StoreID: "S9", ReferenceLabel: "vs 2nd Best"},
	}
}

func newCSV(t *testing.T) *CSVStore {
	t.Helper()
	s := NewCSVStore(filepath.Join(t.TempDir(), "deals.csv"))
	s.now = func() time.Time { return fixedNow }
	return s
}

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "deals.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	s.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores_RecordIsIdempotent(t *testing.T) {
	stores := map[string]Store{
		"csv":    newCSV(t),
		"sqlite": newSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := s.Record(ctx, sampleDeals())
			if err != nil {
				t.Fatalf("first record: %v", err)
			}
			if n != 2 {
				t.Fatalf("inserted %d, want 2", n)
			}

			n, err = s.Record(ctx, sampleDeals()[:1])
			if err != nil {
				t.Fatalf("second record: %v", err)
			}
			if n != 0 {
				t.Fatalf("inserted %d on repeat, want 0", n)
			}

			deals, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(deals) != 2 {
				t.Fatalf("stored %d rows, want 2", len(deals))
			}
			got := deals[1]
			if got.Title != "Paneer, 200g" || got.SellingPrice != 60.5 || got.StoreID != "S9" {
				t.Fatalf("row = %+v", got)
			}
			if !got.DateAdded.Equal(fixedNow) {
				t.Fatalf("date_added = %v, want %v", got.DateAdded, fixedNow)
			}
		})
	}
}

func TestStores_SamePairTwiceInOneBatch(t *testing.T) {
	stores := map[string]Store{
		"csv":    newCSV(t),
		"sqlite": newSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			d := sampleDeals()[0]
			n, err := s.Record(context.Background(), []models.SavedDeal{d, d})
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if n != 1 {
				t.Fatalf("inserted %d, want 1", n)
			}
		})
	}
}

func TestStores_SameTitleDifferentPrice(t *testing.T) {
	s := newCSV(t)
	ctx := context.Background()
	d := sampleDeals()[0]
	if _, err := s.Record(ctx, []models.SavedDeal{d}); err != nil {
		t.Fatal(err)
	}
	d.SellingPrice = 280
	n, err := s.Record(ctx, []models.SavedDeal{d})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("inserted %d, want 1", n)
	}
}

func TestCSVStore_AppendKeepsPriorBytes(t *testing.T) {
	s := newCSV(t)
	ctx := context.Background()

	if _, err := s.Record(ctx, sampleDeals()[:1]); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Record(ctx, sampleDeals()[1:]); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(after, before) {
		t.Fatalf("prior rows changed:\nbefore=%q\nafter=%q", before, after)
	}
	if bytes.Count(after, []byte("title,selling_price")) != 1 {
		t.Fatalf("header written more than once: %q", after)
	}
}

func TestCSVStore_NoWriteWhenNothingNew(t *testing.T) {
	s := newCSV(t)
	n, err := s.Record(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("inserted %d, want 0", n)
	}
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Fatalf("expected no file, stat err = %v", err)
	}
}

func TestStores_ClearIsIdempotent(t *testing.T) {
	stores := map[string]Store{
		"csv":    newCSV(t),
		"sqlite": newSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear empty: %v", err)
			}
			if _, err := s.Record(ctx, sampleDeals()); err != nil {
				t.Fatal(err)
			}
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear again: %v", err)
			}
			deals, err := s.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(deals) != 0 {
				t.Fatalf("expected empty store, got %d rows", len(deals))
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		location string
		wantCSV  bool
		wantErr  bool
	}{
		{filepath.Join(dir, "a.csv"), true, false},
		{"csv:" + filepath.Join(dir, "b.csv"), true, false},
		{"sqlite:" + filepath.Join(dir, "c.db"), false, false},
		{"mongo:whatever", false, true},
	}
	for _, tt := range tests {
		s, err := Open(tt.location)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Open(%q): expected error", tt.location)
			}
			continue
		}
		if err != nil {
			t.Errorf("Open(%q): %v", tt.location, err)
			continue
		}
		if _, isCSV := s.(*CSVStore); isCSV != tt.wantCSV {
			t.Errorf("Open(%q) returned %T", tt.location, s)
		}
		s.Close()
	}
}
