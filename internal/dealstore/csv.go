package dealstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/lukman83/martdash/internal/models"
)

var csvHeader = []string{
	"title", "selling_price", "mrp", "discount_percent",
	"store_id", "reference_label", "product_url", "date_added",
}

// CSVStore keeps deals in one flat CSV file. New rows are appended so the
// bytes of earlier rows never change.
type CSVStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewCSVStore returns a store backed by the file at path. The file is
// created on the first insert.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, now: time.Now}
}

func (s *CSVStore) Record(_ context.Context, deals []models.SavedDeal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, err
	}
	seen := make(map[dealKey]struct{}, len(existing))
	for _, d := range existing {
		seen[keyOf(d)] = struct{}{}
	}

	rows := fresh(deals, seen, s.now())
	if len(rows) == 0 {
		return 0, nil
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open deals file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat deals file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return 0, fmt.Errorf("write deals header: %w", err)
		}
	}
	for _, d := range rows {
		if err := w.Write(encodeDeal(d)); err != nil {
			return 0, fmt.Errorf("write deal: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush deals file: %w", err)
	}
	return len(rows), nil
}

func (s *CSVStore) List(_ context.Context) ([]models.SavedDeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *CSVStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove deals file: %w", err)
	}
	return nil
}

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) load() ([]models.SavedDeal, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open deals file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var deals []models.SavedDeal
	for line := 0; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read deals file: %w", err)
		}
		if line == 0 && len(rec) > 0 && rec[0] == csvHeader[0] {
			continue
		}
		deals = append(deals, decodeDeal(rec))
	}
	return deals, nil
}

func encodeDeal(d models.SavedDeal) []string {
	return []string{
		d.Title,
		formatFloat(d.SellingPrice),
		formatFloat(d.MRP),
		formatFloat(d.DiscountPercent),
		d.StoreID,
		d.ReferenceLabel,
		d.ProductURL,
		d.DateAdded.Format(TimeLayout),
	}
}

func decodeDeal(rec []string) models.SavedDeal {
	get := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	d := models.SavedDeal{
		Title:          get(0),
		StoreID:        get(4),
		ReferenceLabel: get(5),
		ProductURL:     get(6),
	}
	d.SellingPrice, _ = strconv.ParseFloat(get(1), 64)
	d.MRP, _ = strconv.ParseFloat(get(2), 64)
	d.DiscountPercent, _ = strconv.ParseFloat(get(3), 64)
	d.DateAdded, _ = time.ParseInLocation(TimeLayout, get(7), time.Local)
	return d
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
