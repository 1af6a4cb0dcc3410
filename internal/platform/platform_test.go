package platform

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lukman83/martdash/internal/models"
)

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string, SearchOpts) ([]models.Product, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	Register("zeta", stubSearcher{})
	Register("alpha", stubSearcher{})

	if _, err := Get("alpha"); err != nil {
		t.Fatalf("get registered: %v", err)
	}
	if _, err := Get("missing"); err == nil {
		t.Fatal("expected error for unregistered platform")
	}
	names := List()
	if len(names) < 2 || names[0] != "alpha" {
		t.Fatalf("names = %v", names)
	}
}

func TestReportf(t *testing.T) {
	Reportf(context.Background(), "no callback %d", 1)

	var got []string
	ctx := WithProgress(context.Background(), func(msg string) { got = append(got, msg) })
	Reportf(ctx, "delivered %d/%d", 1, 3)
	if len(got) != 1 || got[0] != "delivered 1/3" {
		t.Fatalf("got %v", got)
	}
}

type countingSearcher struct {
	inFlight, peak atomic.Int32
	failOn         string
}

func (c *countingSearcher) Search(ctx context.Context, query string, _ SearchOpts) ([]models.Product, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if query == c.failOn {
		return nil, errors.New("blocked")
	}
	return []models.Product{{Title: query}}, nil
}

func TestSearchMany(t *testing.T) {
	s := &countingSearcher{}
	results, err := SearchMany(context.Background(), s, []string{"a", "b", "c", "d"}, SearchOpts{}, 2)
	if err != nil {
		t.Fatalf("search many: %v", err)
	}
	if len(results) != 4 || results[0].Query != "a" || results[3].Products[0].Title != "d" {
		t.Fatalf("results = %+v", results)
	}
	if s.peak.Load() > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", s.peak.Load())
	}
}

func TestSearchManyFails(t *testing.T) {
	s := &countingSearcher{failOn: "b"}
	if _, err := SearchMany(context.Background(), s, []string{"a", "b"}, SearchOpts{}, 0); err == nil {
		t.Fatal("expected error")
	}
}
