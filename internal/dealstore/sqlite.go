package dealstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lukman83/martdash/internal/models"

	_ "modernc.org/sqlite" // sqlite driver (pure Go)
)

// SQLiteStore keeps deals in a SQLite table with a unique (title, selling_price) index.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens the database at path and applies the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saved_deals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			selling_price REAL NOT NULL,
			mrp REAL NOT NULL,
			discount_percent REAL NOT NULL,
			store_id TEXT NOT NULL,
			reference_label TEXT NOT NULL,
			product_url TEXT NOT NULL,
			date_added TEXT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_deals_key ON saved_deals(title, selling_price);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply deals schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Record(ctx context.Context, deals []models.SavedDeal) (int, error) {
	rows := fresh(deals, make(map[dealKey]struct{}), s.now())
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin deals tx: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, d := range rows {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO saved_deals
				(title, selling_price, mrp, discount_percent, store_id, reference_label, product_url, date_added)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d.Title, d.SellingPrice, d.MRP, d.DiscountPercent,
			d.StoreID, d.ReferenceLabel, d.ProductURL, d.DateAdded.Format(TimeLayout),
		)
		if err != nil {
			return 0, fmt.Errorf("insert deal: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit deals tx: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.SavedDeal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, selling_price, mrp, discount_percent, store_id, reference_label, product_url, date_added
		 FROM saved_deals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []models.SavedDeal
	for rows.Next() {
		var d models.SavedDeal
		var added string
		if err := rows.Scan(&d.Title, &d.SellingPrice, &d.MRP, &d.DiscountPercent,
			&d.StoreID, &d.ReferenceLabel, &d.ProductURL, &added); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		d.DateAdded, _ = time.ParseInLocation(TimeLayout, added, time.Local)
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter deals: %w", err)
	}
	return deals, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saved_deals`); err != nil {
		return fmt.Errorf("clear deals: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
