// ABOUTME: SQLite-backed deal store keyed by normalized package name
// ABOUTME: Insert/clear/find/list over a deals table; lookup prefers the newest deal

package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mauromedda/cli-saver/internal/seed"
)

// Store wraps the deals database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the deals database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening deals database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS deals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_name TEXT NOT NULL,
		package_name TEXT,
		package_manager TEXT,
		raw_text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_package_name ON deals(package_name);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initializing deals schema: %w", err)
	}
	return nil
}

// Insert appends a deal and returns its row ID. Existing rows are never
// updated; duplicates per package are allowed.
func (s *Store) Insert(deal seed.Deal) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO deals (product_name, package_name, package_manager, raw_text) VALUES (?, ?, ?, ?)",
		deal.ProductName, nullable(deal.PackageName), nullable(deal.PackageManager), deal.RawText,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting deal %s: %w", deal.ProductName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading deal id: %w", err)
	}
	return id, nil
}

// Clear removes all deals.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM deals"); err != nil {
		return fmt.Errorf("clearing deals: %w", err)
	}
	return nil
}

// FindByPackage returns the deal for a package name, or nil if none is
// stored. The name is normalized (extras marker cut, trimmed, lowercased)
// and matched case-insensitively. When several deals reference the same
// package the most recently inserted one wins.
func (s *Store) FindByPackage(name string) (*seed.Deal, error) {
	row := s.db.QueryRow(
		"SELECT id, product_name, package_name, package_manager, raw_text FROM deals WHERE LOWER(package_name) = ? ORDER BY id DESC LIMIT 1",
		NormalizePackage(name),
	)

	deal, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up deal for %s: %w", name, err)
	}
	return deal, nil
}

// ListAll returns every deal ordered by product name.
func (s *Store) ListAll() ([]seed.Deal, error) {
	rows, err := s.db.Query(
		"SELECT id, product_name, package_name, package_manager, raw_text FROM deals ORDER BY product_name",
	)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	var deals []seed.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	return deals, rows.Err()
}

// NormalizePackage canonicalizes a package name for lookup: anything from an
// extras marker on is dropped ("flask[async]" -> "flask"), then the result is
// trimmed and lowercased.
func NormalizePackage(name string) string {
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*seed.Deal, error) {
	var deal seed.Deal
	var packageName, packageManager sql.NullString
	if err := row.Scan(&deal.ID, &deal.ProductName, &packageName, &packageManager, &deal.RawText); err != nil {
		return nil, err
	}
	deal.PackageName = packageName.String
	deal.PackageManager = packageManager.String
	return &deal, nil
}

// nullable maps an empty string to NULL so unmapped deals store NULL rather
// than empty text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
