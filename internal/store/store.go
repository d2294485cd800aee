package store

import (
	"context"
	"fmt"
	"time"

	"lumina-store/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const productColumns = `id, name, category, price, discount_price, rating, reviews, image, description, is_new`

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	category       TEXT NOT NULL,
	price          DOUBLE PRECISION NOT NULL,
	discount_price DOUBLE PRECISION,
	rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
	reviews        INTEGER NOT NULL DEFAULT 0,
	image          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	is_new         BOOLEAN NOT NULL DEFAULT FALSE,
	position       SERIAL
)`

// Store is the Postgres-backed product catalog source
type Store struct {
	db *sqlx.DB
}

// NewStore connects to Postgres. sqlx.Connect pings before returning.
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the products table when missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// GetProducts retrieves all products in catalog order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT "+productColumns+" FROM products ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// SeedProducts inserts products that are not stored yet, keeping their order
func (s *Store) SeedProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (:id, :name, :category, :price, :discount_price, :rating, :reviews, :image, :description, :is_new)
		ON CONFLICT (id) DO NOTHING`

	for _, p := range products {
		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
