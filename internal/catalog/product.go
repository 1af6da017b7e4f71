// Package catalog provides the product model and database operations for the
// Shoplite storefront.
//
// Products live in the shop.products table:
//
//	CREATE TABLE shop.products (
//	    id UUID PRIMARY KEY,
//	    name TEXT NOT NULL,
//	    description TEXT NOT NULL DEFAULT '',
//	    price_cents BIGINT NOT NULL,
//	    image_path TEXT NOT NULL DEFAULT '',
//	    available BOOLEAN NOT NULL DEFAULT true,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//
// Prices are stored as integer cents to avoid floating-point rounding.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Product represents a storefront product
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	ImagePath   string    `json:"image_path,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InitSchema creates the shop schema and products table if they do not exist
func InitSchema(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS shop;
		CREATE TABLE IF NOT EXISTS shop.products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL,
			image_path TEXT NOT NULL DEFAULT '',
			available BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

// Create inserts a new product into the database
func Create(ctx context.Context, conn *pgx.Conn, name, description string, priceCents int64, imagePath string) (*Product, error) {
	now := time.Now()
	product := &Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		ImagePath:   imagePath,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO shop.products (id, name, description, price_cents, image_path, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := conn.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.PriceCents,
		product.ImagePath, product.Available, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetByID looks up a product by its ID
func GetByID(ctx context.Context, conn *pgx.Conn, id uuid.UUID) (*Product, error) {
	query := `
		SELECT id, name, description, price_cents, image_path, available, created_at, updated_at
		FROM shop.products
		WHERE id = $1
	`

	var product Product
	err := conn.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.ImagePath,
		&product.Available,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// List returns products ordered by creation time, newest first. When
// includeUnavailable is false only products currently marked available are
// returned (the public storefront view).
func List(ctx context.Context, conn *pgx.Conn, includeUnavailable bool) ([]Product, error) {
	query := `
		SELECT id, name, description, price_cents, image_path, available, created_at, updated_at
		FROM shop.products
	`
	if !includeUnavailable {
		query += " WHERE available"
	}
	query += " ORDER BY created_at DESC"

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var product Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.PriceCents,
			&product.ImagePath,
			&product.Available,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// Update replaces a product's editable fields
func Update(ctx context.Context, conn *pgx.Conn, id uuid.UUID, name, description string, priceCents int64, imagePath string) (*Product, error) {
	query := `
		UPDATE shop.products
		SET name = $1, description = $2, price_cents = $3, image_path = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := conn.Exec(ctx, query, name, description, priceCents, imagePath, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	return GetByID(ctx, conn, id)
}

// SetAvailability toggles whether a product is visible on the storefront
func SetAvailability(ctx context.Context, conn *pgx.Conn, id uuid.UUID, available bool) error {
	query := `
		UPDATE shop.products
		SET available = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := conn.Exec(ctx, query, available, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a product by ID
func Delete(ctx context.Context, conn *pgx.Conn, id uuid.UUID) error {
	tag, err := conn.Exec(ctx, `DELETE FROM shop.products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Count returns the total number of products
func Count(ctx context.Context, conn *pgx.Conn) (int, error) {
	var count int
	err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM shop.products").Scan(&count)
	return count, err
}
