package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zarinagems/storefront-api/internal/models"
)

// MySQLProductRepository implements ProductRepository against the
// products table of the hosted database.
type MySQLProductRepository struct {
	db *sql.DB
}

// NewMySQLProductRepository creates a MySQL-backed product repository
func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

const productColumns = "id, name, price, image_url, in_stock, category"

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*models.Product, error) {
	var p models.Product
	var imageURL, category sql.NullString
	var inStock sql.NullBool

	if err := scanner.Scan(&p.ID, &p.Name, &p.Price, &imageURL, &inStock, &category); err != nil {
		return nil, err
	}

	p.ImageURL = imageURL.String
	p.Category = category.String
	if inStock.Valid {
		v := inStock.Bool
		p.InStock = &v
	}
	return &p, nil
}

// GetAll returns all products
func (r *MySQLProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetByID returns a product by its ID
func (r *MySQLProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %s: %w", id, err)
	}
	return p, nil
}

// GetByIDs returns the products matching the given ids. Missing rows are
// not an error; the caller detects absences itself.
func (r *MySQLProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := "SELECT " + productColumns + " FROM products WHERE id IN (" + placeholders + ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// AllIDs returns every product id in the catalog
func (r *MySQLProductRepository) AllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM products")
	if err != nil {
		return nil, fmt.Errorf("querying product ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
