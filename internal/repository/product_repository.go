package repository

import (
	"context"
	"errors"

	"github.com/zarinagems/storefront-api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// ProductRepository defines the interface for catalog data access.
// The storefront only ever reads the catalog; writes belong to the admin
// back office tooling.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	AllIDs(ctx context.Context) ([]string, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	products map[string]models.Product
}

func boolPtr(b bool) *bool { return &b }

// NewInMemoryProductRepository creates a new in-memory product repository with seed data
func NewInMemoryProductRepository() *InMemoryProductRepository {
	products := map[string]models.Product{
		"ring-aurora":      {ID: "ring-aurora", Name: "Aurora Gold Ring", Price: 3200, ImageURL: "/images/ring-aurora.jpg", Category: "Rings"},
		"ring-solitaire":   {ID: "ring-solitaire", Name: "Solitaire Diamond Ring", Price: 18500, ImageURL: "/images/ring-solitaire.jpg", Category: "Rings"},
		"necklace-pearl":   {ID: "necklace-pearl", Name: "Freshwater Pearl Necklace", Price: 5400, ImageURL: "/images/necklace-pearl.jpg", Category: "Necklaces"},
		"necklace-choker":  {ID: "necklace-choker", Name: "Gold Plated Choker", Price: 2800, ImageURL: "/images/necklace-choker.jpg", Category: "Necklaces"},
		"earring-stud":     {ID: "earring-stud", Name: "Ruby Stud Earrings", Price: 4100, ImageURL: "/images/earring-stud.jpg", Category: "Earrings"},
		"earring-jhumka":   {ID: "earring-jhumka", Name: "Traditional Jhumka", Price: 3600, ImageURL: "/images/earring-jhumka.jpg", Category: "Earrings"},
		"bracelet-bangle":  {ID: "bracelet-bangle", Name: "Antique Brass Bangle", Price: 1900, ImageURL: "/images/bracelet-bangle.jpg", Category: "Bracelets"},
		"bracelet-tennis":  {ID: "bracelet-tennis", Name: "Crystal Tennis Bracelet", Price: 7200, ImageURL: "/images/bracelet-tennis.jpg", InStock: boolPtr(false), Category: "Bracelets"},
		"pendant-emerald":  {ID: "pendant-emerald", Name: "Emerald Drop Pendant", Price: 9800, ImageURL: "/images/pendant-emerald.jpg", Category: "Pendants"},
		"anklet-silver":    {ID: "anklet-silver", Name: "Sterling Silver Anklet", Price: 2200, ImageURL: "/images/anklet-silver.jpg", InStock: boolPtr(true), Category: "Anklets"},
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns all products
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// GetByIDs returns the products matching the given ids. Ids with no
// matching row are simply absent from the result; that is an expected
// outcome, not an error.
func (r *InMemoryProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, exists := r.products[id]; exists {
			products = append(products, product)
		}
	}
	return products, nil
}

// AllIDs returns every known product id, used to seed the catalog filter.
func (r *InMemoryProductRepository) AllIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	return ids, nil
}
