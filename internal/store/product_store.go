package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Swarnab2026/colour-shop/internal/model"
	"github.com/Swarnab2026/colour-shop/prometheus"
)

// ProductStore is the persistence boundary for catalog records.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	ByID(ctx context.Context, id uint) (*model.Product, error)
	Search(ctx context.Context, query string) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
}

type gormProductStore struct {
	db *gorm.DB
}

// NewProductStore returns a ProductStore backed by the given database handle.
func NewProductStore(db *gorm.DB) ProductStore {
	return &gormProductStore{db: db}
}

// List returns every product, most recently updated first.
func (s *gormProductStore) List(ctx context.Context) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var products []model.Product
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *gormProductStore) ByID(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	return &product, nil
}

// Search matches the query case-insensitively as a substring of name,
// brand, category or color. LOWER(...) LIKE keeps the comparison
// collation-independent.
func (s *gormProductStore) Search(ctx context.Context, query string) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	pattern := "%" + strings.ToLower(query) + "%"
	var products []model.Product
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(category) LIKE ? OR LOWER(color) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("updated_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (s *gormProductStore) Create(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Save writes the full record back, including zero-valued fields.
func (s *gormProductStore) Save(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to save product %d: %w", product.ID, err)
	}
	return nil
}

func (s *gormProductStore) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
