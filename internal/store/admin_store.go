package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Swarnab2026/colour-shop/internal/model"
	"github.com/Swarnab2026/colour-shop/prometheus"
)

// AdminStore is the persistence boundary for administrator accounts.
type AdminStore interface {
	ByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
}

type gormAdminStore struct {
	db *gorm.DB
}

// NewAdminStore returns an AdminStore backed by the given database handle.
func NewAdminStore(db *gorm.DB) AdminStore {
	return &gormAdminStore{db: db}
}

func (s *gormAdminStore) ByUsername(ctx context.Context, username string) (*model.Admin, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var admin model.Admin
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load admin %q: %w", username, err)
	}
	return &admin, nil
}

func (s *gormAdminStore) Create(ctx context.Context, admin *model.Admin) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create admin %q: %w", admin.Username, err)
	}
	return nil
}
