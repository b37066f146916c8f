// Package service holds the catalog's decision logic: merging partial
// updates into stored records, coordinating the lifecycle of each record's
// external image asset, and checking admin credentials. Handlers stay thin
// and stores stay dumb; everything with a branch in it lives here.
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Swarnab2026/colour-shop/internal/blob"
	"github.com/Swarnab2026/colour-shop/internal/model"
	"github.com/Swarnab2026/colour-shop/internal/store"
	"github.com/Swarnab2026/colour-shop/prometheus"
)

// Upload carries an incoming image file from the HTTP layer.
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// validate enforces the image content-type allow-list.
func (u *Upload) validate() error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return &ValidationError{Field: "image", Reason: "content type must be image/*"}
	}
	return nil
}

// CreateInput carries the fields for a new product. Name, Brand and Price
// are required; Quantity left at zero is the documented default.
type CreateInput struct {
	Name        string
	Brand       string
	Color       string
	ColorCode   string
	Size        string
	Quantity    int
	Price       float64
	Category    string
	Description string
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(in.Brand) == "" {
		return &ValidationError{Field: "brand", Reason: "is required"}
	}
	if in.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	return nil
}

// CleanupStatus reports what happened to a record's previously owned asset
// during an update, delete or image replacement. Cleanup failures never
// fail the surrounding operation: an orphaned object in the bucket is
// acceptable, a blocked record mutation is not.
type CleanupStatus int

const (
	// CleanupNone means the record owned no asset.
	CleanupNone CleanupStatus = iota
	// CleanupDone means the old asset was removed.
	CleanupDone
	// CleanupFailed means removal failed and the object is orphaned.
	CleanupFailed
)

func (c CleanupStatus) String() string {
	switch c {
	case CleanupDone:
		return "done"
	case CleanupFailed:
		return "failed"
	default:
		return "none"
	}
}

// ProductService exposes all catalog operations.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Search(ctx context.Context, query string) ([]model.Product, error)
	Create(ctx context.Context, in CreateInput, image *Upload) (*model.Product, error)
	Update(ctx context.Context, id uint, patch *model.ProductPatch, image *Upload) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	ReplaceImage(ctx context.Context, id uint, image *Upload) (*model.Product, error)
}

type productService struct {
	products store.ProductStore
	assets   blob.Storage
	log      *zap.Logger
}

// NewProductService wires the catalog logic to its collaborators.
func NewProductService(products store.ProductStore, assets blob.Storage, log *zap.Logger) ProductService {
	return &productService{
		products: products,
		assets:   assets,
		log:      log,
	}
}

// List returns every product, most recently updated first.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	return s.loadProduct(ctx, id)
}

// Search matches the query case-insensitively as a substring of name,
// brand, category or color.
func (s *productService) Search(ctx context.Context, query string) ([]model.Product, error) {
	return s.products.Search(ctx, query)
}

// Create validates the input, stores the optional image first and then
// persists the record. If the image upload fails no record is created.
func (s *productService) Create(ctx context.Context, in CreateInput, image *Upload) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if image != nil {
		if err := image.validate(); err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Color:       in.Color,
		ColorCode:   in.ColorCode,
		Size:        in.Size,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
	}

	if image != nil {
		asset, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = asset.URL
		product.ImageKey = asset.Key
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("create")
	s.log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("brand", product.Brand))
	return product, nil
}

// Update merges the patch into the stored record. Only non-nil patch
// fields overwrite; everything else keeps its stored value. When a new
// image arrives the old owned asset gets exactly one best-effort removal
// attempt before the new one is stored. All input validation happens
// before any side effect, so a rejected upload leaves the old asset alone.
func (s *productService) Update(ctx context.Context, id uint, patch *model.ProductPatch, image *Upload) (*model.Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if image != nil {
		if err := image.validate(); err != nil {
			return nil, err
		}
	}

	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	cleanup := CleanupNone
	if image != nil {
		cleanup = s.removeOwnedAsset(ctx, product)
	}

	if patch != nil {
		patch.Apply(product)
	}

	if image != nil {
		asset, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = asset.URL
		product.ImageKey = asset.Key
	}

	product.UpdatedAt = time.Now()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("update")
	s.log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.String("asset_cleanup", cleanup.String()))
	return product, nil
}

// Delete removes the record and best-effort deletes its owned asset. A
// failed asset removal is logged and counted but the record is still gone.
func (s *productService) Delete(ctx context.Context, id uint) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}

	cleanup := s.removeOwnedAsset(ctx, product)

	if err := s.products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	prometheus.RecordProductOperation("delete")
	s.log.Info("Product deleted",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("asset_cleanup", cleanup.String()))
	return nil
}

// ReplaceImage swaps only the image fields: one best-effort removal of the
// old asset, then upload, then save with a fresh UpdatedAt. The upload is
// validated first, so a rejected file leaves the old asset alone.
func (s *productService) ReplaceImage(ctx context.Context, id uint, image *Upload) (*model.Product, error) {
	if image == nil {
		return nil, &ValidationError{Field: "image", Reason: "file is required"}
	}
	if err := image.validate(); err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	cleanup := s.removeOwnedAsset(ctx, product)

	asset, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}
	product.ImageURL = asset.URL
	product.ImageKey = asset.Key
	product.UpdatedAt = time.Now()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordProductOperation("replace_image")
	s.log.Info("Product image replaced",
		zap.Uint("product_id", product.ID),
		zap.String("image_key", product.ImageKey),
		zap.String("asset_cleanup", cleanup.String()))
	return product, nil
}

func (s *productService) loadProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// uploadImage stores an already validated image. Failures come back as
// StorageError so the handler reports a server error, not a client one.
func (s *productService) uploadImage(ctx context.Context, image *Upload) (*blob.Asset, error) {
	asset, err := s.assets.Put(ctx, blob.PutInput{
		Reader:      image.Reader,
		Size:        image.Size,
		ContentType: image.ContentType,
		Filename:    image.Filename,
	})
	if err != nil {
		prometheus.RecordBlobOperation("put", "failure")
		return nil, &StorageError{Op: "image upload", Err: err}
	}

	prometheus.RecordBlobOperation("put", "success")
	return asset, nil
}

// removeOwnedAsset makes exactly one attempt to delete the record's owned
// asset and reports the outcome. It never returns an error.
func (s *productService) removeOwnedAsset(ctx context.Context, product *model.Product) CleanupStatus {
	if !product.OwnsImage() {
		return CleanupNone
	}

	if err := s.assets.Remove(ctx, product.ImageKey); err != nil {
		prometheus.RecordBlobOperation("remove", "failure")
		prometheus.AssetCleanupFailures.Inc()
		s.log.Warn("Failed to remove product image, object is orphaned",
			zap.Uint("product_id", product.ID),
			zap.String("image_key", product.ImageKey),
			zap.Error(err))
		return CleanupFailed
	}

	prometheus.RecordBlobOperation("remove", "success")
	s.log.Info("Removed product image",
		zap.Uint("product_id", product.ID),
		zap.String("image_key", product.ImageKey))
	return CleanupDone
}

// validatePatch rejects values that would break the required-field
// invariants of the data model. Absent fields are always fine.
func validatePatch(patch *model.ProductPatch) error {
	if patch == nil {
		return nil
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if patch.Brand != nil && strings.TrimSpace(*patch.Brand) == "" {
		return &ValidationError{Field: "brand", Reason: "must not be empty"}
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	return nil
}
