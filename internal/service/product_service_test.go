package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Swarnab2026/colour-shop/internal/blob"
	"github.com/Swarnab2026/colour-shop/internal/model"
	"github.com/Swarnab2026/colour-shop/internal/store"
)

// fakeProductStore is an in-memory ProductStore.
type fakeProductStore struct {
	products  map[uint]model.Product
	nextID    uint
	lastQuery string

	createErr error
	saveErr   error
}

func newFakeProductStore(seed ...model.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[uint]model.Product), nextID: 1}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *fakeProductStore) ByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := p
	return &found, nil
}

func (s *fakeProductStore) Search(_ context.Context, query string) ([]model.Product, error) {
	s.lastQuery = query
	q := strings.ToLower(query)
	out := []model.Product{}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Color), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *model.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	p.ID = s.nextID
	s.nextID++
	s.products[p.ID] = *p
	return nil
}

func (s *fakeProductStore) Save(_ context.Context, p *model.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	s.products[p.ID] = *p
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id uint) error {
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// fakeBlob records calls and can be told to fail either operation.
type fakeBlob struct {
	putCalls    int
	removeCalls []string
	putErr      error
	removeErr   error
}

func (b *fakeBlob) Put(_ context.Context, _ blob.PutInput) (*blob.Asset, error) {
	b.putCalls++
	if b.putErr != nil {
		return nil, b.putErr
	}
	key := fmt.Sprintf("products/upload-%d", b.putCalls)
	return &blob.Asset{URL: "https://blob.test/" + key, Key: key}, nil
}

func (b *fakeBlob) Remove(_ context.Context, key string) error {
	b.removeCalls = append(b.removeCalls, key)
	return b.removeErr
}

func testUpload() *Upload {
	return &Upload{
		Reader:      strings.NewReader("png-bytes"),
		Size:        9,
		ContentType: "image/png",
		Filename:    "swatch.png",
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCreateAppliesDefaults(t *testing.T) {
	products := newFakeProductStore()
	svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

	created, err := svc.Create(context.Background(), CreateInput{
		Name:  "Ocean Blue",
		Brand: "Acme",
		Price: 12.5,
	}, nil)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, 0, created.Quantity)
	assert.Empty(t, created.ImageURL)
	assert.Empty(t, created.ImageKey)
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"missing name", CreateInput{Brand: "Acme", Price: 10}, "name"},
		{"blank name", CreateInput{Name: "   ", Brand: "Acme", Price: 10}, "name"},
		{"missing brand", CreateInput{Name: "Ocean Blue", Price: 10}, "brand"},
		{"zero price", CreateInput{Name: "Ocean Blue", Brand: "Acme"}, "price"},
		{"negative price", CreateInput{Name: "Ocean Blue", Brand: "Acme", Price: -3}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := newFakeProductStore()
			svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

			_, err := svc.Create(context.Background(), tt.in, nil)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Empty(t, products.products)
		})
	}
}

func TestCreateStoresImage(t *testing.T) {
	products := newFakeProductStore()
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	created, err := svc.Create(context.Background(), CreateInput{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
	}, testUpload())
	require.NoError(t, err)

	assert.Equal(t, 1, assets.putCalls)
	assert.Equal(t, "https://blob.test/products/upload-1", created.ImageURL)
	assert.Equal(t, "products/upload-1", created.ImageKey)
}

func TestCreateFailedUploadCreatesNoRecord(t *testing.T) {
	products := newFakeProductStore()
	assets := &fakeBlob{putErr: errors.New("bucket gone")}
	svc := NewProductService(products, assets, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateInput{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
	}, testUpload())

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, products.products)
}

func TestCreateRejectsNonImageUpload(t *testing.T) {
	products := newFakeProductStore()
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	upload := testUpload()
	upload.ContentType = "application/pdf"
	_, err := svc.Create(context.Background(), CreateInput{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
	}, upload)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, assets.putCalls)
	assert.Empty(t, products.products)
}

func TestUpdateOverwritesOnlyPatchedFields(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, Quantity: 3,
	})
	svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

	quantity := 5
	updated, err := svc.Update(context.Background(), 1, &model.ProductPatch{Quantity: &quantity}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "Ocean Blue", updated.Name)
	assert.Equal(t, "Acme", updated.Brand)
	assert.Equal(t, 12.5, updated.Price)

	stored := products.products[1]
	assert.Equal(t, 5, stored.Quantity)
	assert.Equal(t, "Ocean Blue", stored.Name)
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	before := time.Now().Add(-time.Hour)
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, UpdatedAt: before,
	})
	svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

	first, err := svc.Update(context.Background(), 1, &model.ProductPatch{}, nil)
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.After(before))

	second, err := svc.Update(context.Background(), 1, &model.ProductPatch{}, nil)
	require.NoError(t, err)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := NewProductService(newFakeProductStore(), &fakeBlob{}, zap.NewNop())

	_, err := svc.Update(context.Background(), 42, &model.ProductPatch{}, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateWithNewImageRemovesOldAsset(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
		ImageURL: "https://blob.test/products/old", ImageKey: "products/old",
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	updated, err := svc.Update(context.Background(), 1, &model.ProductPatch{}, testUpload())
	require.NoError(t, err)

	assert.Equal(t, []string{"products/old"}, assets.removeCalls)
	assert.Equal(t, 1, assets.putCalls)
	assert.Equal(t, "products/upload-1", updated.ImageKey)
	assert.Equal(t, "https://blob.test/products/upload-1", updated.ImageURL)
}

func TestUpdateCleanupFailureDoesNotAbort(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, ImageKey: "products/old",
	})
	assets := &fakeBlob{removeErr: errors.New("network down")}
	svc := NewProductService(products, assets, zap.NewNop())

	updated, err := svc.Update(context.Background(), 1, &model.ProductPatch{}, testUpload())
	require.NoError(t, err)

	// Exactly one removal attempt, and the update still went through.
	assert.Len(t, assets.removeCalls, 1)
	assert.Equal(t, "products/upload-1", updated.ImageKey)
}

func TestUpdateWithoutImageKeepsAsset(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
		ImageURL: "https://blob.test/products/old", ImageKey: "products/old",
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	name := "Deep Ocean Blue"
	updated, err := svc.Update(context.Background(), 1, &model.ProductPatch{Name: &name}, nil)
	require.NoError(t, err)

	assert.Empty(t, assets.removeCalls)
	assert.Zero(t, assets.putCalls)
	assert.Equal(t, "products/old", updated.ImageKey)
}

func TestUpdateFailedUploadLeavesRecordUnchanged(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, ImageKey: "products/old",
	})
	assets := &fakeBlob{putErr: errors.New("bucket gone")}
	svc := NewProductService(products, assets, zap.NewNop())

	name := "Renamed"
	_, err := svc.Update(context.Background(), 1, &model.ProductPatch{Name: &name}, testUpload())

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)

	// The old asset got its single removal attempt, but the record was
	// never saved.
	assert.Len(t, assets.removeCalls, 1)
	stored := products.products[1]
	assert.Equal(t, "Ocean Blue", stored.Name)
	assert.Equal(t, "products/old", stored.ImageKey)
}

func TestUpdateRejectsNonImageUploadKeepsAsset(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
		ImageURL: "https://blob.test/products/old", ImageKey: "products/old",
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	upload := testUpload()
	upload.ContentType = "text/plain"
	_, err := svc.Update(context.Background(), 1, &model.ProductPatch{}, upload)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// The rejected upload must not have touched the blob store or the
	// record.
	assert.Empty(t, assets.removeCalls)
	assert.Zero(t, assets.putCalls)
	stored := products.products[1]
	assert.Equal(t, "products/old", stored.ImageKey)
	assert.Equal(t, "https://blob.test/products/old", stored.ImageURL)
}

func TestUpdateRejectsInvalidPatchValues(t *testing.T) {
	tests := []struct {
		name  string
		patch model.ProductPatch
		field string
	}{
		{"blank name", model.ProductPatch{Name: strPtr("  ")}, "name"},
		{"blank brand", model.ProductPatch{Brand: strPtr("")}, "brand"},
		{"zero price", model.ProductPatch{Price: floatPtr(0)}, "price"},
		{"negative price", model.ProductPatch{Price: floatPtr(-1)}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := newFakeProductStore(model.Product{
				Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
			})
			svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

			_, err := svc.Update(context.Background(), 1, &tt.patch, nil)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestDeleteRemovesRecordAndAsset(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, ImageKey: "products/old",
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 1))

	assert.Empty(t, products.products)
	assert.Equal(t, []string{"products/old"}, assets.removeCalls)
}

func TestDeleteCleanupFailureStillDeletes(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, ImageKey: "products/old",
	})
	assets := &fakeBlob{removeErr: errors.New("network down")}
	svc := NewProductService(products, assets, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 1))

	assert.Empty(t, products.products)
	assert.Len(t, assets.removeCalls, 1)
}

func TestDeleteReportsCleanupOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5, ImageKey: "products/old",
	})
	assets := &fakeBlob{removeErr: errors.New("network down")}
	svc := NewProductService(products, assets, zap.New(core))

	require.NoError(t, svc.Delete(context.Background(), 1))

	entries := logs.FilterMessage("Product deleted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].ContextMap()["asset_cleanup"])
}

func TestCleanupStatusString(t *testing.T) {
	assert.Equal(t, "none", CleanupNone.String())
	assert.Equal(t, "done", CleanupDone.String())
	assert.Equal(t, "failed", CleanupFailed.String())
}

func TestDeleteWithoutAssetSkipsBlob(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, assets.removeCalls)
}

func TestDeleteUnknownProduct(t *testing.T) {
	svc := NewProductService(newFakeProductStore(), &fakeBlob{}, zap.NewNop())
	assert.ErrorIs(t, svc.Delete(context.Background(), 42), ErrProductNotFound)
}

func TestReplaceImageSwapsAsset(t *testing.T) {
	before := time.Now().Add(-time.Hour)
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
		ImageKey: "products/old", UpdatedAt: before,
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	updated, err := svc.ReplaceImage(context.Background(), 1, testUpload())
	require.NoError(t, err)

	assert.Equal(t, []string{"products/old"}, assets.removeCalls)
	assert.Equal(t, "products/upload-1", updated.ImageKey)
	assert.True(t, updated.UpdatedAt.After(before))

	// Non-image fields are untouched.
	assert.Equal(t, "Ocean Blue", updated.Name)
	assert.Equal(t, 12.5, updated.Price)
}

func TestReplaceImageRequiresUpload(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
	})
	svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

	_, err := svc.ReplaceImage(context.Background(), 1, nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "image", validationErr.Field)
}

func TestReplaceImageRejectsNonImageUploadKeepsAsset(t *testing.T) {
	products := newFakeProductStore(model.Product{
		Name: "Ocean Blue", Brand: "Acme", Price: 12.5,
		ImageURL: "https://blob.test/products/old", ImageKey: "products/old",
	})
	assets := &fakeBlob{}
	svc := NewProductService(products, assets, zap.NewNop())

	upload := testUpload()
	upload.ContentType = "application/pdf"
	_, err := svc.ReplaceImage(context.Background(), 1, upload)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.Empty(t, assets.removeCalls)
	assert.Zero(t, assets.putCalls)
	stored := products.products[1]
	assert.Equal(t, "products/old", stored.ImageKey)
	assert.Equal(t, "https://blob.test/products/old", stored.ImageURL)
}

func TestReplaceImageUnknownProduct(t *testing.T) {
	svc := NewProductService(newFakeProductStore(), &fakeBlob{}, zap.NewNop())

	_, err := svc.ReplaceImage(context.Background(), 42, testUpload())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSearchMatchesSubstringAcrossFields(t *testing.T) {
	products := newFakeProductStore(
		model.Product{Name: "Ocean Blue", Brand: "Redwood", Price: 12.5},
		model.Product{Name: "Snow White", Brand: "Acme", Price: 9.5},
	)
	svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

	matched, err := svc.Search(context.Background(), "red")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Redwood", matched[0].Brand)
	assert.Equal(t, "red", products.lastQuery)

	empty, err := svc.Search(context.Background(), "violet")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListReturnsNewestFirst(t *testing.T) {
	now := time.Now()
	products := newFakeProductStore(
		model.Product{Name: "Older", Brand: "Acme", Price: 1, UpdatedAt: now.Add(-time.Hour)},
		model.Product{Name: "Newer", Brand: "Acme", Price: 1, UpdatedAt: now},
	)
	svc := NewProductService(products, &fakeBlob{}, zap.NewNop())

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Newer", all[0].Name)
	assert.Equal(t, "Older", all[1].Name)
}
