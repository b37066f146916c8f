// Package handler contains the Echo handlers. Handlers stay thin: bind,
// call the injected service, map the result onto the HTTP contract.
package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Swarnab2026/colour-shop/internal/model"
	"github.com/Swarnab2026/colour-shop/internal/service"
	"github.com/Swarnab2026/colour-shop/pkg/logger"
)

// ProductHandler serves the public catalog reads and the admin mutations.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler returns a handler backed by the given service.
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// createProductRequest accepts JSON bodies and multipart forms alike; the
// optional image rides the form's "image" part, never the body fields.
type createProductRequest struct {
	Name        string  `json:"name" form:"name"`
	Brand       string  `json:"brand" form:"brand"`
	Color       string  `json:"color" form:"color"`
	ColorCode   string  `json:"color_code" form:"color_code"`
	Size        string  `json:"size" form:"size"`
	Quantity    int     `json:"quantity" form:"quantity"`
	Price       float64 `json:"price" form:"price"`
	Category    string  `json:"category" form:"category"`
	Description string  `json:"description" form:"description"`
}

// List returns every product, most recently updated first.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.products.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// Get returns a single product by id.
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, ok := productID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		log.Warn("Product lookup failed", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// Search returns products whose name, brand, category or color contains
// the query, case-insensitively.
func (h *ProductHandler) Search(c echo.Context) error {
	log := logger.FromContext(c)

	query := c.Param("q")
	if decoded, err := url.PathUnescape(query); err == nil {
		query = decoded
	}

	products, err := h.products.Search(c.Request().Context(), query)
	if err != nil {
		log.Error("Product search failed", zap.String("query", query), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Product search completed",
		zap.String("query", query),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// Create adds a new product. Name, brand and a positive price are
// required; an "image" part attaches a picture.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid product payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		log.Warn("Unreadable image upload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid image upload"})
	}
	if closeImage != nil {
		defer closeImage()
	}

	product, err := h.products.Create(c.Request().Context(), service.CreateInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Color:       req.Color,
		ColorCode:   req.ColorCode,
		Size:        req.Size,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
	}, image)
	if err != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// Update applies a sparse patch: omitted fields keep their stored values.
// An "image" part replaces the product image.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	id, ok := productID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	var patch model.ProductPatch
	if err := c.Bind(&patch); err != nil {
		log.Warn("Invalid product payload", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		log.Warn("Unreadable image upload", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid image upload"})
	}
	if closeImage != nil {
		defer closeImage()
	}

	product, err := h.products.Update(c.Request().Context(), id, &patch, image)
	if err != nil {
		log.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Product updated", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product and best-effort deletes its stored image.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, ok := productID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// ReplaceImage swaps only the product image; the "image" part is required.
func (h *ProductHandler) ReplaceImage(c echo.Context) error {
	log := logger.FromContext(c)

	id, ok := productID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product id"})
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		log.Warn("Unreadable image upload", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid image upload"})
	}
	if closeImage != nil {
		defer closeImage()
	}
	if image == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Image file is required"})
	}

	product, err := h.products.ReplaceImage(c.Request().Context(), id, image)
	if err != nil {
		log.Error("Failed to replace product image", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Product image replaced", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, product)
}

// formImage extracts the optional "image" part of a multipart form. A
// missing part, or a request that is not multipart at all, means no
// upload; any other failure to read the form is reported. The returned
// closer is non-nil exactly when an upload is.
func formImage(c echo.Context) (*service.Upload, func(), error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &service.Upload{
		Reader:      src,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
		Filename:    file.Filename,
	}
	return upload, func() { _ = src.Close() }, nil
}
