package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/markb/shoplite/internal/catalog"
	"github.com/markb/shoplite/internal/log"
)

// Cache keys for the product list cache. Only the public (available-only)
// view is cached; admin reads always hit the database.
const listCacheKey = "available"

// productRequest represents the JSON body for create and update requests.
type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImagePath   string `json:"image_path"`
}

// availabilityRequest represents the JSON body for availability toggles.
type availabilityRequest struct {
	Available bool `json:"available"`
}

// productsResponse wraps a product list.
type productsResponse struct {
	Products []catalog.Product `json:"products"`
}

// uploadResponse returns the public path of a stored upload.
type uploadResponse struct {
	Path string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// handleListProducts serves the public storefront listing.
//
// GET /api/products
//
// Returns available products only. Responses are cached for the configured
// TTL; admin mutations invalidate the cache.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := s.listCache.GetOrLoad(ctx, listCacheKey, func(ctx context.Context) ([]catalog.Product, error) {
		conn, err := s.pgDatabase.Connect(ctx)
		if err != nil {
			return nil, err
		}
		defer conn.Close(ctx)
		return catalog.List(ctx, conn, false)
	})
	if err != nil {
		log.Error("failed to list products", "error", err)
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}

	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

// handleGetProduct serves a single product by ID.
//
// GET /api/products/{id}
//
// Unavailable products return 404 on the public API so toggling availability
// removes them from the storefront entirely.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := s.productCache.GetOrLoad(ctx, id, func(ctx context.Context) (catalog.Product, error) {
		conn, err := s.pgDatabase.Connect(ctx)
		if err != nil {
			return catalog.Product{}, err
		}
		defer conn.Close(ctx)

		p, err := catalog.GetByID(ctx, conn, id)
		if err != nil {
			return catalog.Product{}, err
		}
		return *p, nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to load product", "error", err)
		http.Error(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	if !product.Available {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// handleAdminListProducts serves the full catalog, including unavailable
// products.
//
// GET /admin/api/products
func (s *Server) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := s.pgDatabase.Connect(ctx)
	if err != nil {
		log.Error("database connection failed", "error", err)
		http.Error(w, "database connection failed", http.StatusInternalServerError)
		return
	}
	defer conn.Close(ctx)

	products, err := catalog.List(ctx, conn, true)
	if err != nil {
		log.Error("failed to list products", "error", err)
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}

	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

// handleCreateProduct creates a product.
//
// POST /admin/api/products
//
// Request body:
//
//	{"name": "Mug", "description": "...", "price_cents": 1250, "image_path": "/uploads/..."}
//
// Returns 201 with the created product, 400 for invalid input.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.PriceCents < 0 {
		http.Error(w, "price_cents must not be negative", http.StatusBadRequest)
		return
	}

	conn, err := s.pgDatabase.Connect(ctx)
	if err != nil {
		log.Error("database connection failed", "error", err)
		http.Error(w, "database connection failed", http.StatusInternalServerError)
		return
	}
	defer conn.Close(ctx)

	product, err := catalog.Create(ctx, conn, req.Name, req.Description, req.PriceCents, req.ImagePath)
	if err != nil {
		log.Error("failed to create product", "error", err)
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	s.listCache.Invalidate(listCacheKey)
	writeJSON(w, http.StatusCreated, product)
}

// handleUpdateProduct replaces a product's editable fields.
//
// PUT /admin/api/products/{id}
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.PriceCents < 0 {
		http.Error(w, "price_cents must not be negative", http.StatusBadRequest)
		return
	}

	conn, err := s.pgDatabase.Connect(ctx)
	if err != nil {
		log.Error("database connection failed", "error", err)
		http.Error(w, "database connection failed", http.StatusInternalServerError)
		return
	}
	defer conn.Close(ctx)

	product, err := catalog.Update(ctx, conn, id, req.Name, req.Description, req.PriceCents, req.ImagePath)
	if errors.Is(err, pgx.ErrNoRows) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to update product", "error", err)
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}

	s.listCache.Invalidate(listCacheKey)
	s.productCache.Invalidate(id)
	writeJSON(w, http.StatusOK, product)
}

// handleDeleteProduct removes a product.
//
// DELETE /admin/api/products/{id}
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	conn, err := s.pgDatabase.Connect(ctx)
	if err != nil {
		log.Error("database connection failed", "error", err)
		http.Error(w, "database connection failed", http.StatusInternalServerError)
		return
	}
	defer conn.Close(ctx)

	err = catalog.Delete(ctx, conn, id)
	if errors.Is(err, pgx.ErrNoRows) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to delete product", "error", err)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}

	s.listCache.Invalidate(listCacheKey)
	s.productCache.Invalidate(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleSetAvailability toggles whether a product shows on the storefront.
//
// POST /admin/api/products/{id}/availability
//
// Request body: {"available": false}
func (s *Server) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	conn, err := s.pgDatabase.Connect(ctx)
	if err != nil {
		log.Error("database connection failed", "error", err)
		http.Error(w, "database connection failed", http.StatusInternalServerError)
		return
	}
	defer conn.Close(ctx)

	err = catalog.SetAvailability(ctx, conn, id, req.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to update availability", "error", err)
		http.Error(w, "failed to update availability", http.StatusInternalServerError)
		return
	}

	s.listCache.Invalidate(listCacheKey)
	s.productCache.Invalidate(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpload stores a product image.
//
// POST /admin/api/uploads
//
// Accepts a multipart form with a "file" field and returns the public path
// of the stored file:
//
//	{"path": "/uploads/<uuid>-mug.png"}
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	const maxUploadBytes = 32 << 20

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	stored, err := s.uploadStore.Save(header.Filename, file)
	if err != nil {
		http.Error(w, "upload rejected", http.StatusBadRequest)
		return
	}

	log.Info("stored upload", "file", stored)
	writeJSON(w, http.StatusCreated, uploadResponse{Path: "/uploads/" + stored})
}
