package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

type BrandService interface {
	List(ctx context.Context) ([]*models.Brand, error)
	Get(ctx context.Context, id string) (*models.Brand, error)
	Create(ctx context.Context, name string, logo *string) (*models.Brand, error)
	Update(ctx context.Context, id, name string, logo *string) (*models.Brand, error)
	Delete(ctx context.Context, id string) error
}

type BrandRequest struct {
	Name string  `json:"name" validate:"required"`
	Logo *string `json:"logo" validate:"omitempty,url"`
}

type BrandHandler struct {
	service BrandService
}

func NewBrandHandler(service BrandService) *BrandHandler {
	return &BrandHandler{service: service}
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"brands": brands})
}

func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"brand": brand})
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	brand, err := h.service.Create(r.Context(), req.Name, req.Logo)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"brand":   brand,
		"message": "Brand created successfully",
	})
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	brand, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Logo)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"brand":   brand,
		"message": "Brand updated successfully",
	})
}

func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Brand deleted successfully"})
}
