package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

type ProductCategoryService interface {
	List(ctx context.Context) ([]*models.ProductCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error)
	Create(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error)
	Update(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error)
	Delete(ctx context.Context, id string) error
}

type BlogCategoryService interface {
	List(ctx context.Context) ([]*models.BlogCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogCategory, error)
	Create(ctx context.Context, name string) (*models.BlogCategory, error)
	Update(ctx context.Context, id, name string) (*models.BlogCategory, error)
	Delete(ctx context.Context, id string) error
}

type ProductCategoryRequest struct {
	Name           string  `json:"name" validate:"required"`
	ParentCategory *string `json:"parentCategory" validate:"omitempty,uuid"`
	Icon           *string `json:"icon"`
	Photo          *string `json:"photo"`
}

func (req ProductCategoryRequest) input() models.ProductCategoryInput {
	return models.ProductCategoryInput{
		Name:     req.Name,
		ParentID: req.ParentCategory,
		Icon:     req.Icon,
		Photo:    req.Photo,
	}
}

type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

type ProductCategoryHandler struct {
	service ProductCategoryService
}

func NewProductCategoryHandler(service ProductCategoryService) *ProductCategoryHandler {
	return &ProductCategoryHandler{service: service}
}

func (h *ProductCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *ProductCategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"category": cat})
}

func (h *ProductCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cat, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"category": cat,
		"message":  "Category created successfully",
	})
}

func (h *ProductCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cat, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"category": cat,
		"message":  "Category updated successfully",
	})
}

func (h *ProductCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

type BlogCategoryHandler struct {
	service BlogCategoryService
}

func NewBlogCategoryHandler(service BlogCategoryService) *BlogCategoryHandler {
	return &BlogCategoryHandler{service: service}
}

func (h *BlogCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *BlogCategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"category": cat})
}

func (h *BlogCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cat, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"category": cat,
		"message":  "Category created successfully",
	})
}

func (h *BlogCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cat, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"category": cat,
		"message":  "Category updated successfully",
	})
}

func (h *BlogCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
