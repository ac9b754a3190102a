package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	List(ctx context.Context, params url.Values) (*services.ProductListing, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Rate(ctx context.Context, userID, productID string, star int, comment *string) (*models.Product, error)
	AddImages(ctx context.Context, productID string, files []services.Upload) (*models.Product, error)
}

// WishlistService toggles wishlist membership.
type WishlistService interface {
	ToggleWishlist(ctx context.Context, userID, productID string) ([]string, bool, error)
}

type ProductHandler struct {
	service  ProductService
	wishlist WishlistService
}

func NewProductHandler(service ProductService, wishlist WishlistService) *ProductHandler {
	return &ProductHandler{service: service, wishlist: wishlist}
}

type ProductRequest struct {
	Title     string   `json:"title" validate:"required"`
	ShortDesc *string  `json:"shortDesc"`
	LongDesc  *string  `json:"longDesc"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
	Quantity  *int     `json:"quantity" validate:"required,gte=0"`
	Category  []string `json:"category" validate:"omitempty,dive,uuid"`
	Brand     *string  `json:"brand" validate:"omitempty,uuid"`
	Tags      []string `json:"tags"`
	Color     []string `json:"color"`
	Size      []string `json:"size"`
}

func (req ProductRequest) input() models.ProductInput {
	return models.ProductInput{
		Title:       req.Title,
		ShortDesc:   req.ShortDesc,
		LongDesc:    req.LongDesc,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		CategoryIDs: req.Category,
		BrandID:     req.Brand,
		Tags:        req.Tags,
		Colors:      req.Color,
		Sizes:       req.Size,
	}
}

type WishlistRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

type RatingRequest struct {
	ProductID string  `json:"productId" validate:"required,uuid"`
	Star      int     `json:"star" validate:"required,gte=1,lte=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

// ListProducts runs a catalog query from the URL parameters
// @Router /product/all [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.List(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, listing)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"product": product,
		"message": "Product created successfully",
	})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"product": product,
		"message": "Product updated successfully",
	})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// ToggleWishlist adds or removes a product on the caller's wishlist
// @Router /product/wishlist [put]
func (h *ProductHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "not authorized, please login")
		return
	}

	var req WishlistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ids, added, err := h.wishlist.ToggleWishlist(r.Context(), user.ID, req.ProductID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Product removed from wishlist"
	if added {
		message = "Product added to wishlist"
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"wishlist": ids,
		"added":    added,
		"message":  message,
	})
}

// Rate records the caller's star rating
// @Router /product/rating [put]
func (h *ProductHandler) Rate(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "not authorized, please login")
		return
	}

	var req RatingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.Rate(r.Context(), user.ID, req.ProductID, req.Star, req.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"product": product,
		"message": "Rating saved",
	})
}

// UploadImages attaches multipart "images" to a product
// @Router /product/{id}/images [post]
func (h *ProductHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	files, release, err := openUploads(w, r, "images", services.MaxImagesPerUpload)
	defer release()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	product, err := h.service.AddImages(r.Context(), chi.URLParam(r, "id"), files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"product": product,
		"message": "Images uploaded successfully",
	})
}
