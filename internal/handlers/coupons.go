package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

type CouponService interface {
	List(ctx context.Context) ([]*models.Coupon, error)
	Get(ctx context.Context, id string) (*models.Coupon, error)
	Create(ctx context.Context, in models.CouponInput) (*models.Coupon, error)
	Update(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error)
	Delete(ctx context.Context, id string) error
}

type CouponRequest struct {
	Name     string    `json:"name" validate:"required"`
	Expiry   time.Time `json:"expiry"`
	Discount float64   `json:"discount" validate:"gt=0,lte=100"`
}

func (req CouponRequest) input() models.CouponInput {
	return models.CouponInput{Name: req.Name, Expiry: req.Expiry, Discount: req.Discount}
}

type CouponHandler struct {
	service CouponService
}

func NewCouponHandler(service CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"coupons": coupons})
}

func (h *CouponHandler) Get(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"coupon": coupon})
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	coupon, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"coupon":  coupon,
		"message": "Coupon created successfully",
	})
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	coupon, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"coupon":  coupon,
		"message": "Coupon updated successfully",
	})
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Coupon deleted successfully"})
}
