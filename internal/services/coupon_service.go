package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
)

// CouponRepository defines the interface for coupon data access
type CouponRepository interface {
	Create(ctx context.Context, in models.CouponInput) (*models.Coupon, error)
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	List(ctx context.Context) ([]*models.Coupon, error)
	Update(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error)
	Delete(ctx context.Context, id string) error
}

type CouponService struct {
	repo   CouponRepository
	logger *slog.Logger
}

func NewCouponService(repo CouponRepository, logger *slog.Logger) *CouponService {
	return &CouponService{repo: repo, logger: logger}
}

// normalizeCoupon upper-cases the code and bounds the discount percentage.
func normalizeCoupon(in models.CouponInput) (models.CouponInput, error) {
	in.Name = strings.ToUpper(strings.TrimSpace(in.Name))
	if in.Name == "" {
		return in, models.NewValidationError("name is required")
	}
	if in.Expiry.IsZero() {
		return in, models.NewValidationError("expiry is required")
	}
	if in.Discount <= 0 || in.Discount > 100 {
		return in, models.NewValidationError("discount must be greater than 0 and at most 100")
	}
	return in, nil
}

func (s *CouponService) List(ctx context.Context) ([]*models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "failed to list coupons", err)
	}
	return coupons, nil
}

func (s *CouponService) Get(ctx context.Context, id string) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "failed to get coupon", err, slog.String("coupon_id", id))
	}
	return coupon, nil
}

func (s *CouponService) Create(ctx context.Context, in models.CouponInput) (*models.Coupon, error) {
	in, err := normalizeCoupon(in)
	if err != nil {
		return nil, err
	}

	coupon, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to create coupon", err)
	}

	s.logger.Info("coupon created", slog.String("coupon_id", coupon.ID))
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error) {
	in, err := normalizeCoupon(in)
	if err != nil {
		return nil, err
	}

	coupon, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to update coupon", err, slog.String("coupon_id", id))
	}

	s.logger.Info("coupon updated", slog.String("coupon_id", id))
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(s.logger, "failed to delete coupon", err, slog.String("coupon_id", id))
	}
	s.logger.Info("coupon deleted", slog.String("coupon_id", id))
	return nil
}
