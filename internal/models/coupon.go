package models

import "time"

type Coupon struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Expiry    time.Time `json:"expiry"`
	Discount  float64   `json:"discount"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsExpired reports whether the coupon can no longer be redeemed.
func (c *Coupon) IsExpired() bool {
	return time.Now().After(c.Expiry)
}

type CouponInput struct {
	Name     string
	Expiry   time.Time
	Discount float64
}
