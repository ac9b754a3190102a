package models

import "time"

type Product struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	ShortDesc   *string        `json:"shortDesc"`
	LongDesc    *string        `json:"longDesc"`
	Price       float64        `json:"price"`
	Quantity    int            `json:"quantity"`
	Sold        int            `json:"sold"`
	CategoryIDs []string       `json:"category"`
	BrandID     *string        `json:"brand"`
	Tags        []string       `json:"tags"`
	Colors      []string       `json:"color"`
	Sizes       []string       `json:"size"`
	Thumbnail   *string        `json:"productThumbnails"`
	Images      []ProductImage `json:"images"`
	Ratings     []Rating       `json:"ratings"`
	TotalRating int            `json:"totalRating"`
	Status      bool           `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Title       string
	Slug        string
	ShortDesc   *string
	LongDesc    *string
	Price       float64
	Quantity    int
	CategoryIDs []string
	BrandID     *string
	Tags        []string
	Colors      []string
	Sizes       []string
}

type ProductImage struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	StorageKey string    `json:"publicId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Rating is one user's star rating of a product. A user holds at most one
// rating per product.
type Rating struct {
	UserID    string    `json:"postedBy"`
	Star      int       `json:"star"`
	Comment   *string   `json:"comment"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []*Product
	Total    int64
	Page     int
	Limit    int
}
