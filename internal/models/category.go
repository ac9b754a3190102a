package models

import "time"

type ProductCategory struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	ParentID       *string   `json:"parentCategory"`
	SubCategoryIDs []string  `json:"subCategory"`
	Icon           *string   `json:"icon"`
	Photo          *string   `json:"photo"`
	Status         bool      `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ProductCategoryInput struct {
	Name     string
	Slug     string
	ParentID *string
	Icon     *string
	Photo    *string
}

type BlogCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
