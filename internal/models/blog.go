package models

import "time"

type Blog struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CategoryID  *string   `json:"category"`
	Author      *string   `json:"author"`
	Image       *string   `json:"image"`
	NumViews    int64     `json:"numViews"`
	Likes       []string  `json:"likes"`
	Dislikes    []string  `json:"dislikes"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BlogInput struct {
	Title       string
	Slug        string
	Description *string
	CategoryID  *string
	Author      *string
}

// Reaction is a user's stance on a blog post.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Opposite returns the reaction that excludes r.
func (r Reaction) Opposite() Reaction {
	if r == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}
