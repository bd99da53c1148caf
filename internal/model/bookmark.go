package model

import "time"

const BookmarkEntityPlan = "plan"

type Bookmark struct {
	ID         int       `json:"id"`
	UserID     string    `json:"user_id"`
	EntityType string    `json:"entity_type"`
	EntityID   int       `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookmarkItem is one row of the bookmark listing, joined with plan data.
type BookmarkItem struct {
	PlanID       int       `json:"plan_id"`
	Title        string    `json:"title"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Href         string    `json:"href"`
}
