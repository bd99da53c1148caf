package model

import "time"

const (
	FAQAudienceUser  = "user"
	FAQAudienceAdmin = "admin"
)

type FAQ struct {
	ID          int       `json:"id"`
	Audience    string    `json:"audience"`
	Category    *string   `json:"category,omitempty"`
	Question    string    `json:"question"`
	AnswerMD    string    `json:"answer_md"`
	SortOrder   int       `json:"sort_order"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
