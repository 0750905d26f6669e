package entity

import "time"

// Review is a 1-5 star rating one user leaves for another (typically a buyer
// rating a seller or broker).
type Review struct {
	ID           string    `json:"id"`
	ReviewerID   string    `json:"reviewer_id"`
	TargetUserID string    `json:"target_user_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
