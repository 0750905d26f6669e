package entity

import "time"

type NotificationType string

const (
	NotifyTransactionSuccess NotificationType = "transaction_success"
	NotifyNewMessage         NotificationType = "new_message"
	NotifyListingUpdate      NotificationType = "listing_update"
	NotifyAccountAlert       NotificationType = "account_alert"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
