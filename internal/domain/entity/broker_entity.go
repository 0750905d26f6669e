package entity

import "time"

// BrokerProfile is the one-to-one professional profile of a broker account.
type BrokerProfile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	LicenseNumber   string    `json:"license_number"`
	Bio             string    `json:"bio,omitempty"`
	YearsExperience int       `json:"years_experience"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
}
