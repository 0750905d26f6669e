package entity

import "time"

// Role of a marketplace account.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleBroker Role = "broker"
	RoleAdmin  Role = "admin"
)

// User is the aggregate root for the account domain. PasswordHash holds a
// bcrypt digest and must never be serialized to any caller.
type User struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Verified     bool
	CreatedAt    time.Time
}

// Public returns the externally visible summary of the user. This is the only
// user shape handlers are allowed to emit.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     string(u.Role),
		IsActive: u.Verified,
	}
}

// PublicUser is the wire representation of an account. It deliberately has no
// password field.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
