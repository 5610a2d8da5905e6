package domain

import "time"

// Role is a platform role. Admins are the only role this engine acts
// for directly (manual verification, fulfillment, notifications).
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleTutor  Role = "tutor"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PrimaryEmail string    `db:"primary_email" json:"primary_email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
