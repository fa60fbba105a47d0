package models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Admin is the single dashboard operator allowed to trigger reloads.
type Admin struct {
	Email          string `json:"email"`
	HashedPassword []byte `json:"-"`
}
