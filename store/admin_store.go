package store

import (
	"context"
	"fmt"
	"strings"

	"ecomdash/api/models"
)

// AdminStore knows the single operator account, configured through the environment.
type AdminStore struct {
	admin *models.Admin
}

// NewAdminStore returns a store without any account when email or hash is empty.
func NewAdminStore(email, passwordHash string) *AdminStore {
	if email == "" || passwordHash == "" {
		return &AdminStore{}
	}
	return &AdminStore{admin: &models.Admin{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		HashedPassword: []byte(passwordHash),
	}}
}

func (s *AdminStore) Enabled() bool { return s.admin != nil }

func (s *AdminStore) GetAdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	if s.admin == nil || !strings.EqualFold(strings.TrimSpace(email), s.admin.Email) {
		return nil, fmt.Errorf("admin with email '%s' not found", email)
	}
	return s.admin, nil
}
