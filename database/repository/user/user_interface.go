package userRepo

import "classhub/models"

// UserRepository defines the user lookups the booking engine needs. Account
// management itself lives outside this service.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
}
