// Package users is the user directory: lookup and persistence of accounts.
package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hrportal/internal/server/models"
)

// Repository finds and stores users. Lookups that match nothing return
// common.ErrorNotFound; inserting a taken email returns common.ErrAlreadyExists.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.User, error)
	SetPasswordHash(ctx context.Context, id int64, digest string) (*models.User, error)
}

// NormalizeEmail is applied to every email before it is stored or looked up,
// which makes email matching case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
