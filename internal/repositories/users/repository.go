package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/models"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string, limit int) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	SetRole(ctx context.Context, id string, role models.Role, now time.Time) error
}
