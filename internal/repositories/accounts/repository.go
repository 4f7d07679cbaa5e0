package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/models"
)

type Repository interface {
	FindByUserID(ctx context.Context, userID string) ([]models.Account, error)
	Insert(ctx context.Context, a *models.Account) error
	UpdatePassword(ctx context.Context, id, hash, providerID string, now time.Time) error
	UpdateProvider(ctx context.Context, userID, from, to string, now time.Time) (int64, error)
}
