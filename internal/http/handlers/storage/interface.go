package storage

import (
	"context"

	"github.com/trakio/trakio/internal/models"
)

type Service interface {
	Get(ctx context.Context, email string) ([]models.Subscription, error)
	Save(ctx context.Context, email string, subs []models.Subscription) error
	Sync(ctx context.Context, email string, pending []models.Subscription) (int, error)
}
