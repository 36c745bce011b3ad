package repositories

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// ClientRepository defines persistence operations for a company's clients.
type ClientRepository interface {
	SaveClient(ctx context.Context, client domain.Client) error
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClientsByCompany(ctx context.Context, companyID string, includeDeleted bool, limit int, offset int) ([]domain.Client, error)
	UpdateClient(ctx context.Context, client domain.Client) error
	MarkClientDeleted(ctx context.Context, clientID string, deletedBy string, deletedAt time.Time) error
}
