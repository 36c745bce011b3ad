package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

// clientService implements the ClientSvcFacade interface
type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo portsrepo.ClientRepository, userRepo portsrepo.UserRepository) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService: BaseService{userRepo: userRepo},
		clientRepo:  clientRepo,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) GetClientByID(ctx context.Context, callerID string, clientID string) (*domain.Client, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		}
		return nil, err
	}

	if client.CompanyID != companyID {
		// NotFound rather than Forbidden to obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, callerID string, params dto.ListClientsParams) ([]domain.Client, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	clients, err := s.clientRepo.ListClientsByCompany(ctx, companyID, params.IncludeDeleted, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients", slog.String("company_id", companyID))
		return nil, err
	}
	return clients, nil
}

func (s *clientService) CreateClient(ctx context.Context, callerID string, req dto.CreateClientRequest) (*domain.Client, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	client := domain.Client{
		ClientID:  uuid.NewString(),
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		TaxID:     req.TaxID,
		Address:   req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}
	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("client_id", client.ClientID))
		return nil, err
	}

	s.LogInfo(ctx, "Client created",
		slog.String("client_id", client.ClientID),
		slog.String("company_id", companyID))
	return &client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, callerID string, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.GetClientByID(ctx, callerID, clientID)
	if err != nil {
		return nil, err
	}
	if client.IsDeleted {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.TaxID != nil {
		client.TaxID = req.TaxID
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	client.LastUpdatedAt = time.Now()
	client.LastUpdatedBy = callerID

	// Existing invoices keep their snapshot of the client's details.
	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, callerID string, clientID string) error {
	client, err := s.GetClientByID(ctx, callerID, clientID)
	if err != nil {
		return err
	}
	if client.IsDeleted {
		return nil // already deleted, idempotent
	}

	if err := s.clientRepo.MarkClientDeleted(ctx, clientID, callerID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return err
	}

	s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID))
	return nil
}
