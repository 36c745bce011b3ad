package services

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/dto"
)

// ClientReaderSvc defines read operations for clients
type ClientReaderSvc interface {
	// GetClientByID retrieves a client within the caller's company.
	GetClientByID(ctx context.Context, callerID string, clientID string) (*domain.Client, error)

	// ListClients lists the caller's company's clients.
	ListClients(ctx context.Context, callerID string, params dto.ListClientsParams) ([]domain.Client, error)
}

// ClientWriterSvc defines write operations for clients
type ClientWriterSvc interface {
	// CreateClient creates a client in the caller's company.
	CreateClient(ctx context.Context, callerID string, req dto.CreateClientRequest) (*domain.Client, error)

	// UpdateClient updates a client's details. Invoice snapshots are unaffected.
	UpdateClient(ctx context.Context, callerID string, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)

	// DeleteClient soft-deletes a client. Its invoices remain intact.
	DeleteClient(ctx context.Context, callerID string, clientID string) error
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
