package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/invobook/invoicing_app/internal/models"
	"github.com/invobook/invoicing_app/internal/utils/mapping"
)

type PgxClientRepository struct {
	db *pgxpool.Pool
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepository {
	return &PgxClientRepository{db: db}
}

var _ portsrepo.ClientRepository = (*PgxClientRepository)(nil)

const clientColumns = `client_id, company_id, name, email, phone, tax_id, address, is_deleted, created_at, created_by, last_updated_at, last_updated_by`

func scanClient(row pgx.Row) (*models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID,
		&m.CompanyID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.TaxID,
		&m.Address,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
        INSERT INTO clients (` + clientColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.db.Exec(ctx, query,
		m.ClientID, m.CompanyID, m.Name, m.Email, m.Phone, m.TaxID, m.Address, m.IsDeleted,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	m, err := scanClient(r.db.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID %s: %w", clientID, err)
	}
	client := mapping.ToDomainClient(*m)
	return &client, nil
}

func (r *PgxClientRepository) ListClientsByCompany(ctx context.Context, companyID string, includeDeleted bool, limit int, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1`
	if !includeDeleted {
		query += ` AND is_deleted = FALSE`
	}
	query += ` ORDER BY name ASC LIMIT $2 OFFSET $3;`

	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, mapping.ToDomainClient(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
        UPDATE clients
        SET name = $2, email = $3, phone = $4, tax_id = $5, address = $6,
            last_updated_at = $7, last_updated_by = $8
        WHERE client_id = $1 AND is_deleted = FALSE;
    `
	tag, err := r.db.Exec(ctx, query,
		m.ClientID, m.Name, m.Email, m.Phone, m.TaxID, m.Address,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", client.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxClientRepository) MarkClientDeleted(ctx context.Context, clientID string, deletedBy string, deletedAt time.Time) error {
	query := `
        UPDATE clients
        SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
        WHERE client_id = $1 AND is_deleted = FALSE;
    `
	tag, err := r.db.Exec(ctx, query, clientID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to mark client %s deleted: %w", clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
