package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepository
	clientRepo  portsrepo.ClientRepository
	txnRepo     portsrepo.TransactionRepository
	notifier    portssvc.NotificationDispatchSvc
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepository,
	clientRepo portsrepo.ClientRepository,
	txnRepo portsrepo.TransactionRepository,
	userRepo portsrepo.UserRepository,
	notifier portssvc.NotificationDispatchSvc,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService: BaseService{userRepo: userRepo},
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		txnRepo:     txnRepo,
		notifier:    notifier,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) GetInvoiceByID(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	if invoice.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, callerID string, params dto.ListInvoicesParams) ([]domain.Invoice, string, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, "", err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var status *domain.InvoiceStatus
	if params.Status != "" {
		st := domain.InvoiceStatus(params.Status)
		switch st {
		case domain.InvoiceDraft, domain.InvoiceSent, domain.InvoiceUnpaid, domain.InvoicePaid, domain.InvoiceOverdue:
			status = &st
		default:
			return nil, "", fmt.Errorf("unknown invoice status %q: %w", params.Status, apperrors.ErrValidation)
		}
	}

	var clientID *string
	if params.ClientID != "" {
		clientID = &params.ClientID
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	invoices, next, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, status, clientID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("company_id", companyID))
		return nil, "", err
	}

	out := ""
	if next != nil {
		out = *next
	}
	return invoices, out, nil
}

// buildItems computes per-line and grand totals with decimal arithmetic.
func buildItems(invoiceID string, reqItems []dto.InvoiceItemRequest) ([]domain.InvoiceItem, decimal.Decimal) {
	items := make([]domain.InvoiceItem, len(reqItems))
	total := decimal.Zero
	for i, it := range reqItems {
		lineTotal := it.Quantity.Mul(it.UnitPrice)
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       lineTotal,
		}
		total = total.Add(lineTotal)
	}
	return items, total
}

func (s *invoiceService) CreateInvoice(ctx context.Context, callerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if req.DueDate.IsZero() {
		// No default substitution: a missing due date is the caller's error.
		return nil, fmt.Errorf("dueDate is required: %w", apperrors.ErrValidation)
	}

	client, err := s.clientRepo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("client not found: %w", apperrors.ErrValidation)
		}
		return nil, err
	}
	if client.CompanyID != companyID || client.IsDeleted {
		return nil, fmt.Errorf("client not found: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}

	invoiceID := uuid.NewString()
	items, total := buildItems(invoiceID, req.Items)

	invoice := domain.Invoice{
		InvoiceID:   invoiceID,
		CompanyID:   companyID,
		ClientID:    client.ClientID,
		ClientName:  client.Name,
		ClientEmail: client.Email,
		ClientTaxID: client.TaxID,
		Items:       items,
		TotalAmount: total,
		AmountPaid:  decimal.Zero,
		IssueDate:   issueDate,
		DueDate:     req.DueDate,
		Status:      domain.InvoiceDraft,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}
	if err := invoice.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	// The repository assigns the per-company invoice number inside the same
	// transaction that inserts the rows.
	saved, err := s.invoiceRepo.SaveInvoice(ctx, invoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to save invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", saved.InvoiceID),
		slog.String("invoice_number", saved.InvoiceNumber),
		slog.String("company_id", companyID))
	return saved, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, callerID string, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	invoice, err := s.GetInvoiceByID(ctx, callerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("only DRAFT invoices can be edited: %w", apperrors.ErrValidation)
	}

	if req.ClientID != nil && *req.ClientID != invoice.ClientID {
		client, err := s.clientRepo.FindClientByID(ctx, *req.ClientID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("client not found: %w", apperrors.ErrValidation)
			}
			return nil, err
		}
		if client.CompanyID != invoice.CompanyID || client.IsDeleted {
			return nil, fmt.Errorf("client not found: %w", apperrors.ErrValidation)
		}
		invoice.ClientID = client.ClientID
		invoice.ClientName = client.Name
		invoice.ClientEmail = client.Email
		invoice.ClientTaxID = client.TaxID
	}
	if req.IssueDate != nil {
		invoice.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		if req.DueDate.IsZero() {
			return nil, fmt.Errorf("dueDate is required: %w", apperrors.ErrValidation)
		}
		invoice.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.Items != nil {
		items, total := buildItems(invoice.InvoiceID, req.Items)
		invoice.Items = items
		invoice.TotalAmount = total
	}
	invoice.LastUpdatedAt = time.Now()
	invoice.LastUpdatedBy = callerID

	if err := invoice.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	if err := s.invoiceRepo.UpdateDraftInvoice(ctx, *invoice); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, callerID string, invoiceID string) error {
	invoice, err := s.GetInvoiceByID(ctx, callerID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceDraft {
		return fmt.Errorf("only DRAFT invoices can be deleted: %w", apperrors.ErrValidation)
	}

	if err := s.invoiceRepo.DeleteDraftInvoice(ctx, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoiceByID(ctx, callerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("only DRAFT invoices can be sent: %w", apperrors.ErrValidation)
	}

	sent, err := s.invoiceRepo.MarkInvoiceSent(ctx, invoiceID, callerID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to mark invoice sent", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyCompanyAdmins(ctx, sent.CompanyID, domain.Notification{
			CompanyID: &sent.CompanyID,
			Type:      domain.NotifyInvoiceSent,
			Priority:  domain.PriorityNormal,
			Title:     "Invoice sent",
			Message:   fmt.Sprintf("Invoice %s to %s was sent.", sent.InvoiceNumber, sent.ClientName),
			Link:      "/invoices/" + sent.InvoiceID,
			Metadata:  map[string]any{"invoiceID": sent.InvoiceID},
		})
	}

	s.LogInfo(ctx, "Invoice sent", slog.String("invoice_id", invoiceID))
	return sent, nil
}

func (s *invoiceService) RecordPayment(ctx context.Context, callerID string, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error) {
	invoice, err := s.GetInvoiceByID(ctx, callerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsPaid {
		return nil, fmt.Errorf("invoice is already paid: %w", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payment for invoice %s", invoice.InvoiceNumber)
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       invoice.CompanyID,
		AccountID:       req.CashAccountID,
		Type:            domain.Income,
		Amount:          req.Amount,
		Description:     description,
		Category:        "invoice_payment",
		InvoiceID:       &invoice.InvoiceID,
		TransactionDate: paidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     paidAt,
			CreatedBy:     callerID,
			LastUpdatedAt: paidAt,
			LastUpdatedBy: callerID,
		},
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	// One store transaction: ledger entry, account balance and the invoice's
	// payment state move together or not at all.
	updated, err := s.txnRepo.SaveTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment",
			slog.String("invoice_id", invoiceID),
			slog.String("account_id", req.CashAccountID))
		return nil, err
	}

	if updated != nil && updated.IsPaid && s.notifier != nil {
		s.notifier.NotifyCompanyAdmins(ctx, updated.CompanyID, domain.Notification{
			CompanyID: &updated.CompanyID,
			Type:      domain.NotifyInvoicePaid,
			Priority:  domain.PriorityNormal,
			Title:     "Invoice paid",
			Message:   fmt.Sprintf("Invoice %s was paid in full.", updated.InvoiceNumber),
			Link:      "/invoices/" + updated.InvoiceID,
			Metadata:  map[string]any{"invoiceID": updated.InvoiceID},
		})
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", req.Amount.String()))
	return updated, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoiceByID(ctx, callerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsPaid {
		return nil, fmt.Errorf("invoice is already paid: %w", apperrors.ErrValidation)
	}

	updated, err := s.invoiceRepo.MarkInvoicePaid(ctx, invoiceID, callerID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to mark invoice paid", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyCompanyAdmins(ctx, updated.CompanyID, domain.Notification{
			CompanyID: &updated.CompanyID,
			Type:      domain.NotifyInvoicePaid,
			Priority:  domain.PriorityNormal,
			Title:     "Invoice paid",
			Message:   fmt.Sprintf("Invoice %s was marked paid.", updated.InvoiceNumber),
			Link:      "/invoices/" + updated.InvoiceID,
			Metadata:  map[string]any{"invoiceID": updated.InvoiceID},
		})
	}

	s.LogInfo(ctx, "Invoice marked paid", slog.String("invoice_id", invoiceID))
	return updated, nil
}

func (s *invoiceService) SweepOverdue(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	swept, err := s.invoiceRepo.SweepOverdue(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Overdue sweep failed")
		return nil, err
	}
	if len(swept) == 0 {
		return swept, nil
	}

	s.LogInfo(ctx, "Overdue sweep completed", slog.Int("count", len(swept)))

	if s.notifier != nil {
		for _, inv := range swept {
			s.notifier.NotifyCompanyAdmins(ctx, inv.CompanyID, domain.Notification{
				CompanyID: &inv.CompanyID,
				Type:      domain.NotifyInvoiceOverdue,
				Priority:  domain.PriorityHigh,
				Title:     "Invoice overdue",
				Message:   fmt.Sprintf("Invoice %s to %s is overdue.", inv.InvoiceNumber, inv.ClientName),
				Link:      "/invoices/" + inv.InvoiceID,
				Metadata:  map[string]any{"invoiceID": inv.InvoiceID},
			})
		}
	}
	return swept, nil
}
