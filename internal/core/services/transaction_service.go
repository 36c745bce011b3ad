package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.CashAccountRepository
	invoiceRepo portsrepo.InvoiceRepository
	notifier    portssvc.NotificationDispatchSvc
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txnRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.CashAccountRepository,
	invoiceRepo portsrepo.InvoiceRepository,
	userRepo portsrepo.UserRepository,
	notifier portssvc.NotificationDispatchSvc,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: BaseService{userRepo: userRepo},
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
		notifier:    notifier,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, callerID string, transactionID string) (*domain.Transaction, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, callerID string, params dto.ListTransactionsParams) ([]domain.Transaction, string, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, "", err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var accountID *string
	if params.AccountID != "" {
		accountID = &params.AccountID
	}
	var txnType *domain.TransactionType
	if params.Type != "" {
		t := domain.TransactionType(params.Type)
		if t != domain.Income && t != domain.Expense {
			return nil, "", fmt.Errorf("unknown transaction type %q: %w", params.Type, apperrors.ErrValidation)
		}
		txnType = &t
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	txns, next, err := s.txnRepo.ListTransactionsByCompany(ctx, companyID, accountID, txnType, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("company_id", companyID))
		return nil, "", err
	}

	out := ""
	if next != nil {
		out = *next
	}
	return txns, out, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, callerID string, req dto.CreateTransactionRequest) (*domain.Transaction, *domain.Invoice, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.accountRepo.FindCashAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("cash account not found: %w", apperrors.ErrValidation)
		}
		return nil, nil, err
	}
	if account.CompanyID != companyID {
		return nil, nil, fmt.Errorf("cash account not found: %w", apperrors.ErrValidation)
	}
	if !account.IsActive {
		return nil, nil, fmt.Errorf("cash account is inactive: %w", apperrors.ErrValidation)
	}

	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, *req.InvoiceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, fmt.Errorf("invoice not found: %w", apperrors.ErrValidation)
			}
			return nil, nil, err
		}
		if invoice.CompanyID != companyID {
			return nil, nil, fmt.Errorf("invoice not found: %w", apperrors.ErrValidation)
		}
		if invoice.IsPaid {
			return nil, nil, fmt.Errorf("invoice is already paid: %w", apperrors.ErrValidation)
		}
	}

	now := time.Now()
	txnDate := now
	if req.TransactionDate != nil {
		txnDate = *req.TransactionDate
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		AccountID:       req.AccountID,
		Type:            domain.TransactionType(req.Type),
		Amount:          req.Amount,
		Description:     req.Description,
		Category:        req.Category,
		InvoiceID:       req.InvoiceID,
		TransactionDate: txnDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}
	if err := txn.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	// The repository posts the entry, moves the account balance and, for
	// invoice-linked income, applies the payment inside one DB transaction.
	updatedInvoice, err := s.txnRepo.SaveTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", req.AccountID))
		return nil, nil, err
	}

	if updatedInvoice != nil && updatedInvoice.IsPaid && s.notifier != nil {
		s.notifier.NotifyCompanyAdmins(ctx, updatedInvoice.CompanyID, domain.Notification{
			CompanyID: &updatedInvoice.CompanyID,
			Type:      domain.NotifyInvoicePaid,
			Priority:  domain.PriorityNormal,
			Title:     "Invoice paid",
			Message:   fmt.Sprintf("Invoice %s was paid in full.", updatedInvoice.InvoiceNumber),
			Link:      "/invoices/" + updatedInvoice.InvoiceID,
			Metadata:  map[string]any{"invoiceID": updatedInvoice.InvoiceID},
		})
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))
	return &txn, updatedInvoice, nil
}
