package pgsql

import (
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	companyRepo := newPgxCompanyRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	clientRepo := newPgxClientRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	cashAccountRepo := newPgxCashAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, cashAccountRepo, invoiceRepo)
	notificationRepo := newPgxNotificationRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CompanyRepo:      companyRepo,
		UserRepo:         userRepo,
		ClientRepo:       clientRepo,
		InvoiceRepo:      invoiceRepo,
		CashAccountRepo:  cashAccountRepo,
		TransactionRepo:  transactionRepo,
		NotificationRepo: notificationRepo,
		ReportingRepo:    reportingRepo,
	}
}
