package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CompanyRepo      CompanyRepository
	UserRepo         UserRepository
	ClientRepo       ClientRepository
	InvoiceRepo      InvoiceRepository
	CashAccountRepo  CashAccountRepository
	TransactionRepo  TransactionRepository
	NotificationRepo NotificationRepository
	ReportingRepo    ReportingRepository
}
