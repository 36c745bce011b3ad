package services

import (
	"log/slog"

	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/platform/config"
	"github.com/invobook/invoicing_app/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The notification dispatcher starts first so every other service can
	// enqueue into it.
	container.Notification = NewNotificationService(
		repos.NotificationRepo,
		repos.UserRepo,
		publisher,
		cfg.NotificationWorkers,
		logger,
	)

	container.User = NewUserService(repos.UserRepo, repos.CompanyRepo, container.Notification)
	container.Company = NewCompanyService(repos.CompanyRepo, repos.UserRepo)
	container.Client = NewClientService(repos.ClientRepo, repos.UserRepo)
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ClientRepo,
		repos.TransactionRepo,
		repos.UserRepo,
		container.Notification,
	)
	container.CashAccount = NewCashAccountService(repos.CashAccountRepo, repos.UserRepo)
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.CashAccountRepo,
		repos.InvoiceRepo,
		repos.UserRepo,
		container.Notification,
	)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.UserRepo)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}

// ShutdownServices stops background workers owned by the container.
func ShutdownServices(container *portssvc.ServiceContainer) {
	if ns, ok := container.Notification.(*notificationService); ok {
		ns.Shutdown()
	}
}
