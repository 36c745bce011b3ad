package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/platform/events"
)

// notificationService implements the NotificationSvcFacade interface.
// Dispatch is asynchronous: Notify and NotifyCompanyAdmins enqueue onto a
// buffered channel consumed by a worker pool, so business operations never
// wait on (or fail because of) notification delivery.
type notificationService struct {
	BaseService
	notifRepo portsrepo.NotificationRepository
	publisher events.Publisher

	queue        chan domain.Notification
	workerCount  int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	logger       *slog.Logger
}

// NewNotificationService creates the service and starts its dispatch workers.
// The publisher is optional; without one, events stay local to the inbox table.
func NewNotificationService(
	notifRepo portsrepo.NotificationRepository,
	userRepo portsrepo.UserRepository,
	publisher events.Publisher,
	workerCount int,
	logger *slog.Logger,
) portssvc.NotificationSvcFacade {
	if workerCount <= 0 {
		workerCount = 4
	}
	s := &notificationService{
		BaseService:  BaseService{userRepo: userRepo},
		notifRepo:    notifRepo,
		publisher:    publisher,
		queue:        make(chan domain.Notification, 256),
		workerCount:  workerCount,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}
	s.startWorkers()
	return s
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) startWorkers() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.logger.Info("Notification dispatch workers started", slog.Int("workers", s.workerCount))
}

func (s *notificationService) worker() {
	defer s.wg.Done()
	for {
		select {
		case n := <-s.queue:
			s.deliver(n)
		case <-s.shutdownChan:
			// Drain anything already queued before exiting.
			for {
				select {
				case n := <-s.queue:
					s.deliver(n)
				default:
					return
				}
			}
		}
	}
}

// deliver writes the notification unless the recipient opted out of the type.
// Failures are logged warnings only.
func (s *notificationService) deliver(n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	enabled, err := s.preferenceEnabled(ctx, n.UserID, n.Type)
	if err != nil {
		s.logger.Warn("Failed to load notification preference",
			slog.String("user_id", n.UserID),
			slog.String("error", err.Error()))
		// Fall through: default is enabled.
		enabled = true
	}
	if !enabled {
		return
	}

	if err := s.notifRepo.SaveNotification(ctx, n); err != nil {
		s.logger.Warn("Failed to save notification",
			slog.String("user_id", n.UserID),
			slog.String("type", string(n.Type)),
			slog.String("error", err.Error()))
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(events.NotificationEvent{
			UserID:    n.UserID,
			CompanyID: n.CompanyID,
			Type:      n.Type,
			Priority:  n.Priority,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Metadata:  n.Metadata,
			EmittedAt: time.Now(),
		})
	}
}

func (s *notificationService) preferenceEnabled(ctx context.Context, userID string, t domain.NotificationType) (bool, error) {
	prefs, err := s.notifRepo.FindPreferences(ctx, userID)
	if err != nil {
		return true, err
	}
	for _, p := range prefs {
		if p.Type == t {
			return p.Enabled, nil
		}
	}
	// No row means enabled.
	return true, nil
}

// Shutdown stops the dispatch workers after draining the queue.
func (s *notificationService) Shutdown() {
	close(s.shutdownChan)
	s.wg.Wait()
}

func (s *notificationService) fill(n domain.Notification) domain.Notification {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityNormal
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return n
}

func (s *notificationService) Notify(ctx context.Context, n domain.Notification) {
	n = s.fill(n)
	select {
	case s.queue <- n:
	default:
		s.GetLogger(ctx).Warn("Notification queue full, dropping",
			slog.String("user_id", n.UserID),
			slog.String("type", string(n.Type)))
	}
}

func (s *notificationService) NotifyCompanyAdmins(ctx context.Context, companyID string, n domain.Notification) {
	admins, err := s.userRepo.ListUsers(ctx, &companyID, []domain.Role{domain.RoleAdmin}, 100, 0)
	if err != nil {
		s.GetLogger(ctx).Warn("Failed to resolve company admins for notification",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()))
		return
	}
	for _, admin := range admins {
		per := n
		per.NotificationID = uuid.NewString()
		per.UserID = admin.UserID
		per.CompanyID = &companyID
		s.Notify(ctx, per)
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, callerID string, params dto.ListNotificationsParams) ([]domain.Notification, int64, string, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	notifs, next, err := s.notifRepo.ListNotificationsByUser(ctx, callerID, params.UnreadOnly, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications", slog.String("user_id", callerID))
		return nil, 0, "", err
	}

	unread, err := s.notifRepo.CountUnread(ctx, callerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count unread notifications", slog.String("user_id", callerID))
		return nil, 0, "", err
	}

	out := ""
	if next != nil {
		out = *next
	}
	return notifs, unread, out, nil
}

func (s *notificationService) ListPreferences(ctx context.Context, callerID string) ([]domain.NotificationPreference, error) {
	prefs, err := s.notifRepo.FindPreferences(ctx, callerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notification preferences", slog.String("user_id", callerID))
		return nil, err
	}
	return prefs, nil
}

func (s *notificationService) MarkRead(ctx context.Context, callerID string, notificationID string) error {
	if err := s.notifRepo.MarkNotificationRead(ctx, callerID, notificationID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to mark notification read", slog.String("notification_id", notificationID))
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, callerID string) error {
	if err := s.notifRepo.MarkAllNotificationsRead(ctx, callerID); err != nil {
		s.LogError(ctx, err, "Failed to mark all notifications read", slog.String("user_id", callerID))
		return err
	}
	return nil
}

func (s *notificationService) UpdatePreference(ctx context.Context, callerID string, req dto.UpdateNotificationPreferenceRequest) (*domain.NotificationPreference, error) {
	t := domain.NotificationType(req.Type)
	switch t {
	case domain.NotifyInvoiceOverdue, domain.NotifyInvoicePaid, domain.NotifyInvoiceSent,
		domain.NotifyEmployeeCreated, domain.NotifyPasswordReset:
	default:
		return nil, fmt.Errorf("unknown notification type %q: %w", req.Type, apperrors.ErrValidation)
	}

	pref := domain.NotificationPreference{
		UserID:    callerID,
		Type:      t,
		Enabled:   *req.Enabled,
		UpdatedAt: time.Now(),
	}
	if err := s.notifRepo.UpsertPreference(ctx, pref); err != nil {
		s.LogError(ctx, err, "Failed to update notification preference", slog.String("user_id", callerID))
		return nil, err
	}
	return &pref, nil
}
