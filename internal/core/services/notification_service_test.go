package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/core/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotifRepo *MockNotificationRepository
	mockUserRepo  *MockUserRepository
	service       portssvc.NotificationSvcFacade
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotifRepo = new(MockNotificationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewNotificationService(suite.mockNotifRepo, suite.mockUserRepo, nil, 1, logger)
}

// drain stops the dispatch workers so queued notifications are flushed
// before the test asserts on the mock.
func (suite *NotificationServiceTestSuite) drain() {
	suite.service.(interface{ Shutdown() }).Shutdown()
}

func (suite *NotificationServiceTestSuite) TestNotify_SavesToInbox() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockNotifRepo.On("FindPreferences", mock.Anything, userID).
		Return([]domain.NotificationPreference{}, nil).Once()
	suite.mockNotifRepo.On("SaveNotification", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == userID &&
			n.Type == domain.NotifyInvoicePaid &&
			n.NotificationID != "" &&
			n.Priority == domain.PriorityNormal
	})).Return(nil).Once()

	suite.service.Notify(ctx, domain.Notification{
		UserID:  userID,
		Type:    domain.NotifyInvoicePaid,
		Title:   "Invoice paid",
		Message: "Invoice INV-000001 was paid in full.",
	})
	suite.drain()

	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestNotify_RespectsOptOut() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockNotifRepo.On("FindPreferences", mock.Anything, userID).
		Return([]domain.NotificationPreference{
			{UserID: userID, Type: domain.NotifyInvoiceSent, Enabled: false},
		}, nil).Once()

	suite.service.Notify(ctx, domain.Notification{
		UserID: userID,
		Type:   domain.NotifyInvoiceSent,
		Title:  "Invoice sent",
	})
	suite.drain()

	suite.mockNotifRepo.AssertNotCalled(suite.T(), "SaveNotification", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestNotifyCompanyAdmins_FansOut() {
	ctx := context.Background()
	companyID := uuid.NewString()
	admins := []domain.User{
		{UserID: uuid.NewString(), Role: domain.RoleAdmin, CompanyID: &companyID},
		{UserID: uuid.NewString(), Role: domain.RoleAdmin, CompanyID: &companyID},
	}

	suite.mockUserRepo.On("ListUsers", ctx, &companyID, []domain.Role{domain.RoleAdmin}, 100, 0).
		Return(admins, nil).Once()
	suite.mockNotifRepo.On("FindPreferences", mock.Anything, mock.AnythingOfType("string")).
		Return([]domain.NotificationPreference{}, nil).Times(2)
	suite.mockNotifRepo.On("SaveNotification", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.CompanyID != nil && *n.CompanyID == companyID && n.Type == domain.NotifyInvoiceOverdue
	})).Return(nil).Times(2)

	suite.service.NotifyCompanyAdmins(ctx, companyID, domain.Notification{
		Type:    domain.NotifyInvoiceOverdue,
		Title:   "Invoice overdue",
		Message: "Invoice INV-000002 is overdue.",
	})
	suite.drain()

	suite.mockNotifRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestListNotifications_ReturnsUnreadCount() {
	ctx := context.Background()
	callerID := uuid.NewString()
	next := "token123"

	suite.mockNotifRepo.On("ListNotificationsByUser", ctx, callerID, true, 20, (*string)(nil)).
		Return([]domain.Notification{{NotificationID: uuid.NewString(), UserID: callerID}}, &next, nil).Once()
	suite.mockNotifRepo.On("CountUnread", ctx, callerID).Return(int64(5), nil).Once()

	notifs, unread, nextToken, err := suite.service.ListNotifications(ctx, callerID, dto.ListNotificationsParams{UnreadOnly: true})

	suite.Require().NoError(err)
	suite.Len(notifs, 1)
	suite.Equal(int64(5), unread)
	suite.Equal("token123", nextToken)
}

func (suite *NotificationServiceTestSuite) TestUpdatePreference_UnknownType() {
	ctx := context.Background()
	enabled := false

	_, err := suite.service.UpdatePreference(ctx, uuid.NewString(), dto.UpdateNotificationPreferenceRequest{
		Type:    "SOMETHING_ELSE",
		Enabled: &enabled,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockNotifRepo.AssertNotCalled(suite.T(), "UpsertPreference", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestUpdatePreference_Upserts() {
	ctx := context.Background()
	callerID := uuid.NewString()
	enabled := false

	suite.mockNotifRepo.On("UpsertPreference", ctx, mock.MatchedBy(func(p domain.NotificationPreference) bool {
		return p.UserID == callerID && p.Type == domain.NotifyInvoiceOverdue && !p.Enabled
	})).Return(nil).Once()

	pref, err := suite.service.UpdatePreference(ctx, callerID, dto.UpdateNotificationPreferenceRequest{
		Type:    string(domain.NotifyInvoiceOverdue),
		Enabled: &enabled,
	})

	suite.Require().NoError(err)
	suite.False(pref.Enabled)
	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
