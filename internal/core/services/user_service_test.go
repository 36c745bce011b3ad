package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/core/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockCompanyRepo *MockCompanyRepository
	mockNotifier    *MockNotifier
	service         portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockCompanyRepo, suite.mockNotifier)
}

func (suite *UserServiceTestSuite) adminCaller(companyID string) *domain.User {
	return &domain.User{
		UserID:    uuid.NewString(),
		Role:      domain.RoleAdmin,
		CompanyID: &companyID,
	}
}

func (suite *UserServiceTestSuite) TestRegister_CreatesCompanyAndAdmin() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		CompanyName: "Widgets GmbH",
		Email:       "owner@widgets.example",
		Name:        "Alex Owner",
		Password:    "s3cretpass",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCompanyRepo.On("SaveCompany", ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == req.CompanyName && c.IsActive
	})).Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.Role == domain.RoleAdmin &&
			u.CompanyID != nil &&
			u.AuthProvider == domain.ProviderLocal &&
			u.PasswordHash != "" && u.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))
	suite.mockCompanyRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		CompanyName: "Widgets GmbH",
		Email:       "owner@widgets.example",
		Name:        "Alex Owner",
		Password:    "s3cretpass",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).
		Return(&domain.User{UserID: uuid.NewString(), Email: req.Email}, nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "SaveCompany", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateEmployee_AdminScopedToOwnCompany() {
	ctx := context.Background()
	companyID := uuid.NewString()
	caller := suite.adminCaller(companyID)

	otherCompany := uuid.NewString()
	req := dto.CreateEmployeeRequest{
		Email:     "worker@widgets.example",
		Name:      "Worker",
		Password:  "s3cretpass",
		Role:      domain.RoleUser,
		CompanyID: &otherCompany, // ignored for ADMIN callers
	}

	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(caller, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).
		Return(&domain.Company{CompanyID: companyID, IsActive: true}, nil).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.CompanyID != nil && *u.CompanyID == companyID && u.Role == domain.RoleUser
	})).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyEmployeeCreated
	})).Return().Once()

	user, err := suite.service.CreateEmployee(ctx, caller.UserID, req)

	suite.Require().NoError(err)
	suite.Equal(companyID, *user.CompanyID)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateEmployee_UserRoleForbidden() {
	ctx := context.Background()
	companyID := uuid.NewString()
	caller := &domain.User{UserID: uuid.NewString(), Role: domain.RoleUser, CompanyID: &companyID}

	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(caller, nil).Once()

	_, err := suite.service.CreateEmployee(ctx, caller.UserID, dto.CreateEmployeeRequest{
		Email:    "worker@widgets.example",
		Name:     "Worker",
		Password: "s3cretpass",
		Role:     domain.RoleUser,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_SelfDeleteRejected() {
	ctx := context.Background()
	companyID := uuid.NewString()
	caller := suite.adminCaller(companyID)

	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(caller, nil).Once()

	err := suite.service.DeleteUser(ctx, caller.UserID, caller.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "owner@widgets.example",
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, "correct-horse")

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "owner@widgets.example",
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, user.Email, "battery-staple")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@widgets.example").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "nobody@widgets.example", "whatever")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateGoogleUser_LinksByEmail() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{
		ID:    "google-sub-123",
		Email: "owner@widgets.example",
		Name:  "Alex Owner",
	}
	local := &domain.User{
		UserID:       uuid.NewString(),
		Email:        info.Email,
		AuthProvider: domain.ProviderLocal,
	}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, string(domain.ProviderGoogle), info.ID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(local, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.AuthProvider == domain.ProviderGoogle &&
			u.ProviderUserID != nil && *u.ProviderUserID == info.ID
	})).Return(nil).Once()

	got, err := suite.service.AuthenticateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(local.UserID, got.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateGoogleUser_NeverAutoRegisters() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{ID: "google-sub-456", Email: "stranger@elsewhere.example"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, string(domain.ProviderGoogle), info.ID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateGoogleUser(ctx, info)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongCurrent() {
	ctx := context.Background()
	hash, err := utils.HashPassword("old-password")
	suite.Require().NoError(err)

	caller := &domain.User{UserID: uuid.NewString(), PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(caller, nil).Once()

	err = suite.service.ChangePassword(ctx, caller.UserID, dto.ChangePasswordRequest{
		CurrentPassword: "not-the-old-one",
		NewPassword:     "new-password",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestResetPassword_ClearsRefreshToken() {
	ctx := context.Background()
	companyID := uuid.NewString()
	caller := suite.adminCaller(companyID)
	target := &domain.User{
		UserID:    uuid.NewString(),
		Role:      domain.RoleUser,
		CompanyID: &companyID,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(caller, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, target.UserID).Return(target, nil).Once()
	suite.mockUserRepo.On("UpdatePassword", ctx, target.UserID, mock.AnythingOfType("string"), caller.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockUserRepo.On("ClearRefreshToken", ctx, target.UserID).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyPasswordReset && n.UserID == target.UserID
	})).Return().Once()

	err := suite.service.ResetPassword(ctx, caller.UserID, target.UserID, dto.ResetPasswordRequest{NewPassword: "new-password"})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
