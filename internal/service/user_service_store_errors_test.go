package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/mocks"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserServiceWithStore(t *testing.T, users store.UserStore, mailer service.Mailer) (service.UserService, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	svc := service.NewUserService(service.UserServiceDeps{
		Users:  users,
		Roles:  mocks.NewMockRoleStore(domain.RoleGuest, domain.RoleUser),
		Resets: mocks.NewMockResetPasswordStore(),
		Hasher: &mocks.MockPasswordVerifier{},
		Mailer: mailer,
		Config: config.AccountConfig{ResetPasswordLifetime: time.Hour, FrontendURL: "https://app.example.com"},
		Logger: log,
	})
	return svc, buf
}

func TestUserServiceLookupRouting(t *testing.T) {
	t.Run("reset by identity never queries email", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		users.On("GetByIdentity", mock.Anything, "ada").Return(nil, store.ErrUserNotFound).Once()
		svc, _ := newUserServiceWithStore(t, users, &recordingMailer{})

		require.NoError(t, svc.RequestResetPassword(context.Background(), "", "ada"))

		users.AssertExpectations(t)
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email wins over identity", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, store.ErrUserNotFound).Once()
		svc, _ := newUserServiceWithStore(t, users, &recordingMailer{})

		require.NoError(t, svc.RequestResetPassword(context.Background(), "ada@example.com", "ada"))

		users.AssertExpectations(t)
		users.AssertNotCalled(t, "GetByIdentity", mock.Anything, mock.Anything)
	})

	t.Run("deleted account is treated as unknown", func(t *testing.T) {
		deleted := newStoredUser(t, "ada", "ada@example.com", domain.UserStatusDeleted)
		users := &mocks.TestifyMockUserStore{}
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(deleted, nil)
		mailer := &recordingMailer{}
		svc, _ := newUserServiceWithStore(t, users, mailer)

		require.NoError(t, svc.RecoverIdentity(context.Background(), "ada@example.com"))

		assert.Empty(t, mailer.sent())
	})
}

func TestUserServiceStoreFailures(t *testing.T) {
	errConn := errors.New("connection reset by peer")

	t.Run("list wraps in ServiceError", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		users.On("List", mock.Anything, store.NewPage(1, 10)).Return(nil, 0, errConn)
		svc, buf := newUserServiceWithStore(t, users, &recordingMailer{})

		_, _, err := svc.List(context.Background(), store.NewPage(1, 10))

		var serr *service.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "list", serr.Op)
		assert.ErrorIs(t, err, errConn)
		logger.AssertLogContains(t, buf, "failed to list users")
	})

	t.Run("recover identity surfaces lookup failure", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, errConn)
		mailer := &recordingMailer{}
		svc, _ := newUserServiceWithStore(t, users, mailer)

		err := svc.RecoverIdentity(context.Background(), "ada@example.com")

		assert.ErrorIs(t, err, errConn)
		assert.Empty(t, mailer.sent())
	})

	t.Run("not found is not logged as an error", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		users.On("WithTx", mock.Anything).Return(nil)
		users.On("GetByHash", mock.Anything, "nope").Return(nil, store.ErrUserNotFound)
		svc, buf := newUserServiceWithStore(t, users, &recordingMailer{})

		_, err := svc.ActivateByHash(context.Background(), "nope")

		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NotContains(t, buf.String(), `"level":"ERROR"`)
	})
}
