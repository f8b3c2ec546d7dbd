package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposerRendersEveryMail(t *testing.T) {
	c := newComposer("https://app.example.com/")
	user := &domain.User{
		ID:       uuid.New(),
		Identity: "ada",
		Detail:   domain.UserDetail{Email: "ada@example.com"},
	}
	reset := &domain.UserResetPassword{ExpiresAt: time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)}

	for kind, subject := range mailSubjects {
		t.Run(string(kind), func(t *testing.T) {
			mail, err := c.compose(kind, user, "abc123", reset)

			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", mail.To)
			assert.Equal(t, subject, mail.Subject)
			assert.Contains(t, mail.Body, "Hello ada,", "identity stands in for a missing name")
		})
	}

	mail, err := c.compose(mailResetPasswordRequest, user, "abc123", reset)
	require.NoError(t, err)
	assert.Contains(t, mail.Body, "https://app.example.com/account/reset-password/abc123")
	assert.Contains(t, mail.Body, "2025-03-01 13:00:00 UTC")

	user.Detail.FirstName = "Ada"
	mail, err = c.compose(mailWelcome, user, "", nil)
	require.NoError(t, err)
	assert.Contains(t, mail.Body, "Hello Ada,")
}

func TestComposerUnknownKind(t *testing.T) {
	_, err := newComposer("https://app.example.com").compose("newsletter", &domain.User{}, "", nil)

	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	m := NewLogMailer(log)

	require.NoError(t, m.Send(context.Background(), Mail{To: "ada@example.com", Subject: "Welcome", Body: "hi"}))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "mail sent", entries[0]["msg"])
	assert.Equal(t, "ada@example.com", entries[0]["to"])
	assert.Equal(t, "Welcome", entries[0]["subject"])
	assert.Equal(t, "mailer", entries[0]["component"])
	assert.Equal(t, "hi", entries[1]["body"])
}
