package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
)

// Mail is a rendered message ready for delivery.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers account mails.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// LogMailer writes mails to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("component", "mailer")}
}

// Send logs the recipient and subject at INFO and the body at DEBUG.
func (m *LogMailer) Send(ctx context.Context, mail Mail) error {
	log := logger.FromContextOrDefault(ctx, m.logger)
	log.Info("mail sent",
		slog.String("to", mail.To),
		slog.String("subject", mail.Subject))
	log.Debug("mail body",
		slog.String("to", mail.To),
		slog.String("body", mail.Body))
	return nil
}

type mailKind string

const (
	mailActivation            mailKind = "activation"
	mailWelcome               mailKind = "welcome"
	mailResetPasswordRequest  mailKind = "reset_password_requested"
	mailResetPasswordComplete mailKind = "reset_password_completed"
	mailRecoverIdentity       mailKind = "recover_identity"
)

var mailSubjects = map[mailKind]string{
	mailActivation:            "Activate your account",
	mailWelcome:               "Welcome",
	mailResetPasswordRequest:  "Reset password instructions",
	mailResetPasswordComplete: "You have changed your password",
	mailRecoverIdentity:       "Your account identity",
}

var mailTemplates = template.Must(template.New("mails").Parse(`
{{define "activation"}}Hello {{.Name}},

please activate your account by visiting {{.BaseURL}}/account/activate/{{.Hash}}
{{end}}
{{define "welcome"}}Hello {{.Name}},

your account {{.Identity}} is active. Welcome aboard.
{{end}}
{{define "reset_password_requested"}}Hello {{.Name}},

a password reset was requested for your account. Choose a new password at
{{.BaseURL}}/account/reset-password/{{.Hash}}

The link expires at {{.ExpiresAt}}.
{{end}}
{{define "reset_password_completed"}}Hello {{.Name}},

the password of your account {{.Identity}} was changed.
{{end}}
{{define "recover_identity"}}Hello {{.Name}},

the identity of your account is {{.Identity}}.
{{end}}
`))

type mailData struct {
	Name      string
	Identity  string
	BaseURL   string
	Hash      string
	ExpiresAt string
}

// composer renders account mails for a user.
type composer struct {
	baseURL string
}

func newComposer(baseURL string) composer {
	return composer{baseURL: strings.TrimRight(baseURL, "/")}
}

func (c composer) compose(kind mailKind, user *domain.User, hash string, reset *domain.UserResetPassword) (Mail, error) {
	name := strings.TrimSpace(user.Detail.FirstName + " " + user.Detail.LastName)
	if name == "" {
		name = user.Identity
	}
	data := mailData{
		Name:     name,
		Identity: user.Identity,
		BaseURL:  c.baseURL,
		Hash:     hash,
	}
	if reset != nil {
		data.ExpiresAt = reset.ExpiresAt.Format("2006-01-02 15:04:05 MST")
	}

	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, string(kind), data); err != nil {
		return Mail{}, fmt.Errorf("failed to render %s mail: %w", kind, err)
	}
	return Mail{
		To:      user.Detail.Email,
		Subject: mailSubjects[kind],
		Body:    body.String(),
	}, nil
}
