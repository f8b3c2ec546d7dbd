package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestErrorReportService(t *testing.T, cfg config.ErrorReportConfig) *errorReportService {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	svc := NewErrorReportService(cfg, log).(*errorReportService)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 5, 0, time.UTC) }
	return svc
}

func TestErrorReportServiceSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "error-report.log")
	svc := newTestErrorReportService(t, config.ErrorReportConfig{
		Enabled:         true,
		Path:            path,
		Tokens:          []string{"frontend-token"},
		DomainWhitelist: []string{"app.example.com"},
		IPWhitelist:     []string{"10.0.0.7"},
	})
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, ErrorReport{
		Token:   "frontend-token",
		Origin:  "https://app.example.com:8443",
		Message: "TypeError: x is undefined",
	}))
	require.NoError(t, svc.Save(ctx, ErrorReport{
		Token:      "frontend-token",
		RemoteAddr: "10.0.0.7:51234",
		Message:    "second",
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[2025-03-01 09:30:05] [frontend-token] TypeError: x is undefined\n"+
			"[2025-03-01 09:30:05] [frontend-token] second\n",
		string(content))
}

func TestErrorReportMessageStaysOnOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error-report.log")
	svc := newTestErrorReportService(t, config.ErrorReportConfig{
		Enabled:     true,
		Path:        path,
		Tokens:      []string{"frontend-token"},
		IPWhitelist: []string{whitelistAny},
	})

	require.NoError(t, svc.Save(context.Background(), ErrorReport{
		Token:   "frontend-token",
		Message: "boom\n[2025-03-01 09:30:05] [admin-token] forged\r\nat line 3\rend",
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`[2025-03-01 09:30:05] [frontend-token] boom\n[2025-03-01 09:30:05] [admin-token] forged\nat line 3\nend`+"\n",
		string(content))
}

func TestErrorReportServiceRejections(t *testing.T) {
	enabled := config.ErrorReportConfig{
		Enabled:         true,
		Path:            filepath.Join(t.TempDir(), "reports.log"),
		Tokens:          []string{"frontend-token"},
		DomainWhitelist: []string{"app.example.com"},
		IPWhitelist:     []string{"10.0.0.7"},
	}

	tests := []struct {
		name   string
		cfg    config.ErrorReportConfig
		report ErrorReport
		want   error
	}{
		{
			name:   "disabled",
			cfg:    config.ErrorReportConfig{Tokens: []string{"frontend-token"}},
			report: ErrorReport{Token: "frontend-token", Origin: "https://app.example.com"},
			want:   ErrErrorReportDisabled,
		},
		{
			name:   "missing token",
			cfg:    enabled,
			report: ErrorReport{Origin: "https://app.example.com"},
			want:   ErrErrorReportTokenMissing,
		},
		{
			name:   "unknown token",
			cfg:    enabled,
			report: ErrorReport{Token: "guess", Origin: "https://app.example.com"},
			want:   ErrErrorReportNotAllowed,
		},
		{
			name:   "foreign origin and address",
			cfg:    enabled,
			report: ErrorReport{Token: "frontend-token", Origin: "https://evil.example.com", RemoteAddr: "10.0.0.8"},
			want:   ErrErrorReportNotAllowed,
		},
		{
			name:   "no origin and no address",
			cfg:    enabled,
			report: ErrorReport{Token: "frontend-token"},
			want:   ErrErrorReportNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestErrorReportService(t, tt.cfg)

			err := svc.Save(context.Background(), tt.report)

			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := os.Stat(enabled.Path)
	assert.True(t, os.IsNotExist(err), "rejected reports must not be written")
}

func TestErrorReportWildcardWhitelist(t *testing.T) {
	svc := newTestErrorReportService(t, config.ErrorReportConfig{
		Enabled:     true,
		Path:        filepath.Join(t.TempDir(), "reports.log"),
		Tokens:      []string{"frontend-token"},
		IPWhitelist: []string{whitelistAny},
	})

	err := svc.Save(context.Background(), ErrorReport{Token: "frontend-token", Message: "anywhere"})

	assert.NoError(t, err)
}

func TestErrorReportWriteFailure(t *testing.T) {
	dir := t.TempDir()
	svc := newTestErrorReportService(t, config.ErrorReportConfig{
		Enabled:     true,
		Path:        dir,
		Tokens:      []string{"frontend-token"},
		IPWhitelist: []string{whitelistAny},
	})

	err := svc.Save(context.Background(), ErrorReport{Token: "frontend-token", Message: "boom"})

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "error_report", serviceErr.Service)
}

func TestRemoteIPAndOriginHost(t *testing.T) {
	assert.Equal(t, "10.0.0.7", remoteIP("10.0.0.7:443"))
	assert.Equal(t, "10.0.0.7", remoteIP("10.0.0.7"))
	assert.Equal(t, "::1", remoteIP("[::1]:80"))
	assert.Equal(t, "app.example.com", originHost("https://app.example.com:8443"))
	assert.Equal(t, "", originHost(""))
	assert.Equal(t, "", originHost("://bad"))
}
