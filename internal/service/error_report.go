package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/platform/logger"
)

// Whitelist entry matching every origin host or address.
const whitelistAny = "*"

// Line breaks in a message are escaped so one report stays one line.
var lineBreaks = strings.NewReplacer("\r\n", `\n`, "\r", `\n`, "\n", `\n`)

// ErrorReport is a client-side error submitted by a trusted frontend.
type ErrorReport struct {
	Token      string
	Origin     string
	RemoteAddr string
	Message    string
}

// ErrorReportService stores error reports sent by frontends.
type ErrorReportService interface {
	Save(ctx context.Context, report ErrorReport) error
}

type errorReportService struct {
	cfg    config.ErrorReportConfig
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// NewErrorReportService creates an ErrorReportService appending to cfg.Path.
func NewErrorReportService(cfg config.ErrorReportConfig, logger *slog.Logger) ErrorReportService {
	return &errorReportService{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With("component", "error_report_service"),
	}
}

func (s *errorReportService) Save(ctx context.Context, report ErrorReport) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.check(report); err != nil {
		log.Debug("error report rejected",
			slog.String("origin", report.Origin),
			slog.String("remote_addr", report.RemoteAddr),
			slog.String("reason", err.Error()))
		return err
	}

	line := fmt.Sprintf("[%s] [%s] %s\n", s.now().Format("2006-01-02 15:04:05"), report.Token,
		lineBreaks.Replace(report.Message))
	if err := s.append(line); err != nil {
		log.Error("failed to save error report",
			slog.String("path", s.cfg.Path),
			slog.String("error", err.Error()))
		return NewServiceError("error_report", "save", err)
	}
	return nil
}

func (s *errorReportService) check(report ErrorReport) error {
	if !s.cfg.Enabled {
		return ErrErrorReportDisabled
	}
	if report.Token == "" {
		return ErrErrorReportTokenMissing
	}
	if !s.knownToken(report.Token) {
		return ErrErrorReportNotAllowed
	}
	if matches(s.cfg.DomainWhitelist, originHost(report.Origin)) ||
		matches(s.cfg.IPWhitelist, remoteIP(report.RemoteAddr)) {
		return nil
	}
	return ErrErrorReportNotAllowed
}

func (s *errorReportService) knownToken(token string) bool {
	for _, t := range s.cfg.Tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

func (s *errorReportService) append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.cfg.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func matches(whitelist []string, value string) bool {
	for _, entry := range whitelist {
		if entry == whitelistAny || (value != "" && entry == value) {
			return true
		}
	}
	return false
}

func originHost(origin string) string {
	if origin == "" {
		return ""
	}
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// remoteIP accepts both host:port and a bare address.
func remoteIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
