package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
)

// ErrorReportTokenHeader carries the token identifying a reporting frontend.
const ErrorReportTokenHeader = "Error-Reporting-Token"

// ErrorReportHandler accepts client-side error reports from trusted frontends.
type ErrorReportHandler struct {
	reports service.ErrorReportService
	logger  *slog.Logger
}

// NewErrorReportHandler creates a new ErrorReportHandler.
func NewErrorReportHandler(reports service.ErrorReportService, logger *slog.Logger) *ErrorReportHandler {
	if reports == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("error report service and logger cannot be nil for ErrorReportHandler")
	}
	return &ErrorReportHandler{
		reports: reports,
		logger:  logger.With(slog.String("component", "error_report_handler")),
	}
}

// Report handles POST /error-report.
func (h *ErrorReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req ErrorReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.reports.Save(r.Context(), service.ErrorReport{
		Token:      r.Header.Get(ErrorReportTokenHeader),
		Origin:     r.Header.Get("Origin"),
		RemoteAddr: r.RemoteAddr,
		Message:    req.Message,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("error report saved",
		slog.String("origin", r.Header.Get("Origin")))
	shared.RespondWithInfo(w, r, http.StatusCreated, MsgErrorReportOK)
}
