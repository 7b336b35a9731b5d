package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/theater-roster/internal/application"
	"github.com/example/theater-roster/internal/persistence"
)

type unavailabilityService interface {
	OpenWindow(ctx context.Context, principal application.Principal, year, month int) (persistence.SubmissionWindow, error)
	GetWindow(ctx context.Context, year, month int) (persistence.SubmissionWindow, error)
	SubmitBusyDays(ctx context.Context, params application.SubmitBusyDaysParams) ([]string, error)
	ListBusyDates(ctx context.Context, principal application.Principal, employeeID string) ([]string, error)
	ClearBusyDates(ctx context.Context, principal application.Principal, employeeID string, year, month int) error
}

type UnavailabilityHandler struct {
	service   unavailabilityService
	responder responder
	logger    *slog.Logger
}

func NewUnavailabilityHandler(service unavailabilityService, logger *slog.Logger) *UnavailabilityHandler {
	base := defaultLogger(logger)
	return &UnavailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UnavailabilityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UnavailabilityHandler", operation, attrs...)
}

// OpenWindow opens a month's submission window.
func (h *UnavailabilityHandler) OpenWindow(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "OpenWindow", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode window request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "OpenWindow", "year", req.Year, "month", req.Month)

	window, err := h.service.OpenWindow(r.Context(), principal, req.Year, req.Month)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to open window", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "submission window open")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, windowResponse{Window: toWindowDTO(window)})
}

// GetWindow reports a month's window state.
func (h *UnavailabilityHandler) GetWindow(w http.ResponseWriter, r *http.Request, month string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year, monthNum, ok := parseYearMonth(month)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	window, err := h.service.GetWindow(r.Context(), year, monthNum)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, windowResponse{Window: toWindowDTO(window)})
}

// SubmitBusyDays records an employee's unavailable days for a month.
func (h *UnavailabilityHandler) SubmitBusyDays(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req busyDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SubmitBusyDays", "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode busy days request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SubmitBusyDays", "employee_id", employeeID, "year", req.Year, "month", req.Month)

	dates, err := h.service.SubmitBusyDays(r.Context(), application.SubmitBusyDaysParams{
		Principal:  principal,
		EmployeeID: employeeID,
		Year:       req.Year,
		Month:      req.Month,
		Days:       req.Days,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "busy days submission failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "busy days submitted", "count", len(dates))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, busyDaysResponse{Dates: dates})
}

// ListBusyDates returns an employee's recorded unavailable dates.
func (h *UnavailabilityHandler) ListBusyDates(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	dates, err := h.service.ListBusyDates(r.Context(), principal, employeeID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, busyDaysResponse{Dates: dates})
}

// ClearBusyDates removes all recorded unavailable dates for an employee.
func (h *UnavailabilityHandler) ClearBusyDates(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	year, month, ok := parseYearMonth(r.URL.Query().Get("month"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	logger := h.log(r.Context(), "ClearBusyDates", "employee_id", employeeID)

	if err := h.service.ClearBusyDates(r.Context(), principal, employeeID, year, month); err != nil {
		logger.ErrorContext(r.Context(), "failed to clear busy dates", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "busy dates cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type windowRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type windowDTO struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	OpenedAt      string `json:"opened_at"`
	BroadcastSent bool   `json:"broadcast_sent"`
}

type windowResponse struct {
	Window windowDTO `json:"window"`
}

type busyDaysRequest struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Days  string `json:"days"`
}

type busyDaysResponse struct {
	Dates []string `json:"dates"`
}

func toWindowDTO(window persistence.SubmissionWindow) windowDTO {
	return windowDTO{
		Year:          window.Year,
		Month:         window.Month,
		OpenedAt:      window.OpenedAt.UTC().Format(time.RFC3339),
		BroadcastSent: window.BroadcastSent,
	}
}
