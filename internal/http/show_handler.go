package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/theater-roster/internal/application"
	"github.com/example/theater-roster/internal/persistence"
)

type showService interface {
	CreateShow(ctx context.Context, params application.CreateShowParams) (persistence.Show, error)
	RenameShow(ctx context.Context, params application.RenameShowParams) (persistence.Show, error)
	ListShows(ctx context.Context) ([]persistence.Show, error)
	DeleteShow(ctx context.Context, principal application.Principal, id string) error
	SetQualifications(ctx context.Context, params application.SetQualificationsParams) error
	ToggleQualification(ctx context.Context, principal application.Principal, showID, employeeID string) error
}

type ShowHandler struct {
	service   showService
	responder responder
	logger    *slog.Logger
}

func NewShowHandler(service showService, logger *slog.Logger) *ShowHandler {
	base := defaultLogger(logger)
	return &ShowHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ShowHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ShowHandler", operation, attrs...)
}

func (h *ShowHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	shows, err := h.service.ListShows(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list shows", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]showDTO, 0, len(shows))
	for _, show := range shows {
		dtos = append(dtos, showDTO{ID: show.ID, Title: show.Title})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, showListResponse{Shows: dtos})
}

func (h *ShowHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req showRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode show request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	show, err := h.service.CreateShow(r.Context(), application.CreateShowParams{Principal: principal, Title: req.Title})
	if err != nil {
		logger.ErrorContext(r.Context(), "show creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("show_id", show.ID).InfoContext(r.Context(), "show created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, showResponse{Show: showDTO{ID: show.ID, Title: show.Title}})
}

func (h *ShowHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	showID, ok := ShowIDFromContext(r.Context())
	if !ok || strings.TrimSpace(showID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShowID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req showRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "show_id", showID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode show update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "show_id", showID)

	show, err := h.service.RenameShow(r.Context(), application.RenameShowParams{Principal: principal, ID: showID, Title: req.Title})
	if err != nil {
		logger.ErrorContext(r.Context(), "show rename failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "show renamed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, showResponse{Show: showDTO{ID: show.ID, Title: show.Title}})
}

func (h *ShowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	showID, ok := ShowIDFromContext(r.Context())
	if !ok || strings.TrimSpace(showID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShowID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "show_id", showID)

	if err := h.service.DeleteShow(r.Context(), principal, showID); err != nil {
		logger.ErrorContext(r.Context(), "show deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "show deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// SetEmployees replaces the show's qualified employee set.
func (h *ShowHandler) SetEmployees(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	showID, ok := ShowIDFromContext(r.Context())
	if !ok || strings.TrimSpace(showID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShowID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req qualificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetEmployees", "show_id", showID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode qualification request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetEmployees", "show_id", showID)

	err := h.service.SetQualifications(r.Context(), application.SetQualificationsParams{
		Principal:   principal,
		ShowID:      showID,
		EmployeeIDs: req.EmployeeIDs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "qualification replace failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "qualifications replaced", "count", len(req.EmployeeIDs))
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ToggleEmployee flips one qualification link.
func (h *ShowHandler) ToggleEmployee(w http.ResponseWriter, r *http.Request, employeeID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	showID, ok := ShowIDFromContext(r.Context())
	if !ok || strings.TrimSpace(showID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShowID)
		return
	}
	if strings.TrimSpace(employeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ToggleEmployee", "show_id", showID, "employee_id", employeeID)

	if err := h.service.ToggleQualification(r.Context(), principal, showID, employeeID); err != nil {
		logger.ErrorContext(r.Context(), "qualification toggle failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type showRequest struct {
	Title string `json:"title"`
}

type showDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type showResponse struct {
	Show showDTO `json:"show"`
}

type showListResponse struct {
	Shows []showDTO `json:"shows"`
}

type qualificationRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}
