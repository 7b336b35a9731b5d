package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/theater-roster/internal/application"
	"github.com/example/theater-roster/internal/persistence"
)

type eventService interface {
	ImportMonth(ctx context.Context, params application.ImportMonthParams) (int, error)
	ListMonth(ctx context.Context, year, month int) ([]persistence.Event, error)
	ListMonths(ctx context.Context) ([]persistence.YearMonth, error)
}

type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// List returns the schedule for the month given by the `month` query
// parameter (YYYY-MM).
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year, month, ok := parseYearMonth(r.URL.Query().Get("month"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	events, err := h.service.ListMonth(r.Context(), year, month)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list events", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toEventDTO(event))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventListResponse{Events: dtos})
}

// ListMonths returns the distinct months present in the schedule.
func (h *EventHandler) ListMonths(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	months, err := h.service.ListMonths(r.Context())
	if err != nil {
		h.log(r.Context(), "ListMonths").ErrorContext(r.Context(), "failed to list months", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]monthDTO, 0, len(months))
	for _, m := range months {
		dtos = append(dtos, monthDTO{Year: m.Year, Month: m.Month})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, monthListResponse{Months: dtos})
}

// Import replaces a month's schedule with the uploaded rows.
func (h *EventHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Import", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode import request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Import", "year", req.Year, "month", req.Month, "rows", len(req.Events))

	inputs := make([]application.EventInput, 0, len(req.Events))
	for _, e := range req.Events {
		inputs = append(inputs, application.EventInput{
			Date:     e.Date,
			Type:     e.Type,
			Title:    e.Title,
			Time:     e.Time,
			Location: e.Location,
			City:     e.City,
			Assignee: e.Assignee,
			Info:     e.Info,
		})
	}

	inserted, err := h.service.ImportMonth(r.Context(), application.ImportMonthParams{
		Principal: principal,
		Year:      req.Year,
		Month:     req.Month,
		Events:    inputs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "schedule imported", "inserted", inserted)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, importResponse{Inserted: inserted})
}

// parseYearMonth parses a YYYY-MM value.
func parseYearMonth(value string) (int, int, bool) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), int(t.Month()), true
}

type importRequest struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Events []eventDTO `json:"events"`
}

type importResponse struct {
	Inserted int `json:"inserted"`
}

type eventDTO struct {
	ID       int64  `json:"id,omitempty"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	Assignee string `json:"assignee,omitempty"`
	Duty     string `json:"duty,omitempty"`
	Info     string `json:"info,omitempty"`
}

type eventListResponse struct {
	Events []eventDTO `json:"events"`
}

type monthDTO struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type monthListResponse struct {
	Months []monthDTO `json:"months"`
}

func toEventDTO(event persistence.Event) eventDTO {
	return eventDTO{
		ID:       event.ID,
		Date:     event.Date,
		Type:     event.Type,
		Title:    event.Title,
		Time:     event.Time,
		Location: event.Location,
		City:     event.City,
		Assignee: event.Assignee,
		Duty:     event.Duty,
		Info:     event.Info,
	}
}
