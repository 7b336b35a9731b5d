package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/theater-roster/internal/application"
	"github.com/example/theater-roster/internal/roster"
)

type assignmentService interface {
	Run(ctx context.Context, params application.RunAssignmentParams) (roster.Result, error)
	Conflicts(year, month int) ([]roster.Conflict, error)
	Summary(ctx context.Context, year, month int) (string, error)
}

type AssignmentHandler struct {
	service   assignmentService
	responder responder
	logger    *slog.Logger
}

func NewAssignmentHandler(service assignmentService, logger *slog.Logger) *AssignmentHandler {
	base := defaultLogger(logger)
	return &AssignmentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AssignmentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AssignmentHandler", operation, attrs...)
}

// Run triggers an assignment run for one month.
func (h *AssignmentHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Run", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode run request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Run", "year", req.Year, "month", req.Month)

	result, err := h.service.Run(r.Context(), application.RunAssignmentParams{
		Principal: principal,
		Year:      req.Year,
		Month:     req.Month,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "assignment run failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "assignment run finished",
		"main_updated", result.MainUpdated, "duty_updated", result.DutyUpdated, "conflicts", len(result.Conflicts))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRunResponse(result))
}

// Conflicts returns the conflict list cached by the most recent run.
func (h *AssignmentHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year, month, ok := parseYearMonth(r.URL.Query().Get("month"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	conflicts, err := h.service.Conflicts(year, month)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]conflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		dtos = append(dtos, conflictDTO{Date: c.Date, Title: c.Title, City: c.City, Kind: string(c.Kind)})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictListResponse{Conflicts: dtos})
}

// Summary returns the month's rendered load report.
func (h *AssignmentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year, month, ok := parseYearMonth(r.URL.Query().Get("month"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	text, err := h.service.Summary(r.Context(), year, month)
	if err != nil {
		h.log(r.Context(), "Summary").ErrorContext(r.Context(), "failed to render summary", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, summaryResponse{Text: text})
}

type runRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type runResponse struct {
	MainUpdated int           `json:"main_updated"`
	DutyUpdated int           `json:"duty_updated"`
	Conflicts   []conflictDTO `json:"conflicts"`
	Tally       []tallyDTO    `json:"tally"`
}

type conflictDTO struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	City  string `json:"city,omitempty"`
	Kind  string `json:"kind"`
}

type tallyDTO struct {
	EmployeeID  string `json:"employee_id"`
	DisplayName string `json:"display_name"`
	Main        int    `json:"main"`
	Duty        int    `json:"duty"`
}

type conflictListResponse struct {
	Conflicts []conflictDTO `json:"conflicts"`
}

type summaryResponse struct {
	Text string `json:"text"`
}

func toRunResponse(result roster.Result) runResponse {
	resp := runResponse{
		MainUpdated: result.MainUpdated,
		DutyUpdated: result.DutyUpdated,
		Conflicts:   make([]conflictDTO, 0, len(result.Conflicts)),
		Tally:       make([]tallyDTO, 0, len(result.Tally)),
	}
	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictDTO{Date: c.Date, Title: c.Title, City: c.City, Kind: string(c.Kind)})
	}
	for _, l := range result.Tally {
		resp.Tally = append(resp.Tally, tallyDTO{EmployeeID: l.EmployeeID, DisplayName: l.DisplayName, Main: l.Main, Duty: l.Duty})
	}
	return resp
}
