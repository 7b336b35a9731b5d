// Package http provides HTTP handlers and middleware for the roster API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues an administrator session. Body: {"password"}.
//     Response: {"token","expires_at"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted
//     from the Authorization header or session cookie. Returns 204.
//   - GET /employees, POST /employees, PUT /employees/{id},
//     DELETE /employees/{id}: staff management endpoints exchanging the
//     `employeeDTO` payload defined in employee_handler.go.
//   - GET /employees/{id}/busy, PUT /employees/{id}/busy,
//     DELETE /employees/{id}/busy?month=YYYY-MM: unavailable-day submission.
//     PUT accepts {"year","month","days"} where days is a human list like
//     "1-3,7"; resubmission replaces the month.
//   - POST /windows, GET /windows/{YYYY-MM}: monthly submission window
//     management.
//   - GET /shows, POST /shows, PUT /shows/{id}, DELETE /shows/{id}: production
//     catalogue. PUT /shows/{id}/employees replaces the qualified set;
//     POST /shows/{id}/employees/{employeeID} toggles one link.
//   - GET /events?month=YYYY-MM, GET /events/months, POST /events/import:
//     schedule listing and bulk month import.
//   - POST /assignments/run: runs the staffing engine for {"year","month"} and
//     returns updated counts, conflicts and the per-employee tally.
//   - GET /assignments/conflicts?month=YYYY-MM: the conflict list cached by
//     the most recent run.
//   - GET /assignments/summary?month=YYYY-MM: the rendered load report.
//
// All endpoints except POST /sessions sit behind the RequireSession
// middleware. Request/response DTOs live alongside their respective handlers.
package http
