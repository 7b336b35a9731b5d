package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

type sessionRepositoryStub struct {
	sessions  map[string]persistence.Session
	createErr error
	getErr    error
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessions: make(map[string]persistence.Session)}
}

func (s *sessionRepositoryStub) seed(session persistence.Session) {
	s.sessions[session.Token] = session
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	if s.createErr != nil {
		return persistence.Session{}, s.createErr
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (persistence.Session, error) {
	if s.getErr != nil {
		return persistence.Session{}, s.getErr
	}
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	for token, session := range s.sessions {
		if session.ExpiresAt.Before(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

type employeeRepositoryStub struct {
	byID      map[string]persistence.Employee
	createErr error
}

func newEmployeeRepositoryStub() *employeeRepositoryStub {
	return &employeeRepositoryStub{byID: make(map[string]persistence.Employee)}
}

func (s *employeeRepositoryStub) CreateEmployee(_ context.Context, employee persistence.Employee) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.byID {
		if existing.DisplayName == employee.DisplayName {
			return persistence.ErrConstraintViolation
		}
	}
	s.byID[employee.ID] = employee
	return nil
}

func (s *employeeRepositoryStub) UpdateEmployee(_ context.Context, employee persistence.Employee) error {
	if _, ok := s.byID[employee.ID]; !ok {
		return persistence.ErrNotFound
	}
	for id, existing := range s.byID {
		if id != employee.ID && existing.DisplayName == employee.DisplayName {
			return persistence.ErrConstraintViolation
		}
	}
	s.byID[employee.ID] = employee
	return nil
}

func (s *employeeRepositoryStub) GetEmployee(_ context.Context, id string) (persistence.Employee, error) {
	employee, ok := s.byID[id]
	if !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

func (s *employeeRepositoryStub) GetEmployeeByDisplayName(_ context.Context, displayName string) (persistence.Employee, error) {
	for _, employee := range s.byID {
		if employee.DisplayName == displayName {
			return employee, nil
		}
	}
	return persistence.Employee{}, persistence.ErrNotFound
}

func (s *employeeRepositoryStub) ListEmployees(_ context.Context) ([]persistence.Employee, error) {
	out := make([]persistence.Employee, 0, len(s.byID))
	for _, employee := range s.byID {
		out = append(out, employee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (s *employeeRepositoryStub) DeleteEmployee(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type showRepositoryStub struct {
	byID      map[string]persistence.Show
	qualified map[string][]string
}

func newShowRepositoryStub() *showRepositoryStub {
	return &showRepositoryStub{
		byID:      make(map[string]persistence.Show),
		qualified: make(map[string][]string),
	}
}

func (s *showRepositoryStub) CreateShow(_ context.Context, show persistence.Show) error {
	for _, existing := range s.byID {
		if existing.Title == show.Title {
			return persistence.ErrConstraintViolation
		}
	}
	s.byID[show.ID] = show
	return nil
}

func (s *showRepositoryStub) UpdateShow(_ context.Context, show persistence.Show) error {
	if _, ok := s.byID[show.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.byID[show.ID] = show
	return nil
}

func (s *showRepositoryStub) GetShow(_ context.Context, id string) (persistence.Show, error) {
	show, ok := s.byID[id]
	if !ok {
		return persistence.Show{}, persistence.ErrNotFound
	}
	return show, nil
}

func (s *showRepositoryStub) ListShows(_ context.Context) ([]persistence.Show, error) {
	out := make([]persistence.Show, 0, len(s.byID))
	for _, show := range s.byID {
		out = append(out, show)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *showRepositoryStub) DeleteShow(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.qualified, id)
	return nil
}

func (s *showRepositoryStub) SetQualifiedEmployees(_ context.Context, showID string, employeeIDs []string) error {
	if _, ok := s.byID[showID]; !ok {
		return persistence.ErrNotFound
	}
	s.qualified[showID] = append([]string(nil), employeeIDs...)
	return nil
}

func (s *showRepositoryStub) ToggleQualifiedEmployee(_ context.Context, showID, employeeID string) error {
	if _, ok := s.byID[showID]; !ok {
		return persistence.ErrNotFound
	}
	ids := s.qualified[showID]
	for i, id := range ids {
		if id == employeeID {
			s.qualified[showID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	s.qualified[showID] = append(ids, employeeID)
	return nil
}

func (s *showRepositoryStub) QualifiedEmployeeIDs(_ context.Context, title string) ([]string, error) {
	for id, show := range s.byID {
		if show.Title == title {
			return append([]string(nil), s.qualified[id]...), nil
		}
	}
	return nil, nil
}

type unavailabilityRepositoryStub struct {
	dates map[string]map[string]struct{}
}

func newUnavailabilityRepositoryStub() *unavailabilityRepositoryStub {
	return &unavailabilityRepositoryStub{dates: make(map[string]map[string]struct{})}
}

func (s *unavailabilityRepositoryStub) AddBusyDates(_ context.Context, employeeID string, dates []string) ([]string, error) {
	set := s.dates[employeeID]
	if set == nil {
		set = make(map[string]struct{})
		s.dates[employeeID] = set
	}
	var added []string
	for _, d := range dates {
		if _, ok := set[d]; !ok {
			set[d] = struct{}{}
			added = append(added, d)
		}
	}
	return added, nil
}

func (s *unavailabilityRepositoryStub) RemoveBusyDates(_ context.Context, employeeID string, dates []string) ([]string, error) {
	set := s.dates[employeeID]
	var removed []string
	for _, d := range dates {
		if _, ok := set[d]; ok {
			delete(set, d)
			removed = append(removed, d)
		}
	}
	return removed, nil
}

func (s *unavailabilityRepositoryStub) ClearBusyDates(_ context.Context, employeeID string) error {
	delete(s.dates, employeeID)
	return nil
}

func (s *unavailabilityRepositoryStub) ListBusyDates(_ context.Context, employeeID string) ([]string, error) {
	var out []string
	for d := range s.dates[employeeID] {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

type windowRepositoryStub struct {
	windows   map[[2]int]persistence.SubmissionWindow
	submitted map[string]map[[2]int]time.Time
}

func newWindowRepositoryStub() *windowRepositoryStub {
	return &windowRepositoryStub{
		windows:   make(map[[2]int]persistence.SubmissionWindow),
		submitted: make(map[string]map[[2]int]time.Time),
	}
}

func (s *windowRepositoryStub) EnsureWindow(_ context.Context, year, month int, openedAt time.Time) error {
	key := [2]int{year, month}
	if _, ok := s.windows[key]; !ok {
		s.windows[key] = persistence.SubmissionWindow{Year: year, Month: month, OpenedAt: openedAt}
	}
	return nil
}

func (s *windowRepositoryStub) GetWindow(_ context.Context, year, month int) (persistence.SubmissionWindow, error) {
	window, ok := s.windows[[2]int{year, month}]
	if !ok {
		return persistence.SubmissionWindow{}, persistence.ErrNotFound
	}
	return window, nil
}

func (s *windowRepositoryStub) MarkBroadcastSent(_ context.Context, year, month int) error {
	key := [2]int{year, month}
	window, ok := s.windows[key]
	if !ok {
		return persistence.ErrNotFound
	}
	window.BroadcastSent = true
	s.windows[key] = window
	return nil
}

func (s *windowRepositoryStub) SetSubmitted(_ context.Context, employeeID string, year, month int, at time.Time) error {
	months := s.submitted[employeeID]
	if months == nil {
		months = make(map[[2]int]time.Time)
		s.submitted[employeeID] = months
	}
	months[[2]int{year, month}] = at
	return nil
}

func (s *windowRepositoryStub) UnsetSubmitted(_ context.Context, employeeID string, year, month int) error {
	delete(s.submitted[employeeID], [2]int{year, month})
	return nil
}

func (s *windowRepositoryStub) HasSubmitted(_ context.Context, employeeID string, year, month int) (bool, error) {
	_, ok := s.submitted[employeeID][[2]int{year, month}]
	return ok, nil
}

type eventRepositoryStub struct {
	events     []persistence.Event
	replaceErr error
	nextID     int64
}

func (s *eventRepositoryStub) ReplaceMonth(_ context.Context, year, month int, events []persistence.Event) (int, error) {
	if s.replaceErr != nil {
		return 0, s.replaceErr
	}
	prefix := monthPrefix(year, month)
	kept := s.events[:0]
	for _, e := range s.events {
		if !strings.HasPrefix(e.Date, prefix) {
			kept = append(kept, e)
		}
	}
	s.events = kept
	for _, e := range events {
		s.nextID++
		e.ID = s.nextID
		s.events = append(s.events, e)
	}
	return len(events), nil
}

func (s *eventRepositoryStub) ListEventsForMonth(_ context.Context, year, month int) ([]persistence.Event, error) {
	prefix := monthPrefix(year, month)
	var out []persistence.Event
	for _, e := range s.events {
		if strings.HasPrefix(e.Date, prefix) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *eventRepositoryStub) ListMonths(_ context.Context) ([]persistence.YearMonth, error) {
	seen := make(map[persistence.YearMonth]struct{})
	for _, e := range s.events {
		if len(e.Date) < 7 {
			continue
		}
		t, err := time.Parse("2006-01", e.Date[:7])
		if err != nil {
			continue
		}
		seen[persistence.YearMonth{Year: t.Year(), Month: int(t.Month())}] = struct{}{}
	}
	out := make([]persistence.YearMonth, 0, len(seen))
	for ym := range seen {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func monthPrefix(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-")
}

type notifierStub struct {
	delivered []string
	err       error
}

func (n *notifierStub) Deliver(_ context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.delivered = append(n.delivered, text)
	return nil
}
