package web

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	forecastStore "gymdesk/internal/adapters/storage/forecast"
	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
	weeklyStore "gymdesk/internal/adapters/storage/weekly"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainForecast "gymdesk/internal/domain/forecast"
	domainMember "gymdesk/internal/domain/member"
	domainOutbox "gymdesk/internal/domain/outbox"
	domainSale "gymdesk/internal/domain/sale"
	domainSession "gymdesk/internal/domain/session"
	domainWeekly "gymdesk/internal/domain/weekly"
)

// Mock implementations for testing

type mockMemberStore struct {
	members map[string]domainMember.Member
}

// GetByID implements the member store interface for testing.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (m *mockMemberStore) GetByID(ctx context.Context, id string) (domainMember.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return domainMember.Member{}, sql.ErrNoRows
}

// Save implements the member store interface for testing.
// PRE: entity has been validated
// POST: Entity is persisted
func (m *mockMemberStore) Save(ctx context.Context, mem domainMember.Member) error {
	if m.members == nil {
		m.members = make(map[string]domainMember.Member)
	}
	m.members[mem.ID] = mem
	return nil
}

// Delete implements the member store interface for testing.
func (m *mockMemberStore) Delete(ctx context.Context, id string) error {
	delete(m.members, id)
	return nil
}

// List implements the member store interface for testing.
func (m *mockMemberStore) List(ctx context.Context, filter memberStore.ListFilter) ([]domainMember.Member, error) {
	var list []domainMember.Member
	for _, mem := range m.members {
		list = append(list, mem)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Count implements the member store interface for testing.
func (m *mockMemberStore) Count(ctx context.Context, filter memberStore.ListFilter) (int, error) {
	return len(m.members), nil
}

// FindByName implements the member store interface for testing.
func (m *mockMemberStore) FindByName(ctx context.Context, name string) (domainMember.Member, error) {
	for _, mem := range m.members {
		if strings.EqualFold(strings.TrimSpace(mem.Name), strings.TrimSpace(name)) {
			return mem, nil
		}
	}
	return domainMember.Member{}, sql.ErrNoRows
}

// CountByDatePrefix implements the member store interface for testing.
func (m *mockMemberStore) CountByDatePrefix(ctx context.Context, registrationDate string) (int, error) {
	n := 0
	for _, mem := range m.members {
		if mem.RegistrationDate == registrationDate {
			n++
		}
	}
	return n, nil
}

type mockSaleStore struct {
	sales map[string]domainSale.Sale
}

// GetByID implements the sale store interface for testing.
func (m *mockSaleStore) GetByID(ctx context.Context, id string) (domainSale.Sale, error) {
	if s, ok := m.sales[id]; ok {
		return s, nil
	}
	return domainSale.Sale{}, sql.ErrNoRows
}

// Save implements the sale store interface for testing.
func (m *mockSaleStore) Save(ctx context.Context, s domainSale.Sale) error {
	if m.sales == nil {
		m.sales = make(map[string]domainSale.Sale)
	}
	m.sales[s.ID] = s
	return nil
}

// Delete implements the sale store interface for testing.
func (m *mockSaleStore) Delete(ctx context.Context, id string) error {
	delete(m.sales, id)
	return nil
}

// List implements the sale store interface for testing.
func (m *mockSaleStore) List(ctx context.Context, filter saleStore.ListFilter) ([]domainSale.Sale, error) {
	var list []domainSale.Sale
	for _, s := range m.sales {
		if filter.FromDate != "" && s.SaleDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && s.SaleDate > filter.ToDate {
			continue
		}
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SaleDate < list[j].SaleDate })
	return list, nil
}

// ListByMemberID implements the sale store interface for testing.
func (m *mockSaleStore) ListByMemberID(ctx context.Context, memberID string) ([]domainSale.Sale, error) {
	var list []domainSale.Sale
	for _, s := range m.sales {
		if s.MemberID == memberID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SaleDate < list[j].SaleDate })
	return list, nil
}

// DeleteByMemberID implements the sale store interface for testing.
func (m *mockSaleStore) DeleteByMemberID(ctx context.Context, memberID string) (int, error) {
	n := 0
	for id, s := range m.sales {
		if s.MemberID == memberID {
			delete(m.sales, id)
			n++
		}
	}
	return n, nil
}

// CountByDatePrefix implements the sale store interface for testing.
func (m *mockSaleStore) CountByDatePrefix(ctx context.Context, saleDate string) (int, error) {
	n := 0
	for _, s := range m.sales {
		if s.SaleDate == saleDate {
			n++
		}
	}
	return n, nil
}

type mockSessionStore struct {
	sessions map[string]domainSession.Session
}

// GetByID implements the session store interface for testing.
func (m *mockSessionStore) GetByID(ctx context.Context, id string) (domainSession.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return domainSession.Session{}, sql.ErrNoRows
}

// GetByCompletionSource implements the session store interface for testing.
func (m *mockSessionStore) GetByCompletionSource(ctx context.Context, eventID string) (domainSession.Session, error) {
	for _, s := range m.sessions {
		if eventID != "" && s.CompletionSourceID == eventID {
			return s, nil
		}
	}
	return domainSession.Session{}, sql.ErrNoRows
}

// Save implements the session store interface for testing.
func (m *mockSessionStore) Save(ctx context.Context, s domainSession.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]domainSession.Session)
	}
	m.sessions[s.ID] = s
	return nil
}

// Delete implements the session store interface for testing.
func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

// List implements the session store interface for testing.
func (m *mockSessionStore) List(ctx context.Context, filter sessionStore.ListFilter) ([]domainSession.Session, error) {
	var list []domainSession.Session
	for _, s := range m.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SessionDate < list[j].SessionDate })
	return list, nil
}

// ListByMemberID implements the session store interface for testing.
func (m *mockSessionStore) ListByMemberID(ctx context.Context, memberID string) ([]domainSession.Session, error) {
	var list []domainSession.Session
	for _, s := range m.sessions {
		if s.MemberID == memberID {
			list = append(list, s)
		}
	}
	return list, nil
}

// DeleteByMemberID implements the session store interface for testing.
func (m *mockSessionStore) DeleteByMemberID(ctx context.Context, memberID string) (int, error) {
	n := 0
	for id, s := range m.sessions {
		if s.MemberID == memberID {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// CountByDatePrefix implements the session store interface for testing.
func (m *mockSessionStore) CountByDatePrefix(ctx context.Context, sessionDate string) (int, error) {
	n := 0
	for _, s := range m.sessions {
		if s.SessionDate == sessionDate {
			n++
		}
	}
	return n, nil
}

type mockCalendarStore struct {
	events map[string]domainCalendar.Event
}

// GetByID implements the calendar store interface for testing.
func (m *mockCalendarStore) GetByID(ctx context.Context, id string) (domainCalendar.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return domainCalendar.Event{}, sql.ErrNoRows
}

// Save implements the calendar store interface for testing.
func (m *mockCalendarStore) Save(ctx context.Context, e domainCalendar.Event) error {
	if m.events == nil {
		m.events = make(map[string]domainCalendar.Event)
	}
	m.events[e.ID] = e
	return nil
}

// Delete implements the calendar store interface for testing.
func (m *mockCalendarStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

// List implements the calendar store interface for testing.
// Honours the Type, MemberID, and date-range filters used by the booking flow.
func (m *mockCalendarStore) List(ctx context.Context, filter calendarStore.ListFilter) ([]domainCalendar.Event, error) {
	var list []domainCalendar.Event
	for _, e := range m.events {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.MemberID != "" && e.MemberID != filter.MemberID {
			continue
		}
		if filter.FromDate != "" && e.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && e.Date > filter.ToDate {
			continue
		}
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list, nil
}

// ListByRecurrenceID implements the calendar store interface for testing.
func (m *mockCalendarStore) ListByRecurrenceID(ctx context.Context, recurrenceID string) ([]domainCalendar.Event, error) {
	var list []domainCalendar.Event
	for _, e := range m.events {
		if recurrenceID != "" && e.RecurrenceID == recurrenceID {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list, nil
}

// CountByDatePrefix implements the calendar store interface for testing.
func (m *mockCalendarStore) CountByDatePrefix(ctx context.Context, date string) (int, error) {
	n := 0
	for _, e := range m.events {
		if e.Date == date {
			n++
		}
	}
	return n, nil
}

type mockWeeklyStore struct {
	entries map[string]domainWeekly.Entry
}

// GetByID implements the weekly store interface for testing.
func (m *mockWeeklyStore) GetByID(ctx context.Context, id string) (domainWeekly.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return domainWeekly.Entry{}, sql.ErrNoRows
}

// Save implements the weekly store interface for testing.
func (m *mockWeeklyStore) Save(ctx context.Context, e domainWeekly.Entry) error {
	if m.entries == nil {
		m.entries = make(map[string]domainWeekly.Entry)
	}
	m.entries[e.ID] = e
	return nil
}

// Delete implements the weekly store interface for testing.
func (m *mockWeeklyStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// List implements the weekly store interface for testing.
func (m *mockWeeklyStore) List(ctx context.Context, filter weeklyStore.ListFilter) ([]domainWeekly.Entry, error) {
	var list []domainWeekly.Entry
	for _, e := range m.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.MemberID != "" && e.MemberID != filter.MemberID {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

// DeleteByMemberID implements the weekly store interface for testing.
func (m *mockWeeklyStore) DeleteByMemberID(ctx context.Context, memberID string) (int, error) {
	n := 0
	for id, e := range m.entries {
		if e.MemberID == memberID {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

type mockForecastStore struct {
	entries map[string]domainForecast.Entry
}

// GetByID implements the forecast store interface for testing.
func (m *mockForecastStore) GetByID(ctx context.Context, id string) (domainForecast.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return domainForecast.Entry{}, sql.ErrNoRows
}

// Save implements the forecast store interface for testing.
func (m *mockForecastStore) Save(ctx context.Context, e domainForecast.Entry) error {
	if m.entries == nil {
		m.entries = make(map[string]domainForecast.Entry)
	}
	m.entries[e.ID] = e
	return nil
}

// Delete implements the forecast store interface for testing.
func (m *mockForecastStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// List implements the forecast store interface for testing.
func (m *mockForecastStore) List(ctx context.Context, filter forecastStore.ListFilter) ([]domainForecast.Entry, error) {
	var list []domainForecast.Entry
	for _, e := range m.entries {
		if filter.FromDate != "" && e.ForecastDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && e.ForecastDate > filter.ToDate {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

// CountByDatePrefix implements the forecast store interface for testing.
func (m *mockForecastStore) CountByDatePrefix(ctx context.Context, forecastDate string) (int, error) {
	n := 0
	for _, e := range m.entries {
		if e.ForecastDate == forecastDate {
			n++
		}
	}
	return n, nil
}

type mockOutboxStore struct {
	entries map[string]domainOutbox.Entry
}

// GetByID implements the outbox store interface for testing.
func (m *mockOutboxStore) GetByID(ctx context.Context, id string) (domainOutbox.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return domainOutbox.Entry{}, sql.ErrNoRows
}

// Save implements the outbox store interface for testing.
func (m *mockOutboxStore) Save(ctx context.Context, e domainOutbox.Entry) error {
	if m.entries == nil {
		m.entries = make(map[string]domainOutbox.Entry)
	}
	m.entries[e.ID] = e
	return nil
}

// Delete implements the outbox store interface for testing.
func (m *mockOutboxStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// ListRetryable implements the outbox store interface for testing.
func (m *mockOutboxStore) ListRetryable(ctx context.Context, limit int) ([]domainOutbox.Entry, error) {
	var list []domainOutbox.Entry
	for _, e := range m.entries {
		if e.CanRetry() && len(list) < limit {
			list = append(list, e)
		}
	}
	return list, nil
}

// List implements the outbox store interface for testing.
func (m *mockOutboxStore) List(ctx context.Context, limit int) ([]domainOutbox.Entry, error) {
	var list []domainOutbox.Entry
	for _, e := range m.entries {
		if len(list) < limit {
			list = append(list, e)
		}
	}
	return list, nil
}

// domainSessionFixture builds a minimal attended-session row for seeding.
func domainSessionFixture(id, memberID, date string) domainSession.Session {
	return domainSession.Session{ID: id, MemberID: memberID, SessionDate: date, ClassCount: 1}
}

// newTestStores installs a fresh set of empty mock stores as the package
// globals and returns them for seeding.
func newTestStores() (*mockMemberStore, *mockSaleStore, *mockSessionStore, *mockCalendarStore) {
	members := &mockMemberStore{members: make(map[string]domainMember.Member)}
	sales := &mockSaleStore{sales: make(map[string]domainSale.Sale)}
	sessions := &mockSessionStore{sessions: make(map[string]domainSession.Session)}
	events := &mockCalendarStore{events: make(map[string]domainCalendar.Event)}
	stores = &Stores{
		MemberStore:   members,
		SaleStore:     sales,
		SessionStore:  sessions,
		CalendarStore: events,
		WeeklyStore:   &mockWeeklyStore{entries: make(map[string]domainWeekly.Entry)},
		ForecastStore: &mockForecastStore{entries: make(map[string]domainForecast.Entry)},
		OutboxStore:   &mockOutboxStore{entries: make(map[string]domainOutbox.Entry)},
	}
	return members, sales, sessions, events
}
