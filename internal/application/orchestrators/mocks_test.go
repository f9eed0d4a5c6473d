package orchestrators

import (
	"context"
	"errors"
	"strings"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainMember "gymdesk/internal/domain/member"
	domainOutbox "gymdesk/internal/domain/outbox"
	domainSale "gymdesk/internal/domain/sale"
	domainSession "gymdesk/internal/domain/session"
)

var errNotFound = errors.New("not found")

// --- member store ---

type memMemberStore struct {
	members map[string]domainMember.Member
	order   []string
	saveErr error
}

func newMemMemberStore(members ...domainMember.Member) *memMemberStore {
	s := &memMemberStore{members: make(map[string]domainMember.Member)}
	for _, m := range members {
		s.members[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	return s
}

func (s *memMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return domainMember.Member{}, errNotFound
	}
	return m, nil
}

func (s *memMemberStore) Save(_ context.Context, m domainMember.Member) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.members[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.members[m.ID] = m
	return nil
}

func (s *memMemberStore) Delete(_ context.Context, id string) error {
	delete(s.members, id)
	return nil
}

func (s *memMemberStore) List(_ context.Context, _ memberStore.ListFilter) ([]domainMember.Member, error) {
	var out []domainMember.Member
	for _, id := range s.order {
		if m, ok := s.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMemberStore) Count(_ context.Context, _ memberStore.ListFilter) (int, error) {
	return len(s.members), nil
}

func (s *memMemberStore) FindByName(_ context.Context, name string) (domainMember.Member, error) {
	for _, id := range s.order {
		m := s.members[id]
		if strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return domainMember.Member{}, errNotFound
}

func (s *memMemberStore) CountByDatePrefix(_ context.Context, date string) (int, error) {
	n := 0
	for _, m := range s.members {
		if m.RegistrationDate == date {
			n++
		}
	}
	return n, nil
}

// --- sale store ---

type memSaleStore struct {
	sales map[string]domainSale.Sale
	order []string
}

func newMemSaleStore(sales ...domainSale.Sale) *memSaleStore {
	s := &memSaleStore{sales: make(map[string]domainSale.Sale)}
	for _, v := range sales {
		s.sales[v.ID] = v
		s.order = append(s.order, v.ID)
	}
	return s
}

func (s *memSaleStore) GetByID(_ context.Context, id string) (domainSale.Sale, error) {
	v, ok := s.sales[id]
	if !ok {
		return domainSale.Sale{}, errNotFound
	}
	return v, nil
}

func (s *memSaleStore) Save(_ context.Context, v domainSale.Sale) error {
	if _, ok := s.sales[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.sales[v.ID] = v
	return nil
}

func (s *memSaleStore) Delete(_ context.Context, id string) error {
	delete(s.sales, id)
	return nil
}

func (s *memSaleStore) List(_ context.Context, _ saleStore.ListFilter) ([]domainSale.Sale, error) {
	var out []domainSale.Sale
	for _, id := range s.order {
		if v, ok := s.sales[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memSaleStore) ListByMemberID(_ context.Context, memberID string) ([]domainSale.Sale, error) {
	var out []domainSale.Sale
	for _, id := range s.order {
		if v, ok := s.sales[id]; ok && v.MemberID == memberID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memSaleStore) DeleteByMemberID(_ context.Context, memberID string) (int, error) {
	n := 0
	for id, v := range s.sales {
		if v.MemberID == memberID {
			delete(s.sales, id)
			n++
		}
	}
	return n, nil
}

func (s *memSaleStore) CountByDatePrefix(_ context.Context, date string) (int, error) {
	n := 0
	for _, v := range s.sales {
		if v.SaleDate == date {
			n++
		}
	}
	return n, nil
}

// --- session store ---

type memSessionStore struct {
	sessions map[string]domainSession.Session
	order    []string
	saveErr  error
}

func newMemSessionStore(sessions ...domainSession.Session) *memSessionStore {
	s := &memSessionStore{sessions: make(map[string]domainSession.Session)}
	for _, v := range sessions {
		s.sessions[v.ID] = v
		s.order = append(s.order, v.ID)
	}
	return s
}

func (s *memSessionStore) GetByID(_ context.Context, id string) (domainSession.Session, error) {
	v, ok := s.sessions[id]
	if !ok {
		return domainSession.Session{}, errNotFound
	}
	return v, nil
}

func (s *memSessionStore) GetByCompletionSource(_ context.Context, eventID string) (domainSession.Session, error) {
	for _, id := range s.order {
		if v, ok := s.sessions[id]; ok && v.CompletionSourceID == eventID && eventID != "" {
			return v, nil
		}
	}
	return domainSession.Session{}, errNotFound
}

func (s *memSessionStore) Save(_ context.Context, v domainSession.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.sessions[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.sessions[v.ID] = v
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *memSessionStore) List(_ context.Context, _ sessionStore.ListFilter) ([]domainSession.Session, error) {
	var out []domainSession.Session
	for _, id := range s.order {
		if v, ok := s.sessions[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memSessionStore) ListByMemberID(_ context.Context, memberID string) ([]domainSession.Session, error) {
	var out []domainSession.Session
	for _, id := range s.order {
		if v, ok := s.sessions[id]; ok && v.MemberID == memberID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memSessionStore) DeleteByMemberID(_ context.Context, memberID string) (int, error) {
	n := 0
	for id, v := range s.sessions {
		if v.MemberID == memberID {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *memSessionStore) CountByDatePrefix(_ context.Context, date string) (int, error) {
	n := 0
	for _, v := range s.sessions {
		if v.SessionDate == date {
			n++
		}
	}
	return n, nil
}

// --- calendar store ---

type memCalendarStore struct {
	events  map[string]domainCalendar.Event
	order   []string
	saveErr error
}

func newMemCalendarStore(events ...domainCalendar.Event) *memCalendarStore {
	s := &memCalendarStore{events: make(map[string]domainCalendar.Event)}
	for _, v := range events {
		s.events[v.ID] = v
		s.order = append(s.order, v.ID)
	}
	return s
}

func (s *memCalendarStore) GetByID(_ context.Context, id string) (domainCalendar.Event, error) {
	v, ok := s.events[id]
	if !ok {
		return domainCalendar.Event{}, errNotFound
	}
	return v, nil
}

func (s *memCalendarStore) Save(_ context.Context, v domainCalendar.Event) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.events[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.events[v.ID] = v
	return nil
}

func (s *memCalendarStore) Delete(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return errNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *memCalendarStore) List(_ context.Context, filter calendarStore.ListFilter) ([]domainCalendar.Event, error) {
	var out []domainCalendar.Event
	for _, id := range s.order {
		v, ok := s.events[id]
		if !ok {
			continue
		}
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		if filter.MemberID != "" && v.MemberID != filter.MemberID {
			continue
		}
		if filter.FromDate != "" && v.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && v.Date > filter.ToDate {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *memCalendarStore) ListByRecurrenceID(_ context.Context, recurrenceID string) ([]domainCalendar.Event, error) {
	var out []domainCalendar.Event
	for _, id := range s.order {
		if v, ok := s.events[id]; ok && v.RecurrenceID == recurrenceID && recurrenceID != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memCalendarStore) CountByDatePrefix(_ context.Context, date string) (int, error) {
	n := 0
	for _, v := range s.events {
		if v.Date == date {
			n++
		}
	}
	return n, nil
}

// --- outbox store ---

type memOutboxStore struct {
	entries map[string]domainOutbox.Entry
	order   []string
	saveErr error
}

func newMemOutboxStore() *memOutboxStore {
	return &memOutboxStore{entries: make(map[string]domainOutbox.Entry)}
}

func (s *memOutboxStore) GetByID(_ context.Context, id string) (domainOutbox.Entry, error) {
	v, ok := s.entries[id]
	if !ok {
		return domainOutbox.Entry{}, errNotFound
	}
	return v, nil
}

func (s *memOutboxStore) Save(_ context.Context, v domainOutbox.Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.entries[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.entries[v.ID] = v
	return nil
}

func (s *memOutboxStore) Delete(_ context.Context, id string) error {
	delete(s.entries, id)
	return nil
}

func (s *memOutboxStore) ListRetryable(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	var out []domainOutbox.Entry
	for _, id := range s.order {
		v, ok := s.entries[id]
		if !ok || !v.CanRetry() {
			continue
		}
		out = append(out, v)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *memOutboxStore) List(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	var out []domainOutbox.Entry
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		if v, ok := s.entries[s.order[i]]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}
