package memory

import (
	"context"
	"sync"

	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
	"github.com/viant/vacation/service/dao/allowance"
	"github.com/viant/vacation/service/dao/criteria"
	"github.com/viant/vacation/service/dao/request"
)

// Service implements an in-memory, thread-safe store for requests and
// allowance records.  A single mutex guards both maps so CompareAndSave is
// atomic.  All API methods work with copies to eliminate data races between
// goroutines.
type Service struct {
	requests     map[string]*model.Request
	records      map[ledger.Key]*ledger.Record
	rosters      map[string]int
	defaultTotal int
	mux          sync.RWMutex
}

var (
	_ request.Service   = (*Service)(nil)
	_ allowance.Service = (*allowances)(nil)
)

func (s *Service) Save(_ context.Context, r *model.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests[r.ID] = r.Clone()
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	r, ok := s.requests[id]
	s.mux.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.requests[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Request, error) {
	filter := criteria.Filter(parameters)
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*model.Request, 0, len(s.requests))
	for _, r := range s.requests {
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	model.SortRequests(out)
	return out, nil
}

func (s *Service) CompareAndSave(_ context.Context, r *model.Request, expected model.Status, deltas ...ledger.Delta) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	current, ok := s.requests[r.ID]
	if !ok {
		return dao.ErrNotFound
	}
	if current.Status != expected {
		return dao.ErrConflict
	}
	for _, delta := range deltas {
		s.record(ledger.Key{UserID: delta.UserID, Year: delta.Year}).Consumed += delta.Days
	}
	s.requests[r.ID] = r.Clone()
	return nil
}

func (s *Service) ListApprovedOverlapping(_ context.Context, teamID string, rng model.Range) ([]*model.Request, error) {
	filter := &model.Filter{TeamID: teamID, Statuses: []model.Status{model.StatusApproved}, Overlaps: &rng}
	s.mux.RLock()
	defer s.mux.RUnlock()
	var out []*model.Request
	for _, r := range s.requests {
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	model.SortRequests(out)
	return out, nil
}

func (s *Service) TeamRosterSize(_ context.Context, teamID string) (int, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.rosters[teamID], nil
}

// SetRosterSize registers or replaces the size of a team.
func (s *Service) SetRosterSize(teamID string, size int) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.rosters[teamID] = size
}

// ---------------------------------------------------------------------------
// allowance.Service
// ---------------------------------------------------------------------------

// Allowances exposes the allowance view of the store.
func (s *Service) Allowances() allowance.Service { return (*allowances)(s) }

// record returns the mutable record for key, creating it; callers hold the write lock.
func (s *Service) record(key ledger.Key) *ledger.Record {
	rec, ok := s.records[key]
	if !ok {
		rec = &ledger.Record{UserID: key.UserID, Year: key.Year, Total: s.defaultTotal}
		s.records[key] = rec
	}
	return rec
}

type allowances Service

func (a *allowances) Load(_ context.Context, key ledger.Key) (*ledger.Record, error) {
	if key.UserID == "" {
		return nil, dao.ErrInvalidID
	}
	a.mux.RLock()
	defer a.mux.RUnlock()
	if rec, ok := a.records[key]; ok {
		ret := *rec
		return &ret, nil
	}
	return &ledger.Record{UserID: key.UserID, Year: key.Year, Total: a.defaultTotal}, nil
}

func (a *allowances) Adjust(_ context.Context, delta ledger.Delta) error {
	if delta.UserID == "" {
		return dao.ErrInvalidID
	}
	a.mux.Lock()
	defer a.mux.Unlock()
	(*Service)(a).record(ledger.Key{UserID: delta.UserID, Year: delta.Year}).Consumed += delta.Days
	return nil
}

func (a *allowances) SetTotal(_ context.Context, key ledger.Key, total int) error {
	if key.UserID == "" {
		return dao.ErrInvalidID
	}
	a.mux.Lock()
	defer a.mux.Unlock()
	(*Service)(a).record(key).Total = total
	return nil
}

func (a *allowances) Reset(_ context.Context, key ledger.Key, consumed int) error {
	if key.UserID == "" {
		return dao.ErrInvalidID
	}
	a.mux.Lock()
	defer a.mux.Unlock()
	(*Service)(a).record(key).Consumed = consumed
	return nil
}

func New(options ...Option) *Service {
	ret := &Service{
		requests: map[string]*model.Request{},
		records:  map[ledger.Key]*ledger.Record{},
		rosters:  map[string]int{},

		defaultTotal: model.DefaultSettings().DefaultVacationDays,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
