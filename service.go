package vacation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/viant/vacation/fault"
	"github.com/viant/vacation/internal/clock"
	"github.com/viant/vacation/internal/idgen"
	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/occupancy"
	"github.com/viant/vacation/policy"
	"github.com/viant/vacation/service/dao"
	"github.com/viant/vacation/service/dao/allowance"
	"github.com/viant/vacation/service/dao/criteria"
	"github.com/viant/vacation/service/dao/request"
	rmem "github.com/viant/vacation/service/dao/request/memory"
	"github.com/viant/vacation/service/directory"
	dmem "github.com/viant/vacation/service/directory/memory"
	"github.com/viant/vacation/service/lock"
	lmem "github.com/viant/vacation/service/lock/memory"
	"github.com/viant/vacation/service/settings"
	"github.com/viant/vacation/service/transition"
)

// Operation names reported in logs, metrics and fault.Error.Op.
const (
	OpApprove          = policy.OpApprove
	OpReject           = policy.OpReject
	OpCancel           = policy.OpCancel
	OpSubmit           = "submit"
	OpAllowance        = "allowance"
	OpSetAllowance     = "set-allowance"
	OpRebuildAllowance = "rebuild-allowance"
	OpOccupancy        = "occupancy"
	OpList             = "list"
)

// MaxRangeDays bounds the span of a submitted request or an occupancy query.
const MaxRangeDays = 366

// Service is the entry point of the vacation engine.
type Service struct {
	store       request.Service
	allowances  allowance.Service
	directory   directory.Service
	settings    settings.Service
	locker      lock.Service
	location    *time.Location
	logger      *zap.Logger
	registerer  prometheus.Registerer
	metrics     *metrics
	transitions transition.Service
}

// New creates a service. Missing collaborators default to in-memory
// implementations with default organisation settings.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.ensureBaseSetup(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.store == nil {
		s.store = rmem.New()
	}
	if s.allowances == nil {
		if provider, ok := s.store.(interface{ Allowances() allowance.Service }); ok {
			s.allowances = provider.Allowances()
		}
	}
	if s.allowances == nil {
		return fmt.Errorf("allowance store was not configured")
	}
	if s.directory == nil {
		s.directory = dmem.New()
	}
	if s.settings == nil {
		s.settings = settings.NewStatic(nil)
	}
	if s.locker == nil {
		s.locker = lmem.New()
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	var err error
	if s.metrics, err = newMetrics(s.registerer); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	s.transitions = transition.New(s.store, s.settings, s.directory,
		transition.WithLocker(s.locker),
		transition.WithLocation(s.location))
	return nil
}

// Approve approves a SUBMITTED request. When the simulated team occupancy
// exceeds the threshold the call fails with fault.ThresholdExceeded unless
// acknowledge is set.
func (s *Service) Approve(ctx context.Context, requestID, actorID string, acknowledge bool) (ret *model.Request, err error) {
	defer s.track(OpApprove, requestID, actorID, time.Now(), &err)
	return s.transitions.Approve(ctx, requestID, actorID, acknowledge)
}

// Reject rejects a SUBMITTED request with a reason.
func (s *Service) Reject(ctx context.Context, requestID, actorID, reason string) (ret *model.Request, err error) {
	defer s.track(OpReject, requestID, actorID, time.Now(), &err)
	return s.transitions.Reject(ctx, requestID, actorID, reason)
}

// Cancel cancels the actor's own SUBMITTED or APPROVED request before it starts.
func (s *Service) Cancel(ctx context.Context, requestID, actorID string) (ret *model.Request, err error) {
	defer s.track(OpCancel, requestID, actorID, time.Now(), &err)
	return s.transitions.Cancel(ctx, requestID, actorID)
}

// Submit creates a SUBMITTED request of the acting user for rng.
func (s *Service) Submit(ctx context.Context, actorID string, rng model.Range) (ret *model.Request, err error) {
	requestID := idgen.New()
	defer s.track(OpSubmit, requestID, actorID, time.Now(), &err)

	actor, err := transition.Authenticate(ctx, s.directory, OpSubmit, actorID)
	if err != nil {
		return nil, err
	}
	if err = validateRange(OpSubmit, rng); err != nil {
		return nil, err
	}
	if actor.TeamID == "" {
		return nil, fault.New(fault.Validation, OpSubmit, "actor %v is not a member of any team", actor.ID)
	}
	aSettings, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpSubmit, err)
	}
	if notice := policy.DaysUntil(rng.Start, clock.Today(s.location)); notice < aSettings.MinRequestAdvanceNoticeDays {
		return nil, fault.New(fault.Validation, OpSubmit, "vacation must be requested %d days in advance, got %d", aSettings.MinRequestAdvanceNoticeDays, notice)
	}
	active, err := s.store.List(ctx, criteria.Parameters(&model.Filter{
		UserID:   actor.ID,
		Statuses: []model.Status{model.StatusSubmitted, model.StatusApproved},
	})...)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpSubmit, err)
	}
	calendar := model.NewCalendar(aSettings.Holidays...)
	pending := map[int]int{}
	for _, candidate := range active {
		if candidate.Range().Overlaps(rng) {
			return nil, fault.New(fault.Validation, OpSubmit, "%v overlaps request %v", rng, candidate.ID)
		}
		if candidate.Status == model.StatusSubmitted {
			for year, days := range ledger.Charge(candidate.Range(), calendar) {
				pending[year] += days
			}
		}
	}
	charged := ledger.Charge(rng, calendar)
	if len(charged) == 0 {
		return nil, fault.New(fault.Validation, OpSubmit, "%v has no chargeable days", rng)
	}
	for _, delta := range ledger.Consume(actor.ID, charged) {
		record, err := s.allowances.Load(ctx, ledger.Key{UserID: actor.ID, Year: delta.Year})
		if err != nil {
			return nil, fault.Wrap(fault.Internal, OpSubmit, err)
		}
		if available := record.Remaining() - pending[delta.Year]; delta.Days > available {
			return nil, fault.New(fault.Validation, OpSubmit, "%d days requested in %d, %d remaining after %d pending", delta.Days, delta.Year, available, pending[delta.Year])
		}
	}
	ret = &model.Request{
		ID:          requestID,
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		Start:       rng.Start,
		End:         rng.End,
		Status:      model.StatusSubmitted,
		SubmittedAt: clock.Now(),
	}
	if err = s.store.Save(ctx, ret); err != nil {
		return nil, fault.Wrap(fault.Internal, OpSubmit, err)
	}
	return ret, nil
}

// Allowance returns the allowance record of userID for year. Employees may
// only read their own balance.
func (s *Service) Allowance(ctx context.Context, actorID, userID string, year int) (*ledger.Record, error) {
	if _, err := s.authorizeUser(ctx, OpAllowance, actorID, userID); err != nil {
		return nil, err
	}
	ret, err := s.allowances.Load(ctx, ledger.Key{UserID: userID, Year: year})
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpAllowance, err)
	}
	return ret, nil
}

// SetAllowance overrides the annual quota of userID. Only HR and
// administrators may change quotas.
func (s *Service) SetAllowance(ctx context.Context, actorID, userID string, year, total int) (ret *ledger.Record, err error) {
	defer s.track(OpSetAllowance, userID, actorID, time.Now(), &err)
	actor, err := transition.Authenticate(ctx, s.directory, OpSetAllowance, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanDecide() {
		return nil, fault.New(fault.Forbidden, OpSetAllowance, "role %v may not change allowances", actor.Role)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fault.New(fault.Validation, OpSetAllowance, "user id is required")
	}
	if total < 0 {
		return nil, fault.New(fault.Validation, OpSetAllowance, "total must be >= 0, got %d", total)
	}
	key := ledger.Key{UserID: userID, Year: year}
	if err = s.allowances.SetTotal(ctx, key, total); err != nil {
		return nil, fault.Wrap(fault.Internal, OpSetAllowance, err)
	}
	if ret, err = s.allowances.Load(ctx, key); err != nil {
		return nil, fault.Wrap(fault.Internal, OpSetAllowance, err)
	}
	return ret, nil
}

// RebuildAllowance recomputes the consumed days of userID in year from the
// APPROVED requests and stores the result.
func (s *Service) RebuildAllowance(ctx context.Context, actorID, userID string, year int) (ret *ledger.Record, err error) {
	defer s.track(OpRebuildAllowance, userID, actorID, time.Now(), &err)
	if _, err = s.authorizeUser(ctx, OpRebuildAllowance, actorID, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.List(ctx, dao.NewParameter(dao.ParamUserID, userID), dao.NewParameter(dao.ParamStatus, string(model.StatusApproved)))
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpRebuildAllowance, err)
	}
	key := ledger.Key{UserID: userID, Year: year}
	if err = s.allowances.Reset(ctx, key, ledger.Replay(userID, year, requests)); err != nil {
		return nil, fault.Wrap(fault.Internal, OpRebuildAllowance, err)
	}
	if ret, err = s.allowances.Load(ctx, key); err != nil {
		return nil, fault.Wrap(fault.Internal, OpRebuildAllowance, err)
	}
	return ret, nil
}

// Occupancy returns the approved occupancy of teamID over rng. Employees may
// only inspect their own team.
func (s *Service) Occupancy(ctx context.Context, actorID, teamID string, rng model.Range) (*occupancy.Snapshot, error) {
	actor, err := transition.Authenticate(ctx, s.directory, OpOccupancy, actorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(teamID) == "" {
		return nil, fault.New(fault.Validation, OpOccupancy, "team id is required")
	}
	if !actor.Role.CanDecide() && actor.TeamID != teamID {
		return nil, fault.New(fault.Forbidden, OpOccupancy, "actor %v is not a member of team %v", actor.ID, teamID)
	}
	if err = validateRange(OpOccupancy, rng); err != nil {
		return nil, err
	}
	approved, err := s.store.ListApprovedOverlapping(ctx, teamID, rng)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpOccupancy, err)
	}
	roster, err := s.store.TeamRosterSize(ctx, teamID)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpOccupancy, err)
	}
	return occupancy.Compute(occupancy.Input{TeamID: teamID, Range: rng, Approved: approved, RosterSize: roster}), nil
}

// List returns requests matching filter, ordered by start date. Employees
// only see their own requests.
func (s *Service) List(ctx context.Context, actorID string, filter *model.Filter) ([]*model.Request, error) {
	actor, err := transition.Authenticate(ctx, s.directory, OpList, actorID)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &model.Filter{}
	}
	if !actor.Role.CanDecide() {
		if filter.UserID != "" && filter.UserID != actor.ID {
			return nil, fault.New(fault.Forbidden, OpList, "actor %v may not list requests of %v", actor.ID, filter.UserID)
		}
		scoped := *filter
		scoped.UserID = actor.ID
		filter = &scoped
	}
	ret, err := s.store.List(ctx, criteria.Parameters(filter)...)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, OpList, err)
	}
	if filter.Overlaps != nil {
		filtered := ret[:0]
		for _, r := range ret {
			if filter.Matches(r) {
				filtered = append(filtered, r)
			}
		}
		ret = filtered
	}
	return ret, nil
}

// authorizeUser admits the owner of userID's data and the deciding roles.
func (s *Service) authorizeUser(ctx context.Context, op, actorID, userID string) (*model.Actor, error) {
	actor, err := transition.Authenticate(ctx, s.directory, op, actorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fault.New(fault.Validation, op, "user id is required")
	}
	if actor.ID != userID && !actor.Role.CanDecide() {
		return nil, fault.New(fault.Forbidden, op, "actor %v may not access allowance of %v", actor.ID, userID)
	}
	return actor, nil
}

func validateRange(op string, rng model.Range) error {
	if err := rng.Validate(); err != nil {
		return fault.New(fault.Validation, op, "%v", err)
	}
	if days := rng.Days(); days > MaxRangeDays {
		return fault.New(fault.Validation, op, "%v spans %d days, at most %d allowed", rng, days, MaxRangeDays)
	}
	return nil
}

func (s *Service) track(op, subjectID, actorID string, started time.Time, errPtr *error) {
	err := *errPtr
	s.metrics.observe(op, started, err)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("request_id", subjectID),
		zap.String("actor_id", actorID),
		zap.Duration("latency", time.Since(started)),
	}
	if err == nil {
		s.logger.Info("operation completed", fields...)
		return
	}
	kind := fault.KindOf(err)
	fields = append(fields, zap.String("kind", kind.String()), zap.Error(err))
	ctxErr := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if kind == fault.Internal && !ctxErr {
		s.logger.Error("operation failed", fields...)
		return
	}
	s.logger.Warn("operation rejected", fields...)
}
