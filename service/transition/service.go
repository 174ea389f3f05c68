package transition

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/viant/vacation/fault"
	"github.com/viant/vacation/internal/clock"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/policy"
	"github.com/viant/vacation/service/dao"
	"github.com/viant/vacation/service/dao/request"
	"github.com/viant/vacation/service/directory"
	"github.com/viant/vacation/service/lock"
	lmem "github.com/viant/vacation/service/lock/memory"
	"github.com/viant/vacation/service/settings"
	"github.com/viant/vacation/tracing"
)

// Service executes request transitions. All methods return the updated request.
type Service interface {
	Approve(ctx context.Context, requestID, actorID string, acknowledge bool) (*model.Request, error)
	Reject(ctx context.Context, requestID, actorID, reason string) (*model.Request, error)
	Cancel(ctx context.Context, requestID, actorID string) (*model.Request, error)
}

type service struct {
	store     request.Service
	settings  settings.Service
	directory directory.Service
	locker    lock.Service
	location  *time.Location
}

// New creates a transition executor. Without WithLocker an in-process lock is used.
func New(store request.Service, settings settings.Service, directory directory.Service, options ...Option) Service {
	ret := &service{
		store:     store,
		settings:  settings,
		directory: directory,
		location:  time.UTC,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.locker == nil {
		ret.locker = lmem.New()
	}
	return ret
}

func (s *service) Approve(ctx context.Context, requestID, actorID string, acknowledge bool) (ret *model.Request, err error) {
	ctx, span := tracing.StartTransition(ctx, policy.OpApprove, requestID)
	span.Annotate(tracing.AttrActorID, actorID)
	defer func() { span.End(err) }()

	actor, req, err := s.prepare(ctx, policy.OpApprove, requestID, actorID)
	if err != nil {
		return nil, err
	}
	if err = policy.AuthorizeDecision(policy.OpApprove, req, actor); err != nil {
		return nil, err
	}
	aPolicy, err := s.policy(ctx, policy.OpApprove)
	if err != nil {
		return nil, err
	}
	err = s.locker.WithLock(ctx, lock.TeamKey(req.TeamID), func(ctx context.Context) error {
		approved, err := s.store.ListApprovedOverlapping(ctx, req.TeamID, req.Range())
		if err != nil {
			return fault.Wrap(fault.Internal, policy.OpApprove, err)
		}
		roster, err := s.store.TeamRosterSize(ctx, req.TeamID)
		if err != nil {
			return fault.Wrap(fault.Internal, policy.OpApprove, err)
		}
		decision, err := aPolicy.Approve(req, actor, policy.Approval{
			Acknowledge: acknowledge,
			Approved:    approved,
			RosterSize:  roster,
			At:          clock.Now(),
		})
		if err != nil {
			return err
		}
		if err = s.persist(ctx, policy.OpApprove, decision); err != nil {
			return err
		}
		ret = decision.Request
		return nil
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, fault.Wrap(fault.Conflict, policy.OpApprove, err)
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *service) Reject(ctx context.Context, requestID, actorID, reason string) (ret *model.Request, err error) {
	ctx, span := tracing.StartTransition(ctx, policy.OpReject, requestID)
	span.Annotate(tracing.AttrActorID, actorID)
	defer func() { span.End(err) }()

	actor, req, err := s.prepare(ctx, policy.OpReject, requestID, actorID)
	if err != nil {
		return nil, err
	}
	aPolicy, err := s.policy(ctx, policy.OpReject)
	if err != nil {
		return nil, err
	}
	decision, err := aPolicy.Reject(req, actor, reason, clock.Now())
	if err != nil {
		return nil, err
	}
	if err = s.persist(ctx, policy.OpReject, decision); err != nil {
		return nil, err
	}
	return decision.Request, nil
}

func (s *service) Cancel(ctx context.Context, requestID, actorID string) (ret *model.Request, err error) {
	ctx, span := tracing.StartTransition(ctx, policy.OpCancel, requestID)
	span.Annotate(tracing.AttrActorID, actorID)
	defer func() { span.End(err) }()

	actor, req, err := s.prepare(ctx, policy.OpCancel, requestID, actorID)
	if err != nil {
		return nil, err
	}
	aPolicy, err := s.policy(ctx, policy.OpCancel)
	if err != nil {
		return nil, err
	}
	now := clock.Now()
	decision, err := aPolicy.Cancel(req, actor, model.DateIn(now, s.location), now)
	if err != nil {
		return nil, err
	}
	if err = s.persist(ctx, policy.OpCancel, decision); err != nil {
		return nil, err
	}
	return decision.Request, nil
}

// prepare validates the ids, resolves the actor and loads the request.
func (s *service) prepare(ctx context.Context, op, requestID, actorID string) (*model.Actor, *model.Request, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, nil, fault.New(fault.Validation, op, "request id is required")
	}
	actor, err := Authenticate(ctx, s.directory, op, actorID)
	if err != nil {
		return nil, nil, err
	}
	req, err := s.store.Load(ctx, requestID)
	switch {
	case err == nil:
		return actor, req, nil
	case errors.Is(err, dao.ErrNotFound):
		return nil, nil, fault.New(fault.NotFound, op, "request %v was not found", requestID)
	case errors.Is(err, dao.ErrInvalidID):
		return nil, nil, fault.New(fault.Validation, op, "invalid request id %q", requestID)
	default:
		return nil, nil, fault.Wrap(fault.Internal, op, err)
	}
}

func (s *service) policy(ctx context.Context, op string) (*policy.Policy, error) {
	aSettings, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, op, err)
	}
	return policy.New(aSettings), nil
}

func (s *service) persist(ctx context.Context, op string, decision *policy.Decision) error {
	err := s.store.CompareAndSave(ctx, decision.Request, decision.Prior, decision.Deltas...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dao.ErrConflict):
		return fault.New(fault.Conflict, op, "request %v changed concurrently", decision.Request.ID)
	case errors.Is(err, dao.ErrNotFound):
		return fault.New(fault.NotFound, op, "request %v was not found", decision.Request.ID)
	default:
		return fault.Wrap(fault.Internal, op, err)
	}
}

// Authenticate resolves actorID through the directory; unknown or empty ids
// are reported as fault.Unauthenticated.
func Authenticate(ctx context.Context, dir directory.Service, op, actorID string) (*model.Actor, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, fault.New(fault.Unauthenticated, op, "actor id is required")
	}
	actor, err := dir.Lookup(ctx, actorID)
	switch {
	case err == nil:
		return actor, nil
	case errors.Is(err, dao.ErrNotFound), errors.Is(err, dao.ErrInvalidID):
		return nil, fault.New(fault.Unauthenticated, op, "unknown actor %v", actorID)
	default:
		return nil, fault.Wrap(fault.Internal, op, err)
	}
}

