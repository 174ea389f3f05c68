package memory

import (
	"context"

	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
	"github.com/viant/vacation/service/dao/store"
	"github.com/viant/vacation/service/directory"
)

// Service is an in-memory actor directory.
type Service struct {
	actors *store.MemoryStore[string, model.Actor]
}

var _ directory.Service = (*Service)(nil)

func actorKey(a *model.Actor) string { return a.ID }

// Lookup returns the actor or dao.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, actorID string) (*model.Actor, error) {
	if actorID == "" {
		return nil, dao.ErrInvalidID
	}
	return s.actors.Load(ctx, actorID)
}

// Register adds or replaces actors.
func (s *Service) Register(ctx context.Context, actors ...*model.Actor) error {
	for _, actor := range actors {
		if err := s.actors.Save(ctx, actor); err != nil {
			return err
		}
	}
	return nil
}

// TeamSizes counts registered actors per team.
func (s *Service) TeamSizes(ctx context.Context) (map[string]int, error) {
	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, err
	}
	ret := map[string]int{}
	for _, actor := range actors {
		if actor.TeamID != "" {
			ret[actor.TeamID]++
		}
	}
	return ret, nil
}

func New(actors ...*model.Actor) *Service {
	ret := &Service{actors: store.NewMemoryStore[string, model.Actor](actorKey)}
	_ = ret.Register(context.Background(), actors...)
	return ret
}
