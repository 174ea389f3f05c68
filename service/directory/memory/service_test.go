package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	srv := New(
		&model.Actor{ID: "e1", Role: model.RoleEmployee, TeamID: "eng"},
		&model.Actor{ID: "e2", Role: model.RoleEmployee, TeamID: "eng"},
		&model.Actor{ID: "hr1", Role: model.RoleHR, TeamID: "people"},
		&model.Actor{ID: "admin", Role: model.RoleAdministrator},
	)

	actor, err := srv.Lookup(ctx, "hr1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleHR, actor.Role)

	_, err = srv.Lookup(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	_, err = srv.Lookup(ctx, "nobody")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	sizes, err := srv.TeamSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"eng": 2, "people": 1}, sizes)

	require.NoError(t, srv.Register(ctx, &model.Actor{ID: "e2", Role: model.RoleEmployee, TeamID: "ops"}))
	sizes, err = srv.TeamSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"eng": 1, "ops": 1, "people": 1}, sizes)

	assert.ErrorIs(t, srv.Register(ctx, nil), dao.ErrNilEntity)
}
