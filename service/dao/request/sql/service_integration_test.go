//go:build integration

package sql

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
)

// Set VACATION_TEST_DSN to a disposable postgres database to run these tests.
func newService(t *testing.T) *Service {
	t.Helper()
	dsn := os.Getenv("VACATION_TEST_DSN")
	if dsn == "" {
		t.Skip("VACATION_TEST_DSN is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&requestRow{}, &recordRow{}, &memberRow{}))
	srv := New(db, 28)
	require.NoError(t, srv.Migrate(context.Background()))
	return srv
}

func TestService_Integration(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)

	require.NoError(t, srv.Register(ctx, &model.Actor{ID: "e1", Role: model.RoleEmployee, TeamID: "eng"}))
	require.NoError(t, srv.Register(ctx, &model.Actor{ID: "e2", Role: model.RoleEmployee, TeamID: "eng"}))
	size, err := srv.TeamRosterSize(ctx, "eng")
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	actor, err := srv.Lookup(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, "eng", actor.TeamID)
	_, err = srv.Lookup(ctx, "ghost")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	r := &model.Request{ID: "r1", UserID: "e1", TeamID: "eng", Status: model.StatusSubmitted,
		Start: model.MustDate("2025-12-30"), End: model.MustDate("2026-01-02")}
	require.NoError(t, srv.Save(ctx, r))

	approved := r.Clone()
	approved.Status = model.StatusApproved
	approved.Charged = map[int]int{2025: 2, 2026: 2}
	require.NoError(t, srv.CompareAndSave(ctx, approved, model.StatusSubmitted, ledger.Consume("e1", approved.Charged)...))
	assert.ErrorIs(t, srv.CompareAndSave(ctx, approved, model.StatusSubmitted), dao.ErrConflict)
	assert.ErrorIs(t, srv.CompareAndSave(ctx, &model.Request{ID: "r9"}, model.StatusSubmitted), dao.ErrNotFound)

	rec, err := srv.Allowances().Load(ctx, ledger.Key{UserID: "e1", Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Consumed)

	overlapping, err := srv.ListApprovedOverlapping(ctx, "eng", model.NewRange(model.MustDate("2026-01-01"), model.MustDate("2026-01-10")))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, map[int]int{2025: 2, 2026: 2}, overlapping[0].Charged)

	require.NoError(t, srv.Allowances().SetTotal(ctx, ledger.Key{UserID: "e1", Year: 2026}, 30))
	require.NoError(t, srv.Allowances().Reset(ctx, ledger.Key{UserID: "e1", Year: 2026}, 1))
	rec, err = srv.Allowances().Load(ctx, ledger.Key{UserID: "e1", Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, &ledger.Record{UserID: "e1", Year: 2026, Total: 30, Consumed: 1}, rec)

	list, err := srv.List(ctx, dao.NewParameter(dao.ParamUserID, "e1"))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NoError(t, srv.Delete(ctx, "r1"))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)
}
