package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
)

func newRequest(id, userID, team string, status model.Status, start, end string) *model.Request {
	return &model.Request{ID: id, UserID: userID, TeamID: team, Status: status,
		Start: model.MustDate(start), End: model.MustDate(end)}
}

func TestNew(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	base := filepath.Join(t.TempDir(), "nested", "store")
	_, err = New(base)
	require.NoError(t, err)
	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestService_SaveLoadList(t *testing.T) {
	ctx := context.Background()
	srv, err := New(t.TempDir())
	require.NoError(t, err)

	list, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &model.Request{}), dao.ErrInvalidID)

	approved := newRequest("r2", "e2", "eng", model.StatusApproved, "2026-03-02", "2026-03-03")
	approved.Charged = map[int]int{2026: 2}
	for _, r := range []*model.Request{
		newRequest("r3", "e1", "eng", model.StatusSubmitted, "2026-04-01", "2026-04-02"),
		approved,
		newRequest("r1", "e1", "ops", model.StatusApproved, "2026-03-02", "2026-03-05"),
	} {
		require.NoError(t, srv.Save(ctx, r))
	}

	loaded, err := srv.Load(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, model.MustDate("2026-03-02"), loaded.Start)
	assert.Equal(t, map[int]int{2026: 2}, loaded.Charged)
	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	list, err = srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{list[0].ID, list[1].ID, list[2].ID})

	list, err = srv.List(ctx, dao.NewParameter(dao.ParamUserID, "e1"), dao.NewParameter(dao.ParamStatus, "SUBMITTED"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r3", list[0].ID)

	overlapping, err := srv.ListApprovedOverlapping(ctx, "eng", model.NewRange(model.MustDate("2026-03-03"), model.MustDate("2026-03-10")))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, "r2", overlapping[0].ID)

	require.NoError(t, srv.Delete(ctx, "r3"))
	assert.ErrorIs(t, srv.Delete(ctx, "r3"), dao.ErrNotFound)
}

func TestService_CompareAndSave(t *testing.T) {
	ctx := context.Background()
	srv, err := New(t.TempDir(), WithDefaultTotal(25))
	require.NoError(t, err)
	require.NoError(t, srv.Save(ctx, newRequest("r1", "e1", "eng", model.StatusSubmitted, "2025-12-30", "2026-01-02")))

	approved := newRequest("r1", "e1", "eng", model.StatusApproved, "2025-12-30", "2026-01-02")
	approved.Charged = map[int]int{2025: 2, 2026: 2}
	require.NoError(t, srv.CompareAndSave(ctx, approved, model.StatusSubmitted, ledger.Consume("e1", approved.Charged)...))
	assert.ErrorIs(t, srv.CompareAndSave(ctx, approved, model.StatusSubmitted), dao.ErrConflict)
	assert.ErrorIs(t, srv.CompareAndSave(ctx, newRequest("r9", "e1", "eng", model.StatusApproved, "2026-01-01", "2026-01-01"), model.StatusSubmitted), dao.ErrNotFound)

	for year, expected := range map[int]int{2025: 2, 2026: 2} {
		rec, err := srv.Allowances().Load(ctx, ledger.Key{UserID: "e1", Year: year})
		require.NoError(t, err)
		assert.Equal(t, expected, rec.Consumed)
		assert.Equal(t, 25, rec.Total)
	}

	cancelled := approved.Clone()
	cancelled.Status = model.StatusCancelled
	require.NoError(t, srv.CompareAndSave(ctx, cancelled, model.StatusApproved, ledger.Release("e1", approved.Charged)...))
	rec, err := srv.Allowances().Load(ctx, ledger.Key{UserID: "e1", Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Consumed)

	loaded, err := srv.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, loaded.Status)
}

func TestService_TeamRosterSize(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	srv, err := New(base, WithRoster(map[string]int{"eng": 4}))
	require.NoError(t, err)

	size, err := srv.TeamRosterSize(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	require.NoError(t, os.WriteFile(filepath.Join(base, "teams.json"), []byte(`{"eng": 9, "ops": 3}`), 0644))
	size, err = srv.TeamRosterSize(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, 3, size)
	size, err = srv.TeamRosterSize(ctx, "eng")
	require.NoError(t, err)
	assert.Equal(t, 4, size)
}

func TestAllowances(t *testing.T) {
	ctx := context.Background()
	srv, err := New(t.TempDir())
	require.NoError(t, err)
	allowances := srv.Allowances()
	key := ledger.Key{UserID: "e1", Year: 2026}

	require.NoError(t, allowances.SetTotal(ctx, key, 30))
	require.NoError(t, allowances.Adjust(ctx, ledger.Delta{UserID: "e1", Year: 2026, Days: 6}))
	rec, err := allowances.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &ledger.Record{UserID: "e1", Year: 2026, Total: 30, Consumed: 6}, rec)

	require.NoError(t, allowances.Reset(ctx, key, 2))
	rec, err = allowances.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Consumed)

	assert.ErrorIs(t, allowances.Adjust(ctx, ledger.Delta{}), dao.ErrInvalidID)
}
