package memory

import (
	"context"
	"sync"
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

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	srv := New()

	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &model.Request{}), dao.ErrInvalidID)
	_, err := srv.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	r := newRequest("r1", "e1", "eng", model.StatusSubmitted, "2026-03-02", "2026-03-06")
	require.NoError(t, srv.Save(ctx, r))
	r.Status = model.StatusApproved

	loaded, err := srv.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, loaded.Status)

	require.NoError(t, srv.Delete(ctx, "r1"))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	srv := New()
	for _, r := range []*model.Request{
		newRequest("r3", "e1", "eng", model.StatusApproved, "2026-03-10", "2026-03-12"),
		newRequest("r1", "e1", "eng", model.StatusSubmitted, "2026-03-02", "2026-03-06"),
		newRequest("r2", "e2", "ops", model.StatusApproved, "2026-03-02", "2026-03-03"),
	} {
		require.NoError(t, srv.Save(ctx, r))
	}
	var testCases = []struct {
		name       string
		parameters []*dao.Parameter
		expected   []string
	}{
		{name: "all sorted by start", expected: []string{"r1", "r2", "r3"}},
		{name: "by user", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamUserID, "e1")}, expected: []string{"r1", "r3"}},
		{name: "by status", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamStatus, "APPROVED")}, expected: []string{"r2", "r3"}},
		{name: "by team and status", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamTeamID, "eng"), dao.NewParameter(dao.ParamStatus, "APPROVED")}, expected: []string{"r3"}},
		{name: "no match", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamUserID, "e9")}, expected: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := srv.List(ctx, tc.parameters...)
			require.NoError(t, err)
			ids := []string{}
			for _, r := range actual {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}

	overlapping, err := srv.ListApprovedOverlapping(ctx, "eng", model.NewRange(model.MustDate("2026-03-01"), model.MustDate("2026-03-10")))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, "r3", overlapping[0].ID)
}

func TestService_CompareAndSave(t *testing.T) {
	ctx := context.Background()
	srv := New(WithDefaultTotal(20), WithRoster(map[string]int{"eng": 4}))
	require.NoError(t, srv.Save(ctx, newRequest("r1", "e1", "eng", model.StatusSubmitted, "2025-12-30", "2026-01-02")))

	approved := newRequest("r1", "e1", "eng", model.StatusApproved, "2025-12-30", "2026-01-02")
	approved.Charged = map[int]int{2025: 2, 2026: 2}
	deltas := ledger.Consume("e1", approved.Charged)

	assert.ErrorIs(t, srv.CompareAndSave(ctx, nil, model.StatusSubmitted), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.CompareAndSave(ctx, newRequest("r9", "e1", "eng", model.StatusApproved, "2026-01-01", "2026-01-01"), model.StatusSubmitted), dao.ErrNotFound)

	require.NoError(t, srv.CompareAndSave(ctx, approved, model.StatusSubmitted, deltas...))
	assert.ErrorIs(t, srv.CompareAndSave(ctx, approved, model.StatusSubmitted, deltas...), dao.ErrConflict)

	allowances := srv.Allowances()
	for year, expected := range map[int]int{2025: 2, 2026: 2, 2027: 0} {
		rec, err := allowances.Load(ctx, ledger.Key{UserID: "e1", Year: year})
		require.NoError(t, err)
		assert.Equal(t, expected, rec.Consumed, year)
		assert.Equal(t, 20, rec.Total)
	}

	size, err := srv.TeamRosterSize(ctx, "eng")
	require.NoError(t, err)
	assert.Equal(t, 4, size)
	srv.SetRosterSize("eng", 6)
	size, _ = srv.TeamRosterSize(ctx, "eng")
	assert.Equal(t, 6, size)
}

func TestService_CompareAndSaveConcurrent(t *testing.T) {
	ctx := context.Background()
	srv := New()
	require.NoError(t, srv.Save(ctx, newRequest("r1", "e1", "eng", model.StatusSubmitted, "2026-03-02", "2026-03-06")))

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			approved := newRequest("r1", "e1", "eng", model.StatusApproved, "2026-03-02", "2026-03-06")
			results <- srv.CompareAndSave(ctx, approved, model.StatusSubmitted, ledger.Delta{UserID: "e1", Year: 2026, Days: 5})
		}()
	}
	wg.Wait()
	close(results)
	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, dao.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
	rec, err := srv.Allowances().Load(ctx, ledger.Key{UserID: "e1", Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Consumed)
}

func TestAllowances(t *testing.T) {
	ctx := context.Background()
	allowances := New().Allowances()
	key := ledger.Key{UserID: "e1", Year: 2026}

	rec, err := allowances.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &ledger.Record{UserID: "e1", Year: 2026, Total: 28}, rec)

	require.NoError(t, allowances.SetTotal(ctx, key, 30))
	require.NoError(t, allowances.Adjust(ctx, ledger.Delta{UserID: "e1", Year: 2026, Days: 4}))
	require.NoError(t, allowances.Adjust(ctx, ledger.Delta{UserID: "e1", Year: 2026, Days: -1}))
	rec, err = allowances.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Consumed)
	assert.Equal(t, 27, rec.Remaining())

	require.NoError(t, allowances.Reset(ctx, key, 10))
	rec, _ = allowances.Load(ctx, key)
	assert.Equal(t, 10, rec.Consumed)

	_, err = allowances.Load(ctx, ledger.Key{})
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	assert.ErrorIs(t, allowances.Adjust(ctx, ledger.Delta{}), dao.ErrInvalidID)
	assert.ErrorIs(t, allowances.SetTotal(ctx, ledger.Key{}, 1), dao.ErrInvalidID)
	assert.ErrorIs(t, allowances.Reset(ctx, ledger.Key{}, 1), dao.ErrInvalidID)
}
