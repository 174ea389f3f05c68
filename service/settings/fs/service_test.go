package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vacation/model"
)

func TestService_Settings(t *testing.T) {
	var testCases = []struct {
		name        string
		document    string
		expected    *model.Settings
		expectError bool
	}{
		{
			name: "full document",
			document: `defaultVacationDays: 26
teamOccupancyThreshold: 40
minRequestAdvanceNoticeDays: 7
holidays:
  - 2026-01-01
  - 2026-12-25
`,
			expected: &model.Settings{DefaultVacationDays: 26, TeamOccupancyThreshold: 40, MinRequestAdvanceNoticeDays: 7,
				Holidays: []model.Date{model.MustDate("2026-01-01"), model.MustDate("2026-12-25")}},
		},
		{
			name:     "defaults for missing fields",
			document: "teamOccupancyThreshold: 75\n",
			expected: &model.Settings{DefaultVacationDays: 28, TeamOccupancyThreshold: 75, MinRequestAdvanceNoticeDays: 14},
		},
		{
			name:        "out of range",
			document:    "teamOccupancyThreshold: 120\n",
			expectError: true,
		},
		{
			name:        "invalid date",
			document:    "holidays:\n  - 2026-13-01\n",
			expectError: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			location := filepath.Join(t.TempDir(), "settings.yaml")
			require.NoError(t, os.WriteFile(location, []byte(tc.document), 0644))
			srv := New(location, nil)
			actual, err := srv.Settings(context.Background())
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(location, []byte("teamOccupancyThreshold: 20\n"), 0644))
	srv := New(location, nil)
	actual, err := srv.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, actual.TeamOccupancyThreshold)

	require.NoError(t, os.WriteFile(location, []byte("teamOccupancyThreshold: 60\n"), 0644))
	actual, err = srv.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, actual.TeamOccupancyThreshold)

	require.NoError(t, srv.Refresh(ctx))
	actual, err = srv.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, actual.TeamOccupancyThreshold)

	require.NoError(t, os.WriteFile(location, []byte("teamOccupancyThreshold: -1\n"), 0644))
	assert.Error(t, srv.Refresh(ctx))
	actual, err = srv.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, actual.TeamOccupancyThreshold)
}

func TestService_MissingDocument(t *testing.T) {
	srv := New(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	_, err := srv.Settings(context.Background())
	assert.Error(t, err)
}
