package services

import (
	"testing"
	"time"

	"keytrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAndReport(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "Alice", "Physics")
	f.addUser(t, "u2", "", "Chemistry")

	f.addKey(t, "K-1", "A")
	issued := f.addKey(t, "K-2", "B")
	f.issue(t, issued.ID, "u1", "2025-03-20")
	overdue := f.addKey(t, "K-3", "C")
	f.issue(t, overdue.ID, "u2", "2025-03-09")
	ghost := f.addKey(t, "K-4", "D")
	f.issue(t, ghost.ID, "gone", "2025-03-01")
	lost := f.addKey(t, "K-5", "E")
	_, err := f.keys.ReportLost(f.ctx, lost.ID)
	require.NoError(t, err)

	stats, err := f.dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.DashboardStats{
		TotalKeys:     5,
		KeysIssued:    3,
		KeysAvailable: 2,
		OverdueKeys:   2,
	}, stats)

	summary, err := f.reports.Summary(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, []domain.StatusCount{
		{Name: domain.KeyStatusAvailable, Value: 1},
		{Name: domain.KeyStatusIssued, Value: 1},
		{Name: domain.KeyStatusOverdue, Value: 2},
		{Name: domain.KeyStatusLost, Value: 1},
	}, summary.StatusDistribution)

	assert.Equal(t, []domain.DepartmentCount{
		{Name: "Chemistry", Keys: 1},
		{Name: "Physics", Keys: 1},
	}, summary.DepartmentActivity)

	require.Len(t, summary.OverdueKeys, 2)
	assert.Equal(t, domain.OverdueKeyInfo{
		KeyNumber:  "K-3",
		RoomNumber: "C",
		UserName:   domain.UnknownName,
		Department: "Chemistry",
		DueDate:    time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}, summary.OverdueKeys[0])
	assert.Equal(t, domain.UnknownName, summary.OverdueKeys[1].UserName)
	assert.Equal(t, domain.UnknownName, summary.OverdueKeys[1].Department)
}

func TestReport_Empty(t *testing.T) {
	f := newFixture(t)

	summary, err := f.reports.Summary(f.ctx)
	require.NoError(t, err)
	assert.Len(t, summary.StatusDistribution, 4)
	assert.Empty(t, summary.DepartmentActivity)
	assert.NotNil(t, summary.OverdueKeys)

	stats, err := f.dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalKeys)
}
