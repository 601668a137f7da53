package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub/internal/feature/analytics/domain/entity"
	leads "leadhub/internal/feature/leads/domain/entity"
)

// mockStats はLeadStatsRepositoryのモック実装です。呼び出しは並行に行われます。
type mockStats struct {
	mu        sync.Mutex
	total     int64
	byStatus  map[leads.LeadStatus]int64
	groups    []entity.KeyCount
	sources   []entity.KeyCount
	trend     []entity.KeyCount
	since     time.Time
	failOn    string
	failError error
}

func (m *mockStats) fail(op string) error {
	if m.failOn == op {
		return m.failError
	}
	return nil
}

func (m *mockStats) CountAll(ctx context.Context, owner string) (int64, error) {
	return m.total, m.fail("CountAll")
}

func (m *mockStats) CountByStatus(ctx context.Context, owner string, status leads.LeadStatus) (int64, error) {
	return m.byStatus[status], m.fail("CountByStatus")
}

func (m *mockStats) GroupByStatus(ctx context.Context, owner string) ([]entity.KeyCount, error) {
	return m.groups, m.fail("GroupByStatus")
}

func (m *mockStats) GroupBySource(ctx context.Context, owner string) ([]entity.KeyCount, error) {
	return m.sources, m.fail("GroupBySource")
}

func (m *mockStats) DailyCounts(ctx context.Context, owner string, since time.Time) ([]entity.KeyCount, error) {
	m.mu.Lock()
	m.since = since
	m.mu.Unlock()
	return m.trend, m.fail("DailyCounts")
}

func TestDashboardUsecase_Dashboard(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("aggregates every figure", func(t *testing.T) {
		stats := &mockStats{
			total: 3,
			byStatus: map[leads.LeadStatus]int64{
				leads.StatusNew:       1,
				leads.StatusConverted: 2,
			},
			groups:  []entity.KeyCount{{Key: "Converted", Count: 2}, {Key: "New", Count: 1}},
			sources: []entity.KeyCount{{Key: "Ads", Count: 3}},
			trend:   []entity.KeyCount{{Key: "2025-06-29", Count: 3}},
		}
		uc := NewDashboardUsecase(stats, WithClock(func() time.Time { return now }))

		d, err := uc.Dashboard(context.Background(), "owner-1")

		require.NoError(t, err)
		assert.EqualValues(t, 3, d.TotalLeads)
		assert.EqualValues(t, 2, d.ConvertedLeads)
		assert.EqualValues(t, 1, d.NewLeads)
		assert.EqualValues(t, 0, d.LostLeads)
		assert.Equal(t, 66.67, d.ConversionRate)
		assert.Equal(t, stats.groups, d.LeadsByStatus)
		assert.Equal(t, stats.sources, d.LeadsBySource)
		assert.Equal(t, stats.trend, d.LeadsTrend)
		assert.Equal(t, now.Add(-30*24*time.Hour), stats.since)

		sum := d.NewLeads + d.ContactedLeads + d.QualifiedLeads + d.ConvertedLeads + d.LostLeads
		assert.Equal(t, d.TotalLeads, sum)
	})

	t.Run("empty dashboard", func(t *testing.T) {
		uc := NewDashboardUsecase(&mockStats{})

		d, err := uc.Dashboard(context.Background(), "owner-1")

		require.NoError(t, err)
		assert.Zero(t, d.TotalLeads)
		assert.Zero(t, d.ConversionRate)
		assert.NotNil(t, d.LeadsByStatus)
		assert.NotNil(t, d.LeadsBySource)
		assert.NotNil(t, d.LeadsTrend)
	})

	for _, op := range []string{"CountAll", "CountByStatus", "GroupByStatus", "GroupBySource", "DailyCounts"} {
		t.Run("failure in "+op, func(t *testing.T) {
			dbErr := errors.New("database error")
			uc := NewDashboardUsecase(&mockStats{failOn: op, failError: dbErr})

			d, err := uc.Dashboard(context.Background(), "owner-1")

			assert.Nil(t, d)
			assert.ErrorIs(t, err, dbErr)
		})
	}
}

func TestConversionRate(t *testing.T) {
	tests := []struct {
		converted, total int64
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 8, 12.5},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConversionRate(tt.converted, tt.total), "%d/%d", tt.converted, tt.total)
	}
}
