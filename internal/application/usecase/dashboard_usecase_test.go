package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/diillson/finops-latam-cli/internal/adapter/driven/api"
	"github.com/diillson/finops-latam-cli/internal/adapter/driven/export"
	"github.com/diillson/finops-latam-cli/internal/application/view"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const costOverviewJSON = `{
  "ResultsByTime": [
    {
      "TimePeriod": {"Start": "2026-02-27", "End": "2026-02-28"},
      "Total": {"BlendedCost": {"Amount": "1.50", "Unit": "USD"}},
      "Groups": [
        {"Keys": ["Amazon EC2"], "Metrics": {"BlendedCost": {"Amount": "1.00", "Unit": "USD"}}},
        {"Keys": ["Amazon S3"], "Metrics": {"BlendedCost": {"Amount": "0.50", "Unit": "USD"}}}
      ]
    },
    {
      "TimePeriod": {"Start": "2026-02-28", "End": "2026-03-01"},
      "Total": {"BlendedCost": {"Amount": "2.00", "Unit": "USD"}},
      "Groups": [
        {"Keys": ["Amazon EC2"], "Metrics": {"BlendedCost": {"Amount": "2.00", "Unit": "USD"}}}
      ]
    }
  ],
  "IsMockData": true
}`

type dashboardBackend struct {
	mu    sync.Mutex
	paths []string

	freeTier     string
	ec2          string
	costOverview string
	failPath     string
}

func (b *dashboardBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.paths = append(b.paths, r.URL.Path)
		b.mu.Unlock()

		if r.URL.Path == b.failPath {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "upstream unavailable"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case api.PathFreeTierStatus:
			_, _ = w.Write([]byte(b.freeTier))
		case api.PathEC2Reco:
			_, _ = w.Write([]byte(b.ec2))
		case api.PathCostOverview:
			assert.Equal(t, "14", r.URL.Query().Get("days"))
			_, _ = w.Write([]byte(b.costOverview))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newDashboardBackend() *dashboardBackend {
	return &dashboardBackend{
		freeTier: `{"free_tier_remaining": 12.5, "monthly_cost": 3.456, "alerts": [{"service": "EC2"}, {"service": "S3"}]}`,
		ec2: `{"total_recommendations": 2, "recommendations": [
			{"instance_id": "i-1", "recommendation": "Downsize to t3.micro", "savings_estimate": "$8.50/month"},
			{"instance_id": "i-2", "recommendation": "Stop idle instance", "savings_estimate": "$20.00/month"}
		]}`,
		costOverview: costOverviewJSON,
	}
}

func newDashboardUseCase(t *testing.T, baseURL string) (*DashboardUseCase, *recordingConsole) {
	t.Helper()
	console := &recordingConsole{}
	apiRepo, err := api.NewAPIRepository(baseURL, 5*time.Second, nil)
	require.NoError(t, err)

	uc := NewDashboardUseCase(apiRepo, export.NewExportRepository(), console)
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return uc, console
}

func TestLoadDashboardData_RendersEverySection(t *testing.T) {
	backend := newDashboardBackend()
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	uc, console := newDashboardUseCase(t, srv.URL)
	snapshot, err := uc.LoadDashboardData(context.Background(), 14)
	require.NoError(t, err)

	assert.Equal(t, []string{api.PathFreeTierStatus, api.PathEC2Reco, api.PathCostOverview}, backend.paths)
	assert.True(t, snapshot.Complete())

	require.Len(t, console.freeTier, 1)
	assert.Equal(t, types.FreeTierCards{
		Remaining:   "$12.5",
		Used:        "$3.456 used",
		MonthlyCost: "$3.46",
		AlertsCount: "2",
	}, console.freeTier[0])

	require.Len(t, console.ec2, 1)
	assert.Equal(t, "2", console.ec2[0].Count)
	assert.Equal(t, "2 recommendations", console.ec2[0].Summary)

	require.Len(t, console.charts, 1)
	charts := console.charts[0]
	assert.False(t, charts.Example)
	assert.Equal(t, "Amazon EC2", charts.Distribution.Points[0].Label)
	require.Len(t, charts.Trend.Points, 2)
	assert.Equal(t, "2026-02-27", charts.Trend.Points[0].Label)

	require.Len(t, console.recommendations, 1)
	assert.Equal(t, types.RecommendationsPresent, console.recommendations[0].State)
	assert.Len(t, console.recommendations[0].Cards, 2)

	assert.Len(t, snapshot.DailyCosts, 2)
	assert.Empty(t, console.notifications)
	require.Len(t, console.infos, 1)
	assert.Contains(t, console.infos[0], "sample cost data")
}

func TestLoadDashboardData_EmptyRecommendations(t *testing.T) {
	backend := newDashboardBackend()
	backend.ec2 = `{"total_recommendations": 0, "recommendations": []}`
	backend.costOverview = `{"ResultsByTime": []}`
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	uc, console := newDashboardUseCase(t, srv.URL)
	_, err := uc.LoadDashboardData(context.Background(), 14)
	require.NoError(t, err)

	require.Len(t, console.recommendations, 1)
	reco := console.recommendations[0]
	assert.Equal(t, types.RecommendationsEmpty, reco.State)
	assert.Empty(t, reco.Cards)
	assert.Equal(t, view.NoRecommendationsBanner, reco.Banner)

	require.Len(t, console.charts, 1)
	assert.True(t, console.charts[0].Example)
}

func TestLoadDashboardData_FailureAbortsRemainingSteps(t *testing.T) {
	backend := newDashboardBackend()
	backend.failPath = api.PathEC2Reco
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	uc, console := newDashboardUseCase(t, srv.URL)
	snapshot, err := uc.LoadDashboardData(context.Background(), 14)

	var apiErr *types.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{api.PathFreeTierStatus, api.PathEC2Reco}, backend.paths)

	assert.Len(t, console.freeTier, 1)
	assert.Empty(t, console.ec2)
	assert.Empty(t, console.charts)
	assert.Empty(t, console.recommendations)

	last := console.lastNotification()
	assert.Equal(t, types.NotifyDanger, last.Level)
	assert.Contains(t, last.Message, SectionEC2)

	assert.Equal(t, SectionEC2, snapshot.FailedSection)
	assert.False(t, snapshot.Complete())
}

func TestLoadDashboardData_DefaultDays(t *testing.T) {
	var gotDays string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case api.PathFreeTierStatus:
			_, _ = w.Write([]byte(`{"free_tier_remaining": 1, "monthly_cost": 1, "alerts": []}`))
		case api.PathEC2Reco:
			_, _ = w.Write([]byte(`{"total_recommendations": 0, "recommendations": []}`))
		case api.PathCostOverview:
			gotDays = r.URL.Query().Get("days")
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	uc, _ := newDashboardUseCase(t, srv.URL)
	snapshot, err := uc.LoadDashboardData(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "7", gotDays)
	assert.Equal(t, types.DefaultCostDays, snapshot.CostDays)
}

func TestRunDashboard_ExportsReports(t *testing.T) {
	backend := newDashboardBackend()
	srv := httptest.NewServer(backend.handler(t))
	defer srv.Close()

	dir := t.TempDir()
	uc, console := newDashboardUseCase(t, srv.URL)
	err := uc.RunDashboard(context.Background(), 14, ReportOptions{
		Name:  "dashboard",
		Types: []string{"csv", "json", "xlsx"},
		Dir:   dir,
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".csv", ".json"}, names)
	assert.Len(t, console.successes, 2)
	require.Len(t, console.warnings, 1)
	assert.Contains(t, console.warnings[0], "xlsx")
}
