package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	overview      *models.ProjectOverview
	overviewErr   error
	domainErr     error
	techErr       error
	recentErr     error
	userErr       error
	overviewCalls int
	techLimit     int
	domainFilter  string
	projects      []models.Project
}

func (m *mockAnalyticsRepo) Overview(ctx context.Context) (*models.ProjectOverview, error) {
	m.overviewCalls++
	if m.overviewErr != nil {
		return nil, m.overviewErr
	}
	copied := *m.overview
	return &copied, nil
}

func (m *mockAnalyticsRepo) DomainStats(ctx context.Context) ([]models.DomainStat, error) {
	if m.domainErr != nil {
		return nil, m.domainErr
	}
	return []models.DomainStat{{Domain: "AI", ProjectCount: 3, ApprovedCount: 2, ApprovalRate: 66.7}}, nil
}

func (m *mockAnalyticsRepo) YearStats(ctx context.Context) ([]models.YearStat, error) {
	return []models.YearStat{{Year: "2024", ProjectCount: 3, UniqueStudents: 2}}, nil
}

func (m *mockAnalyticsRepo) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error) {
	return []models.MonthlyTrend{{Month: "2024-03", Submissions: 3}}, nil
}

func (m *mockAnalyticsRepo) TopTechnologies(ctx context.Context, limit int) ([]models.TechnologyUsage, error) {
	m.techLimit = limit
	if m.techErr != nil {
		return nil, m.techErr
	}
	return []models.TechnologyUsage{{Technology: "React", UsageCount: 2}}, nil
}

func (m *mockAnalyticsRepo) RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return []models.RecentActivity{{ID: "p1", Title: "Smart Campus"}}, nil
}

func (m *mockAnalyticsRepo) UserStats(ctx context.Context) ([]models.RoleCount, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	return []models.RoleCount{{Role: models.RoleFaculty, Count: 1}}, nil
}

func (m *mockAnalyticsRepo) DomainProjects(ctx context.Context, domain string) ([]models.Project, error) {
	m.domainFilter = domain
	return m.projects, nil
}

func newMockAnalyticsRepo() *mockAnalyticsRepo {
	return &mockAnalyticsRepo{overview: &models.ProjectOverview{
		TotalProjects:          3,
		ApprovedProjects:       2,
		PendingProjects:        1,
		AvgDocumentsPerProject: 1.6666,
	}}
}

func TestAnalyticsReport(t *testing.T) {
	repo := newMockAnalyticsRepo()
	svc := NewAnalyticsService(repo, nil, NewMetricsService(), nil, time.Minute)

	report, cached, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 66.7, report.Overview.ApprovalRate)
	assert.Equal(t, 1.7, report.Overview.AvgDocumentsPerProject)
	assert.Len(t, report.DomainStats, 1)
	assert.Len(t, report.TopTechnologies, 1)
	assert.Equal(t, topTechnologiesLimit, repo.techLimit)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestAnalyticsReportOptionalSectionsDegrade(t *testing.T) {
	repo := newMockAnalyticsRepo()
	repo.techErr = errors.New("unnest failed")
	repo.recentErr = errors.New("timeout")
	repo.userErr = errors.New("timeout")
	svc := NewAnalyticsService(repo, nil, nil, nil, 0)

	report, _, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report.TopTechnologies)
	assert.Empty(t, report.TopTechnologies)
	assert.Empty(t, report.RecentActivity)
	assert.Empty(t, report.UserStats)
	assert.Len(t, report.YearStats, 1)
}

func TestAnalyticsReportRequiredSectionFails(t *testing.T) {
	repo := newMockAnalyticsRepo()
	repo.domainErr = errors.New("db down")
	svc := NewAnalyticsService(repo, nil, nil, nil, 0)

	_, _, err := svc.Report(context.Background())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, "Error fetching domain statistics", appErr.Message)
}

func TestAnalyticsReportUsesCache(t *testing.T) {
	repo := newMockAnalyticsRepo()
	cache := NewCacheService(newStubCacheRepo(), nil, time.Minute, nil, true)
	svc := NewAnalyticsService(repo, cache, nil, nil, time.Minute)

	first, cached, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, repo.overviewCalls)
	assert.Equal(t, first.Overview, second.Overview)

	require.NoError(t, cache.Invalidate(context.Background(), analyticsInvalidateKey))
	_, cached, err = svc.Report(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.overviewCalls)
}

func TestAnalyticsDomainDetail(t *testing.T) {
	repo := newMockAnalyticsRepo()
	techs := "TensorFlow, Python"
	repo.projects = []models.Project{
		{ID: "p1", Title: "Vision", Status: models.ProjectStatusApproved, Technologies: &techs, DocumentCount: 2},
		{ID: "p2", Title: "Speech", Status: models.ProjectStatusPending},
		{ID: "p3", Title: "Chat", Status: models.ProjectStatusRejected},
	}
	svc := NewAnalyticsService(repo, nil, nil, nil, 0)

	detail, err := svc.DomainDetail(context.Background(), " AI ")
	require.NoError(t, err)
	assert.Equal(t, "AI", repo.domainFilter)
	assert.Equal(t, dto.DomainAnalytics{
		Domain:        "AI",
		TotalProjects: 3,
		Approved:      1,
		Pending:       1,
		Rejected:      1,
		Projects: []dto.DomainProject{
			{ID: "p1", Title: "Vision", Status: models.ProjectStatusApproved, DocumentCount: 2, Technologies: []string{"TensorFlow", "Python"}},
			{ID: "p2", Title: "Speech", Status: models.ProjectStatusPending, Technologies: []string{}},
			{ID: "p3", Title: "Chat", Status: models.ProjectStatusRejected, Technologies: []string{}},
		},
	}, *detail)

	_, err = svc.DomainDetail(context.Background(), " ")
	assert.Equal(t, "BAD_REQUEST", appErrors.FromError(err).Code)
}
