package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
)

const (
	topTechnologiesLimit = 10
	recentActivityLimit  = 10
)

// AnalyticsRepository describes the aggregate queries required by AnalyticsService.
type AnalyticsRepository interface {
	Overview(ctx context.Context) (*models.ProjectOverview, error)
	DomainStats(ctx context.Context) ([]models.DomainStat, error)
	YearStats(ctx context.Context) ([]models.YearStat, error)
	MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error)
	TopTechnologies(ctx context.Context, limit int) ([]models.TechnologyUsage, error)
	RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error)
	UserStats(ctx context.Context) ([]models.RoleCount, error)
	DomainProjects(ctx context.Context, domain string) ([]models.Project, error)
}

// AnalyticsService assembles the faculty report from independent aggregate queries.
type AnalyticsService struct {
	repo     AnalyticsRepository
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL, now: time.Now}
}

// Report returns the full analytics report. The boolean indicates whether it came from cache.
// Overview, domain, year and monthly sections are required; technologies, recent activity
// and user counts fall back to empty lists when their query fails.
func (s *AnalyticsService) Report(ctx context.Context) (*dto.AnalyticsReport, bool, error) {
	var cached dto.AnalyticsReport
	if hit, err := s.cache.Get(ctx, analyticsReportKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	report := &dto.AnalyticsReport{GeneratedAt: s.now().UTC()}

	overview, err := timed(s, "analytics_overview", func() (*models.ProjectOverview, error) { return s.repo.Overview(ctx) })
	if err != nil {
		return nil, false, s.reportError(err, "Error fetching analytics data")
	}
	if overview == nil {
		overview = &models.ProjectOverview{}
	}
	overview.ApprovalRate = percentage(overview.ApprovedProjects, overview.TotalProjects)
	overview.AvgDocumentsPerProject = round1(overview.AvgDocumentsPerProject)
	report.Overview = *overview

	if report.DomainStats, err = timed(s, "analytics_domains", func() ([]models.DomainStat, error) { return s.repo.DomainStats(ctx) }); err != nil {
		return nil, false, s.reportError(err, "Error fetching domain statistics")
	}
	if report.YearStats, err = timed(s, "analytics_years", func() ([]models.YearStat, error) { return s.repo.YearStats(ctx) }); err != nil {
		return nil, false, s.reportError(err, "Error fetching yearly statistics")
	}
	if report.MonthlyTrends, err = timed(s, "analytics_monthly", func() ([]models.MonthlyTrend, error) { return s.repo.MonthlyTrends(ctx) }); err != nil {
		return nil, false, s.reportError(err, "Error fetching submission trends")
	}

	report.TopTechnologies = optional(s, "technologies", func() ([]models.TechnologyUsage, error) {
		return s.repo.TopTechnologies(ctx, topTechnologiesLimit)
	})
	report.RecentActivity = optional(s, "recent_activity", func() ([]models.RecentActivity, error) {
		return s.repo.RecentActivity(ctx, recentActivityLimit)
	})
	report.UserStats = optional(s, "user_stats", func() ([]models.RoleCount, error) {
		return s.repo.UserStats(ctx)
	})

	_ = s.cache.Set(ctx, analyticsReportKey, report, s.cacheTTL)
	return report, false, nil
}

// DomainDetail returns status counts and the projects of one domain.
func (s *AnalyticsService) DomainDetail(ctx context.Context, domain string) (*dto.DomainAnalytics, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "domain is required")
	}

	projects, err := timed(s, "analytics_domain_detail", func() ([]models.Project, error) { return s.repo.DomainProjects(ctx, domain) })
	if err != nil {
		return nil, s.reportError(err, "Error fetching domain analytics")
	}

	out := &dto.DomainAnalytics{
		Domain:        domain,
		TotalProjects: len(projects),
		Projects:      make([]dto.DomainProject, 0, len(projects)),
	}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectStatusApproved:
			out.Approved++
		case models.ProjectStatusPending:
			out.Pending++
		case models.ProjectStatusRejected:
			out.Rejected++
		}
		out.Projects = append(out.Projects, dto.DomainProject{
			ID:            p.ID,
			Title:         p.Title,
			Author:        p.AuthorName,
			Status:        p.Status,
			Year:          p.Year,
			SubmittedDate: p.SubmittedAt,
			DocumentCount: p.DocumentCount,
			Technologies:  p.TechnologyList(),
		})
	}
	return out, nil
}

func (s *AnalyticsService) reportError(err error, message string) error {
	s.logger.Error("analytics query failed", zap.String("section", message), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func timed[T any](s *AnalyticsService, label string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	return out, err
}

func optional[T any](s *AnalyticsService, section string, fn func() ([]T, error)) []T {
	out, err := timed(s, "analytics_"+section, fn)
	if err != nil {
		s.logger.Warn("optional analytics section unavailable", zap.String("section", section), zap.Error(err))
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
