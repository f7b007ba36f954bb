package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/project-portal-api/internal/models"
)

// AnalyticsRepository exposes read-only aggregate queries over the project corpus.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Overview counts projects per status and averages real document rows per project.
func (r *AnalyticsRepository) Overview(ctx context.Context) (*models.ProjectOverview, error) {
	const query = `SELECT
    COUNT(*) AS total_projects,
    COUNT(*) FILTER (WHERE p.status = 'approved') AS approved_projects,
    COUNT(*) FILTER (WHERE p.status = 'pending') AS pending_projects,
    COUNT(*) FILTER (WHERE p.status = 'rejected') AS rejected_projects,
    COALESCE(AVG(COALESCE(d.cnt, 0)), 0)::FLOAT8 AS avg_documents_per_project
FROM projects p
LEFT JOIN (SELECT project_id, COUNT(*) AS cnt FROM project_documents GROUP BY project_id) d ON d.project_id = p.id`
	var overview models.ProjectOverview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("query project overview: %w", err)
	}
	return &overview, nil
}

// DomainStats breaks down projects per domain, most populated first.
func (r *AnalyticsRepository) DomainStats(ctx context.Context) ([]models.DomainStat, error) {
	const query = `SELECT domain,
    COUNT(*) AS project_count,
    COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
    COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
    COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_count,
    ROUND(COUNT(*) FILTER (WHERE status = 'approved') * 100.0 / COUNT(*), 1)::FLOAT8 AS approval_rate
FROM projects
GROUP BY domain
ORDER BY project_count DESC, domain ASC`
	stats := make([]models.DomainStat, 0)
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("query domain stats: %w", err)
	}
	return stats, nil
}

// YearStats breaks down projects per year, latest first.
func (r *AnalyticsRepository) YearStats(ctx context.Context) ([]models.YearStat, error) {
	const query = `SELECT year,
    COUNT(*) AS project_count,
    COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
    COUNT(DISTINCT author_id) AS unique_students
FROM projects
GROUP BY year
ORDER BY year DESC`
	stats := make([]models.YearStat, 0)
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("query year stats: %w", err)
	}
	return stats, nil
}

// MonthlyTrends counts submissions per month over the trailing twelve months.
func (r *AnalyticsRepository) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error) {
	const query = `SELECT TO_CHAR(submitted_at, 'YYYY-MM') AS month, COUNT(*) AS submissions
FROM projects
WHERE submitted_at >= CURRENT_DATE - INTERVAL '12 months'
GROUP BY month
ORDER BY month ASC`
	trends := make([]models.MonthlyTrend, 0)
	if err := r.db.SelectContext(ctx, &trends, query); err != nil {
		return nil, fmt.Errorf("query monthly trends: %w", err)
	}
	return trends, nil
}

// TopTechnologies ranks trimmed technology tokens by usage, ties broken alphabetically.
func (r *AnalyticsRepository) TopTechnologies(ctx context.Context, limit int) ([]models.TechnologyUsage, error) {
	const query = `SELECT TRIM(t.token) AS technology, COUNT(*) AS usage_count
FROM projects p
CROSS JOIN LATERAL UNNEST(STRING_TO_ARRAY(p.technologies, ',')) AS t(token)
WHERE p.technologies IS NOT NULL AND TRIM(t.token) <> ''
GROUP BY TRIM(t.token)
ORDER BY usage_count DESC, technology ASC
LIMIT $1`
	usage := make([]models.TechnologyUsage, 0)
	if err := r.db.SelectContext(ctx, &usage, query, limit); err != nil {
		return nil, fmt.Errorf("query top technologies: %w", err)
	}
	return usage, nil
}

// RecentActivity returns the latest submissions.
func (r *AnalyticsRepository) RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	const query = `SELECT id, title, author_name, domain, status, submitted_at
FROM projects
ORDER BY submitted_at DESC
LIMIT $1`
	activity := make([]models.RecentActivity, 0)
	if err := r.db.SelectContext(ctx, &activity, query, limit); err != nil {
		return nil, fmt.Errorf("query recent activity: %w", err)
	}
	return activity, nil
}

// UserStats counts users per role.
func (r *AnalyticsRepository) UserStats(ctx context.Context) ([]models.RoleCount, error) {
	const query = `SELECT role, COUNT(*) AS user_count FROM users GROUP BY role ORDER BY role ASC`
	stats := make([]models.RoleCount, 0)
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}
	return stats, nil
}

// DomainProjects lists every project of a domain with its document count.
func (r *AnalyticsRepository) DomainProjects(ctx context.Context, domain string) ([]models.Project, error) {
	query := projectSelect + "\nWHERE p.domain = $1\nGROUP BY p.id\nORDER BY p.submitted_at DESC"
	projects := make([]models.Project, 0)
	if err := r.db.SelectContext(ctx, &projects, query, domain); err != nil {
		return nil, fmt.Errorf("query domain projects: %w", err)
	}
	return projects, nil
}

// ExportRows flattens the corpus with the original document names of each project.
func (r *AnalyticsRepository) ExportRows(ctx context.Context) ([]models.ExportRow, error) {
	const query = `SELECT p.id, p.title, p.abstract, p.domain, p.year, p.author_name, p.status, p.technologies, p.feedback,
    COUNT(d.id) AS document_count,
    COALESCE(ARRAY_AGG(d.original_name ORDER BY d.uploaded_at) FILTER (WHERE d.id IS NOT NULL), '{}') AS document_names,
    p.submitted_at, p.updated_at
FROM projects p
LEFT JOIN project_documents d ON d.project_id = p.id
GROUP BY p.id
ORDER BY p.submitted_at DESC`
	rows := make([]models.ExportRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query export rows: %w", err)
	}
	return rows, nil
}
