package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/project-portal-api/internal/models"
)

func TestOverview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("AS avg_documents_per_project").
		WillReturnRows(sqlmock.NewRows([]string{"total_projects", "approved_projects", "pending_projects", "rejected_projects", "avg_documents_per_project"}).
			AddRow(4, 2, 1, 1, 1.5))

	overview, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, overview.TotalProjects)
	assert.Equal(t, 1.5, overview.AvgDocumentsPerProject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDomainAndYearStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("GROUP BY domain").
		WillReturnRows(sqlmock.NewRows([]string{"domain", "project_count", "approved_count", "pending_count", "rejected_count", "approval_rate"}).
			AddRow("AI", 3, 2, 1, 0, 66.7))
	mock.ExpectQuery("GROUP BY year").
		WillReturnRows(sqlmock.NewRows([]string{"year", "project_count", "approved_count", "unique_students"}).
			AddRow("2024", 3, 2, 2))

	domains, err := repo.DomainStats(context.Background())
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, 66.7, domains[0].ApprovalRate)

	years, err := repo.YearStats(context.Background())
	require.NoError(t, err)
	require.Len(t, years, 1)
	assert.Equal(t, 2, years[0].UniqueStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyTrendsError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("TO_CHAR\\(submitted_at, 'YYYY-MM'\\)").WillReturnError(errors.New("boom"))

	_, err := repo.MonthlyTrends(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query monthly trends")
}

func TestTopTechnologiesAndRecentActivity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("STRING_TO_ARRAY").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"technology", "usage_count"}).AddRow("Go", 3).AddRow("React", 3))
	mock.ExpectQuery("ORDER BY submitted_at DESC").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_name", "domain", "status", "submitted_at"}).
			AddRow("p1", "Smart Campus", "Asha", "IoT", "pending", time.Now()))
	mock.ExpectQuery("FROM users GROUP BY role").
		WillReturnRows(sqlmock.NewRows([]string{"role", "user_count"}).AddRow("faculty", 1))

	tech, err := repo.TopTechnologies(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Go", tech[0].Technology)

	recent, err := repo.RecentActivity(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Asha", recent[0].AuthorName)

	users, err := repo.UserStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	now := time.Now()
	mock.ExpectQuery("ARRAY_AGG\\(d.original_name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "abstract", "domain", "year", "author_name", "status", "technologies", "feedback", "document_count", "document_names", "submitted_at", "updated_at"}).
			AddRow("p1", "Smart Campus", "abstract", "IoT", "2024", "Asha", "approved", "Go", nil, 2, "{a.pdf,\"final, v2.docx\"}", now, now))

	rows, err := repo.ExportRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a.pdf", "final, v2.docx"}, []string(rows[0].DocumentNames))
	assert.NoError(t, mock.ExpectationsWereMet())
}
