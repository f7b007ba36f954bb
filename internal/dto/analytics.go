package dto

import (
	"time"

	"github.com/noah-isme/project-portal-api/internal/models"
)

// AnalyticsReport is the faculty dashboard payload.
type AnalyticsReport struct {
	Overview        models.ProjectOverview   `json:"overview"`
	DomainStats     []models.DomainStat      `json:"domainStats"`
	YearStats       []models.YearStat        `json:"yearStats"`
	MonthlyTrends   []models.MonthlyTrend    `json:"monthlyTrends"`
	TopTechnologies []models.TechnologyUsage `json:"topTechnologies"`
	RecentActivity  []models.RecentActivity  `json:"recentActivity"`
	UserStats       []models.RoleCount       `json:"userStats"`
	GeneratedAt     time.Time                `json:"generatedAt"`
}

// DomainAnalytics is the per-domain drill down.
type DomainAnalytics struct {
	Domain        string          `json:"domain"`
	TotalProjects int             `json:"totalProjects"`
	Approved      int             `json:"approved"`
	Pending       int             `json:"pending"`
	Rejected      int             `json:"rejected"`
	Projects      []DomainProject `json:"projects"`
}

// DomainProject is a project row inside DomainAnalytics.
type DomainProject struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Author        string               `json:"author"`
	Status        models.ProjectStatus `json:"status"`
	Year          string               `json:"year"`
	SubmittedDate time.Time            `json:"submittedDate"`
	DocumentCount int                  `json:"documentCount"`
	Technologies  []string             `json:"technologies"`
}

// ExportFormat selects the rendering of the data export.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportPayload is the flattened corpus delivered by the JSON export.
type ExportPayload struct {
	ExportDate   time.Time       `json:"exportDate"`
	TotalRecords int             `json:"totalRecords"`
	Data         []ExportProject `json:"data"`
}

// ExportProject is one project in the export.
type ExportProject struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Abstract      string               `json:"abstract"`
	Domain        string               `json:"domain"`
	Year          string               `json:"year"`
	AuthorName    string               `json:"author_name"`
	Status        models.ProjectStatus `json:"status"`
	Feedback      *string              `json:"feedback,omitempty"`
	Technologies  []string             `json:"technologies"`
	DocumentCount int                  `json:"document_count"`
	Documents     []string             `json:"documents"`
	SubmittedDate time.Time            `json:"submitted_date"`
	UpdatedDate   time.Time            `json:"updated_date"`
}

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
