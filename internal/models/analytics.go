package models

import (
	"time"

	"github.com/lib/pq"
)

// ProjectOverview aggregates corpus wide counts.
type ProjectOverview struct {
	TotalProjects          int     `db:"total_projects" json:"totalProjects"`
	ApprovedProjects       int     `db:"approved_projects" json:"approvedProjects"`
	PendingProjects        int     `db:"pending_projects" json:"pendingProjects"`
	RejectedProjects       int     `db:"rejected_projects" json:"rejectedProjects"`
	AvgDocumentsPerProject float64 `db:"avg_documents_per_project" json:"avgDocumentsPerProject"`
	ApprovalRate           float64 `db:"-" json:"approvalRate"`
}

// DomainStat is a per-domain status breakdown.
type DomainStat struct {
	Domain        string  `db:"domain" json:"domain"`
	ProjectCount  int     `db:"project_count" json:"projectCount"`
	ApprovedCount int     `db:"approved_count" json:"approvedCount"`
	PendingCount  int     `db:"pending_count" json:"pendingCount"`
	RejectedCount int     `db:"rejected_count" json:"rejectedCount"`
	ApprovalRate  float64 `db:"approval_rate" json:"approvalRate"`
}

// YearStat is a per-year breakdown.
type YearStat struct {
	Year           string `db:"year" json:"year"`
	ProjectCount   int    `db:"project_count" json:"projectCount"`
	ApprovedCount  int    `db:"approved_count" json:"approvedCount"`
	UniqueStudents int    `db:"unique_students" json:"uniqueStudents"`
}

// MonthlyTrend counts submissions per YYYY-MM.
type MonthlyTrend struct {
	Month       string `db:"month" json:"month"`
	Submissions int    `db:"submissions" json:"submissions"`
}

// TechnologyUsage counts projects mentioning a technology.
type TechnologyUsage struct {
	Technology string `db:"technology" json:"technology"`
	UsageCount int    `db:"usage_count" json:"usageCount"`
}

// RecentActivity is a lightweight view of a recent submission.
type RecentActivity struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	AuthorName  string        `db:"author_name" json:"author"`
	Domain      string        `db:"domain" json:"domain"`
	Status      ProjectStatus `db:"status" json:"status"`
	SubmittedAt time.Time     `db:"submitted_at" json:"submittedDate"`
}

// ExportRow is one flattened project for the data export.
type ExportRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Abstract      string         `db:"abstract"`
	Domain        string         `db:"domain"`
	Year          string         `db:"year"`
	AuthorName    string         `db:"author_name"`
	Status        ProjectStatus  `db:"status"`
	Technologies  *string        `db:"technologies"`
	Feedback      *string        `db:"feedback"`
	DocumentCount int            `db:"document_count"`
	DocumentNames pq.StringArray `db:"document_names"`
	SubmittedAt   time.Time      `db:"submitted_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
