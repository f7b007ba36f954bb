package dto

import (
	"time"

	"github.com/noah-isme/project-portal-api/internal/models"
)

// ProjectListQuery captures GET /projects filters. "all" or empty disables a filter.
type ProjectListQuery struct {
	Domain string `form:"domain" validate:"omitempty,max=255"`
	Year   string `form:"year" validate:"omitempty,project_year_or_all"`
	Status string `form:"status" validate:"omitempty,oneof=pending approved rejected all"`
	Search string `form:"search" validate:"omitempty,max=255"`
}

// CreateProjectRequest is the multipart form payload for POST /projects.
type CreateProjectRequest struct {
	Title        string `form:"title" json:"title" validate:"required,min=5,max=500"`
	Abstract     string `form:"abstract" json:"abstract" validate:"required,min=50,max=2000"`
	Domain       string `form:"domain" json:"domain" validate:"required,min=2,max=255"`
	Year         string `form:"year" json:"year" validate:"required,project_year"`
	Technologies string `form:"technologies" json:"technologies" validate:"omitempty,max=1000"`
}

// UpdateStatusRequest is the PUT /projects/:id/status payload.
type UpdateStatusRequest struct {
	Status   models.ProjectStatus `json:"status" validate:"required"`
	Feedback string               `json:"feedback" validate:"omitempty,max=1000"`
}

// ProjectSummary is a list entry.
type ProjectSummary struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Abstract      string               `json:"abstract"`
	Domain        string               `json:"domain"`
	Year          string               `json:"year"`
	Author        string               `json:"author"`
	AuthorID      string               `json:"authorId"`
	Status        models.ProjectStatus `json:"status"`
	SubmittedDate time.Time            `json:"submittedDate"`
	UpdatedDate   time.Time            `json:"updatedDate"`
	Technologies  []string             `json:"technologies"`
	DocumentCount int                  `json:"documentCount"`
}

// DocumentSummary describes an attachment without revealing where it is stored.
type DocumentSummary struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	UploadedDate time.Time `json:"uploadedDate"`
}

// ProjectDetail is the GET /projects/:id payload.
type ProjectDetail struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Abstract      string               `json:"abstract"`
	Domain        string               `json:"domain"`
	Year          string               `json:"year"`
	Author        string               `json:"author"`
	AuthorID      string               `json:"authorId"`
	Status        models.ProjectStatus `json:"status"`
	Feedback      *string              `json:"feedback,omitempty"`
	SubmittedDate time.Time            `json:"submittedDate"`
	UpdatedDate   time.Time            `json:"updatedDate"`
	Technologies  []string             `json:"technologies"`
	Documents     []DocumentSummary    `json:"documents"`
}

// CreateProjectResult reports what a submission stored.
type CreateProjectResult struct {
	ProjectID         string `json:"projectId"`
	DocumentsUploaded int    `json:"documentsUploaded"`
}

// StatusUpdateResult confirms a review decision.
type StatusUpdateResult struct {
	Title     string               `json:"-"`
	NewStatus models.ProjectStatus `json:"newStatus"`
}

// NewProjectSummary maps a project row onto the list view.
func NewProjectSummary(p models.Project) ProjectSummary {
	return ProjectSummary{
		ID:            p.ID,
		Title:         p.Title,
		Abstract:      p.Abstract,
		Domain:        p.Domain,
		Year:          p.Year,
		Author:        p.AuthorName,
		AuthorID:      p.AuthorID,
		Status:        p.Status,
		SubmittedDate: p.SubmittedAt,
		UpdatedDate:   p.UpdatedAt,
		Technologies:  p.TechnologyList(),
		DocumentCount: p.DocumentCount,
	}
}

// NewProjectDetail maps a project and its documents onto the detail view.
func NewProjectDetail(p models.Project, docs []models.Document) ProjectDetail {
	summaries := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, DocumentSummary{
			ID:           d.ID,
			OriginalName: d.OriginalName,
			FileSize:     d.FileSize,
			MimeType:     d.MimeType,
			UploadedDate: d.UploadedAt,
		})
	}
	return ProjectDetail{
		ID:            p.ID,
		Title:         p.Title,
		Abstract:      p.Abstract,
		Domain:        p.Domain,
		Year:          p.Year,
		Author:        p.AuthorName,
		AuthorID:      p.AuthorID,
		Status:        p.Status,
		Feedback:      p.Feedback,
		SubmittedDate: p.SubmittedAt,
		UpdatedDate:   p.UpdatedAt,
		Technologies:  p.TechnologyList(),
		Documents:     summaries,
	}
}
