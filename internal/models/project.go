package models

import (
	"strings"
	"time"
)

// ProjectStatus is the review outcome of a project.
type ProjectStatus string

const (
	ProjectStatusPending  ProjectStatus = "pending"
	ProjectStatusApproved ProjectStatus = "approved"
	ProjectStatusRejected ProjectStatus = "rejected"
)

// ProjectStatuses lists the legal statuses in display order.
var ProjectStatuses = []ProjectStatus{ProjectStatusPending, ProjectStatusApproved, ProjectStatusRejected}

// Valid reports whether s is a legal status.
func (s ProjectStatus) Valid() bool {
	for _, status := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Project represents a submission stored in the projects table.
type Project struct {
	ID            string        `db:"id" json:"id"`
	Title         string        `db:"title" json:"title"`
	Abstract      string        `db:"abstract" json:"abstract"`
	Domain        string        `db:"domain" json:"domain"`
	Year          string        `db:"year" json:"year"`
	AuthorID      string        `db:"author_id" json:"authorId"`
	AuthorName    string        `db:"author_name" json:"author"`
	Status        ProjectStatus `db:"status" json:"status"`
	Technologies  *string       `db:"technologies" json:"-"`
	Feedback      *string       `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt   time.Time     `db:"submitted_at" json:"submittedDate"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedDate"`
	DocumentCount int           `db:"document_count" json:"documentCount"`
}

// TechnologyList returns the parsed technology tokens of p.
func (p *Project) TechnologyList() []string {
	if p.Technologies == nil {
		return []string{}
	}
	return ParseTechnologies(*p.Technologies)
}

// ProjectFilter captures the list filters; Status is ignored for students.
type ProjectFilter struct {
	Domain   string
	Year     string
	Status   ProjectStatus
	Search   string
	AuthorID string
}

// FilterOptions are the distinct values present across all projects.
type FilterOptions struct {
	Domains []string `json:"domains"`
	Years   []string `json:"years"`
}

// ParseTechnologies splits a comma separated list, trimming entries and dropping empty ones.
// Order is preserved.
func ParseTechnologies(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinTechnologies normalises raw into the stored comma separated form, or nil when empty.
func JoinTechnologies(raw string) *string {
	list := ParseTechnologies(raw)
	if len(list) == 0 {
		return nil
	}
	joined := strings.Join(list, ", ")
	return &joined
}
