package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/project-portal-api/internal/models"
)

const projectSelect = `SELECT p.id, p.title, p.abstract, p.domain, p.year, p.author_id, p.author_name, p.status, p.technologies, p.feedback, p.submitted_at, p.updated_at, COUNT(d.id) AS document_count
FROM projects p
LEFT JOIN project_documents d ON d.project_id = p.id`

// ProjectRepository persists projects and their documents.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs the repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns projects matching filter, newest submission first, each with its document count.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if filter.Domain != "" {
		args = append(args, filter.Domain)
		conditions = append(conditions, fmt.Sprintf("p.domain = $%d", len(args)))
	}
	if filter.Year != "" {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.abstract ILIKE $%d OR COALESCE(p.technologies, '') ILIKE $%d)", n, n, n))
	}

	query := projectSelect
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nGROUP BY p.id\nORDER BY p.submitted_at DESC"

	projects := make([]models.Project, 0)
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetByID returns a single project with its document count.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := projectSelect + "\nWHERE p.id = $1\nGROUP BY p.id"
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &project, nil
}

// CreateWithDocuments inserts the project and its document metadata in one transaction.
func (r *ProjectRepository) CreateWithDocuments(ctx context.Context, project *models.Project, docs []models.Document) (err error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	project.SubmittedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusPending
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create project: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertProject = `INSERT INTO projects (id, title, abstract, domain, year, author_id, author_name, status, technologies, submitted_at, updated_at)
VALUES (:id, :title, :abstract, :domain, :year, :author_id, :author_name, :status, :technologies, :submitted_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertProject, project); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	const insertDocument = `INSERT INTO project_documents (id, project_id, filename, original_name, file_path, file_size, mime_type, uploaded_at)
VALUES (:id, :project_id, :filename, :original_name, :file_path, :file_size, :mime_type, :uploaded_at)`
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = uuid.NewString()
		}
		docs[i].ProjectID = project.ID
		docs[i].UploadedAt = now
		if _, err = tx.NamedExecContext(ctx, insertDocument, docs[i]); err != nil {
			return fmt.Errorf("insert project document: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create project: %w", err)
	}
	project.DocumentCount = len(docs)
	return nil
}

// UpdateStatus sets the review status and optional feedback. A missing project yields sql.ErrNoRows.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status models.ProjectStatus, feedback *string, ts time.Time) error {
	const query = `UPDATE projects SET status = $2, feedback = COALESCE($3, feedback), updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, feedback, ts)
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the project; documents go with it through the foreign key cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DocumentPaths lists the on-disk paths of a project's documents.
func (r *ProjectRepository) DocumentPaths(ctx context.Context, projectID string) ([]string, error) {
	paths := make([]string, 0)
	if err := r.db.SelectContext(ctx, &paths, `SELECT file_path FROM project_documents WHERE project_id = $1`, projectID); err != nil {
		return nil, fmt.Errorf("list document paths: %w", err)
	}
	return paths, nil
}

// ListDocuments returns a project's documents in upload order.
func (r *ProjectRepository) ListDocuments(ctx context.Context, projectID string) ([]models.Document, error) {
	const query = `SELECT id, project_id, filename, original_name, file_path, file_size, mime_type, uploaded_at
FROM project_documents WHERE project_id = $1 ORDER BY uploaded_at ASC, original_name ASC`
	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, query, projectID); err != nil {
		return nil, fmt.Errorf("list project documents: %w", err)
	}
	return docs, nil
}

// FindDocument returns a document joined with its project's status and author.
func (r *ProjectRepository) FindDocument(ctx context.Context, documentID string) (*models.DocumentAccess, error) {
	const query = `SELECT d.id, d.project_id, d.filename, d.original_name, d.file_path, d.file_size, d.mime_type, d.uploaded_at,
p.status AS project_status, p.author_id
FROM project_documents d
JOIN projects p ON p.id = d.project_id
WHERE d.id = $1`
	var doc models.DocumentAccess
	if err := r.db.GetContext(ctx, &doc, query, documentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &doc, nil
}

// FilterOptions returns the distinct domains and years across all projects.
func (r *ProjectRepository) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	opts := &models.FilterOptions{Domains: make([]string, 0), Years: make([]string, 0)}
	if err := r.db.SelectContext(ctx, &opts.Domains, `SELECT DISTINCT domain FROM projects ORDER BY domain ASC`); err != nil {
		return nil, fmt.Errorf("list project domains: %w", err)
	}
	if err := r.db.SelectContext(ctx, &opts.Years, `SELECT DISTINCT year FROM projects ORDER BY year DESC`); err != nil {
		return nil, fmt.Errorf("list project years: %w", err)
	}
	return opts, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
