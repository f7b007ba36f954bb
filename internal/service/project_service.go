package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
)

type projectRepository interface {
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	CreateWithDocuments(ctx context.Context, project *models.Project, docs []models.Document) error
	UpdateStatus(ctx context.Context, id string, status models.ProjectStatus, feedback *string, ts time.Time) error
	Delete(ctx context.Context, id string) error
	DocumentPaths(ctx context.Context, projectID string) ([]string, error)
	ListDocuments(ctx context.Context, projectID string) ([]models.Document, error)
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

type projectDocumentStore interface {
	Store(files []UploadedFile) ([]models.Document, error)
	Cleanup(docs []models.Document)
	RemoveFiles(paths []string) int
}

// ProjectService enforces role-scoped visibility and the review lifecycle of projects.
type ProjectService struct {
	repo           projectRepository
	documents      projectDocumentStore
	cache          *CacheService
	metrics        *MetricsService
	validator      *validator.Validate
	logger         *zap.Logger
	allowedDomains []string
	now            func() time.Time
}

// NewProjectService constructs a ProjectService. An empty allowedDomains accepts any domain.
func NewProjectService(repo projectRepository, documents projectDocumentStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, allowedDomains []string) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	} else {
		registerPortalValidations(validate)
	}
	return &ProjectService{
		repo:           repo,
		documents:      documents,
		cache:          cache,
		metrics:        metrics,
		validator:      validate,
		logger:         logger,
		allowedDomains: allowedDomains,
		now:            time.Now,
	}
}

// List returns the projects principal may see. Third-year students only see approved
// projects, fourth-year students only their own, faculty everything.
func (s *ProjectService) List(ctx context.Context, principal *models.JWTClaims, query dto.ProjectListQuery) ([]dto.ProjectSummary, error) {
	if principal == nil {
		return nil, appErrors.ErrUnauthorized
	}
	query.Search = strings.TrimSpace(query.Search)
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err)
	}

	filter := models.ProjectFilter{
		Domain: allToEmpty(query.Domain),
		Year:   allToEmpty(query.Year),
		Search: query.Search,
	}
	switch principal.Role {
	case models.RoleThirdYear:
		filter.Status = models.ProjectStatusApproved
	case models.RoleFourthYear:
		filter.AuthorID = principal.UserID
	case models.RoleFaculty:
		filter.Status = models.ProjectStatus(allToEmpty(query.Status))
	default:
		return nil, appErrors.ErrInsufficientPermissions
	}

	start := time.Now()
	projects, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("projects_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred while fetching projects.")
	}

	out := make([]dto.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.NewProjectSummary(p))
	}
	return out, nil
}

// Get returns a project with its documents when principal may view it.
func (s *ProjectService) Get(ctx context.Context, principal *models.JWTClaims, id string) (*dto.ProjectDetail, error) {
	if principal == nil {
		return nil, appErrors.ErrUnauthorized
	}
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch principal.Role {
	case models.RoleThirdYear:
		if project.Status != models.ProjectStatusApproved {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "Access denied. This project has not been approved for viewing.")
		}
	case models.RoleFourthYear:
		if project.AuthorID != principal.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "Access denied. You can only view details of your own projects.")
		}
	case models.RoleFaculty:
	default:
		return nil, appErrors.ErrInsufficientPermissions
	}

	docs, err := s.repo.ListDocuments(ctx, project.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred while fetching project details.")
	}

	detail := dto.NewProjectDetail(*project, docs)
	return &detail, nil
}

// Create stores the uploaded files and records a pending project authored by principal.
// Files written before a failure are removed.
func (s *ProjectService) Create(ctx context.Context, principal *models.JWTClaims, req dto.CreateProjectRequest, files []UploadedFile) (*dto.CreateProjectResult, error) {
	if !principal.HasRole(models.RoleFourthYear) {
		return nil, requiredRoleError(models.RoleFourthYear)
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Abstract = strings.TrimSpace(req.Abstract)
	req.Domain = strings.TrimSpace(req.Domain)
	req.Year = strings.TrimSpace(req.Year)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if !s.domainAllowed(req.Domain) {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "", []appErrors.FieldError{{
			Field:   "domain",
			Message: fmt.Sprintf("domain must be one of: %s", strings.Join(s.allowedDomains, ", ")),
			Value:   req.Domain,
		}})
	}

	docs, err := s.documents.Store(files)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:        req.Title,
		Abstract:     req.Abstract,
		Domain:       req.Domain,
		Year:         req.Year,
		AuthorID:     principal.UserID,
		AuthorName:   principal.Name,
		Status:       models.ProjectStatusPending,
		Technologies: models.JoinTechnologies(req.Technologies),
	}
	if err := s.repo.CreateWithDocuments(ctx, project, docs); err != nil {
		s.documents.Cleanup(docs)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred during project submission.")
	}

	s.invalidateAnalytics(ctx)
	s.logger.Info("project submitted",
		zap.String("project_id", project.ID),
		zap.String("author_id", principal.UserID),
		zap.Int("documents", len(docs)),
	)
	return &dto.CreateProjectResult{ProjectID: project.ID, DocumentsUploaded: len(docs)}, nil
}

// UpdateStatus records a faculty review decision. Any status may follow any other.
func (s *ProjectService) UpdateStatus(ctx context.Context, principal *models.JWTClaims, id string, req dto.UpdateStatusRequest) (*dto.StatusUpdateResult, error) {
	if !principal.HasRole(models.RoleFaculty) {
		return nil, requiredRoleError(models.RoleFaculty)
	}

	req.Status = models.ProjectStatus(strings.TrimSpace(string(req.Status)))
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("Invalid status. Must be one of: %s", joinStatuses()))
	}
	req.Feedback = strings.TrimSpace(req.Feedback)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var feedback *string
	if req.Feedback != "" {
		feedback = &req.Feedback
	}
	if err := s.repo.UpdateStatus(ctx, project.ID, req.Status, feedback, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Project not found.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred while updating status.")
	}

	s.metrics.RecordStatusChange(string(req.Status))
	s.invalidateAnalytics(ctx)
	s.logger.Info("project status updated",
		zap.String("project_id", project.ID),
		zap.String("from", string(project.Status)),
		zap.String("to", string(req.Status)),
		zap.String("reviewer_id", principal.UserID),
	)
	return &dto.StatusUpdateResult{Title: project.Title, NewStatus: req.Status}, nil
}

// Delete removes a project, its document rows and, best-effort, its stored files.
// Faculty may delete any project; fourth-year students only their own.
func (s *ProjectService) Delete(ctx context.Context, principal *models.JWTClaims, id string) error {
	if principal == nil {
		return appErrors.ErrUnauthorized
	}
	project, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	switch principal.Role {
	case models.RoleFaculty:
	case models.RoleFourthYear:
		if project.AuthorID != principal.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "Access denied. You can only delete your own projects.")
		}
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "Access denied. You do not have permission to delete projects.")
	}

	paths, err := s.repo.DocumentPaths(ctx, project.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred while deleting the project.")
	}
	if err := s.repo.Delete(ctx, project.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Project not found.")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred while deleting the project.")
	}

	removed := s.documents.RemoveFiles(paths)
	s.invalidateAnalytics(ctx)
	s.logger.Info("project deleted",
		zap.String("project_id", project.ID),
		zap.String("deleted_by", principal.UserID),
		zap.Int("files", len(paths)),
		zap.Int("files_removed", removed),
	)
	return nil
}

// FilterOptions lists the distinct domains and years across all projects.
func (s *ProjectService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	opts, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred while fetching filter options.")
	}
	return opts, nil
}

func (s *ProjectService) load(ctx context.Context, id string) (*models.Project, error) {
	if !validID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Project not found")
	}
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}

func (s *ProjectService) domainAllowed(domain string) bool {
	if len(s.allowedDomains) == 0 {
		return true
	}
	for _, allowed := range s.allowedDomains {
		if strings.EqualFold(allowed, domain) {
			return true
		}
	}
	return false
}

func (s *ProjectService) invalidateAnalytics(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, analyticsInvalidateKey)
}

// requiredRoleError builds the permission error naming the accepted roles.
func requiredRoleError(roles ...models.UserRole) error {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return appErrors.Clone(appErrors.ErrInsufficientPermissions, fmt.Sprintf("Access denied. Required role: %s", strings.Join(names, " or ")))
}

func joinStatuses() string {
	names := make([]string, 0, len(models.ProjectStatuses))
	for _, status := range models.ProjectStatuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}

func allToEmpty(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "all") {
		return ""
	}
	return value
}
