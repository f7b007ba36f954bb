package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
)

const (
	projectOneID     = "0b6b4c1e-7a59-4f0e-9d1f-2a9e8c3b5d01"
	projectTwoID     = "5d2f9e84-1c3a-4b7e-8f60-9a1b2c3d4e02"
	missingProjectID = "c7e1a2b3-4d5e-4f60-8a7b-1c2d3e4f5a03"
)

type mockProjectRepo struct {
	getCalls     int
	projects     map[string]*models.Project
	documents    map[string][]models.Document
	listFilter   models.ProjectFilter
	listResult   []models.Project
	createErr    error
	created      *models.Project
	createdDocs  []models.Document
	statusCalls  int
	lastFeedback *string
	deleted      []string
}

func newMockProjectRepo(projects ...*models.Project) *mockProjectRepo {
	m := &mockProjectRepo{projects: map[string]*models.Project{}, documents: map[string][]models.Document{}}
	for _, p := range projects {
		m.projects[p.ID] = p
	}
	return m
}

func (m *mockProjectRepo) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	m.listFilter = filter
	return m.listResult, nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	m.getCalls++
	p, ok := m.projects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepo) CreateWithDocuments(ctx context.Context, project *models.Project, docs []models.Document) error {
	if m.createErr != nil {
		return m.createErr
	}
	project.ID = "new-project"
	m.created = project
	m.createdDocs = docs
	m.projects[project.ID] = project
	return nil
}

func (m *mockProjectRepo) UpdateStatus(ctx context.Context, id string, status models.ProjectStatus, feedback *string, ts time.Time) error {
	p, ok := m.projects[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.statusCalls++
	m.lastFeedback = feedback
	p.Status = status
	if feedback != nil {
		p.Feedback = feedback
	}
	return nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.projects, id)
	delete(m.documents, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockProjectRepo) DocumentPaths(ctx context.Context, projectID string) ([]string, error) {
	paths := []string{}
	for _, d := range m.documents[projectID] {
		paths = append(paths, d.FilePath)
	}
	return paths, nil
}

func (m *mockProjectRepo) ListDocuments(ctx context.Context, projectID string) ([]models.Document, error) {
	return m.documents[projectID], nil
}

func (m *mockProjectRepo) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	return &models.FilterOptions{Domains: []string{"AI"}, Years: []string{"2024"}}, nil
}

type stubDocumentStore struct {
	stored      []models.Document
	storeErr    error
	storeCalls  int
	cleanedUp   []models.Document
	removedPath []string
}

func (s *stubDocumentStore) Store(files []UploadedFile) ([]models.Document, error) {
	s.storeCalls++
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	docs := make([]models.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, models.Document{ID: "doc-" + f.Name, OriginalName: f.Name, FilePath: "/uploads/" + f.Name, FileSize: f.Size})
	}
	s.stored = docs
	return docs, nil
}

func (s *stubDocumentStore) Cleanup(docs []models.Document) {
	s.cleanedUp = append(s.cleanedUp, docs...)
}

func (s *stubDocumentStore) RemoveFiles(paths []string) int {
	s.removedPath = append(s.removedPath, paths...)
	return len(paths)
}

var (
	thirdYear   = &models.JWTClaims{UserID: "s3", Name: "Third", Role: models.RoleThirdYear}
	fourthYear  = &models.JWTClaims{UserID: "s4", Name: "Fourth", Role: models.RoleFourthYear}
	otherFourth = &models.JWTClaims{UserID: "s4b", Name: "Other", Role: models.RoleFourthYear}
	facultyUser = &models.JWTClaims{UserID: "f1", Name: "Prof", Role: models.RoleFaculty}
)

func validCreateRequest() dto.CreateProjectRequest {
	return dto.CreateProjectRequest{
		Title:        "Smart Campus Navigation",
		Abstract:     strings.Repeat("An indoor navigation system for large campuses. ", 2),
		Domain:       "IoT",
		Year:         "2024",
		Technologies: " React, Node.js ,, MongoDB ",
	}
}

func newTestProjectService(repo *mockProjectRepo, docs *stubDocumentStore, cache *CacheService, domains ...string) *ProjectService {
	return NewProjectService(repo, docs, cache, nil, nil, nil, domains)
}

func TestProjectListScopesByRole(t *testing.T) {
	repo := newMockProjectRepo()
	svc := newTestProjectService(repo, &stubDocumentStore{}, nil)
	ctx := context.Background()
	query := dto.ProjectListQuery{Domain: "AI", Year: "all", Status: "pending", Search: "  vision "}

	_, err := svc.List(ctx, thirdYear, query)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectFilter{Domain: "AI", Status: models.ProjectStatusApproved, Search: "vision"}, repo.listFilter)

	_, err = svc.List(ctx, fourthYear, query)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectFilter{Domain: "AI", AuthorID: "s4", Search: "vision"}, repo.listFilter)

	_, err = svc.List(ctx, facultyUser, query)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectFilter{Domain: "AI", Status: models.ProjectStatusPending, Search: "vision"}, repo.listFilter)

	_, err = svc.List(ctx, facultyUser, dto.ProjectListQuery{Status: "all", Year: "2023"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectFilter{Year: "2023"}, repo.listFilter)
}

func TestProjectListRejectsBadFilters(t *testing.T) {
	svc := newTestProjectService(newMockProjectRepo(), &stubDocumentStore{}, nil)

	_, err := svc.List(context.Background(), facultyUser, dto.ProjectListQuery{Year: "24", Status: "archived"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Len(t, appErr.Details, 2)
}

func TestProjectListMapsTechnologies(t *testing.T) {
	repo := newMockProjectRepo()
	techs := "React, Node.js, MongoDB"
	repo.listResult = []models.Project{{ID: projectOneID, Title: "A", Status: models.ProjectStatusApproved, Technologies: &techs, DocumentCount: 2}}
	svc := newTestProjectService(repo, &stubDocumentStore{}, nil)

	out, err := svc.List(context.Background(), thirdYear, dto.ProjectListQuery{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"React", "Node.js", "MongoDB"}, out[0].Technologies)
	assert.Equal(t, 2, out[0].DocumentCount)
}

func TestProjectGetVisibility(t *testing.T) {
	pending := &models.Project{ID: projectOneID, AuthorID: "s4", Status: models.ProjectStatusPending}
	repo := newMockProjectRepo(pending)
	repo.documents[projectOneID] = []models.Document{{ID: "d1", OriginalName: "report.pdf", FilePath: "/secret/report.pdf"}}
	svc := newTestProjectService(repo, &stubDocumentStore{}, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, thirdYear, projectOneID)
	assert.Equal(t, "Access denied. This project has not been approved for viewing.", appErrors.FromError(err).Message)

	_, err = svc.Get(ctx, otherFourth, projectOneID)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)
	assert.Equal(t, "Access denied. You can only view details of your own projects.", appErrors.FromError(err).Message)

	_, err = svc.Get(ctx, facultyUser, missingProjectID)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)

	detail, err := svc.Get(ctx, fourthYear, projectOneID)
	require.NoError(t, err)
	require.Len(t, detail.Documents, 1)
	assert.Equal(t, "report.pdf", detail.Documents[0].OriginalName)

	detail, err = svc.Get(ctx, facultyUser, projectOneID)
	require.NoError(t, err)
	assert.Equal(t, projectOneID, detail.ID)
}

func TestProjectCreate(t *testing.T) {
	repo := newMockProjectRepo()
	docs := &stubDocumentStore{}
	cacheRepo := newStubCacheRepo()
	cacheRepo.store[analyticsReportKey] = []byte(`{}`)
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := newTestProjectService(repo, docs, cache)

	res, err := svc.Create(context.Background(), fourthYear, validCreateRequest(), []UploadedFile{memFile("report.pdf", "", "x"), memFile("slides.pptx", "", "y")})
	require.NoError(t, err)
	assert.Equal(t, "new-project", res.ProjectID)
	assert.Equal(t, 2, res.DocumentsUploaded)

	require.NotNil(t, repo.created)
	assert.Equal(t, models.ProjectStatusPending, repo.created.Status)
	assert.Equal(t, "s4", repo.created.AuthorID)
	assert.Equal(t, "Fourth", repo.created.AuthorName)
	assert.Equal(t, []string{"React", "Node.js", "MongoDB"}, repo.created.TechnologyList())
	assert.Len(t, repo.createdDocs, 2)
	assert.NotContains(t, cacheRepo.store, analyticsReportKey)
}

func TestProjectCreateRequiresFourthYear(t *testing.T) {
	docs := &stubDocumentStore{}
	svc := newTestProjectService(newMockProjectRepo(), docs, nil)

	for _, principal := range []*models.JWTClaims{thirdYear, facultyUser, nil} {
		_, err := svc.Create(context.Background(), principal, validCreateRequest(), nil)
		assert.Equal(t, "INSUFFICIENT_PERMISSIONS", appErrors.FromError(err).Code)
	}
	assert.Zero(t, docs.storeCalls)
}

func TestProjectCreateValidationStoresNothing(t *testing.T) {
	docs := &stubDocumentStore{}
	svc := newTestProjectService(newMockProjectRepo(), docs, nil, "AI", "IoT")

	req := validCreateRequest()
	req.Title = "  "
	req.Year = "24"
	_, err := svc.Create(context.Background(), fourthYear, req, []UploadedFile{memFile("a.pdf", "", "x")})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	fields := []string{}
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"title", "year"}, fields)

	req = validCreateRequest()
	req.Domain = "Blockchain"
	_, err = svc.Create(context.Background(), fourthYear, req, nil)
	require.Error(t, err)
	assert.Equal(t, "domain", appErrors.FromError(err).Details[0].Field)

	assert.Zero(t, docs.storeCalls)
}

func TestProjectCreateCleansUpOnPersistFailure(t *testing.T) {
	repo := newMockProjectRepo()
	repo.createErr = errors.New("insert failed")
	docs := &stubDocumentStore{}
	svc := newTestProjectService(repo, docs, nil)

	_, err := svc.Create(context.Background(), fourthYear, validCreateRequest(), []UploadedFile{memFile("a.pdf", "", "x")})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Len(t, docs.cleanedUp, 1)
}

func TestProjectCreateSurfacesUploadRejection(t *testing.T) {
	docs := &stubDocumentStore{storeErr: appErrors.Clone(appErrors.ErrInvalidFileType, "Invalid file type: .exe")}
	repo := newMockProjectRepo()
	svc := newTestProjectService(repo, docs, nil)

	_, err := svc.Create(context.Background(), fourthYear, validCreateRequest(), []UploadedFile{memFile("malware.exe", "", "MZ")})
	assert.Equal(t, "INVALID_FILE_TYPE", appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestProjectUpdateStatus(t *testing.T) {
	repo := newMockProjectRepo(&models.Project{ID: projectOneID, Title: "Smart Campus", Status: models.ProjectStatusPending})
	svc := newTestProjectService(repo, &stubDocumentStore{}, nil)
	ctx := context.Background()

	res, err := svc.UpdateStatus(ctx, facultyUser, projectOneID, dto.UpdateStatusRequest{Status: "approved", Feedback: " Great work "})
	require.NoError(t, err)
	assert.Equal(t, "Smart Campus", res.Title)
	assert.Equal(t, models.ProjectStatusApproved, res.NewStatus)
	require.NotNil(t, repo.lastFeedback)
	assert.Equal(t, "Great work", *repo.lastFeedback)

	_, err = svc.UpdateStatus(ctx, facultyUser, projectOneID, dto.UpdateStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusApproved, repo.projects[projectOneID].Status)
	assert.Nil(t, repo.lastFeedback)

	_, err = svc.UpdateStatus(ctx, facultyUser, projectOneID, dto.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.statusCalls)
}

func TestProjectUpdateStatusErrors(t *testing.T) {
	repo := newMockProjectRepo(&models.Project{ID: projectOneID, Title: "Smart Campus"})
	svc := newTestProjectService(repo, &stubDocumentStore{}, nil)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, facultyUser, projectOneID, dto.UpdateStatusRequest{Status: "archived"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, "BAD_REQUEST", appErr.Code)
	assert.Equal(t, "Invalid status. Must be one of: pending, approved, rejected", appErr.Message)

	_, err = svc.UpdateStatus(ctx, facultyUser, missingProjectID, dto.UpdateStatusRequest{Status: "approved"})
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)

	_, err = svc.UpdateStatus(ctx, fourthYear, projectOneID, dto.UpdateStatusRequest{Status: "approved"})
	assert.Equal(t, "Access denied. Required role: faculty", appErrors.FromError(err).Message)
	assert.Zero(t, repo.statusCalls)
}

func TestProjectDelete(t *testing.T) {
	repo := newMockProjectRepo(
		&models.Project{ID: projectOneID, AuthorID: "s4"},
		&models.Project{ID: projectTwoID, AuthorID: "s4b"},
	)
	repo.documents[projectOneID] = []models.Document{{FilePath: "/u/a.pdf"}, {FilePath: "/u/b.pdf"}, {FilePath: "/u/c.pdf"}}
	docs := &stubDocumentStore{}
	svc := newTestProjectService(repo, docs, nil)
	ctx := context.Background()

	err := svc.Delete(ctx, thirdYear, projectOneID)
	assert.Equal(t, "Access denied. You do not have permission to delete projects.", appErrors.FromError(err).Message)

	err = svc.Delete(ctx, fourthYear, projectTwoID)
	assert.Equal(t, "Access denied. You can only delete your own projects.", appErrors.FromError(err).Message)

	err = svc.Delete(ctx, fourthYear, missingProjectID)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(ctx, fourthYear, projectOneID))
	assert.Equal(t, []string{"/u/a.pdf", "/u/b.pdf", "/u/c.pdf"}, docs.removedPath)
	assert.Empty(t, repo.documents[projectOneID])

	require.NoError(t, svc.Delete(ctx, facultyUser, projectTwoID))
	assert.Equal(t, []string{projectOneID, projectTwoID}, repo.deleted)
}

func TestProjectFilterOptions(t *testing.T) {
	svc := newTestProjectService(newMockProjectRepo(), &stubDocumentStore{}, nil)
	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AI"}, opts.Domains)
}

func TestProjectOperationsRejectMalformedIDs(t *testing.T) {
	repo := newMockProjectRepo(&models.Project{ID: projectOneID, AuthorID: "s4"})
	svc := newTestProjectService(repo, &stubDocumentStore{}, nil)
	ctx := context.Background()

	for _, id := range []string{"123", "not-a-uuid", "", "1; DROP TABLE projects"} {
		_, err := svc.Get(ctx, facultyUser, id)
		assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code, id)

		_, err = svc.UpdateStatus(ctx, facultyUser, id, dto.UpdateStatusRequest{Status: "approved"})
		assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code, id)

		err = svc.Delete(ctx, facultyUser, id)
		assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code, id)
	}
	assert.Zero(t, repo.getCalls)
	assert.Empty(t, repo.deleted)
}
