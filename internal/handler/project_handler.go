package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/models"
	"github.com/noah-isme/project-portal-api/internal/service"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
	"github.com/noah-isme/project-portal-api/pkg/response"
)

const documentsField = "documents"

type projectService interface {
	List(ctx context.Context, principal *models.JWTClaims, query dto.ProjectListQuery) ([]dto.ProjectSummary, error)
	Get(ctx context.Context, principal *models.JWTClaims, id string) (*dto.ProjectDetail, error)
	Create(ctx context.Context, principal *models.JWTClaims, req dto.CreateProjectRequest, files []service.UploadedFile) (*dto.CreateProjectResult, error)
	UpdateStatus(ctx context.Context, principal *models.JWTClaims, id string, req dto.UpdateStatusRequest) (*dto.StatusUpdateResult, error)
	Delete(ctx context.Context, principal *models.JWTClaims, id string) error
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

type documentDownloader interface {
	Download(ctx context.Context, principal *models.JWTClaims, projectID, documentID string) (*service.DocumentDownload, error)
}

// ProjectHandler exposes project lifecycle and document endpoints.
type ProjectHandler struct {
	projects  projectService
	documents documentDownloader
}

// NewProjectHandler constructs a project handler.
func NewProjectHandler(projects projectService, documents documentDownloader) *ProjectHandler {
	return &ProjectHandler{projects: projects, documents: documents}
}

// List godoc
// @Summary List projects
// @Description Third-year students see approved projects, fourth-year students their own, faculty all
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param domain query string false "Domain or all"
// @Param year query string false "Four digit year or all"
// @Param status query string false "pending, approved, rejected or all (faculty only)"
// @Param search query string false "Case-insensitive match on title, abstract and technologies"
// @Success 200 {array} dto.ProjectSummary
// @Failure 400 {object} response.ErrorBody
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var query dto.ProjectListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	projects, err := h.projects.List(c.Request.Context(), principalFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Projects fetched successfully", gin.H{"projects": projects, "total": len(projects)})
}

// Get godoc
// @Summary Project detail
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectDetail
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project details fetched successfully", gin.H{"project": project})
}

// Create godoc
// @Summary Submit project
// @Description Multipart submission with up to five files in the documents field
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param abstract formData string true "Abstract"
// @Param domain formData string true "Domain"
// @Param year formData string true "Year"
// @Param technologies formData string false "Comma separated technologies"
// @Param documents formData file false "Project documents"
// @Success 201 {object} dto.CreateProjectResult
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	var files []service.UploadedFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = service.FromMultipart(form.File[documentsField])
	}

	res, err := h.projects.Create(c.Request.Context(), principalFromContext(c), req, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Project submitted successfully! It will be reviewed by faculty.", gin.H{
		"projectId":         res.ProjectID,
		"documentsUploaded": res.DocumentsUploaded,
	})
}

// UpdateStatus godoc
// @Summary Review project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param payload body dto.UpdateStatusRequest true "New status and optional feedback"
// @Success 200 {object} dto.StatusUpdateResult
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /projects/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	res, err := h.projects.UpdateStatus(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := fmt.Sprintf("Project %q has been successfully updated to '%s'.", res.Title, res.NewStatus)
	response.OK(c, message, gin.H{"newStatus": res.NewStatus})
}

// Delete godoc
// @Summary Delete project
// @Description Removes the project, its documents and their stored files
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), principalFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project and all associated documents deleted successfully.", nil)
}

// Download godoc
// @Summary Download document
// @Tags Projects
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param documentId path string true "Document ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /projects/{id}/documents/{documentId} [get]
func (h *ProjectHandler) Download(c *gin.Context) {
	dl, err := h.documents.Download(c.Request.Context(), principalFromContext(c), c.Param("id"), c.Param("documentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer dl.File.Close()

	size := dl.Size
	if info, statErr := dl.File.Stat(); statErr == nil {
		size = info.Size()
	}
	c.DataFromReader(http.StatusOK, size, dl.MimeType, dl.File, map[string]string{
		"Content-Disposition": response.ContentDisposition(dl.OriginalName),
		"Cache-Control":       "no-store",
	})
}

// FilterOptions godoc
// @Summary Filter options
// @Description Distinct domains and years across all projects
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.FilterOptions
// @Router /projects/meta/filters [get]
func (h *ProjectHandler) FilterOptions(c *gin.Context) {
	opts, err := h.projects.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Filter options fetched successfully", gin.H{"filters": opts})
}
