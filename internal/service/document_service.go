package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
	"github.com/noah-isme/project-portal-api/pkg/storage"
)

var defaultAllowedExtensions = []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".zip", ".rar"}

type documentStorage interface {
	SaveStream(filename string, r io.Reader, limit int64) (string, int64, error)
	Open(path string) (*os.File, error)
	Delete(path string) error
}

type documentRepository interface {
	FindDocument(ctx context.Context, documentID string) (*models.DocumentAccess, error)
}

// UploadedFile is one incoming document before it is written to storage.
type UploadedFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts multipart headers into UploadedFiles.
func FromMultipart(headers []*multipart.FileHeader) []UploadedFile {
	files := make([]UploadedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, UploadedFile{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

// DocumentConfig bounds what an upload batch may contain.
type DocumentConfig struct {
	MaxFileSize       int64
	MaxFiles          int
	AllowedExtensions []string
}

// DocumentDownload is an opened document ready to be streamed.
type DocumentDownload struct {
	File         *os.File
	OriginalName string
	MimeType     string
	Size         int64
}

// DocumentService validates, stores and serves project attachments.
type DocumentService struct {
	repo    documentRepository
	storage documentStorage
	metrics *MetricsService
	logger  *zap.Logger
	config  DocumentConfig
	now     func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo documentRepository, store documentStorage, metrics *MetricsService, logger *zap.Logger, config DocumentConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 10 * 1024 * 1024
	}
	if config.MaxFiles <= 0 {
		config.MaxFiles = 5
	}
	config.AllowedExtensions = normalizeExtensions(config.AllowedExtensions)
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = defaultAllowedExtensions
	}
	return &DocumentService{repo: repo, storage: store, metrics: metrics, logger: logger, config: config, now: time.Now}
}

// Validate checks the whole batch before anything is written: file count, then each
// file's extension, then each file's size.
func (s *DocumentService) Validate(files []UploadedFile) error {
	err := s.validate(files)
	if err != nil {
		s.metrics.RecordUploadRejection(appErrors.FromError(err).Code)
	}
	return err
}

func (s *DocumentService) validate(files []UploadedFile) error {
	if len(files) > s.config.MaxFiles {
		return appErrors.Clone(appErrors.ErrTooManyFiles, fmt.Sprintf("Too many files. Maximum %d files allowed", s.config.MaxFiles))
	}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if !s.allowed(ext) {
			return appErrors.Clone(appErrors.ErrInvalidFileType,
				fmt.Sprintf("Invalid file type: %s. Allowed types: %s", ext, strings.Join(s.config.AllowedExtensions, ", ")))
		}
	}
	for _, f := range files {
		if f.Size > s.config.MaxFileSize {
			return s.tooLarge()
		}
	}
	return nil
}

// Store validates files and writes them to storage, returning document rows ready to be
// linked to a project. On any failure the files already written are removed.
func (s *DocumentService) Store(files []UploadedFile) ([]models.Document, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(files))
	for _, f := range files {
		doc, err := s.storeOne(f)
		if err != nil {
			s.Cleanup(docs)
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *DocumentService) storeOne(f UploadedFile) (models.Document, error) {
	src, err := f.Open()
	if err != nil {
		return models.Document{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
	}
	defer src.Close()

	mimeType := strings.TrimSpace(f.ContentType)
	reader := io.Reader(src)
	if mimeType == "" || mimeType == "application/octet-stream" {
		head := make([]byte, 3072)
		n, readErr := io.ReadFull(src, head)
		if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			return models.Document{}, appErrors.Wrap(readErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
		}
		head = head[:n]
		mimeType = mimetype.Detect(head).String()
		reader = io.MultiReader(bytes.NewReader(head), src)
	}

	now := s.now().UTC()
	filename := storage.UniqueName(f.Name, now)
	path, size, err := s.storage.SaveStream(filename, reader, s.config.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrSizeExceeded) {
			s.metrics.RecordUploadRejection(appErrors.ErrFileTooLarge.Code)
			return models.Document{}, s.tooLarge()
		}
		return models.Document{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	s.metrics.RecordUpload(size)

	return models.Document{
		ID:           uuid.NewString(),
		Filename:     filename,
		OriginalName: filepath.Base(f.Name),
		FilePath:     path,
		FileSize:     size,
		MimeType:     mimeType,
		UploadedAt:   now,
	}, nil
}

// Cleanup removes stored files best-effort.
func (s *DocumentService) Cleanup(docs []models.Document) {
	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.FilePath)
	}
	s.RemoveFiles(paths)
}

// RemoveFiles deletes each path, logging failures without stopping. It returns how many were removed.
func (s *DocumentService) RemoveFiles(paths []string) int {
	removed := 0
	for _, p := range paths {
		if err := s.storage.Delete(p); err != nil {
			s.logger.Warn("failed to delete document file", zap.String("path", p), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}

// Download resolves a document for principal, applying the owning project's visibility rules,
// and opens it for streaming. The caller must close the returned file.
func (s *DocumentService) Download(ctx context.Context, principal *models.JWTClaims, projectID, documentID string) (*DocumentDownload, error) {
	if !validID(projectID) || !validID(documentID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Document not found.")
	}
	doc, err := s.repo.FindDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Document not found.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if doc.ProjectID != projectID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Document not found.")
	}

	switch {
	case principal == nil:
		return nil, appErrors.ErrUnauthorized
	case principal.Role == models.RoleThirdYear && doc.ProjectStatus != models.ProjectStatusApproved:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Access denied. Project is not approved.")
	case principal.Role == models.RoleFourthYear && doc.AuthorID != principal.UserID:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Access denied. You can only download your own project documents.")
	}

	file, err := s.storage.Open(doc.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("document missing from storage", zap.String("document_id", doc.ID), zap.String("path", doc.FilePath))
			return nil, appErrors.ErrFileMissing
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error occurred during file download.")
	}

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &DocumentDownload{File: file, OriginalName: doc.OriginalName, MimeType: mimeType, Size: doc.FileSize}, nil
}

func (s *DocumentService) allowed(ext string) bool {
	for _, candidate := range s.config.AllowedExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (s *DocumentService) tooLarge() error {
	return appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("File too large. Maximum size is %dMB", s.config.MaxFileSize/(1024*1024)))
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
