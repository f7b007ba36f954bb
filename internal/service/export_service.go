package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/models"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
	"github.com/noah-isme/project-portal-api/pkg/export"
)

const exportTitle = "Project Data Export"

var (
	exportHeaders = []string{"id", "title", "abstract", "domain", "year", "author_name", "status", "technologies", "feedback", "document_count", "documents", "submitted_date", "updated_date"}
	pdfHeaders    = []string{"title", "domain", "year", "author_name", "status", "technologies", "document_count", "submitted_date"}
)

type exportRepository interface {
	ExportRows(ctx context.Context) ([]models.ExportRow, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders the full project corpus as a downloadable file.
type ExportService struct {
	repo   exportRepository
	csv    datasetRenderer
	pdf    datasetRenderer
	xlsx   datasetRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(repo exportRepository, logger *zap.Logger, csv, pdf, xlsx datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter("Projects")
	}
	return &ExportService{repo: repo, csv: csv, pdf: pdf, xlsx: xlsx, logger: logger, now: time.Now}
}

// ParseExportFormat maps a query value onto a format; empty means JSON.
func ParseExportFormat(raw string) (dto.ExportFormat, error) {
	switch format := dto.ExportFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case "":
		return dto.ExportFormatJSON, nil
	case dto.ExportFormatJSON, dto.ExportFormatCSV, dto.ExportFormatPDF, dto.ExportFormatXLSX:
		return format, nil
	default:
		return "", appErrors.Clone(appErrors.ErrBadRequest, "Invalid format. Must be one of: json, csv, pdf, xlsx")
	}
}

// Export renders every project in format and names the file project_data_export_<date>.<ext>.
func (s *ExportService) Export(ctx context.Context, format dto.ExportFormat) (*dto.ExportFile, error) {
	rows, err := s.repo.ExportRows(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error exporting data")
	}

	now := s.now().UTC()
	payload := buildExportPayload(rows, now)

	var (
		data        []byte
		contentType string
	)
	switch format {
	case dto.ExportFormatJSON, "":
		format = dto.ExportFormatJSON
		contentType = "application/json"
		data, err = json.MarshalIndent(payload, "", "  ")
	case dto.ExportFormatCSV:
		contentType = "text/csv"
		data, err = s.csv.Render(exportDataset(payload, exportHeaders))
	case dto.ExportFormatPDF:
		contentType = "application/pdf"
		data, err = s.pdf.Render(exportDataset(payload, pdfHeaders))
	case dto.ExportFormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		data, err = s.xlsx.Render(exportDataset(payload, exportHeaders))
	default:
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid format. Must be one of: json, csv, pdf, xlsx")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Server error occurred during export")
	}

	s.logger.Info("project data exported", zap.String("format", string(format)), zap.Int("records", payload.TotalRecords))
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("project_data_export_%s.%s", now.Format("2006-01-02"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func buildExportPayload(rows []models.ExportRow, now time.Time) dto.ExportPayload {
	out := dto.ExportPayload{ExportDate: now, TotalRecords: len(rows), Data: make([]dto.ExportProject, 0, len(rows))}
	for _, r := range rows {
		techs := []string{}
		if r.Technologies != nil {
			techs = models.ParseTechnologies(*r.Technologies)
		}
		docs := []string(r.DocumentNames)
		if docs == nil {
			docs = []string{}
		}
		out.Data = append(out.Data, dto.ExportProject{
			ID:            r.ID,
			Title:         r.Title,
			Abstract:      r.Abstract,
			Domain:        r.Domain,
			Year:          r.Year,
			AuthorName:    r.AuthorName,
			Status:        r.Status,
			Feedback:      r.Feedback,
			Technologies:  techs,
			DocumentCount: r.DocumentCount,
			Documents:     docs,
			SubmittedDate: r.SubmittedAt,
			UpdatedDate:   r.UpdatedAt,
		})
	}
	return out
}

func exportDataset(payload dto.ExportPayload, headers []string) export.Dataset {
	rows := make([]map[string]string, 0, len(payload.Data))
	for _, p := range payload.Data {
		feedback := ""
		if p.Feedback != nil {
			feedback = *p.Feedback
		}
		rows = append(rows, map[string]string{
			"id":             p.ID,
			"title":          p.Title,
			"abstract":       p.Abstract,
			"domain":         p.Domain,
			"year":           p.Year,
			"author_name":    p.AuthorName,
			"status":         string(p.Status),
			"technologies":   strings.Join(p.Technologies, ", "),
			"feedback":       feedback,
			"document_count": strconv.Itoa(p.DocumentCount),
			"documents":      strings.Join(p.Documents, "; "),
			"submitted_date": p.SubmittedDate.Format(time.RFC3339),
			"updated_date":   p.UpdatedDate.Format(time.RFC3339),
		})
	}
	return export.Dataset{Title: exportTitle, Headers: headers, Rows: rows}
}
