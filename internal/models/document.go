package models

import "time"

// Document is a file attached to a project at submission time.
type Document struct {
	ID           string    `db:"id" json:"id"`
	ProjectID    string    `db:"project_id" json:"-"`
	Filename     string    `db:"filename" json:"-"`
	OriginalName string    `db:"original_name" json:"originalName"`
	FilePath     string    `db:"file_path" json:"-"`
	FileSize     int64     `db:"file_size" json:"fileSize"`
	MimeType     string    `db:"mime_type" json:"mimeType"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploadedDate"`
}

// DocumentAccess joins a document with the owning project's visibility fields.
type DocumentAccess struct {
	Document
	ProjectStatus ProjectStatus `db:"project_status"`
	AuthorID      string        `db:"author_id"`
}
