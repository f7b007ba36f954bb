package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
)

// Envelope documents the success envelope for swagger; payload keys sit beside these fields.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorBody documents the failure envelope for swagger.
type ErrorBody struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Errors  []appErrors.FieldError `json:"errors,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

// JSON sends the common envelope: success flag, message, and the payload keys merged at the top level.
func JSON(c *gin.Context, status int, message string, payload gin.H) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")

	body := gin.H{}
	for key, value := range payload {
		body[key] = value
	}
	body["success"] = status < http.StatusBadRequest
	body["message"] = message
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, payload gin.H) {
	JSON(c, http.StatusOK, message, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, payload gin.H) {
	JSON(c, http.StatusCreated, message, payload)
}

// Error sends an error response converting the error to the common structure.
// The original error is attached to the gin context for the access logger.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)

	body := ErrorBody{
		Success: false,
		Message: appErr.Message,
		Error:   appErr.Code,
		Errors:  appErr.Details,
	}
	if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
		body.Debug = appErr.Err.Error()
	}

	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(appErr.Status, body)
}

// Attachment writes a downloadable payload labelled with filename.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", ContentDisposition(filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// ContentDisposition renders an attachment header per RFC 6266. Names outside
// printable ASCII are sent as an RFC 2231 filename* parameter.
func ContentDisposition(filename string) string {
	if filename == "" {
		return "attachment"
	}
	if value := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); value != "" {
		return value
	}
	return "attachment"
}
