package response

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
)

// Envelope is the JSON body of every non-file response.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// Report data reflects live counters, so nothing is cacheable downstream.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends data with optional pagination and meta.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Accepted responds with HTTP 202 for queued work.
func Accepted(c *gin.Context, data interface{}) {
	JSON(c, http.StatusAccepted, data, nil)
}

// Error renders err as a typed error envelope. Untyped errors become INTERNAL_ERROR.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Attachment sends data as a download named filename. Extra headers are
// written as given.
func Attachment(c *gin.Context, filename, contentType string, data []byte, headers map[string]string) {
	writeAttachmentHeaders(c, filename, headers)
	c.Data(http.StatusOK, contentType, data)
}

// AttachmentFromReader streams r as a download. The caller closes r.
func AttachmentFromReader(c *gin.Context, filename, contentType string, r io.Reader) {
	writeAttachmentHeaders(c, filename, nil)
	c.DataFromReader(http.StatusOK, -1, contentType, r, nil)
}

func writeAttachmentHeaders(c *gin.Context, filename string, headers map[string]string) {
	noStore(c)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	for k, v := range headers {
		c.Header(k, v)
	}
}
