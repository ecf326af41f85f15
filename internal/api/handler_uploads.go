package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for the form boundaries around the file.
const multipartOverhead = 1 << 20

// UploadFile handles POST /upload with a multipart "file" field.
func (h *Handler) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if header.Size > h.maxUploadBytes {
		badRequest(c, "file is too large")
		return
	}

	f, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	file, err := h.files.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, gin.H{"fileId": file.ID, "url": "/uploads/" + file.URL}, nil)
}

// GetUpload serves a stored upload.
func (h *Handler) GetUpload(c *gin.Context) {
	body, contentType, err := h.files.Open(c.Param("key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.Warn().Err(err).Str("key", c.Param("key")).Msg("failed to stream upload")
	}
}
