package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"subcity/internal/service"
	"subcity/internal/storage"
)

// downloadLinkTTL bounds presigned download links.
const downloadLinkTTL = 15 * time.Minute

const (
	// DefaultMaxUploadBytes caps a single uploaded file.
	DefaultMaxUploadBytes int64 = 10 << 20
	// MultipartOverhead is added to the file cap to size the request body limit,
	// leaving room for boundaries and the other form fields.
	MultipartOverhead = 1 << 20
)

// uploadForm holds the non-file multipart fields of a document upload.
type uploadForm struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Category    string   `json:"category" validate:"required,max=100"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags" validate:"dive,required"`
}

// parseTags decodes the tags form field, a JSON array of strings. Empty means no tags.
func parseTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// ListDocuments godoc
// @Summary  List documents, newest first
// @Tags     documents
// @Produce  json
// @Success  200 {array} model.Document
// @Router   /api/documents [get]
func ListDocuments(docSvc service.DocumentService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.List(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(docs)
	}
}

// UploadDocument godoc
// @Summary  Upload a document
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    file        formData file   true  "File"
// @Param    title       formData string true  "Title"
// @Param    category    formData string true  "Category"
// @Param    description formData string false "Description"
// @Param    tags        formData string false "JSON array of tags"
// @Success  201 {object} model.Document
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Router   /api/documents [post]
func UploadDocument(docSvc service.DocumentService, maxFileBytes int64, logger *zap.Logger) fiber.Handler {
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxUploadBytes
	}
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file uploaded")
		}
		if fh.Size > maxFileBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds the upload limit")
		}

		tags, err := parseTags(c.FormValue("tags"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TAGS", "tags must be a JSON array of strings")
		}
		form := uploadForm{
			Title:    strings.TrimSpace(c.FormValue("title")),
			Category: strings.TrimSpace(c.FormValue("category")),
			Tags:     tags,
		}
		if d := c.FormValue("description"); d != "" {
			form.Description = &d
		}
		if !validStruct(c, &form) {
			return nil
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), f, service.UploadMeta{
			Title:       form.Title,
			Category:    form.Category,
			Description: form.Description,
			Tags:        form.Tags,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument godoc
// @Summary  Get document metadata
// @Tags     documents
// @Produce  json
// @Param    id path int true "Document ID"
// @Success  200 {object} model.Document
// @Failure  404 {object} errorPayload
// @Router   /api/documents/{id} [get]
func GetDocument(docSvc service.DocumentService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if errors.Is(err, service.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Document not found")
		}
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument godoc
// @Summary  Download the document file
// @Tags     documents
// @Produce  octet-stream
// @Param    id path int true "Document ID"
// @Success  200 {file} binary
// @Failure  404 {object} errorPayload
// @Router   /api/documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		rc, doc, err := docSvc.Open(c.UserContext(), id)
		switch {
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Document not found")
		case errors.Is(err, service.ErrFileMissing):
			return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "File not found")
		case err != nil:
			return internalError(c, logger, err)
		}
		defer rc.Close()

		c.Set(fiber.HeaderContentType, doc.FileType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+downloadName(doc.Title, doc.FilePath)+`"`)
		if doc.FileSize > 0 {
			c.Set(fiber.HeaderContentLength, strconv.FormatInt(doc.FileSize, 10))
		}
		_, err = io.Copy(c.Response().BodyWriter(), rc)
		return err
	}
}

// downloadName derives a filename from the title, keeping the stored extension.
func downloadName(title, key string) string {
	name := strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, title)
	if i := strings.LastIndexByte(key, '.'); i >= 0 && !strings.HasSuffix(strings.ToLower(name), strings.ToLower(key[i:])) {
		name += key[i:]
	}
	return name
}

// DocumentLink godoc
// @Summary  Presigned download link
// @Tags     documents
// @Produce  json
// @Param    id path int true "Document ID"
// @Success  200 {object} map[string]string
// @Failure  404 {object} errorPayload
// @Failure  501 {object} errorPayload
// @Router   /api/documents/{id}/link [get]
func DocumentLink(docSvc service.DocumentService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		u, err := docSvc.DownloadURL(c.UserContext(), id, downloadLinkTTL)
		switch {
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Document not found")
		case errors.Is(err, storage.ErrPresignUnsupported):
			return writeError(c, fiber.StatusNotImplemented, "NOT_SUPPORTED", "download links are not available for this storage backend")
		case err != nil:
			return internalError(c, logger, err)
		}
		return c.JSON(fiber.Map{"url": u, "expiresIn": int(downloadLinkTTL.Seconds())})
	}
}

// DeleteDocument godoc
// @Summary  Delete a document and its file
// @Tags     documents
// @Param    id path int true "Document ID"
// @Success  204
// @Failure  404 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /api/documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		err := docSvc.Delete(c.UserContext(), id)
		switch {
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Document not found")
		case errors.Is(err, service.ErrPartialDelete):
			return writeError(c, fiber.StatusInternalServerError, "PARTIAL_DELETE", "Failed to delete document")
		case err != nil:
			return internalError(c, logger, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
