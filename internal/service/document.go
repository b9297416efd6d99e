package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"subcity/internal/model"
	"subcity/internal/repository"
	"subcity/internal/storage"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrReaderNil     = errors.New("reader is nil")
	ErrFileMissing   = errors.New("document file missing from storage")
	ErrPartialDelete = errors.New("document file removed but metadata delete failed")
)

// objectPrefix is the key prefix under which uploaded files are stored.
const objectPrefix = "documents"

// UploadMeta describes an incoming file and the metadata to register for it.
type UploadMeta struct {
	Title       string
	Category    string
	Description *string
	Tags        []string
	Filename    string
	ContentType string
	Size        int64
	UploadedBy  *int64
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the file, then its metadata. The stored object is removed again
	// if the metadata cannot be saved.
	Upload(ctx context.Context, r io.Reader, meta UploadMeta) (*model.Document, error)

	// List returns documents newest first.
	List(ctx context.Context) ([]model.Document, error)

	Get(ctx context.Context, id int64) (*model.Document, error)

	// Open returns the document's content. The caller closes the reader.
	Open(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error)

	// DownloadURL returns a time-limited link when the storage backend supports it.
	DownloadURL(ctx context.Context, id int64, expiry time.Duration) (string, error)

	// Delete removes the stored file first and then the metadata.
	Delete(ctx context.Context, id int64) error
}

type documentService struct {
	files  storage.Storage
	repo   repository.Store
	logger *zap.Logger
	tracer trace.Tracer
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(files storage.Storage, repo repository.Store, logger *zap.Logger) DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentService{
		files:  files,
		repo:   repo,
		logger: logger.With(zap.String("component", "documents")),
		tracer: otel.Tracer("subcity/internal/service"),
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// objectKey builds a unique storage key that keeps the original extension.
func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return path.Join(objectPrefix, uuid.NewString()+ext)
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, meta UploadMeta) (*model.Document, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Upload",
		trace.WithAttributes(attribute.String("document.filename", meta.Filename), attribute.Int64("document.size", meta.Size)))
	defer span.End()

	if r == nil {
		return nil, fail(span, ErrReaderNil)
	}

	key := objectKey(meta.Filename)
	info, err := s.files.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        meta.Size,
		ContentType: meta.ContentType,
		Metadata: map[string]string{
			"original-filename": meta.Filename,
		},
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("upload to storage: %w", err))
	}

	fileType := meta.ContentType
	if fileType == "" {
		fileType = info.ContentType
	}
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	doc, err := s.repo.CreateDocument(ctx, model.DocumentInput{
		Title:       meta.Title,
		Category:    meta.Category,
		Description: meta.Description,
		FilePath:    info.Key,
		FileSize:    info.Size,
		FileType:    fileType,
		Tags:        tags,
		UploadedBy:  meta.UploadedBy,
	})
	if err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.Error("document_rollback_failed", zap.String("key", key), zap.Error(delErr))
			return nil, fail(span, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr))
		}
		return nil, fail(span, fmt.Errorf("db save failed: %w", err))
	}
	span.SetAttributes(attribute.Int64("document.id", doc.ID))
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.List")
	defer span.End()

	docs, err := s.repo.ListDocuments(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Get", trace.WithAttributes(attribute.Int64("document.id", id)))
	defer span.End()

	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return doc, nil
}

func (s *documentService) get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Open(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Open", trace.WithAttributes(attribute.Int64("document.id", id)))
	defer span.End()

	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, fail(span, err)
	}
	rc, _, err := s.files.Get(ctx, doc.FilePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("document_file_missing", zap.Int64("document_id", id), zap.String("key", doc.FilePath))
		return nil, nil, fail(span, ErrFileMissing)
	}
	if err != nil {
		return nil, nil, fail(span, fmt.Errorf("open storage: %w", err))
	}
	return rc, doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id int64, expiry time.Duration) (string, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.DownloadURL", trace.WithAttributes(attribute.Int64("document.id", id)))
	defer span.End()

	doc, err := s.get(ctx, id)
	if err != nil {
		return "", fail(span, err)
	}
	u, err := s.files.PresignGet(ctx, doc.FilePath, expiry)
	if err != nil {
		return "", fail(span, err)
	}
	return u, nil
}

// Delete removes the stored object, then the metadata. A storage failure aborts with the
// metadata intact. An object that is already gone is logged and the metadata is still removed.
// If the metadata delete fails after the object is gone, ErrPartialDelete is returned.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Delete", trace.WithAttributes(attribute.Int64("document.id", id)))
	defer span.End()

	doc, err := s.get(ctx, id)
	if err != nil {
		return fail(span, err)
	}

	if err := s.files.Delete(ctx, doc.FilePath); err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			return fail(span, fmt.Errorf("delete storage: %w", err))
		}
		s.logger.Warn("document_file_missing", zap.Int64("document_id", id), zap.String("key", doc.FilePath))
	}

	ok, err := s.repo.DeleteDocument(ctx, id)
	if err != nil {
		s.logger.Error("document_partial_delete", zap.Int64("document_id", id), zap.String("key", doc.FilePath), zap.Error(err))
		return fail(span, fmt.Errorf("%w: %v", ErrPartialDelete, err))
	}
	if !ok {
		return fail(span, ErrNotFound)
	}
	return nil
}
