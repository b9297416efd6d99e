package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"subcity/internal/model"
	"subcity/internal/repository"
	repoMocks "subcity/internal/repository/mocks"
	"subcity/internal/storage"
	storeMocks "subcity/internal/storage/mocks"
)

func TestDocumentService_Upload(t *testing.T) {
	meta := UploadMeta{
		Title:       "Land use policy",
		Category:    "Policies",
		Tags:        []string{"legal", "important"},
		Filename:    "Policy.PDF",
		ContentType: "application/pdf",
		Size:        11,
	}

	tests := []struct {
		name       string
		meta       UploadMeta
		setupMocks func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			meta: meta,
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader {
				r := strings.NewReader("hello world")
				mFiles.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "Policy.PDF"},
				}).Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: 11, ContentType: "application/pdf"}
				}, nil)

				mRepo.On("CreateDocument", mock.Anything, mock.MatchedBy(func(in model.DocumentInput) bool {
					return in.Title == "Land use policy" && in.FileSize == 11 && in.FileType == "application/pdf" &&
						strings.HasPrefix(in.FilePath, "documents/") && len(in.Tags) == 2
				})).Return(&model.Document{ID: 1, Title: "Land use policy"}, nil)

				return r
			},
		},
		{
			name: "validation error - nil reader",
			meta: meta,
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name: "storage error",
			meta: meta,
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader {
				r := strings.NewReader("hello")
				mFiles.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "repository error with successful rollback",
			meta: meta,
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader {
				r := strings.NewReader("hello")
				var stored string
				mFiles.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
						stored = key
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mFiles.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool { return key == stored })).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "repository error with failed rollback",
			meta: meta,
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader {
				r := strings.NewReader("hello")
				mFiles.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mFiles.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
		{
			name: "file type falls back to storage then octet-stream",
			meta: UploadMeta{Title: "Raw", Category: "Reports", Filename: "raw", Size: 3},
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) io.Reader {
				r := strings.NewReader("abc")
				mFiles.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Key: "documents/x", Size: 3}, nil)
				mRepo.On("CreateDocument", mock.Anything, mock.MatchedBy(func(in model.DocumentInput) bool {
					return in.FileType == "application/octet-stream" && in.Tags != nil && len(in.Tags) == 0
				})).Return(&model.Document{ID: 2}, nil)
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mFiles := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockStore)
			svc := NewDocumentService(mFiles, mRepo, zap.NewNop())

			r := tt.setupMocks(mFiles, mRepo)

			doc, err := svc.Upload(context.Background(), r, tt.meta)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
			}

			mFiles.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockStore)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   1,
			setupMocks: func(mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(&model.Document{ID: 1}, nil)
			},
		},
		{
			name: "not found - mapping repository.ErrNotFound",
			id:   2,
			setupMocks: func(mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(2)).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   3,
			setupMocks: func(mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(3)).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockStore)
			svc := NewDocumentService(nil, mRepo, nil)

			tt.setupMocks(mRepo)

			doc, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, doc.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	mRepo := new(repoMocks.MockStore)
	svc := NewDocumentService(nil, mRepo, nil)
	mRepo.On("ListDocuments", mock.Anything).Return([]model.Document{{ID: 2}, {ID: 1}}, nil)

	docs, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	mRepo.AssertExpectations(t)
}

func TestDocumentService_Open(t *testing.T) {
	doc := &model.Document{ID: 1, FilePath: "documents/a.pdf"}

	t.Run("streams content", func(t *testing.T) {
		mFiles := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStore)
		svc := NewDocumentService(mFiles, mRepo, nil)
		mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
		mFiles.On("Get", mock.Anything, "documents/a.pdf").
			Return(io.NopCloser(strings.NewReader("pdf")), storage.ObjectInfo{Size: 3}, nil)

		rc, got, err := svc.Open(context.Background(), 1)

		require.NoError(t, err)
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "pdf", string(b))
		assert.Equal(t, doc, got)
	})

	t.Run("metadata without file", func(t *testing.T) {
		mFiles := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStore)
		core, logs := observer.New(zap.WarnLevel)
		svc := NewDocumentService(mFiles, mRepo, zap.New(core))
		mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
		mFiles.On("Get", mock.Anything, "documents/a.pdf").
			Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		rc, _, err := svc.Open(context.Background(), 1)

		assert.Nil(t, rc)
		assert.ErrorIs(t, err, ErrFileMissing)
		assert.Equal(t, 1, logs.FilterMessage("document_file_missing").Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		mRepo := new(repoMocks.MockStore)
		svc := NewDocumentService(nil, mRepo, nil)
		mRepo.On("GetDocument", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

		_, _, err := svc.Open(context.Background(), 9)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_DownloadURL(t *testing.T) {
	mFiles := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockStore)
	svc := NewDocumentService(mFiles, mRepo, nil)
	mRepo.On("GetDocument", mock.Anything, int64(1)).Return(&model.Document{ID: 1, FilePath: "documents/a.pdf"}, nil)
	mFiles.On("PresignGet", mock.Anything, "documents/a.pdf", mock.Anything).Return("", storage.ErrPresignUnsupported)

	_, err := svc.DownloadURL(context.Background(), 1, 0)

	assert.ErrorIs(t, err, storage.ErrPresignUnsupported)
}

func TestDocumentService_Delete(t *testing.T) {
	doc := &model.Document{ID: 1, FilePath: "documents/a.pdf"}

	tests := []struct {
		name       string
		setupMocks func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore)
		wantErr    error
		wantMsg    string
		wantWarn   bool
	}{
		{
			name: "happy path",
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
				mFiles.On("Delete", mock.Anything, "documents/a.pdf").Return(nil)
				mRepo.On("DeleteDocument", mock.Anything, int64(1)).Return(true, nil)
			},
		},
		{
			name: "not found",
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage delete error keeps metadata",
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
				mFiles.On("Delete", mock.Anything, "documents/a.pdf").Return(errors.New("storage fail"))
			},
			wantMsg: "delete storage: storage fail",
		},
		{
			name: "missing file is tolerated",
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
				mFiles.On("Delete", mock.Anything, "documents/a.pdf").Return(storage.ErrObjectNotFound)
				mRepo.On("DeleteDocument", mock.Anything, int64(1)).Return(true, nil)
			},
			wantWarn: true,
		},
		{
			name: "metadata delete error after file removal",
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
				mFiles.On("Delete", mock.Anything, "documents/a.pdf").Return(nil)
				mRepo.On("DeleteDocument", mock.Anything, int64(1)).Return(false, errors.New("db fail"))
			},
			wantErr: ErrPartialDelete,
		},
		{
			name: "metadata vanished concurrently",
			setupMocks: func(mFiles *storeMocks.MockStorage, mRepo *repoMocks.MockStore) {
				mRepo.On("GetDocument", mock.Anything, int64(1)).Return(doc, nil)
				mFiles.On("Delete", mock.Anything, "documents/a.pdf").Return(nil)
				mRepo.On("DeleteDocument", mock.Anything, int64(1)).Return(false, nil)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mFiles := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockStore)
			core, logs := observer.New(zap.WarnLevel)
			svc := NewDocumentService(mFiles, mRepo, zap.New(core))

			tt.setupMocks(mFiles, mRepo)

			err := svc.Delete(context.Background(), 1)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				assert.ErrorContains(t, err, tt.wantMsg)
			default:
				assert.NoError(t, err)
			}
			if tt.wantWarn {
				assert.Equal(t, 1, logs.FilterMessage("document_file_missing").Len())
			}
			mFiles.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
