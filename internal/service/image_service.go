package service

import (
	"context"

	apperrors "go-cfimages/internal/errors"
	"go-cfimages/internal/images"
	"go-cfimages/internal/storage"
	"go-cfimages/pkg/validation"
)

// UploadRequest is a caller-facing upload: local checks have not run yet.
type UploadRequest struct {
	FilePath          string
	CustomID          string
	RequireSignedURLs bool
	Metadata          map[string]string
}

// ImageService defines the operations shared by the CLI commands and
// the HTTP facade.
type ImageService interface {
	Upload(ctx context.Context, req UploadRequest) (*images.ImageRecord, error)
	List(ctx context.Context, limit, page int) (*images.ImageList, error)
	Delete(ctx context.Context, id string) (string, error)
	Export(ctx context.Context, id, container string) (string, error)
}

type imageService struct {
	validator *validation.UploadValidator
	api       images.API
	blobs     storage.BlobStore
}

// NewImageService wires the validator and API client. blobs may be nil
// when export is not configured.
func NewImageService(validator *validation.UploadValidator, api images.API, blobs storage.BlobStore) ImageService {
	return &imageService{
		validator: validator,
		api:       api,
		blobs:     blobs,
	}
}

// Upload runs every local check, resolves the content type, then issues
// the single multipart POST. Validation failures never reach the network.
func (s *imageService) Upload(ctx context.Context, req UploadRequest) (*images.ImageRecord, error) {
	if _, err := s.validator.ValidateFile(req.FilePath); err != nil {
		return nil, err
	}
	metadataJSON, err := s.validator.ValidateMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}

	return s.api.Upload(ctx, images.UploadInput{
		FilePath:          req.FilePath,
		ContentType:       images.ResolveContentType(req.FilePath),
		ID:                req.CustomID,
		RequireSignedURLs: req.RequireSignedURLs,
		MetadataJSON:      metadataJSON,
	})
}

func (s *imageService) List(ctx context.Context, limit, page int) (*images.ImageList, error) {
	if limit <= 0 {
		return nil, apperrors.NewValidationError("limit must be positive", nil)
	}
	return s.api.List(ctx, limit, page)
}

func (s *imageService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", apperrors.NewValidationError("image id is required", nil)
	}
	return s.api.Delete(ctx, id)
}

// Export streams a stored image out of Cloudflare and into the backup
// blob container, returning the blob location.
func (s *imageService) Export(ctx context.Context, id, container string) (string, error) {
	if id == "" {
		return "", apperrors.NewValidationError("image id is required", nil)
	}
	if s.blobs == nil {
		return "", apperrors.NewConfigurationError(
			"backup store not configured",
			"Set AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY to enable export",
		)
	}

	body, contentType, err := s.api.Download(ctx, id)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return s.blobs.Put(ctx, container, storage.BlobName(id, contentType), contentType, body)
}
