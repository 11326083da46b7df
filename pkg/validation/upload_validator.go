package validation

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "go-cfimages/internal/errors"
)

const (
	// MaxFileSize is the vendor's 10 MiB per-image limit
	MaxFileSize = 10 * 1024 * 1024
	// MaxMetadataBytes bounds the serialized metadata, measured in
	// UTF-8 bytes, not characters
	MaxMetadataBytes = 1024
)

// UploadValidator handles the local checks that must pass before an
// upload touches the network
type UploadValidator struct {
	maxFileSize      int64
	maxMetadataBytes int
}

// NewUploadValidator creates a validator with the vendor's limits
func NewUploadValidator() *UploadValidator {
	return &UploadValidator{
		maxFileSize:      MaxFileSize,
		maxMetadataBytes: MaxMetadataBytes,
	}
}

// NewUploadValidatorWithLimits creates a validator with custom limits
func NewUploadValidatorWithLimits(maxFileSize int64, maxMetadataBytes int) *UploadValidator {
	return &UploadValidator{
		maxFileSize:      maxFileSize,
		maxMetadataBytes: maxMetadataBytes,
	}
}

// ValidateFile checks that the path names an existing regular file
// within the size limit and returns its size
func (v *UploadValidator) ValidateFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, apperrors.NewNotFoundError(fmt.Sprintf("file not found: %s", path), err)
		}
		return 0, apperrors.NewValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return 0, apperrors.NewValidationError(fmt.Sprintf("not a regular file: %s", path), nil)
	}
	if info.Size() > v.maxFileSize {
		return 0, apperrors.NewValidationError(
			fmt.Sprintf("file exceeds %d byte limit: %s (%d bytes)", v.maxFileSize, path, info.Size()), nil)
	}
	return info.Size(), nil
}

// ValidateMetadata serializes the metadata mapping and enforces the
// byte-length limit on the serialized form
func (v *UploadValidator) ValidateMetadata(metadata map[string]string) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	serialized, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperrors.NewValidationError("metadata is not serializable", err)
	}
	if len(serialized) > v.maxMetadataBytes {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("metadata exceeds %d bytes when serialized (%d bytes)", v.maxMetadataBytes, len(serialized)), nil)
	}
	return serialized, nil
}

// ParseMetadata decodes a caller-supplied JSON object of string values,
// as passed on the command line
func ParseMetadata(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, apperrors.NewValidationError("metadata must be a JSON object of string values", err)
	}
	return metadata, nil
}
