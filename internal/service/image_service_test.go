package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "go-cfimages/internal/errors"
	"go-cfimages/internal/images"
	"go-cfimages/pkg/validation"
)

// fakeAPI records calls so tests can assert that validation failures
// never reach the network.
type fakeAPI struct {
	calls        int
	lastUpload   images.UploadInput
	lastLimit    int
	lastPage     int
	uploadRecord *images.ImageRecord
	downloadBody string
	err          error
}

func (f *fakeAPI) Upload(ctx context.Context, in images.UploadInput) (*images.ImageRecord, error) {
	f.calls++
	f.lastUpload = in
	if f.err != nil {
		return nil, f.err
	}
	if f.uploadRecord != nil {
		return f.uploadRecord, nil
	}
	return &images.ImageRecord{ID: "img-1"}, nil
}

func (f *fakeAPI) List(ctx context.Context, limit, page int) (*images.ImageList, error) {
	f.calls++
	f.lastLimit = limit
	f.lastPage = page
	return &images.ImageList{}, f.err
}

func (f *fakeAPI) Delete(ctx context.Context, id string) (string, error) {
	f.calls++
	return id, f.err
}

func (f *fakeAPI) Download(ctx context.Context, id string) (io.ReadCloser, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader(f.downloadBody)), "image/png", nil
}

type fakeBlobStore struct {
	container string
	name      string
	content   []byte
}

func (f *fakeBlobStore) Put(ctx context.Context, container, name, contentType string, body io.Reader) (string, error) {
	f.container = container
	f.name = name
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", err
	}
	f.content = buf.Bytes()
	return "https://blobs/" + container + "/" + name, nil
}

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestUpload_MissingFile_NoNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidator(), api, nil)

	_, err := svc.Upload(context.Background(), UploadRequest{
		FilePath: filepath.Join(t.TempDir(), "nope.png"),
	})
	if err == nil {
		t.Fatal("Expected error, but got none")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("Expected not_found error, got: %v", err)
	}
	if api.calls != 0 {
		t.Errorf("Expected no network call, got %d", api.calls)
	}
}

func TestUpload_OversizedFile_NoNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidatorWithLimits(10, validation.MaxMetadataBytes), api, nil)

	_, err := svc.Upload(context.Background(), UploadRequest{
		FilePath: writeTempFile(t, "big.png", 11),
	})
	if err == nil {
		t.Fatal("Expected error, but got none")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got: %v", err)
	}
	if api.calls != 0 {
		t.Errorf("Expected no network call, got %d", api.calls)
	}
}

func TestUpload_OversizedMetadata_NoNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidator(), api, nil)

	_, err := svc.Upload(context.Background(), UploadRequest{
		FilePath: writeTempFile(t, "pixel.png", 10),
		Metadata: map[string]string{"key": strings.Repeat("x", validation.MaxMetadataBytes)},
	})
	if err == nil {
		t.Fatal("Expected error, but got none")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got: %v", err)
	}
	if api.calls != 0 {
		t.Errorf("Expected no network call, got %d", api.calls)
	}
}

func TestUpload_PassesResolvedInput(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidator(), api, nil)

	path := writeTempFile(t, "photo.jpg", 10)
	_, err := svc.Upload(context.Background(), UploadRequest{
		FilePath:          path,
		CustomID:          "my-id",
		RequireSignedURLs: true,
		Metadata:          map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("Expected upload to succeed, got: %v", err)
	}

	if api.lastUpload.FilePath != path {
		t.Errorf("Expected file path %s, got %s", path, api.lastUpload.FilePath)
	}
	if api.lastUpload.ID != "my-id" {
		t.Errorf("Expected custom id my-id, got %q", api.lastUpload.ID)
	}
	if !api.lastUpload.RequireSignedURLs {
		t.Error("Expected signed-URL flag to pass through")
	}
	// Zero bytes behind a .jpg extension resolve via the extension map
	if api.lastUpload.ContentType != "image/jpeg" {
		t.Errorf("Expected content type image/jpeg, got %q", api.lastUpload.ContentType)
	}
	if string(api.lastUpload.MetadataJSON) != `{"env":"test"}` {
		t.Errorf("Unexpected serialized metadata: %s", api.lastUpload.MetadataJSON)
	}
}

func TestList_Validation(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidator(), api, nil)

	if _, err := svc.List(context.Background(), 0, 0); err == nil {
		t.Error("Expected error for non-positive limit")
	}
	if api.calls != 0 {
		t.Errorf("Expected no network call, got %d", api.calls)
	}

	if _, err := svc.List(context.Background(), 10, 2); err != nil {
		t.Errorf("Expected list to succeed, got: %v", err)
	}
	if api.lastLimit != 10 || api.lastPage != 2 {
		t.Errorf("Expected limit/page 10/2, got %d/%d", api.lastLimit, api.lastPage)
	}
}

func TestDelete_RequiresID(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidator(), api, nil)

	if _, err := svc.Delete(context.Background(), ""); err == nil {
		t.Error("Expected error for empty id")
	}
	if api.calls != 0 {
		t.Errorf("Expected no network call, got %d", api.calls)
	}
}

func TestExport(t *testing.T) {
	api := &fakeAPI{downloadBody: "image bytes"}
	blobs := &fakeBlobStore{}
	svc := NewImageService(validation.NewUploadValidator(), api, blobs)

	location, err := svc.Export(context.Background(), "img-1", "backups")
	if err != nil {
		t.Fatalf("Expected export to succeed, got: %v", err)
	}
	if location != "https://blobs/backups/img-1.png" {
		t.Errorf("Unexpected location: %s", location)
	}
	if blobs.container != "backups" {
		t.Errorf("Expected container backups, got %s", blobs.container)
	}
	if string(blobs.content) != "image bytes" {
		t.Errorf("Expected streamed body to reach the blob store, got %q", blobs.content)
	}
}

func TestExport_WithoutBlobStore(t *testing.T) {
	api := &fakeAPI{}
	svc := NewImageService(validation.NewUploadValidator(), api, nil)

	_, err := svc.Export(context.Background(), "img-1", "backups")
	if err == nil {
		t.Fatal("Expected error, but got none")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeConfiguration) {
		t.Errorf("Expected configuration error, got: %v", err)
	}
	if api.calls != 0 {
		t.Errorf("Expected no network call, got %d", api.calls)
	}
}
