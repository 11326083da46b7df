package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStore is the backup sink for exported images.
type BlobStore interface {
	Put(ctx context.Context, container, name, contentType string, body io.Reader) (string, error)
}

type azureStorage struct {
	client      *azblob.Client
	accountName string
}

// NewAzureStorage creates a shared-key Azure blob client.
func NewAzureStorage(accountName string, accountKey string) (BlobStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client, accountName: accountName}, nil
}

// Put streams the body into the container and returns the blob URL.
func (s *azureStorage) Put(ctx context.Context, container, name, contentType string, body io.Reader) (string, error) {
	_, err := s.client.UploadStream(ctx, container, name, body, nil)
	if err != nil {
		return "", fmt.Errorf("blob upload failed: %w", err)
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.accountName, container, name), nil
}

// BlobName derives a stable blob name from the image id and its content
// type, so repeated exports of the same image overwrite in place.
func BlobName(id, contentType string) string {
	ext := map[string]string{
		"image/png":     ".png",
		"image/jpeg":    ".jpg",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	}[contentType]
	return id + ext
}
