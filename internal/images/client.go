package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "go-cfimages/internal/errors"
	"go-cfimages/internal/logger"

	"github.com/sirupsen/logrus"
)

// API is the Cloudflare Images surface the rest of the program depends on.
type API interface {
	Upload(ctx context.Context, in UploadInput) (*ImageRecord, error)
	List(ctx context.Context, limit, page int) (*ImageList, error)
	Delete(ctx context.Context, id string) (string, error)
	Download(ctx context.Context, id string) (io.ReadCloser, string, error)
}

// Client talks to the Cloudflare Images v1 API. One synchronous round
// trip per operation, no retries, no pagination looping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountID  string
	token      string
}

// NewClient creates an API client scoped to one account.
func NewClient(baseURL, accountID, token string, timeout time.Duration) *Client {
	// Transport tuned for a handful of requests per process run
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		accountID: accountID,
		token:     token,
	}
}

func (c *Client) imagesURL(parts ...string) string {
	u := fmt.Sprintf("%s/accounts/%s/images/v1", c.baseURL, c.accountID)
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

// Upload sends one multipart POST carrying the file plus the optional
// id, signed-URL flag and serialized metadata. The input must already
// have passed local validation; the file handle is held only for the
// duration of the call.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*ImageRecord, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeFilePart(writer, in.FilePath, in.ContentType); err != nil {
		return nil, err
	}
	if in.ID != "" {
		if err := writer.WriteField("id", in.ID); err != nil {
			return nil, apperrors.NewInternalError("failed to build upload request", err)
		}
	}
	if err := writer.WriteField("requireSignedURLs", strconv.FormatBool(in.RequireSignedURLs)); err != nil {
		return nil, apperrors.NewInternalError("failed to build upload request", err)
	}
	if len(in.MetadataJSON) > 0 {
		if err := writer.WriteField("metadata", string(in.MetadataJSON)); err != nil {
			return nil, apperrors.NewInternalError("failed to build upload request", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewInternalError("failed to build upload request", err)
	}

	logger.WithFields(logrus.Fields{
		"file":         in.FilePath,
		"content_type": in.ContentType,
		"custom_id":    in.ID,
	}).Debug("Uploading image")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.imagesURL(), body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, apperrors.NewRemoteError("Upload failed: " + joinAPIErrors(env.Errors))
	}

	var record ImageRecord
	if err := json.Unmarshal(env.Result, &record); err != nil {
		return nil, apperrors.NewInternalError("unexpected upload response shape", err)
	}
	return &record, nil
}

// List fetches one page of stored images. page <= 0 omits the page
// parameter and lets the vendor default apply.
func (c *Client) List(ctx context.Context, limit, page int) (*ImageList, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(limit))
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.imagesURL()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list request", err)
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, apperrors.NewRemoteError("List failed: " + joinAPIErrors(env.Errors))
	}

	var result listResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, apperrors.NewInternalError("unexpected list response shape", err)
	}
	return &ImageList{Images: result.Images, Count: len(result.Images)}, nil
}

// Delete removes one image by id and returns the id as confirmation.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.imagesURL(id), nil)
	if err != nil {
		return "", apperrors.NewInternalError("failed to build delete request", err)
	}

	env, err := c.do(req)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", apperrors.NewRemoteError("Delete failed: " + joinAPIErrors(env.Errors))
	}
	return id, nil
}

// Download streams the original bytes of a stored image. The caller
// owns the returned body.
func (c *Client) Download(ctx context.Context, id string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.imagesURL(id, "blob"), nil)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to build download request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.NewNetworkError("request to Cloudflare failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		// The blob endpoint answers failures with the usual envelope
		var env apiEnvelope
		if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr == nil && len(env.Errors) > 0 {
			return nil, "", apperrors.NewRemoteError("Download failed: " + joinAPIErrors(env.Errors))
		}
		return nil, "", apperrors.NewRemoteError(fmt.Sprintf("Download failed: status code %d", resp.StatusCode))
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// do runs one request and decodes the uniform response envelope.
func (c *Client) do(req *http.Request) (*apiEnvelope, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("request to Cloudflare failed", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, apperrors.NewInternalError(
			fmt.Sprintf("unexpected response from Cloudflare (status %d)", resp.StatusCode), err)
	}
	if !env.Success && len(env.Errors) == 0 {
		// Envelope contract: a failed envelope names its errors
		env.Errors = []apiError{{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}}
	}
	return &env, nil
}

// writeFilePart copies the file into the multipart body with an explicit
// part content type. The handle is closed before the request is sent.
func writeFilePart(writer *multipart.Writer, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	defer file.Close()

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(path)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return apperrors.NewInternalError("failed to build upload request", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return apperrors.NewInternalError("failed to read file for upload", err)
	}
	return nil
}

// joinAPIErrors flattens the vendor's error list into the single
// user-facing failure description.
func joinAPIErrors(errs []apiError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%d: %s", e.Code, e.Message))
	}
	return strings.Join(parts, "; ")
}
