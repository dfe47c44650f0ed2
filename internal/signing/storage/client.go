// Package storage is the boundary to the remote artifact storage service.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	dErrors "plansign/pkg/domain-errors"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Artifact is the decoded binary representation of a captured signature.
type Artifact struct {
	Data        []byte
	ContentType string
	FileName    string
}

// UploadResult carries the durable reference returned by the collaborator.
type UploadResult struct {
	DownloadURL string `json:"downloadURL"`
}

// Client uploads signature artifacts over an authenticated channel.
type Client interface {
	Upload(ctx context.Context, contractID, fieldID string, artifact Artifact, credential string) (UploadResult, error)
}

// HTTPClient posts multipart bodies to
// POST {base}/contracts/{contractId}/fields/{fieldId}/signature. 2xx responses
// carry {downloadURL}; failures carry a JSON {message} which is surfaced on
// the upload error so callers see the collaborator's reason.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *HTTPClient) Upload(ctx context.Context, contractID, fieldID string, artifact Artifact, credential string) (UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="signature"; filename=%q`, artifact.FileName))
	header.Set("Content-Type", artifact.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to build upload body", err)
	}
	if _, err := part.Write(artifact.Data); err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to build upload body", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to build upload body", err)
	}

	url := fmt.Sprintf("%s/contracts/%s/fields/%s/signature", c.baseURL, contractID, fieldID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeUploadFailed, "signature upload failed: "+err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadResult{}, dErrors.New(dErrors.CodeUploadFailed, uploadFailureMessage(resp))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeUploadFailed, "storage service returned an unreadable response", err)
	}
	if result.DownloadURL == "" {
		return UploadResult{}, dErrors.New(dErrors.CodeUploadFailed, "storage service returned no download URL")
	}
	return result, nil
}

func uploadFailureMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return "signature upload failed: " + payload.Message
	}
	return fmt.Sprintf("signature upload failed with status %d", resp.StatusCode)
}
