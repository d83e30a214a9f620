package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// processFilePath is the server's file-processing endpoint. The path is fixed
// by the backend and is not derived from the configured app name.
const processFilePath = "/vehicle_service_logs/api/files/process-file"

// UploadFile POSTs one file as a multipart form (single field "file") to the
// processing endpoint and returns the safely-parsed response body, which may
// be nil when the server sends no JSON back.
func (c *Client) UploadFile(ctx context.Context, name string, r io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("reading upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.uploadTarget+processFilePath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading file: %w", err)
	}
	defer resp.Body.Close()

	if !succeeded(resp) {
		return nil, apiError("uploading file", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}

	result, _ := safeParse(body)
	return result, nil
}
