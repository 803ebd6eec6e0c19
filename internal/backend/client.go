// Package backend is the HTTP client for the scene extraction service.
// Every call is a single POST with a JSON body; nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const (
	pathAnalyzeFrames  = "/api/analyze_frames"
	pathAnalyzeVideo   = "/api/analyze"
	pathDownloadVideo  = "/download"
	pathDownloadFrames = "/api/download_frames"

	// Scene responses carry inline JPEGs and archives carry all of them again.
	maxJSONBytes    = 64 << 20
	maxArchiveBytes = 512 << 20
	maxErrorBytes   = 4096
)

type Client interface {
	AnalyzeFrames(ctx context.Context, url string) ([]Frame, error)
	AnalyzeVideo(ctx context.Context, url string) (*VideoInfo, error)
	DownloadVideo(ctx context.Context, url string) (string, error)
	DownloadFrames(ctx context.Context, frames []string) ([]byte, error)
}

// HTTPClient talks to the backend over plain HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient returns a client rooted at baseURL. A zero timeout leaves
// requests bounded only by the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) AnalyzeFrames(ctx context.Context, url string) ([]Frame, error) {
	body, err := c.post(ctx, OpAnalyzeFrames, pathAnalyzeFrames, urlRequest{URL: url}, maxJSONBytes)
	if err != nil {
		return nil, err
	}

	var resp framesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode scene analysis response: %w", err)
	}
	if !resp.Success {
		return nil, newAppError(OpAnalyzeFrames, resp.Error)
	}

	c.logger.Info("scene analysis succeeded", "frame_count", len(resp.Frames))
	return resp.Frames, nil
}

func (c *HTTPClient) AnalyzeVideo(ctx context.Context, url string) (*VideoInfo, error) {
	body, err := c.post(ctx, OpAnalyzeVideo, pathAnalyzeVideo, urlRequest{URL: url}, maxJSONBytes)
	if err != nil {
		return nil, err
	}

	var resp infoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode video info response: %w", err)
	}
	if !resp.Success {
		return nil, newAppError(OpAnalyzeVideo, resp.Error)
	}

	c.logger.Info("video info analysis succeeded", "title", string(resp.Data.Title))
	return &resp.Data, nil
}

// DownloadVideo asks the backend to fetch the video and returns the name it
// was stored under.
func (c *HTTPClient) DownloadVideo(ctx context.Context, url string) (string, error) {
	body, err := c.post(ctx, OpDownloadVideo, pathDownloadVideo, urlRequest{URL: url}, maxJSONBytes)
	if err != nil {
		return "", err
	}

	var resp downloadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode download response: %w", err)
	}
	if !resp.Success {
		return "", newAppError(OpDownloadVideo, resp.Error)
	}

	c.logger.Info("video download succeeded", "file_name", resp.FileName)
	return resp.FileName, nil
}

// DownloadFrames posts the selected frame data and returns the archive bytes
// untouched.
func (c *HTTPClient) DownloadFrames(ctx context.Context, frames []string) ([]byte, error) {
	archive, err := c.post(ctx, OpDownloadFrames, pathDownloadFrames, framesRequest{Frames: frames}, maxArchiveBytes)
	if err != nil {
		return nil, err
	}

	c.logger.Info("scene archive received",
		"frame_count", len(frames),
		"size", humanize.Bytes(uint64(len(archive))),
	)
	return archive, nil
}

func (c *HTTPClient) post(ctx context.Context, op, path string, payload any, limit int64) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", strings.ToLower(op), err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("backend request",
		"path", path,
		"request_id", requestID,
		"body_bytes", len(body),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		c.logger.Warn("backend returned error status",
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
		)
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(respBody)) > limit {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(op), ErrResponseTooLarge)
	}
	return respBody, nil
}
