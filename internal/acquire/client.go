// Package acquire talks to the analytics backend. Each call performs exactly
// one request and returns either a validated payload or an error.
package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/medview/internal/analytics"
	"github.com/abelbrown/medview/internal/staging"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// Flow names one of the three acquisition paths.
type Flow string

const (
	FlowUpload Flow = "upload"
	FlowRemote Flow = "remote"
	FlowSample Flow = "sample"
)

// Fallback returns the generic message used when the backend gives no
// readable error.
func (f Flow) Fallback() string {
	switch f {
	case FlowUpload:
		return "Error uploading files"
	case FlowRemote:
		return "Error fetching API data"
	case FlowSample:
		return "Error getting sample data"
	}
	return "Error loading data"
}

// Error is an application-level failure: the backend answered with a
// non-2xx status.
type Error struct {
	Flow    Flow
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client performs the backend calls.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for baseURL. A zero timeout leaves it to the
// transport; minInterval spaces consecutive requests.
func NewClient(baseURL string, timeout, minInterval time.Duration) *Client {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload posts the staged files as multipart fields named "files".
func (c *Client) Upload(ctx context.Context, files []staging.StagedFile) (*analytics.Payload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		if err := addFile(mw, f); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(ctx, req, FlowUpload)
}

func addFile(mw *multipart.Writer, f staging.StagedFile) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile("files", f.Name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	return nil
}

// FetchRemote asks the backend to pull statistics for period from the
// remote API.
func (c *Client) FetchRemote(ctx context.Context, period string) (*analytics.Payload, error) {
	body, err := json.Marshal(struct {
		Period string `json:"period"`
	}{period})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fetch-api-data", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, FlowRemote)
}

// Sample loads the backend's canned dataset.
func (c *Client) Sample(ctx context.Context) (*analytics.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sample", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, req, FlowSample)
}

// do sends req once. Transport failures come back wrapped, non-2xx as
// *Error, and a 2xx body that breaks the payload contract as
// analytics.ErrMissingField.
func (c *Client) do(ctx context.Context, req *http.Request, flow Flow) (*analytics.Payload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Flow: flow, Status: resp.StatusCode, Message: errorMessage(body, flow)}
	}

	return analytics.DecodeBytes(body)
}

// errorMessage extracts {"error": "..."} from a failure body.
func errorMessage(body []byte, flow Flow) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || strings.TrimSpace(e.Error) == "" {
		return flow.Fallback()
	}
	return e.Error
}
