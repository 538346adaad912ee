// Package feedback uploads a finished recording and its face analysis to the
// remote speech-feedback service.
package feedback

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/teslashibe/go-speakviz/internal/httpc"
	"github.com/teslashibe/go-speakviz/pkg/spread"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Form field names expected by the feedback service.
const (
	FieldFile         = "file"
	FieldContext      = "context"
	FieldFaceAnalysis = "face_analysis"
)

// DefaultFilename is used when an upload does not name its video.
const DefaultFilename = "recording.webm"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

// Upload is one recording submitted for feedback.
type Upload struct {
	Video    io.Reader
	Filename string
	Context  SpeakingContext

	// Report is optional; its text rendering is sent as the face analysis.
	Report *spread.Report
}

// Response is the feedback service reply.
type Response struct {
	Analysis        map[string]any `json:"analysis"`
	Feedback        string         `json:"feedback"`
	Recommendations string         `json:"recommendations"`
}

// Client talks to the feedback service.
type Client struct {
	url  string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client that posts to url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{url: url, http: httpc.Client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit uploads the recording and returns the service's feedback.
func (c *Client) Submit(ctx context.Context, up Upload) (*Response, error) {
	if up.Video == nil {
		return nil, ErrNoVideo
	}
	if up.Context == "" {
		up.Context = General
	}
	if !up.Context.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContext, up.Context)
	}
	if up.Filename == "" {
		up.Filename = DefaultFilename
	}

	// Stream the form so large videos are never held in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, up))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("feedback: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("feedback: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("feedback: decode response: %w", err)
	}
	return &out, nil
}

func writeForm(mw *multipart.Writer, up Upload) error {
	fw, err := mw.CreateFormFile(FieldFile, up.Filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, up.Video); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}
	if err := mw.WriteField(FieldContext, string(up.Context)); err != nil {
		return err
	}
	if up.Report != nil {
		if err := mw.WriteField(FieldFaceAnalysis, up.Report.Text()); err != nil {
			return err
		}
	}
	return mw.Close()
}
