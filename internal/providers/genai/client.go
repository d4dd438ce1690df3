package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdk "google.golang.org/genai"

	"ouroz/internal/infra"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	apiVersion     = "v1beta"
)

var (
	// ErrMissingAPIKey is returned when no credential was supplied.
	ErrMissingAPIKey = errors.New("genai: api key is required")
	// ErrMalformedAPIKey is returned when the credential cannot be a Gemini key.
	ErrMalformedAPIKey = errors.New("genai: api key is malformed")
)

var apiKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client wraps the Gen AI SDK with a credential validated at construction.
// It satisfies gateway.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	baseHost   string
	httpClient *http.Client
	sdk        *sdk.Client
	logger     *infra.Logger
}

// NewClient validates the credential and builds the SDK client. Callers may
// provide a nil HTTP client; a traced one with a generous timeout is created.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	key, err := ValidateAPIKey(opts.APIKey)
	if err != nil {
		return nil, err
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   5 * time.Minute,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	cfg := &sdk.ClientConfig{
		APIKey:     key,
		Backend:    sdk.BackendGeminiAPI,
		HTTPClient: client,
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cfg.HTTPOptions = sdk.HTTPOptions{BaseURL: baseURL + "/", APIVersion: apiVersion}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("genai: invalid base url %q", baseURL)
	}

	inner, err := sdk.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create sdk client: %w", err)
	}

	return &Client{
		apiKey:     key,
		baseURL:    baseURL,
		baseHost:   parsed.Host,
		httpClient: client,
		sdk:        inner,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// ValidateAPIKey trims surrounding space and checks the key shape.
func ValidateAPIKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	if !apiKeyPattern.MatchString(key) {
		return "", ErrMalformedAPIKey
	}
	return key, nil
}

// GenerateContent issues a single generateContent call.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (*sdk.GenerateContentResponse, error) {
	resp, err := c.sdk.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("genai: generate content (%s): %w", model, err)
	}
	return resp, nil
}

// GenerateVideos submits a long-running video job.
func (c *Client) GenerateVideos(ctx context.Context, model, prompt string, image *sdk.Image, config *sdk.GenerateVideosConfig) (*sdk.GenerateVideosOperation, error) {
	op, err := c.sdk.Models.GenerateVideos(ctx, model, prompt, image, config)
	if err != nil {
		return nil, fmt.Errorf("genai: generate videos (%s): %w", model, err)
	}
	c.logger.Debug().Str("model", model).Str("operation", op.Name).Msg("genai: video job submitted")
	return op, nil
}

// GetVideosOperation refreshes the status of a video job.
func (c *Client) GetVideosOperation(ctx context.Context, op *sdk.GenerateVideosOperation) (*sdk.GenerateVideosOperation, error) {
	next, err := c.sdk.Operations.GetVideosOperation(ctx, op, nil)
	if err != nil {
		return nil, fmt.Errorf("genai: get videos operation: %w", err)
	}
	return next, nil
}

// FetchMedia downloads provider-hosted media such as generated video files.
// Relative URIs are resolved against the versioned API root.
func (c *Client) FetchMedia(ctx context.Context, uri string) ([]byte, string, error) {
	target := strings.TrimSpace(uri)
	if target == "" {
		return nil, "", errors.New("genai: empty media uri")
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + "/" + apiVersion + "/" + strings.TrimLeft(target, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("genai: create download request: %w", err)
	}
	// The key only goes to the provider host; foreign URIs are fetched bare.
	if strings.EqualFold(req.URL.Host, c.baseHost) {
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("genai: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, "", fmt.Errorf("genai: download media status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("genai: read media: %w", err)
	}
	c.logger.Debug().Int("bytes", len(blob)).Msg("genai: media downloaded")
	return blob, resp.Header.Get("Content-Type"), nil
}
