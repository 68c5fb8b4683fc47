package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benmeehan/fleetops/pkg/file"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is read looking for a message.
const maxErrorBody = 64 << 10

// CredentialProvider yields the Authorization header value for the current session.
// Implementations may clear an expired session as a side effect.
type CredentialProvider interface {
	AuthHeader() (string, bool)
}

// RequestOptions describes one call made through Client.Request.
type RequestOptions struct {
	Method  string
	Body    any // nil, *file.MultipartForm, json.RawMessage or any JSON-encodable value
	Headers map[string]string
}

// Client is the HTTP core shared by every endpoint method.
type Client struct {
	httpClient  *http.Client
	resolver    BaseURLResolver
	credentials CredentialProvider
	fileOps     file.FileOperations
	rules       []ClassificationRule
	logger      zerolog.Logger
}

// NewClient creates a Client. A nil httpClient gets a client with DefaultTimeout;
// nil credentials send every request unauthenticated.
func NewClient(httpClient *http.Client, resolver BaseURLResolver, credentials CredentialProvider,
	fileOps file.FileOperations, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		httpClient:  httpClient,
		resolver:    resolver,
		credentials: credentials,
		fileOps:     fileOps,
		rules:       DefaultRules,
		logger:      logger,
	}
}

// SetClassificationRules replaces the error classification rules.
func (c *Client) SetClassificationRules(rules []ClassificationRule) {
	c.rules = rules
}

func (c *Client) authHeader() (string, bool) {
	if c.credentials == nil {
		return "", false
	}
	return c.credentials.AuthHeader()
}

// buildHeaders merges, later wins: JSON content type, Authorization, caller headers.
// Multipart bodies drop the JSON default and carry their own boundary content type.
func (c *Client) buildHeaders(body any, caller map[string]string) http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	if form, ok := body.(*file.MultipartForm); ok {
		headers.Del("Content-Type")
		headers.Set("Content-Type", form.ContentType)
	}

	if value, ok := c.authHeader(); ok {
		headers.Set("Authorization", value)
	}

	for key, value := range caller {
		headers.Set(key, value)
	}

	if headers.Get("X-Request-ID") == "" {
		headers.Set("X-Request-ID", uuid.New().String())
	}
	return headers
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case *file.MultipartForm:
		return bytes.NewReader(b.Body), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(encoded), nil
	}
}

// Request performs one call and always resolves to an envelope; it never returns an error.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) Envelope[json.RawMessage] {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	url := c.resolver.ResolveBaseURL(endpoint) + endpoint

	reader, err := encodeBody(opts.Body)
	if err != nil {
		return c.fail(err, "", method, url)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return c.fail(err, "", method, url)
	}
	req.Header = c.buildHeaders(opts.Body, opts.Headers)

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("Dispatching request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(err, "", method, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := errorMessage(body)
		if message == "" {
			message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return c.fail(nil, message, method, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(err, "", method, url)
	}

	env, err := normalizeBody(body)
	if err != nil {
		return c.fail(err, "", method, url)
	}
	return env
}

func (c *Client) fail(err error, message, method, url string) Envelope[json.RawMessage] {
	classified := Classify(c.rules, err, message)
	event := c.logger.Warn().Str("method", method).Str("url", url)
	if err != nil {
		event = event.Err(err)
	} else {
		event = event.Str("backend_error", message)
	}
	event.Str("error_message", classified).Msg("Request failed")
	return Failed[json.RawMessage](classified)
}

// FetchProtected fetches a URL outside the endpoint routing (signed file links)
// with only the Authorization header. Unlike Request it returns errors, so
// callers can tell a missing file apart from a missing session. The caller
// closes the response body.
func (c *Client) FetchProtected(ctx context.Context, url string) (*http.Response, error) {
	value, ok := c.authHeader()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Authorization", value)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}
	return resp, nil
}

// DownloadProtected streams a protected file to outputPath and returns the bytes written.
func (c *Client) DownloadProtected(ctx context.Context, url, outputPath string) (int64, error) {
	resp, err := c.FetchProtected(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := c.fileOps.WriteStream(outputPath, resp.Body)
	if err != nil {
		return n, err
	}

	c.logger.Info().Str("url", url).Str("path", outputPath).Int64("bytes", n).Msg("Protected file downloaded")
	return n, nil
}
