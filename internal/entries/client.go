package entries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TokenSource provides the bearer token attached to every entries request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// APIError is returned for any non 2xx response. Message holds the best
// effort error text extracted from the response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("entries api: status %d", e.StatusCode)
	}
	return e.Message
}

type CreateResponse struct {
	ID string `json:"id"`
}

// Client is a thin wrapper over the entries collection resource:
//
//	GET    /entries/{userId}?type={type}
//	POST   /entries/{userId}
//	DELETE /entries/{userId}/{entryId}
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

func (c *Client) List(ctx context.Context, userID string, kind Kind) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "entriesClient.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("type", kind.String()))

	if !kind.IsValid() {
		return nil, fmt.Errorf("list entries: %w: unknown type [%s]", ErrInvalidEntry, kind)
	}

	reqURL := fmt.Sprintf("%s?type=%s", c.entriesPath(userID), url.QueryEscape(kind.String()))
	respBytes, err := c.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", kind, err)
	}

	entries := make([]Entry, 0)
	if err := json.Unmarshal(respBytes, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal %s entries: %w", kind, err)
	}

	log.Tracef("entries client: fetched %d %s entries", len(entries), kind)
	return entries, nil
}

// Create posts the entry (without id) and returns the server assigned id.
func (c *Client) Create(ctx context.Context, userID string, entry Entry) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "entriesClient.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("type", entry.Kind().String()))

	entry.ID = ""
	body, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	respBytes, err := c.do(ctx, http.MethodPost, c.entriesPath(userID), body)
	if err != nil {
		return "", fmt.Errorf("create %s entry: %w", entry.Kind(), err)
	}

	var createResp CreateResponse
	if err := json.Unmarshal(respBytes, &createResp); err != nil {
		return "", fmt.Errorf("unmarshal create response: %w", err)
	}
	if createResp.ID == "" {
		return "", errors.New("create entry: server returned no id")
	}

	return createResp.ID, nil
}

func (c *Client) Delete(ctx context.Context, userID, entryID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "entriesClient.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	reqURL := fmt.Sprintf("%s/%s", c.entriesPath(userID), url.PathEscape(entryID))
	if _, err := c.do(ctx, http.MethodDelete, reqURL, nil); err != nil {
		return fmt.Errorf("delete entry %s: %w", entryID, err)
	}
	return nil
}

func (c *Client) entriesPath(userID string) string {
	return fmt.Sprintf("%s/entries/%s", c.baseURL, url.PathEscape(userID))
}

func (c *Client) do(ctx context.Context, method, reqURL string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", pkg.ContentType.JSON)
	}
	req.Header.Set("Accept", pkg.ContentType.JSON)

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("get access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBytes),
		}
	}

	return respBytes, nil
}

// extractErrorMessage digs the error text out of {"error": ...} or
// {"message": ...} bodies, falling back to the raw body text.
func extractErrorMessage(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return strings.TrimSpace(string(body))
}
