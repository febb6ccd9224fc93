package flutterwave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qrdine/qrdine-backend/internal/providers"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.flutterwave.com/v3"
	responseBodyReadLimit int64 = 1024
)

var errSecretKeyRequired = errors.New("flutterwave secret key is required")

// Client wraps the Flutterwave REST API surface used for gateway discovery.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Flutterwave base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Flutterwave client given a secret key.
func NewClient(secretKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(secretKey)
	if trimmedKey == "" {
		return nil, errSecretKeyRequired
	}

	client := &Client{
		secretKey:  trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// ListBanks fetches the bank directory for a country. Flutterwave addresses
// directories directly by alpha-2 code.
func (c *Client) ListBanks(ctx context.Context, country string) ([]providers.Bank, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}
	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}

	reqURL := fmt.Sprintf("%s/banks/%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(code))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build bank list request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute bank list request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "bank list request failed")
	}

	var apiResp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    []struct {
			Name string `json:"name"`
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode bank list response")
	}
	if apiResp.Status != "success" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("flutterwave: %s", apiResp.Message), "bank list rejected")
	}

	banks := make([]providers.Bank, 0, len(apiResp.Data))
	for _, b := range apiResp.Data {
		banks = append(banks, providers.Bank{
			Name:    b.Name,
			Code:    b.Code,
			Country: code,
		})
	}
	return banks, nil
}
