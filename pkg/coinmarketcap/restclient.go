package coinmarketcap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cryptoticker/internal/ticker"
)

// DefaultBaseURL is the v1 ticker endpoint; asset ids are appended verbatim.
const DefaultBaseURL = "https://api.coinmarketcap.com/v1/ticker/"

// UserAgent is sent with every request. Overridden at build time by cmd.
var UserAgent = "cryptoticker/dev"

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTClient targets DefaultBaseURL when baseURL is empty.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			// one request per asset per pass; connections are not reused across passes
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
	}
}

// GetTicker fetches the current snapshot for a single asset id.
// The API answers with a one-element array; only the first element is used.
func (c *RESTClient) GetTicker(ctx context.Context, id string) (*ticker.Currency, error) {
	endpoint := c.baseURL + id

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, ticker.NewTransportError(id, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	// Execute the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ticker.NewTransportError(id, fmt.Errorf("making request: %w", err))
	}
	defer resp.Body.Close()

	// Any non-2xx means the id is unknown to the API
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ticker.NewNotFoundError(id, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ticker.NewTransportError(id, fmt.Errorf("reading body: %w", err))
	}

	return DecodeTicker(id, body)
}

// DecodeTicker parses a ticker response body and returns its first element.
func DecodeTicker(id string, body []byte) (*ticker.Currency, error) {
	var list []ticker.Currency
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, ticker.NewDecodeError(id, "", fmt.Errorf("decode response: %w", err))
	}
	if len(list) == 0 {
		return nil, ticker.NewDecodeError(id, "", errors.New("empty ticker list"))
	}
	return &list[0], nil
}
