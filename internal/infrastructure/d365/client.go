package d365

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/application/importer"
	"github.com/commercehub/catalog-sync/internal/application/pricing"
)

// maxResponseSize is the maximum allowed response size from the OData API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// tokenExpirySlack is subtracted from the reported token lifetime so a token
// is never presented moments before it lapses.
const tokenExpirySlack = 30 * time.Second

// Client talks to the Dynamics 365 OData endpoints. It caches the OAuth
// client-credentials token until expiry and drops it on any 401 so the next
// call re-authenticates.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// FetchCategories loads the retail category hierarchy rows.
func (c *Client) FetchCategories(ctx context.Context) ([]importer.Record, error) {
	return c.fetchCollection(ctx, c.config.CategoriesPath, "categories")
}

// FetchProducts loads the released product rows.
func (c *Client) FetchProducts(ctx context.Context) ([]importer.Record, error) {
	return c.fetchCollection(ctx, c.config.ProductsPath, "products")
}

// FetchProductCategoryAssignments loads the product/category assignment rows.
func (c *Client) FetchProductCategoryAssignments(ctx context.Context) ([]importer.Record, error) {
	return c.fetchCollection(ctx, c.config.AssignmentsPath, "product category assignments")
}

// GetCustomerPrice asks the source for the current sales price of one item.
// The endpoint answers with a bare decimal.
func (c *Client) GetCustomerPrice(ctx context.Context, itemNumber string, quantity decimal.Decimal) (decimal.Decimal, error) {
	request := map[string]string{
		"custAccount": c.config.CustomerAccount,
		"itemId":      itemNumber,
		"qty":         strconv.FormatInt(quantity.IntPart(), 10),
	}

	body, err := c.postJSON(ctx, c.config.PricePath, request)
	if err != nil {
		return decimal.Zero, err
	}

	raw := strings.Trim(strings.TrimSpace(string(body)), `"`)
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("d365: unable to get price for item %q, response is %q", itemNumber, raw)
	}
	return price, nil
}

// fetchCollection fetches one OData collection and flattens each row to a
// string-valued record. An empty collection is an error: the import must
// never mistake a broken feed for an empty catalog.
func (c *Client) fetchCollection(ctx context.Context, path, what string) ([]importer.Record, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Value []map[string]any `json:"value"`
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("d365: failed to parse %s response: %w", what, err)
	}

	if len(envelope.Value) == 0 {
		return nil, fmt.Errorf("d365: no %s returned", what)
	}

	records := make([]importer.Record, 0, len(envelope.Value))
	for _, row := range envelope.Value {
		record := make(importer.Record, len(row))
		for key, value := range row {
			record[key] = stringifyField(value)
		}
		records = append(records, record)
	}

	c.logger.Debug("fetched collection", zap.String("collection", what), zap.Int("rows", len(records)))
	return records, nil
}

func stringifyField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("d365: failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("d365: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("d365: request to %q failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("d365: failed to read response from %q: %w", endpoint, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
		return nil, fmt.Errorf("d365: request to %q was rejected with HTTP 401", endpoint)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("d365: request to %q failed with HTTP %d", endpoint, resp.StatusCode)
	}

	return respBody, nil
}

// bearerToken returns the cached token, requesting a new one when none is
// held or the held one is about to expire.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)
	form.Set("resource", c.config.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("d365: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("d365: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("d365: failed to read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("d365: token endpoint answered HTTP %d", resp.StatusCode)
	}

	var tokenResponse struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   json.Number `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return "", fmt.Errorf("d365: failed to parse token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("d365: token response carries no access token")
	}

	lifetime := time.Hour
	if seconds, err := tokenResponse.ExpiresIn.Int64(); err == nil && seconds > 0 {
		lifetime = time.Duration(seconds) * time.Second
	}

	c.token = tokenResponse.AccessToken
	c.tokenExpiry = time.Now().Add(lifetime - tokenExpirySlack)
	c.logger.Debug("acquired bearer token", zap.Time("expires_at", c.tokenExpiry))

	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// Ensure Client implements the source contracts
var _ importer.Source = (*Client)(nil)
var _ pricing.PriceSource = (*Client)(nil)
