// Package nocodb is a client for the NocoDB v3 records API. The portal uses
// NocoDB as its external tabular store: session records for the access gate
// and the organizations table behind the portfolio page.
package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/darkmatter-vc/portal/internal/cache"
	internalerrors "github.com/darkmatter-vc/portal/internal/errors"
)

// CacheTTL bounds how long read responses are reused before refetching.
const CacheTTL = 5 * time.Minute

// Config holds the connection settings for a NocoDB base.
type Config struct {
	APIKey  string
	BaseURL string
	BaseID  string
}

// Record is one row of a NocoDB table.
type Record[T any] struct {
	ID     int `json:"id"`
	Fields T   `json:"fields"`
}

// Response is a page of records from the v3 list endpoint.
type Response[T any] struct {
	Records    []Record[T] `json:"records"`
	NestedNext *string     `json:"nestedNext,omitempty"`
}

// SortParam is one sort criterion in v3 API format.
type SortParam struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// QueryParams narrows a record listing.
type QueryParams struct {
	Where  string      // filter conditions in NocoDB where syntax
	Limit  int         // number of records to fetch (default 25, max 1000)
	Offset int         // pagination offset
	Sort   []SortParam // sort order
	Fields []string    // specific fields to include
}

// Client talks to one NocoDB base. Read responses pass through the injected
// TTL cache; any write clears it to keep subsequent reads fresh.
type Client struct {
	apiKey     string
	baseURL    string
	baseID     string
	httpClient *http.Client
	cache      *cache.Cache[[]byte]
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client (primarily for testing)
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the configured base using the given
// response cache.
func NewClient(cfg Config, responseCache *cache.Cache[[]byte], options ...ClientOption) *Client {
	if cfg.APIKey == "" {
		log.Warn().Msg("nocodb API key not configured")
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		baseID:     cfg.BaseID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      responseCache,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ClearCache drops all cached read responses.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

type apiRequest struct {
	method      string
	path        string
	queryParams map[string]string
	reqBodyObj  interface{}
	successCode int
	respObj     interface{}
}

func (c *Client) executeAPIRequest(ctx context.Context, apiReq apiRequest) error {
	if !c.Configured() {
		return internalerrors.ErrStoreNotConfigured
	}

	var reqBodyReader io.Reader
	if apiReq.reqBodyObj != nil {
		reqBodyBytes, err := json.Marshal(apiReq.reqBodyObj)
		if err != nil {
			return errors.Wrap(err, "error marshaling request body")
		}
		reqBodyReader = bytes.NewBuffer(reqBodyBytes)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		apiReq.method,
		fmt.Sprintf("%s/%s", c.baseURL, apiReq.path),
		reqBodyReader,
	)
	if err != nil {
		return errors.Wrapf(err, "error creating request %s %s", apiReq.method, apiReq.path)
	}
	if len(apiReq.queryParams) > 0 {
		q := req.URL.Query()
		for k, v := range apiReq.queryParams {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xc-token", c.apiKey)
	if apiReq.reqBodyObj != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "error invoking nocodb API")
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "error reading response body")
	}

	successCode := apiReq.successCode
	if successCode == 0 {
		successCode = http.StatusOK
	}
	if resp.StatusCode != successCode {
		log.Error().Int("status", resp.StatusCode).Str("path", apiReq.path).
			Str("body", string(respBodyBytes)).Msg("nocodb API error")
		return errors.Errorf("nocodb API error: %d %s", resp.StatusCode, resp.Status)
	}

	if apiReq.respObj != nil {
		if err := json.Unmarshal(respBodyBytes, apiReq.respObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

func recordsPath(baseID, tableID string) string {
	return fmt.Sprintf("api/v3/data/%s/%s/records", baseID, tableID)
}

// FetchRecords lists records from a table. Responses are cached per
// table+params for CacheTTL.
func FetchRecords[T any](ctx context.Context, c *Client, tableID string, params QueryParams) (Response[T], error) {
	var response Response[T]

	cacheKey := fmt.Sprintf("%s:%+v", tableID, params)
	if cached, ok := c.cache.Get(cacheKey); ok {
		if err := json.Unmarshal(cached, &response); err == nil {
			return response, nil
		}
	}

	queryParams := map[string]string{}
	if params.Limit > 0 {
		queryParams["limit"] = fmt.Sprintf("%d", params.Limit)
	}
	if params.Offset > 0 {
		queryParams["offset"] = fmt.Sprintf("%d", params.Offset)
	}
	if params.Where != "" {
		queryParams["where"] = params.Where
	}
	if len(params.Sort) > 0 {
		// v3 API requires JSON array format for sort
		sortJSON, err := json.Marshal(params.Sort)
		if err != nil {
			return response, errors.Wrap(err, "error marshaling sort params")
		}
		queryParams["sort"] = string(sortJSON)
	}
	if len(params.Fields) > 0 {
		queryParams["fields"] = strings.Join(params.Fields, ",")
	}

	var raw json.RawMessage
	if err := c.executeAPIRequest(ctx, apiRequest{
		method:      http.MethodGet,
		path:        recordsPath(c.baseID, tableID),
		queryParams: queryParams,
		respObj:     &raw,
	}); err != nil {
		return response, errors.Wrapf(err, "fetch records from %s", tableID)
	}

	if err := json.Unmarshal(raw, &response); err != nil {
		return response, errors.Wrap(err, "error unmarshaling records")
	}

	c.cache.Set(cacheKey, []byte(raw))
	return response, nil
}

// FetchAllRecords lists every record in a table, following pagination.
func FetchAllRecords[T any](ctx context.Context, c *Client, tableID string, params QueryParams) ([]Record[T], error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	var all []Record[T]
	offset := 0
	for {
		params.Limit = limit
		params.Offset = offset
		page, err := FetchRecords[T](ctx, c, tableID, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if len(page.Records) < limit {
			return all, nil
		}
		offset += limit
	}
}

// CreateRecord inserts one row and returns it with its assigned ID. The read
// cache is cleared so later lookups see the new record.
func CreateRecord[T any](ctx context.Context, c *Client, tableID string, fields T) (Record[T], error) {
	var response Response[T]
	if err := c.executeAPIRequest(ctx, apiRequest{
		method:     http.MethodPost,
		path:       recordsPath(c.baseID, tableID),
		reqBodyObj: []T{fields},
		respObj:    &response,
	}); err != nil {
		return Record[T]{}, errors.Wrapf(err, "create record in %s", tableID)
	}

	c.cache.Clear()

	if len(response.Records) == 0 {
		return Record[T]{}, errors.Errorf("create record in %s: empty response", tableID)
	}
	return response.Records[0], nil
}

// UpdateRecords patches fields on existing rows, addressed by ID. The read
// cache is cleared.
func UpdateRecords(ctx context.Context, c *Client, tableID string, updates []map[string]interface{}) error {
	if err := c.executeAPIRequest(ctx, apiRequest{
		method:     http.MethodPatch,
		path:       recordsPath(c.baseID, tableID),
		reqBodyObj: updates,
	}); err != nil {
		return errors.Wrapf(err, "update records in %s", tableID)
	}
	c.cache.Clear()
	return nil
}
