// OMDb [Catalog] implementation
//
// Every lookup is a GET on the API root with the key in the apikey parameter
// and either s=<title> (search) or i=<id> (detail).
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"golang.org/x/time/rate"
)

const defaultOMDbBaseURL string = "https://www.omdbapi.com/"

// omdbEnvelope carries the status fields present on every OMDb response.
type omdbEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e omdbEnvelope) ok() bool {
	return strings.EqualFold(e.Response, "true")
}

type omdbSearchResponse struct {
	omdbEnvelope
	Search       []models.SearchResultItem `json:"Search"`
	TotalResults string                    `json:"totalResults"`
}

type omdbDetailResponse struct {
	omdbEnvelope
	models.MovieDetail
}

// OMDbService implements the [Catalog] interface for the OMDb API.
type OMDbService struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// OMDbOpts contains configuration options for creating an [OMDbService].
type OMDbOpts struct {
	BaseURL    string
	APIKey     string
	RateLimit  float64 // requests per second; 0 disables throttling
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewOMDbService creates a new OMDb catalog client.
func NewOMDbService(opts OMDbOpts) *OMDbService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOMDbBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &OMDbService{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(opts.Logger, "catalog", "omdb"),
	}
}

// Name returns the service name.
func (o *OMDbService) Name() string {
	return "OMDb"
}

// Search looks titles up with the s= parameter.
func (o *OMDbService) Search(ctx context.Context, title string) ([]models.SearchResultItem, error) {
	var resp omdbSearchResponse
	if err := o.doRequest(ctx, url.Values{"s": {title}}, &resp); err != nil {
		return nil, err
	}

	if !resp.ok() || len(resp.Search) == 0 {
		o.logger.Debug("no matches", "query", title, "message", resp.Error)
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, providerMessage(resp.omdbEnvelope))
	}

	o.logger.Debug("search complete", "query", title, "results", len(resp.Search), "total", resp.TotalResults)
	return resp.Search, nil
}

// Detail fetches a single title with the i= parameter.
func (o *OMDbService) Detail(ctx context.Context, id string) (*models.MovieDetail, error) {
	var resp omdbDetailResponse
	if err := o.doRequest(ctx, url.Values{"i": {id}}, &resp); err != nil {
		return nil, err
	}

	if !resp.ok() {
		o.logger.Debug("detail not found", "id", id, "message", resp.Error)
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, providerMessage(resp.omdbEnvelope))
	}

	detail := resp.MovieDetail
	if detail.ID == "" {
		detail.ID = id
	}
	return &detail, nil
}

func (o *OMDbService) doRequest(ctx context.Context, params url.Values, result any) error {
	reqCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if err := o.limiter.Wait(reqCtx); err != nil {
		return o.classify(ctx, "rate limiter", err)
	}

	apiURL, err := o.buildURL(params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return o.classify(ctx, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env omdbEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, env.Error)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return o.classify(ctx, "failed to decode response", err)
	}

	return nil
}

// classify maps a failed call to [shared.ErrCancelled] when the caller's context was cancelled
// and to [shared.ErrAPIRequest] otherwise, timeouts included.
func (o *OMDbService) classify(ctx context.Context, what string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", shared.ErrCancelled, ctx.Err())
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, what, err)
}

// buildURL merges params and the API key into the base URL, keeping any query it already has.
func (o *OMDbService) buildURL(params url.Values) (string, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	if o.apiKey != "" {
		q.Set("apikey", o.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func providerMessage(env omdbEnvelope) string {
	if env.Error == "" {
		return "no results"
	}
	return env.Error
}
