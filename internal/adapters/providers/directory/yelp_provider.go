package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	yelpBaseURL        = "https://api.yelp.com"
	yelpSearchPath     = "/v3/businesses/search"
	defaultHTTPTimeout = 10 * time.Second
)

// YelpProvider implements DirectoryProvider against the Yelp Fusion business search API.
type YelpProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type yelpSearchResponse struct {
	Businesses []*entities.Business `json:"businesses"`
	Total      int                  `json:"total"`
}

// NewYelpProvider creates a Yelp provider limited to requestsPerSecond calls.
// A non-positive rate disables limiting.
func NewYelpProvider(apiKey string, requestsPerSecond float64) *YelpProvider {
	return NewYelpProviderWithOptions(apiKey, yelpBaseURL, nil, requestsPerSecond)
}

// NewYelpProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewYelpProviderWithOptions(apiKey, baseURL string, httpClient *http.Client, requestsPerSecond float64) *YelpProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = yelpBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &YelpProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

var _ providers.DirectoryProvider = (*YelpProvider)(nil)

// Search fetches one page of businesses. Any transport failure or non-2xx
// status is returned as an EXTERNAL error.
func (p *YelpProvider) Search(ctx context.Context, query providers.DirectoryQuery) ([]*entities.Business, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("term", query.Term)
	params.Set("location", query.Location)
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("offset", strconv.Itoa(query.Offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+yelpSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create directory request", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("directory request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read directory response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("directory API error (status %d)", resp.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(body))),
		)
	}

	var out yelpSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperrors.NewExternalError("failed to decode directory response", err)
	}

	return out.Businesses, nil
}
