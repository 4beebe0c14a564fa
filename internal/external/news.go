// Package external provides clients for third-party APIs.
package external

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

const (
	newsAPIBaseURL   = "https://newsapi.org/v2"
	newsDefaultQuery = "NBA"
	newsPageSize     = 10
	newsAPITimeout   = 15 * time.Second

	// Outbound budget. Cached responses absorb most traffic; this only
	// bounds bursts of distinct queries.
	newsRequestsPerMinute = 30
	newsBurst             = 5
)

// ErrNewsNotConfigured is returned when no NewsAPI key is set.
var ErrNewsNotConfigured = errors.New("NewsAPI not configured")

// NewsService fetches league headlines from NewsAPI.
type NewsService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNewsService creates a news service. apiKey may be empty.
func NewNewsService(apiKey string) *NewsService {
	return &NewsService{
		apiKey:     apiKey,
		baseURL:    newsAPIBaseURL,
		httpClient: &http.Client{Timeout: newsAPITimeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(newsRequestsPerMinute)/60.0), newsBurst),
	}
}

// HasNewsAPI reports whether a NewsAPI key is configured.
func (s *NewsService) HasNewsAPI() bool { return s.apiKey != "" }

// newsAPIStatus is the part of a NewsAPI response checked before passing
// the body through.
type newsAPIStatus struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Latest returns the newest English articles for query ("NBA" when empty)
// as the raw NewsAPI JSON body.
func (s *NewsService) Latest(ctx context.Context, query string) ([]byte, error) {
	if !s.HasNewsAPI() {
		return nil, ErrNewsNotConfigured
	}
	if query == "" {
		query = newsDefaultQuery
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "NewsAPI rate limit wait")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(newsPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build NewsAPI request")
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "NewsAPI request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, errors.Wrap(err, "read NewsAPI response")
	}

	var status newsAPIStatus
	if err := sonic.Unmarshal(body, &status); err != nil {
		return nil, errors.Wrapf(err, "decode NewsAPI response (%d): %s", resp.StatusCode, truncate(body, 200))
	}
	if status.Status != "ok" {
		return nil, errors.Newf("NewsAPI error (%d %s): %s", resp.StatusCode, status.Code, status.Message)
	}
	return body, nil
}

// truncate shortens a response body for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
