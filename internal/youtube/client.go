package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// Provider billing: a search page costs 100 units, a batched channel
	// lookup costs 1 unit per request of up to 50 IDs.
	SearchUnitCost      = 100
	ChannelListUnitCost = 1

	maxIDsPerBatch    = 50
	maxResultsPerPage = 50
	defaultMaxResults = 25

	maxAttempts    = 3
	requestTimeout = 30 * time.Second

	// Description text stored in the registry is capped.
	maxDescriptionLen = 500
)

// hindiSignals are lexical markers used for basic language inference when
// the channel does not declare a country.
var hindiSignals = []string{"india", "bharat", "hindi", "desi"}

// Client wraps the YouTube Data API search and channel-list endpoints
// behind the quota ledger. Every call reserves its unit cost before any
// network traffic.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	ledger  *QuotaLedger
	limiter *rate.Limiter
}

type Option func(*Client)

// WithBaseURL overrides the API base URL (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(apiKey string, ledger *QuotaLedger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		ledger:  ledger,
		// Gentle pacing of outbound calls; the quota ledger is the real
		// gate, this just avoids bursts.
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ledger exposes the quota ledger for status reporting.
func (c *Client) Ledger() *QuotaLedger {
	return c.ledger
}

// QuotaUsed returns the units consumed in the current daily window.
func (c *Client) QuotaUsed() int {
	return c.ledger.Used()
}

// Search returns one page of channel IDs for a query. Costs 100 units.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	if c.apiKey == "" {
		return nil, &APIError{Reason: "configuration", Message: "YouTube API key not configured"}
	}
	if err := c.ledger.Reserve(SearchUnitCost); err != nil {
		return nil, err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxResultsPerPage {
		maxResults = maxResultsPerPage
	}

	params := url.Values{
		"part":       {"snippet"},
		"q":          {req.Query},
		"type":       {"channel"},
		"order":      {"relevance"},
		"maxResults": {strconv.Itoa(maxResults)},
		"key":        {c.apiKey},
	}
	if req.RegionCode != "" {
		params.Set("regionCode", req.RegionCode)
	}
	if req.PageToken != "" {
		params.Set("pageToken", req.PageToken)
	}

	var resp searchResponse
	if err := c.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	page := &SearchPage{
		NextPageToken: resp.NextPageToken,
		TotalResults:  resp.PageInfo.TotalResults,
	}
	for _, item := range resp.Items {
		id := item.ID.ChannelID
		if id == "" {
			id = item.Snippet.ChannelID
		}
		if id != "" {
			page.ChannelIDs = append(page.ChannelIDs, id)
		}
	}
	return page, nil
}

// ChannelDetails fetches snippet, statistics and branding for the given
// channel IDs, batching 50 per request at 1 unit each.
func (c *Client) ChannelDetails(ctx context.Context, ids []string) ([]model.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if c.apiKey == "" {
		return nil, &APIError{Reason: "configuration", Message: "YouTube API key not configured"}
	}

	var candidates []model.Candidate
	for start := 0; start < len(ids); start += maxIDsPerBatch {
		end := start + maxIDsPerBatch
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		if err := c.ledger.Reserve(ChannelListUnitCost); err != nil {
			return candidates, err
		}

		params := url.Values{
			"part": {"snippet,statistics,brandingSettings"},
			"id":   {strings.Join(batch, ",")},
			"key":  {c.apiKey},
		}

		var resp channelListResponse
		if err := c.getJSON(ctx, "/channels", params, &resp); err != nil {
			return candidates, err
		}

		for _, item := range resp.Items {
			if item.ID == "" {
				continue
			}
			candidates = append(candidates, parseCandidate(item))
		}
	}
	return candidates, nil
}

// getJSON performs the request with bounded exponential backoff. Transport
// errors and 5xx are retried; rate-limit and quota-denied responses pin the
// ledger and surface ErrQuotaExhausted; other 4xx are returned immediately
// as *APIError. Exhausted retries escalate to *APIError.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	operation := func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case isQuotaDenied(resp.StatusCode, body):
			c.ledger.MarkExhausted()
			return nil, backoff.Permanent(ErrQuotaExhausted)
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		default:
			reason, msg := parseErrorBody(body)
			return nil, backoff.Permanent(&APIError{
				StatusCode: resp.StatusCode,
				Reason:     reason,
				Message:    msg,
			})
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	body, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(maxAttempts))
	if err != nil {
		if errors.Is(err, ErrQuotaExhausted) {
			return err
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return err
		}
		return &APIError{Reason: "unavailable", Message: err.Error()}
	}

	return json.Unmarshal(body, v)
}

// isQuotaDenied recognizes both plain 429 and the provider's 403 with a
// quota reason in the error body.
func isQuotaDenied(status int, body []byte) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status != http.StatusForbidden {
		return false
	}
	reason, _ := parseErrorBody(body)
	return reason == "quotaExceeded" || reason == "dailyLimitExceeded" || reason == "rateLimitExceeded"
}

func parseErrorBody(body []byte) (reason, message string) {
	var er apiErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return "", string(body)
	}
	if len(er.Error.Errors) > 0 {
		reason = er.Error.Errors[0].Reason
	}
	return reason, er.Error.Message
}

func parseCandidate(item channelItem) model.Candidate {
	country := strings.ToUpper(item.Snippet.Country)
	if country == "" {
		country = strings.ToUpper(item.BrandingSettings.Channel.Country)
	}

	description := truncateDescription(item.Snippet.Description)

	thumb := item.Snippet.Thumbnails.Medium.URL
	if thumb == "" {
		thumb = item.Snippet.Thumbnails.Default.URL
	}

	return model.Candidate{
		ChannelID:         item.ID,
		Title:             item.Snippet.Title,
		Description:       description,
		CustomURL:         item.Snippet.CustomURL,
		Country:           country,
		Language:          inferLanguage(country, item.Snippet.Title),
		Subscribers:       parseCount(item.Statistics.SubscriberCount),
		SubscribersHidden: item.Statistics.HiddenSubscriberCount,
		TotalViews:        parseCount(item.Statistics.ViewCount),
		VideoCount:        parseCount(item.Statistics.VideoCount),
		ThumbnailURL:      thumb,
	}
}

// truncateDescription caps the stored description, backing off to a rune
// boundary so a multi-byte character is never split.
func truncateDescription(s string) string {
	if len(s) <= maxDescriptionLen {
		return s
	}
	cut := maxDescriptionLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// parseCount tolerates missing or malformed statistics strings.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func inferLanguage(country, title string) string {
	if country == "IN" {
		return "hindi"
	}
	lower := strings.ToLower(title)
	for _, signal := range hindiSignals {
		if strings.Contains(lower, signal) {
			return "hindi"
		}
	}
	return "english"
}
