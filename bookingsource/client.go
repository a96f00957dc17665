package bookingsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const breakerName = "booking-source-api"

// Client looks up item metadata in the booking source API. Calls are rate
// limited and pass through a circuit breaker so an outage fails fast.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[string]
}

func NewClient(cfg config.BookingSourceConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	key, secret := cfg.GetBookingSourceCredentials()
	perSecond, burst := cfg.GetBookingSourceRateLimit()

	return &Client{
		baseURL:    strings.TrimRight(cfg.GetBookingSourceBaseURL(), "/"),
		apiKey:     key,
		apiSecret:  secret,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A missing item is an answer, not an outage.
			IsSuccessful: func(err error) bool {
				var reqErr *RequestError
				return err == nil || (errors.As(err, &reqErr) && reqErr.Status < http.StatusInternalServerError)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
			},
		}),
	}
}

// RequestError is an unexpected status from the booking source API.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("booking source: %d: %s", e.Status, e.Body)
}

type itemResponse struct {
	Item struct {
		Name string `json:"name"`
	} `json:"item"`
}

// ItemName returns the display name of an item.
func (c *Client) ItemName(ctx context.Context, itemID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrapf(err, "booking source rate limit")
	}

	name, err := c.breaker.Execute(func() (string, error) {
		return c.fetchItemName(ctx, itemID)
	})
	metrics.RecordItemLookup(err)
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up item %s", itemID)
	}
	return name, nil
}

func (c *Client) fetchItemName(ctx context.Context, itemID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/item/"+url.PathEscape(itemID), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewTransportError("booking source item", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.NewTransportError("booking source item", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &RequestError{Status: resp.StatusCode, Body: string(body)}
	}

	var decoded itemResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode item response: %w", err)
	}
	return decoded.Item.Name, nil
}
