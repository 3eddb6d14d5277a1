package httpx

import (
	"context"
	"time"

	"github.com/clubbravado/fightfeed/internal/shared/errors"
	"github.com/go-resty/resty/v2"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// PageFetcher downloads a document body as text.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// Client is a PageFetcher backed by resty. All requests share one outbound limiter.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewClient builds a client sending userAgent on every request.
// rps <= 0 disables rate limiting.
func NewClient(userAgent string, rps float64) *Client {
	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Client{
		client:  client,
		limiter: newLimiter(rps),
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
}

// FetchPage GETs url and returns the body. Transport errors, timeouts and
// non-2xx statuses are all reported as errors.
func (c *Client) FetchPage(ctx context.Context, url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", oops.With("url", url).Wrap(err)
	}

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", oops.With("url", url).Wrap(err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", oops.With("url", url, "status", resp.StatusCode()).Wrap(errors.ErrUnexpectedStatus)
	}

	return resp.String(), nil
}
