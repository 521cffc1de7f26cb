package restyutil

import (
	"time"

	"github.com/go-resty/resty/v2"
)

type RetryOptions struct {
	// total attempts, including the first one
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultRetry = RetryOptions{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	MaxDelay:    time.Second * 30,
}

// NewClient builds a resty client with bounded exponential backoff.
// 4xx responses are never retried, only 5xx and transport errors are.
func NewClient(userAgent string, opts RetryOptions) *resty.Client {
	if opts.MaxAttempts < 1 {
		opts = DefaultRetry
	}

	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetTimeout(time.Second * 30)
	client.SetRetryCount(opts.MaxAttempts - 1)
	client.SetRetryWaitTime(opts.BaseDelay)
	client.SetRetryMaxWaitTime(opts.MaxDelay)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() >= 500
	})
	return client
}
