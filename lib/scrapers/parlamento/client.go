// Package parlamento scrapes the plenary attendance and deputy
// biography pages of parlamento.pt. Both are static SharePoint pages,
// no browser automation is involved; the extraction patterns live here
// so the transform code never touches raw HTML.
package parlamento

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"parlwatch-backend/lib/restyutil"
)

const (
	baseUrl           = "https://www.parlamento.pt"
	meetingListUrl    = baseUrl + "/DeputadoGP/Paginas/reunioesplenarias.aspx"
	meetingDetailUrl  = baseUrl + "/DeputadoGP/Paginas/DetalheReuniaoPlenaria.aspx"
	biographyUrl      = baseUrl + "/DeputadoGP/Paginas/Biografia.aspx"
	defaultUserAgent  = "parlwatch-bot (+contact@parlwatch.pt)"
	defaultPoliteness = time.Millisecond * 500
)

// Client wraps a resty client with a politeness delay applied between
// consecutive requests to the Parliament host. The delay is separate
// from retry backoff and applies even when every request succeeds on
// its first attempt.
type Client struct {
	http       *resty.Client
	politeness time.Duration
	lastFetch  time.Time
}

type ClientOptions struct {
	UserAgent  string
	Politeness time.Duration
	Retry      restyutil.RetryOptions
}

func NewClient(opts ClientOptions) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Politeness == 0 {
		opts.Politeness = defaultPoliteness
	}
	return &Client{
		http:       restyutil.NewClient(opts.UserAgent, opts.Retry),
		politeness: opts.Politeness,
	}
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	if !c.lastFetch.IsZero() {
		wait := c.politeness - time.Since(c.lastFetch)
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	c.lastFetch = time.Now()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("accept-language", "pt-PT,pt;q=0.9,en;q=0.8").
		Get(url)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("http %d fetching %s", res.StatusCode(), url)
	}
	return string(res.Body()), nil
}
