package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jonwraymond/epitrack/observe"
	"github.com/jonwraymond/epitrack/resilience"
)

const userAgent = "epitrack/1.0"

// Defaults for the retry policy and per-attempt timeout.
const (
	DefaultMaxRetries  = 3
	DefaultBackoffBase = time.Second
	DefaultTimeout     = 30 * time.Second
)

// errNotJSON marks a response that arrived but did not carry JSON. Retrying
// will not help; the fetch degrades to a nil result immediately.
var errNotJSON = errors.New("fetch: response is not JSON")

// Config configures a Client.
type Config struct {
	// GlobalBase is the base URL of the global statistics API. Required.
	GlobalBase string

	// RegionalBase is the base URL of the regional health-authority API.
	// Defaults to GlobalBase, which serves the region endpoint too.
	RegionalBase string

	// Timeout bounds each individual attempt. Default: DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first.
	// Default: DefaultMaxRetries.
	MaxRetries int

	// BackoffBase is the delay before the first retry; it doubles per
	// attempt. Default: DefaultBackoffBase.
	BackoffBase time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	Logger  observe.Logger
	Metrics observe.Metrics
}

// Client fetches upstream aggregates. It is safe for concurrent use.
type Client struct {
	globalBase   string
	regionalBase string
	http         *http.Client
	exec         *resilience.Executor
	maxRetries   int
	probe        *retryablehttp.Client
	log          observe.Logger
	metrics      observe.Metrics
}

// NewClient creates a Client for the given upstream bases.
func NewClient(cfg Config) (*Client, error) {
	if cfg.GlobalBase == "" {
		return nil, errors.New("fetch: global base URL is required")
	}
	if cfg.RegionalBase == "" {
		cfg.RegionalBase = cfg.GlobalBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}

	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		RetryIf: func(err error) bool {
			return err != nil && !errors.Is(err, errNotJSON)
		},
	})

	// The probe client serves the operational health report only; it keeps
	// its own short retry budget and never participates in refresh fetches.
	probe := retryablehttp.NewClient()
	probe.RetryMax = 1
	probe.RetryWaitMin = 500 * time.Millisecond
	probe.RetryWaitMax = 2 * time.Second
	probe.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	probe.Logger = nil

	return &Client{
		globalBase:   strings.TrimRight(cfg.GlobalBase, "/"),
		regionalBase: strings.TrimRight(cfg.RegionalBase, "/"),
		http:         cfg.HTTPClient,
		exec: resilience.NewExecutor(
			resilience.WithRetry(retry),
			resilience.WithTimeout(cfg.Timeout),
		),
		maxRetries: cfg.MaxRetries,
		probe:      probe,
		log:        cfg.Logger.WithComponent("fetch"),
		metrics:    cfg.Metrics,
	}, nil
}

// fetchWithRetry issues GET requests against url until one succeeds or the
// attempt budget (1 + MaxRetries) is spent, backing off exponentially in
// between. It returns nil, never an error, once the budget is exhausted or
// the response body is not JSON.
func (c *Client) fetchWithRetry(ctx context.Context, source, url string) json.RawMessage {
	var payload json.RawMessage
	attempts := 0

	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		attempts++
		c.log.Debug(ctx, "fetching upstream data",
			observe.F("url", url), observe.F("attempt", attempts))

		body, err := c.getJSON(ctx, url)
		if err != nil {
			return err
		}
		payload = body
		return nil
	})

	c.metrics.RecordFetch(ctx, source, attempts, err)

	if err != nil {
		c.log.Error(ctx, "upstream fetch failed",
			observe.F("url", url),
			observe.F("attempts", attempts),
			observe.F("error", err.Error()))
		return nil
	}
	return payload
}

func (c *Client) getJSON(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch: unexpected status %d from %s", resp.StatusCode, url)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, errNotJSON
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, errNotJSON
	}
	return body, nil
}

// probeEndpoint reports whether url currently answers with a 2xx. Used only
// by the health report, never by the refresh path.
func (c *Client) probeEndpoint(ctx context.Context, url string) bool {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
