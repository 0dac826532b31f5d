package kaggle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.DatasetProvider = (*Client)(nil)

// ErrRateLimited is returned when the API answers 429.
var ErrRateLimited = errors.New("kaggle rate limit exceeded")

// Client talks to the Kaggle API.
type Client struct {
	baseURL     string
	timeout     time.Duration
	credentials CredentialsFunc
	rateLimiter *RateLimiter

	mu   sync.Mutex
	http *http.Client
}

// NewClient creates a Kaggle client.
// credentials is optional - if nil, LoadCredentials is used.
func NewClient(settings domain.ProviderSettings, credentials CredentialsFunc) *Client {
	if credentials == nil {
		credentials = LoadCredentials
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = domain.DefaultKaggleBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeout:     settings.Timeout,
		credentials: credentials,
		rateLimiter: NewRateLimiter(DefaultRequestsPerSecond, DefaultBurst),
	}
}

// ensureClient builds the authenticated HTTP client on first use.
func (c *Client) ensureClient(_ context.Context) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http != nil {
		return c.http, nil
	}

	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}
	if !creds.IsComplete() {
		return nil, fmt.Errorf("%w: kaggle credentials incomplete", domain.ErrAuthRequired)
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var auth http.RoundTripper
	if creds.IsBearer() {
		auth = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}),
			Base:   http.DefaultTransport,
		}
	} else {
		auth = &basicAuthTransport{
			username: creds.Username,
			key:      creds.Key,
			base:     http.DefaultTransport,
		}
	}
	hc := &http.Client{
		Transport: &apiHostTransport{
			host: base.Host,
			auth: auth,
			base: http.DefaultTransport,
		},
	}
	hc.Timeout = c.timeout

	c.http = hc
	return hc, nil
}

// Authenticate resolves credentials and checks them with a cheap listing call.
func (c *Client) Authenticate(ctx context.Context) error {
	resp, err := c.get(ctx, "/datasets/list?page=1")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Debug("Kaggle credentials accepted")
	return nil
}

// DownloadBundle streams the dataset archive into dir as <dataset>.zip and
// returns the written path.
func (c *Client) DownloadBundle(ctx context.Context, owner, dataset, dir string) (string, error) {
	endpoint := "/datasets/download/" + url.PathEscape(owner) + "/" + url.PathEscape(dataset)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	dest := filepath.Join(dir, dataset+".zip")
	tmp, err := os.CreateTemp(dir, "."+dataset+"-*.part")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("download %s/%s: %w", owner, dataset, err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	logger.Debug("Downloaded %d bytes to %s", n, dest)
	return dest, nil
}

// get issues a rate-limited GET and maps error statuses.
// The caller closes the body of a successful response.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	hc, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("GET %s", req.URL)
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}

	if err := c.checkResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: kaggle returned %s", domain.ErrAuthInvalid, resp.Status)
	case http.StatusNotFound:
		return fmt.Errorf("%w: kaggle returned %s", domain.ErrNotFound, resp.Status)
	case http.StatusTooManyRequests:
		c.rateLimiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		return ErrRateLimited
	default:
		if detail != "" {
			return fmt.Errorf("kaggle returned %s: %s", resp.Status, detail)
		}
		return fmt.Errorf("kaggle returned %s", resp.Status)
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// apiHostTransport sends requests for the API host through auth.
// Download redirects to storage hosts go out without credentials.
type apiHostTransport struct {
	host string
	auth http.RoundTripper
	base http.RoundTripper
}

func (t *apiHostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host != t.host {
		return t.base.RoundTrip(req)
	}
	return t.auth.RoundTrip(req)
}

// basicAuthTransport adds HTTP basic auth to every request.
type basicAuthTransport struct {
	username string
	key      string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.username, t.key)
	return t.base.RoundTrip(clone)
}
