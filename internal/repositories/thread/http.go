package thread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

const (
	defaultMaxTries        = 4
	defaultInitialInterval = 500 * time.Millisecond
	defaultUserAgent       = "mafiabot/1.0"
)

// Config holds configuration for the HTTP thread reader
type Config struct {
	// ThreadURL is the base URL of the game thread, without page suffix
	ThreadURL string

	// HTTPClient is used for all requests (optional)
	HTTPClient *http.Client

	// MaxTries bounds the attempts per page, including the first one (optional)
	MaxTries uint

	// InitialInterval is the first retry delay (optional)
	InitialInterval time.Duration

	// UserAgent is sent with every request (optional)
	UserAgent string

	// Logger receives retry notices (optional)
	Logger *slog.Logger
}

// httpReader implements the Reader interface over the forum's public pages
type httpReader struct {
	threadURL       *url.URL
	client          *http.Client
	maxTries        uint
	initialInterval time.Duration
	userAgent       string
	logger          *slog.Logger
}

// Ensure interface compliance at compile time
var _ Reader = (*httpReader)(nil)

// NewHTTP creates a new HTTP-backed thread reader
func NewHTTP(cfg *Config) (*httpReader, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.ThreadURL == "" {
		return nil, errors.New("thread URL cannot be empty")
	}

	threadURL, err := url.Parse(strings.TrimRight(cfg.ThreadURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid thread URL: %w", err)
	}

	r := &httpReader{
		threadURL:       threadURL,
		client:          cfg.HTTPClient,
		maxTries:        cfg.MaxTries,
		initialInterval: cfg.InitialInterval,
		userAgent:       cfg.UserAgent,
		logger:          cfg.Logger,
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: 30 * time.Second}
	}
	if r.maxTries == 0 {
		r.maxTries = defaultMaxTries
	}
	if r.initialInterval <= 0 {
		r.initialInterval = defaultInitialInterval
	}
	if r.userAgent == "" {
		r.userAgent = defaultUserAgent
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r, nil
}

// FetchPage retrieves one page of the full thread
func (r *httpReader) FetchPage(ctx context.Context, input *FetchPageInput) (*models.Page, error) {
	if input == nil || input.Page < 1 {
		return nil, errors.New("input and a positive page number are required")
	}

	pageURL := *r.threadURL
	pageURL.Path = fmt.Sprintf("%s/%d", r.threadURL.Path, input.Page)

	return r.fetch(ctx, pageURL.String(), input.Page)
}

// FetchUserPage retrieves one page of the thread filtered to a single author
func (r *httpReader) FetchUserPage(ctx context.Context, input *FetchUserPageInput) (*models.Page, error) {
	if input == nil || input.User == "" || input.Page < 1 {
		return nil, errors.New("input, user and a positive page number are required")
	}

	pageURL := *r.threadURL
	query := pageURL.Query()
	query.Set("u", input.User)
	query.Set("pagina", strconv.Itoa(input.Page))
	pageURL.RawQuery = query.Encode()

	return r.fetch(ctx, pageURL.String(), input.Page)
}

func (r *httpReader) fetch(ctx context.Context, pageURL string, pageNumber int) (*models.Page, error) {
	operation := func() (*models.Page, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", r.userAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			r.logger.Warn("page fetch failed", "url", pageURL, "error", err)
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
			r.logger.Warn("page fetch failed", "url", pageURL, "status", resp.StatusCode)
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		page, err := ParsePage(resp.Body, pageNumber)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return page, nil
	}

	expBackOff := backoff.NewExponentialBackOff()
	expBackOff.InitialInterval = r.initialInterval

	page, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackOff),
		backoff.WithMaxTries(r.maxTries))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	return page, nil
}
