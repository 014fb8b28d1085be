// Package forum publishes the bot's posts to the game thread.
package forum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/KirkDiggler/mafiabot/internal/services/messaging"
)

const (
	defaultMaxTries        = 4
	defaultInitialInterval = time.Second
	defaultUserAgent       = "mafiabot/1.0"
)

// errSessionExpired marks a reply rejected for lack of a session
var errSessionExpired = errors.New("forum session expired")

// Config holds configuration for the HTTP publisher
type Config struct {
	// LoginURL receives the login form
	LoginURL string

	// ReplyURL receives the reply form
	ReplyURL string

	// Username is the bot's forum account
	Username string

	// Password is the bot's forum password
	Password string

	// Messaging renders the post bodies
	Messaging messaging.Service

	// HTTPClient is used for all requests; its Jar is replaced by a fresh cookie jar (optional)
	HTTPClient *http.Client

	// MaxTries bounds the attempts per post, including the first one (optional)
	MaxTries uint

	// InitialInterval is the first retry delay (optional)
	InitialInterval time.Duration

	// UserAgent is sent with every request (optional)
	UserAgent string

	// Logger is optional
	Logger *slog.Logger
}

// httpPublisher implements the Publisher interface by replying to the thread
// as the bot's forum user
type httpPublisher struct {
	loginURL        string
	replyURL        string
	username        string
	password        string
	messaging       messaging.Service
	client          *http.Client
	maxTries        uint
	initialInterval time.Duration
	userAgent       string
	logger          *slog.Logger

	loggedIn bool
}

// Ensure interface compliance at compile time
var _ Publisher = (*httpPublisher)(nil)

// NewHTTP creates a new HTTP publisher
func NewHTTP(cfg *Config) (*httpPublisher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.LoginURL == "" || cfg.ReplyURL == "" {
		return nil, errors.New("login and reply URLs cannot be empty")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("forum credentials cannot be empty")
	}
	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		client = &copied
	}
	client.Jar = jar

	p := &httpPublisher{
		loginURL:        cfg.LoginURL,
		replyURL:        cfg.ReplyURL,
		username:        cfg.Username,
		password:        cfg.Password,
		messaging:       cfg.Messaging,
		client:          client,
		maxTries:        cfg.MaxTries,
		initialInterval: cfg.InitialInterval,
		userAgent:       cfg.UserAgent,
		logger:          cfg.Logger,
	}
	if p.maxTries == 0 {
		p.maxTries = defaultMaxTries
	}
	if p.initialInterval <= 0 {
		p.initialInterval = defaultInitialInterval
	}
	if p.userAgent == "" {
		p.userAgent = defaultUserAgent
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p, nil
}

// PublishTally posts an interim tally
func (p *httpPublisher) PublishTally(ctx context.Context, input *PublishTallyInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	out, err := p.messaging.RenderTally(ctx, &messaging.RenderTallyInput{
		Tally:             input.Tally,
		AliveCount:        input.AliveCount,
		MajorityThreshold: input.MajorityThreshold,
		AsOfPostID:        input.AsOfPostID,
	})
	if err != nil {
		return fmt.Errorf("failed to render tally: %w", err)
	}

	return p.reply(ctx, input.ThreadID, out.Body)
}

// PublishLynch posts the final tally announcing a lynch
func (p *httpPublisher) PublishLynch(ctx context.Context, input *PublishLynchInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	out, err := p.messaging.RenderLynch(ctx, &messaging.RenderLynchInput{
		Tally:      input.Tally,
		VictimName: input.VictimName,
		AsOfPostID: input.AsOfPostID,
	})
	if err != nil {
		return fmt.Errorf("failed to render lynch: %w", err)
	}

	return p.reply(ctx, input.ThreadID, out.Body)
}

func (p *httpPublisher) reply(ctx context.Context, threadID int, body string) error {
	if threadID <= 0 {
		return errors.New("thread ID must be positive")
	}

	operation := func() (struct{}, error) {
		if !p.loggedIn {
			if err := p.login(ctx); err != nil {
				return struct{}{}, err
			}
		}

		err := p.post(ctx, p.replyURL, url.Values{
			"tid":    {strconv.Itoa(threadID)},
			"cuerpo": {body},
		})
		if err == nil {
			return struct{}{}, nil
		}

		p.logger.Warn("reply failed", "thread_id", threadID, "error", err)
		if errors.Is(err, errSessionExpired) {
			p.loggedIn = false
			return struct{}{}, err
		}
		if !replyNotStored(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	expBackOff := backoff.NewExponentialBackOff()
	expBackOff.InitialInterval = p.initialInterval

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackOff),
		backoff.WithMaxTries(p.maxTries))
	if err != nil {
		return fmt.Errorf("failed to reply to thread %d: %w", threadID, err)
	}

	p.logger.Info("reply published", "thread_id", threadID)
	return nil
}

func (p *httpPublisher) login(ctx context.Context) error {
	err := p.post(ctx, p.loginURL, url.Values{
		"name":     {p.username},
		"password": {p.password},
		"cookie":   {"1"},
	})
	if errors.Is(err, errSessionExpired) {
		return backoff.Permanent(errors.New("forum rejected the bot credentials"))
	}
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	p.loggedIn = true
	p.logger.Debug("logged in to forum", "user", p.username)
	return nil
}

func (p *httpPublisher) post(ctx context.Context, target string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errSessionExpired
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return &statusError{code: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return backoff.Permanent(&statusError{code: resp.StatusCode})
	}

	return nil
}

// statusError is a non-2xx answer from the forum
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// replyNotStored reports whether a failed reply certainly did not reach the
// thread, so posting it again cannot duplicate it. Only throttled requests and
// connections that were never opened qualify; a 5xx may come after the forum
// already stored the post.
func replyNotStored(err error) bool {
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return false
	}

	var status *statusError
	if errors.As(err, &status) {
		return status.code == http.StatusTooManyRequests
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
