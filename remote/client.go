// Package remote talks to the spreadsheet endpoint that holds the shared
// board: actions go out as fire-and-forget POSTs, full state comes back on GET.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"walkboard/models"
)

var (
	ErrDisabled         = errors.New("remote sync is not configured")
	ErrTransport        = errors.New("remote unreachable")
	ErrMalformedPayload = errors.New("remote returned a non-JSON payload")
	ErrRemoteStatus     = errors.New("remote reported failure")
)

const (
	defaultQueueSize = 256
	maxRedirects     = 5
)

// Client pushes board actions to the remote sheet and pulls its state.
type Client struct {
	url      string
	http     *fasthttp.Client
	queue    chan models.SyncAction
	location *time.Location
	logger   *logrus.Entry
	now      func() time.Time
}

// Options tune a Client. Zero values fall back to defaults.
type Options struct {
	QueueSize int
	Timeout   time.Duration
	Location  *time.Location
	Logger    *logrus.Entry
}

// NewClient returns a client for url. An empty url yields a disabled client
// that drops pushes and refuses to fetch.
func NewClient(url string, opts Options) *Client {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = logrus.WithField("component", "remote")
	}
	return &Client{
		url: strings.TrimSpace(url),
		http: &fasthttp.Client{
			Name:                     "walkboard",
			ReadTimeout:              opts.Timeout,
			WriteTimeout:             opts.Timeout,
			MaxIdleConnDuration:      time.Minute,
			NoDefaultUserAgentHeader: true,
		},
		queue:    make(chan models.SyncAction, opts.QueueSize),
		location: opts.Location,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

// Enabled reports whether a remote endpoint is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// Push enqueues an action without blocking. When the queue is full the action
// is dropped; the next pull reconciles the board anyway.
func (c *Client) Push(action models.SyncAction) {
	if !c.Enabled() {
		return
	}
	select {
	case c.queue <- action:
	default:
		c.logger.WithField("action", action.Action).Warn("Outbound queue full, dropping action")
	}
}

// Run drains the outbound queue until ctx is done. Every action is sent once;
// failures are logged and forgotten.
func (c *Client) Run(ctx context.Context) {
	if !c.Enabled() {
		c.logger.Info("Remote sync disabled, outbound queue not started")
		return
	}
	for {
		select {
		case <-ctx.Done():
			c.logger.WithField("pending", len(c.queue)).Info("Outbound queue stopped")
			return
		case action := <-c.queue:
			if err := c.send(action); err != nil {
				c.logger.WithError(err).WithField("action", action.Action).Warn("Failed to send action")
				continue
			}
			c.logger.WithField("action", action.Action).Debug("Action sent")
		}
	}
}

func (c *Client) send(action models.SyncAction) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("encode %s: %w", action.Action, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	// text/plain keeps script endpoints from demanding a preflight
	req.Header.SetContentType("text/plain;charset=utf-8")
	req.SetBody(body)

	if err := c.http.Do(req, resp); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	// script endpoints answer a POST with a redirect to the result page
	if code := resp.StatusCode(); code >= 400 {
		return fmt.Errorf("%w: HTTP %d", ErrTransport, code)
	}
	return nil
}

// Fetch pulls and sanitizes the full remote state.
func (c *Client) Fetch(ctx context.Context) (models.RemoteState, error) {
	if !c.Enabled() {
		return models.RemoteState{}, ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return models.RemoteState{}, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.pullURL())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Cache-Control", "no-store")

	if err := c.http.DoRedirects(req, resp, maxRedirects); err != nil {
		return models.RemoteState{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return models.RemoteState{}, fmt.Errorf("%w: HTTP %d", ErrTransport, code)
	}
	return Decode(resp.Body(), c.location)
}

func (c *Client) pullURL() string {
	sep := "?"
	if strings.Contains(c.url, "?") {
		sep = "&"
	}
	return c.url + sep + "_t=" + strconv.FormatInt(c.now().UnixMilli(), 10)
}

// Decode parses a pull body into a sanitized state.
func Decode(body []byte, loc *time.Location) (models.RemoteState, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var p payload
	if err := dec.Decode(&p); err != nil {
		return models.RemoteState{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.Status != "success" {
		if p.Message != "" {
			return models.RemoteState{}, fmt.Errorf("%w: %s: %s", ErrRemoteStatus, p.Status, p.Message)
		}
		return models.RemoteState{}, fmt.Errorf("%w: status %q", ErrRemoteStatus, p.Status)
	}
	return sanitize(p, loc), nil
}
