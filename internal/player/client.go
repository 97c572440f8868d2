// Package player implements the HTTP transport to the external media
// player this system drives. The player itself -- its internals, what
// media backend it wraps -- is out of scope; this package only speaks
// its control protocol, the same way a BitTorrent tracker client only
// speaks a tracker's wire protocol without knowing anything about the
// peers it returns.
package player

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/prxssh/mediactl/pkg/retry"
)

const maxStatusResponseSize = 1 * 1024 * 1024 // 1MB

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to a VLC-style HTTP control interface: GET requests
// against requests/status.json carry a `command` query parameter for
// mutations, and requests/playlist.json returns the current playlist
// tree.
type Client struct {
	baseURL  *url.URL
	password string
	client   *http.Client
	logger   *slog.Logger
}

// NewClient builds a Client against baseURL (e.g.
// "http://localhost:8080"), authenticating with password the way VLC's
// lua HTTP interface expects (empty username, password as the HTTP
// basic auth secret).
func NewClient(baseURL, password string, requestTimeout, dialTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("player: invalid base url %q: %w", baseURL, err)
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  false,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout: dialTimeout,
		}).DialContext,
	}

	return &Client{
		baseURL:  u,
		password: password,
		client:   &http.Client{Transport: transport, Timeout: requestTimeout},
		logger:   logger.With("component", "player"),
	}, nil
}

// Status fetches the player's current playback status.
func (c *Client) Status(ctx context.Context) (*PlaybackStatus, error) {
	var status PlaybackStatus
	err := retry.Do(ctx, func(ctx context.Context) error {
		s, err := c.getStatus(ctx, nil)
		if err != nil {
			return err
		}
		status = *s
		return nil
	}, retry.WithExponentialBackoff(3, 200*time.Millisecond, 2*time.Second)...)
	if err != nil {
		return nil, fmt.Errorf("player: status: %w", err)
	}
	return &status, nil
}

// Playlist fetches the player's current playlist.
func (c *Client) Playlist(ctx context.Context) (*PlaylistInfo, error) {
	req, err := c.newRequest(ctx, "requests/playlist.json", nil)
	if err != nil {
		return nil, err
	}

	var playlist PlaylistInfo
	if err := c.doJSON(req, &playlist); err != nil {
		return nil, fmt.Errorf("player: playlist: %w", err)
	}
	return &playlist, nil
}

// Add appends uri to the end of the playlist and returns the fresh
// status, mirroring VLC's `pl_play` semantics of acting then reporting
// state.
func (c *Client) Add(ctx context.Context, uri string) (*PlaybackStatus, error) {
	return c.command(ctx, url.Values{"command": {"in_enqueue"}, "input": {uri}})
}

// Delete removes the playlist item identified by id.
func (c *Client) Delete(ctx context.Context, id string) (*PlaybackStatus, error) {
	return c.command(ctx, url.Values{"command": {"pl_delete"}, "id": {id}})
}

// Play starts playback at the item identified by id.
func (c *Client) Play(ctx context.Context, id string) (*PlaybackStatus, error) {
	return c.command(ctx, url.Values{"command": {"pl_play"}, "id": {id}})
}

func (c *Client) command(ctx context.Context, q url.Values) (*PlaybackStatus, error) {
	var status PlaybackStatus
	err := retry.Do(ctx, func(ctx context.Context) error {
		s, err := c.getStatus(ctx, q)
		if err != nil {
			return err
		}
		status = *s
		return nil
	}, retry.WithExponentialBackoff(3, 200*time.Millisecond, 2*time.Second)...)
	if err != nil {
		return nil, fmt.Errorf("player: command %q: %w", q.Get("command"), err)
	}
	return &status, nil
}

func (c *Client) getStatus(ctx context.Context, q url.Values) (*PlaybackStatus, error) {
	req, err := c.newRequest(ctx, "requests/status.json", q)
	if err != nil {
		return nil, err
	}

	var status PlaybackStatus
	if err := c.doJSON(req, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *Client) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	u := *c.baseURL
	u.Path = joinPath(u.Path, path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.password != "" {
		req.SetBasicAuth("", c.password)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, dst any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("non-ok status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusResponseSize))
	if err != nil {
		return err
	}

	if err := jsonAPI.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func joinPath(base, extra string) string {
	if base == "" || base == "/" {
		return "/" + extra
	}
	return base + "/" + extra
}
