// Package tikapi is a TikAPI client for video and music metadata with a
// client-owned TTL cache and an optional key/value second tier
package tikapi

import (
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/url"
	"time"

	"campaigntracker/internal/platform/config"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
	"campaigntracker/internal/platform/store"
)

const (
	baseURLDefault  = "https://api.tikapi.io"
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = time.Hour
	defaultCacheMax = 4096
	maxBody         = 4 << 20
)

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string

	// Timeout bounds every request including the body read
	Timeout time.Duration

	CacheTTL time.Duration
	CacheMax int
}

// FromConfig reads KEY (required), BASE_URL, TIMEOUT, CACHE_TTL and CACHE_MAX
func FromConfig(cfg config.Conf) Options {
	return Options{
		BaseURL:  cfg.MayString("BASE_URL", baseURLDefault),
		APIKey:   cfg.MustString("KEY"),
		Timeout:  cfg.MayDuration("TIMEOUT", defaultTimeout),
		CacheTTL: cfg.MayDuration("CACHE_TTL", defaultCacheTTL),
		CacheMax: cfg.MayInt("CACHE_MAX", defaultCacheMax),
	}
}

// Option customizes a Client
type Option func(*Client)

// WithKV adds a shared second cache tier; nil leaves it disabled
func WithKV(kv store.KV) Option {
	return func(c *Client) { c.kv = kv }
}

// WithNow injects the clock used for cache freshness
func WithNow(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
		c.cache.now = now
	}
}

// WithHTTPClient swaps the transport client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client fetches TikAPI payloads; safe for concurrent use
type Client struct {
	http  *http.Client
	opts  Options
	cache *cache
	kv    store.KV
	log   logger.Logger
	now   func() time.Time
}

// New creates a Client with defaults applied
func New(o Options, opts ...Option) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	if o.CacheMax <= 0 {
		o.CacheMax = defaultCacheMax
	}
	c := &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		cache: newCache(o.CacheTTL, o.CacheMax, time.Now),
		log:   *logger.Named("tikapi"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetch resolves link from cache or the network and hands the payload to
// decode; a 2xx body is cached only once decode accepts it
func (c *Client) fetch(ctx context.Context, k kind, link string, decode func([]byte) error) error {
	key := k.cacheKey(link)
	if raw, ok := c.cache.get(key); ok {
		c.log.Debug().Str("kind", k.name).Str("link", link).Msg("tikapi cache hit")
		return c.decode(k, raw, decode)
	}
	if raw, at, ok := c.kvGet(ctx, key); ok {
		if err := decode(raw); err == nil {
			c.cache.putAt(key, raw, at)
			return nil
		}
		c.log.Warn().Str("kind", k.name).Str("key", key).Msg("tikapi kv entry undecodable, refetching")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	u := c.opts.BaseURL + k.path + "?" + url.Values{"id": {link}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "tikapi new request failed")
	}
	req.Header.Set("X-API-KEY", c.opts.APIKey)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "tikapi %s request failed", k.name)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("kind", k.name).Msg("tikapi close body failed")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "tikapi %s read failed", k.name)
	}
	c.log.Debug().
		Str("kind", k.name).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("tikapi http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().Str("kind", k.name).Int("status", resp.StatusCode).Str("body", tail(body)).Msg("tikapi error response")
		return k.translate(resp.StatusCode, string(body))
	}

	if err := c.decode(k, body, decode); err != nil {
		c.log.Error().Err(err).Str("kind", k.name).Str("body", tail(body)).Msg("tikapi undecodable response")
		return err
	}
	at := c.now()
	c.cache.putAt(key, body, at)
	c.kvSet(ctx, key, body, at)
	return nil
}

func (c *Client) decode(k kind, raw []byte, decode func([]byte) error) error {
	if err := decode(raw); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "tikapi %s decode failed", k.name)
	}
	return nil
}

// kv values carry the capture instant ahead of the body so a copy read by
// another process keeps the original expiry
const stampLen = 8

func (c *Client) kvGet(ctx context.Context, key string) ([]byte, time.Time, bool) {
	if c.kv == nil {
		return nil, time.Time{}, false
	}
	val, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("tikapi kv get failed")
		return nil, time.Time{}, false
	}
	if !ok || len(val) <= stampLen {
		return nil, time.Time{}, false
	}
	at := time.Unix(0, int64(binary.BigEndian.Uint64(val[:stampLen])))
	age := c.now().Sub(at)
	if age < 0 || age >= c.opts.CacheTTL {
		return nil, time.Time{}, false
	}
	return val[stampLen:], at, true
}

func (c *Client) kvSet(ctx context.Context, key string, raw []byte, at time.Time) {
	if c.kv == nil {
		return
	}
	val := make([]byte, stampLen, stampLen+len(raw))
	binary.BigEndian.PutUint64(val, uint64(at.UnixNano()))
	val = append(val, raw...)
	if err := c.kv.Set(ctx, key, val, c.opts.CacheTTL); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("tikapi kv set failed")
	}
}

func tail(b []byte) string {
	if len(b) > 2048 {
		b = b[:2048]
	}
	return string(b)
}
