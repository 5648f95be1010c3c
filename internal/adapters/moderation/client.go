// Package moderation calls the external message moderation service that
// validates chat announcements and extracts the campaign code and video link
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"campaigntracker/internal/platform/config"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
)

const defaultTimeout = 15 * time.Second

// Verdict is the moderation answer for one message
type Verdict struct {
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	CampaignCode string `json:"campaign_code,omitempty"`
	TikTokURL    string `json:"tiktok_url,omitempty"`
}

// Options configures the Client
type Options struct {
	URL     string
	AuthKey string
	Timeout time.Duration
}

// FromConfig reads URL and AUTH_KEY (both required) and TIMEOUT
func FromConfig(cfg config.Conf) Options {
	return Options{
		URL:     cfg.MustURL("URL").String(),
		AuthKey: cfg.MustString("AUTH_KEY"),
		Timeout: cfg.MayDuration("TIMEOUT", defaultTimeout),
	}
}

// Client posts messages to the moderation endpoint
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// New creates a Client
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("moderation"),
	}
}

type request struct {
	Message string `json:"message"`
	AuthKey string `json:"authKey"`
}

// Check asks the moderation service whether message is a valid announcement
func (c *Client) Check(ctx context.Context, message string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	body, err := json.Marshal(request{Message: message, AuthKey: c.opts.AuthKey})
	if err != nil {
		return Verdict{}, perr.Wrapf(err, perr.ErrorCodeJSON, "moderation encode failed")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderation new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Verdict{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "moderation request failed")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("moderation close body failed")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Verdict{}, perr.Unavailablef("moderation http error: status %d", resp.StatusCode)
	}

	var v Verdict
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&v); err != nil {
		return Verdict{}, perr.Wrapf(err, perr.ErrorCodeJSON, "moderation decode failed")
	}
	return normalize(v)
}

// normalize trims fields and enforces reason-iff-invalid and code+url-iff-valid
func normalize(v Verdict) (Verdict, error) {
	v.Reason = strings.TrimSpace(v.Reason)
	v.CampaignCode = strings.TrimSpace(v.CampaignCode)
	v.TikTokURL = strings.TrimSpace(v.TikTokURL)

	if !v.Valid {
		if v.Reason == "" {
			v.Reason = "message was rejected"
		}
		v.CampaignCode, v.TikTokURL = "", ""
		return v, nil
	}
	if v.CampaignCode == "" || v.TikTokURL == "" {
		return Verdict{}, perr.Validationf("moderation verdict is valid but lacks campaign_code or tiktok_url")
	}
	v.Reason = ""
	return v, nil
}
