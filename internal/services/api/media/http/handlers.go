// Package http exposes pass-through video and audio lookups
package http

import (
	"context"
	"net/http"
	"strings"

	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/modkit/httpkit"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/net/http/bind"
)

// Lookup is the video data surface the media routes read from
type Lookup interface {
	Video(ctx context.Context, link string) (tikapi.Video, error)
	Music(ctx context.Context, link string) (tikapi.Music, error)
}

// Register mounts the media routes
func Register(r httpkit.Router, l Lookup) {
	h := &handlers{lookup: l}

	httpkit.Get(r, "/video/info", h.video)
	httpkit.Get(r, "/audio/info", h.audio)
}

type handlers struct{ lookup Lookup }

// @Summary Video details and counters
// @Tags Media
// @Produce json
// @Param link query string true "TikTok video link"
// @Success 200 {object} tikapi.Video
// @Failure 400 {object} errors.Wire
// @Failure 404 {object} errors.Wire "video is deleted"
// @Failure 502 {object} errors.Wire
// @Router /media/video/info [get]
func (h *handlers) video(r *http.Request) (any, error) {
	link, err := linkParam(r)
	if err != nil {
		return nil, err
	}
	return h.lookup.Video(r.Context(), link)
}

// @Summary Audio details
// @Tags Media
// @Produce json
// @Param link query string true "TikTok music link"
// @Success 200 {object} tikapi.Music
// @Failure 400 {object} errors.Wire
// @Failure 404 {object} errors.Wire "audio is deleted"
// @Failure 422 {object} errors.Wire
// @Router /media/audio/info [get]
func (h *handlers) audio(r *http.Request) (any, error) {
	link, err := linkParam(r)
	if err != nil {
		return nil, err
	}
	return h.lookup.Music(r.Context(), link)
}

func linkParam(r *http.Request) (string, error) {
	link := strings.TrimSpace(r.URL.Query().Get("link"))
	if link == "" {
		return "", perr.WithField(perr.Validationf("link is required"), "link")
	}
	if !bind.IsTikTokLink(link) {
		return "", perr.WithField(perr.InvalidArgf("please provide a valid tiktok link"), "link")
	}
	return link, nil
}
