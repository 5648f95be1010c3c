package tikapi

import (
	"net/http"
	"strings"

	perr "campaigntracker/internal/platform/errors"
)

// kind selects an endpoint with its cache namespace and error vocabulary
type kind struct {
	name     string
	path     string
	notFound string
	invalid  string
}

var (
	videoKind = kind{name: "video", path: "/public/video", notFound: "Video not found"}
	musicKind = kind{
		name:     "music",
		path:     "/public/music/info",
		notFound: "Audio not found",
		invalid:  "A valid music ID or short share music link is required",
	}
)

func (k kind) cacheKey(link string) string { return "tikapi:" + k.name + ":" + link }

// translate maps a non-2xx response to NotFound, InvalidArgument or Upstream
func (k kind) translate(status int, body string) error {
	if status == http.StatusForbidden || strings.Contains(body, k.notFound) {
		if k.name == "video" {
			return perr.NotFoundf("video is deleted")
		}
		return perr.NotFoundf("audio is deleted")
	}
	if k.invalid != "" && strings.Contains(body, k.invalid) {
		return perr.InvalidArgf("please provide a valid tiktok audio link")
	}
	return perr.Upstreamf("tikapi %s error: status %d", k.name, status)
}

// IsNotFound reports whether err means the video or audio no longer exists
func IsNotFound(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotFound) }

// IsInvalidLink reports whether err means the link was not a usable music link
func IsInvalidLink(err error) bool { return perr.IsCode(err, perr.ErrorCodeInvalidArgument) }
