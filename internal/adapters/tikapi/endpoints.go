package tikapi

import (
	"context"
	"encoding/json"
)

// Video looks up a video by its share link
func (c *Client) Video(ctx context.Context, link string) (Video, error) {
	var p videoPayload
	err := c.fetch(ctx, videoKind, link, func(raw []byte) error {
		p = videoPayload{}
		return json.Unmarshal(raw, &p)
	})
	if err != nil {
		return Video{}, err
	}
	return p.video(), nil
}

// Music looks up an audio track by its share link
func (c *Client) Music(ctx context.Context, link string) (Music, error) {
	var p musicPayload
	err := c.fetch(ctx, musicKind, link, func(raw []byte) error {
		p = musicPayload{}
		return json.Unmarshal(raw, &p)
	})
	if err != nil {
		return Music{}, err
	}
	return p.music(), nil
}
