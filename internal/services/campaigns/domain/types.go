// Package domain defines the campaign tracking model and its ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stats are the engagement counters of a tracked video
type Stats struct {
	Views     int64 `json:"views"     example:"1200"`
	Likes     int64 `json:"likes"     example:"30"`
	Shares    int64 `json:"shares"    example:"4"`
	Bookmarks int64 `json:"bookmarks" example:"2"`
	Comments  int64 `json:"comments"  example:"9"`
}

// Valid reports whether every counter is non-negative
func (s Stats) Valid() bool {
	return s.Views >= 0 && s.Likes >= 0 && s.Shares >= 0 && s.Bookmarks >= 0 && s.Comments >= 0
}

// AgeRange bounds the target audience age
type AgeRange struct {
	Min *int `json:"min,omitempty" example:"18"`
	Max *int `json:"max,omitempty" example:"34"`
}

// GenderSplit is the target share per gender
type GenderSplit struct {
	Male   *float64 `json:"male,omitempty"   example:"40"`
	Female *float64 `json:"female,omitempty" example:"60"`
}

// Place is a targeted location
type Place struct {
	PlaceID string `json:"place_id" validate:"required" example:"ChIJdd4hrwug2EcRmSrV3Vo6llI"`
	Title   string `json:"title"    validate:"required" example:"London"`
}

// Audience describes who a campaign targets
type Audience struct {
	Age    *AgeRange    `json:"age,omitempty"`
	Gender *GenderSplit `json:"gender,omitempty"`
	Places []Place      `json:"places,omitempty" validate:"omitempty,dive"`
}

// Budget is the campaign money; only Total is required
type Budget struct {
	Total        float64  `json:"total"                   validate:"required,gt=0" example:"5000"`
	StartingFund *float64 `json:"starting_fund,omitempty" example:"1000"`
	EndingFund   *float64 `json:"ending_fund,omitempty"   example:"0"`
}

// Campaign is a business campaign built around reference audios
type Campaign struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Objective   string     `json:"objective"`
	Description string     `json:"description"`
	Audios      []string   `json:"audios"`
	Videos      []string   `json:"videos"`
	Code        string     `json:"campaign_code" example:"BM1"`
	Audience    Audience   `json:"audience"`
	Budget      Budget     `json:"budget"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// ActiveAt reports StartDate <= t <= EndDate on a live campaign
func (c Campaign) ActiveAt(t time.Time) bool {
	return c.DeletedAt == nil && !t.Before(c.StartDate) && !t.After(c.EndDate)
}

// Video is a creator video attached to exactly one campaign
type Video struct {
	ID                uuid.UUID  `json:"id"`
	CampaignID        uuid.UUID  `json:"campaign_id"`
	URL               string     `json:"url"`
	CreatorID         string     `json:"creator_id"`
	CreatorSocialName string     `json:"creator_social_name"`
	Description       string     `json:"description"`
	Stats             Stats      `json:"stats"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// Snapshot is the daily stats row of a video, unique per (VideoID, StatsDate)
type Snapshot struct {
	ID         uuid.UUID `json:"id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	VideoID    uuid.UUID `json:"video_id"`
	CreatorID  string    `json:"creator_id"`
	URL        string    `json:"url"`
	Stats      Stats     `json:"stats"`
	StatsDate  time.Time `json:"stats_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VideoDetails is a video with its snapshot history, oldest first
type VideoDetails struct {
	Video
	Snapshots []Snapshot `json:"snapshots"`
}

// CampaignDetails is a campaign with its tracked videos
type CampaignDetails struct {
	Campaign
	CampaignVideos []VideoDetails `json:"campaign_videos"`
}
