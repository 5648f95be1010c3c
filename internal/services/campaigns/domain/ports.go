package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ServicePort is consumed by the HTTP handlers
type ServicePort interface {
	Create(ctx context.Context, in CreateCampaignInput) (Campaign, error)
	Extend(ctx context.Context, in ExtendCampaignInput) (Campaign, error)
	List(ctx context.Context) ([]CampaignDetails, error)
	Details(ctx context.Context, q DetailsQuery) (CampaignDetails, error)
}

// IntakePort is consumed by the chat intake workflow
type IntakePort interface {
	// ActiveByCode finds the live campaign with code whose window contains at
	ActiveByCode(ctx context.Context, code string, at time.Time) (Campaign, error)
	// AttachVideo persists a new video; a second attachment of the same url is a DuplicateKey error
	AttachVideo(ctx context.Context, in NewVideo) (Video, error)
}

// TrackingPort is consumed by the stats refresh scheduler
type TrackingPort interface {
	// CoveringDay lists live campaigns with start <= dayStart and end >= dayEnd
	CoveringDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Campaign, error)
	// VideosOf lists live videos of the given campaigns
	VideosOf(ctx context.Context, campaignIDs []uuid.UUID) ([]Video, error)
	// RecordStats overwrites the video stats and finds or creates the snapshot for statsDate;
	// created is false when an existing snapshot was overwritten
	RecordStats(ctx context.Context, v Video, s Stats, statsDate time.Time) (created bool, err error)
}
