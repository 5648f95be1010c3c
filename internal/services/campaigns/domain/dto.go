package domain

import "github.com/google/uuid"

// CreateCampaignInput is the create payload; dates are ISO-8601 and a bare
// date means the whole UTC day
type CreateCampaignInput struct {
	Name        string    `json:"name"        validate:"required"                example:"Summer bounce"`
	Objective   string    `json:"objective"                                      example:"Awareness"`
	Description string    `json:"description"                                    example:"Dance to the hook"`
	Audios      []string  `json:"audios"      validate:"min=1,dive,tiktok_link"  example:"https://www.tiktok.com/music/bounce-7001"`
	Videos      []string  `json:"videos"      validate:"omitempty,dive,required"`
	Audience    *Audience `json:"audience"`
	Budget      Budget    `json:"budget"`
	StartDate   string    `json:"start_date"  validate:"required,isodate"        example:"2025-07-01"`
	EndDate     string    `json:"end_date"    validate:"required,isodate"        example:"2025-07-31"`
}

// ExtendCampaignInput moves a campaign window and replaces its budget total
type ExtendCampaignInput struct {
	ID        uuid.UUID `json:"id"         validate:"required"         example:"6f1c2b1e-8d7a-4c1e-9a52-1f0f5b1d2c3e"`
	StartDate string    `json:"start_date" validate:"required,isodate" example:"2025-07-01"`
	EndDate   string    `json:"end_date"   validate:"required,isodate" example:"2025-08-31"`
	Budget    float64   `json:"budget"     validate:"required,gt=0"    example:"7500"`
}

// DetailsQuery selects one campaign by id or code; at least one is required
type DetailsQuery struct {
	ID   *uuid.UUID
	Code string
}

// NewVideo is the attachment of a moderated announcement to a campaign
type NewVideo struct {
	CampaignID        uuid.UUID
	URL               string
	CreatorID         string
	CreatorSocialName string
	Description       string
	Stats             Stats
}
