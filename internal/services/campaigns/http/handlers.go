// Package http provides HTTP transport for campaigns
package http

import (
	stdhttp "net/http"
	"strings"

	"campaigntracker/internal/modkit/httpkit"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/services/campaigns/domain"

	"github.com/google/uuid"
)

// Register mounts campaign endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.CreateJSON[domain.CreateCampaignInput](r, "/create", h.create)
	httpkit.PostJSON[domain.ExtendCampaignInput](r, "/extend", h.extend)
	httpkit.Get(r, "/all", h.all)
	httpkit.Get(r, "/get", h.get)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Create a campaign
// @Description The campaign code is derived from the first audio's title and author initials
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param payload body domain.CreateCampaignInput true "Campaign"
// @Success 201 {object} domain.Campaign
// @Failure 404 {object} errors.Wire "audio is deleted"
// @Failure 422 {object} errors.Wire "invalid dates or audio link"
// @Router /campaigns/create [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateCampaignInput) (any, error) {
	return h.svc.Create(r.Context(), in)
}

// @Summary Extend a campaign window and replace its budget
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param payload body domain.ExtendCampaignInput true "Extension"
// @Success 200 {object} domain.Campaign
// @Failure 404 {object} errors.Wire
// @Failure 422 {object} errors.Wire
// @Router /campaigns/extend [post]
func (h *handlers) extend(r *stdhttp.Request, in domain.ExtendCampaignInput) (any, error) {
	return h.svc.Extend(r.Context(), in)
}

// @Summary List campaigns with videos and snapshots
// @Tags Campaigns
// @Produce json
// @Success 200 {array} domain.CampaignDetails
// @Router /campaigns/all [get]
func (h *handlers) all(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// @Summary Get one campaign by id or code
// @Tags Campaigns
// @Produce json
// @Param id query string false "Campaign id"
// @Param campaign_code query string false "Campaign code"
// @Success 200 {object} domain.CampaignDetails
// @Failure 400 {object} errors.Wire
// @Failure 404 {object} errors.Wire
// @Router /campaigns/get [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	q, err := detailsQuery(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Details(r.Context(), q)
}

func detailsQuery(r *stdhttp.Request) (domain.DetailsQuery, error) {
	v := r.URL.Query()
	q := domain.DetailsQuery{Code: strings.TrimSpace(v.Get("campaign_code"))}
	if raw := strings.TrimSpace(v.Get("id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, perr.WithField(perr.Validationf("id must be a uuid"), "id")
		}
		q.ID = &id
	}
	return q, nil
}
