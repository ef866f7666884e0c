// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"adflow-server/billing"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var validChannels = []models.CampaignChannel{
	models.ChannelEmail,
	models.ChannelGoogleAds,
	models.ChannelMetaAds,
	models.ChannelLinkedInAds,
	models.ChannelWhatsApp,
}

var validStatuses = []models.CampaignStatus{
	models.CampaignDraft,
	models.CampaignActive,
	models.CampaignPaused,
	models.CampaignCompleted,
}

func campaignDetails(campaign models.Campaign) CampaignDetails {
	return CampaignDetails{
		CampaignID:  campaign.CampaignID,
		Name:        campaign.Name,
		Description: campaign.Description,
		Channel:     string(campaign.Channel),
		Status:      string(campaign.Status),
		BudgetCents: campaign.BudgetCents,
		SpendCents:  campaign.SpendCents,
		Clicks:      campaign.Clicks,
		Conversions: campaign.Conversions,
		CreatedAt:   campaign.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   campaign.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateCampaignHandler godoc
// @Summary      Create a campaign
// @Description  Creates a new marketing campaign. Subject to the organization's plan limit.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        createCampaignRequest  body  CreateCampaignRequest  true  "Create campaign request payload"
// @Success      201 {object} CreateCampaignResponse "Campaign created successfully"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      403 {object} echo.HTTPError     "Plan limit reached"
// @Failure      409 {object} echo.HTTPError     "Duplicate campaign name"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/ [post]
func CreateCampaignHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create campaign request payload:", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload, please ensure it is well-formed and has content-type application/json header",
		}
	}

	if req.Name == "" {
		logger.Error("Name is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "name field is required",
		}
	}

	channel := models.CampaignChannel(req.Channel)
	if req.Channel == "" {
		channel = models.ChannelEmail
	} else if !slices.Contains(validChannels, channel) {
		logger.Error("Invalid channel.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "channel field must be one of EMAIL, GOOGLE_ADS, META_ADS, LINKEDIN_ADS, WHATSAPP",
		}
	}

	// The guard runs immediately before the insert. Not atomic with it;
	// the cap is a soft limit.
	decision, err := billing.CheckLimit(db.Conn, org.ID, billing.ResourceCampaign)
	if err != nil {
		logger.Errorf("Failed to check campaign limit: %v", err)
		return echo.ErrInternalServerError
	}
	if !decision.Allowed {
		logger.Infof("Campaign creation denied by plan limit.")
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: decision.Reason,
		}
	}

	count := db.Conn.Where("name = ? AND organization_id = ?", req.Name, org.ID).First(&models.Campaign{}).RowsAffected
	if count > 0 {
		logger.Errorf("Duplicate campaign name detected.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "You already have a campaign with this name. Please try another one.",
		}
	}

	campaign := models.Campaign{
		Name:           req.Name,
		Description:    req.Description,
		Channel:        channel,
		BudgetCents:    req.BudgetCents,
		OrganizationID: org.ID,
	}

	if err := db.Conn.Create(&campaign).Error; err != nil {
		logger.Errorf("Failed to create campaign: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Campaign created successfully.")
	return c.JSON(http.StatusCreated, CreateCampaignResponse{
		CampaignDetails: campaignDetails(campaign),
		Message:         "Campaign created successfully",
	})
}

// GetAllCampaignsHandler godoc
// @Summary      List campaigns
// @Description  Lists the organization's campaigns, newest first, paginated.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        page       query  int  false  "Page number (default 1)"
// @Param        page_size  query  int  false  "Page size (default 20, max 100)"
// @Success      200 {object} CampaignListResponse "Campaigns retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/ [get]
func GetAllCampaignsHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	page := 1
	pageSize := 20
	if v := c.QueryParam("page"); v != "" {
		if err := echo.QueryParamsBinder(c).Int("page", &page).BindError(); err != nil || page < 1 {
			page = 1
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if err := echo.QueryParamsBinder(c).Int("page_size", &pageSize).BindError(); err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}
	}

	var total int64
	if err := db.Conn.Model(&models.Campaign{}).Where("organization_id = ?", org.ID).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count campaigns: %v", err)
		return echo.ErrInternalServerError
	}

	var campaigns []models.Campaign
	err = db.Conn.Where("organization_id = ?", org.ID).
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&campaigns).Error
	if err != nil {
		logger.Errorf("Failed to fetch campaigns: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]CampaignDetails, 0, len(campaigns))
	for _, campaign := range campaigns {
		data = append(data, campaignDetails(campaign))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return c.JSON(http.StatusOK, CampaignListResponse{
		Data: data,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Message: "Campaigns retrieved successfully",
	})
}

// GetCampaignHandler godoc
// @Summary      Get a campaign
// @Description  Retrieves one campaign by id.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        campaign_id  path  string  true  "Campaign id"
// @Success      200 {object} CampaignDetails "Campaign retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      404 {object} echo.HTTPError     "Campaign not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/{campaign_id} [get]
func GetCampaignHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	campaign, httpErr := findCampaign(c, org.ID)
	if httpErr != nil {
		return httpErr
	}

	return c.JSON(http.StatusOK, campaignDetails(*campaign))
}

// UpdateCampaignHandler godoc
// @Summary      Update a campaign
// @Description  Updates a campaign's name, description, status or budget.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        campaign_id  path  string  true  "Campaign id"
// @Param        updateCampaignRequest  body  UpdateCampaignRequest  true  "Update campaign request payload"
// @Success      200 {object} CampaignDetails "Campaign updated successfully"
// @Failure      400 {object} echo.HTTPError     "Bad request"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      404 {object} echo.HTTPError     "Campaign not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/{campaign_id} [put]
func UpdateCampaignHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	campaign, httpErr := findCampaign(c, org.ID)
	if httpErr != nil {
		return httpErr
	}

	var req UpdateCampaignRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid update campaign request payload:", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload, please ensure it is well-formed and has content-type application/json header",
		}
	}

	previousStatus := campaign.Status

	if req.Name != "" {
		campaign.Name = req.Name
	}
	if req.Description != nil {
		campaign.Description = req.Description
	}
	if req.BudgetCents != nil {
		campaign.BudgetCents = *req.BudgetCents
	}
	if req.Status != nil {
		status := models.CampaignStatus(*req.Status)
		if !slices.Contains(validStatuses, status) {
			logger.Error("Invalid status.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "status field must be one of DRAFT, ACTIVE, PAUSED, COMPLETED",
			}
		}
		campaign.Status = status
	}

	if err := db.Conn.Save(campaign).Error; err != nil {
		logger.Errorf("Failed to update campaign: %v", err)
		return echo.ErrInternalServerError
	}

	if campaign.Status != previousStatus {
		notification := models.Notification{
			Kind:           models.NotificationCampaignUpdate,
			Title:          fmt.Sprintf("Campaign %s is now %s", campaign.Name, campaign.Status),
			OrganizationID: org.ID,
		}
		if err := db.Conn.Create(&notification).Error; err != nil {
			logger.Errorf("Failed to record campaign update notification: %v", err)
		}
	}

	return c.JSON(http.StatusOK, campaignDetails(*campaign))
}

// DeleteCampaignHandler godoc
// @Summary      Delete a campaign
// @Description  Deletes one campaign by id.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        campaign_id  path  string  true  "Campaign id"
// @Success      200 {object} GenericResponse "Campaign deleted successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      404 {object} echo.HTTPError     "Campaign not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/{campaign_id} [delete]
func DeleteCampaignHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	campaign, httpErr := findCampaign(c, org.ID)
	if httpErr != nil {
		return httpErr
	}

	if err := db.Conn.Delete(campaign).Error; err != nil {
		logger.Errorf("Failed to delete campaign: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Campaign deleted successfully"})
}

func findCampaign(c echo.Context, organizationID uint) (*models.Campaign, *echo.HTTPError) {
	logger := c.Logger()
	campaignID := c.Param("campaign_id")

	campaign := models.Campaign{}
	err := db.Conn.Where("campaign_id = ? AND organization_id = ?", campaignID, organizationID).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("Campaign not found.")
			return nil, &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Campaign not found",
			}
		}
		logger.Errorf("Failed to fetch campaign: %v", err)
		return nil, &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}
	return &campaign, nil
}
