// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"time"

	"adflow-server/billing"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"
	"adflow-server/rabbitmq"

	"github.com/labstack/echo/v4"
)

// SendCampaignEmailsHandler godoc
// @Summary      Queue campaign emails for dispatch
// @Description  Writes one email log entry per recipient and publishes dispatch jobs to the organization's queue. Subject to the monthly email limit.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        campaign_id  path  string  true  "Campaign id"
// @Param        sendCampaignEmailsRequest  body  SendCampaignEmailsRequest  true  "Send campaign emails request payload"
// @Success      202 {object} SendCampaignEmailsResponse "Emails queued for dispatch"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      403 {object} echo.HTTPError     "Plan limit reached"
// @Failure      404 {object} echo.HTTPError     "Campaign not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/{campaign_id}/emails [post]
func SendCampaignEmailsHandler(c echo.Context) error {
	logger := c.Logger()

	rmqClient, err := rabbitmq.NewClient(rabbitmq.RabbitMQConfig{})
	if err != nil {
		logger.Error("Failed to initialize RabbitMQ client:", err)
		return echo.ErrInternalServerError
	}
	defer rmqClient.Close()

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

	var req SendCampaignEmailsRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid send campaign emails request payload:", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload, please ensure it is well-formed and has content-type application/json header",
		}
	}

	if len(req.Recipients) == 0 {
		logger.Error("Recipients are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "recipients field must be a non-empty array",
		}
	}
	if req.Subject == "" {
		logger.Error("Subject is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "subject field is required",
		}
	}

	// The whole batch must fit under the remaining monthly allowance
	// before anything is logged or published: a 403 here means nothing
	// was sent, never a partial batch.
	decision, err := billing.CheckEmailBatch(db.Conn, org.ID, len(req.Recipients))
	if err != nil {
		logger.Errorf("Failed to check email limit: %v", err)
		return echo.ErrInternalServerError
	}
	if !decision.Allowed {
		logger.Infof("Email batch of %d recipients denied by plan limit.", len(req.Recipients))
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: decision.Reason,
		}
	}

	queued := 0
	for _, recipient := range req.Recipients {
		emailLog := models.EmailLog{
			Recipient:      recipient,
			Subject:        &req.Subject,
			CampaignID:     campaign.ID,
			OrganizationID: org.ID,
		}
		if err := db.Conn.Create(&emailLog).Error; err != nil {
			logger.Errorf("Failed to record email log: %v", err)
			return echo.ErrInternalServerError
		}

		job := rabbitmq.EmailJob{
			EID:        emailLog.EID.String(),
			CampaignID: campaign.CampaignID,
			Recipient:  recipient,
			Subject:    req.Subject,
			Body:       req.Body,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		routingKey := "email." + campaign.CampaignID
		if err := rmqClient.PublishEmailJob(c.Request().Context(), org.OrgID, routingKey, job); err != nil {
			logger.Errorf("Failed to publish email job: %v", err)
			if err := db.Conn.Model(&emailLog).Update("status", models.EmailFailed).Error; err != nil {
				logger.Errorf("Failed to mark email log failed: %v", err)
			}
			return echo.ErrInternalServerError
		}

		if err := db.Conn.Model(&emailLog).Update("status", models.EmailQueued).Error; err != nil {
			logger.Errorf("Failed to mark email log queued: %v", err)
		}
		queued++
	}

	logger.Infof("Queued %d campaign emails.", queued)
	return c.JSON(http.StatusAccepted, SendCampaignEmailsResponse{
		Queued:  queued,
		Message: "Emails queued for dispatch",
	})
}
