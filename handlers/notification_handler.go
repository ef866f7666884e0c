// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"time"

	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetNotificationsHandler godoc
// @Summary      List notifications
// @Description  Retrieves the organization's notifications, newest first.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} NotificationListResponse "Notifications retrieved successfully"
// @Failure      401 {object} echo.HTTPError            "Unauthorized"
// @Failure      500 {object} echo.HTTPError            "Internal server error"
// @Router       /v1/notifications [get]
func GetNotificationsHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var notifications []models.Notification
	if err := db.Conn.
		Where("organization_id = ?", org.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		logger.Errorf("Failed to retrieve notifications: %v", err)
		return echo.ErrInternalServerError
	}

	data := []NotificationDetails{}
	for _, notification := range notifications {
		details := NotificationDetails{
			NID:       notification.NID.String(),
			Kind:      string(notification.Kind),
			Title:     notification.Title,
			Body:      notification.Body,
			CreatedAt: notification.CreatedAt.Format(time.RFC3339),
		}
		if notification.ReadAt != nil {
			readAt := notification.ReadAt.Format(time.RFC3339)
			details.ReadAt = &readAt
		}
		data = append(data, details)
	}

	return c.JSON(http.StatusOK, NotificationListResponse{
		Data:    data,
		Message: "Notifications retrieved successfully",
	})
}

// MarkNotificationReadHandler godoc
// @Summary      Mark notification as read
// @Description  Marks a single notification as read. Marking an already-read notification is a no-op.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        id  path  string  true  "Notification ID"
// @Success      200 {object} GenericResponse "Notification marked as read"
// @Failure      401 {object} echo.HTTPError   "Unauthorized"
// @Failure      404 {object} echo.HTTPError   "Notification not found"
// @Failure      500 {object} echo.HTTPError   "Internal server error"
// @Router       /v1/notifications/{id}/read [post]
func MarkNotificationReadHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	nid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		logger.Error("Invalid notification id:", err)
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "Notification not found",
		}
	}

	var notification models.Notification
	if err := db.Conn.
		Where("nid = ? AND organization_id = ?", nid, org.ID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Notification not found",
			}
		}
		logger.Errorf("Failed to fetch notification: %v", err)
		return echo.ErrInternalServerError
	}

	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
		if err := db.Conn.Save(&notification).Error; err != nil {
			logger.Errorf("Failed to mark notification as read: %v", err)
			return echo.ErrInternalServerError
		}
	}

	return c.JSON(http.StatusOK, GenericResponse{
		Message: "Notification marked as read",
	})
}
