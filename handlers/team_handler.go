// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"time"

	"adflow-server/billing"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AddTeamMemberHandler godoc
// @Summary      Invite a team member
// @Description  Adds a member to the organization. Subject to the organization's plan limit.
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        addTeamMemberRequest  body  AddTeamMemberRequest  true  "Add team member request payload"
// @Success      201 {object} GenericResponse "Team member added successfully"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      403 {object} echo.HTTPError     "Plan limit reached"
// @Failure      409 {object} echo.HTTPError     "Member already exists"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/team/members [post]
func AddTeamMemberHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req AddTeamMemberRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid add team member request payload:", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload, please ensure it is well-formed and has content-type application/json header",
		}
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}

	role := models.RoleMember
	if req.Role != nil {
		role = models.MemberRole(*req.Role)
		if role != models.RoleOwner && role != models.RoleMember {
			logger.Error("Invalid role.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "role field must be one of OWNER, MEMBER",
			}
		}
	}

	decision, err := billing.CheckLimit(db.Conn, org.ID, billing.ResourceTeamMember)
	if err != nil {
		logger.Errorf("Failed to check team member limit: %v", err)
		return echo.ErrInternalServerError
	}
	if !decision.Allowed {
		logger.Infof("Team member addition denied by plan limit.")
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: decision.Reason,
		}
	}

	count := db.Conn.Where("email = ? AND organization_id = ?", req.Email, org.ID).First(&models.Membership{}).RowsAffected
	if count > 0 {
		logger.Errorf("Duplicate team member detected.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This email is already a member of your organization.",
		}
	}

	now := time.Now()
	membership := models.Membership{
		OrganizationID: org.ID,
		Email:          req.Email,
		Role:           role,
		InvitedAt:      &now,
	}

	if err := db.Conn.Create(&membership).Error; err != nil {
		logger.Errorf("Failed to create membership: %v", err)
		return echo.ErrInternalServerError
	}

	notification := models.Notification{
		Kind:           models.NotificationMemberInvited,
		Title:          "Team member invited",
		OrganizationID: org.ID,
	}
	if err := db.Conn.Create(&notification).Error; err != nil {
		logger.Errorf("Failed to record invite notification: %v", err)
	}

	logger.Infof("Team member added successfully.")
	return c.JSON(http.StatusCreated, GenericResponse{Message: "Team member added successfully"})
}

// GetTeamMembersHandler godoc
// @Summary      List team members
// @Description  Lists the organization's members.
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} TeamListResponse "Team members retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/team/members [get]
func GetTeamMembersHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var memberships []models.Membership
	if err := db.Conn.Where("organization_id = ?", org.ID).Order("created_at").Find(&memberships).Error; err != nil {
		logger.Errorf("Failed to fetch memberships: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]TeamMemberDetails, 0, len(memberships))
	for _, membership := range memberships {
		var invitedAt, acceptedAt *string
		if membership.InvitedAt != nil {
			formatted := membership.InvitedAt.Format(time.RFC3339)
			invitedAt = &formatted
		}
		if membership.AcceptedAt != nil {
			formatted := membership.AcceptedAt.Format(time.RFC3339)
			acceptedAt = &formatted
		}
		data = append(data, TeamMemberDetails{
			Email:      membership.Email,
			Role:       string(membership.Role),
			InvitedAt:  invitedAt,
			AcceptedAt: acceptedAt,
		})
	}

	return c.JSON(http.StatusOK, TeamListResponse{
		Data:    data,
		Message: "Team members retrieved successfully",
	})
}

// RemoveTeamMemberHandler godoc
// @Summary      Remove a team member
// @Description  Removes a member from the organization. The last owner cannot be removed.
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        email  path  string  true  "Email of the member to remove"
// @Success      200 {object} GenericResponse "Team member removed successfully"
// @Failure      400 {object} echo.HTTPError     "Cannot remove the last owner"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      404 {object} echo.HTTPError     "Member not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/team/members/{email} [delete]
func RemoveTeamMemberHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	email := c.Param("email")

	membership := models.Membership{}
	err = db.Conn.Where("email = ? AND organization_id = ?", email, org.ID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("Membership not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Team member not found",
			}
		}
		logger.Errorf("Failed to fetch membership: %v", err)
		return echo.ErrInternalServerError
	}

	if membership.Role == models.RoleOwner {
		var ownerCount int64
		if err := db.Conn.Model(&models.Membership{}).
			Where("organization_id = ? AND role = ?", org.ID, models.RoleOwner).
			Count(&ownerCount).Error; err != nil {
			logger.Errorf("Failed to count owners: %v", err)
			return echo.ErrInternalServerError
		}
		if ownerCount <= 1 {
			logger.Error("Attempt to remove the last owner.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "The last owner of an organization cannot be removed",
			}
		}
	}

	if err := db.Conn.Delete(&membership).Error; err != nil {
		logger.Errorf("Failed to delete membership: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Team member removed successfully"})
}
