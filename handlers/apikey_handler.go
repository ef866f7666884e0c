// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"time"

	"adflow-server/crypto"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CreateAPIKeyHandler godoc
// @Summary      Create an API key
// @Description  Creates a new API key for the authenticated user. The full key is only returned once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        createAPIKeyRequest  body  CreateAPIKeyRequest  true  "Create API key request payload"
// @Success      201 {object} CreateAPIKeyResponse "API key created successfully"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      409 {object} echo.HTTPError     "Duplicate key name"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/api-keys [post]
func CreateAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req CreateAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create API key request payload:", err)
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

	count := db.Conn.Where("name = ? AND user_id = ?", req.Name, user.ID).First(&models.APIKey{}).RowsAffected
	if count > 0 {
		logger.Errorf("Duplicate API key name detected.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "You already have an API key with this name. Please try another one.",
		}
	}

	// 16 random bytes hex-encoded after the prefix: 35 characters, the
	// same length the auth middleware slices off as the key id.
	keyID, err := crypto.GenerateRandomString("ak_", 16, "hex")
	if err != nil {
		logger.Errorf("Failed to generate API key id: %v", err)
		return echo.ErrInternalServerError
	}

	secret, err := crypto.GenerateRandomString("", 24, "hex")
	if err != nil {
		logger.Errorf("Failed to generate API key secret: %v", err)
		return echo.ErrInternalServerError
	}
	fullKey := keyID + secret

	newCrypto := crypto.NewCrypto()
	hashedKey, err := newCrypto.HashPassword(fullKey)
	if err != nil {
		logger.Errorf("Failed to hash API key: %v", err)
		return echo.ErrInternalServerError
	}

	apiKey := models.APIKey{
		KeyID:       keyID,
		HashedKey:   hashedKey,
		Name:        req.Name,
		Description: req.Description,
		UserID:      user.ID,
	}

	if err := db.Conn.Create(&apiKey).Error; err != nil {
		logger.Errorf("Failed to create API key: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("API key created successfully.")
	return c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		APIKey:  fullKey,
		KeyID:   apiKey.KeyID,
		Name:    apiKey.Name,
		Message: "API key created successfully. Store it securely, it will not be shown again.",
	})
}

// GetAllAPIKeyHandler godoc
// @Summary      List API keys
// @Description  Lists the authenticated user's API keys. Secrets are never returned.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} APIKeyListResponse "API keys retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/api-keys [get]
func GetAllAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var apiKeys []models.APIKey
	if err := db.Conn.Where("user_id = ?", user.ID).Order("created_at desc").Find(&apiKeys).Error; err != nil {
		logger.Errorf("Failed to fetch API keys: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]APIKeyDetails, 0, len(apiKeys))
	for _, key := range apiKeys {
		var lastUsedAt *string
		if key.LastUsedAt != nil {
			formatted := key.LastUsedAt.Format(time.RFC3339)
			lastUsedAt = &formatted
		}
		data = append(data, APIKeyDetails{
			KeyID:       key.KeyID,
			Name:        key.Name,
			Description: key.Description,
			LastUsedAt:  lastUsedAt,
			CreatedAt:   key.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, APIKeyListResponse{
		Data:    data,
		Message: "API keys retrieved successfully",
	})
}

// DeleteAPIKeyHandler godoc
// @Summary      Delete an API key
// @Description  Revokes one of the authenticated user's API keys.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        key_id  path  string  true  "Key id of the API key to delete"
// @Success      200 {object} GenericResponse "API key deleted successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      404 {object} echo.HTTPError     "API key not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/api-keys/{key_id} [delete]
func DeleteAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	keyID := c.Param("key_id")

	apiKey := models.APIKey{}
	err = db.Conn.Where("key_id = ? AND user_id = ?", keyID, user.ID).First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("API key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "API key not found",
			}
		}
		logger.Errorf("Failed to fetch API key: %v", err)
		return echo.ErrInternalServerError
	}

	if err := db.Conn.Delete(&apiKey).Error; err != nil {
		logger.Errorf("Failed to delete API key: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "API key deleted successfully"})
}
