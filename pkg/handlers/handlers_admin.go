package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/auth"
	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type keyRequest struct {
	Name      string `json:"name" binding:"required"`
	RateLimit int    `json:"rate_limit" binding:"gte=0"`
}

type limitRequest struct {
	RateLimit int `json:"rate_limit" binding:"required,gt=0"`
}

// Login exchanges operator credentials for a session token
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var user database.MasterUser
	err := h.DB.Where("username = ?", req.Username).First(&user).Error
	if err != nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		h.Logger.Warn().Str("username", req.Username).Str("ip", c.ClientIP()).Msg("operator login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(auth.TokenTTL / time.Second),
	})
}

// GenerateKey issues a signed API key for a tenant and registers it. Keys
// are derived from the name, so a revoked name cannot be issued again.
func (h *Handler) GenerateKey(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and rate_limit must not be negative"})
		return
	}
	if strings.Contains(req.Name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not contain '.'"})
		return
	}

	key := h.Auth.GenerateHMACKey(req.Name)

	var existing database.APIKey
	err := h.DB.Where(&database.APIKey{Key: key}).First(&existing).Error
	switch {
	case err == nil && existing.Revoked():
		c.JSON(http.StatusConflict, gin.H{"error": "a key with this name was revoked; choose another name"})
		return
	case err == nil:
		c.JSON(http.StatusConflict, gin.H{"error": "a key with this name already exists", "id": existing.ID})
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		h.writeError(c, err)
		return
	}

	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
		RateLimit:  req.RateLimit,
	}
	if apiKey.RateLimit == 0 {
		apiKey.RateLimit = h.rateLimit()
	}
	if err := h.DB.Create(&apiKey).Error; err != nil {
		h.writeError(c, err)
		return
	}

	h.Logger.Info().Str("operator", c.GetString("username")).Str("name", req.Name).Uint("key_id", apiKey.ID).Msg("api key issued")
	c.JSON(http.StatusCreated, gin.H{
		"id":         apiKey.ID,
		"name":       apiKey.Name,
		"key":        key,
		"rate_limit": apiKey.RateLimit,
	})
}

// ListKeys returns every registered key, newest first. Raw keys are never listed.
func (h *Handler) ListKeys(c *gin.Context) {
	query := h.DB.Order("created_at desc, id desc")
	if c.Query("include_revoked") != "true" {
		query = query.Where("revoked_at IS NULL")
	}

	var keys []database.APIKey
	if err := query.Find(&keys).Error; err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys)})
}

// RevokeKey marks a key revoked; the middleware rejects it from then on.
// The row is kept so usage history stays attached to it.
func (h *Handler) RevokeKey(c *gin.Context) {
	apiKey, ok := h.keyFromPath(c)
	if !ok {
		return
	}
	if apiKey.Revoked() {
		c.JSON(http.StatusOK, gin.H{"message": "Key already revoked", "revoked_at": apiKey.RevokedAt})
		return
	}

	now := time.Now()
	if err := h.DB.Model(apiKey).Update("revoked_at", &now).Error; err != nil {
		h.writeError(c, err)
		return
	}

	h.Logger.Info().Str("operator", c.GetString("username")).Uint("key_id", apiKey.ID).Msg("api key revoked")
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked", "revoked_at": now})
}

// UpdateKeyLimit changes the daily request limit of an active key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	var req limitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit must be a positive integer"})
		return
	}

	apiKey, ok := h.keyFromPath(c)
	if !ok {
		return
	}
	if apiKey.Revoked() {
		c.JSON(http.StatusConflict, gin.H{"error": "key is revoked"})
		return
	}

	if err := h.DB.Model(apiKey).Update("rate_limit", req.RateLimit).Error; err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": apiKey.ID, "rate_limit": req.RateLimit})
}

// GetUsage returns the last 30 days of usage for a key
func (h *Handler) GetUsage(c *gin.Context) {
	apiKey, ok := h.keyFromPath(c)
	if !ok {
		return
	}

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": apiKey, "usage": usage})
}

// keyFromPath loads the key named by the :id parameter, answering 400 or 404 itself
func (h *Handler) keyFromPath(c *gin.Context) (*database.APIKey, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key id"})
		return nil, false
	}

	var apiKey database.APIKey
	if err := h.DB.First(&apiKey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
			return nil, false
		}
		h.writeError(c, err)
		return nil, false
	}
	return &apiKey, true
}
