package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/auth"
	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/arnavshah/roster-optimizer/pkg/optimizer"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB               *gorm.DB
	Optimizer        *optimizer.Service
	Auth             *auth.Authenticator
	Logger           zerolog.Logger
	DefaultRateLimit int
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key for optimizer routes, rejects
// keys that were never issued or have been revoked, and enforces the key's
// daily request limit
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c.GetHeader("Authorization"))
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		name, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		var apiKey database.APIKey
		if err := h.DB.Where(&database.APIKey{Key: key}).First(&apiKey).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key not registered"})
				return
			}
			h.Logger.Error().Err(err).Msg("api key lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not verify API key"})
			return
		}
		if apiKey.Revoked() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}

		used, err := h.requestsToday(apiKey.ID)
		if err != nil {
			h.Logger.Error().Err(err).Uint("key_id", apiKey.ID).Msg("usage lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not check rate limit"})
			return
		}
		if apiKey.RateLimit > 0 && used >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
			return
		}

		now := time.Now()
		h.DB.Model(&apiKey).Update("last_used", &now)

		c.Set("apiKey", &apiKey)
		c.Set("keyName", name)
		c.Next()
	}
}

func (h *Handler) requestsToday(keyID uint) (int, error) {
	var usage database.APIUsage
	err := h.DB.Where("key_id = ? AND date = ?", keyID, time.Now().Format("2006-01-02")).Limit(1).Find(&usage).Error
	return usage.RequestCount, err
}

func (h *Handler) rateLimit() int {
	if h.DefaultRateLimit > 0 {
		return h.DefaultRateLimit
	}
	return 10000
}

func bearer(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, optimizer.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, optimizer.ErrUpstream):
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("upstream read failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not load roster data"})
	default:
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// Roster returns the active caregivers and clients eligible for optimization
func (h *Handler) Roster(c *gin.Context) {
	roster, err := h.Optimizer.Roster(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (h *Handler) runFromRequest(c *gin.Context) (*models.RunRequest, *models.RunResult, bool) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	res, err := h.Optimizer.Run(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return nil, nil, false
	}

	h.RecordUsage(c, len(req.Caregivers), len(req.Clients), len(res.Proposals))
	return &req, res, true
}

// RunOptimization proposes assignments without changing any schedule
func (h *Handler) RunOptimization(c *gin.Context) {
	_, res, ok := h.runFromRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

// RunOptimizationCSV runs the optimizer and renders the proposals as CSV
func (h *Handler) RunOptimizationCSV(c *gin.Context) {
	_, res, ok := h.runFromRequest(c)
	if !ok {
		return
	}

	var out strings.Builder
	writer := csv.NewWriter(&out)
	writer.Write([]string{"caregiver_id", "caregiver_name", "client_id", "client_name", "day", "start", "end", "hours", "has_conflict"})
	for _, p := range res.Proposals {
		writer.Write([]string{
			p.CaregiverID,
			p.CaregiverName,
			p.ClientID,
			p.ClientName,
			p.DayName,
			p.StartTime,
			p.EndTime,
			fmt.Sprintf("%.2f", p.Hours),
			strconv.FormatBool(p.HasConflict),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="proposals.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out.String()))
}

// ApplyProposals persists the proposals an operator accepted
func (h *Handler) ApplyProposals(c *gin.Context) {
	var req models.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Proposals) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one proposal is required"})
		return
	}

	c.JSON(http.StatusOK, h.Optimizer.Apply(c.Request.Context(), req.Proposals))
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, caregivers, clients, proposals int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("request_count + ?", 1),
			"total_caregivers": gorm.Expr("total_caregivers + ?", caregivers),
			"total_clients":    gorm.Expr("total_clients + ?", clients),
			"total_proposals":  gorm.Expr("total_proposals + ?", proposals),
		}),
	}).Create(&database.APIUsage{
		KeyID:           apiKey.ID,
		Date:            today,
		RequestCount:    1,
		TotalCaregivers: caregivers,
		TotalClients:    clients,
		TotalProposals:  proposals,
	}).Error
	if err != nil {
		h.Logger.Warn().Err(err).Uint("key_id", apiKey.ID).Msg("could not record usage")
	}
}
