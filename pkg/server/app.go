package server

import (
	"fmt"

	"github.com/arnavshah/roster-optimizer/pkg/auth"
	"github.com/arnavshah/roster-optimizer/pkg/config"
	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/arnavshah/roster-optimizer/pkg/handlers"
	"github.com/arnavshah/roster-optimizer/pkg/optimizer"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// App bundles the database and the configured router
type App struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// NewApp connects to the database, migrates it, seeds the admin account
// and builds the router.
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	h := NewHandler(db, cfg, logger)
	return &App{DB: db, Router: NewRouter(h, cfg.RequestTimeout)}, nil
}

// NewHandler builds the route handlers over an open database
func NewHandler(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *handlers.Handler {
	store := database.NewStore(db, logger)
	return &handlers.Handler{
		DB:               db,
		Optimizer:        optimizer.New(store, cfg.OptimizerOptions(), logger),
		Auth:             auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Logger:           logger.With().Str("component", "http").Logger(),
		DefaultRateLimit: cfg.DefaultRateLimit,
	}
}
